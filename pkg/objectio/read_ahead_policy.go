package objectio

// ReadAheadPolicy decides whether a read may extend past the committed
// length of an object. Page caches may issue anticipatory reads of a
// fixed size that touch pages which have not been written yet. Such
// reads would otherwise be rejected.
//
// Exempting reads from the committed length bound is a deliberately
// loose boundary. Data returned for pages beyond the committed length
// is undefined. Reads are never permitted past the capacity of an
// object.
type ReadAheadPolicy interface {
	IsReadAhead(transferLengthBytes int64, pageSizeBytes int) bool
}

type strictReadAheadPolicy struct{}

func (strictReadAheadPolicy) IsReadAhead(transferLengthBytes int64, pageSizeBytes int) bool {
	return false
}

// StrictReadAheadPolicy never permits reads to extend past the
// committed length of an object.
var StrictReadAheadPolicy ReadAheadPolicy = strictReadAheadPolicy{}

type pageCountReadAheadPolicy struct {
	pageCounts map[int64]struct{}
}

// NewPageCountReadAheadPolicy creates a ReadAheadPolicy that treats
// reads as read-ahead probes if their size in pages exactly matches one
// of the provided page counts.
func NewPageCountReadAheadPolicy(pageCounts []int64) ReadAheadPolicy {
	if len(pageCounts) == 0 {
		return StrictReadAheadPolicy
	}
	p := &pageCountReadAheadPolicy{
		pageCounts: make(map[int64]struct{}, len(pageCounts)),
	}
	for _, pageCount := range pageCounts {
		p.pageCounts[pageCount] = struct{}{}
	}
	return p
}

func (p *pageCountReadAheadPolicy) IsReadAhead(transferLengthBytes int64, pageSizeBytes int) bool {
	if transferLengthBytes%int64(pageSizeBytes) != 0 {
		return false
	}
	_, ok := p.pageCounts[transferLengthBytes/int64(pageSizeBytes)]
	return ok
}
