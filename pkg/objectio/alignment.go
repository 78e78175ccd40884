package objectio

import (
	"strings"
	"unsafe"
)

// AlignmentFault is a set of flags describing in which way buffers
// provided to a transfer violate page alignment requirements. Address
// and length problems are reported separately, so that diagnostics can
// tell them apart without scanning the buffers again.
type AlignmentFault uint8

const (
	// AlignmentFaultAddress is set if at least one buffer does not
	// start at a page boundary.
	AlignmentFaultAddress AlignmentFault = 1 << iota
	// AlignmentFaultLength is set if the length of at least one
	// buffer is not a multiple of the page size.
	AlignmentFaultLength
)

func (f AlignmentFault) String() string {
	if f == 0 {
		return "none"
	}
	var faults []string
	if f&AlignmentFaultAddress != 0 {
		faults = append(faults, "address")
	}
	if f&AlignmentFaultLength != 0 {
		faults = append(faults, "length")
	}
	return strings.Join(faults, "|")
}

// GetTransferLengthAndAlignment computes the total length of a list of
// buffers, and checks whether all of them are page aligned, both in
// terms of address and length. The page size must be a power of two.
func GetTransferLengthAndAlignment(buffers [][]byte, pageSizeBytes int) (int64, AlignmentFault) {
	pageMask := pageSizeBytes - 1
	var lengthBytes int64
	var fault AlignmentFault
	for _, buffer := range buffers {
		lengthBytes += int64(len(buffer))
		if uintptr(unsafe.Pointer(unsafe.SliceData(buffer)))&uintptr(pageMask) != 0 {
			fault |= AlignmentFaultAddress
		}
		if len(buffer)&pageMask != 0 {
			fault |= AlignmentFaultLength
		}
	}
	return lengthBytes, fault
}

// NewPageAlignedBuffer allocates a buffer that is suitable for
// transfers to and from block objects. The buffer starts at a page
// boundary and spans a given number of pages.
func NewPageAlignedBuffer(pageCount, pageSizeBytes int) []byte {
	b := make([]byte, (pageCount+1)*pageSizeBytes)
	start := (pageSizeBytes - int(uintptr(unsafe.Pointer(unsafe.SliceData(b)))&uintptr(pageSizeBytes-1))) & (pageSizeBytes - 1)
	end := start + pageCount*pageSizeBytes
	return b[start:end:end]
}

// splitIntoPages converts a list of page aligned buffers to a list that
// contains exactly one vector per page. Vectors refer to the original
// buffers, meaning no data is copied.
func splitIntoPages(buffers [][]byte, lengthBytes, offsetBytes int64, pageSizeBytes int) [][]byte {
	if lengthBytes%int64(pageSizeBytes) != 0 || offsetBytes%int64(pageSizeBytes) != 0 {
		panic("Attempted to submit transfer with unaligned length or offset")
	}
	pageCount := lengthBytes / int64(pageSizeBytes)
	pages := make([][]byte, 0, pageCount)
	for _, buffer := range buffers {
		for len(buffer) > 0 {
			pages = append(pages, buffer[:pageSizeBytes:pageSizeBytes])
			buffer = buffer[pageSizeBytes:]
		}
	}
	if int64(len(pages)) != pageCount {
		panic("Number of vectors does not match the length of the transfer")
	}
	return pages
}
