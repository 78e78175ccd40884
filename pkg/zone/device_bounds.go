package zone

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// deviceBounds converts zone relative offsets to absolute offsets on
// the underlying storage, and rejects transfers that fall outside the
// device.
type deviceBounds struct {
	zoneSizeBytes int64
	zoneCount     uint64
}

func (db *deviceBounds) getSizeBytes() int64 {
	return db.zoneSizeBytes * int64(db.zoneCount)
}

func (db *deviceBounds) getAbsoluteOffset(zoneAddress Address, offsetBytes, sizeBytes int64) (int64, error) {
	if uint64(zoneAddress) >= db.zoneCount {
		return 0, status.Errorf(codes.InvalidArgument, "Zone %d does not exist, as the device only has %d zones", zoneAddress, db.zoneCount)
	}
	if offsetBytes < 0 {
		return 0, status.Errorf(codes.InvalidArgument, "Negative offset %d", offsetBytes)
	}
	absoluteOffsetBytes := int64(zoneAddress)*db.zoneSizeBytes + offsetBytes
	if absoluteOffsetBytes+sizeBytes > db.getSizeBytes() {
		return 0, status.Errorf(
			codes.OutOfRange,
			"Transfer of %d bytes at offset %d of zone %d exceeds the device size of %d bytes",
			sizeBytes,
			offsetBytes,
			zoneAddress,
			db.getSizeBytes())
	}
	return absoluteOffsetBytes, nil
}
