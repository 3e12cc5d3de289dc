package params

const (
	SecParam = 256
	SecBytes = SecParam / 8

	// BytesScalar is the size of a P-256 scalar, and of a raw challenge digest.
	BytesScalar = SecBytes
	// BytesCoordinate is the size of one affine coordinate of a P-256 point.
	BytesCoordinate = SecBytes
	// BytesPoint is the size of a SEC1 uncompressed point: 0x04 ∥ x ∥ y.
	BytesPoint = 1 + 2*BytesCoordinate

	// HexScalar is the number of hex digits used when serializing scalars and coordinates.
	HexScalar = 2 * BytesScalar

	// CurveTag is the curve identifier carried by ring public keys.
	CurveTag = "p256"
	// JWKCurve is the named curve expected in JWK input.
	JWKCurve = "P-256"

	// MinRingSize is the smallest ring a signature can be created over.
	MinRingSize = 2
)
