package ringsig

import (
	"errors"

	"github.com/taurusgroup/linkable-ring-sig/pkg/keys"
	"github.com/taurusgroup/linkable-ring-sig/pkg/math/curve"
)

var (
	ErrMissingParameter   = errors.New("ringsig: missing parameter")
	ErrSignerNotInRing    = errors.New("ringsig: signer is not part of the ring")
	ErrMalformedSignature = errors.New("ringsig: malformed signature")

	ErrInvalidKeyFormat   = keys.ErrInvalidKeyFormat
	ErrCurveUninitialized = curve.ErrCurveUninitialized
)
