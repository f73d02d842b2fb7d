package dose

import "errors"

// ErrInvalidConfiguration is returned when simulation parameters cannot
// describe a valid run (no spots, no layers, non-positive period, an empty
// position axis and so on). It is fatal to the run.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ErrInvalidOrder is returned when a delivery order is not a permutation of
// the spot indices.
var ErrInvalidOrder = errors.New("invalid delivery order")
