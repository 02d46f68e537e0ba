package consensus

import "errors"

var (
	// ErrNegativeInputBalance means input summation upstream produced a
	// negative BSQ balance. Verification of the transaction must stop.
	ErrNegativeInputBalance = errors.New("bsq input balance must not be negative")
	// ErrMissingOpReturnData means an OP_RETURN output reached the dispatcher
	// without a payload.
	ErrMissingOpReturnData = errors.New("opReturnData must not be nil")
	// ErrNegativeOutputValue means the chain adapter produced an output with a
	// negative value.
	ErrNegativeOutputValue = errors.New("output value must not be negative")
)
