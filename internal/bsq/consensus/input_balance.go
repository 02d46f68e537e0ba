package consensus

import "fmt"

// InputBalance is the BSQ still available from a transaction's inputs while
// its outputs are classified. It belongs to a single verification pass.
type InputBalance struct {
	value int64
}

// NewInputBalance returns a balance starting at value.
func NewInputBalance(value int64) *InputBalance {
	return &InputBalance{value: value}
}

func (b *InputBalance) Value() int64 {
	return b.value
}

func (b *InputBalance) IsPositive() bool {
	return b.value > 0
}

func (b *InputBalance) IsZero() bool {
	return b.value == 0
}

// Add credits the value of a spent BSQ input.
func (b *InputBalance) Add(value int64) {
	b.value += value
}

// Subtract funds an output from the balance. The balance never goes below zero.
func (b *InputBalance) Subtract(value int64) error {
	if value > b.value {
		return fmt.Errorf("subtract %d from %d: %w", value, b.value, ErrNegativeInputBalance)
	}
	b.value -= value
	return nil
}
