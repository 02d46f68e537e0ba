// Package unspent keeps the index of unspent BSQ outputs.
package unspent

import (
	"sync"

	"github.com/dolthub/swiss"
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
)

const defaultCapacity = 1 << 16

// Store is an in-memory index of unspent BSQ outputs keyed by outpoint. It is
// safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	outputs *swiss.Map[model.Outpoint, *model.TxOutput]
	balance int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{outputs: swiss.NewMap[model.Outpoint, *model.TxOutput](defaultCapacity)}
}

// AddUnspentTxOutput indexes output. An output already indexed is replaced.
func (s *Store) AddUnspentTxOutput(output *model.TxOutput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.outputs.Get(output.Outpoint()); ok {
		s.balance -= prev.Value
	}
	s.outputs.Put(output.Outpoint(), output)
	s.balance += output.Value
}

// SpendTxOutput removes the output at outpoint and returns it.
func (s *Store) SpendTxOutput(outpoint model.Outpoint) (*model.TxOutput, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	output, ok := s.outputs.Get(outpoint)
	if !ok {
		return nil, false
	}
	s.outputs.Delete(outpoint)
	s.balance -= output.Value
	return output, true
}

// Count returns the number of unspent outputs.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.outputs.Count()
}

// Balance returns the total value of all unspent outputs.
func (s *Store) Balance() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance
}
