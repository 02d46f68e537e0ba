package consensus

import (
	"fmt"

	"github.com/goodnatureofminers/bsq-parser/internal/bsq/opreturn"
	"go.uber.org/zap"
)

// NewEngine assembles the verifier chain for params: the implemented OP_RETURN
// verifiers, the dispatcher, the output classifier and the transaction
// verifier, all sharing store.
func NewEngine(params Params, store UnspentIndex, metrics Metrics, logger *zap.Logger) (*BlockVerifier, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid consensus params: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	dispatcher, err := NewOpReturnDispatcher(map[opreturn.Type]OpReturnVerifier{
		opreturn.CompensationRequest: NewCompensationRequestVerifier(params),
		opreturn.BlindVote:           NewBlindVoteVerifier(params),
		opreturn.VoteReveal:          NewVoteRevealVerifier(params),
	}, metrics, logger.Named("opReturnDispatcher"))
	if err != nil {
		return nil, err
	}
	classifier, err := NewTxOutputClassifier(store, dispatcher, metrics, logger.Named("outputClassifier"))
	if err != nil {
		return nil, err
	}
	txVerifier, err := NewBsqTxVerifier(params, store, classifier, metrics, logger.Named("txVerifier"))
	if err != nil {
		return nil, err
	}
	return NewBlockVerifier(txVerifier, store, metrics)
}
