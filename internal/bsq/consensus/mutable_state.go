package consensus

import (
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/opreturn"
)

// MutableState carries output references from earlier outputs of a
// transaction to the OP_RETURN output that decides what they mean. A fresh
// state is created for every transaction and dropped after its last output.
type MutableState struct {
	bsqOutput                          *model.TxOutput
	blindVoteStakeOutput               *model.TxOutput
	compRequestIssuanceOutputCandidate *model.TxOutput
	verifierData                       map[opreturn.Type]any
}

func NewMutableState() *MutableState {
	return &MutableState{}
}

// BsqOutput is the most recent output fully funded from BSQ inputs.
func (s *MutableState) BsqOutput() *model.TxOutput {
	return s.bsqOutput
}

// BlindVoteStakeOutput is the first output fully funded from BSQ inputs.
func (s *MutableState) BlindVoteStakeOutput() *model.TxOutput {
	return s.blindVoteStakeOutput
}

// CompRequestIssuanceOutputCandidate is the first output the remaining
// balance could not fully fund.
func (s *MutableState) CompRequestIssuanceOutputCandidate() *model.TxOutput {
	return s.compRequestIssuanceOutputCandidate
}

func (s *MutableState) setBsqOutput(output *model.TxOutput) {
	s.bsqOutput = output
}

// setBlindVoteStakeOutput records output unless a stake output is already set.
func (s *MutableState) setBlindVoteStakeOutput(output *model.TxOutput) bool {
	if s.blindVoteStakeOutput != nil {
		return false
	}
	s.blindVoteStakeOutput = output
	return true
}

// setCompRequestIssuanceOutputCandidate records output unless a candidate is
// already set.
func (s *MutableState) setCompRequestIssuanceOutputCandidate(output *model.TxOutput) bool {
	if s.compRequestIssuanceOutputCandidate != nil {
		return false
	}
	s.compRequestIssuanceOutputCandidate = output
	return true
}

// SetVerifierData stores data owned by the verifier of t. The classifier
// never reads it.
func (s *MutableState) SetVerifierData(t opreturn.Type, data any) {
	if s.verifierData == nil {
		s.verifierData = make(map[opreturn.Type]any)
	}
	s.verifierData[t] = data
}

func (s *MutableState) VerifierData(t opreturn.Type) (any, bool) {
	data, ok := s.verifierData[t]
	return data, ok
}
