package consensus

import (
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/opreturn"
)

const blindVoteDataLength = 22

// BlindVoteVerifier handles blind vote OP_RETURNs. The first BSQ output of the
// transaction is the locked vote stake.
type BlindVoteVerifier struct {
	params Params
}

func NewBlindVoteVerifier(params Params) *BlindVoteVerifier {
	return &BlindVoteVerifier{params: params}
}

func (v *BlindVoteVerifier) Verify(data []byte, bsqFee int64, blockHeight uint64, state *MutableState) bool {
	return state.BlindVoteStakeOutput() != nil &&
		len(data) == blindVoteDataLength &&
		data[1] == v.params.BlindVoteVersion &&
		bsqFee == v.params.BlindVoteFee &&
		v.params.Phase(blockHeight) == PhaseBlindVote
}

func (v *BlindVoteVerifier) ApplyStateChange(tx *model.Tx, output *model.TxOutput, state *MutableState) {
	output.Type = model.TxOutputBlindVoteOpReturn
	if stake := state.BlindVoteStakeOutput(); stake != nil {
		stake.Type = model.TxOutputBlindVoteLockStake
	}
	tx.TxType = model.TxTypeBlindVote
	state.SetVerifierData(opreturn.BlindVote, payloadHash(output.OpReturnData))
}
