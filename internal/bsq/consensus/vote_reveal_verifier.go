package consensus

import (
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/opreturn"
)

// type byte, version byte, 20 byte blind vote hash and 16 byte secret key.
const voteRevealDataLength = 38

// VoteReveal is what a vote reveal OP_RETURN discloses.
type VoteReveal struct {
	BlindVoteHash []byte
	SecretKey     []byte
}

// VoteRevealVerifier handles vote reveal OP_RETURNs, which unlock the stake of
// an earlier blind vote.
type VoteRevealVerifier struct {
	params Params
}

func NewVoteRevealVerifier(params Params) *VoteRevealVerifier {
	return &VoteRevealVerifier{params: params}
}

func (v *VoteRevealVerifier) Verify(data []byte, _ int64, blockHeight uint64, _ *MutableState) bool {
	return len(data) == voteRevealDataLength &&
		data[1] == v.params.VoteRevealVersion &&
		v.params.Phase(blockHeight) == PhaseVoteReveal
}

func (v *VoteRevealVerifier) ApplyStateChange(tx *model.Tx, output *model.TxOutput, state *MutableState) {
	output.Type = model.TxOutputVoteRevealOpReturn
	if stake := state.BlindVoteStakeOutput(); stake != nil {
		stake.Type = model.TxOutputVoteRevealUnlockStake
	}
	tx.TxType = model.TxTypeVoteReveal
	if data := output.OpReturnData; len(data) == voteRevealDataLength {
		state.SetVerifierData(opreturn.VoteReveal, VoteReveal{
			BlindVoteHash: payloadHash(data),
			SecretKey:     append([]byte(nil), data[22:]...),
		})
	}
}
