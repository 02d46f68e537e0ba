package consensus

import (
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/opreturn"
)

// type byte, version byte and the 20 byte hash of the request payload.
const compensationRequestDataLength = 22

// CompensationRequestVerifier handles compensation request OP_RETURNs. The
// output the burnt fee could not fully fund becomes the issuance candidate.
type CompensationRequestVerifier struct {
	params Params
}

func NewCompensationRequestVerifier(params Params) *CompensationRequestVerifier {
	return &CompensationRequestVerifier{params: params}
}

func (v *CompensationRequestVerifier) Verify(data []byte, bsqFee int64, blockHeight uint64, state *MutableState) bool {
	return state.CompRequestIssuanceOutputCandidate() != nil &&
		len(data) == compensationRequestDataLength &&
		data[1] == v.params.CompensationRequestVersion &&
		bsqFee == v.params.CompensationRequestFee &&
		v.params.Phase(blockHeight) == PhaseCompensationRequest
}

func (v *CompensationRequestVerifier) ApplyStateChange(tx *model.Tx, output *model.TxOutput, state *MutableState) {
	output.Type = model.TxOutputCompReqOpReturn
	if candidate := state.CompRequestIssuanceOutputCandidate(); candidate != nil {
		candidate.Type = model.TxOutputIssuanceCandidate
	}
	tx.TxType = model.TxTypeCompensationRequest
	state.SetVerifierData(opreturn.CompensationRequest, payloadHash(output.OpReturnData))
}

// payloadHash returns a copy of the 20 byte hash following type and version.
func payloadHash(data []byte) []byte {
	if len(data) < 22 {
		return nil
	}
	return append([]byte(nil), data[2:22]...)
}
