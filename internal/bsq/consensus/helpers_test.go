package consensus

import (
	"github.com/golang/mock/gomock"
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
)

const testGenesisHeight = 100

// testParams use a 24 block cycle starting at height 100:
// 100-109 compensation request, 111-115 blind vote, 117-121 vote reveal.
func testParams() Params {
	p := DefaultParams()
	p.GenesisTxID = "genesis"
	p.GenesisHeight = testGenesisHeight
	p.Phases = PhaseDurations{
		CompensationRequest: 10,
		Break1:              1,
		BlindVote:           5,
		Break2:              1,
		VoteReveal:          5,
		Break3:              1,
		VoteResult:          1,
	}
	return p
}

func anyMetrics(ctrl *gomock.Controller) *MockMetrics {
	m := NewMockMetrics(ctrl)
	m.EXPECT().ObserveOutput(gomock.Any()).AnyTimes()
	m.EXPECT().ObserveOpReturn(gomock.Any(), gomock.Any()).AnyTimes()
	m.EXPECT().ObserveTx(gomock.Any()).AnyTimes()
	m.EXPECT().ObserveUnspent(gomock.Any(), gomock.Any()).AnyTimes()
	return m
}

func newTx(id string, values ...int64) *model.Tx {
	tx := &model.Tx{ID: id, TxType: model.TxTypeUndefined}
	for i, v := range values {
		tx.Outputs = append(tx.Outputs, &model.TxOutput{
			TxID:  id,
			Index: uint32(i),
			Value: v,
			Type:  model.TxOutputUndefined,
		})
	}
	return tx
}

// withOpReturn turns the last output of tx into an OP_RETURN output.
func withOpReturn(tx *model.Tx, data []byte) *model.Tx {
	last := tx.Outputs[len(tx.Outputs)-1]
	last.Value = 0
	last.OpReturnData = data
	return tx
}

func opReturnData(t byte, version byte, length int) []byte {
	data := make([]byte, length)
	data[0] = t
	if length > 1 {
		data[1] = version
	}
	for i := 2; i < length; i++ {
		data[i] = byte(i)
	}
	return data
}
