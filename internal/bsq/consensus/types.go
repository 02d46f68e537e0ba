// Package consensus classifies the outputs of BSQ transactions.
package consensus

import (
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	UnspentTxOutputWriter interface {
		AddUnspentTxOutput(output *model.TxOutput)
	}
	UnspentTxOutputStore interface {
		AddUnspentTxOutput(output *model.TxOutput)
		SpendTxOutput(outpoint model.Outpoint) (*model.TxOutput, bool)
	}
	UnspentTxOutputStats interface {
		Count() int
		Balance() int64
	}
	// UnspentIndex is the unspent BSQ output index shared by one engine.
	UnspentIndex interface {
		UnspentTxOutputStore
		UnspentTxOutputStats
	}
	// OpReturnVerifier checks and applies one DAO OP_RETURN type.
	OpReturnVerifier interface {
		Verify(data []byte, bsqFee int64, blockHeight uint64, state *MutableState) bool
		ApplyStateChange(tx *model.Tx, output *model.TxOutput, state *MutableState)
	}
	OpReturnProcessor interface {
		Process(output *model.TxOutput, tx *model.Tx, index int, bsqFee int64, blockHeight uint64, state *MutableState) error
	}
	OutputClassifier interface {
		Classify(tx *model.Tx, output *model.TxOutput, index int, balance *InputBalance, blockHeight uint64, state *MutableState) error
	}
	TxVerifier interface {
		Verify(tx *model.Tx, blockHeight uint64) (*TxVerdict, error)
	}
	Metrics interface {
		ObserveOutput(outputType model.TxOutputType)
		ObserveOpReturn(opReturnType string, outcome string)
		ObserveTx(txType model.TxType)
		ObserveUnspent(count int, value int64)
	}
)
