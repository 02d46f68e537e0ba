// Package model defines domain models for BSQ transaction parsing.
package model

import "time"

// TxType is the DAO classification of a transaction. It is assigned
// provisionally while outputs are classified and may be overwritten by a later
// output or by the OP_RETURN phase.
type TxType string

const (
	TxTypeUndefined           TxType = "UNDEFINED"
	TxTypeGenesis             TxType = "GENESIS"
	TxTypeTransferBsq         TxType = "TRANSFER_BSQ"
	TxTypePayTradeFee         TxType = "PAY_TRADE_FEE"
	TxTypeCompensationRequest TxType = "COMPENSATION_REQUEST"
	TxTypeBlindVote           TxType = "BLIND_VOTE"
	TxTypeVoteReveal          TxType = "VOTE_REVEAL"
)

// Tx is a transaction fetched from the chain together with its BSQ verdict.
type Tx struct {
	ID          string
	BlockHeight uint64
	BlockHash   string
	BlockTime   time.Time
	Inputs      []TxInput
	Outputs     []*TxOutput
	TxType      TxType
	BurntFee    int64
}

// TxInput references the output spent by a transaction input.
type TxInput struct {
	PrevTxID  string
	PrevIndex uint32
}

// Outpoint returns the previous output reference of the input.
func (i TxInput) Outpoint() Outpoint {
	return Outpoint{TxID: i.PrevTxID, Index: i.PrevIndex}
}

// IsLastOutput reports whether index addresses the structurally last output.
func (t *Tx) IsLastOutput(index int) bool {
	return index == len(t.Outputs)-1
}
