package model

import (
	"fmt"
	"time"
)

// TxOutputType describes how an output was classified.
type TxOutputType string

const (
	TxOutputUndefined             TxOutputType = "UNDEFINED"
	TxOutputBsq                   TxOutputType = "BSQ_OUTPUT"
	TxOutputBtc                   TxOutputType = "BTC_OUTPUT"
	TxOutputCompReqOpReturn       TxOutputType = "COMP_REQ_OP_RETURN_OUTPUT"
	TxOutputIssuanceCandidate     TxOutputType = "ISSUANCE_CANDIDATE_OUTPUT"
	TxOutputBlindVoteLockStake    TxOutputType = "BLIND_VOTE_LOCK_STAKE_OUTPUT"
	TxOutputBlindVoteOpReturn     TxOutputType = "BLIND_VOTE_OP_RETURN_OUTPUT"
	TxOutputVoteRevealUnlockStake TxOutputType = "VOTE_REVEAL_UNLOCK_STAKE_OUTPUT"
	TxOutputVoteRevealOpReturn    TxOutputType = "VOTE_REVEAL_OP_RETURN_OUTPUT"
)

// TxOutput is a single output of a Tx. OpReturnData is nil unless the output
// script is an OP_RETURN script.
type TxOutput struct {
	TxID         string
	Index        uint32
	Value        int64
	BlockHeight  uint64
	BlockTime    time.Time
	Addresses    []string
	OpReturnData []byte
	Verified     bool
	Unspent      bool
	Type         TxOutputType
}

// Outpoint returns the reference other transactions use to spend the output.
func (o *TxOutput) Outpoint() Outpoint {
	return Outpoint{TxID: o.TxID, Index: o.Index}
}

// Outpoint identifies an output by transaction id and index.
type Outpoint struct {
	TxID  string
	Index uint32
}

func (p Outpoint) String() string {
	return fmt.Sprintf("%s:%d", p.TxID, p.Index)
}
