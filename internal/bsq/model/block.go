package model

import "time"

// Block is a block fetched from the chain with its transactions in block order.
type Block struct {
	Network Network
	Height  uint64
	Hash    string
	Time    time.Time
	Txs     []*Tx
}

// InsertBlock groups a block with its BSQ transactions and every output
// touched while verifying it, for batch insertion.
type InsertBlock struct {
	Block   Block
	Txs     []*Tx
	Outputs []TxOutput
}

// Network is the chain network a parser runs against.
type Network string

var (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Regtest Network = "regtest"
)
