package parser

import (
	"context"
	"time"

	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	BlockSource interface {
		LatestHeight(ctx context.Context) (uint64, error)
		FetchBlock(ctx context.Context, height uint64) (*model.Block, error)
	}
	BlockFetcher interface {
		Fetch(ctx context.Context, heights []uint64) ([]*model.Block, error)
	}
	BlockVerifier interface {
		VerifyBlock(block *model.Block) (model.InsertBlock, error)
	}
	BlockWriter interface {
		Start(ctx context.Context)
		Stop()
		WriteBlock(ctx context.Context, b model.InsertBlock) error
	}
	ClickhouseRepository interface {
		InsertBlocks(ctx context.Context, blocks []model.InsertBlock) error
		InsertTxs(ctx context.Context, txs []*model.Tx) error
		InsertTxOutputs(ctx context.Context, outputs []model.TxOutput) error
	}
	Metrics interface {
		ObserveFetchLatest(err error, started time.Time)
		ObserveProcessChunk(err error, heights int, started time.Time)
		ObserveProcessHeight(err error, height uint64, started time.Time)
	}
)
