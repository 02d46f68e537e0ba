// Package parser drives BSQ verification over the chain, from the genesis
// height to the node tip and onward as new blocks arrive.
package parser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
	"github.com/goodnatureofminers/bsq-parser/internal/clock"
	"go.uber.org/zap"
)

// ErrBlockVerification marks a failure the parser cannot retry: the in-memory
// BSQ state may already hold part of the failed block.
var ErrBlockVerification = errors.New("block verification failed")

// Service fetches blocks ahead concurrently, verifies them strictly in height
// order and hands the results to the block writer.
type Service struct {
	logger            *zap.Logger
	network           model.Network
	metrics           Metrics
	source            BlockSource
	fetcher           BlockFetcher
	verifier          BlockVerifier
	blockWriter       BlockWriter
	sleep             func(context.Context, time.Duration) error
	blockSignal       <-chan struct{}
	idleSleepDuration time.Duration
	backoff           clock.Backoff
	chunkSize         uint64
	nextHeight        uint64
}

// NewService builds a Service that starts verifying at startHeight. A non-nil
// blockSignal cuts the idle wait short when the node announces a new block.
func NewService(
	repo ClickhouseRepository,
	source BlockSource,
	verifier BlockVerifier,
	metrics Metrics,
	network model.Network,
	startHeight uint64,
	blockSignal <-chan struct{},
	logger *zap.Logger,
) (*Service, error) {
	switch {
	case repo == nil:
		return nil, errors.New("clickhouse repository is required")
	case source == nil:
		return nil, errors.New("block source is required")
	case verifier == nil:
		return nil, errors.New("block verifier is required")
	case metrics == nil:
		return nil, errors.New("parser metrics is required")
	}
	logger = logger.With(zap.String("network", string(network)))

	bw, err := newBlockWriter(repo, logger.Named("blockWriter"))
	if err != nil {
		return nil, fmt.Errorf("init block writer: %w", err)
	}

	return &Service{
		logger:            logger,
		network:           network,
		metrics:           metrics,
		source:            source,
		verifier:          verifier,
		blockWriter:       bw,
		sleep:             clock.Sleep,
		blockSignal:       blockSignal,
		idleSleepDuration: idleSleepDuration,
		backoff:           clock.Backoff{Initial: retryInitialDelay, Max: retryMaxDelay},
		chunkSize:         defaultChunkSize,
		nextHeight:        startHeight,
		fetcher: &chunkFetcher{
			workerCount: defaultWorkerCount,
			source:      source,
			logger:      logger.Named("chunkFetcher"),
		},
	}, nil
}

// Run parses until the context is canceled or a block fails verification.
func (s *Service) Run(ctx context.Context) error {
	s.blockWriter.Start(ctx)
	defer s.blockWriter.Stop()

	s.logger.Info("parser started", zap.Uint64("start_height", s.nextHeight))
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := s.run(ctx)
		if err == nil {
			s.backoff.Reset()
			continue
		}
		if errors.Is(err, ErrBlockVerification) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		delay := s.backoff.Next()
		s.logger.Warn("run iteration failed, backing off", zap.Error(err), zap.Duration("sleep", delay))
		if sleepErr := s.sleep(ctx, delay); sleepErr != nil {
			return sleepErr
		}
	}
}

func (s *Service) run(ctx context.Context) error {
	started := time.Now()
	latest, err := s.source.LatestHeight(ctx)
	s.metrics.ObserveFetchLatest(err, started)
	if err != nil {
		return fmt.Errorf("fetch latest height: %w", err)
	}

	if s.nextHeight > latest {
		s.logger.Debug("caught up with node tip; sleeping",
			zap.Uint64("tip", latest),
			zap.Duration("sleep", s.idleSleepDuration),
		)
		return s.wait(ctx, s.idleSleepDuration)
	}

	heights := heightRange(s.nextHeight, latest, s.chunkSize)
	started = time.Now()
	err = s.processChunk(ctx, heights)
	s.metrics.ObserveProcessChunk(err, len(heights), started)
	return err
}

func (s *Service) wait(ctx context.Context, d time.Duration) error {
	if s.blockSignal == nil {
		return s.sleep(ctx, d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.blockSignal:
		return nil
	case <-timer.C:
		return nil
	}
}

func (s *Service) processChunk(ctx context.Context, heights []uint64) error {
	blocks, err := s.fetcher.Fetch(ctx, heights)
	if err != nil {
		return fmt.Errorf("fetch blocks %d-%d: %w", heights[0], heights[len(heights)-1], err)
	}

	bsqTxs := 0
	for _, block := range blocks {
		n, err := s.processBlock(ctx, block)
		if err != nil {
			return err
		}
		bsqTxs += n
	}

	s.logger.Info("chunk parsed",
		zap.Uint64("from", heights[0]),
		zap.Uint64("to", heights[len(heights)-1]),
		zap.Int("bsq_txs", bsqTxs),
	)
	return nil
}

func (s *Service) processBlock(ctx context.Context, block *model.Block) (int, error) {
	if block == nil || block.Height != s.nextHeight {
		return 0, fmt.Errorf("expected block at height %d", s.nextHeight)
	}

	started := time.Now()
	insert, err := s.verifier.VerifyBlock(block)
	s.metrics.ObserveProcessHeight(err, block.Height, started)
	if err != nil {
		return 0, fmt.Errorf("%w: height %d: %w", ErrBlockVerification, block.Height, err)
	}
	s.nextHeight = block.Height + 1

	if err := s.blockWriter.WriteBlock(ctx, insert); err != nil {
		return 0, fmt.Errorf("write block height %d: %w", block.Height, err)
	}
	return len(insert.Txs), nil
}

// heightRange returns at most size consecutive heights from first up to last.
func heightRange(first, last, size uint64) []uint64 {
	if size == 0 || first > last {
		return nil
	}
	end := last
	if last-first >= size {
		end = first + size - 1
	}
	heights := make([]uint64, 0, end-first+1)
	for h := first; h <= end; h++ {
		heights = append(heights, h)
	}
	return heights
}
