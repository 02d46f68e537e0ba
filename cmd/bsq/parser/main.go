// Package main runs the BSQ parser: it replays BSQ consensus from the genesis
// block and exports verified transactions to ClickHouse.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/bitcoin"
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/consensus"
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/repository/clickhouse"
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/service/parser"
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/unspent"
	"github.com/goodnatureofminers/bsq-parser/internal/metrics"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type config struct {
	ClickhouseDSN string        `long:"clickhouse-dsn" env:"BSQ_PARSER_CLICKHOUSE_DSN" description:"ClickHouse DSN" required:"true"`
	Network       model.Network `long:"network" env:"BSQ_PARSER_NETWORK" description:"network name" default:"mainnet"`
	RPCURL        string        `long:"rpc-url" env:"BSQ_PARSER_RPC_URL" description:"Bitcoin RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser       string        `long:"rpc-user" env:"BSQ_PARSER_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword   string        `long:"rpc-password" env:"BSQ_PARSER_RPC_PASSWORD" description:"Bitcoin RPC password"`
	ZMQBlockAddr  string        `long:"zmq-block-addr" env:"BSQ_PARSER_ZMQ_BLOCK_ADDR" description:"node zmqpubhashblock endpoint; empty polls only"`
	MetricsAddr   string        `long:"metrics-addr" env:"BSQ_PARSER_METRICS_ADDR" description:"address for metrics server" default:":2112"`
	LogJSON       bool          `long:"log-json" env:"BSQ_PARSER_LOG_JSON" description:"log in JSON with production settings"`

	Genesis struct {
		TxID   string `long:"tx-id" env:"TX_ID" description:"BSQ genesis transaction id" required:"true"`
		Height uint64 `long:"height" env:"HEIGHT" description:"BSQ genesis block height" required:"true"`
	} `group:"genesis" namespace:"genesis" env-namespace:"BSQ_PARSER_GENESIS"`

	DAO struct {
		CompensationRequestFee int64  `long:"compensation-request-fee" env:"COMPENSATION_REQUEST_FEE" description:"BSQ fee of a compensation request" default:"100"`
		BlindVoteFee           int64  `long:"blind-vote-fee" env:"BLIND_VOTE_FEE" description:"BSQ fee of a blind vote" default:"200"`
		CompensationRequest    uint64 `long:"phase-compensation-request" env:"PHASE_COMPENSATION_REQUEST" description:"compensation request phase length in blocks" default:"3312"`
		Break1                 uint64 `long:"phase-break1" env:"PHASE_BREAK1" description:"first break length in blocks" default:"10"`
		BlindVote              uint64 `long:"phase-blind-vote" env:"PHASE_BLIND_VOTE" description:"blind vote phase length in blocks" default:"576"`
		Break2                 uint64 `long:"phase-break2" env:"PHASE_BREAK2" description:"second break length in blocks" default:"10"`
		VoteReveal             uint64 `long:"phase-vote-reveal" env:"PHASE_VOTE_REVEAL" description:"vote reveal phase length in blocks" default:"288"`
		Break3                 uint64 `long:"phase-break3" env:"PHASE_BREAK3" description:"third break length in blocks" default:"10"`
		VoteResult             uint64 `long:"phase-vote-result" env:"PHASE_VOTE_RESULT" description:"vote result phase length in blocks" default:"2"`
	} `group:"dao" namespace:"dao" env-namespace:"BSQ_PARSER_DAO"`
}

func (c config) consensusParams() consensus.Params {
	p := consensus.DefaultParams()
	p.GenesisTxID = c.Genesis.TxID
	p.GenesisHeight = c.Genesis.Height
	p.CompensationRequestFee = c.DAO.CompensationRequestFee
	p.BlindVoteFee = c.DAO.BlindVoteFee
	p.Phases = consensus.PhaseDurations{
		CompensationRequest: c.DAO.CompensationRequest,
		Break1:              c.DAO.Break1,
		BlindVote:           c.DAO.BlindVote,
		Break2:              c.DAO.Break2,
		VoteReveal:          c.DAO.VoteReveal,
		Break3:              c.DAO.Break3,
		VoteResult:          c.DAO.VoteResult,
	}
	return p
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := flags.Parse(&cfg); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "failed to parse flags: %v\n", err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.LogJSON)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("bsq parser failed", zap.Error(err))
	}
}

func newLogger(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	params := cfg.consensusParams()
	if err := params.Validate(); err != nil {
		return fmt.Errorf("consensus params: %w", err)
	}

	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, cfg.Network, metrics.NewClickhouseRepository())
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("close repository", zap.Error(err))
		}
	}()

	if height, ok, err := repo.ExportedHeight(ctx); err != nil {
		logger.Warn("read exported height", zap.Error(err))
	} else if ok {
		logger.Info("re-parsing over exported blocks",
			zap.Uint64("exported_height", height),
			zap.Uint64("genesis_height", params.GenesisHeight),
		)
	}

	rpcClient, err := newRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
	if err != nil {
		return fmt.Errorf("init btc rpc client: %w", err)
	}
	defer func() {
		rpcClient.Shutdown()
		rpcClient.WaitForShutdown()
	}()

	decoder, err := bitcoin.NewScriptDecoder(cfg.Network)
	if err != nil {
		return fmt.Errorf("init script decoder: %w", err)
	}
	source, err := bitcoin.NewBlockSource(
		bitcoin.NewObservedRPCClient(rpcClient, metrics.NewRPCClient(cfg.Network)),
		bitcoin.NewTxConverter(decoder),
		cfg.Network,
	)
	if err != nil {
		return fmt.Errorf("init block source: %w", err)
	}

	engine, err := consensus.NewEngine(params, unspent.NewStore(), metrics.NewConsensus(cfg.Network), logger.Named("consensus"))
	if err != nil {
		return fmt.Errorf("init consensus: %w", err)
	}

	blockSignal, err := bitcoin.SubscribeBlocks(ctx, cfg.ZMQBlockAddr, logger.Named("zmq"))
	if err != nil {
		return fmt.Errorf("init block signal: %w", err)
	}

	svc, err := parser.NewService(
		repo,
		source,
		engine,
		metrics.NewParser(cfg.Network),
		cfg.Network,
		params.GenesisHeight,
		blockSignal,
		logger.Named("parser"),
	)
	if err != nil {
		return err
	}
	return svc.Run(ctx)
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}

func newRPCClient(rawURL, user, password string) (*rpcclient.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	return rpcclient.New(&rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
}
