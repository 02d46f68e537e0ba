package parser

import "time"

const (
	defaultWorkerCount        = 8
	defaultChunkSize   uint64 = 200

	idleSleepDuration = 10 * time.Second
	retryInitialDelay = time.Second
	retryMaxDelay     = time.Minute

	txFlushThreshold     = 1000
	outputFlushThreshold = 10_000

	blockBatcherCapacity      = 500
	blockBatcherFlushInterval = 5 * time.Second
	blockBatcherRPS           = 20
)
