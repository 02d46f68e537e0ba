package bitcoin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-zeromq/zmq4"
	"go.uber.org/zap"
)

const hashBlockTopic = "hashblock"

// SubscribeBlocks connects to the node's ZMQ publisher and returns a channel
// that is signaled whenever the node announces a new block. Signals are
// coalesced: a slow reader sees at most one pending notification. An empty
// addr disables notifications and returns a nil channel.
func SubscribeBlocks(ctx context.Context, addr string, logger *zap.Logger) (<-chan struct{}, error) {
	if addr == "" {
		return nil, nil
	}

	sub := zmq4.NewSub(ctx)
	if err := sub.Dial(addr); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("dial zmq %s: %w", addr, err)
	}
	if err := sub.SetOption(zmq4.OptionSubscribe, hashBlockTopic); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", hashBlockTopic, err)
	}

	notify := make(chan struct{}, 1)
	go func() {
		defer sub.Close()
		for {
			msg, err := sub.Recv()
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				logger.Warn("zmq recv failed", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}
			if len(msg.Frames) < 2 || string(msg.Frames[0]) != hashBlockTopic {
				logger.Warn("skip malformed zmq message", zap.Int("parts", len(msg.Frames)))
				continue
			}

			select {
			case notify <- struct{}{}:
			default:
			}
		}
	}()

	return notify, nil
}
