package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/BearBump/ZapShift/internal/broker/messages"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// IngestConsumer reads carrier tracking updates from the ingest topic.
type IngestConsumer struct {
	r messageReader
}

func NewIngestConsumer(brokers []string, topic, groupID string) *IngestConsumer {
	cfg := kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
	}
	if groupID != "" {
		cfg.GroupTopics = []string{topic}
	} else {
		cfg.Topic = topic
	}
	return &IngestConsumer{
		r: kafka.NewReader(cfg),
	}
}

func newIngestConsumerWithReader(r messageReader) *IngestConsumer {
	return &IngestConsumer{r: r}
}

func (c *IngestConsumer) Close() error {
	return c.r.Close()
}

// HandlerError reports the ingest message the handler refused. That message
// is not committed, so the group resumes from it after a restart.
type HandlerError struct {
	Topic      string
	Partition  int
	Offset     int64
	TrackingID string
	Err        error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handle tracking %q at %s/%d@%d: %v", e.TrackingID, e.Topic, e.Partition, e.Offset, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// Consume decodes every fetched message into a TrackingIngest and commits it
// once handle returns nil. Payloads that do not decode are logged and
// committed past. It returns ctx.Err() once ctx is done.
func (c *IngestConsumer) Consume(ctx context.Context, handle func(context.Context, messages.TrackingIngest) error) error {
	for {
		msg, err := c.r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, "fetch tracking ingest message")
		}

		var m messages.TrackingIngest
		if err := json.Unmarshal(msg.Value, &m); err != nil {
			slog.Warn("dropping undecodable tracking ingest message",
				"partition", msg.Partition, "offset", msg.Offset, "key", string(msg.Key), "error", err.Error())
		} else if err := handle(ctx, m); err != nil {
			return &HandlerError{
				Topic:      msg.Topic,
				Partition:  msg.Partition,
				Offset:     msg.Offset,
				TrackingID: m.TrackingID,
				Err:        err,
			}
		}

		if err := c.r.CommitMessages(ctx, msg); err != nil {
			return errors.Wrap(err, "commit tracking ingest message")
		}
	}
}
