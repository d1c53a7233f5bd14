package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeReader feeds a fixed message sequence and records commits.
type fakeReader struct {
	messages  []kafkago.Message
	next      int
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if r.next >= len(r.messages) {
		return kafkago.Message{}, context.Canceled
	}
	msg := r.messages[r.next]
	r.next++
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func newTestConsumer(reader *fakeReader) *Consumer {
	return &Consumer{
		reader:       reader,
		logger:       zap.NewNop(),
		retryBackoff: time.Millisecond,
	}
}

func TestConsume_CommitsOnlyHandledMessages(t *testing.T) {
	reader := &fakeReader{messages: []kafkago.Message{
		{Topic: "t", Offset: 1},
		{Topic: "t", Offset: 2},
	}}
	consumer := newTestConsumer(reader)

	var handled []int64
	err := consumer.Consume(context.Background(), func(_ context.Context, msg kafkago.Message) error {
		handled = append(handled, msg.Offset)
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []int64{1, 2}, handled)
	assert.Equal(t, []int64{1, 2}, reader.committed)
}

// A failing handler must not let the consumer advance: committing a later
// offset would implicitly commit the failed one and drop the event.
func TestConsume_RetriesFailedMessageWithoutAdvancing(t *testing.T) {
	reader := &fakeReader{messages: []kafkago.Message{
		{Topic: "t", Offset: 1},
		{Topic: "t", Offset: 2},
	}}
	consumer := newTestConsumer(reader)

	attempts := 0
	var handled []int64
	err := consumer.Consume(context.Background(), func(_ context.Context, msg kafkago.Message) error {
		handled = append(handled, msg.Offset)
		if msg.Offset == 1 {
			attempts++
			if attempts < 3 {
				return errors.New("transient storage failure")
			}
		}
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []int64{1, 1, 1, 2}, handled, "failed message must be retried before the next is fetched")
	assert.Equal(t, []int64{1, 2}, reader.committed, "nothing may be committed past an unhandled offset")
}

func TestConsume_StopsRetryingOnContextCancel(t *testing.T) {
	reader := &fakeReader{messages: []kafkago.Message{
		{Topic: "t", Offset: 1},
	}}
	consumer := newTestConsumer(reader)

	ctx, cancel := context.WithCancel(context.Background())
	err := consumer.Consume(ctx, func(_ context.Context, _ kafkago.Message) error {
		cancel()
		return errors.New("transient storage failure")
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reader.committed)
}
