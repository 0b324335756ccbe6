package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"efficiensa/internal/models"
)

type fakeChannel struct {
	declared   []string
	published  []amqp.Publishing
	exchanges  []string
	publishErr error
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.declared = append(f.declared, name+":"+kind)
	return nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.exchanges = append(f.exchanges, exchange)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_DeclaresFanoutExchange(t *testing.T) {
	ch := &fakeChannel{}
	_, err := newPublisher(ch, "kds_status")
	require.NoError(t, err)
	assert.Equal(t, []string{"kds_status:fanout"}, ch.declared)
}

func TestPublisher_PublishesJSON(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newPublisher(ch, "kds_status")
	require.NoError(t, err)

	msg := StatusChanged{
		OrderID:     "abc",
		OrderNumber: "1241",
		Event:       "bump",
		OldStatus:   models.StatusQueue,
		NewStatus:   models.StatusCooking,
		Priority:    models.PriorityNormal,
		Timestamp:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.PublishStatusChanged(context.Background(), msg))

	require.Len(t, ch.published, 1)
	assert.Equal(t, "kds_status", ch.exchanges[0])
	assert.Equal(t, "application/json", ch.published[0].ContentType)
	assert.Equal(t, "bump", ch.published[0].Type)

	var decoded StatusChanged
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &decoded))
	assert.Equal(t, models.StatusCooking, decoded.NewStatus)
	assert.Equal(t, "1241", decoded.OrderNumber)
}

func TestPublisher_WrapsPublishError(t *testing.T) {
	ch := &fakeChannel{publishErr: errors.New("channel closed")}
	p, err := newPublisher(ch, "kds_status")
	require.NoError(t, err)

	err = p.PublishStatusChanged(context.Background(), StatusChanged{})
	assert.ErrorIs(t, err, ch.publishErr)
}

func TestNoop(t *testing.T) {
	p := Noop()
	assert.NoError(t, p.PublishStatusChanged(context.Background(), StatusChanged{}))
	assert.NoError(t, p.Close())
}
