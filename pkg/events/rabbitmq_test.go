package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return m.Called(name, kind, durable).Error(0)
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, msg).Error(0)
}

func (m *mockChannel) Close() error {
	return m.Called().Error(0)
}

func TestRabbitMQPublisher_PublishRoutesByType(t *testing.T) {
	ch := new(mockChannel)
	ch.On("ExchangeDeclare", "leaddesk.events", "topic", true).Return(nil)

	var sent amqp.Publishing
	ch.On("PublishWithContext", "leaddesk.events", LeadCreated, mock.AnythingOfType("amqp091.Publishing")).
		Run(func(args mock.Arguments) { sent = args.Get(2).(amqp.Publishing) }).
		Return(nil)

	p, err := newPublisher(ch, "leaddesk.events")
	require.NoError(t, err)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	err = p.Publish(context.Background(), Event{Type: LeadCreated, LeadID: 7, OccurredAt: at})
	require.NoError(t, err)

	ch.AssertExpectations(t)
	assert.Equal(t, "application/json", sent.ContentType)
	assert.Equal(t, amqp.Persistent, sent.DeliveryMode)

	var decoded Event
	require.NoError(t, json.Unmarshal(sent.Body, &decoded))
	assert.Equal(t, int64(7), decoded.LeadID)
	assert.Equal(t, LeadCreated, decoded.Type)
}

func TestRabbitMQPublisher_DeclareFailure(t *testing.T) {
	ch := new(mockChannel)
	ch.On("ExchangeDeclare", "x", "topic", true).Return(errors.New("access refused"))

	_, err := newPublisher(ch, "x")
	assert.ErrorContains(t, err, "access refused")
}

func TestRabbitMQPublisher_PublishError(t *testing.T) {
	ch := new(mockChannel)
	ch.On("ExchangeDeclare", "x", "topic", true).Return(nil)
	ch.On("PublishWithContext", "x", LeadDeleted, mock.Anything).Return(amqp.ErrClosed)
	ch.On("Close").Return(nil)

	p, err := newPublisher(ch, "x")
	require.NoError(t, err)

	err = p.Publish(context.Background(), Event{Type: LeadDeleted, LeadID: 1})
	assert.ErrorIs(t, err, amqp.ErrClosed)
	assert.NoError(t, p.Close())
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Publish(context.Background(), Event{Type: LeadCreated}))
	require.NoError(t, Noop{}.Publish(context.Background(), Event{Type: LeadCreated}))

	r.Err = errors.New("down")
	assert.Error(t, r.Publish(context.Background(), Event{Type: LeadDeleted}))
	assert.Equal(t, []string{LeadCreated}, r.Types())
}
