package queue

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

	"github.com/robinblocks/site/internal/entity"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(ctx, exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyNewSubscriber(ctx context.Context, event SubscribedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockDeclarer struct {
	mock.Mock
}

func (m *MockDeclarer) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return m.Called(name, kind, durable).Error(0)
}

func (m *MockDeclarer) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	ret := m.Called(name, durable, args)
	return amqp.Queue{Name: name}, ret.Error(0)
}

func (m *MockDeclarer) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	return m.Called(name, key, exchange).Error(0)
}

type fakeAck struct {
	acked   int
	nacked  int
	requeue bool
}

func (f *fakeAck) Ack(tag uint64, multiple bool) error {
	f.acked++
	return nil
}

func (f *fakeAck) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked++
	f.requeue = requeue
	return nil
}

func (f *fakeAck) Reject(tag uint64, requeue bool) error {
	f.nacked++
	return nil
}

type fakeConsumer struct {
	msgs chan amqp.Delivery
	err  error
}

func (f *fakeConsumer) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	return f.msgs, f.err
}

func TestNewSubscribedEvent(t *testing.T) {
	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	ev := NewSubscribedEvent(entity.NewSubscriber(" A@B.COM ", "Jo", ""), at)

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "a@b.com", ev.Email)
	assert.Equal(t, "Jo", ev.FirstName)
	assert.Equal(t, entity.ContactSource, ev.Source)
	assert.Equal(t, time.UTC, ev.SubscribedAt.Location())
	assert.True(t, at.Equal(ev.SubscribedAt))
}

func TestPublishSubscribed(t *testing.T) {
	pub := new(MockPublisher)
	ev := NewSubscribedEvent(entity.NewSubscriber("a@b.com", "", ""), time.Now())

	pub.On("PublishWithContext", mock.Anything, ExchangeName, RoutingKey, false, false,
		mock.MatchedBy(func(msg amqp.Publishing) bool {
			var got SubscribedEvent
			if err := json.Unmarshal(msg.Body, &got); err != nil {
				return false
			}
			return msg.DeliveryMode == amqp.Persistent &&
				msg.ContentType == "application/json" &&
				msg.MessageId == ev.ID &&
				got.Email == "a@b.com"
		}),
	).Return(nil)

	err := NewProducer(pub).PublishSubscribed(context.Background(), ev)
	assert.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestPublishSubscribedWrapsError(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(amqp.ErrClosed)

	err := NewProducer(pub).PublishSubscribed(context.Background(), SubscribedEvent{ID: "1"})
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestSetupTopologyDeclaresDeadLetterFirst(t *testing.T) {
	d := new(MockDeclarer)
	d.On("ExchangeDeclare", DLXName, "direct", true).Return(nil).Once()
	d.On("QueueDeclare", DLQName, true, amqp.Table(nil)).Return(nil).Once()
	d.On("QueueBind", DLQName, RoutingKey, DLXName).Return(nil).Once()
	d.On("ExchangeDeclare", ExchangeName, "direct", true).Return(nil).Once()
	d.On("QueueDeclare", QueueName, true, mock.MatchedBy(func(args amqp.Table) bool {
		return args["x-dead-letter-exchange"] == DLXName
	})).Return(nil).Once()
	d.On("QueueBind", QueueName, RoutingKey, ExchangeName).Return(nil).Once()

	require.NoError(t, setupTopology(d))
	d.AssertExpectations(t)
}

func TestSetupTopologyStopsOnError(t *testing.T) {
	d := new(MockDeclarer)
	d.On("ExchangeDeclare", DLXName, "direct", true).Return(errors.New("access refused"))

	assert.Error(t, setupTopology(d))
	d.AssertNotCalled(t, "QueueDeclare", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkerAcksOnSuccess(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("NotifyNewSubscriber", mock.Anything, mock.MatchedBy(func(ev SubscribedEvent) bool {
		return ev.Email == "a@b.com"
	})).Return(nil)

	ack := &fakeAck{}
	body, _ := json.Marshal(SubscribedEvent{ID: "ev-1", Email: "a@b.com"})

	NewWorker(nil, notifier, nil).handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: body})

	assert.Equal(t, 1, ack.acked)
	assert.Zero(t, ack.nacked)
	notifier.AssertExpectations(t)
}

func TestWorkerDeadLettersMalformedMessages(t *testing.T) {
	notifier := new(MockNotifier)
	ack := &fakeAck{}

	w := NewWorker(nil, notifier, nil)
	w.handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("not json")})
	w.handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte(`{"id":"x"}`)})

	assert.Equal(t, 2, ack.nacked)
	assert.False(t, ack.requeue)
	notifier.AssertNotCalled(t, "NotifyNewSubscriber", mock.Anything, mock.Anything)
}

func TestWorkerDeadLettersFailedNotifications(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("NotifyNewSubscriber", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	ack := &fakeAck{}
	body, _ := json.Marshal(SubscribedEvent{ID: "ev-1", Email: "a@b.com"})

	NewWorker(nil, notifier, nil).handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: body})

	assert.Equal(t, 1, ack.nacked)
	assert.Zero(t, ack.acked)
}

func TestWorkerStartStopsWithContext(t *testing.T) {
	called := make(chan struct{}, 1)
	notifier := new(MockNotifier)
	notifier.On("NotifyNewSubscriber", mock.Anything, mock.Anything).Return(nil).
		Run(func(mock.Arguments) { called <- struct{}{} })

	msgs := make(chan amqp.Delivery, 1)
	ack := &fakeAck{}
	body, _ := json.Marshal(SubscribedEvent{ID: "ev-1", Email: "a@b.com"})
	msgs <- amqp.Delivery{Acknowledger: ack, Body: body}

	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(&fakeConsumer{msgs: msgs}, notifier, nil)

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, QueueName) }()

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("message was not consumed")
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorkerStartReportsClosedChannel(t *testing.T) {
	msgs := make(chan amqp.Delivery)
	close(msgs)

	err := NewWorker(&fakeConsumer{msgs: msgs}, new(MockNotifier), nil).Start(context.Background(), QueueName)
	assert.Error(t, err)
}
