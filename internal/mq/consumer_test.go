package mq

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAcknowledger фиксирует ack/nack вызовы брокера.
type fakeAcknowledger struct {
	acks    int
	nacks   int
	requeue bool
}

func (f *fakeAcknowledger) Ack(_ uint64, _ bool) error {
	f.acks++
	return nil
}

func (f *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacks++
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(_ uint64, _ bool) error {
	return errors.New("unexpected reject")
}

func newConsumer(ackMode AckMode, handler Handler) *Consumer {
	return NewConsumer(nil, testLogger(), ConsumerConfig{
		Queue:   "orders.test",
		AckMode: ackMode,
		Handler: handler,
	})
}

func rawDelivery(ack amqp.Acknowledger, body string) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(body)}
}

func TestConsumer_OnPublish_AckAfterSuccess(t *testing.T) {
	handled := 0
	c := newConsumer(AckOnPublish, func(_ context.Context, d *Delivery) error {
		handled++
		if string(d.Body()) != `{"ok": true}` {
			t.Errorf("handler got wrong body: %s", d.Body())
		}
		return nil
	})

	ack := &fakeAcknowledger{}
	c.handleDelivery(context.Background(), rawDelivery(ack, `{"ok": true}`))

	if handled != 1 {
		t.Fatalf("expected handler to run once, got %d", handled)
	}
	if ack.acks != 1 || ack.nacks != 0 {
		t.Errorf("expected ack after success, got acks=%d nacks=%d", ack.acks, ack.nacks)
	}
}

func TestConsumer_OnPublish_RequeueOnHandlerError(t *testing.T) {
	c := newConsumer(AckOnPublish, func(_ context.Context, _ *Delivery) error {
		return errors.New("publish failed")
	})

	ack := &fakeAcknowledger{}
	c.handleDelivery(context.Background(), rawDelivery(ack, `{}`))

	if ack.nacks != 1 || ack.acks != 0 {
		t.Fatalf("expected nack on handler error, got acks=%d nacks=%d", ack.acks, ack.nacks)
	}
	// Приказ возвращается в очередь, не уходит в никуда
	if !ack.requeue {
		t.Error("expected nack with requeue=true")
	}
}

func TestConsumer_OnPublish_DroppedMessageAcked(t *testing.T) {
	// Обработчик выбрасывает недекодируемое сообщение сам
	// и возвращает nil — для consumer'а это успех
	c := newConsumer(AckOnPublish, func(_ context.Context, _ *Delivery) error {
		return nil
	})

	ack := &fakeAcknowledger{}
	c.handleDelivery(context.Background(), rawDelivery(ack, "not an order"))

	// Drop подтверждается: повторная доставка малформленного
	// приказа не сделает его валидным
	if ack.acks != 1 || ack.nacks != 0 {
		t.Errorf("dropped message must be acked, got acks=%d nacks=%d", ack.acks, ack.nacks)
	}
}

func TestConsumer_AutoAck_NoBrokerCalls(t *testing.T) {
	c := newConsumer(AckAuto, func(_ context.Context, _ *Delivery) error {
		return errors.New("handler error")
	})

	ack := &fakeAcknowledger{}
	c.handleDelivery(context.Background(), rawDelivery(ack, `{}`))

	// В auto-режиме брокер подтвердил доставку сам; ручные
	// ack/nack здесь были бы протокольной ошибкой
	if ack.acks != 0 || ack.nacks != 0 {
		t.Errorf("auto-ack mode must not ack/nack manually, got acks=%d nacks=%d", ack.acks, ack.nacks)
	}
}

func TestNewConsumer_DefaultsToOnPublish(t *testing.T) {
	c := newConsumer("", nil)

	if c.ackMode != AckOnPublish {
		t.Errorf("expected default ack mode on_publish, got %s", c.ackMode)
	}
}
