package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

type fakeChannel struct {
	mu     sync.Mutex
	msgs   []amqp.Publishing
	keys   []string
	exch   []string
	err    error
	closed int
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.exch = append(f.exch, exchange)
	f.keys = append(f.keys, key)
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeChannel) Close() error { f.closed++; return nil }

func TestAMQP_Publish_EncodesEnvelope(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQP{ch: ch, exchange: "hostel.events"}

	ev := New(PaymentRecorded, map[string]any{"email": "a@x.io", "amount": 1999})
	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(ch.msgs) != 1 || ch.exch[0] != "hostel.events" || ch.keys[0] != PaymentRecorded {
		t.Fatalf("unexpected publish: exch=%v keys=%v", ch.exch, ch.keys)
	}
	msg := ch.msgs[0]
	if msg.ContentType != "application/json" || msg.MessageId != ev.ID || msg.DeliveryMode != amqp.Persistent {
		t.Fatalf("unexpected headers: %+v", msg)
	}
	var got Event
	if err := json.Unmarshal(msg.Body, &got); err != nil {
		t.Fatalf("body: %v", err)
	}
	if got.Type != PaymentRecorded || got.ID != ev.ID {
		t.Fatalf("decoded = %+v", got)
	}
}

func TestAMQP_Publish_PropagatesError(t *testing.T) {
	boom := errors.New("channel closed")
	p := &AMQP{ch: &fakeChannel{err: boom}, exchange: "x"}
	if err := p.Publish(context.Background(), New(MealCreated, nil)); !errors.Is(err, boom) {
		t.Fatalf("err = %v; want %v", err, boom)
	}
}

func TestAMQP_Close_Idempotent_AndRejectsPublish(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQP{ch: ch, exchange: "x"}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if ch.closed != 1 {
		t.Fatalf("channel closed %d times; want 1", ch.closed)
	}
	if err := p.Publish(context.Background(), New(MealCreated, nil)); !errors.Is(err, ErrClosed) {
		t.Fatalf("Publish after Close err = %v; want ErrClosed", err)
	}
}

func TestAMQP_Publish_Concurrent(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQP{ch: ch, exchange: "x"}
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Publish(context.Background(), New(MealRequestCreated, i))
		}()
	}
	wg.Wait()
	if len(ch.msgs) != 20 {
		t.Fatalf("published %d; want 20", len(ch.msgs))
	}
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.Publish(context.Background(), New(MealCreated, nil)); err != nil {
		t.Fatalf("Nop.Publish: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Nop.Close: %v", err)
	}
}
