package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubPublisher struct {
	id       string
	typ      string
	err      error
	closeErr error
	calls    int
	closed   bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}
func (s *stubPublisher) Close() error {
	s.closed = true
	return s.closeErr
}

type plainPublisher struct{ calls int }

func (p *plainPublisher) ID() string   { return "plain" }
func (p *plainPublisher) Type() string { return TypeHTTP }
func (p *plainPublisher) Publish(context.Context, Event) error {
	p.calls++
	return nil
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	bad := &stubPublisher{id: "bad", typ: TypeSQS, err: errors.New("queue gone")}
	fanout := NewFanout([]Publisher{
		&stubPublisher{id: "ok", typ: TypeHTTP},
		nil,
		bad,
	})
	if fanout.Size() != 2 {
		t.Fatalf("expected nil publisher to be skipped, size %d", fanout.Size())
	}

	count, err := fanout.Publish(context.Background(), Event{FeedID: "nyt"})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil || !strings.Contains(err.Error(), "sqs publisher[bad]") {
		t.Fatalf("expected aggregated error naming the sink, got %v", err)
	}
	if bad.calls != 1 {
		t.Fatalf("failing publisher should still be called once")
	}
}

func TestFanoutStopsOnCancelledContext(t *testing.T) {
	pub := &stubPublisher{id: "ok", typ: TypeHTTP}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count, err := NewFanout([]Publisher{pub}).Publish(ctx, Event{})
	if count != 0 || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got count=%d err=%v", count, err)
	}
	if pub.calls != 0 {
		t.Fatalf("publisher should not be called after cancellation")
	}
}

func TestFanoutCloseReleasesClosers(t *testing.T) {
	a := &stubPublisher{id: "a", typ: TypeKafka}
	b := &stubPublisher{id: "b", typ: TypePubSub, closeErr: errors.New("flush failed")}
	plain := &plainPublisher{}

	err := NewFanout([]Publisher{a, plain, b}).Close()
	if !a.closed || !b.closed {
		t.Fatalf("expected all closers to be closed")
	}
	if err == nil || !strings.Contains(err.Error(), "flush failed") {
		t.Fatalf("expected close error, got %v", err)
	}
}

func TestNilFanout(t *testing.T) {
	var f *Fanout
	if n, err := f.Publish(context.Background(), Event{}); n != 0 || err != nil {
		t.Fatalf("nil fanout should be a no-op, got %d %v", n, err)
	}
	if f.Size() != 0 || f.Close() != nil {
		t.Fatalf("nil fanout should report zero size and close cleanly")
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	pubs, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{
		{ID: "hook", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com", Method: "POST", TimeoutSeconds: 1}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 || pubs[0].Type() != TypeHTTP || pubs[0].ID() != "hook" {
		t.Fatalf("unexpected publishers %#v", pubs)
	}
}

func TestBuildAllClosesBuiltPublishersOnFailure(t *testing.T) {
	first := &stubPublisher{id: "first", typ: "stub"}
	reg := NewRegistry(map[string]Builder{
		"stub": func(context.Context, PublisherConfig, Logger) (Publisher, error) { return first, nil },
	})

	_, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "first", Type: "stub"},
		{ID: "second", Type: "carrier-pigeon"},
	}, nil)
	if err == nil || !strings.Contains(err.Error(), "carrier-pigeon") {
		t.Fatalf("expected unknown type error, got %v", err)
	}
	if !first.closed {
		t.Fatalf("expected already built publisher to be closed")
	}
}
