package progress

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestHubPublishWithoutSubscribersIsDropped(t *testing.T) {
	h := NewHub()
	h.Accept("nobody listens") // не должно блокировать

	sub := h.Subscribe()
	defer sub.Close()
	h.Accept("first")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	line, ok := sub.Next(ctx)
	if !ok || line != "first" {
		t.Fatalf("Next = %q, %v; want first", line, ok)
	}
}

func TestHubFanOutUntilDone(t *testing.T) {
	h := NewHub()
	a, b := h.Subscribe(), h.Subscribe()
	defer a.Close()
	defer b.Close()

	for _, l := range []string{"one", "two", Done, "after"} {
		h.Accept(l)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for _, sub := range []*Subscription{a, b} {
		var got []string
		for l := range sub.Lines(ctx) {
			got = append(got, l)
		}
		if len(got) != 3 || got[0] != "one" || got[2] != Done {
			t.Errorf("lines = %v", got)
		}
	}
}

func TestHubSlowSubscriberDoesNotBlockPublisher(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe()
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			h.Accept("line")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on unread subscriber")
	}
}

func TestSubscriptionCloseUnblocksReader(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, ok := sub.Next(context.Background()); ok {
			t.Error("Next returned a line after Close")
		}
	}()
	time.Sleep(10 * time.Millisecond)
	sub.Close()
	sub.Close()
	wg.Wait()

	if n := h.Subscribers(); n != 0 {
		t.Errorf("subscribers = %d after Close", n)
	}
	h.Accept("after close")
}
