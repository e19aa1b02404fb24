package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// drain collects whatever is queued on ch after a short settle period.
func drain(ch chan []byte) []string {
	time.Sleep(50 * time.Millisecond)
	var got []string
	for {
		select {
		case msg := <-ch:
			got = append(got, string(msg))
		default:
			return got
		}
	}
}

// stream runs ServeHTTP until the returned stop func is called and returns
// the recorded body.
func stream(t *testing.T, b *Broker, header ...string) (stop func() string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()
	time.Sleep(50 * time.Millisecond)

	return func() string {
		cancel()
		<-done
		return w.Body.String()
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(0)
	defer b.Close()

	ch := b.Subscribe()
	if n := b.ClientCount(); n != 1 {
		t.Fatalf("clients = %d, want 1", n)
	}
	b.Unsubscribe(ch)
	if n := b.ClientCount(); n != 0 {
		t.Fatalf("clients = %d after unsubscribe, want 0", n)
	}
}

func TestPublish_FrameFormat(t *testing.T) {
	b := NewBroker(0)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "custom", Data: map[string]string{"k": "v"}})
	b.Publish(Event{Type: "custom", Data: map[string]string{"k": "w"}})

	got := drain(ch)
	if len(got) != 2 {
		t.Fatalf("frames = %d, want 2", len(got))
	}
	want := "id: 1\nevent: custom\ndata: {\"k\":\"v\"}\n\n"
	if got[0] != want {
		t.Errorf("frame = %q, want %q", got[0], want)
	}
	if !strings.HasPrefix(got[1], "id: 2\n") {
		t.Errorf("second frame = %q", got[1])
	}
}

func TestPublishDocumentEvent_Dedupe(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Watcher and service can both report the same write.
	b.PublishDocumentEvent("converted", "a.md")
	b.PublishDocumentEvent("converted", "a.md")
	b.PublishDocumentEvent("converted", "b.md")
	b.PublishDocumentEvent("deleted", "a.md")
	b.PublishDocumentEvent("moved", "a.md")

	got := drain(ch)
	if len(got) != 3 {
		t.Fatalf("events = %d, want 3: %q", len(got), got)
	}
	if !strings.Contains(got[0], "event: document.converted") || !strings.Contains(got[0], `"path":"a.md"`) {
		t.Errorf("first event = %q", got[0])
	}
	if !strings.Contains(got[0], `"at":"`) {
		t.Errorf("timestamp missing in %q", got[0])
	}
	if !strings.Contains(got[2], "event: document.deleted") {
		t.Errorf("last event = %q", got[2])
	}
}

func TestPublishDocumentEvent_AfterWindow(t *testing.T) {
	b := NewBroker(20 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishDocumentEvent("converted", "a.md")
	time.Sleep(60 * time.Millisecond)
	b.PublishDocumentEvent("converted", "a.md")

	if got := drain(ch); len(got) != 2 {
		t.Fatalf("events = %d, want 2", len(got))
	}
}

func TestPublishDocumentEvent_ZeroDedupeBroadcastsAll(t *testing.T) {
	b := NewBroker(0)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishDocumentEvent("converted", "a.md")
	b.PublishDocumentEvent("converted", "a.md")

	if got := drain(ch); len(got) != 2 {
		t.Fatalf("events = %d, want 2 with dedupe disabled", len(got))
	}
}

func TestServeHTTP_Streams(t *testing.T) {
	b := NewBroker(0)
	defer b.Close()

	stop := stream(t, b)
	if n := b.ClientCount(); n != 1 {
		t.Fatalf("clients = %d, want 1", n)
	}
	b.PublishDocumentEvent("converted", "x.md")
	time.Sleep(50 * time.Millisecond)

	body := stop()
	if !strings.Contains(body, "event: document.converted") {
		t.Errorf("body missing event: %q", body)
	}

	time.Sleep(50 * time.Millisecond)
	if n := b.ClientCount(); n != 0 {
		t.Errorf("clients = %d after disconnect, want 0", n)
	}
}

func TestServeHTTP_ReplaysAfterLastEventID(t *testing.T) {
	b := NewBroker(0)
	defer b.Close()

	for _, p := range []string{"a.md", "b.md", "c.md"} {
		b.PublishDocumentEvent("converted", p)
	}
	time.Sleep(50 * time.Millisecond)

	body := stream(t, b, "Last-Event-ID", "1")()
	if strings.Contains(body, `"path":"a.md"`) {
		t.Errorf("event 1 replayed: %q", body)
	}
	if !strings.Contains(body, "id: 2\n") || !strings.Contains(body, "id: 3\n") {
		t.Errorf("missed events not replayed: %q", body)
	}
}

func TestServeHTTP_NoReplayWithoutHeader(t *testing.T) {
	b := NewBroker(0)
	defer b.Close()

	b.PublishDocumentEvent("converted", "old.md")
	time.Sleep(50 * time.Millisecond)

	if body := stream(t, b)(); strings.Contains(body, "old.md") {
		t.Errorf("fresh client got history: %q", body)
	}
}

func TestServeHTTP_KeepAlive(t *testing.T) {
	b := NewBroker(0, WithKeepAlive(20*time.Millisecond))
	defer b.Close()

	stop := stream(t, b)
	time.Sleep(50 * time.Millisecond)
	if body := stop(); !strings.Contains(body, ": keep-alive\n\n") {
		t.Errorf("no keep-alive comment in %q", body)
	}
}

func TestPublish_FullBufferDoesNotBlock(t *testing.T) {
	b := NewBroker(0)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for i := 0; i < clientBuffer+10; i++ {
		b.Publish(Event{Type: "test", Data: i})
	}
	if got := drain(ch); len(got) != clientBuffer {
		t.Errorf("delivered = %d, want %d", len(got), clientBuffer)
	}
}

func TestClose(t *testing.T) {
	b := NewBroker(0)
	ch := b.Subscribe()

	b.Close()
	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("subscriber channel still open")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}
	if n := b.ClientCount(); n != 0 {
		t.Fatalf("clients = %d after close", n)
	}

	// No-ops once closed.
	b.Publish(Event{Type: "x", Data: nil})
	b.PublishDocumentEvent("converted", "x.md")
	if ch := b.Subscribe(); ch == nil {
		t.Fatal("nil channel after close")
	}
}
