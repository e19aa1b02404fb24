// Package sse streams document conversion events to HTTP clients as
// Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

// Document event types.
const (
	EventDocumentConverted = "document.converted"
	EventDocumentDeleted   = "document.deleted"
)

// Defaults used by the server configuration.
const (
	DefaultDedupe    = time.Second
	DefaultKeepAlive = 15 * time.Second
)

const (
	historySize  = 128
	clientBuffer = 64
)

// Event is a message broadcast to every subscriber.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// DocumentEvent is the payload of document.* events.
type DocumentEvent struct {
	Path string    `json:"path"`
	At   time.Time `json:"at"`
}

// Option configures a Broker.
type Option func(*Broker)

// WithKeepAlive sets how often idle streams receive a comment line so
// proxies keep the connection open. Zero or negative disables it.
func WithKeepAlive(d time.Duration) Option {
	return func(b *Broker) {
		b.keepAlive = d
	}
}

type docKey struct {
	kind string
	path string
}

type frame struct {
	id  uint64
	raw []byte
}

type subscription struct {
	ch     chan []byte
	lastID uint64
}

// Broker fans events out to SSE clients.
//
// One goroutine owns the client set, the replay history and the dedupe
// table; the exported methods only send requests to it.
type Broker struct {
	dedupe    time.Duration
	keepAlive time.Duration

	subscribeCh   chan subscription
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	documentCh    chan docKey
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker starts a broker. Document events with the same kind and path
// arriving within dedupe of each other are broadcast once; zero or negative
// dedupe broadcasts every event.
func NewBroker(dedupe time.Duration, opts ...Option) *Broker {
	b := &Broker{
		dedupe:        max(dedupe, 0),
		keepAlive:     DefaultKeepAlive,
		subscribeCh:   make(chan subscription),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		documentCh:    make(chan docKey, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	go b.run()
	return b
}

// hub is the state owned by the run loop.
type hub struct {
	clients  map[chan []byte]struct{}
	history  []frame
	lastSeen map[docKey]time.Time
	nextID   uint64
}

func (h *hub) broadcast(ev Event) {
	payload, err := json.Marshal(ev.Data)
	if err != nil {
		return
	}
	h.nextID++
	f := frame{
		id:  h.nextID,
		raw: []byte(fmt.Sprintf("id: %d\nevent: %s\ndata: %s\n\n", h.nextID, ev.Type, payload)),
	}
	if len(h.history) == historySize {
		h.history = h.history[1:]
	}
	h.history = append(h.history, f)

	for ch := range h.clients {
		select {
		case ch <- f.raw:
		default:
			// Slow client; drop rather than stall the loop.
		}
	}
}

// replay queues the frames a reconnecting client missed.
func (h *hub) replay(sub subscription) {
	if sub.lastID == 0 {
		return
	}
	for _, f := range h.history {
		if f.id <= sub.lastID {
			continue
		}
		select {
		case sub.ch <- f.raw:
		default:
			return
		}
	}
}

// seen reports whether key was broadcast less than window ago, and records
// it otherwise. Expired entries are pruned on the way.
func (h *hub) seen(key docKey, now time.Time, window time.Duration) bool {
	if at, ok := h.lastSeen[key]; ok && now.Sub(at) < window {
		return true
	}
	h.lastSeen[key] = now
	for k, at := range h.lastSeen {
		if now.Sub(at) >= window {
			delete(h.lastSeen, k)
		}
	}
	return false
}

func (b *Broker) run() {
	defer close(b.stopped)

	h := &hub{
		clients:  make(map[chan []byte]struct{}),
		lastSeen: make(map[docKey]time.Time),
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range h.clients {
				close(ch)
			}
			return

		case sub := <-b.subscribeCh:
			h.clients[sub.ch] = struct{}{}
			h.replay(sub)

		case ch := <-b.unsubscribeCh:
			if _, ok := h.clients[ch]; ok {
				delete(h.clients, ch)
				close(ch)
			}

		case ev := <-b.publishCh:
			h.broadcast(ev)

		case key := <-b.documentCh:
			typ := documentEventType(key.kind)
			if typ == "" {
				continue
			}
			now := time.Now()
			if b.dedupe > 0 && h.seen(key, now, b.dedupe) {
				continue
			}
			h.broadcast(Event{Type: typ, Data: DocumentEvent{Path: key.path, At: now.UTC()}})

		case resp := <-b.countReqCh:
			resp <- len(h.clients)
		}
	}
}

func documentEventType(kind string) string {
	switch kind {
	case "converted":
		return EventDocumentConverted
	case "deleted":
		return EventDocumentDeleted
	}
	return ""
}

// Close stops the loop and closes every client channel. It is safe to call
// more than once.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a client and returns its channel.
func (b *Broker) Subscribe() chan []byte {
	return b.subscribeAfter(0)
}

// subscribeAfter adds a client that first receives the buffered events with
// an id greater than lastID.
func (b *Broker) subscribeAfter(lastID uint64) chan []byte {
	ch := make(chan []byte, clientBuffer)
	if b.closed.Load() {
		close(ch)
		return ch
	}
	select {
	case b.subscribeCh <- subscription{ch: ch, lastID: lastID}:
	case <-b.stopped:
		close(ch)
	}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}
	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}
	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish broadcasts an arbitrary event.
func (b *Broker) Publish(ev Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- ev:
	case <-b.stopped:
	}
}

// PublishDocumentEvent broadcasts a document change reported by the watcher
// or the document service. kind is "converted" or "deleted"; anything else
// is ignored.
func (b *Broker) PublishDocumentEvent(kind, path string) {
	if b.closed.Load() {
		return
	}
	select {
	case b.documentCh <- docKey{kind: kind, path: path}:
	case <-b.stopped:
	}
}

// ServeHTTP streams events to one client (GET /api/events). A Last-Event-ID
// header replays the buffered events the client missed.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	lastID, _ := strconv.ParseUint(r.Header.Get("Last-Event-ID"), 10, 64)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.subscribeAfter(lastID)
	defer b.Unsubscribe(ch)

	var tick <-chan time.Time
	if b.keepAlive > 0 {
		t := time.NewTicker(b.keepAlive)
		defer t.Stop()
		tick = t.C
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			_, _ = w.Write([]byte(": keep-alive\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
