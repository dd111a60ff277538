package live

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pagelift-dev/pagelift/pkg/dom"
)

// Timeouts and queue sizes for attached sessions.
const (
	DefaultReadTimeout  = 60 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	DefaultPingInterval = 30 * time.Second

	dispatchQueueSize = 64
	sendQueueSize     = 16
)

// Option configures a Broker.
type Option func(*Broker)

// WithLogger sets the broker's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Broker) {
		b.logger = logger
	}
}

// WithReadTimeout sets the per-read deadline for attached sockets.
func WithReadTimeout(d time.Duration) Option {
	return func(b *Broker) {
		b.readTimeout = d
	}
}

// WithWriteTimeout sets the per-write deadline for attached sockets.
func WithWriteTimeout(d time.Duration) Option {
	return func(b *Broker) {
		b.writeTimeout = d
	}
}

// WithPingInterval sets the heartbeat interval.
func WithPingInterval(d time.Duration) Option {
	return func(b *Broker) {
		b.pingInterval = d
	}
}

// WithCheckOrigin sets the origin check for the WebSocket upgrade.
func WithCheckOrigin(check func(r *http.Request) bool) Option {
	return func(b *Broker) {
		b.upgrader.CheckOrigin = check
	}
}

// Broker owns a document's event loop and fans its mutations out to
// attached pages.
type Broker struct {
	doc    *dom.Document
	logger *slog.Logger

	readTimeout  time.Duration
	writeTimeout time.Duration
	pingInterval time.Duration
	upgrader     websocket.Upgrader

	mu       sync.Mutex
	sessions map[*session]struct{}

	dispatchCh chan func()
	done       chan struct{}
	closeOnce  sync.Once

	// pending accumulates mutations recorded during one dispatch.
	// Touched only from the event loop goroutine.
	pending []Patch
	seq     uint64
}

// NewBroker creates a Broker for the given document and installs itself as
// the document's mutation recorder and dispatcher, so timers and network
// continuations re-enter the event loop instead of touching the document
// from their own goroutines. Call Start before serving connections.
func NewBroker(doc *dom.Document, opts ...Option) *Broker {
	b := &Broker{
		doc:          doc,
		logger:       slog.Default().With("component", "live"),
		readTimeout:  DefaultReadTimeout,
		writeTimeout: DefaultWriteTimeout,
		pingInterval: DefaultPingInterval,
		sessions:     make(map[*session]struct{}),
		dispatchCh:   make(chan func(), dispatchQueueSize),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	doc.SetRecorder(dom.RecorderFunc(b.record))
	doc.SetDispatcher(b.Dispatch)
	return b
}

// Start runs the event loop until Stop is called.
func (b *Broker) Start() {
	go b.eventLoop()
}

// Stop shuts the event loop down and closes all attached sessions.
func (b *Broker) Stop() {
	b.closeOnce.Do(func() {
		close(b.done)
	})

	b.mu.Lock()
	sessions := make([]*session, 0, len(b.sessions))
	for s := range b.sessions {
		sessions = append(sessions, s)
	}
	b.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}

// Dispatch queues fn to run on the document's event loop. Mutations
// recorded while fn runs are flushed to all sessions as one frame.
// Returns false if the broker is stopped or the queue is full.
func (b *Broker) Dispatch(fn func()) bool {
	// Checked before the queue so a stopped broker always refuses, even
	// while the queue has room.
	select {
	case <-b.done:
		return false
	default:
	}
	select {
	case b.dispatchCh <- fn:
		return true
	case <-b.done:
		return false
	default:
		b.logger.Warn("dispatch queue full, dropping")
		return false
	}
}

// Handler returns the HTTP handler that upgrades connections and attaches
// them as sessions.
func (b *Broker) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			b.logger.Error("upgrade failed", "error", err)
			return
		}
		s := newSession(b, conn)
		b.attach(s)
		s.start()
	})
}

// Sessions returns the number of attached sessions.
func (b *Broker) Sessions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sessions)
}

func (b *Broker) attach(s *session) {
	b.mu.Lock()
	b.sessions[s] = struct{}{}
	b.mu.Unlock()
	b.logger.Info("session attached", "sessions", b.Sessions())
}

func (b *Broker) detach(s *session) {
	b.mu.Lock()
	delete(b.sessions, s)
	b.mu.Unlock()
	b.logger.Info("session detached", "sessions", b.Sessions())
}

// eventLoop serializes all document work onto one goroutine.
func (b *Broker) eventLoop() {
	for {
		select {
		case fn := <-b.dispatchCh:
			b.execute(fn)
		case <-b.done:
			// Run what was accepted before the stop so no caller waiting
			// in Document.Do is left hanging.
			for {
				select {
				case fn := <-b.dispatchCh:
					b.execute(fn)
				default:
					return
				}
			}
		}
	}
}

// execute runs one dispatched function and flushes recorded mutations.
func (b *Broker) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("dispatch panic", "panic", r)
		}
		b.flush()
	}()
	fn()
}

// record implements the document's mutation recorder. Called only while a
// dispatched function runs on the event loop.
func (b *Broker) record(m dom.Mutation) {
	b.pending = append(b.pending, FromMutation(m))
}

// flush fans the pending patches out to every session as one frame.
func (b *Broker) flush() {
	if len(b.pending) == 0 {
		return
	}
	b.seq++
	frame := Frame{Seq: b.seq, Patches: b.pending}
	b.pending = nil

	// Snapshot under lock; a slow session closing itself re-enters the
	// broker to detach.
	b.mu.Lock()
	sessions := make([]*session, 0, len(b.sessions))
	for s := range b.sessions {
		sessions = append(sessions, s)
	}
	b.mu.Unlock()

	for _, s := range sessions {
		s.send(frame)
	}
}

// handleEvent turns a page message into a document event and dispatches it
// on the event loop.
func (b *Broker) handleEvent(msg clientMessage) {
	b.Dispatch(func() {
		target := b.doc.ByNID(msg.NID)
		if target == nil {
			b.logger.Warn("event for unknown node", "nid", msg.NID)
			return
		}
		b.doc.Dispatch(dom.Event{
			Type:   msg.Event,
			Target: target,
			Value:  msg.Value,
		})
	})
}
