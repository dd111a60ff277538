package live

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// session is one attached page connection. The read loop feeds events to
// the broker; the write loop owns all socket writes (frames and pings).
type session struct {
	broker *Broker
	conn   *websocket.Conn

	frames    chan Frame
	done      chan struct{}
	closed    atomic.Bool
	closeOnce sync.Once
}

func newSession(b *Broker, conn *websocket.Conn) *session {
	return &session{
		broker: b,
		conn:   conn,
		frames: make(chan Frame, sendQueueSize),
		done:   make(chan struct{}),
	}
}

func (s *session) start() {
	go s.readLoop()
	go s.writeLoop()
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
		s.conn.Close()
		s.broker.detach(s)
	})
}

// send queues a frame for the write loop. A session that cannot keep up is
// closed rather than allowed to block the broker.
func (s *session) send(frame Frame) {
	if s.closed.Load() {
		return
	}
	select {
	case s.frames <- frame:
	case <-s.done:
	default:
		s.broker.logger.Warn("slow session, closing")
		s.close()
	}
}

// readLoop reads page messages until the connection closes.
func (s *session) readLoop() {
	defer s.close()

	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(s.broker.readTimeout))
		return nil
	})

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.broker.readTimeout))

		var msg clientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.broker.logger.Error("read error", "error", err)
			}
			return
		}

		switch msg.Type {
		case "event":
			s.broker.handleEvent(msg)
		case "ping":
			// Heartbeat only; read deadline already refreshed.
		default:
			s.broker.logger.Warn("unknown message type", "type", msg.Type)
		}
	}
}

// writeLoop owns all writes to the socket.
func (s *session) writeLoop() {
	ticker := time.NewTicker(s.broker.pingInterval)
	defer ticker.Stop()
	defer s.close()

	for {
		select {
		case frame := <-s.frames:
			s.conn.SetWriteDeadline(time.Now().Add(s.broker.writeTimeout))
			if err := s.conn.WriteJSON(frame); err != nil {
				s.broker.logger.Error("write error", "error", err)
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(s.broker.writeTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.done:
			return
		}
	}
}
