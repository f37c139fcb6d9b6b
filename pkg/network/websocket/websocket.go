package websocket

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/virtual-classroom/coordinator/pkg/logger"
)

const (
	maxMessageSize = 10 * 1024
	pingTime       = pongTime * 9 / 10
	pongTime       = 60 * time.Second
	writeWait      = 10 * time.Second
	sendQueueSize  = 32
)

type WS struct {
	conn deadlinedConn
	send chan []byte
	log  *logger.Logger

	// OnMessage is called from the read loop, one message at a time.
	OnMessage WSMessageHandler

	mu     sync.Mutex
	closed bool

	shutdown sync.WaitGroup
	done     sync.Once
	Done     chan struct{}
}

type WSMessageHandler func(message []byte, err error)

// NewServer upgrades an HTTP request into a WebSocket session.
// The pumps don't run until Listen, which gives the caller a window
// to set OnMessage before the first frame is read.
func NewServer(w http.ResponseWriter, r *http.Request, u *Upgrader, log *logger.Logger) (*WS, error) {
	conn, err := u.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return newSocket(conn, log), nil
}

func newSocket(conn *websocket.Conn, log *logger.Logger) *WS {
	ws := &WS{
		conn: deadlinedConn{sock: conn, wt: writeWait},
		send: make(chan []byte, sendQueueSize),
		log:  log,
		Done: make(chan struct{}),
	}
	ws.shutdown.Add(2)
	return ws
}

// Listen starts the read/write pumps.
func (ws *WS) Listen() {
	go ws.writer()
	go ws.reader()
}

// reader pumps messages from the websocket connection to the OnMessage callback.
// Serializes all websocket reads.
func (ws *WS) reader() {
	defer func() {
		ws.Close()
		ws.shutdown.Done()
		ws.finish()
	}()
	ws.conn.setup(func(conn *websocket.Conn) {
		conn.SetReadLimit(maxMessageSize)
		_ = conn.SetReadDeadline(time.Now().Add(pongTime))
		conn.SetPongHandler(func(string) error { _ = conn.SetReadDeadline(time.Now().Add(pongTime)); return nil })
	})
	for {
		message, err := ws.conn.read()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ws.log.Debug().Err(err).Msg("ws read fail")
			}
			return
		}
		if ws.OnMessage != nil {
			ws.OnMessage(message, nil)
		}
	}
}

// writer pumps messages from the send channel to the websocket connection.
// Serializes all websocket writes.
func (ws *WS) writer() {
	ticker := time.NewTicker(pingTime)
	defer func() {
		ticker.Stop()
		ws.shutdown.Done()
		ws.finish()
	}()
	for {
		select {
		case message, ok := <-ws.send:
			if !ok {
				_ = ws.conn.write(websocket.CloseMessage, []byte{})
				return
			}
			if err := ws.conn.write(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := ws.conn.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Write queues a message for delivery; writes to a closed connection
// are no-ops. A saturated queue closes the connection: the client is
// too slow to keep up, and losing a frame in the middle of its stream
// would break the per-sender ordering, so a reconnect is forced
// instead.
func (ws *WS) Write(data []byte) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.closed {
		return
	}
	select {
	case ws.send <- data:
	default:
		ws.log.Warn().Msg("ws send queue overflow, closing")
		ws.closed = true
		close(ws.send)
	}
}

// Close stops the write pump and makes further writes no-ops.
// Safe to call multiple times from any goroutine.
func (ws *WS) Close() {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.closed {
		return
	}
	ws.closed = true
	close(ws.send)
}

// finish waits for both pumps, tears the transport down, and fires Done once.
func (ws *WS) finish() {
	ws.shutdown.Wait()
	ws.done.Do(func() {
		_ = ws.conn.close()
		close(ws.Done)
	})
}
