package websocket

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

type Upgrader struct {
	websocket.Upgrader
}

// DefaultUpgrader allows any origin since the coordinator is consumed
// cross-origin by the classroom frontend.
var DefaultUpgrader = Upgrader{
	Upgrader: websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		WriteBufferPool: &sync.Pool{},
		CheckOrigin:     func(r *http.Request) bool { return true },
	},
}

// NewUpgrader restricts connections to a single allowed origin.
func NewUpgrader(origin string) *Upgrader {
	u := DefaultUpgrader
	u.CheckOrigin = func(r *http.Request) bool { return r.Header.Get("Origin") == origin }
	return &u
}
