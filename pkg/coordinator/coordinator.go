// Package coordinator is the real-time session core of the virtual
// classroom: it admits authenticated WebSocket connections, tracks
// per-room presence, relays WebRTC signaling between peers, and
// executes teacher moderation.
package coordinator

import (
	"context"
	"net/http"

	"github.com/virtual-classroom/coordinator/pkg/config"
	"github.com/virtual-classroom/coordinator/pkg/logger"
	"github.com/virtual-classroom/coordinator/pkg/monitoring"
	"github.com/virtual-classroom/coordinator/pkg/network/httpx"
	"github.com/virtual-classroom/coordinator/pkg/service"
	"github.com/virtual-classroom/coordinator/pkg/store"
)

type Coordinator struct {
	services service.Group
	log      *logger.Logger
}

func New(conf config.CoordinatorConfig, log *logger.Logger) (*Coordinator, error) {
	c := &Coordinator{log: log}
	hub := NewHub(conf.Coordinator, store.NewNoopChatStore(), log)
	h, err := NewHTTPServer(conf, log, func(mux *http.ServeMux) {
		mux.HandleFunc("/ws", hub.handleUserConnection)
	})
	if err != nil {
		return nil, err
	}
	c.services.Add(hub, h)
	if conf.Coordinator.Monitoring.IsEnabled() {
		c.services.Add(monitoring.New(conf.Coordinator.Monitoring, "cord", log))
	}
	return c, nil
}

func NewHTTPServer(conf config.CoordinatorConfig, log *logger.Logger, fnMux func(mux *http.ServeMux)) (*httpx.Server, error) {
	return httpx.NewServer(
		conf.Coordinator.Server.GetAddr(),
		func(*httpx.Server) http.Handler {
			h := http.NewServeMux()
			h.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("ok"))
			})
			fnMux(h)
			return h
		},
		httpx.WithServerConfig(conf.Coordinator.Server),
		httpx.WithLogger(log),
	)
}

func (c *Coordinator) Start() { c.services.Start() }

func (c *Coordinator) Shutdown(ctx context.Context) error { return c.services.Shutdown(ctx) }
