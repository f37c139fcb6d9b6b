package coordinator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "classroom_connections",
		Help: "Number of open participant connections.",
	})
	roomCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "classroom_rooms",
		Help: "Number of live rooms.",
	})
	packetCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classroom_packets_total",
		Help: "Inbound packets by event name.",
	}, []string{"t"})
	relayDropCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classroom_relay_drops_total",
		Help: "Signaling relays dropped because the target was gone.",
	})
)
