package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbuddy_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatbuddy_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Realtime metrics
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatbuddy_connections_active",
			Help: "Currently connected clients",
		},
	)

	RoomsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatbuddy_rooms_active",
			Help: "Rooms currently in existence",
		},
	)

	MessagesBroadcast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbuddy_messages_broadcast_total",
			Help: "Chat and feedback events fanned out to rooms",
		},
		[]string{"kind"}, // "chat" or "feedback"
	)

	HistoryReplays = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatbuddy_history_replays_total",
			Help: "History replays delivered to joining clients",
		},
	)

	ProtocolViolations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatbuddy_protocol_violations_total",
			Help: "Inbound events dropped for protocol violations",
		},
	)

	// Business metrics
	UsersRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatbuddy_users_registered_total",
			Help: "Total users registered",
		},
	)

	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbuddy_auth_failures_total",
			Help: "Authentication failures",
		},
		[]string{"stage"}, // "login" or "handshake"
	)

	// Infrastructure metrics
	ArchiveFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbuddy_archive_failures_total",
			Help: "Message archive operation failures",
		},
		[]string{"op"}, // "append" or "fetch"
	)
)
