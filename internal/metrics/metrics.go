package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatroom_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatroom_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	RoomsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatroom_rooms_created_total",
			Help: "Total rooms created",
		},
	)

	RoomsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatroom_rooms_deleted_total",
			Help: "Total rooms deleted",
		},
	)

	MembersAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatroom_members_added_total",
			Help: "Total member additions",
		},
	)

	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatroom_messages_sent_total",
			Help: "Total messages sent",
		},
	)

	MessagesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatroom_messages_deleted_total",
			Help: "Total messages deleted",
		},
	)

	// Denials by reason: not_owner, not_member, not_sender.
	AuthorizationDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatroom_authorization_denied_total",
			Help: "Total operations refused for lack of permission",
		},
		[]string{"reason"},
	)

	// Infrastructure metrics
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatroom_cache_lookups_total",
			Help: "Room cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss" or "error"
	)
)
