package monitoring

import (
	"fmt"

	"github.com/Jacobbrewer1/supportdesk/cmd/bot/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalDiscordEvents is the total number of events.
	TotalDiscordEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_total_discord_events", config.AppName),
			Help: "Total number of events",
		},
		[]string{"event"},
	)

	// HttpTotalRequests is the total number of http requests.
	HttpTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_http_total_requests", config.AppName),
			Help: "Total number of http requests",
		},
		[]string{"path", "method", "status_code"},
	)

	// HttpRequestDuration is the duration of the http request.
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: fmt.Sprintf("%s_http_request_duration", config.AppName),
			Help: "Duration of the http request",
		},
		[]string{"path", "method", "status_code"},
	)

	TotalDiscordGuilds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_total_discord_guilds", config.AppName),
			Help: "Total number of discord guilds",
		},
	)

	// CommandDuration is the duration of a slash command, including the conversations it runs.
	CommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    fmt.Sprintf("%s_command_duration", config.AppName),
			Help:    "Duration of slash commands",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 180, 600},
		},
		[]string{"command", "outcome"},
	)

	// TicketEvents is the number of ticket lifecycle transitions.
	TicketEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_ticket_events_total", config.AppName),
			Help: "Total number of ticket lifecycle transitions",
		},
		[]string{"event"},
	)

	// ConversationOutcomes is the number of finished prompts by kind and outcome.
	ConversationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_conversation_outcomes_total", config.AppName),
			Help: "Total number of finished prompts",
		},
		[]string{"kind", "outcome"},
	)

	// TicketIntents is the number of reactions that started a ticket intake.
	TicketIntents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_ticket_intents_total", config.AppName),
			Help: "Total number of reactions that started a ticket intake",
		},
	)
)
