package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MongoLatency is the duration of Mongo queries.
	MongoLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dataaccess_mongo_latency",
			Help: "Duration of Mongo queries",
		},
		[]string{"dal", "query", "database", "collection"},
	)

	// MongoTotalRequests is the total number of Mongo requests.
	MongoTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataaccess_mongo_total_requests",
			Help: "Total number of Mongo requests",
		},
		[]string{"dal", "query", "database", "collection"},
	)

	// SqlLatency is the duration of SQL queries.
	SqlLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dataaccess_sql_latency",
			Help: "Duration of SQL queries",
		},
		[]string{"dal", "query", "dialect", "table"},
	)

	// SqlTotalRequests is the total number of SQL requests.
	SqlTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataaccess_sql_total_requests",
			Help: "Total number of SQL requests",
		},
		[]string{"dal", "query", "dialect", "table"},
	)
)
