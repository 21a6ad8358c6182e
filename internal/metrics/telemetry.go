package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Client holds the metrics of one smoke run. A nil Registerer keeps them unregistered.
type Client struct {
	// 1. Throughput (Counters)
	Inserts        prometheus.Counter
	InsertFailures prometheus.Counter
	Searches       prometheus.Counter

	// 2. Latency (Histograms)
	InsertDuration prometheus.Histogram
	SearchDuration prometheus.Histogram
}

func NewClient(reg prometheus.Registerer) *Client {
	f := promauto.With(reg)
	return &Client{
		Inserts: f.NewCounter(prometheus.CounterOpts{
			Name: "vectrasmoke_inserts_total",
			Help: "Insert requests acknowledged by the service",
		}),
		InsertFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "vectrasmoke_insert_failures_total",
			Help: "Insert requests that failed",
		}),
		Searches: f.NewCounter(prometheus.CounterOpts{
			Name: "vectrasmoke_searches_total",
			Help: "Search requests answered by the service",
		}),
		InsertDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "vectrasmoke_insert_duration_seconds",
			Help:    "Client observed round trip of insert requests",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .5, 1},
		}),
		SearchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "vectrasmoke_search_duration_seconds",
			Help:    "Client observed round trip of search requests",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Server holds the metrics of the reference target server.
type Server struct {
	SearchRequests prometheus.Counter
	InsertRequests prometheus.Counter

	SearchDuration prometheus.Histogram
	InsertDuration prometheus.Histogram

	TotalVectors prometheus.Gauge
}

func NewServer(reg prometheus.Registerer) *Server {
	f := promauto.With(reg)
	return &Server{
		SearchRequests: f.NewCounter(prometheus.CounterOpts{
			Name: "vectrasmoke_server_search_requests_total",
			Help: "Total number of search requests received",
		}),
		InsertRequests: f.NewCounter(prometheus.CounterOpts{
			Name: "vectrasmoke_server_insert_requests_total",
			Help: "Total number of insert requests received",
		}),
		SearchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "vectrasmoke_server_search_duration_seconds",
			Help:    "Time taken to process search requests",
			Buckets: prometheus.DefBuckets, // []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
		}),
		InsertDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "vectrasmoke_server_insert_duration_seconds",
			Help:    "Time taken to process insert requests",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05},
		}),
		TotalVectors: f.NewGauge(prometheus.GaugeOpts{
			Name: "vectrasmoke_server_vectors_total",
			Help: "Current number of vectors in the arena",
		}),
	}
}
