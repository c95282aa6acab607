// Package metrics holds the Prometheus collectors of the ledger service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "splitledger"

var (
	RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "RPC calls by procedure and result code.",
	}, []string{"procedure", "code"})

	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "RPC latency by procedure.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure"})

	// SkippedShares counts share records the aggregator could not resolve.
	SkippedShares = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_skipped_shares_total",
		Help:      "Share records skipped during aggregation because a reference did not resolve.",
	})

	LedgerBuilds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ledger_build_seconds",
		Help:      "Time to fetch and aggregate the cross-bill ledger.",
		Buckets:   prometheus.DefBuckets,
	})

	ImportedBills = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "imported_bills_total",
		Help:      "Bills created through bulk import.",
	})

	CommittedPayments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "committed_payments_total",
		Help:      "Paid amounts persisted, by how the commit was triggered.",
	}, []string{"source"})
)
