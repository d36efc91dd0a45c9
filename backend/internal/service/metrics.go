package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	kindThread = "thread"
	kindReply  = "reply"
)

var (
	postsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "msgboard",
			Name:      "posts_total",
			Help:      "Threads and replies created",
		},
		[]string{"kind"},
	)

	reportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "msgboard",
			Name:      "reports_total",
			Help:      "Threads and replies reported",
		},
		[]string{"kind"},
	)

	deletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "msgboard",
			Name:      "deletions_total",
			Help:      "Threads deleted and replies redacted",
		},
		[]string{"kind"},
	)

	gcThreadsDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "msgboard",
			Name:      "gc_threads_deleted_total",
			Help:      "Threads pruned by the thread garbage collector",
		},
	)
)
