// Package metrics holds the service-level Prometheus instruments. It is a
// leaf package so both the HTTP layer and the worker pipeline can record.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AdmissionOutcomes counts biometric admissions by outcome status.
	AdmissionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "happydog_noseprint_admissions_total",
		Help: "Biometric admission outcomes by status.",
	}, []string{"status"})

	// CartoonJobsSubmitted counts accepted job submissions.
	CartoonJobsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "happydog_cartoon_jobs_submitted_total",
		Help: "Cartoon jobs accepted into the worker queue.",
	})

	// CartoonJobsRejected counts submissions refused with OVERLOADED.
	CartoonJobsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "happydog_cartoon_jobs_rejected_total",
		Help: "Cartoon job submissions rejected because the queue was full.",
	})

	// CartoonJobsFinished counts jobs reaching a terminal state.
	CartoonJobsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "happydog_cartoon_jobs_finished_total",
		Help: "Cartoon jobs by terminal status.",
	}, []string{"status"})

	// CartoonQueueDepth tracks jobs waiting in the worker queue.
	CartoonQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "happydog_cartoon_queue_depth",
		Help: "Cartoon jobs currently queued and not yet picked up.",
	})
)
