// Package metrics exposes Prometheus instrumentation for webhook processing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsProcessed counts handled webhook requests by surface and outcome.
	EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eln_packager",
		Name:      "events_processed_total",
		Help:      "Webhook requests processed, labelled by surface and outcome.",
	}, []string{"surface", "outcome"})

	// RetryAttempts counts retried upstream calls.
	RetryAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eln_packager",
		Name:      "upstream_retry_attempts_total",
		Help:      "Upstream calls retried after a transient failure.",
	}, []string{"operation"})

	// ObjectsUploaded counts objects written to package storage.
	ObjectsUploaded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "eln_packager",
		Name:      "objects_uploaded_total",
		Help:      "Objects uploaded to package storage.",
	})

	// BytesUploaded counts bytes written to package storage.
	BytesUploaded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "eln_packager",
		Name:      "bytes_uploaded_total",
		Help:      "Bytes uploaded to package storage.",
	})
)
