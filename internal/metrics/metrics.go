// Package metrics is a small, backend-agnostic layer for recording
// operational metrics from the extraction pipeline.
//
// A global, pluggable backend defaults to a no-op implementation, so the
// pipeline can call these helpers unconditionally; a concrete backend (e.g.
// the Pushgateway one in prompush) is installed by the CLIs when requested.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface a metrics system must implement.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a duration observation in seconds.
	ObserveDuration(name string, seconds float64, labels Labels)
	// Flush pushes buffered metrics if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)        {}
func (nopBackend) ObserveDuration(name string, seconds float64, labels Labels) {}
func (nopBackend) Flush() error                                                { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the current one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error { return backend.Flush() }

// RecordStep records one pipeline step execution: a count and its duration,
// labeled by job, step, and success/failure.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "step": step, "status": status}
	backend.IncCounter("soetl_step_total", 1, lbls)
	backend.ObserveDuration("soetl_step_duration_seconds", d.Seconds(), lbls)
}

// RecordRows counts rows accepted or emitted for a table.
func RecordRows(job, table string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("soetl_rows_total", float64(delta), Labels{
		"job":   job,
		"table": table,
	})
}
