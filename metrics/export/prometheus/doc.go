// Package prometheus renders the session core's metrics in Prometheus text
// exposition format. It reads snapshots only; no collector registration,
// no global registry.
package prometheus
