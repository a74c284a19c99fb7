// Package otel bridges the session core's metrics into an OpenTelemetry
// meter through observable instruments. Registration is pull-based: the
// SDK's collection cycle reads a fresh snapshot on every callback.
package otel
