package internaldefs

import (
	folioauth "github.com/devgmz/folioauth"
)

// HistogramBucketCount is the fixed bucket width every exporter renders.
// HistogramBounds and HistogramBoundSuffix must stay this long.
const HistogramBucketCount = 8

// CounterDef names one exported counter.
type CounterDef struct {
	ID   folioauth.MetricID
	Name string
	Help string
}

// HistogramDef names one exported histogram.
type HistogramDef struct {
	ID   folioauth.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in metric ID order.
var CounterDefs = []CounterDef{
	{ID: folioauth.MetricLoginSuccess, Name: "folioauth_login_success_total", Help: "Successful login attempts."},
	{ID: folioauth.MetricLoginFailure, Name: "folioauth_login_failure_total", Help: "Failed login attempts."},
	{ID: folioauth.MetricLogout, Name: "folioauth_logout_total", Help: "Logout operations."},
	{ID: folioauth.MetricHydrateSuccess, Name: "folioauth_hydrate_success_total", Help: "Startups that restored a stored session."},
	{ID: folioauth.MetricHydrateEmpty, Name: "folioauth_hydrate_empty_total", Help: "Startups with no usable stored session."},
	{ID: folioauth.MetricValidateSuccess, Name: "folioauth_validate_success_total", Help: "Server validations that confirmed the session."},
	{ID: folioauth.MetricValidateFailure, Name: "folioauth_validate_failure_total", Help: "Server validations that cleared the session."},
	{ID: folioauth.MetricTokenAttached, Name: "folioauth_token_attached_total", Help: "Protected-prefix requests that received a bearer credential."},
	{ID: folioauth.MetricUnauthorizedTeardown, Name: "folioauth_unauthorized_teardown_total", Help: "Local teardowns triggered by 401 responses."},
	{ID: folioauth.MetricForbiddenRedirect, Name: "folioauth_forbidden_redirect_total", Help: "Landing redirects triggered by 403 responses."},
	{ID: folioauth.MetricGuardAllowed, Name: "folioauth_guard_allowed_total", Help: "Route guard decisions that admitted entry."},
	{ID: folioauth.MetricGuardDenied, Name: "folioauth_guard_denied_total", Help: "Route guard decisions that blocked entry."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: folioauth.MetricValidateLatency, Name: "folioauth_validate_latency_seconds", Help: "Validate latency histogram."},
}

// HistogramBounds are the upper bounds of the fixed buckets, in seconds.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds with metric-name-safe text.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw bucket slice to the fixed width.
func NormalizeBuckets(raw []uint64) [HistogramBucketCount]uint64 {
	var out [HistogramBucketCount]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form both
// exposition formats expect.
func CumulativeBuckets(raw [HistogramBucketCount]uint64) [HistogramBucketCount]uint64 {
	var out [HistogramBucketCount]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
