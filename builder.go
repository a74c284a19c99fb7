package folioauth

import (
	"errors"
	"net/http"

	"github.com/devgmz/folioauth/state"
	"github.com/devgmz/folioauth/store"
)

// Builder assembles a [Manager] at the application's composition root. The
// session core is explicitly constructed and dependency-injected; nothing in
// this package reaches for ambient globals.
type Builder struct {
	config Config

	httpClient *http.Client
	endpoint   Endpoint
	store      store.Store
	auditSink  AuditSink

	built bool
}

// New creates a Builder with the default configuration.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL sets the endpoint base URL, the only required configuration
// field.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.Endpoint.BaseURL = baseURL
	return b
}

// WithHTTPClient sets the HTTP client used for endpoint calls. The default
// is a plain client with the configured timeout.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithEndpoint replaces the default HTTP endpoint implementation. Intended
// for tests and non-HTTP transports.
func (b *Builder) WithEndpoint(ep Endpoint) *Builder {
	b.endpoint = ep
	return b
}

// WithStore sets the credential store backing.
func (b *Builder) WithStore(s store.Store) *Builder {
	b.store = s
	return b
}

// WithAuditSink sets where audit events are delivered.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process metrics system.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the Validate latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and constructs the Manager. A Builder
// can build at most once.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	// An injected endpoint owns its own transport details, so BaseURL and
	// friends are only validated when the default HTTP endpoint is built.
	if b.endpoint == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	if b.store == nil {
		return nil, errors.New("credential store required")
	}

	ep := b.endpoint
	if ep == nil {
		ep = newHTTPEndpoint(cfg.Endpoint, b.httpClient)
	}

	m := &Manager{
		config:   cfg,
		endpoint: ep,
		store:    b.store,
		state:    state.NewHolder(),
		audit:    newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:  NewMetrics(cfg.Metrics),
	}

	b.built = true

	return m, nil
}
