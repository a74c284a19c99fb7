package store

import "context"

// Record is the durable serialization of the last known session. Token and
// Principal are only ever persisted together.
type Record struct {
	Token     string `json:"token"`
	Principal []byte `json:"principal"`
}

// complete reports whether r carries both halves.
func (r *Record) complete() bool {
	return r != nil && r.Token != "" && len(r.Principal) > 0
}

// Store is the durable key-value surface behind the session manager.
//
// Load returns (nil, nil) when no record is present or the stored data is
// corrupt; corruption never surfaces as an error. Save and Clear report only
// genuine I/O failures.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Load(ctx context.Context) (*Record, error)
	Clear(ctx context.Context) error
}
