// Package registry provides discovery of statement sources over etcd.
//
// Reading systems and curated databases that produce raw statements
// register themselves at runtime under a lease with keepalive; assembly
// pipelines discover registered sources, inspect what statement types
// they produce, and watch for sources appearing and disappearing. Stale
// entries are removed automatically when a source crashes and stops
// renewing its lease.
package registry

import (
	"context"
	"time"
)

// Source kinds.
const (
	// KindReader is a machine reading system extracting statements from
	// text, e.g. "reach", "sparser".
	KindReader = "reader"

	// KindDatabase is a curated pathway database exporting statements,
	// e.g. "signor", "biopax".
	KindDatabase = "database"
)

// SourceInfo describes a registered statement source instance. Multiple
// instances of the same source can run concurrently, each with a unique
// InstanceID.
type SourceInfo struct {
	// Kind is KindReader or KindDatabase.
	Kind string `json:"kind"`

	// Name is the source name, matching the SourceAPI recorded on the
	// evidence it produces.
	Name string `json:"name"`

	// Version is the semantic version of the source.
	Version string `json:"version"`

	// InstanceID uniquely identifies this instance, typically a UUID.
	InstanceID string `json:"instance_id"`

	// Endpoint is the network address where the source accepts reading
	// or export requests, "host:port".
	Endpoint string `json:"endpoint"`

	// StatementTypes lists the statement types the source produces,
	// e.g. ["Phosphorylation", "Activation"].
	StatementTypes []string `json:"statement_types,omitempty"`

	// Metadata carries source-specific attributes, e.g. the text corpora
	// a reader covers or the release of a database export.
	Metadata map[string]string `json:"metadata,omitempty"`

	// StartedAt is when this instance started.
	StartedAt time.Time `json:"started_at"`
}

// Produces reports whether the source produces the given statement type.
// A source with no declared types is assumed to produce everything.
func (s *SourceInfo) Produces(stmtType string) bool {
	if len(s.StatementTypes) == 0 {
		return true
	}
	for _, t := range s.StatementTypes {
		if t == stmtType {
			return true
		}
	}
	return false
}

// Registry is the source registration and discovery interface. All
// methods are safe for concurrent use.
type Registry interface {
	// Register adds a source instance to the registry under a lease with
	// the configured TTL, renewed in the background. Registering an
	// already-registered InstanceID updates the entry.
	Register(ctx context.Context, info SourceInfo) error

	// Deregister removes a source instance and revokes its lease. A
	// no-op when the instance is not registered.
	Deregister(ctx context.Context, info SourceInfo) error

	// Discover returns all registered instances of a source by kind and
	// name, in arbitrary order.
	Discover(ctx context.Context, kind, name string) ([]SourceInfo, error)

	// DiscoverAll returns all registered instances of a kind.
	DiscoverAll(ctx context.Context, kind string) ([]SourceInfo, error)

	// Watch emits the current instance list of a source whenever an
	// instance registers, deregisters or its lease expires. The initial
	// state is sent immediately; the channel closes when the context is
	// cancelled or the registry is closed.
	Watch(ctx context.Context, kind, name string) (<-chan []SourceInfo, error)

	// Close releases resources and stops all background goroutines.
	Close() error
}

// Config holds registry connection configuration.
type Config struct {
	// Endpoints lists the etcd endpoints, e.g. ["localhost:2379"].
	Endpoints []string `json:"endpoints" yaml:"endpoints"`

	// Namespace is the etcd key prefix; entries live under
	// /{namespace}/{kind}/{name}/{instance-id}. Defaults to "causalbio".
	Namespace string `json:"namespace" yaml:"namespace"`

	// TTL is the lease time-to-live in seconds. A source missing its
	// renewals for this long is dropped. Defaults to 30.
	TTL int `json:"ttl" yaml:"ttl"`

	// TLS optionally secures the etcd connection with mutual TLS.
	TLS *TLSConfig `json:"tls,omitempty" yaml:"tls,omitempty"`
}

// TLSConfig holds certificate paths for mutual TLS with etcd.
type TLSConfig struct {
	// Enabled turns TLS on; all other fields are ignored when false.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// CertFile is the client certificate in PEM format.
	CertFile string `json:"cert_file" yaml:"cert_file"`

	// KeyFile is the client private key in PEM format.
	KeyFile string `json:"key_file" yaml:"key_file"`

	// CAFile verifies the etcd server certificate.
	CAFile string `json:"ca_file" yaml:"ca_file"`
}
