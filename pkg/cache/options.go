package cache

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultSweepInterval = 10 * time.Second
	defaultTTL           = 60 * time.Second
	defaultMaxSizeKB     = 5000
)

// NoExpiry can be passed as a TTL (or set as DefaultTTL) to store entries
// that are never evicted by expiration.
const NoExpiry = time.Duration(-1)

// Options configure a Cache. A zero field falls back to its default; a field
// that is set but invalid also falls back, with a Diagnostic reported at
// construction time. Construction never fails because of options.
type Options struct {
	// DefaultTTL is the expiration applied by Add. Zero falls back to one
	// minute; a negative value (see NoExpiry) makes Add store entries
	// without expiration.
	DefaultTTL time.Duration

	// SweepInterval is the cadence of the background sweep that evicts
	// expired entries. Must be positive.
	SweepInterval time.Duration

	// SweepDisabled turns the background sweep off entirely. Expired
	// entries are then only removed lazily, on reads or explicit
	// ClearExpired calls.
	SweepDisabled bool

	// MaxSizeKB is advisory only: it is reported alongside SizeKB traces
	// but never enforced.
	MaxSizeKB int

	// Debug lowers the cache's logger to debug level so per-operation
	// traces become visible.
	Debug bool

	// Logger receives option diagnostics and, with Debug, operation
	// traces. Nil means log nothing.
	Logger *zerolog.Logger
}

// Diagnostic describes an option that was rejected and replaced with its
// default.
type Diagnostic struct {
	Option string
	Reason string
}

// sanitizeOptions validates each option independently and substitutes the
// default for anything invalid. It never rejects the whole block; findings
// come back for the caller to log.
func sanitizeOptions(o Options) (Options, []Diagnostic) {
	var diags []Diagnostic

	if !o.SweepDisabled && o.SweepInterval <= 0 {
		diags = append(diags, Diagnostic{
			Option: "SweepInterval",
			Reason: "sweep interval must be positive, using default",
		})
		o.SweepInterval = defaultSweepInterval
	}

	if o.DefaultTTL == 0 {
		o.DefaultTTL = defaultTTL
	}

	if o.MaxSizeKB < 0 {
		diags = append(diags, Diagnostic{
			Option: "MaxSizeKB",
			Reason: "advisory size limit must not be negative, using default",
		})
		o.MaxSizeKB = defaultMaxSizeKB
	}
	if o.MaxSizeKB == 0 {
		o.MaxSizeKB = defaultMaxSizeKB
	}

	return o, diags
}
