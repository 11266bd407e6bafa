package cache

// ScopedKeyer wraps a Keyer with a prefix so separate deployments or
// tenants sharing one backend get disjoint cache namespaces.
//
// Example usage:
//
//	// Per-project keys on a shared Redis
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "proj:42:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. The prefix is
// prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(scoreHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(scoreHash, opts)
}

// ScoreKey generates a prefixed key for serialized score caching.
func (k *ScopedKeyer) ScoreKey(scoreID string) string {
	return k.prefix + k.inner.ScoreKey(scoreID)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
