package cache

// ScopedKeyer wraps a Keyer with a prefix, so several datasets or users can
// share one Redis instance without colliding.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "lab-a:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) CountKey(fp uint64, opts CountKeyOpts) string {
	return k.prefix + k.inner.CountKey(fp, opts)
}

func (k *ScopedKeyer) PageRankKey(fp uint64, opts PageRankKeyOpts) string {
	return k.prefix + k.inner.PageRankKey(fp, opts)
}
