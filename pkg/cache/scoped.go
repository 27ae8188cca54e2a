package cache

// ScopedKeyer prefixes another Keyer's keys. The CLI scopes its on-disk
// cache by build version, so an upgraded renderer never serves exports made
// by an older one:
//
//	keyer := NewScopedKeyer(nil, buildinfo.Version+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer prefixes inner's keys; a nil inner means the DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ExportKey generates a prefixed export key.
func (k *ScopedKeyer) ExportKey(contentHash string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(contentHash, opts)
}
