package cache

// ExportKeyOpts are the options an export key depends on.
type ExportKeyOpts struct {
	Format string `json:"format"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Curves bool   `json:"curves,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// ExportKey returns the key of an export of content with the given hash.
	ExportKey(contentHash string, opts ExportKeyOpts) string
}

// DefaultKeyer hashes the content hash together with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ExportKey generates a key of the form export:<format>:<hash>.
func (DefaultKeyer) ExportKey(contentHash string, opts ExportKeyOpts) string {
	return hashKey("export:"+opts.Format, contentHash, opts)
}
