package cache

// ArtifactKeyOpts holds everything besides the layout that changes a
// rendered artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Style      string  `json:"style"`
	Grid       bool    `json:"grid,omitempty"`
	Dimensions bool    `json:"dimensions,omitempty"`
	Status     string  `json:"status,omitempty"`
	Search     string  `json:"search,omitempty"`
	Selected   string  `json:"selected,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	Live       bool    `json:"live,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey identifies a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
	// ReportKey identifies a workbook built from a set of layouts.
	ReportKey(layoutHashes []string) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

func (DefaultKeyer) ReportKey(layoutHashes []string) string {
	return hashKey("report", layoutHashes)
}

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one cache without seeing each other's entries.
//
//	keyer := cache.NewScopedKeyer(nil, "campus-a:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

func (k *ScopedKeyer) ReportKey(layoutHashes []string) string {
	return k.prefix + k.inner.ReportKey(layoutHashes)
}
