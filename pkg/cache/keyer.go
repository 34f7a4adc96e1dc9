package cache

// Keyer generates cache keys.
type Keyer interface {
	// IngestKey identifies a dataset collected from a repository at a commit.
	IngestKey(repo, head string, opts IngestKeyOpts) string
	// ArtifactKey identifies a rendered chart for a dataset.
	ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string
}

// IngestKeyOpts are the ingest options that change the resulting dataset.
type IngestKeyOpts struct {
	BucketDays int    `json:"bucket_days"`
	MaxBuckets int    `json:"max_buckets"`
	AliasHash  string `json:"alias_hash,omitempty"`
}

// ArtifactKeyOpts are the render options that change the output bytes.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Highlight   string  `json:"highlight,omitempty"`
	LabelAnchor string  `json:"label_anchor,omitempty"`
	NoLegend    bool    `json:"no_legend,omitempty"`
	Title       string  `json:"title,omitempty"`
	Static      bool    `json:"static,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// IngestKey returns "ingest:<sha256>".
func (k *DefaultKeyer) IngestKey(repo, head string, opts IngestKeyOpts) string {
	return hashKey("ingest", repo, head, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (k *DefaultKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", datasetHash, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)
