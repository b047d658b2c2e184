package engine

// ============================================================================
// ENGINE OPTIONS — Functional options for Explore()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	PreviewRows    int               // rows shown in the preview table
	Bins           int               // fixed histogram bin count; 0 = automatic
	KDEPoints      int               // samples along each density curve
	GroupDimension string            // dimension that splits grouped charts
	LabelMeasure   string            // numeric class label, excluded from chart axes
	Labels         map[string]string // key → display label
}

// WithPreviewRows sets how many leading rows the preview table shows.
func WithPreviewRows(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.PreviewRows = n
		}
	}
}

// WithBins fixes the histogram bin count. n <= 0 keeps automatic binning.
func WithBins(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.Bins = n
		}
	}
}

// WithKDEPoints sets the resolution of density curves.
func WithKDEPoints(n int) Option {
	return func(c *config) {
		if n > 1 {
			c.KDEPoints = n
		}
	}
}

// WithGroupDimension sets the categorical dimension used by grouped charts
// and the category filter.
func WithGroupDimension(dim string) Option {
	return func(c *config) {
		c.GroupDimension = dim
	}
}

// WithLabelMeasure names the numeric class label. It stays filterable and
// appears in statistics, but is never offered as a chart axis.
func WithLabelMeasure(key string) Option {
	return func(c *config) {
		c.LabelMeasure = key
	}
}

// WithLabels supplies display labels for column keys.
func WithLabels(labels map[string]string) Option {
	return func(c *config) {
		c.Labels = labels
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		PreviewRows:    5,
		KDEPoints:      200,
		GroupDimension: "species",
		LabelMeasure:   "target",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// label resolves the display label for a key.
func (c *config) label(key string) string {
	if l, ok := c.Labels[key]; ok && l != "" {
		return l
	}
	return LabelForDimension(key)
}
