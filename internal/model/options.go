package model

// Options configures the Builder and Normalize. The zero value uses
// DefaultLabeler.
type Options struct {
	Labeler func(string) string
}

func (o Options) labeler() func(string) string {
	if o.Labeler != nil {
		return o.Labeler
	}
	return DefaultLabeler
}
