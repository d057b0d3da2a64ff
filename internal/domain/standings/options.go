package standings

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithDimensions replaces the default overall dimension.
func WithDimensions(dims ...Dimension) Option {
	return func(g *Generator) {
		g.dimensions = dims
	}
}

// WithInclusionFilter sets the predicate deciding whether an entity appears at all.
func WithInclusionFilter(f Filter) Option {
	return func(g *Generator) {
		g.include = f
	}
}

// WithEligibilityFilter sets the predicate deciding whether an included
// entity receives a numbered rank.
func WithEligibilityFilter(f Filter) Option {
	return func(g *Generator) {
		g.eligible = f
	}
}

// WithPrecision sets how many decimal places are significant when comparing
// metric values. Values equal at this precision tie.
func WithPrecision(decimals int) Option {
	return func(g *Generator) {
		g.precision = decimals
	}
}
