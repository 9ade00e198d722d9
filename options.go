package codeagent

// Options holds the sampling settings a backend sends with each generation
// request. Zero values mean "use the backend default".
type Options struct {
	Model       string
	MaxTokens   int
	Temperature *float64
}

// Option sets one field of Options.
type Option func(*Options)

// WithModel overrides the backend's model.
func WithModel(model string) Option {
	return func(o *Options) { o.Model = model }
}

// WithMaxTokens limits the length of the generated text.
func WithMaxTokens(n int) Option {
	return func(o *Options) { o.MaxTokens = n }
}

// WithTemperature sets the sampling temperature. Zero is a valid setting
// and is sent as such.
func WithTemperature(t float64) Option {
	return func(o *Options) { o.Temperature = &t }
}

// ApplyOptions returns the Options produced by opts, applied in order.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	o.Apply(opts...)
	return o
}

// Apply applies opts to o in order.
func (o *Options) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}

// ModelOr returns the configured model, or fallback when none is set.
func (o *Options) ModelOr(fallback string) string {
	if o == nil || o.Model == "" {
		return fallback
	}
	return o.Model
}

// MaxTokensOr returns the configured token limit, or fallback when none is
// set.
func (o *Options) MaxTokensOr(fallback int) int {
	if o == nil || o.MaxTokens <= 0 {
		return fallback
	}
	return o.MaxTokens
}

// TemperatureOr returns the configured temperature, or fallback when none
// is set.
func (o *Options) TemperatureOr(fallback float64) float64 {
	if o == nil || o.Temperature == nil {
		return fallback
	}
	return *o.Temperature
}
