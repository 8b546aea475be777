package dedupe

// Option applies a configuration option to the deduper.
type Option func(*memoryDeduper)

// WithMaxSize bounds the number of remembered keys. A size of 0 or
// less disables the bound.
func WithMaxSize(size int) Option {
	return func(d *memoryDeduper) {
		d.maxSize = size
	}
}
