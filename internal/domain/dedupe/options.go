package dedupe

// Option applies a configuration option to the Guard.
type Option func(*logGuard)

// WithHashFunc replaces the SHA-256 fingerprint. Intended for tests.
func WithHashFunc(h HashFunc) Option {
	return func(g *logGuard) {
		if h != nil {
			g.hash = h
		}
	}
}
