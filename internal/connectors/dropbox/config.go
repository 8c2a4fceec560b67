package dropbox

// Config holds Dropbox listing and rate limit settings.
type Config struct {
	// Recursive lists sub-folders as well.
	Recursive bool

	// RequestsPerSecond is the sustained API request rate.
	RequestsPerSecond float64

	// Burst is the maximum burst size.
	Burst int
}

// DefaultConfig returns conservative defaults, well below Dropbox's per-user limits.
func DefaultConfig() *Config {
	return &Config{
		Recursive:         false,
		RequestsPerSecond: 8,
		Burst:             10,
	}
}
