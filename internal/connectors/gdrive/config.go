package gdrive

// Config holds Google Drive listing and rate limit settings.
type Config struct {
	// Recursive lists sub-folders as well.
	Recursive bool

	// PageSize is the number of entries requested per listing page.
	PageSize int64

	// MaxFileBytes caps the size of a single download.
	MaxFileBytes int64

	// RequestsPerSecond is the sustained API request rate.
	RequestsPerSecond float64

	// Burst is the maximum burst size.
	Burst int
}

// DefaultConfig returns the default configuration.
// Google allows 10 requests per second per user; the defaults stay below that.
func DefaultConfig() *Config {
	return &Config{
		PageSize:          100,
		MaxFileBytes:      512 << 20,
		RequestsPerSecond: 8,
		Burst:             10,
	}
}
