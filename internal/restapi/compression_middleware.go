package restapi

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"serviceanalyst.onebusaway.org/internal/appconf"
)

// CompressionConfig holds configuration options for response compression
type CompressionConfig struct {
	// MinSize is the minimum response size in bytes to compress (default: 1024)
	MinSize int
	// Level is the compression level 1-9 (default: 6)
	Level int
}

// DefaultCompressionConfig returns sensible defaults for compression
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize: 1024,
		Level:   6,
	}
}

// compressionConfigFrom fills unset values of the file configuration with the defaults.
func compressionConfigFrom(c appconf.CompressionConfig) CompressionConfig {
	config := DefaultCompressionConfig()
	if c.MinSize > 0 {
		config.MinSize = c.MinSize
	}
	if c.Level > 0 {
		config.Level = c.Level
	}
	return config
}

// NewCompressionMiddleware creates a compression middleware with the given configuration
func NewCompressionMiddleware(config CompressionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapper, err := gzhttp.NewWrapper(
			gzhttp.MinSize(config.MinSize),
			gzhttp.CompressionLevel(config.Level),
		)
		if err != nil {
			return gzhttp.GzipHandler(next)
		}
		return wrapper(next)
	}
}

// CompressionMiddleware applies gzip compression with default settings
func CompressionMiddleware(next http.Handler) http.Handler {
	return NewCompressionMiddleware(DefaultCompressionConfig())(next)
}
