package httpapi

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

const compressionMinSize = 1024

// Compression gzips responses of at least compressionMinSize bytes for clients
// that accept it.
func Compression(next http.Handler) http.Handler {
	wrapper, err := gzhttp.NewWrapper(
		gzhttp.MinSize(compressionMinSize),
		gzhttp.CompressionLevel(6),
	)
	if err != nil {
		return gzhttp.GzipHandler(next)
	}
	return wrapper(next)
}
