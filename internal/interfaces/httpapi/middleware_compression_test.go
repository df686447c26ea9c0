package httpapi

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompression(t *testing.T) {
	large := strings.Repeat(`{"name":"Line 2","color":"bg-green-600"},`, 100)
	handler := Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/small" {
			_, _ = w.Write([]byte(`{"ok":true}`))
			return
		}
		_, _ = w.Write([]byte(large))
	}))

	t.Run("large response is gzipped", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/large", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Header().Get("Content-Encoding") != "gzip" {
			t.Fatalf("expected gzip encoding, got %q", rec.Header().Get("Content-Encoding"))
		}
		zr, err := gzip.NewReader(rec.Body)
		if err != nil {
			t.Fatalf("gzip reader: %v", err)
		}
		body, err := io.ReadAll(zr)
		if err != nil {
			t.Fatalf("read gzip body: %v", err)
		}
		if string(body) != large {
			t.Fatalf("unexpected decompressed body length: %d", len(body))
		}
	})

	t.Run("small response is plain", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/small", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Header().Get("Content-Encoding") != "" {
			t.Fatalf("expected no encoding for small body")
		}
		if rec.Body.String() != `{"ok":true}` {
			t.Fatalf("unexpected body: %q", rec.Body.String())
		}
	})

	t.Run("client without gzip", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/large", nil))
		if rec.Header().Get("Content-Encoding") != "" || rec.Body.String() != large {
			t.Fatalf("expected identity response")
		}
	})
}
