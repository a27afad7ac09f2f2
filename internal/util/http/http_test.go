package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			if !strings.HasPrefix(r.Header.Get("User-Agent"), UserAgentName+"/") {
				t.Errorf("Unexpected User-Agent: %s", r.Header.Get("User-Agent"))
			}
			_, _ = w.Write([]byte("hello"))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 32)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	t.Run("ok", func(t *testing.T) {
		data, err := Fetch(context.Background(), srv.URL+"/ok", FetchOptions{})
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if string(data) != "hello" {
			t.Errorf("Fetch() = %q", data)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if _, err := Fetch(context.Background(), srv.URL+"/missing", FetchOptions{}); err == nil {
			t.Error("Expected error for 404")
		}
	})

	t.Run("too large", func(t *testing.T) {
		if _, err := Fetch(context.Background(), srv.URL+"/big", FetchOptions{MaxBytes: 8}); err == nil {
			t.Error("Expected error for oversized body")
		}
	})
}
