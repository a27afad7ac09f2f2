package image

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode image: %v", err)
	}
}

func TestSmartLoaderLocal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wall paper.png")
	writePNG(t, path)

	loader := NewSmartLoader()
	for _, ref := range []string{path, "file://" + filepath.ToSlash(dir) + "/wall%20paper.png"} {
		img, err := loader.Load(context.Background(), ref)
		if err != nil {
			t.Fatalf("Load(%q) error: %v", ref, err)
		}
		if img.Bounds().Dx() != 4 {
			t.Errorf("Load(%q) width = %d, want 4", ref, img.Bounds().Dx())
		}
	}
}

func TestSmartLoaderRemote(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "remote.png")
	writePNG(t, path)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua == "" {
			t.Errorf("Expected User-Agent header")
		}
		http.ServeFile(w, r, path)
	}))
	defer srv.Close()

	img, err := NewSmartLoader().Load(context.Background(), srv.URL+"/remote.png")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if img.Bounds().Dy() != 4 {
		t.Errorf("Load() height = %d, want 4", img.Bounds().Dy())
	}
}

func TestValidateImagePath(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "ok.png")
	writePNG(t, good)
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		ref     string
		wantErr bool
	}{
		{"valid file", good, false},
		{"file uri", "file://" + good, false},
		{"remote", "https://example.com/a.png", false},
		{"empty", "", true},
		{"missing", filepath.Join(dir, "missing.png"), true},
		{"directory", dir, true},
		{"not an image", bad, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImagePath(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImagePath(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
		})
	}
}
