// Package bundle packs generated theme files into .tar.xz archives and
// unpacks them again.
package bundle

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/tinct-shell/internal/security"
)

// MaxFileSize caps each unpacked file.
const MaxFileSize = 16 * 1024 * 1024

// Entry is one file in a bundle.
type Entry struct {
	Name string // Slash-separated path inside the archive
	Data []byte
	Mode int64
}

// Write writes entries to w as a tar.xz stream.
func Write(w io.Writer, entries []Entry) error {
	xzw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create xz writer: %w", err)
	}
	tw := tar.NewWriter(xzw)

	now := time.Now()
	for _, e := range entries {
		if err := security.ValidateFilePath(e.Name, "."); err != nil {
			return fmt.Errorf("invalid bundle entry %q: %w", e.Name, err)
		}
		mode := e.Mode
		if mode == 0 {
			mode = 0o644
		}
		hdr := &tar.Header{
			Name:     e.Name,
			Mode:     mode,
			Size:     int64(len(e.Data)),
			ModTime:  now,
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("failed to write header for %s: %w", e.Name, err)
		}
		if _, err := tw.Write(e.Data); err != nil {
			return fmt.Errorf("failed to write %s: %w", e.Name, err)
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("failed to finalise tar: %w", err)
	}
	if err := xzw.Close(); err != nil {
		return fmt.Errorf("failed to finalise xz: %w", err)
	}
	return nil
}

// Create writes entries to a new archive at path.
func Create(path string, entries []Entry) (err error) {
	f, err := os.Create(path) // #nosec G304 - User-specified output path
	if err != nil {
		return fmt.Errorf("failed to create bundle: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close bundle: %w", cerr)
		}
	}()
	return Write(f, entries)
}

// Read returns the regular files in a tar.xz stream.
func Read(r io.Reader) ([]Entry, error) {
	xzr, err := xz.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create xz reader: %w", err)
	}
	tr := tar.NewReader(xzr)

	var entries []Entry
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tar archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if err := security.ValidateFilePath(hdr.Name, "."); err != nil {
			return nil, fmt.Errorf("invalid bundle entry %q: %w", hdr.Name, err)
		}
		if hdr.Size > MaxFileSize {
			return nil, fmt.Errorf("bundle entry %s too large: %d bytes", hdr.Name, hdr.Size)
		}
		data, err := io.ReadAll(security.NewLimitedReader(tr, MaxFileSize+1))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", hdr.Name, err)
		}
		entries = append(entries, Entry{Name: hdr.Name, Data: data, Mode: hdr.Mode})
	}
	return entries, nil
}

// Extract unpacks the archive at path into destDir and returns the written paths.
func Extract(path, destDir string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 - User-specified bundle path
	if err != nil {
		return nil, fmt.Errorf("failed to open bundle: %w", err)
	}
	defer f.Close()

	entries, err := Read(f)
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, len(entries))
	for _, e := range entries {
		if err := security.ValidateFilePath(e.Name, destDir); err != nil {
			return written, fmt.Errorf("invalid bundle entry %q: %w", e.Name, err)
		}
		target := filepath.Join(destDir, filepath.FromSlash(e.Name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, fmt.Errorf("failed to create directory for %s: %w", e.Name, err)
		}
		if err := os.WriteFile(target, e.Data, 0o644); err != nil { // #nosec G306 - Theme files are world-readable
			return written, fmt.Errorf("failed to write %s: %w", target, err)
		}
		written = append(written, target)
	}
	return written, nil
}
