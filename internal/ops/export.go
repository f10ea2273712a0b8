package ops

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/shelf/internal/config"
	"github.com/hpungsan/shelf/internal/errors"
	"github.com/hpungsan/shelf/internal/saved"
)

// ExportSchemaVersion is written to every export header.
const ExportSchemaVersion = "1.0"

// ExportInput contains parameters for the ExportSaved operation.
type ExportInput struct {
	Path    string `json:"path,omitempty"`    // default: ~/.shelf/exports/<profile>-<timestamp>.jsonl
	Profile string `json:"profile,omitempty"` // recorded in the header and default file name
}

// ExportOutput contains the result of the ExportSaved operation.
type ExportOutput struct {
	Path       string `json:"path"`
	ExportID   string `json:"export_id"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportHeader is the first line of an export file.
type ExportHeader struct {
	ShelfExport   bool   `json:"_shelf_export"`
	SchemaVersion string `json:"schema_version"`
	ExportID      string `json:"export_id"`
	Profile       string `json:"profile,omitempty"`
	ExportedAt    int64  `json:"exported_at"`
}

// ExportRecord is one saved prompt id.
type ExportRecord struct {
	ID int `json:"id"`
}

// ExportSaved writes the saved set to a JSONL file: a header line, then one
// record per id in ascending order.
func ExportSaved(ctx context.Context, set saved.Set, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	now := time.Now()

	exportPath := input.Path
	if exportPath == "" {
		var err error
		exportPath, err = defaultExportPath(input.Profile, now)
		if err != nil {
			return nil, err
		}
	}

	// Default paths are validated too: the profile name ends up in the file name.
	if err := ValidatePath(exportPath, PathCheckWrite, cfg); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	header := ExportHeader{
		ShelfExport:   true,
		SchemaVersion: ExportSchemaVersion,
		ExportID:      ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		Profile:       input.Profile,
		ExportedAt:    now.Unix(),
	}

	count, err := writeAtomic(exportPath, func(w *bufio.Writer) (int, error) {
		enc := json.NewEncoder(w)
		if err := enc.Encode(header); err != nil {
			return 0, err
		}
		n := 0
		for _, id := range set.IDs() {
			if ctx.Err() != nil {
				return n, errors.NewCancelled("export")
			}
			if err := enc.Encode(ExportRecord{ID: id}); err != nil {
				return n, err
			}
			n++
		}
		return n, nil
	})
	if err != nil {
		return nil, err
	}

	return &ExportOutput{
		Path:       exportPath,
		ExportID:   header.ExportID,
		Count:      count,
		ExportedAt: header.ExportedAt,
	}, nil
}

// writeAtomic writes to a temp file beside path and renames it into place,
// so an existing file survives any failure.
func writeAtomic(path string, write func(*bufio.Writer) (int, error)) (int, error) {
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return 0, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"

	file, err := openNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return 0, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	w := bufio.NewWriter(file)
	count, err := write(w)
	if err != nil {
		return 0, errors.As(err)
	}
	if err := w.Flush(); err != nil {
		return 0, errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return 0, errors.NewInternal(err)
	}
	// Close before rename (required on Windows).
	if err := file.Close(); err != nil {
		return 0, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlink at the destination.
	if isSymlink(path) {
		return 0, errors.NewInvalidRequest("path must not be a symlink")
	}

	// Windows refuses to rename over an existing file; fail rather than delete first.
	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return 0, errors.NewInvalidRequest("export destination already exists; choose a new path or delete the existing file")
			}
		}
		return 0, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return count, nil
}

// defaultExportPath returns ~/.shelf/exports/<profile>-<timestamp>.jsonl.
func defaultExportPath(profile string, now time.Time) (string, error) {
	dir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}
	name := "saved"
	if profile != "" {
		name = SanitizeForFilename(profile)
	}
	filename := fmt.Sprintf("%s-%s.jsonl", name, now.Format("2006-01-02T150405"))
	return filepath.Join(dir, filename), nil
}
