package ops

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hpungsan/shelf/internal/config"
	"github.com/hpungsan/shelf/internal/errors"
	"github.com/hpungsan/shelf/internal/saved"
)

// ImportMode controls how imported ids combine with the current set.
type ImportMode string

const (
	ImportModeMerge   ImportMode = "merge"   // add imported ids to the set
	ImportModeReplace ImportMode = "replace" // the set becomes exactly the imported ids
)

// ImportInput contains parameters for the ImportSaved operation.
type ImportInput struct {
	Path string     `json:"path"`           // required
	Mode ImportMode `json:"mode,omitempty"` // default: merge
}

// ImportOutput contains the result of the ImportSaved operation.
// Skipped counts ids that were already saved (merge) or repeated in the file.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Total    int           `json:"total"`
	Errors   []ImportError `json:"errors"`
}

// ImportError describes a line that could not be imported.
type ImportError struct {
	Line    int    `json:"line"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportSaved reads an export file into the manager's saved set.
// Bad lines are reported and skipped; the set is replaced in one write.
func ImportSaved(ctx context.Context, mgr *saved.Manager, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Mode == "" {
		input.Mode = ImportModeMerge
	}
	if input.Mode != ImportModeMerge && input.Mode != ImportModeReplace {
		return nil, errors.NewInvalidValue("mode", string(input.Mode),
			[]string{string(ImportModeMerge), string(ImportModeReplace)})
	}
	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := openNoFollow(input.Path, os.O_RDONLY, 0)
	if err != nil {
		return nil, errors.As(err)
	}
	defer file.Close()

	ids, importErrors, err := parseExportFile(ctx, file)
	if err != nil {
		return nil, err
	}

	out := &ImportOutput{Errors: importErrors}
	err = mgr.Update(ctx, func(current saved.Set) saved.Set {
		next := saved.New()
		if input.Mode == ImportModeMerge {
			next = current
		}

		out.Imported, out.Skipped = 0, 0
		seen := make(map[int]bool, len(ids))
		for _, id := range ids {
			switch {
			case seen[id]:
				out.Skipped++
			case input.Mode == ImportModeMerge && current.Contains(id):
				out.Skipped++
			default:
				next = next.Toggle(id)
				out.Imported++
			}
			seen[id] = true
		}
		out.Total = next.Len()
		return next
	})
	if err != nil {
		return nil, errors.As(err)
	}
	return out, nil
}

// parseExportFile returns the ids in file order. The header line and blank
// lines are skipped.
func parseExportFile(ctx context.Context, file *os.File) ([]int, []ImportError, error) {
	ids := []int{}
	importErrors := []ImportError{}

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil, nil, errors.NewCancelled("import")
		}
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var raw map[string]json.RawMessage
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			importErrors = append(importErrors, ImportError{
				Line:    lineNum,
				Code:    "PARSE_ERROR",
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}
		if _, isHeader := raw["_shelf_export"]; isHeader {
			continue
		}

		var record ExportRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil || raw["id"] == nil {
			importErrors = append(importErrors, ImportError{
				Line:    lineNum,
				Code:    "INVALID_RECORD",
				Message: "id must be an integer",
			})
			continue
		}
		ids = append(ids, record.ID)
	}

	if err := scanner.Err(); err != nil {
		importErrors = append(importErrors, ImportError{
			Line:    lineNum,
			Code:    "READ_ERROR",
			Message: fmt.Sprintf("failed to read file: %v", err),
		})
	}
	return ids, importErrors, nil
}
