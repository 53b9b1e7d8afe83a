package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"decarbgoals/internal/model"
)

var Header = []string{
	"organization",
	"goal_description",
	"target_year",
	"baseline_year",
	"scope",
	"source_urls",
}

// OutputError reports that the results could not be written. It is fatal.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

// WriteCSV writes records to path. The file is written to a temporary file in
// the same directory and renamed into place, so path is either complete or
// untouched.
func WriteCSV(path string, records []model.ExtractionRecord) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &OutputError{Path: path, Err: err}
	}
	defer os.Remove(tmp.Name())

	if err := EncodeCSV(tmp, records); err != nil {
		tmp.Close()
		return &OutputError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	return nil
}

func EncodeCSV(w io.Writer, records []model.ExtractionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func row(r model.ExtractionRecord) []string {
	return []string{
		r.Organization,
		orUnknown(r.GoalDescription),
		orUnknown(r.TargetYear),
		orUnknown(r.BaselineYear),
		orUnknown(r.Scope),
		r.JoinedURLs(),
	}
}

func orUnknown(v string) string {
	if v == "" {
		return model.Unknown
	}
	return v
}
