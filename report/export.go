package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/liamg/portscout/scan"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

var ErrWriteFailed = errors.New("failed to write report")

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Record is the exported form of a single port result.
type Record struct {
	Port         int    `json:"port" yaml:"port"`
	Status       string `json:"status" yaml:"status"`
	ServiceGuess string `json:"service_guess" yaml:"service_guess"`
}

func Records(report *scan.Report) []Record {
	records := make([]Record, 0, len(report.Results))
	for _, result := range report.Results {
		records = append(records, Record{
			Port:         result.Port,
			Status:       result.Status(),
			ServiceGuess: result.ServiceLabel(),
		})
	}
	return records
}

// FormatFromPath picks YAML for .yaml/.yml files and JSON for everything else.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

func Encode(format Format, records []Record) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(records)
	case FormatJSON:
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return nil, errors.Errorf("unknown report format '%s'", format)
}

// Export writes every result in report to path. Any failure is returned wrapping ErrWriteFailed
// and leaves an existing file at path untouched.
func Export(path string, report *scan.Report) error {

	data, err := Encode(FormatFromPath(path), Records(report))
	if err != nil {
		return errors.Wrapf(ErrWriteFailed, "%s: %s", path, err)
	}

	if err := writeAtomic(path, data); err != nil {
		return errors.Wrapf(ErrWriteFailed, "%s: %s", path, err)
	}

	return nil
}

func writeAtomic(path string, data []byte) error {

	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".portscout-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return errors.Wrap(err, "write temp file")
	}

	if err := tmp.Sync(); err != nil {
		cleanup()
		return errors.Wrap(err, "sync temp file")
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(err, "close temp file")
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(err, "chmod temp file")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(err, "rename temp file")
	}

	return nil
}
