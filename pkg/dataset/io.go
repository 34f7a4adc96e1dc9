package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/impactriver/pkg/errors"
)

// Supported dataset file formats.
const (
	FormatJSON   = "json"
	FormatTOML   = "toml"
	FormatScript = "js"
)

// ReadJSON decodes a JSON dataset from r.
//
// The decoded dataset is not validated; call [Dataset.Validate]. Unknown
// fields are rejected so that misspelled keys (e.g. "maxBucketSize") surface
// as errors instead of silently zero values.
func ReadJSON(r io.Reader) (*Dataset, error) {
	var d Dataset
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json dataset")
	}
	return &d, nil
}

// ReadTOML decodes a TOML dataset from r.
//
//	max_bucket_size = 1000
//
//	[[authors]]
//	author_id = "a"
//	name = "Alice"
//
//	[[buckets]]
//	date = 1700000000
//	  [[buckets.contributions]]
//	  author_id = "a"
//	  size = 100
func ReadTOML(r io.Reader) (*Dataset, error) {
	var d Dataset
	md, err := toml.NewDecoder(r).Decode(&d)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml dataset")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown toml keys: %v", undecoded)
	}
	return &d, nil
}

// ReadScript decodes a dataset embedded in a JavaScript assignment of the
// form `var chart_data = {...};`, as produced by older data generators.
func ReadScript(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	start := bytes.IndexByte(data, '{')
	end := bytes.LastIndexByte(data, '}')
	if start < 0 || end < start {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no JSON object found in script")
	}
	return ReadJSON(bytes.NewReader(data[start : end+1]))
}

// FormatFromPath returns the dataset format implied by the file extension.
// Unknown extensions default to JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case FormatTOML:
		return FormatTOML
	case FormatScript:
		return FormatScript
	default:
		return FormatJSON
	}
}

// Read decodes a dataset from r in the given format.
func Read(r io.Reader, format string) (*Dataset, error) {
	switch format {
	case FormatJSON, "":
		return ReadJSON(r)
	case FormatTOML:
		return ReadTOML(r)
	case FormatScript:
		return ReadScript(r)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset format: %q", format)
	}
}

// Import reads the dataset file at path, choosing the decoder by extension.
// The error wraps the underlying cause with the file path for context.
func Import(path string) (*Dataset, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	d, err := Read(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// WriteJSON encodes the dataset as indented JSON.
// The output can be re-imported with [ReadJSON].
func WriteJSON(d *Dataset, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteTOML encodes the dataset as TOML.
func WriteTOML(d *Dataset, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Export writes the dataset to path, choosing the encoder by extension.
func Export(d *Dataset, path string) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if FormatFromPath(path) == FormatTOML {
		return WriteTOML(d, f)
	}
	return WriteJSON(d, f)
}
