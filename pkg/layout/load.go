package layout

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed layouts/*.json
var builtinFS embed.FS

// Format selects the encoding of a layout document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", &Error{Reason: fmt.Sprintf("unsupported layout file %q", path)}
	}
}

// Load decodes a layout document and validates it against a grid of
// width × height cells.
func Load(r io.Reader, format Format, width, height int) (*Layout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &Error{Reason: "failed to read document", Err: err}
	}

	var doc document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, &Error{Reason: "malformed JSON document", Err: err}
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, &Error{Reason: "malformed YAML document", Err: err}
		}
	default:
		return nil, &Error{Reason: fmt.Sprintf("unknown document format %q", format)}
	}
	if doc == nil {
		return nil, &Error{Reason: "empty document"}
	}

	return build(doc, width, height)
}

// LoadFile loads a layout from disk, picking the format from the file
// extension.
func LoadFile(path string, width, height int) (*Layout, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &Error{Reason: fmt.Sprintf("failed to open %s", path), Err: err}
	}
	defer file.Close()

	return Load(file, format, width, height)
}

// Builtin loads one of the layouts shipped with the package.
func Builtin(name string, width, height int) (*Layout, error) {
	file, err := builtinFS.Open("layouts/" + name + ".json")
	if err != nil {
		return nil, &Error{Reason: fmt.Sprintf("no builtin layout %q", name), Err: err}
	}
	defer file.Close()

	return Load(file, FormatJSON, width, height)
}

// BuiltinNames lists the layouts shipped with the package.
func BuiltinNames() []string {
	entries, err := builtinFS.ReadDir("layouts")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	return names
}
