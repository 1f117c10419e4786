package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Encoding is the serialization of a profile document.
type Encoding string

const (
	EncodingJSON Encoding = "json"
	EncodingYAML Encoding = "yaml"
)

// EncodingFromPath picks the encoding from a file extension. Anything that is
// not .json is treated as YAML, which also accepts JSON documents.
func EncodingFromPath(path string) Encoding {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return EncodingJSON
	}
	return EncodingYAML
}

// Parse decodes a profile document.
func Parse(data []byte, enc Encoding) (*Input, error) {
	var in Input
	switch enc {
	case EncodingJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&in); err != nil {
			return nil, fmt.Errorf("error parsing profile JSON: %w", err)
		}
	case EncodingYAML:
		if err := yaml.Unmarshal(data, &in); err != nil {
			return nil, fmt.Errorf("error parsing profile YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown profile encoding: %s", enc)
	}
	return &in, nil
}

// ParseDocument decodes a profile document into generic values for schema
// validation. JSON is a subset of YAML so one decoder covers both.
func ParseDocument(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing profile document: %w", err)
	}
	if doc == nil {
		doc = make(map[string]any)
	}
	return doc, nil
}

// LoadFile reads and decodes a profile file.
func LoadFile(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading profile %s: %w", path, err)
	}
	return Parse(data, EncodingFromPath(path))
}
