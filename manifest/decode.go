package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// A Format is an encoding a manifest can be written in.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

func (f Format) String() string { return string(f) }

func (f Format) Valid() error {
	switch f {
	case JSON, YAML:
		return nil
	default:
		return fmt.Errorf("%w: format %q", errUnknownFormat, string(f))
	}
}

// FormatFromPath picks a Format by file extension, defaulting to JSON.
func FormatFromPath(fp string) Format {
	switch strings.ToLower(filepath.Ext(fp)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

var (
	errMissingField  = errors.New("missing required field")
	errNotList       = errors.New("manifest must be a list")
	errUnknownFormat = errors.New("unknown format")
)

// rawDescriptor holds each field as a pointer so missing fields can be told apart from empty ones.
type rawDescriptor struct {
	File  *string `json:"file" yaml:"file"`
	Route *string `json:"route" yaml:"route"`
	Name  *string `json:"name" yaml:"name"`
}

func (rd rawDescriptor) descriptor(i int) (Descriptor, error) {
	for _, f := range []struct {
		name string
		val  *string
	}{
		{"file", rd.File},
		{"route", rd.Route},
		{"name", rd.Name},
	} {
		if f.val == nil {
			return Descriptor{}, fmt.Errorf("entry %d: %w: %q", i, errMissingField, f.name)
		}
	}

	return Descriptor{Module: *rd.File, Path: *rd.Route, Name: *rd.Name}, nil
}

// decode unmarshals b in the given format, strictly.
func decode(b []byte, format Format) (Manifest, error) {
	if err := format.Valid(); err != nil {
		return nil, err
	}

	var raw []rawDescriptor
	switch format {
	case YAML:
		if err := decodeYAML(b, &raw); err != nil {
			return nil, err
		}

	default:
		if err := decodeJSON(b, &raw); err != nil {
			return nil, err
		}
	}

	m := make(Manifest, 0, len(raw))
	for i, rd := range raw {
		d, err := rd.descriptor(i)
		if err != nil {
			return nil, err
		}

		m = append(m, d)
	}

	return m, nil
}

func decodeJSON(b []byte, raw *[]rawDescriptor) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '[' {
		return errNotList
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(raw); err != nil {
		return err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after manifest")
	}

	if *raw == nil {
		return errNotList
	}

	return nil
}

func decodeYAML(b []byte, raw *[]rawDescriptor) error {
	var node yaml.Node
	if err := yaml.Unmarshal(b, &node); err != nil {
		return err
	}

	if len(node.Content) == 0 || node.Content[0].Kind != yaml.SequenceNode {
		return errNotList
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(raw); err != nil {
		return err
	}

	if *raw == nil {
		*raw = make([]rawDescriptor, 0)
	}

	return nil
}
