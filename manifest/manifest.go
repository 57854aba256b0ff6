package manifest

import (
	"context"
	"fmt"
	"strings"

	"github.com/xy-planning-network/signpost"
)

// A Descriptor describes one page to be exposed.
type Descriptor struct {
	// Module names the page module to load.
	Module string `json:"file" yaml:"file"`

	// Path is the URL path the page is served on.
	Path string `json:"route" yaml:"route"`

	// Name labels the page in the generated index.
	Name string `json:"name" yaml:"name"`
}

// String identifies the Descriptor in log messages and errors.
func (d Descriptor) String() string {
	return fmt.Sprintf("%q at %q", d.Module, d.Path)
}

// A Manifest is an ordered list of Descriptors.
type Manifest []Descriptor

// Paths lists the URL path of every Descriptor in order.
func (m Manifest) Paths() []string {
	paths := make([]string, len(m))
	for i, d := range m {
		paths[i] = d.Path
	}

	return paths
}

// A Source retrieves the raw bytes of a manifest
// and names the format they are encoded in.
type Source interface {
	Fetch(ctx context.Context) ([]byte, Format, error)
	String() string
}

// Read fetches the manifest from src, decodes, and validates it.
//
// Read fails with a *ConfigurationError if src is missing or unreadable,
// the manifest is malformed, or two Descriptors share a route.
func Read(ctx context.Context, src Source) (Manifest, error) {
	if src == nil {
		return nil, newConfigurationError("", "no manifest source", nil)
	}

	b, format, err := src.Fetch(ctx)
	if err != nil {
		return nil, newConfigurationError(src.String(), "cannot read manifest", err)
	}

	m, err := decode(b, format)
	if err != nil {
		return nil, newConfigurationError(src.String(), "malformed manifest", err)
	}

	if err := validate(m); err != nil {
		return nil, newConfigurationError(src.String(), "invalid manifest", err)
	}

	return m, nil
}

// validate checks each Descriptor's fields and that no route repeats.
func validate(m Manifest) error {
	seen := make(map[string]int, len(m))
	for i, d := range m {
		switch {
		case strings.TrimSpace(d.Module) == "":
			return fmt.Errorf("entry %d: %w: \"file\"", i, errMissingField)
		case d.Path == "":
			return fmt.Errorf("entry %d: %w: \"route\"", i, errMissingField)
		case !strings.HasPrefix(d.Path, "/"):
			return fmt.Errorf("entry %d: route %q must begin with \"/\"", i, d.Path)
		case strings.ContainsAny(d.Path, "{}"):
			return fmt.Errorf("entry %d: %w: route %q contains a brace", i, signpost.ErrNotValid, d.Path)
		}

		if j, ok := seen[d.Path]; ok {
			return &signpost.RouteConflictError{Path: d.Path, Module: d.Module, Existing: m[j].Module}
		}

		seen[d.Path] = i
	}

	return nil
}
