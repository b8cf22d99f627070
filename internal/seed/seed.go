// Package seed loads widget fixtures from YAML and applies them to an empty store.
package seed

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jask/widgetd/internal/service"
	"github.com/jask/widgetd/internal/widget"
)

// File is the fixture document:
//
//	widgets:
//	  - {x: 0, y: 0, width: 100, height: 100, z: 1}
type File struct {
	Widgets []widget.Params `yaml:"widgets"`
}

// Parse decodes a fixture and checks every entry can be created.
func Parse(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return File{}, fmt.Errorf("decode seed: %w", err)
	}
	for i, p := range f.Widgets {
		if err := p.Validate(); err != nil {
			return File{}, fmt.Errorf("seed widget %d: %w", i, err)
		}
	}
	return f, nil
}

// Load reads the fixture at path.
func Load(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer fh.Close()
	return Parse(fh)
}

// Creator is the part of the widget service a fixture needs.
type Creator interface {
	Create(ctx context.Context, p widget.Params) (service.Result, error)
	List(ctx context.Context, q service.Query) (service.Page, error)
}

// Apply creates the fixture widgets in order, but only when the store holds
// no widgets yet. It is idempotent and safe to run on every startup.
// It returns the number of widgets created.
func Apply(ctx context.Context, svc Creator, f File) (int, error) {
	page, err := svc.List(ctx, service.Query{Limit: widget.Int(1)})
	if err != nil {
		return 0, err
	}
	if page.Total > 0 {
		return 0, nil
	}
	for i, p := range f.Widgets {
		if _, err := svc.Create(ctx, p); err != nil {
			return i, fmt.Errorf("seed widget %d: %w", i, err)
		}
	}
	return len(f.Widgets), nil
}
