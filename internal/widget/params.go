package widget

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrValidation is matched by every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a missing or malformed client field. It is raised
// before any mutation takes place.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Missing builds the error for an absent required field.
func Missing(field string) error {
	return &ValidationError{Field: field, Reason: "required"}
}

// Params carries optional widget fields. A nil pointer means the field was not supplied.
type Params struct {
	X      *int `json:"x,omitempty" yaml:"x,omitempty"`
	Y      *int `json:"y,omitempty" yaml:"y,omitempty"`
	Width  *int `json:"width,omitempty" yaml:"width,omitempty"`
	Height *int `json:"height,omitempty" yaml:"height,omitempty"`
	Z      *int `json:"z,omitempty" yaml:"z,omitempty"`
}

// Validate checks the fields required to create a widget. Z stays optional.
func (p Params) Validate() error {
	switch {
	case p.X == nil:
		return Missing("x")
	case p.Y == nil:
		return Missing("y")
	case p.Width == nil:
		return Missing("width")
	case p.Height == nil:
		return Missing("height")
	}
	return nil
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// LogValue renders only the fields that are present.
func (p Params) LogValue() slog.Value {
	var attrs []slog.Attr
	for _, f := range []struct {
		name string
		v    *int
	}{{"x", p.X}, {"y", p.Y}, {"width", p.Width}, {"height", p.Height}, {"z", p.Z}} {
		if f.v != nil {
			attrs = append(attrs, slog.Int(f.name, *f.v))
		}
	}
	return slog.GroupValue(attrs...)
}
