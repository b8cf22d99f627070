package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jask/widgetd/internal/spatial"
)

// areaFlag parses "x,y,width,height".
type areaFlag struct {
	params spatial.AreaParams
	raw    string
}

func (f *areaFlag) String() string { return f.raw }

func (f *areaFlag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return fmt.Errorf("want x,y,width,height, got %q", s)
	}
	vals := make([]*int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("area component %d: %w", i, err)
		}
		vals[i] = &v
	}
	f.params = spatial.AreaParams{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
	f.raw = s
	return nil
}
