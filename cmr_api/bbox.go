package cmr_api

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BoundingBox is a west,south,east,north spatial filter in degrees.
type BoundingBox struct {
	West, South, East, North float64
}

// ParseBoundingBox parses "w,s,e,n".
func ParseBoundingBox(s string) (*BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bounding box %q must have four comma-separated values", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bounding box %q: %w", s, err)
		}
		v[i] = f
	}
	b := &BoundingBox{West: v[0], South: v[1], East: v[2], North: v[3]}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks coordinate ranges. West may exceed East for boxes crossing
// the antimeridian.
func (b BoundingBox) Validate() error {
	for _, v := range []float64{b.West, b.South, b.East, b.North} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("coordinate %v is not a finite number", v)
		}
	}
	for _, lon := range []float64{b.West, b.East} {
		if lon < -180 || lon > 180 {
			return fmt.Errorf("longitude %v out of range [-180, 180]", lon)
		}
	}
	for _, lat := range []float64{b.South, b.North} {
		if lat < -90 || lat > 90 {
			return fmt.Errorf("latitude %v out of range [-90, 90]", lat)
		}
	}
	if b.South > b.North {
		return fmt.Errorf("south %v is greater than north %v", b.South, b.North)
	}
	return nil
}

// String formats the box as the bounding_box query value.
func (b BoundingBox) String() string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return strings.Join([]string{f(b.West), f(b.South), f(b.East), f(b.North)}, ",")
}
