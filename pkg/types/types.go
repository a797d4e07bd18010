package types

import (
	"fmt"
	"strings"
)

// Box represents a face bounding box in pixel coordinates
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"w"`
	Height int `json:"h"`
}

// Center returns the center point of the box
func (b Box) Center() (int, int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Area returns the box area in pixels
func (b Box) Area() int {
	return b.Width * b.Height
}

// AspectMode selects the output shape of a cropped headshot
type AspectMode int

// Supported aspect modes
const (
	Portrait AspectMode = iota
	Square
	Circle
)

// ParseAspectMode converts a mode name into an AspectMode
func ParseAspectMode(s string) (AspectMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "portrait":
		return Portrait, nil
	case "square":
		return Square, nil
	case "circle":
		return Circle, nil
	default:
		return Portrait, fmt.Errorf("unknown aspect mode: %q", s)
	}
}

// String returns the canonical name of the aspect mode
func (m AspectMode) String() string {
	switch m {
	case Square:
		return "square"
	case Circle:
		return "circle"
	default:
		return "portrait"
	}
}
