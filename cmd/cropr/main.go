// Package main provides the entry point for the cropr CLI.
//
// Cropr crops photos into standardized headshots by detecting the most
// prominent face and framing it with natural headroom.
//
// Usage:
//
//	cropr -i photo.jpg -o photo_headshot.webp
//	cropr -i ./photos -o ./photos/headshots
//
// See --help for all available options.
package main

// main is the entry point for cropr.
func main() {
	Execute()
}
