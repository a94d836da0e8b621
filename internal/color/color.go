// Package color maps sender names to stable display colors.
package color

import (
	"hash/fnv"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	saturation = 0.55
	lightness  = 0.45
)

// ForSender returns a "#rrggbb" color derived only from name. The same name
// always gives the same color; distinct names may collide.
func ForSender(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	hue := float64(h.Sum32() % 360)
	return colorful.Hsl(hue, saturation, lightness).Clamped().Hex()
}

// Palette assigns a color to each name.
func Palette(names []string) map[string]string {
	p := make(map[string]string, len(names))
	for _, n := range names {
		p[n] = ForSender(n)
	}
	return p
}
