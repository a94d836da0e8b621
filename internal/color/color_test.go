package color

import (
	"regexp"
	"testing"
)

var hexRe = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestForSender_Stable(t *testing.T) {
	for _, name := range []string{"Alice", "Bob", "", "Zoë", "+1 555 0100"} {
		a := ForSender(name)
		b := ForSender(name)
		if a != b {
			t.Errorf("ForSender(%q) not stable: %s vs %s", name, a, b)
		}
		if !hexRe.MatchString(a) {
			t.Errorf("ForSender(%q) = %q, want #rrggbb", name, a)
		}
	}
}

func TestPalette(t *testing.T) {
	p := Palette([]string{"Alice", "Bob"})
	if len(p) != 2 {
		t.Fatalf("len(Palette) = %d, want 2", len(p))
	}
	if p["Alice"] != ForSender("Alice") {
		t.Errorf("Palette[Alice] = %s, want %s", p["Alice"], ForSender("Alice"))
	}
}
