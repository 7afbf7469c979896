package draw

import "testing"

func TestColorUnorm8(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		want [4]uint8
	}{
		{"white", White, [4]uint8{255, 255, 255, 255}},
		{"black", Black, [4]uint8{0, 0, 0, 255}},
		{"half", RGBA(0.5, 0.25, 0, 1), [4]uint8{127, 63, 0, 255}},
		{"clamped", RGBA(-1, 2, 0, 1), [4]uint8{0, 255, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Unorm8(); got != tt.want {
				t.Errorf("Unorm8() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLineJoinStyleRoundTrip(t *testing.T) {
	for s := JoinNone; s <= JoinRounded; s++ {
		got, err := ParseLineJoinStyle(s.String())
		if err != nil {
			t.Fatalf("ParseLineJoinStyle(%q): %v", s.String(), err)
		}
		if got != s {
			t.Errorf("ParseLineJoinStyle(%q) = %v, want %v", s.String(), got, s)
		}
	}
	if _, err := ParseLineJoinStyle("wobbly"); err == nil {
		t.Error("expected error for unknown join style")
	}
}

func TestLineEndStyleRoundTrip(t *testing.T) {
	for s := EndFlat; s <= EndRounded; s++ {
		got, err := ParseLineEndStyle(s.String())
		if err != nil {
			t.Fatalf("ParseLineEndStyle(%q): %v", s.String(), err)
		}
		if got != s {
			t.Errorf("ParseLineEndStyle(%q) = %v, want %v", s.String(), got, s)
		}
	}
	if _, err := ParseLineEndStyle("ROUNDED"); err != nil {
		t.Errorf("ParseLineEndStyle should be case-insensitive: %v", err)
	}
}

func TestDataVariantsAreClosed(t *testing.T) {
	all := []Data{Rect{}, Texture{}, TextGlyph{}, Triangle{}, Circle{}, Line{}}
	for _, d := range all {
		switch d.(type) {
		case Rect, Texture, TextGlyph, Triangle, Circle, Line:
		default:
			t.Errorf("unexpected variant %T", d)
		}
	}
}
