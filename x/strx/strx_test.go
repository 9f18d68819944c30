package strx

import "testing"

func TestNormAndCoalesce(t *testing.T) {
	if Norm(" linear-padding ") != "LINEAR_PADDING" {
		t.Fatalf("Norm = %q", Norm(" linear-padding "))
	}
	if Coalesce("", "d") != "d" || Coalesce("s", "d") != "s" {
		t.Fatal("Coalesce")
	}
}

func TestKey(t *testing.T) {
	for _, s := range []string{"colorIncrement", "color-increment", "COLOR_INCREMENT"} {
		if got := Key(s); got != "COLORINCREMENT" {
			t.Fatalf("Key(%q) = %q", s, got)
		}
	}
}
