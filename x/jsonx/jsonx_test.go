package jsonx

import "testing"

type cfg struct {
	Interval int    `json:"interval"`
	Mode     string `json:"mode"`
}

func TestDecodeSources(t *testing.T) {
	want := cfg{Interval: 2, Mode: "dev"}
	srcs := []any{
		want,
		&want,
		`{"interval":2,"mode":"dev"}`,
		[]byte(`{"interval":2,"mode":"dev"}`),
		map[string]any{"interval": 2.0, "mode": "dev"},
	}
	for i, s := range srcs {
		got, err := Decode[cfg](s)
		if err != nil {
			t.Fatalf("src %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("src %d: got %+v", i, got)
		}
	}
}

func TestDecodeRejectsBadJSON(t *testing.T) {
	if _, err := Decode[cfg]("{"); err == nil {
		t.Fatal("expected error")
	}
}
