package types

// Mirror is the smart-home projection of the LED state.
type Mirror struct {
	On    bool    `json:"on"`
	Level int     `json:"level"` // 0..100
	Hue1  float32 `json:"hue1"`  // degrees
	Sat1  float32 `json:"sat1"`  // 0..100
	Hue2  float32 `json:"hue2"`
	Sat2  float32 `json:"sat2"`
}

// BridgeRGBW switches white extraction for mirror colours. With Toggle set
// Enabled is ignored and the current mode flips.
type BridgeRGBW struct {
	Enabled bool `json:"enabled"`
	Toggle  bool `json:"toggle,omitempty"`
}
