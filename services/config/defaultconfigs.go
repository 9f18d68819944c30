package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

const cfgPico = `{
  "strip": {
      "pixels": 60,
      "order": "grbw",
      "pin": 15
  },
  "led": {
      "brightness": 200,
      "gradient_mode": "linear_padding",
      "effect_active": true
  },
  "console": {
      "echo": true,
      "uart": "uart0",
      "baud": 115200,
      "tx_pin": 0,
      "rx_pin": 1
  },
  "bridge": {
      "rgbw": true
  },
  "heartbeat": {
      "interval": 10
  }
}`

// Two strips on separate pins, driven as one interleaved strip.
const cfgPicoDual = `{
  "strip": {
      "pixels": 120,
      "order": "grbw",
      "pin": 15,
      "dual": true,
      "pin_b": 14,
      "interleaved": true
  },
  "led": {
      "gradient_mode": "edge_center"
  },
  "console": {
      "echo": true
  },
  "bridge": {
      "rgbw": true
  },
  "heartbeat": {
      "interval": 10
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico":      []byte(cfgPico),
	"pico-dual": []byte(cfgPicoDual),
}
