package types

// StripConfig is read from config/strip when composing the sink.
type StripConfig struct {
	Pixels      int    `json:"pixels" yaml:"pixels"`
	Order       string `json:"order" yaml:"order"` // grbw, grb, rgb, rgbw
	Pin         int    `json:"pin,omitempty" yaml:"pin,omitempty"`
	Dual        bool   `json:"dual,omitempty" yaml:"dual,omitempty"`
	PinB        int    `json:"pin_b,omitempty" yaml:"pin_b,omitempty"`
	SplitAt     int    `json:"split_at,omitempty" yaml:"split_at,omitempty"`
	Interleaved bool   `json:"interleaved,omitempty" yaml:"interleaved,omitempty"`
	Reverse     bool   `json:"reverse,omitempty" yaml:"reverse,omitempty"`
}

// HeartbeatConfig is read from config/heartbeat. Interval is in seconds.
type HeartbeatConfig struct {
	Interval int `json:"interval" yaml:"interval"`
}

// ConsoleConfig is read from config/console. The UART fields are used by
// firmware builds only; an empty UART means the USB serial port.
type ConsoleConfig struct {
	Echo  bool   `json:"echo" yaml:"echo"`
	UART  string `json:"uart,omitempty" yaml:"uart,omitempty"` // "uart0" or "uart1"
	Baud  int    `json:"baud,omitempty" yaml:"baud,omitempty"`
	TxPin int    `json:"tx_pin,omitempty" yaml:"tx_pin,omitempty"`
	RxPin int    `json:"rx_pin,omitempty" yaml:"rx_pin,omitempty"`
}
