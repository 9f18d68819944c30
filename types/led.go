package types

import "ledcode-go/x/strx"

// ---- LED control payloads (led/control/<verb>) ----

// LEDSetColor stages a base colour. Target is 1 or 2.
type LEDSetColor struct {
	Target uint8 `json:"target"`
	Color  Pixel `json:"color"`
}

type LEDSetBrightness struct {
	Level uint8 `json:"level"`
}

type LEDSetOnOff struct {
	On bool `json:"on"`
}

// Toggle targets.
const (
	ToggleOnOff          = "onoff"
	ToggleGradientInvert = "gradient_invert"
	ToggleEffect         = "effect"
)

type LEDToggle struct {
	What string `json:"what"`
}

// LEDParamNames lists the tuning parameters in index order; LEDSetParam
// Index 1 is LEDParamNames[0].
var LEDParamNames = [...]string{
	"color_increment",
	"brightness_increment",
	"onoff_increment",
	"processing_interval_ms",
	"effect_interval_ms",
	"effect_min_amplitude",
	"effect_max_amplitude",
	"effect_evolve_min_steps",
	"effect_evolve_max_steps",
	"effect_hold_min_steps",
	"effect_hold_max_steps",
}

// LEDParamIndex resolves a parameter name to its 1-based index, or 0.
// Case, '-' and '_' are ignored, so "colorIncrement" resolves too.
func LEDParamIndex(name string) int {
	k := strx.Key(name)
	for i, n := range LEDParamNames {
		if strx.Key(n) == k {
			return i + 1
		}
	}
	return 0
}

// LEDSetParam addresses a tuning parameter by Name, or by its 1-based Index
// when Name is empty.
type LEDSetParam struct {
	Name  string  `json:"name,omitempty"`
	Index int     `json:"index,omitempty"`
	Value float32 `json:"value"`
}

type LEDParamReply struct {
	OK    bool    `json:"ok"`
	Name  string  `json:"name"`
	Value float32 `json:"value"`
}

type LEDToggleReply struct {
	OK   bool   `json:"ok"`
	What string `json:"what"`
	On   bool   `json:"on"`
}

// Gradient fields.
const (
	GradientFieldMode          = "mode"
	GradientFieldPaddingBegin  = "padding_begin"
	GradientFieldPaddingValue  = "padding_value"
	GradientFieldEdge          = "edge"
	GradientFieldCenter        = "center"
	GradientFieldInterpolation = "interpolation"
)

// LEDSetGradient sets one gradient field. Mode and interpolation take Name
// (e.g. "edge_center", "smooth"); when Name is empty Value is used as the
// numeric enum value.
type LEDSetGradient struct {
	Field string  `json:"field"`
	Name  string  `json:"name,omitempty"`
	Value float32 `json:"value"`
}

// ---- LED read-back ----

// LEDConfigView is the full staged configuration (reply to led/control/get).
type LEDConfigView struct {
	ColorOne   [4]float32 `json:"color_one"`
	ColorTwo   [4]float32 `json:"color_two"`
	Brightness float32    `json:"brightness"`
	OnOff      float32    `json:"onoff"`

	ColorIncrement      float32 `json:"color_increment"`
	BrightnessIncrement float32 `json:"brightness_increment"`
	OnOffIncrement      float32 `json:"onoff_increment"`

	GradientMode          string  `json:"gradient_mode"`
	GradientInvert        bool    `json:"gradient_invert"`
	GradientPaddingBegin  float32 `json:"gradient_padding_begin"`
	GradientPaddingValue  float32 `json:"gradient_padding_value"`
	GradientEdgeSize      float32 `json:"gradient_edge_size"`
	GradientCenterSize    float32 `json:"gradient_center_size"`
	GradientInterpolation string  `json:"gradient_interpolation"`

	EffectMinAmplitude   float32 `json:"effect_min_amplitude"`
	EffectMaxAmplitude   float32 `json:"effect_max_amplitude"`
	EffectEvolveMinSteps uint32  `json:"effect_evolve_min_steps"`
	EffectEvolveMaxSteps uint32  `json:"effect_evolve_max_steps"`
	EffectHoldMinSteps   uint32  `json:"effect_hold_min_steps"`
	EffectHoldMaxSteps   uint32  `json:"effect_hold_max_steps"`
	EffectActive         bool    `json:"effect_active"`

	ProcessingIntervalMs uint32 `json:"processing_interval_ms"`
	EffectIntervalMs     uint32 `json:"effect_interval_ms"`

	ChangeCounter  uint32 `json:"change_counter"`
	LastModifiedMs uint32 `json:"last_modified_ms"`
}

// LEDState is the retained live projection published on led/state.
type LEDState struct {
	On          bool    `json:"on"`           // staged on/off
	OnOffFactor float32 `json:"onoff_factor"` // live fade factor 0..1
	Brightness  float32 `json:"brightness"`   // live 0..255
	ColorOne    Pixel   `json:"color_one"`    // live, rounded
	ColorTwo    Pixel   `json:"color_two"`
	Settled     bool    `json:"settled"`
	TS          int64   `json:"ts_ms"`
}

type LEDStats struct {
	Pixels        int    `json:"pixels"`
	Frames        uint32 `json:"frames"`
	EffectSteps   uint32 `json:"effect_steps"`
	SinkErrors    uint32 `json:"sink_errors"`
	LastChanges   int    `json:"last_changes"`
	ChangeCounter uint32 `json:"change_counter"`
	Saves         uint32 `json:"saves"`
	Unsaved       bool   `json:"unsaved"` // changes not yet persisted
}

// LEDBootConfig is read from config/led. Pointer fields are optional and
// only applied when no persisted settings were loaded.
type LEDBootConfig struct {
	Brightness   *uint8 `json:"brightness,omitempty"`
	ColorOne     *Pixel `json:"color_one,omitempty"`
	ColorTwo     *Pixel `json:"color_two,omitempty"`
	GradientMode string `json:"gradient_mode,omitempty"`
	EffectActive *bool  `json:"effect_active,omitempty"`
	AutosaveMs   uint32 `json:"autosave_ms,omitempty"`
}
