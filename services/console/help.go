package console

import (
	"context"
	"strconv"

	"ledcode-go/types"
	"ledcode-go/x/strx"
)

var helpTop = []string{
	"Commands:",
	"  SET <sub> ...          -> set color/brightness/params",
	"                            <sub>: COLOR, BRIGHTNESS, PARAM, GRADIENT",
	"  TOGGLE <sub> ...       -> toggle features",
	"                            <sub>: ONOFF, GRADIENT_INVERT, HSL_RGBW, EFFECT",
	"  SHOW                   -> print the staged configuration",
	"  SAVE                   -> write settings to storage now",
	"  ERASE                  -> forget stored settings",
	"  SYSTEM <sub> ...       -> system maintenance commands",
	"                            <sub>: RESET",
	"  HELP                   -> this message",
	"  HELP PREDEFINED        -> list named colors",
	"  HELP SET               -> show SET subcommands",
	"  HELP SET PARAM         -> show available parameters",
	"  HELP SET GRADIENT      -> show gradient options",
	"  HELP TOGGLE            -> show toggle options",
	"  HELP SYSTEM            -> show SYSTEM options",
}

var helpPredefined = []string{
	"Predefined color names (case-insensitive):",
	"  RED, GREEN, BLUE, YELLOW, CYAN, MAGENTA, ORANGE, PURPLE, PINK,",
	"  BLACK, WHITE, FULLWHITE_RGB, WARMWHITE_RGB, COOLWHITE_RGB",
	"  Hex: #RRGGBB or 0xRRGGBB",
}

var helpSet = []string{
	"SET usage:",
	"  SET COLOR <ONE|TWO> <r g b w>",
	"  SET COLOR <ONE|TWO> <name>",
	"  SET BRIGHTNESS <0..255>",
	"  SET PARAM <index|name> <value>",
	"  SET GRADIENT <sub> ...",
	"Type HELP SET GRADIENT for gradient options",
	"Type HELP SET PARAM for available parameters",
}

var helpGradient = []string{
	"SET GRADIENT usage:",
	"  SET GRADIENT MODE <LINEAR|LINEAR_PADDING|SINGLE_COLOR|MIDPOINT_SPLIT|EDGE_CENTER>",
	"  SET GRADIENT PADDINGBEGIN <0.0..0.4>   (LINEAR_PADDING outer padding start)",
	"  SET GRADIENT PADDINGVALUE <0.0..1.0>   (LINEAR_PADDING padding mix ratio)",
	"  SET GRADIENT EDGE <0.0..0.5>        (EDGE_CENTER mode edge size per side)",
	"  SET GRADIENT CENTER <0.0..1.0>      (EDGE_CENTER mode center size)",
	"  SET GRADIENT INTERPOLATION <LINEAR|SMOOTH>",
	"  SET GRADIENT SHOW                    (display current settings)",
}

var helpToggle = []string{
	"TOGGLE usage:",
	"  TOGGLE ONOFF               (toggle output fade target between on/off)",
	"  TOGGLE GRADIENT_INVERT     (toggle gradient color inversion)",
	"  TOGGLE HSL_RGBW            (toggle HSL conversion between RGB and RGBW output)",
	"  TOGGLE EFFECT              (toggle the effect engine on/off)",
}

var helpSystem = []string{
	"SYSTEM usage:",
	"  SYSTEM RESET",
	"    -> schedules a general 10s restart countdown immediately",
}

// paramHelp describes each tuning parameter, by index-1.
var paramHelp = [...]string{
	"Color fade step per update",
	"Brightness fade step per update",
	"On/off fade step per update",
	"LED update interval (ms)",
	"Effect timing interval (ms)",
	"Minimum random amplitude",
	"Maximum random amplitude",
	"Minimum evolve steps",
	"Maximum evolve steps",
	"Minimum hold steps",
	"Maximum hold steps",
}

func (c *Console) lines(ls []string) {
	for _, l := range ls {
		c.say(l)
	}
}

func (c *Console) help(ctx context.Context, args []string) {
	if len(args) == 0 {
		c.lines(helpTop)
		return
	}
	switch strx.Norm(args[0]) {
	case "PREDEFINED":
		c.lines(helpPredefined)
	case "SET":
		if len(args) < 2 {
			c.helpSet()
			return
		}
		switch strx.Norm(args[1]) {
		case "PARAM":
			c.helpSetParam(ctx)
		case "GRADIENT":
			c.helpSetGradient()
		default:
			c.helpSet()
		}
	case "TOGGLE":
		c.helpToggle()
	case "SYSTEM":
		c.helpSystem()
	default:
		c.say("Unknown HELP topic. Valid: HELP, HELP PREDEFINED, HELP SET, HELP SET PARAM, HELP SET GRADIENT, HELP TOGGLE, HELP SYSTEM")
		c.lines(helpTop)
	}
}

func (c *Console) helpSet()         { c.lines(helpSet) }
func (c *Console) helpSetGradient() { c.lines(helpGradient) }
func (c *Console) helpToggle()      { c.lines(helpToggle) }
func (c *Console) helpSystem()      { c.lines(helpSystem) }

// helpSetParam lists the parameters with their current staged values.
func (c *Console) helpSetParam(ctx context.Context) {
	v, ok := c.view(ctx, "HELP SET PARAM")
	if !ok {
		return
	}
	vals := paramValues(v)
	c.say("SET PARAM available parameters (use SET PARAM <index|name> <value>):")
	for i, name := range types.LEDParamNames {
		idx := strconv.Itoa(i + 1)
		if len(idx) < 2 {
			idx = " " + idx
		}
		c.say(idx + ") " + pad(name, 24) + " | " + formatParam(i+1, vals[i]) + " | " + paramHelp[i])
	}
	c.say("Use TOGGLE EFFECT to enable or disable the effect engine.")
}

func paramValues(v types.LEDConfigView) [len(types.LEDParamNames)]float32 {
	return [...]float32{
		v.ColorIncrement,
		v.BrightnessIncrement,
		v.OnOffIncrement,
		float32(v.ProcessingIntervalMs),
		float32(v.EffectIntervalMs),
		v.EffectMinAmplitude,
		v.EffectMaxAmplitude,
		float32(v.EffectEvolveMinSteps),
		float32(v.EffectEvolveMaxSteps),
		float32(v.EffectHoldMinSteps),
		float32(v.EffectHoldMaxSteps),
	}
}

func pad(s string, n int) string {
	for len(s) < n {
		s += " "
	}
	return s
}
