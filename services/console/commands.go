package console

import (
	"context"
	"math"
	"strconv"

	"github.com/google/shlex"

	"ledcode-go/bus"
	"ledcode-go/errcode"
	"ledcode-go/types"
	"ledcode-go/x/strx"
)

// Exec runs one command line.
func (c *Console) Exec(ctx context.Context, line string) {
	if c.opts.Echo {
		c.write(line + "\n")
	}
	defer c.blank()

	args, err := shlex.Split(hexWords(line))
	if err != nil {
		c.say("Cannot parse line: " + err.Error())
		return
	}
	if len(args) == 0 {
		return
	}

	switch strx.Norm(args[0]) {
	case "HELP":
		c.help(ctx, args[1:])
	case "SET":
		c.set(ctx, args[1:])
	case "TOGGLE":
		c.toggle(ctx, args[1:])
	case "SAVE":
		if _, ok := c.led(ctx, "SAVE", "save", nil); ok {
			c.say("Configuration saved.")
		}
	case "ERASE":
		if _, ok := c.led(ctx, "ERASE", "erase", nil); ok {
			c.say("Stored configuration erased.")
		}
	case "SHOW":
		c.show(ctx)
	case "SYSTEM":
		c.system(args[1:])
	default:
		c.say(`Unknown command: ` + args[0] + `. Write "HELP".`)
	}
}

// request sends payload to topic and returns the reply payload. Failures
// are reported on the console under the label what.
func (c *Console) request(ctx context.Context, what string, topic bus.Topic, payload any) (any, bool) {
	rctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()
	rep, err := c.conn.RequestWait(rctx, c.conn.NewMessage(topic, payload, false))
	if err != nil {
		c.say(what + ": no reply (" + err.Error() + ")")
		return nil, false
	}
	if e, ok := rep.Payload.(types.ErrorReply); ok {
		c.say(what + ": " + e.Error)
		return nil, false
	}
	return rep.Payload, true
}

func (c *Console) led(ctx context.Context, what, verb string, payload any) (any, bool) {
	return c.request(ctx, what, bus.T("led", "control", verb), payload)
}

func (c *Console) view(ctx context.Context, what string) (types.LEDConfigView, bool) {
	rep, ok := c.led(ctx, what, "get", nil)
	if !ok {
		return types.LEDConfigView{}, false
	}
	v, ok := rep.(types.LEDConfigView)
	return v, ok
}

func (c *Console) set(ctx context.Context, args []string) {
	if len(args) == 0 {
		c.helpSet()
		return
	}
	switch strx.Norm(args[0]) {
	case "COLOR":
		c.setColor(ctx, args[1:])
	case "BRIGHTNESS":
		c.setBrightness(ctx, args[1:])
	case "PARAM":
		c.setParam(ctx, args[1:])
	case "GRADIENT":
		c.setGradient(ctx, args[1:])
	default:
		c.say("SET: unknown subcommand. Valid: COLOR, BRIGHTNESS, PARAM, GRADIENT. Type HELP.")
	}
}

func (c *Console) setColor(ctx context.Context, args []string) {
	if len(args) == 0 {
		c.say("SET COLOR: missing arguments")
		return
	}
	var target uint8
	var name string
	switch strx.Norm(args[0]) {
	case "ONE", "1":
		target, name = 1, "ONE"
	case "TWO", "2":
		target, name = 2, "TWO"
	default:
		if _, err := strconv.Atoi(args[0]); err == nil {
			c.say("SET COLOR: invalid index (use 1 or 2)")
		} else {
			c.say("SET COLOR: expected ONE or TWO")
		}
		return
	}
	if len(args) < 2 {
		c.say("SET COLOR: missing color arguments")
		return
	}
	px, err := parseColor(args[1:])
	if err != nil {
		c.say("SET COLOR: invalid color. Type HELP PREDEFINED for names.")
		return
	}
	if _, ok := c.led(ctx, "SET COLOR", "set_color", types.LEDSetColor{Target: target, Color: px}); !ok {
		return
	}
	c.say("Color " + name + " set to [" + itoa(int(px.R)) + ", " + itoa(int(px.G)) + ", " +
		itoa(int(px.B)) + ", " + itoa(int(px.W)) + "].")
}

func (c *Console) setBrightness(ctx context.Context, args []string) {
	if len(args) != 1 {
		c.say("Syntax: SET BRIGHTNESS <0..255>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		c.say("Syntax: SET BRIGHTNESS <0..255>")
		return
	}
	if n < 0 {
		n = 0
	} else if n > 255 {
		n = 255
	}
	if _, ok := c.led(ctx, "SET BRIGHTNESS", "set_brightness", types.LEDSetBrightness{Level: uint8(n)}); ok {
		c.say("Brightness set to " + itoa(n) + ".")
	}
}

// paramLabels are the human names printed after SET PARAM, by index-1.
var paramLabels = [...]string{
	"Color increment",
	"Brightness increment",
	"On/off increment",
	"Processing interval",
	"Effect interval",
	"Effect min amplitude",
	"Effect max amplitude",
	"Effect evolve min steps",
	"Effect evolve max steps",
	"Effect hold min steps",
	"Effect hold max steps",
}

func formatParam(idx int, v float32) string {
	switch {
	case idx == 4 || idx == 5:
		return f0(v) + " ms"
	case idx >= 8:
		return f0(v)
	}
	return f3(v)
}

func (c *Console) setParam(ctx context.Context, args []string) {
	if len(args) == 0 {
		c.helpSetParam(ctx)
		return
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		idx = types.LEDParamIndex(args[0])
		if idx == 0 {
			c.say("SET PARAM: unknown parameter. Type 'HELP SET PARAM' for valid names.")
			return
		}
	}
	if idx == 12 {
		c.say("SET PARAM 12 has been replaced. Use TOGGLE EFFECT instead.")
		return
	}
	if idx < 1 || idx > len(types.LEDParamNames) {
		c.say("SET PARAM: unknown parameter index. Type 'HELP SET PARAM'.")
		return
	}
	if len(args) < 2 {
		c.say("SET PARAM: missing value")
		return
	}
	v, err := strconv.ParseFloat(args[1], 32)
	if err != nil || !(v > 0) {
		c.say("SET PARAM " + itoa(idx) + ": value must be > 0")
		return
	}
	rep, ok := c.led(ctx, "SET PARAM", "set_param", types.LEDSetParam{Index: idx, Value: float32(v)})
	if !ok {
		return
	}
	if pr, ok := rep.(types.LEDParamReply); ok {
		c.say(paramLabels[idx-1] + " set to " + formatParam(idx, pr.Value) + ".")
	}
}

// gradientModes is indexed by the numeric mode; the LED service owns the
// authoritative list and rejects anything it does not know.
var gradientModes = [...]string{"linear", "linear_padding", "single_color", "midpoint_split", "edge_center"}

var modeAliases = map[string]string{
	"LINEARPADDING": "linear_padding",
	"SINGLE":        "single_color",
	"MIDPOINT":      "midpoint_split",
	"MIDDLE":        "edge_center",
	"EDGE":          "edge_center",
}

func gradientMode(tok string) (string, bool) {
	if n, err := strconv.Atoi(tok); err == nil {
		if n < 0 || n >= len(gradientModes) {
			return "", false
		}
		return gradientModes[n], true
	}
	k := strx.Norm(tok)
	if alias, ok := modeAliases[k]; ok {
		return alias, true
	}
	for _, m := range gradientModes {
		if strx.Norm(m) == k {
			return m, true
		}
	}
	return "", false
}

func (c *Console) setGradient(ctx context.Context, args []string) {
	if len(args) == 0 {
		c.helpSetGradient()
		return
	}
	sub := strx.Norm(args[0])
	if sub == "SHOW" {
		if v, ok := c.view(ctx, "SET GRADIENT SHOW"); ok {
			c.printGradient(v)
		}
		return
	}

	req := types.LEDSetGradient{}
	label := ""
	switch sub {
	case "MODE":
		req.Field, label = types.GradientFieldMode, "MODE"
	case "PADDINGBEGIN", "PADBEGIN", "BEGIN":
		req.Field, label = types.GradientFieldPaddingBegin, "PADDINGBEGIN"
	case "PADDINGVALUE", "PADVALUE", "VALUE":
		req.Field, label = types.GradientFieldPaddingValue, "PADDINGVALUE"
	case "EDGE":
		req.Field, label = types.GradientFieldEdge, "EDGE"
	case "CENTER":
		req.Field, label = types.GradientFieldCenter, "CENTER"
	case "INTERPOLATION":
		req.Field, label = types.GradientFieldInterpolation, "INTERPOLATION"
	default:
		c.say("SET GRADIENT: unknown subcommand. Type HELP SET GRADIENT.")
		return
	}
	what := "SET GRADIENT " + label
	if len(args) < 2 {
		c.say(what + ": missing value")
		return
	}

	val := args[1]
	switch req.Field {
	case types.GradientFieldMode:
		m, ok := gradientMode(val)
		if !ok {
			c.say(what + ": unknown mode")
			return
		}
		req.Name = m
	case types.GradientFieldInterpolation:
		switch strx.Norm(val) {
		case "LINEAR", "0":
			req.Name = "linear"
		case "SMOOTH", "SCURVE", "1":
			req.Name = "smooth"
		default:
			c.say(what + ": unknown interpolation")
			return
		}
	default:
		f, err := strconv.ParseFloat(val, 32)
		if err != nil || math.IsNaN(f) {
			c.say(what + ": invalid number")
			return
		}
		req.Value = float32(f)
	}

	rep, ok := c.led(ctx, what, "set_gradient", req)
	if !ok {
		return
	}
	v, ok := rep.(types.LEDConfigView)
	if !ok {
		return
	}
	switch req.Field {
	case types.GradientFieldMode:
		c.say("Gradient mode set to " + strx.Norm(v.GradientMode) + ".")
	case types.GradientFieldPaddingBegin:
		c.say("Gradient padding begin set to " + f3(v.GradientPaddingBegin) + ".")
	case types.GradientFieldPaddingValue:
		c.say("Gradient padding value set to " + f3(v.GradientPaddingValue) + ".")
	case types.GradientFieldEdge:
		c.say("Gradient edge size set to " + f3(v.GradientEdgeSize) + ".")
	case types.GradientFieldCenter:
		c.say("Gradient center size set to " + f3(v.GradientCenterSize) + ".")
	case types.GradientFieldInterpolation:
		c.say("Gradient interpolation set to " + strx.Norm(v.GradientInterpolation) + ".")
	}
}

func (c *Console) toggle(ctx context.Context, args []string) {
	if len(args) == 0 {
		c.helpToggle()
		return
	}
	sub := strx.Norm(args[0])
	switch sub {
	case "HSL_RGBW", "RGBW_MODE":
		rep, ok := c.request(ctx, "TOGGLE HSL_RGBW", bus.T("bridge", "rgbw"), types.BridgeRGBW{Toggle: true})
		if !ok {
			return
		}
		if r, _ := rep.(types.BridgeRGBW); r.Enabled {
			c.say("HSL conversion now outputs RGBW (white channel enabled).")
		} else {
			c.say("HSL conversion now outputs RGB only (white channel disabled).")
		}
		return
	}

	var what string
	switch sub {
	case "ONOFF":
		what = types.ToggleOnOff
	case "GRADIENT_INVERT", "GRADIENTINVERT":
		what = types.ToggleGradientInvert
	case "EFFECT":
		what = types.ToggleEffect
	default:
		c.helpToggle()
		return
	}
	rep, ok := c.led(ctx, "TOGGLE "+sub, "toggle", types.LEDToggle{What: what})
	if !ok {
		return
	}
	r, _ := rep.(types.LEDToggleReply)
	on := r.On
	switch what {
	case types.ToggleOnOff:
		c.say(pick(on, "Output fade target set to ON.", "Output fade target set to OFF."))
	case types.ToggleGradientInvert:
		c.say(pick(on, "Gradient color inversion enabled.", "Gradient color inversion disabled."))
	case types.ToggleEffect:
		c.say(pick(on, "Effect enabled.", "Effect disabled."))
	}
}

func (c *Console) system(args []string) {
	if len(args) == 0 {
		c.helpSystem()
		return
	}
	if strx.Norm(args[0]) != "RESET" {
		c.say("SYSTEM: unknown subcommand. Valid: RESET. Type HELP SYSTEM.")
		return
	}
	if len(args) > 1 {
		c.say("SYSTEM RESET takes no arguments.")
		return
	}
	if c.opts.Reset == nil {
		c.say("SYSTEM RESET: " + string(errcode.Unsupported))
		return
	}
	c.say("System restart requested. Device will reboot in 10 seconds.")
	c.scheduleReset()
}

func (c *Console) show(ctx context.Context) {
	v, ok := c.view(ctx, "SHOW")
	if !ok {
		return
	}
	c.say("Color ONE: " + pixel4(v.ColorOne))
	c.say("Color TWO: " + pixel4(v.ColorTwo))
	c.say("Brightness: " + f0(v.Brightness) + pick(v.OnOff >= 0.5, " (on)", " (off)"))
	c.say("Effect: " + pick(v.EffectActive, "enabled", "disabled"))
	c.printGradient(v)
	c.say("Changes: " + strconv.FormatUint(uint64(v.ChangeCounter), 10))
}

func (c *Console) printGradient(v types.LEDConfigView) {
	c.say("Current gradient configuration:")
	c.say("  Mode: " + strx.Norm(v.GradientMode))
	c.say(pick(v.GradientInvert, "  Color inversion: enabled", "  Color inversion: disabled"))
	c.say("  Padding begin: " + f3(v.GradientPaddingBegin))
	c.say("  Padding value: " + f3(v.GradientPaddingValue))
	c.say("  Edge size: " + f3(v.GradientEdgeSize))
	c.say("  Center size: " + f3(v.GradientCenterSize))
	c.say("  Interpolation: " + strx.Norm(v.GradientInterpolation))
}

func pixel4(p [4]float32) string {
	return "[" + f0(p[0]) + ", " + f0(p[1]) + ", " + f0(p[2]) + ", " + f0(p[3]) + "]"
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
