package led

import (
	"math"

	"ledcode-go/bus"
	"ledcode-go/errcode"
	"ledcode-go/services/led/internal/core"
	"ledcode-go/types"
	"ledcode-go/x/jsonx"
	"ledcode-go/x/strx"
)

// Control verbs, the last token of led/control/<verb>.
const (
	VerbSetColor      = "set_color"
	VerbSetBrightness = "set_brightness"
	VerbSetOnOff      = "set_onoff"
	VerbToggle        = "toggle"
	VerbSetParam      = "set_param"
	VerbSetGradient   = "set_gradient"
	VerbSave          = "save"
	VerbErase         = "erase"
	VerbGet           = "get"
	VerbStats         = "stats"
)

// paramEffectToggle is the retired index of the old effect on/off parameter.
const paramEffectToggle = 12

func (s *Service) handleControl(msg *bus.Message) {
	if len(msg.Topic) != len(topicCtrl) {
		s.replyErr(msg, errcode.InvalidTopic)
		return
	}
	verb, _ := msg.Topic[len(msg.Topic)-1].(string)

	switch verb {
	case VerbGet:
		s.conn.Reply(msg, configView(s.eng.Config()), false)
		return
	case VerbStats:
		s.conn.Reply(msg, s.snapshotStats(), false)
		return
	case VerbSave:
		s.save(msg)
		return
	case VerbErase:
		s.erase(msg)
		return
	}

	var (
		reply any
		code  errcode.Code
	)
	switch verb {
	case VerbSetColor:
		reply, code = s.setColor(msg.Payload)
	case VerbSetBrightness:
		reply, code = s.setBrightness(msg.Payload)
	case VerbSetOnOff:
		reply, code = s.setOnOff(msg.Payload)
	case VerbToggle:
		reply, code = s.toggle(msg.Payload)
	case VerbSetParam:
		reply, code = s.setParam(msg.Payload)
	case VerbSetGradient:
		reply, code = s.setGradient(msg.Payload)
	default:
		s.replyErr(msg, errcode.UnknownVerb)
		return
	}
	if code != "" {
		s.replyErr(msg, code)
		return
	}
	s.settled = false
	s.conn.Reply(msg, reply, false)
	s.publishLive()
}

func (s *Service) setColor(p any) (any, errcode.Code) {
	c, err := jsonx.Decode[types.LEDSetColor](p)
	if err != nil {
		return nil, errcode.InvalidPayload
	}
	t := core.ColorTarget(c.Target)
	if t != core.ColorOne && t != core.ColorTwo {
		return nil, errcode.InvalidParams
	}
	s.eng.SetColor(t, c.Color)
	return types.OKReply{OK: true}, ""
}

func (s *Service) setBrightness(p any) (any, errcode.Code) {
	b, err := jsonx.Decode[types.LEDSetBrightness](p)
	if err != nil {
		return nil, errcode.InvalidPayload
	}
	s.eng.SetBrightness(b.Level)
	return types.OKReply{OK: true}, ""
}

func (s *Service) setOnOff(p any) (any, errcode.Code) {
	o, err := jsonx.Decode[types.LEDSetOnOff](p)
	if err != nil {
		return nil, errcode.InvalidPayload
	}
	s.eng.SetOnOff(o.On)
	return types.OKReply{OK: true}, ""
}

func (s *Service) toggle(p any) (any, errcode.Code) {
	t, err := jsonx.Decode[types.LEDToggle](p)
	if err != nil {
		return nil, errcode.InvalidPayload
	}
	cfg := s.eng.Config()
	var on bool
	switch strx.Key(t.What) {
	case strx.Key(types.ToggleOnOff):
		on = cfg.OnOffStaging < 0.5
		s.eng.SetOnOff(on)
	case strx.Key(types.ToggleGradientInvert):
		on = !cfg.GradientInvertColors
		s.eng.SetGradientInvert(on)
	case strx.Key(types.ToggleEffect):
		on = !cfg.EffectActive
		s.eng.SetEffectActive(on)
	default:
		return nil, errcode.InvalidParams
	}
	return types.LEDToggleReply{OK: true, What: t.What, On: on}, ""
}

func (s *Service) setParam(p any) (any, errcode.Code) {
	req, err := jsonx.Decode[types.LEDSetParam](p)
	if err != nil {
		return nil, errcode.InvalidPayload
	}
	idx := req.Index
	if req.Name != "" {
		idx = types.LEDParamIndex(req.Name)
	}
	if idx == paramEffectToggle {
		return nil, errcode.Unsupported
	}
	if idx < 1 || idx > len(types.LEDParamNames) {
		return nil, errcode.InvalidParams
	}
	v := req.Value
	if !(v > 0) || math.IsInf(float64(v), 0) {
		return nil, errcode.InvalidParams
	}

	e := s.eng
	switch idx {
	case 1:
		e.SetColorIncrement(v)
	case 2:
		e.SetBrightnessIncrement(v)
	case 3:
		e.SetOnOffIncrement(v)
	case 4:
		e.SetProcessingInterval(toU32(v))
	case 5:
		e.SetEffectInterval(toU32(v))
	case 6:
		e.SetEffectAmplitudeMin(v)
	case 7:
		e.SetEffectAmplitudeMax(v)
	case 8:
		e.SetEffectEvolveStepsMin(toU32(v))
	case 9:
		e.SetEffectEvolveStepsMax(toU32(v))
	case 10:
		e.SetEffectHoldStepsMin(toU32(v))
	case 11:
		e.SetEffectHoldStepsMax(toU32(v))
	}
	return types.LEDParamReply{
		OK:    true,
		Name:  types.LEDParamNames[idx-1],
		Value: paramValue(e.Config(), idx),
	}, ""
}

// toU32 truncates a positive value; the setters clamp the result.
func toU32(v float32) uint32 {
	if v >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}

func paramValue(c core.Config, idx int) float32 {
	switch idx {
	case 1:
		return c.ColorIncrement
	case 2:
		return c.BrightnessIncrement
	case 3:
		return c.OnOffIncrement
	case 4:
		return float32(c.ProcessingIntervalMs)
	case 5:
		return float32(c.EffectIntervalMs)
	case 6:
		return c.EffectMinAmplitude
	case 7:
		return c.EffectMaxAmplitude
	case 8:
		return float32(c.EffectEvolveMinSteps)
	case 9:
		return float32(c.EffectEvolveMaxSteps)
	case 10:
		return float32(c.EffectHoldMinSteps)
	case 11:
		return float32(c.EffectHoldMaxSteps)
	}
	return 0
}

func (s *Service) setGradient(p any) (any, errcode.Code) {
	g, err := jsonx.Decode[types.LEDSetGradient](p)
	if err != nil {
		return nil, errcode.InvalidPayload
	}
	e := s.eng
	switch strx.Key(g.Field) {
	case strx.Key(types.GradientFieldMode):
		m, ok := core.ParseGradientMode(g.Name)
		if g.Name == "" {
			m, ok = modeByNumber(g.Value)
		}
		if !ok {
			return nil, errcode.InvalidParams
		}
		e.SetGradientMode(m)
	case strx.Key(types.GradientFieldInterpolation):
		i, ok := core.ParseInterpolation(g.Name)
		if g.Name == "" {
			i = core.Interpolation(g.Value)
			ok = g.Value == 0 || g.Value == 1
		}
		if !ok {
			return nil, errcode.InvalidParams
		}
		e.SetInterpolation(i)
	case strx.Key(types.GradientFieldPaddingBegin):
		e.SetPaddingBegin(g.Value)
	case strx.Key(types.GradientFieldPaddingValue):
		e.SetPaddingValue(g.Value)
	case strx.Key(types.GradientFieldEdge):
		e.SetEdgeSize(g.Value)
	case strx.Key(types.GradientFieldCenter):
		e.SetCenterSize(g.Value)
	default:
		return nil, errcode.InvalidParams
	}
	return configView(e.Config()), ""
}

func modeByNumber(v float32) (core.GradientMode, bool) {
	for m := core.GradientMode(0); m.Valid(); m++ {
		if float32(m) == v {
			return m, true
		}
	}
	return 0, false
}

func (s *Service) save(msg *bus.Message) {
	if s.saver == nil {
		s.replyErr(msg, errcode.NoStore)
		return
	}
	s.eng.MarkImmediateSave()
	if err := s.saver.SaveNow(s.eng); err != nil {
		s.replyErr(msg, errcode.StoreFailed)
		return
	}
	s.replyOK(msg)
}

func (s *Service) erase(msg *bus.Message) {
	if s.saver == nil {
		s.replyErr(msg, errcode.NoStore)
		return
	}
	if err := s.saver.Erase(); err != nil {
		s.replyErr(msg, errcode.StoreFailed)
		return
	}
	s.replyOK(msg)
}
