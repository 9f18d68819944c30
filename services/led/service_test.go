package led

import (
	"context"
	"testing"
	"time"

	"ledcode-go/bus"
	"ledcode-go/drivers/strip"
	"ledcode-go/errcode"
	"ledcode-go/services/settings"
	"ledcode-go/types"
)

func startService(t *testing.T, opts Options) (*bus.Connection, func()) {
	t.Helper()
	b := bus.NewBus(64)
	svc := New(b.NewConnection("led"), opts)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()
	stop := func() {
		cancel()
		<-done
	}
	t.Cleanup(stop)
	c := b.NewConnection("test")
	waitRetained(t, c, topicStatus)
	return c, stop
}

// waitRetained blocks until topic carries a retained message, which the
// service publishes only after its subscriptions are in place.
func waitRetained(t *testing.T, c *bus.Connection, topic bus.Topic) {
	t.Helper()
	sub := c.Subscribe(topic)
	defer c.Unsubscribe(sub)
	select {
	case <-sub.Channel():
	case <-time.After(2 * time.Second):
		t.Fatalf("no %v", topic)
	}
}

func request(t *testing.T, c *bus.Connection, verb string, payload any) any {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	rep, err := c.RequestWait(ctx, c.NewMessage(bus.T("led", "control", verb), payload, false))
	if err != nil {
		t.Fatalf("%s: %v", verb, err)
	}
	return rep.Payload
}

func expectErr(t *testing.T, got any, code errcode.Code) {
	t.Helper()
	er, ok := got.(types.ErrorReply)
	if !ok || er.Error != string(code) {
		t.Fatalf("want error %q, got %#v", code, got)
	}
}

func getView(t *testing.T, c *bus.Connection) types.LEDConfigView {
	t.Helper()
	v, ok := request(t, c, VerbGet, nil).(types.LEDConfigView)
	if !ok {
		t.Fatal("get: wrong reply type")
	}
	return v
}

func TestService_RendersOverBus(t *testing.T) {
	rec := &strip.Recorder{Limit: 4}
	c, _ := startService(t, Options{Pixels: 3, Sink: rec})

	for _, p := range []types.LEDSetParam{
		{Name: "color_increment", Value: 255},
		{Name: "processing_interval_ms", Value: 1},
		{Name: "effect_interval_ms", Value: 1},
	} {
		if _, ok := request(t, c, VerbSetParam, p).(types.LEDParamReply); !ok {
			t.Fatalf("set_param %s failed", p.Name)
		}
	}
	request(t, c, VerbSetGradient, types.LEDSetGradient{Field: types.GradientFieldMode, Name: "linear"})
	request(t, c, VerbSetColor, types.LEDSetColor{Target: 2, Color: types.Pixel{B: 255}})

	tr, ok := request(t, c, VerbToggle, types.LEDToggle{What: types.ToggleEffect}).(types.LEDToggleReply)
	if !ok || tr.On {
		t.Fatalf("toggle effect: %#v", tr)
	}

	want := []types.Pixel{{R: 255}, {R: 128, B: 128}, {B: 255}}
	deadline := time.Now().Add(3 * time.Second)
	for {
		last := rec.Last()
		if len(last) == 3 && last[0] == want[0] && last[1] == want[1] && last[2] == want[2] {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("frame never converged, last %v", last)
		}
		time.Sleep(5 * time.Millisecond)
	}

	st, ok := request(t, c, VerbStats, nil).(types.LEDStats)
	if !ok || st.Pixels != 3 || st.Frames == 0 {
		t.Fatalf("stats: %#v", st)
	}
}

func TestService_PublishesSettledState(t *testing.T) {
	c, _ := startService(t, Options{Pixels: 4, Sink: strip.Discard{}})
	sub := c.Subscribe(bus.T("led", "state"))
	defer c.Unsubscribe(sub)

	request(t, c, VerbSetParam, types.LEDSetParam{Index: 1, Value: 255})
	request(t, c, VerbSetParam, types.LEDSetParam{Index: 4, Value: 1})

	timeout := time.After(3 * time.Second)
	for {
		select {
		case m := <-sub.Channel():
			st := m.Payload.(types.LEDState)
			if st.Settled {
				if st.ColorOne != (types.Pixel{R: 255}) || st.ColorTwo != (types.Pixel{G: 255}) {
					t.Fatalf("settled colours: %+v", st)
				}
				return
			}
		case <-timeout:
			t.Fatal("no settled state")
		}
	}
}

func TestService_SetParamValidation(t *testing.T) {
	c, _ := startService(t, Options{Pixels: 2})

	expectErr(t, request(t, c, VerbSetParam, types.LEDSetParam{Index: 12, Value: 1}), errcode.Unsupported)
	expectErr(t, request(t, c, VerbSetParam, types.LEDSetParam{Index: 13, Value: 1}), errcode.InvalidParams)
	expectErr(t, request(t, c, VerbSetParam, types.LEDSetParam{Index: 2, Value: 0}), errcode.InvalidParams)
	expectErr(t, request(t, c, VerbSetParam, types.LEDSetParam{Name: "nope", Value: 1}), errcode.InvalidParams)
	expectErr(t, request(t, c, VerbSetParam, "not json"), errcode.InvalidPayload)

	pr, ok := request(t, c, VerbSetParam, types.LEDSetParam{Name: "effectHoldMaxSteps", Value: 42.7}).(types.LEDParamReply)
	if !ok || pr.Name != "effect_hold_max_steps" || pr.Value != 42 {
		t.Fatalf("reply: %#v", pr)
	}
	if v := getView(t, c); v.EffectHoldMaxSteps != 42 {
		t.Fatalf("view hold max = %d", v.EffectHoldMaxSteps)
	}
}

func TestService_GradientAndToggles(t *testing.T) {
	c, _ := startService(t, Options{Pixels: 2})

	expectErr(t, request(t, c, VerbSetGradient, types.LEDSetGradient{Field: "mode", Name: "zigzag"}), errcode.InvalidParams)
	expectErr(t, request(t, c, VerbSetGradient, types.LEDSetGradient{Field: "mode", Value: 7}), errcode.InvalidParams)
	expectErr(t, request(t, c, VerbSetGradient, types.LEDSetGradient{Field: "width", Value: 1}), errcode.InvalidParams)

	v, ok := request(t, c, VerbSetGradient, types.LEDSetGradient{Field: "mode", Value: 4}).(types.LEDConfigView)
	if !ok || v.GradientMode != "edge_center" {
		t.Fatalf("mode by number: %#v", v)
	}
	v = request(t, c, VerbSetGradient, types.LEDSetGradient{Field: "edge", Value: 0.5}).(types.LEDConfigView)
	if v.GradientEdgeSize != 0.5 || v.GradientCenterSize != 0 {
		t.Fatalf("edge/center: %v %v", v.GradientEdgeSize, v.GradientCenterSize)
	}

	tr := request(t, c, VerbToggle, types.LEDToggle{What: "ONOFF"}).(types.LEDToggleReply)
	if tr.On {
		t.Fatal("onoff toggled to on from default on")
	}
	tr = request(t, c, VerbToggle, types.LEDToggle{What: "gradient-invert"}).(types.LEDToggleReply)
	if !tr.On {
		t.Fatal("gradient invert not enabled")
	}
	expectErr(t, request(t, c, VerbToggle, types.LEDToggle{What: "hsl_rgbw"}), errcode.InvalidParams)
	expectErr(t, request(t, c, "explode", nil), errcode.UnknownVerb)
}

func TestService_SaveAndRestore(t *testing.T) {
	c, _ := startService(t, Options{Pixels: 2})
	expectErr(t, request(t, c, VerbSave, nil), errcode.NoStore)
	expectErr(t, request(t, c, VerbErase, nil), errcode.NoStore)

	store := settings.NewMemStore()
	c1, stop := startService(t, Options{Pixels: 2, Saver: settings.NewSaver(store)})
	request(t, c1, VerbSetBrightness, types.LEDSetBrightness{Level: 77})
	if st := request(t, c1, VerbStats, nil).(types.LEDStats); !st.Unsaved {
		t.Fatalf("pending change not reported: %#v", st)
	}
	if _, ok := request(t, c1, VerbSave, nil).(types.OKReply); !ok {
		t.Fatal("save failed")
	}
	if st := request(t, c1, VerbStats, nil).(types.LEDStats); st.Saves != 1 || st.Unsaved {
		t.Fatalf("after save: %#v", st)
	}
	stop()

	c2, _ := startService(t, Options{Pixels: 2, Saver: settings.NewSaver(store)})
	if v := getView(t, c2); v.Brightness != 77 {
		t.Fatalf("restored brightness = %v", v.Brightness)
	}

	if _, ok := request(t, c2, VerbErase, nil).(types.OKReply); !ok {
		t.Fatal("erase failed")
	}
	if _, err := store.Load(settings.DefaultKey); err == nil {
		t.Fatal("record still stored after erase")
	}
}

func TestService_BootConfigOnlyWithoutSettings(t *testing.T) {
	lvl := uint8(40)
	b := bus.NewBus(64)
	pub := b.NewConnection("cfg")
	pub.Publish(pub.NewMessage(bus.T("config", "led"), types.LEDBootConfig{Brightness: &lvl, GradientMode: "single_color"}, true))

	svc := New(b.NewConnection("led"), Options{Pixels: 2})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Run(ctx)
	waitRetained(t, pub, topicStatus)

	deadline := time.Now().Add(2 * time.Second)
	for {
		v := getView(t, pub)
		if v.Brightness == 40 && v.GradientMode == "single_color" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("boot config not applied: %v %s", v.Brightness, v.GradientMode)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestService_InitFailurePublishesError(t *testing.T) {
	b := bus.NewBus(8)
	svc := New(b.NewConnection("led"), Options{Pixels: 0})
	svc.Run(context.Background())

	c := b.NewConnection("test")
	sub := c.Subscribe(bus.T("led", "status"))
	defer c.Unsubscribe(sub)
	select {
	case m := <-sub.Channel():
		st := m.Payload.(types.ServiceState)
		if st.Level != "error" || st.Error == "" {
			t.Fatalf("status: %+v", st)
		}
	case <-time.After(time.Second):
		t.Fatal("no retained status")
	}
}
