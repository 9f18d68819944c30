package bridge

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"testing"
	"time"

	"ledcode-go/bus"
	"ledcode-go/drivers/strip"
	"ledcode-go/services/led"
	"ledcode-go/types"
)

func startStack(t *testing.T) *bus.Connection {
	t.Helper()
	b := bus.NewBus(32)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go led.New(b.NewConnection("led"), led.Options{Pixels: 4, Sink: strip.Discard{}}).Run(ctx)
	go Start(ctx, b.NewConnection("bridge"))
	c := b.NewConnection("test")
	waitRetained(t, c, bus.T("led", "status"))
	waitRetained(t, c, topicState)
	return c
}

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

func request(t *testing.T, c *bus.Connection, topic bus.Topic, p any) any {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	rep, err := c.RequestWait(ctx, c.NewMessage(topic, p, false))
	if err != nil {
		t.Fatalf("%v: %v", topic, err)
	}
	return rep.Payload
}

func ledView(t *testing.T, c *bus.Connection) types.LEDConfigView {
	t.Helper()
	return request(t, c, bus.T("led", "control", "get"), nil).(types.LEDConfigView)
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func retainedMirror(c *bus.Connection) (types.Mirror, bool) {
	sub := c.Subscribe(topicMirror)
	defer c.Unsubscribe(sub)
	select {
	case m := <-sub.Channel():
		return m.Payload.(types.Mirror), true
	default:
		return types.Mirror{}, false
	}
}

func TestBridge_SyncsFromLEDDefaults(t *testing.T) {
	c := startStack(t)
	want := types.Mirror{On: true, Level: 100, Hue1: 0, Sat1: 100, Hue2: 120, Sat2: 100}
	eventually(t, "initial mirror", func() bool {
		m, ok := retainedMirror(c)
		return ok && m == want
	})
}

func TestBridge_SetStagesLED(t *testing.T) {
	c := startStack(t)

	set := types.Mirror{On: true, Level: 50, Hue1: 240, Sat1: 100, Hue2: 480, Sat2: 100}
	rep, ok := request(t, c, topicSet, set).(types.Mirror)
	if !ok || rep.Hue2 != 120 || rep.Level != 50 {
		t.Fatalf("reply %#v", rep)
	}

	v := ledView(t, c)
	if v.ColorOne != [4]float32{0, 0, 255, 0} || v.ColorTwo != [4]float32{0, 255, 0, 0} {
		t.Fatalf("colours %v %v", v.ColorOne, v.ColorTwo)
	}
	if v.Brightness != 128 || v.OnOff != 1 {
		t.Fatalf("brightness %v onoff %v", v.Brightness, v.OnOff)
	}

	eventually(t, "mirror republished", func() bool {
		m, ok := retainedMirror(c)
		return ok && m.Level == 50 && m.Hue1 == 240
	})
}

func TestBridge_RGBWReapplies(t *testing.T) {
	c := startStack(t)
	eventually(t, "sync", func() bool { _, ok := retainedMirror(c); return ok })

	request(t, c, topicSet, types.Mirror{On: true, Level: 100, Sat1: 0, Hue2: 0, Sat2: 100})
	if v := ledView(t, c); v.ColorOne != [4]float32{255, 255, 255, 0} {
		t.Fatalf("rgb white: %v", v.ColorOne)
	}

	rep := request(t, c, topicRGBW, types.BridgeRGBW{Enabled: true}).(types.BridgeRGBW)
	if !rep.Enabled {
		t.Fatal("rgbw not enabled")
	}
	if v := ledView(t, c); v.ColorOne != [4]float32{0, 0, 0, 255} || v.ColorTwo != [4]float32{255, 0, 0, 0} {
		t.Fatalf("rgbw colours: %v %v", v.ColorOne, v.ColorTwo)
	}
}

func TestBridge_BadPayload(t *testing.T) {
	c := startStack(t)
	rep, ok := request(t, c, topicSet, "{").(types.ErrorReply)
	if !ok || rep.Error != "invalid_payload" {
		t.Fatalf("reply %#v", rep)
	}
}

func TestBridge_HubLink(t *testing.T) {
	c := startStack(t)
	stateSub := c.Subscribe(topicState)
	defer c.Unsubscribe(stateSub)
	assertState(t, nextState(t, stateSub), "idle", "awaiting_config")

	prevDial := UARTDial
	defer func() { UARTDial = prevDial }()
	hub := make(chan net.Conn, 1)
	UARTDial = func(ctx context.Context, _ UARTConfig) (io.ReadWriteCloser, error) {
		lc, rc := net.Pipe()
		hub <- rc
		return lc, nil
	}

	cfg := `{"rgbw":false,"transport":{"type":"uart","uart":{"id":"uart1","baud":115200,"rx_pin":5,"tx_pin":4}}}`
	c.Publish(c.NewMessage(topicConfig, cfg, false))
	assertState(t, nextState(t, stateSub), "up", "link_established")

	rc := <-hub
	rd, wr := newFramedReader(rc), newFramedWriter(rc)
	f, err := rd.ReadFrame()
	if err != nil || f.Type != frameMirror {
		t.Fatalf("first frame %#x %v", f.Type, err)
	}
	go func() {
		for {
			if _, err := rd.ReadFrame(); err != nil {
				return
			}
		}
	}()

	b, _ := json.Marshal(types.Mirror{On: true, Level: 20, Hue1: 0, Sat1: 100, Hue2: 240, Sat2: 100})
	if err := wr.WriteFrame(Frame{Type: frameMirror, Payload: b}); err != nil {
		t.Fatal(err)
	}
	eventually(t, "hub write staged", func() bool {
		v := ledView(t, c)
		return v.Brightness == 51 && v.ColorTwo == [4]float32{0, 0, 255, 0}
	})

	_ = rc.Close()
	assertState(t, nextState(t, stateSub), "degraded", "link_lost_retrying")
}

func TestBridge_UnknownTransportYieldsErrorState(t *testing.T) {
	b := bus.NewBus(8)
	conn := b.NewConnection("bridge_test_bad")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Start(ctx, conn)

	stateSub := conn.Subscribe(topicState)
	defer conn.Unsubscribe(stateSub)
	_ = nextState(t, stateSub)

	conn.Publish(conn.NewMessage(topicConfig, `{"transport":{"type":"bogus"}}`, false))
	assertState(t, nextState(t, stateSub), "error", "transport_init_failed")
}

func nextState(t *testing.T, sub *bus.Subscription) types.ServiceState {
	t.Helper()
	select {
	case m := <-sub.Channel():
		st, ok := m.Payload.(types.ServiceState)
		if !ok {
			t.Fatalf("state payload type %T", m.Payload)
		}
		return st
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for bridge/state")
		return types.ServiceState{}
	}
}

func assertState(t *testing.T, st types.ServiceState, level, status string) {
	t.Helper()
	if st.Level != level || st.Status != status {
		t.Fatalf("state %s/%s, want %s/%s (%s)", st.Level, st.Status, level, status, st.Error)
	}
}
