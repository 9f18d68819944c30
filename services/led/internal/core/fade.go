package core

import "ledcode-go/x/ramp"

// Fade moves live brightness, on/off factor and both colours one bounded
// step toward their staged values and returns how many of the ten channels
// moved.
func (e *Engine) Fade() int {
	c := &e.cfg
	changes := 0
	step := func(ch ramp.Channel) {
		if ch.Advance() {
			changes++
		}
	}

	step(ramp.Channel{Live: &e.brightness, Stage: c.BrightnessStaging, Step: c.BrightnessIncrement, Lo: 0, Hi: 255})
	step(ramp.Channel{Live: &e.onoff, Stage: c.OnOffStaging, Step: c.OnOffIncrement, Lo: 0, Hi: 1})

	live := [2]*PixelF{&e.colorOne, &e.colorTwo}
	staged := [2]PixelF{c.ColorOneStaging, c.ColorTwoStaging}
	for k := range live {
		for _, ch := range channels {
			v := live[k].Get(ch)
			step(ramp.Channel{Live: &v, Stage: staged[k].Get(ch), Step: c.ColorIncrement, Lo: 0, Hi: 255})
			live[k].Set(ch, v)
		}
	}
	return changes
}
