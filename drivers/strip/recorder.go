package strip

import (
	"sync"

	"ledcode-go/types"
)

// Recorder keeps copies of the frames written to it.
type Recorder struct {
	mu     sync.Mutex
	frames [][]types.Pixel
	Limit  int // 0 keeps every frame
}

func (r *Recorder) Write(px []types.Pixel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, append([]types.Pixel(nil), px...))
	if r.Limit > 0 && len(r.frames) > r.Limit {
		r.frames = r.frames[len(r.frames)-r.Limit:]
	}
	return nil
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// Last returns the most recent frame, or nil.
func (r *Recorder) Last() []types.Pixel {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

// Discard is a sink that drops every frame.
type Discard struct{}

func (Discard) Write([]types.Pixel) error { return nil }
