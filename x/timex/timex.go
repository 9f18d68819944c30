package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

var boot = time.Now()

// Millis returns milliseconds since process start, wrapping at 2^32 like an MCU tick counter.
func Millis() uint32 { return uint32(time.Since(boot).Milliseconds()) }

// Elapsed returns now-last in milliseconds, correct across a single uint32 wrap.
func Elapsed(now, last uint32) uint32 { return now - last }

// Due reports whether strictly more than interval ms have passed since last.
func Due(now, last, interval uint32) bool { return Elapsed(now, last) > interval }
