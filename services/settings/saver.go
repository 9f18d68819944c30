package settings

import "errors"

const (
	DefaultKey     = "led_cfg"
	DefaultVersion = "V01.02.00"
	DefaultDelayMs = 15000
)

// Record is a configuration that can be persisted as a fixed-size record.
type Record interface {
	ChangeCounter() uint32
	LastModifiedMs() uint32
	AppendConfigRecord(dst []byte) []byte
	RestoreConfigRecord(rec []byte) error
}

// Saver persists a Record with debounce: it saves only once the record's
// change counter differs from the last saved one and the last change is
// at least the delay old.
type Saver struct {
	store   Store
	key     string
	version string
	delayMs uint32

	lastSaved uint32
	saves     uint32
	rec       []byte
	blob      []byte
}

type Option func(*Saver)

func WithKey(k string) Option      { return func(s *Saver) { s.key = k } }
func WithVersion(v string) Option  { return func(s *Saver) { s.version = v } }
func WithDelayMs(ms uint32) Option { return func(s *Saver) { s.delayMs = ms } }

func NewSaver(store Store, opts ...Option) *Saver {
	s := &Saver{
		store:   store,
		key:     DefaultKey,
		version: DefaultVersion,
		delayMs: DefaultDelayMs,
		rec:     make([]byte, 0, MaxBlob),
		blob:    make([]byte, 0, MaxBlob),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Saver) SetDelayMs(ms uint32) { s.delayMs = ms }
func (s *Saver) DelayMs() uint32      { return s.delayMs }
func (s *Saver) Saves() uint32        { return s.saves }

// Load restores rec from the store. Any error leaves rec untouched, and
// the caller keeps its defaults.
func (s *Saver) Load(rec Record) error {
	blob, err := s.store.Load(s.key)
	if err != nil {
		return err
	}
	size := len(rec.AppendConfigRecord(s.rec[:0]))
	payload, err := Decode(blob, s.version, size)
	if err != nil {
		println("[settings] load rejected:", err.Error())
		return err
	}
	if err := rec.RestoreConfigRecord(payload); err != nil {
		return err
	}
	s.lastSaved = rec.ChangeCounter()
	println("[settings] loaded, change counter", s.lastSaved)
	return nil
}

// Update saves rec when it is dirty and the debounce delay has passed.
// It reports whether a save happened.
func (s *Saver) Update(rec Record, nowMs uint32) (bool, error) {
	if rec.ChangeCounter() == s.lastSaved {
		return false, nil
	}
	if nowMs-rec.LastModifiedMs() < s.delayMs {
		return false, nil
	}
	if err := s.SaveNow(rec); err != nil {
		return false, err
	}
	return true, nil
}

// Dirty reports whether rec has unsaved changes.
func (s *Saver) Dirty(rec Record) bool { return rec.ChangeCounter() != s.lastSaved }

// SaveNow writes rec immediately.
func (s *Saver) SaveNow(rec Record) error {
	s.rec = rec.AppendConfigRecord(s.rec[:0])
	blob, err := Encode(s.blob[:0], s.version, s.rec)
	if err != nil {
		return err
	}
	s.blob = blob
	if err := s.store.Save(s.key, blob); err != nil {
		println("[settings] save failed:", err.Error())
		return err
	}
	s.lastSaved = rec.ChangeCounter()
	s.saves++
	println("[settings] saved, change counter", s.lastSaved)
	return nil
}

// Erase removes the stored record.
func (s *Saver) Erase() error {
	err := s.store.Erase(s.key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
