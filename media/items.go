package media

import (
	"github.com/mediabridge/mediabridge/log"
	"github.com/samber/mo"
)

// Get returns the live handle for id.
func (b *Bridge) Get(id string) mo.Option[*Handle] {
	return b.registry.Lookup(id)
}

// GetAsync passes the handle for id, or nil, to cb.
func (b *Bridge) GetAsync(id string, cb func(*Handle)) {
	if cb != nil {
		cb(b.registry.Lookup(id).OrEmpty())
	}
}

// GetAll returns a snapshot of every live handle keyed by id.
func (b *Bridge) GetAll() map[string]*Handle {
	return b.registry.All()
}

// The *Item helpers address handles by id and do nothing for unknown ids,
// since callers routinely race handle release.

func (b *Bridge) PlayItem(id string, opts Options) error {
	return b.withItem(id, func(h *Handle) error { return h.Play(opts) })
}

func (b *Bridge) StopItem(id string) error {
	return b.withItem(id, (*Handle).Stop)
}

func (b *Bridge) PauseItem(id string) error {
	return b.withItem(id, (*Handle).Pause)
}

func (b *Bridge) SeekItem(id string, ms int) error {
	return b.withItem(id, func(h *Handle) error { return h.SeekTo(ms) })
}

func (b *Bridge) ReleaseItem(id string) error {
	return b.withItem(id, (*Handle).Release)
}

func (b *Bridge) SetItemVolume(id string, volume float64) error {
	return b.withItem(id, func(h *Handle) error { return h.SetVolume(volume) })
}

func (b *Bridge) SetItemRate(id string, rate float64) error {
	return b.withItem(id, func(h *Handle) error { return h.SetRate(rate) })
}

func (b *Bridge) StartRecordItem(id string) error {
	return b.withItem(id, (*Handle).StartRecord)
}

func (b *Bridge) StopRecordItem(id string) error {
	return b.withItem(id, (*Handle).StopRecord)
}

func (b *Bridge) PauseRecordItem(id string) error {
	return b.withItem(id, (*Handle).PauseRecord)
}

func (b *Bridge) ResumeRecordItem(id string) error {
	return b.withItem(id, (*Handle).ResumeRecord)
}

// GetDurationOfItem passes the cached duration of id to cb.
func (b *Bridge) GetDurationOfItem(id string, cb func(float64)) {
	if h, ok := b.registry.Lookup(id).Get(); ok && cb != nil {
		cb(h.GetDuration())
	}
}

func (b *Bridge) GetItemCurrentPosition(id string, success func(float64), fail func(error)) error {
	return b.withItem(id, func(h *Handle) error { return h.GetCurrentPosition(success, fail) })
}

func (b *Bridge) GetItemAmplitude(id string, success func(float64), fail func(error)) error {
	return b.withItem(id, func(h *Handle) error { return h.GetCurrentAmplitude(success, fail) })
}

func (b *Bridge) withItem(id string, fn func(*Handle) error) error {
	h, ok := b.registry.Lookup(id).Get()
	if !ok {
		log.WithFields(log.Fields{"id": id}).Debug("ignoring command for unknown media")
		return nil
	}
	return fn(h)
}
