package media

import (
	"github.com/mediabridge/mediabridge/constant"
	"github.com/mediabridge/mediabridge/log"
)

// Play starts or resumes playback. opts is forwarded untouched.
func (h *Handle) Play(opts Options) error {
	return h.bridge.exec(constant.ActionStartPlaying, []any{h.id, h.src, opts}, nil, nil)
}

// Stop stops playback; the cached position resets to zero once the native side acknowledges.
func (h *Handle) Stop() error {
	return h.bridge.exec(constant.ActionStopPlaying, []any{h.id}, func(any) {
		h.setPosition(0)
	}, h.failure(constant.ActionStopPlaying))
}

// Pause pauses playback.
func (h *Handle) Pause() error {
	return h.bridge.exec(constant.ActionPausePlaying, []any{h.id}, nil, h.failure(constant.ActionPausePlaying))
}

// SeekTo jumps to ms. The position reported back by the native side, not ms, is cached.
func (h *Handle) SeekTo(ms int) error {
	return h.bridge.exec(constant.ActionSeekTo, []any{h.id, ms}, func(v any) {
		p, err := toFloat(v)
		if err != nil {
			log.WithFields(log.Fields{"id": h.id, "action": constant.ActionSeekTo}).Warn(err)
			return
		}
		h.setPosition(p)
	}, h.failure(constant.ActionSeekTo))
}

// GetCurrentPosition asks the native side for the position, caches it and passes it to success.
func (h *Handle) GetCurrentPosition(success func(float64), fail func(error)) error {
	if success == nil {
		return invalidArgument("nil success continuation for %s", constant.ActionGetCurrentPosition)
	}
	return h.bridge.exec(constant.ActionGetCurrentPosition, []any{h.id}, func(v any) {
		p, err := toFloat(v)
		if err != nil {
			if fail != nil {
				fail(&NativeError{Action: constant.ActionGetCurrentPosition, Code: err})
			}
			return
		}
		h.setPosition(p)
		success(p)
	}, relay(constant.ActionGetCurrentPosition, fail))
}

// GetCurrentAmplitude asks the native recorder for the current input amplitude.
func (h *Handle) GetCurrentAmplitude(success func(float64), fail func(error)) error {
	if success == nil {
		return invalidArgument("nil success continuation for %s", constant.ActionGetCurrentAmplitude)
	}
	return h.bridge.exec(constant.ActionGetCurrentAmplitude, []any{h.id}, func(v any) {
		a, err := toFloat(v)
		if err != nil {
			if fail != nil {
				fail(&NativeError{Action: constant.ActionGetCurrentAmplitude, Code: err})
			}
			return
		}
		success(a)
	}, relay(constant.ActionGetCurrentAmplitude, fail))
}

// StartRecord starts recording into src.
func (h *Handle) StartRecord() error {
	return h.bridge.exec(constant.ActionStartRecording, []any{h.id, h.src}, nil, h.failure(constant.ActionStartRecording))
}

func (h *Handle) StopRecord() error {
	return h.bridge.exec(constant.ActionStopRecording, []any{h.id}, nil, h.failure(constant.ActionStopRecording))
}

func (h *Handle) PauseRecord() error {
	return h.bridge.exec(constant.ActionPauseRecording, []any{h.id}, nil, h.failure(constant.ActionPauseRecording))
}

func (h *Handle) ResumeRecord() error {
	return h.bridge.exec(constant.ActionResumeRecording, []any{h.id}, nil, h.failure(constant.ActionResumeRecording))
}

// Release tears down the native resource and removes the handle from the registry.
// Notifications that arrive for the id afterwards are dropped as unknown.
func (h *Handle) Release() error {
	if err := h.bridge.exec(constant.ActionRelease, []any{h.id}, nil, h.failure(constant.ActionRelease)); err != nil {
		return err
	}
	h.bridge.forget(h.id)
	return nil
}

// SetVolume forwards a normalized volume. The native side validates it.
func (h *Handle) SetVolume(volume float64) error {
	return h.bridge.exec(constant.ActionSetVolume, []any{h.id, volume}, nil, nil)
}

// SetRate changes the playback rate on platforms that support it and only logs a warning elsewhere.
func (h *Handle) SetRate(rate float64) error {
	if !h.bridge.SupportsRate() {
		log.WithFields(log.Fields{"id": h.id, "platform": h.bridge.platform}).
			Warnf("media.setRate is not supported on %s", h.bridge.platform)
		return nil
	}
	return h.bridge.exec(constant.ActionSetRate, []any{h.id, rate}, nil, nil)
}

func relay(action string, fail func(error)) func(any) {
	if fail == nil {
		return nil
	}
	return func(code any) {
		fail(&NativeError{Action: action, Code: code})
	}
}
