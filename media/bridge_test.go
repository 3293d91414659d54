package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mediabridge/mediabridge/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCreate(t *testing.T) {
	Convey("Given a ready bridge", t, func() {
		b, ch := newTestBridge()
		Reset(func() { _ = b.Close() })

		Convey("Create registers synchronously and issues create with id and src", func() {
			var running []bool
			h, err := b.Create("song.mp3", Callbacks{OnCreate: func(r bool) { running = append(running, r) }})
			So(err, ShouldBeNil)
			So(h.ID(), ShouldEqual, "media-1")
			So(b.Get("media-1").MustGet(), ShouldPointTo, h)

			So(ch.Actions(), ShouldResemble, []string{constant.ActionMessageChannel, constant.ActionCreate})
			create := ch.Last(constant.ActionCreate)
			So(create.service, ShouldEqual, constant.Service)
			So(create.args, ShouldResemble, []any{"media-1", "song.mp3"})

			create.success(true)
			drain(b)
			So(running, ShouldResemble, []bool{true})
		})

		Convey("A fresh handle has unknown state, duration and position", func() {
			h, err := b.Create("song.mp3", Callbacks{})
			So(err, ShouldBeNil)
			So(h.State(), ShouldEqual, StateUnknown)
			So(h.GetDuration(), ShouldEqual, Unknown)
			So(h.Position(), ShouldEqual, Unknown)
		})

		Convey("Create failures go to OnError", func() {
			var got error
			_, err := b.Create("missing.mp3", Callbacks{OnError: func(err error) { got = err }})
			So(err, ShouldBeNil)

			ch.Last(constant.ActionCreate).fail(1)
			drain(b)

			var nerr *NativeError
			So(errors.As(got, &nerr), ShouldBeTrue)
			So(nerr.Action, ShouldEqual, constant.ActionCreate)
			So(nerr.Code, ShouldEqual, 1)
		})

		Convey("Malformed arguments fail before any side effect", func() {
			for _, src := range []string{"", "   ", "bad\nname.mp3"} {
				_, err := b.Create(src, Callbacks{})
				So(errors.Is(err, ErrInvalidArgument), ShouldBeTrue)
			}
			_, err := b.Create("song.mp3", Callbacks{}, WithID(""))
			So(errors.Is(err, ErrInvalidArgument), ShouldBeTrue)

			So(b.GetAll(), ShouldBeEmpty)
			So(ch.Actions(), ShouldResemble, []string{constant.ActionMessageChannel})
		})

		Convey("Re-attaching by id keeps the observed state but takes the new src and callbacks", func() {
			var oldStatuses, newStatuses []State
			first, err := b.Create("first.mp3", Callbacks{OnStatus: func(s State) { oldStatuses = append(oldStatuses, s) }}, WithID("shared"))
			So(err, ShouldBeNil)
			push(ch, "shared", KindState, 2)
			push(ch, "shared", KindDuration, 9000)
			drain(b)
			So(first.State(), ShouldEqual, StateRunning)

			second, err := b.Create("second.mp3", Callbacks{OnStatus: func(s State) { newStatuses = append(newStatuses, s) }}, WithID("shared"))
			So(err, ShouldBeNil)
			So(second.ID(), ShouldEqual, "shared")
			So(second.State(), ShouldEqual, StateRunning)
			So(second.Src(), ShouldEqual, "second.mp3")
			So(second.GetDuration(), ShouldEqual, Unknown)
			So(b.Get("shared").MustGet(), ShouldPointTo, second)
			So(b.GetAll(), ShouldHaveLength, 1)

			push(ch, "shared", KindState, 3)
			drain(b)
			So(oldStatuses, ShouldResemble, []State{StateRunning})
			So(newStatuses, ShouldResemble, []State{StatePaused})
		})

		Convey("A caller supplied id that is not registered is used as is", func() {
			h, err := b.Create("song.mp3", Callbacks{}, WithID("external"))
			So(err, ShouldBeNil)
			So(h.ID(), ShouldEqual, "external")
			So(h.State(), ShouldEqual, StateUnknown)
		})

		Convey("CreateItem reports the id", func() {
			var id string
			So(b.CreateItem("song.mp3", Callbacks{}, "", func(got string) { id = got }), ShouldBeNil)
			So(id, ShouldEqual, "media-1")

			So(b.CreateItem("song.mp3", Callbacks{}, "chosen", func(got string) { id = got }), ShouldBeNil)
			So(id, ShouldEqual, "chosen")
		})
	})
}

func TestReadiness(t *testing.T) {
	Convey("Given a bridge that is not ready yet", t, func() {
		ch := &fakeChannel{}
		b := New(ch, WithGenerator(sequentialIDs()))
		Reset(func() { _ = b.Close() })

		h, err := b.Create("song.mp3", Callbacks{})
		So(err, ShouldBeNil)
		So(h.Play(nil), ShouldBeNil)
		So(h.SetVolume(0.5), ShouldBeNil)

		Convey("Nothing reaches the channel", func() {
			So(ch.Calls(), ShouldBeEmpty)
			So(b.Get("media-1").IsPresent(), ShouldBeTrue)
		})

		Convey("Ready subscribes once, then flushes commands in order", func() {
			So(b.Ready(), ShouldBeNil)
			So(b.Ready(), ShouldBeNil)
			So(ch.Actions(), ShouldResemble, []string{
				constant.ActionMessageChannel,
				constant.ActionCreate,
				constant.ActionStartPlaying,
				constant.ActionSetVolume,
			})

			So(h.Pause(), ShouldBeNil)
			So(ch.Actions()[4], ShouldEqual, constant.ActionPausePlaying)
		})
	})
}

func TestCommands(t *testing.T) {
	Convey("Given a created handle", t, func() {
		var errs []error
		b, ch := newTestBridge()
		Reset(func() { _ = b.Close() })
		h, err := b.Create("song.mp3", Callbacks{OnError: func(err error) { errs = append(errs, err) }})
		So(err, ShouldBeNil)

		Convey("Play forwards id, src and the options bag untouched", func() {
			opts := Options{"numberOfLoops": 2, "playAudioWhenScreenIsLocked": false}
			So(h.Play(opts), ShouldBeNil)
			play := ch.Last(constant.ActionStartPlaying)
			So(play.args, ShouldResemble, []any{"media-1", "song.mp3", opts})
			So(play.success, ShouldBeNil)
			So(play.fail, ShouldBeNil)
		})

		Convey("SeekTo caches the reported position, not the requested one", func() {
			So(h.SeekTo(1500), ShouldBeNil)
			seek := ch.Last(constant.ActionSeekTo)
			So(seek.args, ShouldResemble, []any{"media-1", 1500})

			seek.success(1480.0)
			drain(b)
			So(h.Position(), ShouldEqual, 1480)
		})

		Convey("A non-numeric seek report leaves the cache alone", func() {
			So(h.SeekTo(1500), ShouldBeNil)
			ch.Last(constant.ActionSeekTo).success("soon")
			drain(b)
			So(h.Position(), ShouldEqual, Unknown)
		})

		Convey("Stop resets the cached position on acknowledgement", func() {
			push(ch, "media-1", KindPosition, 3000)
			drain(b)
			So(h.Position(), ShouldEqual, 3000)

			So(h.Stop(), ShouldBeNil)
			So(h.Position(), ShouldEqual, 3000)
			ch.Last(constant.ActionStopPlaying).success(nil)
			drain(b)
			So(h.Position(), ShouldEqual, 0)
		})

		Convey("GetCurrentPosition caches and forwards the reported value", func() {
			var got float64
			So(h.GetCurrentPosition(func(p float64) { got = p }, nil), ShouldBeNil)
			ch.Last(constant.ActionGetCurrentPosition).success(42.5)
			drain(b)
			So(got, ShouldEqual, 42.5)
			So(h.Position(), ShouldEqual, 42.5)
		})

		Convey("GetCurrentPosition without a success continuation is rejected", func() {
			before := len(ch.Calls())
			err := h.GetCurrentPosition(nil, nil)
			So(errors.Is(err, ErrInvalidArgument), ShouldBeTrue)
			So(ch.Calls(), ShouldHaveLength, before)
		})

		Convey("GetCurrentAmplitude forwards values and failures to the caller only", func() {
			var amp float64
			var failed error
			So(h.GetCurrentAmplitude(func(a float64) { amp = a }, func(err error) { failed = err }), ShouldBeNil)
			ch.Last(constant.ActionGetCurrentAmplitude).success(0.25)
			drain(b)
			So(amp, ShouldEqual, 0.25)

			So(h.GetCurrentAmplitude(func(a float64) { amp = a }, func(err error) { failed = err }), ShouldBeNil)
			ch.Last(constant.ActionGetCurrentAmplitude).fail("not recording")
			drain(b)
			So(failed, ShouldNotBeNil)
			So(errs, ShouldBeEmpty)
		})

		Convey("Pause failures reach OnError with the action and code", func() {
			So(h.Pause(), ShouldBeNil)
			ch.Last(constant.ActionPausePlaying).fail(1)
			drain(b)

			So(errs, ShouldHaveLength, 1)
			var nerr *NativeError
			So(errors.As(errs[0], &nerr), ShouldBeTrue)
			So(nerr.Action, ShouldEqual, constant.ActionPausePlaying)
			So(nerr.Code, ShouldEqual, 1)
		})

		Convey("Recording commands carry the id, start also carries src", func() {
			So(h.StartRecord(), ShouldBeNil)
			So(h.PauseRecord(), ShouldBeNil)
			So(h.ResumeRecord(), ShouldBeNil)
			So(h.StopRecord(), ShouldBeNil)

			So(ch.Last(constant.ActionStartRecording).args, ShouldResemble, []any{"media-1", "song.mp3"})
			So(ch.Last(constant.ActionPauseRecording).args, ShouldResemble, []any{"media-1"})
			So(ch.Last(constant.ActionResumeRecording).args, ShouldResemble, []any{"media-1"})
			So(ch.Last(constant.ActionStopRecording).args, ShouldResemble, []any{"media-1"})
		})

		Convey("SetVolume passes the value through without validation", func() {
			So(h.SetVolume(7.5), ShouldBeNil)
			So(ch.Last(constant.ActionSetVolume).args, ShouldResemble, []any{"media-1", 7.5})
		})

		Convey("SetRate is a silent no-op where the platform lacks it", func() {
			before := ch.Actions()
			So(h.SetRate(1.5), ShouldBeNil)
			drain(b)
			So(ch.Actions(), ShouldResemble, before)
			So(errs, ShouldBeEmpty)
		})

		Convey("Release removes the handle and later notifications are ignored", func() {
			var statuses []State
			other, err := b.Create("other.mp3", Callbacks{OnStatus: func(s State) { statuses = append(statuses, s) }})
			So(err, ShouldBeNil)

			So(other.Release(), ShouldBeNil)
			So(ch.Last(constant.ActionRelease).args, ShouldResemble, []any{other.ID()})
			So(b.Get(other.ID()).IsAbsent(), ShouldBeTrue)

			push(ch, other.ID(), KindState, 2)
			drain(b)
			So(statuses, ShouldBeEmpty)
		})
	})

	Convey("Given a bridge on a platform with rate support", t, func() {
		b, ch := newTestBridge(WithPlatform(constant.IOS))
		Reset(func() { _ = b.Close() })
		h, err := b.Create("song.mp3", Callbacks{})
		So(err, ShouldBeNil)

		So(b.SupportsRate(), ShouldBeTrue)
		So(h.SetRate(1.5), ShouldBeNil)
		So(ch.Last(constant.ActionSetRate).args, ShouldResemble, []any{"media-1", 1.5})
	})
}

func TestNotifications(t *testing.T) {
	Convey("Given a handle observed through the message channel", t, func() {
		var (
			successes int
			statuses  []State
		)
		rec := newFakeRecorder()
		b, ch := newTestBridge(WithRecorder(rec))
		Reset(func() { _ = b.Close() })
		h, err := b.Create("song.mp3", Callbacks{
			OnSuccess: func() { successes++ },
			OnStatus:  func(s State) { statuses = append(statuses, s) },
		})
		So(err, ShouldBeNil)

		Convey("Pushed states are relayed in order and Stopped completes", func() {
			push(ch, h.ID(), KindState, 1)
			push(ch, h.ID(), KindState, 2)
			push(ch, h.ID(), KindState, 4)
			drain(b)

			So(statuses, ShouldResemble, []State{StateStarting, StateRunning, StateStopped})
			So(successes, ShouldEqual, 1)
			So(rec.dispatched[KindState], ShouldEqual, 3)
		})

		Convey("Duration pushes are visible through GetDuration and GetDurationOfItem", func() {
			push(ch, h.ID(), KindDuration, 5000)
			drain(b)
			So(h.GetDuration(), ShouldEqual, 5000)

			var got float64
			b.GetDurationOfItem(h.ID(), func(d float64) { got = d })
			So(got, ShouldEqual, 5000)
		})

		Convey("Direct OnStatus calls go through the same loop", func() {
			b.OnStatus(h.ID(), KindState, StatePaused)
			drain(b)
			So(statuses, ShouldResemble, []State{StatePaused})
		})

		Convey("Stray and malformed traffic is dropped without crashing the loop", func() {
			sub := ch.Last(constant.ActionMessageChannel)
			push(ch, "stray", KindState, 2)
			sub.success(map[string]any{"action": "volume"})
			sub.success("{not json")
			push(ch, h.ID(), MessageKind(42), 1)
			push(ch, h.ID(), KindState, 2)
			drain(b)

			So(statuses, ShouldResemble, []State{StateRunning})
			So(rec.dropped[DropUnknownHandle], ShouldEqual, 1)
			So(rec.dropped[DropUnrecognized], ShouldEqual, 2)
			So(rec.dropped[DropMalformed], ShouldEqual, 1)
		})

		Convey("A panicking callback does not stop later deliveries", func() {
			boom, err := b.Create("boom.mp3", Callbacks{OnStatus: func(State) { panic("boom") }})
			So(err, ShouldBeNil)

			push(ch, boom.ID(), KindState, 2)
			push(ch, h.ID(), KindState, 2)
			drain(b)
			So(statuses, ShouldResemble, []State{StateRunning})
		})

		Convey("The recorder tracks commands and live handles", func() {
			So(rec.commands[constant.ActionCreate], ShouldEqual, 1)
			So(rec.live, ShouldEqual, 1)
			So(h.Release(), ShouldBeNil)
			So(rec.live, ShouldEqual, 0)
		})
	})
}

func TestItems(t *testing.T) {
	Convey("Given the id-indexed helpers", t, func() {
		b, ch := newTestBridge()
		Reset(func() { _ = b.Close() })
		h, err := b.Create("song.mp3", Callbacks{})
		So(err, ShouldBeNil)
		baseline := len(ch.Calls())

		Convey("Unknown ids are a silent no-op", func() {
			So(b.PlayItem("nope", nil), ShouldBeNil)
			So(b.StopItem("nope"), ShouldBeNil)
			So(b.PauseItem("nope"), ShouldBeNil)
			So(b.SeekItem("nope", 10), ShouldBeNil)
			So(b.ReleaseItem("nope"), ShouldBeNil)
			So(b.SetItemVolume("nope", 1), ShouldBeNil)
			So(b.SetItemRate("nope", 1), ShouldBeNil)
			So(b.StartRecordItem("nope"), ShouldBeNil)
			So(b.StopRecordItem("nope"), ShouldBeNil)
			So(b.PauseRecordItem("nope"), ShouldBeNil)
			So(b.ResumeRecordItem("nope"), ShouldBeNil)
			So(b.GetItemCurrentPosition("nope", func(float64) {}, nil), ShouldBeNil)
			So(b.GetItemAmplitude("nope", func(float64) {}, nil), ShouldBeNil)

			called := false
			b.GetDurationOfItem("nope", func(float64) { called = true })
			So(called, ShouldBeFalse)
			So(ch.Calls(), ShouldHaveLength, baseline)
		})

		Convey("Known ids delegate to the handle", func() {
			So(b.PlayItem(h.ID(), nil), ShouldBeNil)
			So(b.SeekItem(h.ID(), 250), ShouldBeNil)
			So(b.ReleaseItem(h.ID()), ShouldBeNil)
			So(ch.Actions()[baseline:], ShouldResemble, []string{
				constant.ActionStartPlaying,
				constant.ActionSeekTo,
				constant.ActionRelease,
			})
		})

		Convey("GetAsync hands over the handle or nil", func() {
			var got *Handle
			b.GetAsync(h.ID(), func(x *Handle) { got = x })
			So(got, ShouldPointTo, h)

			b.GetAsync("nope", func(x *Handle) { got = x })
			So(got, ShouldBeNil)
		})
	})
}

func TestClose(t *testing.T) {
	Convey("Given a closed bridge", t, func() {
		var errs []error
		b, ch := newTestBridge()
		h, err := b.Create("song.mp3", Callbacks{OnError: func(err error) { errs = append(errs, err) }})
		So(err, ShouldBeNil)
		So(b.Close(), ShouldBeNil)
		So(b.Close(), ShouldBeNil)

		Convey("Operations fail fast", func() {
			So(h.Play(nil), ShouldEqual, ErrClosed)
			So(h.Release(), ShouldEqual, ErrClosed)
			_, err := b.Create("other.mp3", Callbacks{})
			So(err, ShouldEqual, ErrClosed)
			So(b.Ready(), ShouldEqual, ErrClosed)
		})

		Convey("Drain reports the closure", func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			So(b.Drain(ctx), ShouldEqual, ErrClosed)
		})

		Convey("Late completions are dropped", func() {
			ch.Last(constant.ActionCreate).fail(1)
			So(errs, ShouldBeEmpty)
			So(b.Get(h.ID()).IsPresent(), ShouldBeTrue)
		})
	})
}

// closedChannel fails every command synchronously, like a socket channel after its connection dropped.
type closedChannel struct{}

func (closedChannel) Exec(_, _ string, _ []any, _ func(any), fail func(any)) {
	if fail != nil {
		fail("connection closed")
	}
}

func TestReentrantCommands(t *testing.T) {
	Convey("Given a bridge with a tiny queue over a channel that fails synchronously", t, func() {
		b := New(closedChannel{}, WithQueueSize(1), WithPlatform(constant.Android))
		Reset(func() { _ = b.Close() })
		So(b.Ready(), ShouldBeNil)

		var (
			errs []error
			h    *Handle
		)
		h, err := b.Create("song.mp3", Callbacks{
			OnError: func(err error) { errs = append(errs, err) },
			OnStatus: func(State) {
				for i := 0; i < 8; i++ {
					_ = h.Pause()
				}
			},
		})
		So(err, ShouldBeNil)

		Convey("Commands issued from a callback do not stall the loop", func() {
			b.OnStatus(h.ID(), KindState, StateRunning)

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			So(b.Drain(ctx), ShouldBeNil)
			So(b.Drain(ctx), ShouldBeNil)

			// create failure plus one failure per pause, in order
			So(errs, ShouldHaveLength, 9)
			var native *NativeError
			So(errors.As(errs[0], &native), ShouldBeTrue)
			So(native.Action, ShouldEqual, constant.ActionCreate)
			So(errors.As(errs[8], &native), ShouldBeTrue)
			So(native.Action, ShouldEqual, constant.ActionPausePlaying)
		})
	})
}

func TestCreateAfterClose(t *testing.T) {
	Convey("Given a bridge closed while callers are still creating", t, func() {
		b, _ := newTestBridge()
		So(b.Close(), ShouldBeNil)

		Convey("A rejected Create leaves nothing registered", func() {
			_, err := b.Create("song.mp3", Callbacks{}, WithID("late"))
			So(err, ShouldEqual, ErrClosed)
			So(b.Get("late").IsPresent(), ShouldBeFalse)
			So(b.GetAll(), ShouldBeEmpty)
		})
	})
}
