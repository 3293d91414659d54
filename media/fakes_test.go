package media

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mediabridge/mediabridge/constant"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

type call struct {
	service string
	action  string
	args    []any
	success func(any)
	fail    func(any)
}

type fakeChannel struct {
	mu    sync.Mutex
	calls []call
}

func (f *fakeChannel) Exec(service, action string, args []any, success, fail func(any)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{service, action, args, success, fail})
}

func (f *fakeChannel) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeChannel) Actions() []string {
	return lo.Map(f.Calls(), func(c call, _ int) string { return c.action })
}

func (f *fakeChannel) Last(action string) call {
	calls := f.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].action == action {
			return calls[i]
		}
	}
	So(action, ShouldBeIn, f.Actions())
	return call{}
}

type fakeRecorder struct {
	mu         sync.Mutex
	commands   map[string]int
	dispatched map[MessageKind]int
	dropped    map[string]int
	live       int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{
		commands:   make(map[string]int),
		dispatched: make(map[MessageKind]int),
		dropped:    make(map[string]int),
	}
}

func (r *fakeRecorder) CommandIssued(action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[action]++
}

func (r *fakeRecorder) NotificationDispatched(kind MessageKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatched[kind]++
}

func (r *fakeRecorder) NotificationDropped(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropped[reason]++
}

func (r *fakeRecorder) HandlesLive(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live = n
}

func sequentialIDs() func() string {
	seq := 0
	return func() string {
		seq++
		return fmt.Sprintf("media-%d", seq)
	}
}

func newTestBridge(opts ...Option) (*Bridge, *fakeChannel) {
	ch := &fakeChannel{}
	defaults := []Option{
		WithGenerator(sequentialIDs()),
		WithPlatform(constant.Android),
	}
	b := New(ch, append(defaults, opts...)...)
	So(b.Ready(), ShouldBeNil)
	return b, ch
}

func drain(b *Bridge) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	So(b.Drain(ctx), ShouldBeNil)
}

// push delivers a notification through the message channel subscription, as the native side would.
func push(ch *fakeChannel, id string, kind MessageKind, value any) {
	sub := ch.Last(constant.ActionMessageChannel)
	sub.success(map[string]any{
		"action": constant.MessageActionStatus,
		"status": map[string]any{"id": id, "msgType": float64(kind), "value": value},
	})
}
