// Package media bridges in-process media handles to a native media engine reached through an
// asynchronous command channel. It owns the handle registry, issues commands, and routes the
// status notifications pushed back by the native side.
package media

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mediabridge/mediabridge/constant"
	"github.com/mediabridge/mediabridge/log"
)

// Channel is the asynchronous transport to the native side. Exec must not block on the reply.
// At most one of success and fail fires per call, except for the message channel subscription
// whose success fires once per pushed message. Either continuation may be nil.
type Channel interface {
	Exec(service, action string, args []any, success func(any), fail func(any))
}

const defaultQueueSize = 256

// Bridge owns a registry of handles and a single event loop. Every callback, completion and
// notification runs on that loop, in arrival order.
type Bridge struct {
	channel    Channel
	registry   Registry
	dispatcher *Dispatcher
	recorder   Recorder
	generate   func() string
	platform   string
	queueSize  int

	// queue is an unbounded FIFO so posting from a callback never waits on the loop itself.
	queueMu sync.Mutex
	queue   []func()
	wake    chan struct{}
	done    chan struct{}
	stopped chan struct{}

	// mu guards the lifecycle flags and serializes sends so queued commands keep their order.
	mu        sync.Mutex
	ready     bool
	closed    bool
	pending   []command
	closeOnce sync.Once
}

type command struct {
	action  string
	args    []any
	success func(any)
	fail    func(any)
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithRegistry replaces the default in-memory registry.
func WithRegistry(r Registry) Option {
	return func(b *Bridge) { b.registry = r }
}

// WithGenerator replaces the id generator, uuid.NewString by default.
func WithGenerator(gen func() string) Option {
	return func(b *Bridge) { b.generate = gen }
}

// WithPlatform sets the platform identifier used for capability gating. Defaults to runtime.GOOS.
func WithPlatform(platform string) Option {
	return func(b *Bridge) { b.platform = strings.ToLower(platform) }
}

// WithRecorder attaches an accounting sink.
func WithRecorder(r Recorder) Option {
	return func(b *Bridge) { b.recorder = r }
}

// WithQueueSize sets the initial capacity of the event loop queue. The queue grows past it.
func WithQueueSize(n int) Option {
	return func(b *Bridge) { b.queueSize = n }
}

// New creates a bridge over ch and starts its event loop. Commands are held back until Ready.
func New(ch Channel, opts ...Option) *Bridge {
	b := &Bridge{
		channel:   ch,
		registry:  NewRegistry(),
		recorder:  nopRecorder{},
		generate:  uuid.NewString,
		platform:  runtime.GOOS,
		queueSize: defaultQueueSize,
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.queueSize <= 0 {
		b.queueSize = defaultQueueSize
	}

	b.dispatcher = NewDispatcher(b.registry)
	b.queue = make([]func(), 0, b.queueSize)

	go b.loop()
	return b
}

// Platform returns the platform identifier used for capability gating.
func (b *Bridge) Platform() string {
	return b.platform
}

// SupportsRate reports whether the native side of this platform implements variable playback rate.
func (b *Bridge) SupportsRate() bool {
	return b.platform == constant.IOS || b.platform == constant.Darwin
}

// Ready lifts the readiness barrier: it subscribes to the message channel, once per bridge,
// then flushes commands issued so far in their original order.
func (b *Bridge) Ready() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	if b.ready {
		return nil
	}
	b.ready = true

	b.send(command{
		action:  constant.ActionMessageChannel,
		args:    []any{},
		success: b.deliver(b.onMessage),
		fail: b.deliver(func(v any) {
			log.Errorf("media message channel failed: %v", v)
		}),
	})

	for _, cmd := range b.pending {
		b.send(cmd)
	}
	b.pending = nil

	return nil
}

// Create registers a handle for src and asks the native side to create the resource.
// With WithID the handle reattaches to an existing id and keeps its last known state.
func (b *Bridge) Create(src string, cb Callbacks, opts ...CreateOption) (*Handle, error) {
	var co createOptions
	for _, opt := range opts {
		opt(&co)
	}

	if err := validateSource(src); err != nil {
		return nil, err
	}
	if co.hasID && strings.TrimSpace(co.id) == "" {
		return nil, invalidArgument("empty media id")
	}
	// registration and the create command happen under one hold of mu
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	id, state := co.id, StateUnknown
	if co.hasID {
		if prior, ok := b.registry.Lookup(id).Get(); ok {
			state = prior.State()
		}
	} else {
		id = b.generate()
	}

	h := newHandle(b, id, src, cb, state)
	b.registry.Register(id, h)
	b.recorder.HandlesLive(b.registry.Len())

	b.enqueue(constant.ActionCreate, []any{id, src}, h.created(), h.failure(constant.ActionCreate))
	return h, nil
}

// CreateOption configures Create.
type CreateOption func(*createOptions)

type createOptions struct {
	id    string
	hasID bool
}

// WithID reattaches to a native resource created earlier under id.
func WithID(id string) CreateOption {
	return func(o *createOptions) {
		o.id = id
		o.hasID = true
	}
}

// CreateItem creates a handle and reports its id to onID.
func (b *Bridge) CreateItem(src string, cb Callbacks, id string, onID func(string)) error {
	var opts []CreateOption
	if id != "" {
		opts = append(opts, WithID(id))
	}

	h, err := b.Create(src, cb, opts...)
	if err != nil {
		return err
	}
	if onID != nil {
		onID(h.ID())
	}
	return nil
}

// OnStatus is the entry point for native status pushes that bypass the message channel.
func (b *Bridge) OnStatus(id string, kind MessageKind, value any) {
	b.post(func() {
		b.dispatch(Notification{ID: id, Kind: kind, Value: value})
	})
}

// Drain blocks until everything queued on the event loop before the call has run.
// It must not be called from a callback.
func (b *Bridge) Drain(ctx context.Context) error {
	done := make(chan struct{})
	if !b.post(func() { close(done) }) {
		return ErrClosed
	}

	select {
	case <-done:
		return nil
	case <-b.stopped:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the event loop. Pending commands are discarded and late completions are dropped.
func (b *Bridge) Close() error {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		b.pending = nil
		b.mu.Unlock()
		close(b.done)
	})
	return nil
}

func (b *Bridge) exec(action string, args []any, success, fail func(any)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	b.enqueue(action, args, success, fail)
	return nil
}

// enqueue sends a command, or holds it back until Ready. mu must be held.
func (b *Bridge) enqueue(action string, args []any, success, fail func(any)) {
	cmd := command{
		action:  action,
		args:    args,
		success: b.deliver(success),
		fail:    b.deliver(fail),
	}
	if !b.ready {
		b.pending = append(b.pending, cmd)
		return
	}

	b.send(cmd)
}

// send must be called with mu held.
func (b *Bridge) send(cmd command) {
	b.recorder.CommandIssued(cmd.action)
	b.channel.Exec(constant.Service, cmd.action, cmd.args, cmd.success, cmd.fail)
}

// deliver moves a continuation onto the event loop.
func (b *Bridge) deliver(fn func(any)) func(any) {
	if fn == nil {
		return nil
	}
	return func(v any) {
		b.post(func() { fn(v) })
	}
}

// post appends fn to the loop queue without blocking. It reports false once the bridge is closed.
func (b *Bridge) post(fn func()) bool {
	select {
	case <-b.done:
		log.Debug("media bridge closed, dropping event")
		return false
	default:
	}

	b.queueMu.Lock()
	b.queue = append(b.queue, fn)
	b.queueMu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
	return true
}

// next pops the oldest queued function.
func (b *Bridge) next() (func(), bool) {
	b.queueMu.Lock()
	defer b.queueMu.Unlock()

	if len(b.queue) == 0 {
		return nil, false
	}
	fn := b.queue[0]
	b.queue[0] = nil
	b.queue = b.queue[1:]
	return fn, true
}

func (b *Bridge) loop() {
	defer close(b.stopped)
	for {
		select {
		case <-b.wake:
		case <-b.done:
			return
		}

		for {
			select {
			case <-b.done:
				return
			default:
			}

			fn, ok := b.next()
			if !ok {
				break
			}
			b.run(fn)
		}
	}
}

// run shields the loop from panicking callbacks.
func (b *Bridge) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("media callback panicked: %v", r)
		}
	}()
	fn()
}

func (b *Bridge) onMessage(v any) {
	msg, err := DecodeMessage(v)
	if err != nil {
		log.Errorf("decode media message: %v", err)
		b.recorder.NotificationDropped(DropMalformed)
		return
	}

	if msg.Action != constant.MessageActionStatus || msg.Status == nil {
		log.WithFields(log.Fields{"action": msg.Action}).Error(ErrUnrecognizedNotification)
		b.recorder.NotificationDropped(DropUnrecognized)
		return
	}

	b.dispatch(*msg.Status)
}

func (b *Bridge) dispatch(n Notification) {
	err := b.dispatcher.Dispatch(n)
	switch {
	case err == nil:
		b.recorder.NotificationDispatched(n.Kind)
	case errors.Is(err, ErrUnknownHandle):
		b.recorder.NotificationDropped(DropUnknownHandle)
	case errors.Is(err, ErrUnrecognizedNotification):
		b.recorder.NotificationDropped(DropUnrecognized)
	default:
		b.recorder.NotificationDropped(DropMalformed)
	}
}

func (b *Bridge) forget(id string) {
	b.registry.Remove(id)
	b.recorder.HandlesLive(b.registry.Len())
}

func (b *Bridge) String() string {
	return fmt.Sprintf("media.Bridge(%s, %d handles)", b.platform, b.registry.Len())
}
