package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/mediabridge/mediabridge/color"
	"github.com/mediabridge/mediabridge/config"
	"github.com/mediabridge/mediabridge/host"
	"github.com/mediabridge/mediabridge/icon"
	"github.com/mediabridge/mediabridge/ipc"
	"github.com/mediabridge/mediabridge/key"
	"github.com/mediabridge/mediabridge/log"
	"github.com/mediabridge/mediabridge/media"
	"github.com/mediabridge/mediabridge/metrics"
	"github.com/mediabridge/mediabridge/session"
	"github.com/mediabridge/mediabridge/style"
	"github.com/mediabridge/mediabridge/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

const shutdownTimeout = 2 * time.Second

// link is one connected bridge together with everything it depends on.
type link struct {
	host    mo.Option[*host.Host]
	client  *ipc.Client
	bridge  *media.Bridge
	journal mo.Option[*session.Journal]
	metrics mo.Option[*metrics.Server]
}

// connect attaches to the configured host socket, or spawns a host, and returns a ready bridge.
func connect() (*link, error) {
	l := &link{}

	socket := viper.GetString(key.HostSocket)
	if socket == "" {
		erase := util.PrintErasable(fmt.Sprintf("%s Starting media host...", icon.Get(icon.Progress)))
		h := host.New(viper.GetString(key.HostBinary))
		err := h.Start()
		erase()
		if err != nil {
			return nil, err
		}
		l.host = mo.Some(h)
		socket = h.Socket()
	}

	client, err := ipc.Dial(socket, ipc.Options{
		Retries:    viper.GetInt(key.IPCRetries),
		RetryDelay: config.RetryDelay(),
	})
	if err != nil {
		l.stopHost()
		return nil, err
	}
	l.client = client

	opts := []media.Option{
		media.WithPlatform(viper.GetString(key.BridgePlatform)),
		media.WithQueueSize(viper.GetInt(key.BridgeQueueSize)),
	}
	if addr := viper.GetString(key.MetricsAddress); addr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, media.WithRecorder(metrics.New(reg)))
		l.metrics = mo.Some(metrics.Serve(addr, reg))
	}
	if viper.GetBool(key.SessionPersist) {
		l.journal = mo.Some(session.Default())
	}

	l.bridge = media.New(client, opts...)
	if err := l.bridge.Ready(); err != nil {
		l.Close()
		return nil, err
	}

	return l, nil
}

// remember journals a created handle.
func (l *link) remember(h *media.Handle) {
	if j, ok := l.journal.Get(); ok {
		if err := j.Remember(h.ID(), h.Src()); err != nil {
			log.Warnf("journal %s: %v", h.ID(), err)
		}
	}
}

func (l *link) touch(h *media.Handle, state media.State) {
	if j, ok := l.journal.Get(); ok {
		if err := j.Touch(h.ID(), state); err != nil {
			log.Warnf("journal %s: %v", h.ID(), err)
		}
	}
}

// release releases h on the native side and drops it from the journal.
func (l *link) release(h *media.Handle) {
	if err := h.Release(); err != nil {
		log.Warnf("release %s: %v", h.ID(), err)
	}
	if j, ok := l.journal.Get(); ok {
		_ = j.Forget(h.ID())
	}
}

// Close drains pending callbacks and tears everything down in reverse order.
func (l *link) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if l.bridge != nil {
		_ = l.bridge.Drain(ctx)
		_ = l.bridge.Close()
	}
	if l.client != nil {
		_ = l.client.Close()
	}
	if s, ok := l.metrics.Get(); ok {
		_ = s.Shutdown(ctx)
	}
	l.stopHost()
}

func (l *link) stopHost() {
	if h, ok := l.host.Get(); ok {
		if err := h.Close(); err != nil && !errors.Is(err, host.ErrNotStarted) {
			log.Warnf("stop media host: %v", err)
		}
	}
}

// hostGone is closed when the command channel drops.
func (l *link) hostGone() <-chan struct{} {
	return l.client.Done()
}

// interrupted returns a context cancelled on SIGINT or SIGTERM.
func interrupted() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// watcher turns handle callbacks into printed status lines and a completion channel.
type watcher struct {
	link   *link
	done   chan error
	handle atomic.Pointer[media.Handle]
}

func newWatcher(l *link) *watcher {
	return &watcher{link: l, done: make(chan error, 1)}
}

func (w *watcher) finish(err error) {
	select {
	case w.done <- err:
	default:
	}
}

// watch binds the watcher to the handle created with its callbacks.
func (w *watcher) watch(h *media.Handle) {
	w.handle.Store(h)
	w.link.remember(h)
}

func (w *watcher) callbacks() media.Callbacks {
	return media.Callbacks{
		OnStatus: func(state media.State) {
			if h := w.handle.Load(); h != nil {
				w.link.touch(h, state)
			}
			fmt.Println(renderState(state))
		},
		OnSuccess: func() {
			w.finish(nil)
		},
		OnError: func(err error) {
			w.finish(err)
		},
	}
}

func renderState(state media.State) string {
	var (
		i = icon.Unknown
		c = color.Gray
	)
	switch state {
	case media.StateStarting:
		i, c = icon.Progress, color.Cyan
	case media.StateRunning:
		i, c = icon.Play, color.Green
	case media.StatePaused:
		i, c = icon.Pause, color.Yellow
	case media.StateStopped, media.StateNone:
		i, c = icon.Stop, color.Purple
	}
	return fmt.Sprintf("%s %s", icon.Get(i), style.Fg(c)(state.String()))
}

// formatSeconds renders a position or duration as reported by the host, in seconds.
func formatSeconds(v float64) string {
	if v == media.Unknown || v < 0 {
		return "?"
	}
	return time.Duration(v * float64(time.Second)).Round(time.Second).String()
}

var errHostGone = errors.New("media host connection lost")

// wait blocks until the handle finishes, the host goes away or ctx is cancelled.
// It reports whether ctx was the reason.
func (w *watcher) wait(ctx context.Context) (cancelled bool, err error) {
	select {
	case err := <-w.done:
		return false, err
	case <-w.link.hostGone():
		return false, errHostGone
	case <-ctx.Done():
		return true, nil
	}
}

// settle waits a short while for the final status after a stop request.
func (w *watcher) settle() error {
	select {
	case err := <-w.done:
		return err
	case <-w.link.hostGone():
		return errHostGone
	case <-time.After(shutdownTimeout):
		return nil
	}
}
