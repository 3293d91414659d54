// Package host launches the native media host and waits for its command socket.
package host

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mediabridge/mediabridge/constant"
	"github.com/mediabridge/mediabridge/log"
	"github.com/mediabridge/mediabridge/where"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	closeGrace        = 3 * time.Second
)

// ErrNotStarted is returned by operations that need a running host.
var ErrNotStarted = errors.New("media host not started")

// Host is one native media host process.
type Host struct {
	binary     string
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	mu         sync.Mutex
}

// New prepares a host for binary without starting it.
func New(binary string) *Host {
	return &Host{
		binary: binary,
		exited: make(chan struct{}),
	}
}

// Start spawns the host in its own process group and blocks until its socket accepts connections.
func (h *Host) Start(args ...string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cmd != nil {
		return fmt.Errorf("media host already started")
	}
	if strings.TrimSpace(h.binary) == "" {
		return fmt.Errorf("media host binary is not configured")
	}

	dir := where.Temp()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create socket dir: %w", err)
	}
	h.socketPath = filepath.Join(dir, fmt.Sprintf("%s-%s.sock", constant.Mediabridge, uuid.NewString()[:8]))

	argv := append([]string{fmt.Sprintf("--ipc-socket=%s", h.socketPath)}, args...)
	cmd := exec.Command(h.binary, argv...)
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", h.binary, err)
	}
	h.cmd = cmd

	h.exited = make(chan struct{})
	go func(exited chan struct{}) {
		_ = cmd.Wait()
		close(exited)
	}(h.exited)

	log.WithFields(log.Fields{"binary": h.binary, "pid": cmd.Process.Pid, "socket": h.socketPath}).Info("media host started")

	if err := h.waitForSocket(); err != nil {
		select {
		case <-h.exited:
		default:
			log.Warnf("killing media host: socket never became ready")
			_ = killProcess(cmd)
		}
		return fmt.Errorf("media host socket not ready: %w", err)
	}

	return nil
}

func (h *Host) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-h.exited:
			return fmt.Errorf("media host exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", h.socketPath)
		if err == nil {
			_ = conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", h.socketPath, socketWaitRetries)
}

// Socket returns the command socket path, empty before Start.
func (h *Host) Socket() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.socketPath
}

// Wait returns a channel closed when the host process exits.
func (h *Host) Wait() <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exited
}

// IsRunning reports whether the process is alive.
func (h *Host) IsRunning() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cmd == nil {
		return false
	}
	select {
	case <-h.exited:
		return false
	default:
		return true
	}
}

// Close asks the host to terminate, kills its process group after a grace period and removes the socket.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cmd == nil {
		return ErrNotStarted
	}

	select {
	case <-h.exited:
	default:
		_ = terminateProcess(h.cmd)
		select {
		case <-h.exited:
		case <-time.After(closeGrace):
			log.Warnf("media host ignored termination, killing process group")
			_ = killProcess(h.cmd)
			<-h.exited
		}
	}

	_ = os.Remove(h.socketPath)
	return nil
}
