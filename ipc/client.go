package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/mediabridge/mediabridge/log"
)

// ErrClosed is delivered to pending continuations when the connection goes away.
var ErrClosed = errors.New("ipc connection closed")

const (
	defaultRetries    = 3
	defaultRetryDelay = 100 * time.Millisecond
	maxFrameSize      = 1 << 20
)

// Options tunes connection establishment.
type Options struct {
	Retries    int
	RetryDelay time.Duration
}

type continuation struct {
	success func(any)
	fail    func(any)
}

// Client is a media command channel backed by one persistent socket connection.
type Client struct {
	socketPath string
	conn       net.Conn

	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]continuation
	closed  bool
	done    chan struct{}
}

// Dial connects to the host socket, retrying transient failures.
func Dial(socketPath string, opts Options) (*Client, error) {
	if opts.Retries <= 0 {
		opts.Retries = defaultRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}

	var (
		conn    net.Conn
		lastErr error
	)
	for attempt := 0; attempt < opts.Retries; attempt++ {
		if attempt > 0 {
			time.Sleep(opts.RetryDelay)
		}

		c, err := net.Dial("unix", socketPath)
		if err == nil {
			conn = c
			break
		}
		lastErr = err
	}
	if conn == nil {
		return nil, fmt.Errorf("ipc connect failed after %d attempts: %w", opts.Retries, lastErr)
	}

	c := &Client{
		socketPath: socketPath,
		conn:       conn,
		pending:    make(map[uint64]continuation),
		done:       make(chan struct{}),
	}
	go c.readLoop()

	log.Infof("ipc channel connected to %s", socketPath)
	return c, nil
}

// Exec sends one command. Continuations are invoked from the read loop goroutine.
func (c *Client) Exec(service, action string, args []any, success func(any), fail func(any)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		if fail != nil {
			fail(ErrClosed.Error())
		}
		return
	}
	c.nextID++
	id := c.nextID
	if success != nil || fail != nil {
		c.pending[id] = continuation{success: success, fail: fail}
	}
	c.mu.Unlock()

	payload, err := json.Marshal(Request{RequestID: id, Service: service, Action: action, Args: args})
	if err != nil {
		c.abandon(id, fmt.Errorf("marshal %s: %w", action, err))
		return
	}

	c.writeMu.Lock()
	_, err = c.conn.Write(append(payload, '\n'))
	c.writeMu.Unlock()
	if err != nil {
		c.abandon(id, fmt.Errorf("write %s: %w", action, err))
	}
}

// Done is closed once the read loop has stopped.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close shuts the connection and fails every pending continuation once.
func (c *Client) Close() error {
	err := c.conn.Close()
	<-c.done
	return err
}

func (c *Client) abandon(id uint64, err error) {
	c.mu.Lock()
	cont, ok := c.pending[id]
	delete(c.pending, id)
	c.mu.Unlock()

	log.Warnf("ipc: %v", err)
	if ok && cont.fail != nil {
		cont.fail(err.Error())
	}
}

// readLoop reads newline-delimited replies until the connection fails.
func (c *Client) readLoop() {
	defer close(c.done)

	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 0, 4096), maxFrameSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		c.processReply(line)
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Warnf("ipc read error: %v", err)
	}
	c.shutdown()
}

func (c *Client) processReply(line []byte) {
	var reply Reply
	if err := json.Unmarshal(line, &reply); err != nil {
		log.Warnf("ipc: skipping unparseable frame: %v", err)
		return
	}

	c.mu.Lock()
	cont, ok := c.pending[reply.RequestID]
	if ok && !reply.Keep {
		delete(c.pending, reply.RequestID)
	}
	c.mu.Unlock()

	if !ok {
		log.Debugf("ipc: reply for unknown request %d", reply.RequestID)
		return
	}

	if reply.failed() {
		code, err := decode(reply.Error)
		if err != nil {
			code = string(reply.Error)
		}
		if cont.fail != nil {
			cont.fail(code)
		}
		return
	}

	data, err := decode(reply.Data)
	if err != nil {
		if cont.fail != nil {
			cont.fail(fmt.Sprintf("decode reply: %v", err))
		}
		return
	}
	if cont.success != nil {
		cont.success(data)
	}
}

func (c *Client) shutdown() {
	c.mu.Lock()
	c.closed = true
	pending := c.pending
	c.pending = make(map[uint64]continuation)
	c.mu.Unlock()

	for _, cont := range pending {
		if cont.fail != nil {
			cont.fail(ErrClosed.Error())
		}
	}
}
