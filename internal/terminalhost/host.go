// Package terminalhost bridges the user's real terminal to a CPU Core's
// serial input/output queues: raw-mode stdin reading on its own goroutine,
// CR/DEL translation, and a drain loop that prints whatever the guest
// program has written to its serial-out port.
//
// Grounded on the teacher's terminal_host.go, adapted from the
// TerminalMMIO-routing model to plain ioqueue.Queue Enqueue/Dequeue.
package terminalhost

import (
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/arcos-dev/6502-term/internal/emuerr"
	"github.com/arcos-dev/6502-term/internal/ioqueue"
)

// pollInterval is how often the stdin reader retries after EAGAIN, and how
// often the output drain loop checks the output queue for new bytes.
const pollInterval = 5 * time.Millisecond

// Logger is the narrow structured-logging surface the Terminal Host needs
// for dropped-byte notices; *slog.Logger (via the CLI's own adapter)
// satisfies it, matching cpu.Logger's shape without importing that
// package directly.
type Logger interface {
	Debug(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}

// Host reads raw stdin into an input queue and drains an output queue to
// stdout. It owns the terminal's raw-mode state for its lifetime; Stop
// always restores it, even if Start failed partway through.
type Host struct {
	input  *ioqueue.Queue
	output *ioqueue.Queue
	out    io.Writer
	log    Logger

	fd           int
	nonblockSet  bool
	oldTermState *term.State

	stopCh  chan struct{}
	done    chan struct{}
	drained chan struct{}
	stopped sync.Once
}

// New creates a host adapter wired to the given input/output queues.
// Output is printed to os.Stdout; use NewWithWriter to redirect it
// (tests do this to avoid touching the real terminal).
func New(input, output *ioqueue.Queue) *Host {
	return NewWithWriter(input, output, os.Stdout)
}

// NewWithWriter is New with an explicit output writer.
func NewWithWriter(input, output *ioqueue.Queue, out io.Writer) *Host {
	return &Host{
		input:   input,
		output:  output,
		out:     out,
		log:     noopLogger{},
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
		drained: make(chan struct{}),
	}
}

// SetLogger installs a structured logger for dropped-byte notices. Passing
// nil restores the no-op logger.
func (h *Host) SetLogger(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	h.log = l
}

// Start puts stdin into raw, non-blocking mode and launches the reader and
// output-drain goroutines. Call Stop to restore the terminal and join both
// goroutines.
func (h *Host) Start() error {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		close(h.drained)
		return fmt.Errorf("terminalhost: set raw mode: %w", err)
	}
	h.oldTermState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		close(h.drained)
		return fmt.Errorf("terminalhost: set nonblocking stdin: %w", err)
	}
	h.nonblockSet = true

	go h.readLoop()
	go h.drainLoop()
	return nil
}

// readLoop is the teacher's stdin-polling goroutine, translating CR->LF
// and DEL->BS before enqueuing, unchanged from terminal_host.go.
func (h *Host) readLoop() {
	defer close(h.done)
	buf := make([]byte, 1)

	for {
		select {
		case <-h.stopCh:
			return
		default:
		}

		n, err := syscall.Read(h.fd, buf)
		if n > 0 {
			b := buf[0]
			if b == '\r' {
				b = '\n'
			}
			if b == 0x7F {
				b = 0x08
			}
			if !h.input.Enqueue(b) {
				h.log.Debug("dropped input byte", "err", emuerr.QueueFull{Dropped: b}.Error())
			}
		}
		switch {
		case err == syscall.EAGAIN || err == syscall.EWOULDBLOCK:
			time.Sleep(pollInterval)
		case err != nil:
			return
		case n == 0:
			time.Sleep(pollInterval)
		}
	}
}

// drainLoop prints whatever the guest writes to serial-out, in the order
// it was written, until Stop is called.
func (h *Host) drainLoop() {
	defer close(h.drained)
	for {
		select {
		case <-h.stopCh:
			h.flushRemaining()
			return
		default:
		}
		b, ok := h.output.Dequeue()
		if !ok {
			time.Sleep(pollInterval)
			continue
		}
		fmt.Fprintf(h.out, "%c", b)
	}
}

func (h *Host) flushRemaining() {
	for {
		b, ok := h.output.Dequeue()
		if !ok {
			return
		}
		fmt.Fprintf(h.out, "%c", b)
	}
}

// Stop signals both goroutines to exit, waits for them, and restores the
// terminal to its pre-Start state. Safe to call more than once.
func (h *Host) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	<-h.drained
	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
