// Package cpu implements the MOS 6502 CPU execution engine: registers,
// flags, the 256-entry opcode dispatch table, addressing modes, interrupt
// sequencing, and cycle accounting.
//
// This is a from-scratch reimplementation grounded on the teacher's
// cpu_six5go2.go: register layout, flag constants, stack push/pop helpers,
// the read16/updateNZ idiom, and the Reset/Execute/Step shape all follow
// the teacher's conventions, generalized from a 32-bit multi-architecture
// core down to a single 16-bit 6502.
package cpu

import (
	"sync"
	"sync/atomic"

	"github.com/arcos-dev/6502-term/internal/clock"
	"github.com/arcos-dev/6502-term/internal/emuerr"
	"github.com/arcos-dev/6502-term/internal/interrupts"
	"github.com/arcos-dev/6502-term/internal/ioqueue"
	"github.com/arcos-dev/6502-term/internal/membus"
)

// Status flag bits, per the 6502's P register layout.
const (
	CarryFlag     byte = 0x01
	ZeroFlag      byte = 0x02
	InterruptFlag byte = 0x04
	DecimalFlag   byte = 0x08
	BreakFlag     byte = 0x10
	UnusedFlag    byte = 0x20
	OverflowFlag  byte = 0x40
	NegativeFlag  byte = 0x80
)

// Fixed memory locations.
const (
	StackBase    uint16 = 0x0100
	NMIVector    uint16 = 0xFFFA
	ResetVector  uint16 = 0xFFFC
	IRQVector    uint16 = 0xFFFE
	SerialInAddr uint16 = 0xD011 // read-intercepted, bypasses the bus
	SerialOut    uint16 = 0xD012 // write-intercepted, bypasses the bus
)

// resetCycles and serviceCycles are both 7 per the specification: the
// reset sequence and interrupt vectoring are each accounted as 7 cycles.
const (
	resetCycles   = 7
	serviceCycles = 7
)

// Logger is the narrow structured-logging surface the CPU Core needs for
// debug tracing. *slog.Logger satisfies it; tests can supply a no-op.
type Logger interface {
	Debug(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}

// Snapshot is an immutable point-in-time copy of the register file,
// safe to read without the CPU's internal lock.
type Snapshot struct {
	A, X, Y byte
	PC      uint16
	SP      byte
	P       byte
	Cycles  uint64
}

// CPU is the 6502 execution engine. The register file (A, X, Y, PC, SP, P)
// is exclusively owned by the emulation thread between steps; a host may
// read it via Snapshot while paused. reset() and step() are mutually
// exclusive via mu, matching the specification's "coarse CPU-wide mutex
// for reset, set_frequency, and step boundaries" recommendation.
type CPU struct {
	mu sync.Mutex

	A, X, Y byte
	PC      uint16
	SP      byte
	P       byte

	Bus          *membus.AddressBus
	InputQueue   *ioqueue.Queue
	OutputQueue  *ioqueue.Queue
	Clock        *clock.Pacer
	Interrupts   *interrupts.Latches
	Breakpoint   func(pc uint16) bool // optional UI-supplied predicate; nil disables
	opcodeTable  [256]opcodeEntry
	debug        atomic.Bool
	log          Logger
	runningFlag  atomic.Bool
	extraCycles  int
}

// New constructs a CPU wired to the given collaborators and builds the
// opcode dispatch table. All fields must be non-nil except Breakpoint and
// log, which may be supplied later.
func New(bus *membus.AddressBus, input, output *ioqueue.Queue, pacer *clock.Pacer, latches *interrupts.Latches) *CPU {
	c := &CPU{
		Bus:         bus,
		InputQueue:  input,
		OutputQueue: output,
		Clock:       pacer,
		Interrupts:  latches,
		log:         noopLogger{},
	}
	c.buildOpcodeTable()
	c.Init()
	return c
}

// SetLogger installs a structured logger for debug tracing and related
// diagnostics. Passing nil restores the no-op logger.
func (c *CPU) SetLogger(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	c.log = l
}

// SetDebug toggles per-step instruction tracing.
func (c *CPU) SetDebug(enabled bool) {
	c.debug.Store(enabled)
}

// Init clears the register file, sets SP/P to their power-on values,
// zeroes the cycle counter, clears interrupt latches and the pause flag
// (idempotent; safe to call more than once). The opcode table is built
// once by New, not here.
func (c *CPU) Init() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.A, c.X, c.Y = 0, 0, 0
	c.PC = 0
	c.SP = 0xFD
	c.P = UnusedFlag | InterruptFlag
	c.Clock.Init(c.Clock.Frequency())
	c.Interrupts.Reset()
	c.Interrupts.Resume()
}

// Reset re-reads the vector at 0xFFFC/0xFFFD into PC, reinitializes SP/P/
// A/X/Y, resets the cycle counter, and clears interrupt latches. It takes
// the CPU-wide lock, so it is mutually exclusive with a concurrent Step.
// Accounted as 7 cycles, per the power-on/reset sequence's three phantom
// stack reads plus vector fetch.
func (c *CPU) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.P = UnusedFlag | InterruptFlag
	c.Interrupts.Reset()
	c.PC = c.Bus.Read16(ResetVector)
	c.Clock.Init(c.Clock.Frequency())
	c.Clock.Advance(resetCycles)
	return nil
}

// LoadProgram copies program into the bus starting at baseAddr, then
// writes the reset vector to point at baseAddr. Fails with ReadFailed on
// an empty program and MemoryOverflow if the program does not fit in the
// remaining address space.
func (c *CPU) LoadProgram(program []byte, baseAddr uint16) error {
	if len(program) == 0 {
		return emuerr.ReadFailed{Reason: "empty program image"}
	}
	if int(baseAddr)+len(program) > 0x10000 {
		return emuerr.MemoryOverflow{Base: baseAddr, Size: len(program)}
	}
	for i, b := range program {
		c.Bus.Write(baseAddr+uint16(i), b)
	}
	c.Bus.Write(ResetVector, byte(baseAddr&0xFF))
	c.Bus.Write(ResetVector+1, byte(baseAddr>>8))
	return nil
}

// SetPC overrides the program counter directly, for hosts that want to
// start execution somewhere other than the reset vector (e.g. the Klaus
// conformance harness, which sets PC=0x0400 after loading).
func (c *CPU) SetPC(pc uint16) {
	c.mu.Lock()
	c.PC = pc
	c.mu.Unlock()
}

// Snapshot copies the register file and current cycle count under the
// lock and returns it as an immutable value.
func (c *CPU) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		A: c.A, X: c.X, Y: c.Y,
		PC: c.PC, SP: c.SP, P: c.P,
		Cycles: c.Clock.CycleCount(),
	}
}

// InjectIRQ raises the IRQ latch; non-blocking, safe from any goroutine.
func (c *CPU) InjectIRQ() { c.Interrupts.InjectIRQ() }

// InjectNMI raises the NMI latch; non-blocking, safe from any goroutine.
func (c *CPU) InjectNMI() { c.Interrupts.InjectNMI() }

// SetFrequency delegates to the Clock Pacer.
func (c *CPU) SetFrequency(hz float64) { c.Clock.SetFrequency(hz) }

// Pause requests that a running Execute loop suspend at the next step
// boundary.
func (c *CPU) Pause() { c.Interrupts.Pause() }

// Resume clears a pending pause request.
func (c *CPU) Resume() { c.Interrupts.Resume() }

// Running reports whether an Execute loop is currently active.
func (c *CPU) Running() bool { return c.runningFlag.Load() }

// ReadByte performs a CPU-visible read: 0xD011 bypasses the bus entirely
// and dequeues from the input queue (returning 0x00 when empty, so a
// guest cannot distinguish "no key" from a null byte — deliberate, per
// the Apple-1-like serial convention this specification follows).
// Every other address goes through the Address Bus.
func (c *CPU) ReadByte(addr uint16) byte {
	if addr == SerialInAddr {
		if b, ok := c.InputQueue.Dequeue(); ok {
			return b
		}
		return 0x00
	}
	return c.Bus.Read(addr)
}

// WriteByte performs a CPU-visible write: 0xD012 bypasses the bus and
// enqueues onto the output queue without touching any backing memory (so
// a later plain-RAM read at that address, if ever routed there, cannot
// observe a stale guest-written character). Every other address goes
// through the Address Bus, including the monitored-RAM hook addresses,
// whose side effects live in the Monitored RAM device itself.
func (c *CPU) WriteByte(addr uint16, value byte) {
	if addr == SerialOut {
		c.OutputQueue.Enqueue(value)
		return
	}
	c.Bus.Write(addr, value)
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := c.ReadByte(addr)
	hi := c.ReadByte(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

func (c *CPU) push(value byte) {
	c.WriteByte(StackBase|uint16(c.SP), value)
	c.SP--
}

func (c *CPU) push16(value uint16) {
	c.push(byte(value >> 8))
	c.push(byte(value))
}

func (c *CPU) pop() byte {
	c.SP++
	return c.ReadByte(StackBase | uint16(c.SP))
}

func (c *CPU) pop16() uint16 {
	lo := c.pop()
	hi := c.pop()
	return uint16(lo) | uint16(hi)<<8
}

func (c *CPU) setFlag(flag byte, value bool) {
	if value {
		c.P |= flag
	} else {
		c.P &^= flag
	}
}

func (c *CPU) getFlag(flag byte) bool {
	return c.P&flag != 0
}

// updateNZ sets Z = (value == 0) and N = bit 7 of value, the shared
// flag-update rule for every instruction with Z/N semantics.
func (c *CPU) updateNZ(value byte) {
	c.setFlag(ZeroFlag, value == 0)
	c.setFlag(NegativeFlag, value&0x80 != 0)
}

func samePage(a, b uint16) bool {
	return a&0xFF00 == b&0xFF00
}
