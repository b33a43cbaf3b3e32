package cpu

import "github.com/arcos-dev/6502-term/internal/emuerr"

// Step executes exactly one instruction (after first servicing any
// pending interrupt) and returns the number of cycles it cost. It is the
// single-step primitive everything else — Execute, the Klaus conformance
// harness, and a host's "step" control — is built on.
//
// Order of operations, per the specification:
//  1. NMI serviced before IRQ, and only if the CPU isn't paused.
//  2. fetch opcode, advance PC
//  3. decode via the opcode table; InvalidOpcode on an unmapped byte
//  4. resolve the addressing mode (may itself advance PC further)
//  5. execute the instruction
//  6. total cycles = base cost + page-cross/branch bonus, if any
//  7. pace the wall clock to the resulting cycle count
func (c *CPU) Step() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Interrupts.Paused() {
		return 0, nil
	}

	if c.Interrupts.NMIPending() {
		c.Interrupts.ClearNMI()
		c.handleInterrupt(NMIVector, true)
		c.paceCycles(serviceCycles)
		c.traceInterrupt("NMI")
		return serviceCycles, nil
	}
	if c.Interrupts.IRQPending() && !c.getFlag(InterruptFlag) {
		c.Interrupts.ClearIRQ()
		c.handleInterrupt(IRQVector, false)
		c.paceCycles(serviceCycles)
		c.traceInterrupt("IRQ")
		return serviceCycles, nil
	}

	pc := c.PC
	opcode := c.fetchByte()
	entry := c.opcodeTable[opcode]
	if entry.mnemonic == "" {
		return 0, emuerr.InvalidOpcode{PC: pc, Opcode: opcode}
	}

	c.extraCycles = 0
	ea := c.resolve(entry.mode)
	entry.fn(c, ea)

	cycles := entry.cycles + c.extraCycles
	if entry.pageCrossSensitive && ea.pageCrossed {
		cycles++
	}

	c.paceCycles(cycles)
	c.traceStep(pc, opcode, entry.mnemonic, cycles)

	return cycles, nil
}

// paceCycles charges all but the last of n cycles with a plain Advance
// (no sleeping), then lets WaitNextCycle charge the last one and sleep
// against the resulting total — one sleep per instruction rather than
// one per individual cycle, while still pacing against the true total.
func (c *CPU) paceCycles(n int) {
	if n <= 0 {
		return
	}
	if n > 1 {
		c.Clock.Advance(uint64(n - 1))
	}
	c.Clock.WaitNextCycle()
}

// handleInterrupt pushes PC and P (Break clear, Unused set) and vectors
// PC to the servicing routine's address. Shared by IRQ and NMI; the only
// difference between the two is the vector and that NMI ignores the I
// flag.
func (c *CPU) handleInterrupt(vector uint16, _ bool) {
	c.push16(c.PC)
	c.push(c.P&^BreakFlag | UnusedFlag)
	c.setFlag(InterruptFlag, true)
	c.PC = c.read16(vector)
}

func (c *CPU) traceStep(pc uint16, opcode byte, mnemonic string, cycles int) {
	if !c.debug.Load() {
		return
	}
	c.log.Debug("step", "pc", pc, "opcode", opcode, "mnemonic", mnemonic, "cycles", cycles)
}

func (c *CPU) traceInterrupt(kind string) {
	if !c.debug.Load() {
		return
	}
	c.log.Debug("interrupt serviced", "kind", kind, "pc", c.PC)
}

// Execute runs Step in a loop until paused or until an error (typically
// InvalidOpcode) stops it. It is meant to run on its own goroutine — the
// specification's dedicated emulation thread — with Pause/Resume as the
// host's means of suspending it from another goroutine.
func (c *CPU) Execute() error {
	c.runningFlag.Store(true)
	defer c.runningFlag.Store(false)

	for {
		if c.Interrupts.Paused() {
			return nil
		}
		if bp := c.Breakpoint; bp != nil && bp(c.peekPC()) {
			c.Interrupts.Pause()
			return nil
		}
		if _, err := c.Step(); err != nil {
			return err
		}
	}
}

func (c *CPU) peekPC() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.PC
}
