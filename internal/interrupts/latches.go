// Package interrupts holds the two interrupt latches (IRQ, NMI) that host
// threads use to asynchronously signal the CPU Core, plus the pause
// condition used to suspend the emulation thread between instructions.
package interrupts

import "sync/atomic"

// Latches tracks pending IRQ/NMI state. NMI is edge-triggered in the real
// 6502 sense: two injections without an intervening service coalesce into
// a single pending latch, not a count.
type Latches struct {
	irqPending atomic.Bool
	nmiPending atomic.Bool
	paused     atomic.Bool
}

// New returns a Latches with both lines clear.
func New() *Latches {
	return &Latches{}
}

// InjectIRQ raises the IRQ latch. Non-blocking; safe from any goroutine.
func (l *Latches) InjectIRQ() {
	l.irqPending.Store(true)
}

// InjectNMI raises the NMI latch. Non-blocking; safe from any goroutine.
func (l *Latches) InjectNMI() {
	l.nmiPending.Store(true)
}

// IRQPending reports whether an IRQ is currently latched.
func (l *Latches) IRQPending() bool {
	return l.irqPending.Load()
}

// NMIPending reports whether an NMI is currently latched.
func (l *Latches) NMIPending() bool {
	return l.nmiPending.Load()
}

// ClearIRQ clears the IRQ latch; called once the CPU Core has serviced it.
func (l *Latches) ClearIRQ() {
	l.irqPending.Store(false)
}

// ClearNMI clears the NMI latch; called once the CPU Core has serviced it.
func (l *Latches) ClearNMI() {
	l.nmiPending.Store(false)
}

// Reset clears both latches, as required by CPU reset().
func (l *Latches) Reset() {
	l.irqPending.Store(false)
	l.nmiPending.Store(false)
}

// Pause requests that the emulation thread suspend at the next step-entry
// boundary. The CPU Core polls Paused(); there is deliberately no
// condition-variable wakeup on Resume so a paused step loop can still be
// cancelled by an exit flag without a missed-signal race.
func (l *Latches) Pause() {
	l.paused.Store(true)
}

// Resume clears a pending pause request.
func (l *Latches) Resume() {
	l.paused.Store(false)
}

// Paused reports whether the emulation thread should be suspended.
func (l *Latches) Paused() bool {
	return l.paused.Load()
}
