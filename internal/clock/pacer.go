// Package clock paces CPU execution against wall-clock time so emulation
// runs at (approximately) a configurable nominal frequency rather than as
// fast as the host can decode instructions.
package clock

import (
	"sync"
	"time"
)

// rebaseThreshold bounds how far behind schedule the pacer will ever try
// to catch up in one sleep. Past this, catching up would burn a visible
// burst of unpaced cycles, so the timeline is rebased to "now" instead.
const rebaseThreshold = 100 * time.Millisecond

// RebaseLogger receives a debug-level notice whenever the pacer rebases
// its timeline after falling too far behind schedule. Nil by default;
// wire it from the CLI layer if this is worth surfacing.
type RebaseLogger func(drift time.Duration)

// Pacer tracks a cycle counter and sleeps just enough to keep execution
// aligned with a nominal frequency. The counter is not a lifetime total:
// Init, SetFrequency and a rebase in WaitNextCycle all restart it at 0,
// so it counts cycles since the current timeline began. set_frequency and
// wait_next_cycle are both safe to call from any goroutine; all state is
// guarded by a single mutex, matching the rest of this emulator's
// one-mutex-per-component discipline.
type Pacer struct {
	mu         sync.Mutex
	freqHz     float64
	cycleDur   time.Duration
	t0         time.Time
	cycleCount uint64
	onRebase   RebaseLogger

	now func() time.Time // overridable for tests
}

// New creates a Pacer nominally running at freqHz. freqHz must be > 0.
func New(freqHz float64) *Pacer {
	p := &Pacer{now: time.Now}
	p.Init(freqHz)
	return p
}

// Init (re)starts the pacer's timeline: t0 = now, cycle_count = 0.
func (p *Pacer) Init(freqHz float64) {
	if freqHz <= 0 {
		freqHz = 1
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.freqHz = freqHz
	p.cycleDur = time.Duration(float64(time.Second) / freqHz)
	p.t0 = p.now()
	p.cycleCount = 0
}

// SetOnRebase installs (or clears, with nil) the rebase notification hook.
func (p *Pacer) SetOnRebase(fn RebaseLogger) {
	p.mu.Lock()
	p.onRebase = fn
	p.mu.Unlock()
}

// SetFrequency atomically updates the nominal frequency and rebases the
// timeline to now: t0 becomes now and the cycle counter restarts at 0,
// discarding any accumulated schedule drift.
func (p *Pacer) SetFrequency(freqHz float64) {
	if freqHz <= 0 {
		freqHz = 1
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.freqHz = freqHz
	p.cycleDur = time.Duration(float64(time.Second) / freqHz)
	p.t0 = p.now()
	p.cycleCount = 0
}

// Frequency returns the currently configured nominal frequency in Hz.
func (p *Pacer) Frequency() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.freqHz
}

// CycleCount returns the number of cycles accounted for since the last
// Init, SetFrequency or rebase.
func (p *Pacer) CycleCount() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cycleCount
}

// Advance charges n cycles of accounting without sleeping; the extra
// cycles are folded into the next WaitNextCycle target. Used for
// instructions that cost more than one cycle.
func (p *Pacer) Advance(n uint64) {
	p.mu.Lock()
	p.cycleCount += n
	p.mu.Unlock()
}

// WaitNextCycle charges exactly one cycle and, if the caller has not
// already fallen behind the nominal schedule, sleeps until the next cycle
// boundary. When it is more than rebaseThreshold behind, it instead
// rebases t0 to now and restarts the cycle counter at 0 without sleeping.
// WaitNextCycle calls from a single goroutine are serialized by
// the mutex and so produce monotonically non-decreasing sleep targets.
func (p *Pacer) WaitNextCycle() {
	p.mu.Lock()
	p.cycleCount++
	target := p.t0.Add(p.cycleDur * time.Duration(p.cycleCount))
	now := p.now()
	drift := now.Sub(target)

	if drift > rebaseThreshold {
		p.t0 = now
		p.cycleCount = 0
		onRebase := p.onRebase
		p.mu.Unlock()
		if onRebase != nil {
			onRebase(drift)
		}
		return
	}
	p.mu.Unlock()

	if sleep := target.Sub(now); sleep > 0 {
		time.Sleep(sleep)
	}
}
