package cpu

import (
	"testing"
	"time"

	"github.com/arcos-dev/6502-term/internal/clock"
	"github.com/arcos-dev/6502-term/internal/interrupts"
	"github.com/arcos-dev/6502-term/internal/ioqueue"
	"github.com/arcos-dev/6502-term/internal/membus"
)

// testRig wires a CPU to a bare 64 KiB Monitored RAM at an effectively
// unpaced clock, so tests never wait on wall-clock sleeps.
type testRig struct {
	bus    *membus.AddressBus
	ram    *membus.MonitoredRAM
	input  *ioqueue.Queue
	output *ioqueue.Queue
	cpu    *CPU
}

func newTestRig() *testRig {
	input := ioqueue.New(ioqueue.DefaultCapacity)
	output := ioqueue.New(ioqueue.DefaultCapacity)
	bus := membus.New()
	ram := membus.NewMonitoredRAM(output)
	if err := bus.Connect(ram, 0x0000, 0xFFFF); err != nil {
		panic(err)
	}
	bus.Seal()

	pacer := clock.New(1e9) // effectively unpaced for test purposes
	latches := interrupts.New()
	c := New(bus, input, output, pacer, latches)

	return &testRig{bus: bus, ram: ram, input: input, output: output, cpu: c}
}

func (r *testRig) load(base uint16, program []byte) {
	r.ram.LoadAt(base, program)
}

func (r *testRig) setResetVector(addr uint16) {
	r.ram.Write(ResetVector, byte(addr))
	r.ram.Write(ResetVector+1, byte(addr>>8))
}

// stepN runs the CPU for exactly n instructions (interrupts notwithstanding)
// via direct Step calls, failing the test if any Step errors.
func stepN(t *testing.T, r *testRig, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if _, err := r.cpu.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

// runExecuteUntil runs Execute on its own goroutine and polls Snapshot
// until cond is satisfied or timeout elapses, then pauses the CPU and
// waits for Execute to return.
func runExecuteUntil(t *testing.T, r *testRig, timeout time.Duration, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	r.cpu.Resume()

	done := make(chan error, 1)
	go func() { done <- r.cpu.Execute() }()

	deadline := time.Now().Add(timeout)
	for {
		snap := r.cpu.Snapshot()
		if cond(snap) {
			r.cpu.Pause()
			<-done
			return snap
		}
		if time.Now().After(deadline) {
			r.cpu.Pause()
			<-done
			t.Fatalf("timeout waiting for condition (pc=0x%04X, cycles=%d)", snap.PC, snap.Cycles)
		}
		time.Sleep(time.Millisecond)
	}
}
