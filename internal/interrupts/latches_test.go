package interrupts

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatchesCoalesceRepeatedInjection(t *testing.T) {
	l := New()
	l.InjectNMI()
	l.InjectNMI()
	assert.True(t, l.NMIPending())
	l.ClearNMI()
	assert.False(t, l.NMIPending())
}

func TestLatchesIndependentIRQAndNMI(t *testing.T) {
	l := New()
	l.InjectIRQ()
	l.InjectNMI()
	assert.True(t, l.IRQPending())
	assert.True(t, l.NMIPending())
	l.ClearNMI()
	assert.True(t, l.IRQPending())
	assert.False(t, l.NMIPending())
}

func TestLatchesResetClearsBoth(t *testing.T) {
	l := New()
	l.InjectIRQ()
	l.InjectNMI()
	l.Reset()
	assert.False(t, l.IRQPending())
	assert.False(t, l.NMIPending())
}

func TestLatchesPauseResume(t *testing.T) {
	l := New()
	assert.False(t, l.Paused())
	l.Pause()
	assert.True(t, l.Paused())
	l.Resume()
	assert.False(t, l.Paused())
}

func TestLatchesConcurrentInjectionIsRaceFree(t *testing.T) {
	l := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			l.InjectIRQ()
		}()
		go func() {
			defer wg.Done()
			l.InjectNMI()
		}()
	}
	wg.Wait()
	assert.True(t, l.IRQPending())
	assert.True(t, l.NMIPending())
}
