// Command 6502term loads a 6502 binary image, wires it to a flat 64KB
// address space with monitored RAM and host-facing serial MMIO, and runs
// it against a real terminal.
//
// Grounded on the teacher's main.go entry-point shape (flag parsing,
// machine construction, signal-driven shutdown) and cmd/chr2png/main.go
// (from the pack) for the urfave/cli.v2 flag-and-Action idiom.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"gopkg.in/urfave/cli.v2"

	"github.com/arcos-dev/6502-term/internal/clock"
	"github.com/arcos-dev/6502-term/internal/cpu"
	"github.com/arcos-dev/6502-term/internal/emuerr"
	"github.com/arcos-dev/6502-term/internal/interrupts"
	"github.com/arcos-dev/6502-term/internal/ioqueue"
	"github.com/arcos-dev/6502-term/internal/membus"
	"github.com/arcos-dev/6502-term/internal/terminalhost"
)

const (
	exitOK          = 0
	exitInitFailure = 1
	exitInvalidOp   = 2
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	var (
		loadPath  string
		base      uint64
		entry     int64
		freq      float64
		debug     bool
		breakAddr []string
	)

	app := &cli.App{
		Name:  "6502term",
		Usage: "run a 6502 program against a flat 64KB address space and a real terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "load",
				Usage:       "path to the binary image to load",
				Destination: &loadPath,
			},
			&cli.Uint64Flag{
				Name:        "base",
				Usage:       "address to load the image at",
				Value:       0x0000,
				Destination: &base,
			},
			&cli.Int64Flag{
				Name:        "entry",
				Usage:       "override PC after reset (-1 uses the reset vector)",
				Value:       -1,
				Destination: &entry,
			},
			&cli.Float64Flag{
				Name:        "freq",
				Usage:       "nominal clock frequency in Hz",
				Value:       1_000_000,
				Destination: &freq,
			},
			&cli.BoolFlag{
				Name:        "debug",
				Usage:       "enable per-step instruction tracing",
				Destination: &debug,
			},
			&cli.StringSliceFlag{
				Name:  "break",
				Usage: "breakpoint address in hex (repeatable), e.g. -break 0x4010",
			},
		},
		Action: func(c *cli.Context) error {
			breakAddr = c.StringSlice("break")
			return launch(launchConfig{
				loadPath:  loadPath,
				base:      uint16(base),
				entry:     entry,
				freq:      freq,
				debug:     debug,
				breakAddr: breakAddr,
			})
		},
	}

	if err := app.Run(args); err != nil {
		return classifyExit(err)
	}
	return exitOK
}

type launchConfig struct {
	loadPath  string
	base      uint16
	entry     int64
	freq      float64
	debug     bool
	breakAddr []string
}

// classifyExit recovers the intended process exit code from an error
// returned by app.Run: cli.Exit values carry their own code, a bare
// emuerr.InvalidOpcode maps to exitInvalidOp, and everything else is an
// unclassified init failure.
func classifyExit(err error) int {
	if coder, ok := err.(cli.ExitCoder); ok {
		return coder.ExitCode()
	}
	if _, ok := err.(emuerr.InvalidOpcode); ok {
		return exitInvalidOp
	}
	return exitInitFailure
}

func launch(cfg launchConfig) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if cfg.loadPath == "" {
		return cli.Exit("6502term: -load is required", exitInitFailure)
	}
	program, err := os.ReadFile(cfg.loadPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("6502term: reading %s: %v", cfg.loadPath, err), exitInitFailure)
	}

	input := ioqueue.New(ioqueue.DefaultCapacity)
	output := ioqueue.New(ioqueue.DefaultCapacity)

	bus := membus.New()
	ram := membus.NewMonitoredRAM(output)
	if err := bus.Connect(ram, 0x0000, 0xFFFF); err != nil {
		return cli.Exit(fmt.Sprintf("6502term: mapping RAM: %v", err), exitInitFailure)
	}
	bus.Seal()

	pacer := clock.New(cfg.freq)
	pacer.SetOnRebase(func(drift time.Duration) {
		logger.Debug("clock rebased", "drift", drift.String())
	})
	latches := interrupts.New()

	core := cpu.New(bus, input, output, pacer, latches)
	core.SetLogger(slogAdapter{logger})
	core.SetDebug(cfg.debug)

	if err := core.LoadProgram(program, cfg.base); err != nil {
		return cli.Exit(fmt.Sprintf("6502term: loading program: %v", err), exitInitFailure)
	}
	if err := core.Reset(); err != nil {
		return cli.Exit(fmt.Sprintf("6502term: reset: %v", err), exitInitFailure)
	}
	if pc := core.Snapshot().PC; pc != cfg.base {
		err := emuerr.ReadFailed{Reason: fmt.Sprintf("PC=0x%04X after reset, want base 0x%04X", pc, cfg.base)}
		return cli.Exit(fmt.Sprintf("6502term: reset: %v", err), exitInitFailure)
	}
	if cfg.entry >= 0 {
		core.SetPC(uint16(cfg.entry))
	}

	if bp, err := parseBreakpoints(cfg.breakAddr); err != nil {
		return cli.Exit(err.Error(), exitInitFailure)
	} else if len(bp) > 0 {
		core.Breakpoint = func(pc uint16) bool { return bp[pc] }
	}

	host := terminalhost.New(input, output)
	host.SetLogger(slogAdapter{logger})
	if err := host.Start(); err != nil {
		return cli.Exit(fmt.Sprintf("6502term: terminal host: %v", err), exitInitFailure)
	}
	defer host.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		core.Pause()
	}()

	if err := core.Execute(); err != nil {
		if invalidOp, ok := err.(emuerr.InvalidOpcode); ok {
			logger.Error("halted on invalid opcode", "pc", invalidOp.PC, "opcode", invalidOp.Opcode)
			return cli.Exit(invalidOp.Error(), exitInvalidOp)
		}
		return cli.Exit(err.Error(), exitInitFailure)
	}
	return nil
}

func parseBreakpoints(addrs []string) (map[uint16]bool, error) {
	if len(addrs) == 0 {
		return nil, nil
	}
	out := make(map[uint16]bool, len(addrs))
	for _, a := range addrs {
		trimmed := strings.TrimPrefix(strings.TrimPrefix(a, "0x"), "0X")
		v, err := strconv.ParseUint(trimmed, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("6502term: invalid breakpoint %q: %w", a, err)
		}
		out[uint16(v)] = true
	}
	return out, nil
}

// slogAdapter satisfies both cpu.Logger and terminalhost.Logger with a
// single *slog.Logger, so every component shares the one structured
// logger constructed in launch.
type slogAdapter struct{ l *slog.Logger }

func (s slogAdapter) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
