package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Message is a control message sent to a running simulation.
type Message interface {
	isMessage()
}

// Stop ends the run loop after the current tick.
type Stop struct{}

// Pointer asks the run loop to report the occupant of a cell.
type Pointer struct {
	Col, Row int
}

func (Stop) isMessage()    {}
func (Pointer) isMessage() {}

// RunOptions controls the pacing and stopping of Run.
type RunOptions struct {
	// TickInterval is the pause between ticks. Zero runs as fast as possible.
	TickInterval time.Duration
	// MaxTicks stops the loop once the tick counter reaches it. Zero is unlimited.
	MaxTicks int
	// Check validates the state after every tick and aborts on the first violation.
	Check bool
	// OnTick, if set, receives the tick number and a copy of the live population
	// after every tick.
	OnTick func(tick int32, views []EntityView)
}

// Run ticks the simulation until a Stop message arrives, the control channel
// is closed, ctx is cancelled, or MaxTicks is reached. Control messages are
// handled between ticks, never during one. Returns ctx.Err() on cancellation
// and nil on a requested stop.
func (g *Game) Run(ctx context.Context, control <-chan Message, opts RunOptions) error {
	var tickC <-chan time.Time
	if opts.TickInterval > 0 {
		ticker := time.NewTicker(opts.TickInterval)
		defer ticker.Stop()
		tickC = ticker.C
	}

	slog.Info("run started",
		"tick", g.tick,
		"tick_interval", opts.TickInterval,
		"max_ticks", opts.MaxTicks,
	)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if g.drain(control) {
			return nil
		}

		g.Tick()

		if opts.Check {
			if err := g.Validate(); err != nil {
				return fmt.Errorf("tick %d: %w", g.tick, err)
			}
		}
		if opts.OnTick != nil {
			opts.OnTick(g.tick, g.Snapshot())
		}
		if opts.MaxTicks > 0 && int(g.tick) >= opts.MaxTicks {
			slog.Info("max ticks reached", "tick", g.tick)
			return nil
		}

		if tickC == nil {
			continue
		}
		// Wait for the next tick, still answering control messages
	wait:
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case msg, ok := <-control:
				if g.handle(msg, ok) {
					return nil
				}
			case <-tickC:
				break wait
			}
		}
	}
}

// drain handles every pending control message without blocking.
// Returns true if the loop should stop.
func (g *Game) drain(control <-chan Message) bool {
	for {
		select {
		case msg, ok := <-control:
			if g.handle(msg, ok) {
				return true
			}
		default:
			return false
		}
	}
}

// handle applies one control message. A closed channel counts as Stop.
func (g *Game) handle(msg Message, ok bool) bool {
	if !ok {
		slog.Info("control channel closed", "tick", g.tick)
		return true
	}

	switch m := msg.(type) {
	case Stop:
		slog.Info("stop requested", "tick", g.tick)
		return true
	case Pointer:
		if v, found := g.Inspect(m.Col, m.Row); found {
			slog.Info("pointer", "col", m.Col, "row", m.Row, "occupant", v, "lifetime", g.Lifetime(v.ID))
		} else {
			slog.Info("pointer", "col", m.Col, "row", m.Row, "occupant", "empty")
		}
	default:
		slog.Warn("unknown control message", "type", fmt.Sprintf("%T", msg))
	}
	return false
}
