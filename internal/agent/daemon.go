package agent

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// DaemonConfig tunes the two background workers a Daemon runs.
type DaemonConfig struct {
	CycleInterval   time.Duration
	TriggerInterval time.Duration
}

// DefaultDaemonConfig returns a reasonable polling cadence: one OODA cycle
// every 5 seconds, trigger conditions checked every second.
func DefaultDaemonConfig() DaemonConfig {
	return DaemonConfig{
		CycleInterval:   5 * time.Second,
		TriggerInterval: 1 * time.Second,
	}
}

// Daemon runs an Agent's OODA loop and trigger evaluation as two
// goroutines under one errgroup, so either worker's failure tears the
// other down via the shared context.
type Daemon struct {
	agent   *Agent
	store   *TriggerStore
	config  DaemonConfig
	nowFunc func() uint64
}

// NewDaemon returns a Daemon driving agent's cycles and evaluating the
// triggers held in store. nowFunc supplies the current Unix timestamp
// (seconds) trigger conditions are evaluated against.
func NewDaemon(agent *Agent, store *TriggerStore, config DaemonConfig, nowFunc func() uint64) *Daemon {
	return &Daemon{agent: agent, store: store, config: config, nowFunc: nowFunc}
}

// Run blocks until ctx is canceled or a worker returns an error, running
// the OODA-cycle loop and the trigger-evaluation loop concurrently.
func (d *Daemon) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return d.runCycleLoop(gctx)
	})

	g.Go(func() error {
		return d.runTriggerLoop(gctx)
	})

	return g.Wait()
}

func (d *Daemon) runCycleLoop(ctx context.Context) error {
	ticker := time.NewTicker(d.config.CycleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := d.agent.RunCycle(); err != nil {
				if _, ok := err.(*NoActiveGoalError); ok {
					continue
				}
				log.Error("cycle loop: %v", err)
			}
		}
	}
}

func (d *Daemon) runTriggerLoop(ctx context.Context) error {
	ticker := time.NewTicker(d.config.TriggerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			now := d.nowFunc()
			for _, trigger := range d.store.List() {
				if !ShouldFire(trigger, d.agent, now) {
					continue
				}
				if _, err := ExecuteTrigger(trigger, d.agent); err != nil {
					log.Error("trigger %q failed: %v", trigger.Name, err)
					continue
				}
				trigger.LastFired = now
				d.store.UpdateLastFired(trigger.ID, now)
				log.Info("trigger %q fired", trigger.Name)
			}
		}
	}
}
