package repositories

import (
	"context"
	"time"
)

// Base delays per operation, matching the dashboard's simulated API.
const (
	delayList    = 100 * time.Millisecond
	delayGet     = 50 * time.Millisecond
	delayCreate  = 200 * time.Millisecond
	delayUpdate  = 150 * time.Millisecond
	delayDelete  = 100 * time.Millisecond
	delayConvert = 300 * time.Millisecond
)

// Latency injects artificial delay in front of every repository call.
type Latency struct {
	Enabled bool
	Scale   float64
}

// NoLatency disables the delays (tests, CLI).
var NoLatency = Latency{}

func (l Latency) wait(ctx context.Context, base time.Duration) error {
	if !l.Enabled || l.Scale <= 0 {
		return ctx.Err()
	}
	d := time.Duration(float64(base) * l.Scale)
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
