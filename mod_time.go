package shaderlab

import (
	"time"
)

type Time struct {
	Start time.Time
	Time  time.Time
	Dt    time.Duration
}

func NewTime(now time.Time) *Time {
	return &Time{Start: now, Time: now}
}

func (t *Time) Advance(now time.Time) {
	t.Dt = now.Sub(t.Time)
	t.Time = now
}

// Elapsed is the time since Start. time.Now carries a monotonic reading so
// this never runs backwards.
func (t *Time) Elapsed() time.Duration {
	return t.Time.Sub(t.Start)
}

func (t *Time) ElapsedSeconds() float32 {
	return float32(t.Elapsed().Seconds())
}

func (t *Time) DtSeconds() float32 {
	return float32(t.Dt.Seconds())
}

type TimeModule struct{}

func (mod TimeModule) Step() string { return "time" }

func (mod TimeModule) Install(app *App, cmd *Commands) error {
	cmd.AddResources(NewTime(time.Now()))
	cmd.UseSystem(
		System(timeSystem).
			InStage(Prelude).
			RunAlways(),
	)
	return nil
}

func timeSystem(t *Time) {
	t.Advance(time.Now())
}
