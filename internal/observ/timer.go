// Package observ carries lightweight stage timing for the compile driver.
package observ

import (
	"fmt"
	"time"
)

// Phase is one timed compilation stage.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
}

// Timer accumulates phase durations across a single compilation.
type Timer struct {
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin opens a phase and returns its index for End.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End closes the phase opened at idx. Out-of-range indices are ignored.
func (t *Timer) End(idx int) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
}

// PhaseReport is the serializable form of a finished phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
}

// Report aggregates every phase plus the total.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	rep := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, p := range t.phases {
		total += p.Dur
		rep.Phases[i] = PhaseReport{Name: p.Name, DurationMS: float64(p.Dur.Microseconds()) / 1000}
	}
	rep.TotalMS = float64(total.Microseconds()) / 1000
	return rep
}

// Summary renders the report as an aligned human-readable table.
func (r Report) Summary() string {
	out := "timings:\n"
	for _, p := range r.Phases {
		out += fmt.Sprintf("  %-12s %8.2f ms\n", p.Name, p.DurationMS)
	}
	out += fmt.Sprintf("  %-12s %8.2f ms\n", "total", r.TotalMS)
	return out
}
