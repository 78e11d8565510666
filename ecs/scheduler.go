package ecs

import "time"

type System interface {
	Update(w *World)
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(w *World)

func (f SystemFunc) Update(w *World) {
	f(w)
}

// Stage groups systems that run in the same phase of a tick.
type Stage int

const (
	PreUpdate Stage = iota
	Update
	PostUpdate
	stageCount
)

func (s Stage) String() string {
	switch s {
	case PreUpdate:
		return "pre_update"
	case Update:
		return "update"
	case PostUpdate:
		return "post_update"
	default:
		return "unknown"
	}
}

// Scheduler runs systems stage by stage in registration order and flushes the
// command buffer once after the last stage.
type Scheduler struct {
	stages [stageCount][]System
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) Add(stage Stage, system System) {
	if s == nil || system == nil || stage < 0 || stage >= stageCount {
		return
	}
	s.stages[stage] = append(s.stages[stage], system)
}

// Run advances the world clock by dt, runs every stage and applies the queued
// commands. It returns how many commands were applied.
func (s *Scheduler) Run(w *World, dt time.Duration) int {
	if s == nil || w == nil {
		return 0
	}
	w.Advance(dt)
	for _, systems := range s.stages {
		for _, system := range systems {
			system.Update(w)
		}
	}
	return w.commands.Flush()
}

func (s *Scheduler) Systems(stage Stage) []System {
	if s == nil || stage < 0 || stage >= stageCount {
		return nil
	}
	return append([]System(nil), s.stages[stage]...)
}
