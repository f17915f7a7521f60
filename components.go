package main

import (
	"context"
	"time"
)

type RunAttempt struct {
	Attempt  int
	ExitCode int
	// Output is the combined stdout/stderr; only filled in aggregate mode.
	Output  []byte
	Elapsed time.Duration
}

type Record struct {
	Sweep   string
	Target  string
	Point   string
	Command string
	Final   RunAttempt
	Outcome Outcome
}

// ProcessRunner executes one command line to completion.
type ProcessRunner interface {
	Run(ctx context.Context, commandLine string, capture bool) RunAttempt
}

// Resetter returns the persistent-memory state to a pristine condition and
// waits for the cooldown before returning.
type Resetter interface {
	Reset(ctx context.Context)
}

type ResultSink interface {
	Record(record Record) error
	Close() error
}

type SinkOpener interface {
	Open(target BenchmarkTarget) (ResultSink, error)
}

type Recorder interface {
	RecordRun(ctx context.Context, record Record) error
}
