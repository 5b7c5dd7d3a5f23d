package grinfo

import "sync/atomic"

// RestartFlag is the process-wide "a restart is in progress for at least
// one instance" bit (spec.md §3). It gates whether, on startup, the host
// daemon re-originates MaxAge copies of stale self-LSAs, and is reset by
// the restarting state machine's instance-exit task (C5).
type RestartFlag struct {
	v atomic.Bool
}

func (f *RestartFlag) Set()         { f.v.Store(true) }
func (f *RestartFlag) Clear()       { f.v.Store(false) }
func (f *RestartFlag) Active() bool { return f.v.Load() }
