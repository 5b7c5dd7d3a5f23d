package domain

import "testing"

func TestRestartStatusString(t *testing.T) {
	cases := []struct {
		s    RestartStatus
		want string
	}{
		{NotRestart, "not-restart"},
		{PlannedRestart, "planned-restart"},
		{UnplannedRestart, "unplanned-restart"},
		{RestartStatus(99), "unknown"},
	}
	for _, c := range cases {
		if got := c.s.String(); got != c.want {
			t.Errorf("RestartStatus(%d).String() = %q, want %q", c.s, got, c.want)
		}
	}
}

func TestExitReasonString(t *testing.T) {
	cases := []struct {
		r    ExitReason
		want string
	}{
		{ExitNone, "none"},
		{ExitInProgress, "in-progress"},
		{ExitCompleted, "completed"},
		{ExitTimeout, "timeout"},
		{ExitTopologyChange, "topology-change"},
		{ExitReason(99), "unknown"},
	}
	for _, c := range cases {
		if got := c.r.String(); got != c.want {
			t.Errorf("ExitReason(%d).String() = %q, want %q", c.r, got, c.want)
		}
	}
}

func TestHelperStatusString(t *testing.T) {
	if got := NotHelping.String(); got != "not-helping" {
		t.Errorf("NotHelping.String() = %q, want not-helping", got)
	}
	if got := Helping.String(); got != "helping" {
		t.Errorf("Helping.String() = %q, want helping", got)
	}
}

func TestResumeStateString(t *testing.T) {
	cases := []struct {
		s    ResumeState
		want string
	}{
		{ResumeIdle, "idle"},
		{ResumeInProgress, "in-progress"},
		{ResumeOK, "ok"},
		{ResumeNOK, "nok"},
		{ResumeState(99), "unknown"},
	}
	for _, c := range cases {
		if got := c.s.String(); got != c.want {
			t.Errorf("ResumeState(%d).String() = %q, want %q", c.s, got, c.want)
		}
	}
}

func TestRestartReasonValidAndString(t *testing.T) {
	valid := []RestartReason{ReasonUnknown, ReasonSoftwareRestart, ReasonSoftwareReload, ReasonSwitchover}
	for _, r := range valid {
		if !r.Valid() {
			t.Errorf("RestartReason(%d).Valid() = false, want true", r)
		}
	}
	if RestartReason(4).Valid() {
		t.Errorf("RestartReason(4).Valid() = true, want false")
	}
	if got := RestartReason(4).String(); got != "invalid" {
		t.Errorf("RestartReason(4).String() = %q, want invalid", got)
	}
	if got := ReasonSwitchover.String(); got != "switchover" {
		t.Errorf("ReasonSwitchover.String() = %q, want switchover", got)
	}
}

func TestAdjCheckResultString(t *testing.T) {
	cases := []struct {
		r    AdjCheckResult
		want string
	}{
		{AdjOK, "adj-ok"},
		{AdjNOK, "adj-nok"},
		{AdjInProgress, "adj-in-progress"},
		{AdjCheckResult(99), "unknown"},
	}
	for _, c := range cases {
		if got := c.r.String(); got != c.want {
			t.Errorf("AdjCheckResult(%d).String() = %q, want %q", c.r, got, c.want)
		}
	}
}

func TestISMStateOperational(t *testing.T) {
	operational := []ISMState{ISMPointToPoint, ISMDROther, ISMWaiting}
	for _, s := range operational {
		if !s.Operational() {
			t.Errorf("ISMState(%d).Operational() = false, want true", s)
		}
	}
	notOperational := []ISMState{ISMDown, ISMLoopback, ISMBackup, ISMDR}
	for _, s := range notOperational {
		if s.Operational() {
			t.Errorf("ISMState(%d).Operational() = true, want false", s)
		}
	}
}

func TestOutcomeConstructors(t *testing.T) {
	ok := Accepted()
	if !ok.Accepted || ok.Reason != "" {
		t.Errorf("Accepted() = %+v, want {true \"\"}", ok)
	}
	rej := Rejected("not yet")
	if rej.Accepted || rej.Reason != "not yet" {
		t.Errorf("Rejected(\"not yet\") = %+v, want {false \"not yet\"}", rej)
	}
}
