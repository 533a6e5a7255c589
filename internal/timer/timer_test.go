package timer

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func TestNewStartsActiveUnpaused(t *testing.T) {
	e := New("Acme", "Design", "", nil, t0)

	if e.ID == "" {
		t.Error("ID should not be empty")
	}
	if len(e.ID) != 26 {
		t.Errorf("ID length = %d, want 26 (ULID)", len(e.ID))
	}
	if !e.IsActive || e.IsPaused {
		t.Errorf("new entry state = active:%v paused:%v, want active:true paused:false", e.IsActive, e.IsPaused)
	}
	if e.EndTime != nil {
		t.Error("EndTime should be nil for a new entry")
	}
	if e.PausedTime != 0 {
		t.Errorf("PausedTime = %d, want 0", e.PausedTime)
	}
	if got := Elapsed(e, t0); got != 0 {
		t.Errorf("Elapsed at start = %d, want 0", got)
	}
}

func TestPauseResumeAccumulatesPausedTime(t *testing.T) {
	e := New("Acme", "Design", "", nil, t0)

	e = Pause(e, t0.Add(5*time.Second))
	if !e.IsPaused {
		t.Fatal("entry should be paused")
	}
	if e.PauseStartTime == nil {
		t.Fatal("PauseStartTime should be set while paused")
	}

	e = Resume(e, t0.Add(8*time.Second))
	if e.IsPaused {
		t.Fatal("entry should not be paused after resume")
	}
	if e.PauseStartTime != nil {
		t.Error("PauseStartTime should be cleared on resume")
	}
	if e.PausedTime != 3000 {
		t.Errorf("PausedTime = %d, want 3000", e.PausedTime)
	}
	if e.Client != "Acme" || e.Task != "Design" || !e.StartTime.Equal(t0) {
		t.Error("pause/resume must not change client, task, or startTime")
	}
}

func TestPauseOnPausedEntryIsNoop(t *testing.T) {
	e := New("Acme", "Design", "", nil, t0)
	e = Pause(e, t0.Add(time.Second))
	first := *e.PauseStartTime

	e = Pause(e, t0.Add(2*time.Second))
	if !e.PauseStartTime.Equal(first) {
		t.Error("pausing an already-paused entry must not move PauseStartTime")
	}
}

func TestResumeWithoutPauseStartIsNoop(t *testing.T) {
	e := New("Acme", "Design", "", nil, t0)
	e.IsPaused = true
	e.PauseStartTime = nil

	got := Resume(e, t0.Add(time.Minute))
	if got.PausedTime != 0 {
		t.Errorf("PausedTime = %d, want 0", got.PausedTime)
	}
}

func TestStopCompletesEntry(t *testing.T) {
	e := New("Acme", "Design", "", nil, t0)
	e = Stop(e, t0.Add(10*time.Second))

	if e.IsActive || e.IsPaused {
		t.Errorf("stopped entry state = active:%v paused:%v, want both false", e.IsActive, e.IsPaused)
	}
	if e.EndTime == nil || !e.EndTime.Equal(t0.Add(10*time.Second)) {
		t.Errorf("EndTime = %v, want %v", e.EndTime, t0.Add(10*time.Second))
	}
}

// Stopping while paused folds the open pause interval into PausedTime, so a
// timer left paused overnight does not record the pause as work.
func TestStopFoldsOpenPauseInterval(t *testing.T) {
	e := New("Acme", "Design", "", nil, t0)
	e = Pause(e, t0.Add(5*time.Second))
	e = Stop(e, t0.Add(10*time.Second))

	if e.PausedTime != 5000 {
		t.Errorf("PausedTime = %d, want 5000", e.PausedTime)
	}
	if e.PauseStartTime != nil {
		t.Error("PauseStartTime should be cleared on stop")
	}
	if got := e.Duration(); got != 5000 {
		t.Errorf("Duration = %d, want 5000", got)
	}
}

// The pause/resume/stop scenario from the dashboard: start at T0, pause at
// T0+5s, resume at T0+8s, stop at T0+10s. Paused time is 3s and the final
// duration is 7s.
func TestPauseResumeStopScenario(t *testing.T) {
	e := New("Acme", "Design", "", nil, t0)
	e = Pause(e, t0.Add(5*time.Second))
	e = Resume(e, t0.Add(8*time.Second))
	e = Stop(e, t0.Add(10*time.Second))

	if e.PausedTime != 3000 {
		t.Errorf("PausedTime = %d, want 3000", e.PausedTime)
	}
	if got := e.Duration(); got != 7000 {
		t.Errorf("Duration = %d, want 7000", got)
	}
}

func TestElapsedFreezesWhilePaused(t *testing.T) {
	e := New("Acme", "Design", "", nil, t0)
	e = Pause(e, t0.Add(5*time.Second))

	// The clock keeps advancing but the displayed elapsed time does not.
	if got := Elapsed(e, t0.Add(30*time.Second)); got != 5000 {
		t.Errorf("Elapsed while paused = %d, want 5000", got)
	}

	e = Resume(e, t0.Add(20*time.Second))
	if got := Elapsed(e, t0.Add(30*time.Second)); got != 15000 {
		t.Errorf("Elapsed after resume = %d, want 15000", got)
	}
}

func TestElapsedClampsToZero(t *testing.T) {
	e := New("Acme", "Design", "", nil, t0)
	e.PausedTime = 60_000

	if got := Elapsed(e, t0.Add(time.Second)); got != 0 {
		t.Errorf("Elapsed = %d, want 0 (clamped)", got)
	}
}

func TestStopOnInactiveEntryIsNoop(t *testing.T) {
	e := New("Acme", "Design", "", nil, t0)
	e = Stop(e, t0.Add(time.Second))
	end := *e.EndTime

	e = Stop(e, t0.Add(time.Hour))
	if !e.EndTime.Equal(end) {
		t.Error("stopping a stopped entry must not move EndTime")
	}
}
