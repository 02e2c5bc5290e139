package phase

import (
	"testing"

	"go-bastion-defense/internal/event"
)

func collectPhaseEvents(dispatcher *event.Dispatcher) *[]event.PhaseChangedPayload {
	var got []event.PhaseChangedPayload
	dispatcher.Subscribe(event.PhaseChanged, event.ListenerFunc(func(e event.Event) {
		got = append(got, e.Data.(event.PhaseChangedPayload))
	}))
	return &got
}

func TestStartWaveOutsideStartablePhaseIsRejected(t *testing.T) {
	m := NewMachine(event.NewDispatcher())

	// Из Ready волну запустить нельзя: состояние и счётчик не меняются.
	if m.StartWave() {
		t.Fatal("StartWave accepted in Ready")
	}
	if m.Current() != Ready || m.ActiveWaveNumber() != 0 {
		t.Errorf("rejected StartWave mutated state: %v wave %d", m.Current(), m.ActiveWaveNumber())
	}
}

func TestStartGameThenStartWave(t *testing.T) {
	dispatcher := event.NewDispatcher()
	events := collectPhaseEvents(dispatcher)
	m := NewMachine(dispatcher)

	if !m.StartGame() {
		t.Fatal("StartGame rejected from Ready")
	}
	if m.Current() != WavePrep || !m.CanStartWave() {
		t.Fatalf("after StartGame: %v", m.Current())
	}
	if m.UpcomingWaveNumber() != 1 {
		t.Errorf("upcoming wave %d, want 1", m.UpcomingWaveNumber())
	}

	if !m.StartWave() {
		t.Fatal("StartWave rejected from WavePrep")
	}
	if m.Current() != WaveActive || m.ActiveWaveNumber() != 1 {
		t.Fatalf("after StartWave: %v wave %d", m.Current(), m.ActiveWaveNumber())
	}

	want := []event.PhaseChangedPayload{
		{From: "Ready", To: "WavePrep", ActiveWaveNumber: 0, UpcomingWaveNumber: 1},
		{From: "WavePrep", To: "WaveActive", ActiveWaveNumber: 1, UpcomingWaveNumber: 1},
	}
	if len(*events) != len(want) {
		t.Fatalf("got %d phase events, want %d", len(*events), len(want))
	}
	for i, payload := range want {
		if (*events)[i] != payload {
			t.Errorf("event %d: got %+v, want %+v", i, (*events)[i], payload)
		}
	}
}

func TestWaveCounterAcrossWaves(t *testing.T) {
	m := NewMachine(event.NewDispatcher())
	m.StartGame()

	for wave := 1; wave <= 3; wave++ {
		if !m.StartWave() {
			t.Fatalf("wave %d rejected", wave)
		}
		if m.ActiveWaveNumber() != wave {
			t.Errorf("active wave %d, want %d", m.ActiveWaveNumber(), wave)
		}
		if !m.CompleteWave() {
			t.Fatalf("CompleteWave rejected on wave %d", wave)
		}
		if m.UpcomingWaveNumber() != wave+1 {
			t.Errorf("upcoming wave %d, want %d", m.UpcomingWaveNumber(), wave+1)
		}
	}
}

func TestIllegalTransitionIsSilent(t *testing.T) {
	m := NewMachine(event.NewDispatcher())

	if m.TransitionTo(WaveComplete) {
		t.Error("Ready -> WaveComplete must be rejected")
	}
	if m.TransitionTo(Crashed) {
		t.Error("Crashed is unreachable through TransitionTo")
	}
	if m.Current() != Ready {
		t.Errorf("rejected transitions mutated state: %v", m.Current())
	}
}

func TestPauseRemembersPriorPhase(t *testing.T) {
	m := NewMachine(event.NewDispatcher())
	m.StartGame()
	m.StartWave()

	if !m.TogglePause() {
		t.Fatal("pause rejected in WaveActive")
	}
	if m.Current() != Paused {
		t.Fatalf("phase %v after pause", m.Current())
	}
	if m.CanStartWave() {
		t.Error("waves must not be startable while paused")
	}

	if !m.TogglePause() {
		t.Fatal("resume rejected")
	}
	if m.Current() != WaveActive {
		t.Errorf("resume returned to %v, want WaveActive", m.Current())
	}
}

func TestPauseRejectedInTerminalPhases(t *testing.T) {
	m := NewMachine(event.NewDispatcher())
	if m.TogglePause() {
		t.Error("pause accepted in Ready")
	}

	m.StartGame()
	m.StartWave()
	m.EndGame()
	if m.TogglePause() {
		t.Error("pause accepted in GameOver")
	}
}

func TestCrashAndReset(t *testing.T) {
	dispatcher := event.NewDispatcher()
	events := collectPhaseEvents(dispatcher)
	m := NewMachine(dispatcher)
	m.StartGame()
	m.StartWave()

	m.ReportCrash()
	if m.Current() != Crashed {
		t.Fatalf("phase %v after crash", m.Current())
	}
	// Из Crashed никакие обычные переходы не работают.
	if m.StartGame() || m.StartWave() || m.TogglePause() {
		t.Error("crashed machine accepted a transition")
	}

	before := len(*events)
	m.ReportCrash() // Повторный краш не порождает событие
	if len(*events) != before {
		t.Error("duplicate crash emitted an event")
	}

	m.Reset()
	if m.Current() != Ready || m.ActiveWaveNumber() != 0 {
		t.Errorf("reset left %v wave %d", m.Current(), m.ActiveWaveNumber())
	}
	if !m.StartGame() {
		t.Error("machine unusable after reset")
	}
}

func TestStartWaveLabel(t *testing.T) {
	m := NewMachine(event.NewDispatcher())
	m.StartGame()
	if got := m.StartWaveLabel(); got != "Start Wave 1" {
		t.Errorf("label %q", got)
	}
	m.StartWave()
	if got := m.StartWaveLabel(); got != "Wave 1" {
		t.Errorf("label %q", got)
	}
	m.CompleteWave()
	if got := m.StartWaveLabel(); got != "Start Wave 2" {
		t.Errorf("label %q", got)
	}
}
