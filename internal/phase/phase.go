// internal/phase/phase.go
package phase

import (
	"fmt"

	"go-bastion-defense/internal/event"
)

// Phase — состояние верхнеуровневой машины игры.
type Phase int

const (
	Ready Phase = iota
	WavePrep
	WaveActive
	WaveComplete
	Paused
	GameOver
	Crashed
)

func (p Phase) String() string {
	switch p {
	case Ready:
		return "Ready"
	case WavePrep:
		return "WavePrep"
	case WaveActive:
		return "WaveActive"
	case WaveComplete:
		return "WaveComplete"
	case Paused:
		return "Paused"
	case GameOver:
		return "GameOver"
	case Crashed:
		return "Crashed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// legalTransitions is the explicit adjacency list. Crashed is absent from
// every target list: it is reachable only through ReportCrash.
var legalTransitions = map[Phase][]Phase{
	Ready:        {WavePrep},
	WavePrep:     {WaveActive, Paused, GameOver},
	WaveActive:   {WaveComplete, Paused, GameOver},
	WaveComplete: {WaveActive, Paused, GameOver},
	Paused:       {WavePrep, WaveActive, WaveComplete},
	GameOver:     {Ready},
	Crashed:      {Ready},
}

// Machine guards game-state transitions and derives the wave counters the
// host displays. Illegal transition attempts leave the state unchanged and
// return false; callers probe legality by attempting the move.
type Machine struct {
	dispatcher *event.Dispatcher

	current    Phase
	resumeTo   Phase // Куда вернуться из паузы
	activeWave int
}

func NewMachine(dispatcher *event.Dispatcher) *Machine {
	return &Machine{dispatcher: dispatcher, current: Ready}
}

// Current returns the present phase.
func (m *Machine) Current() Phase {
	return m.current
}

// ActiveWaveNumber is 0 before the first wave, otherwise the wave in
// progress or just completed.
func (m *Machine) ActiveWaveNumber() int {
	return m.activeWave
}

// UpcomingWaveNumber is the wave StartWave would launch. While no wave is
// startable it equals the active wave number.
func (m *Machine) UpcomingWaveNumber() int {
	if m.CanStartWave() {
		return m.activeWave + 1
	}
	return m.activeWave
}

// CanStartWave reports whether StartWave would be accepted right now.
func (m *Machine) CanStartWave() bool {
	return m.current == WavePrep || m.current == WaveComplete
}

// StartWaveLabel is the derived button text for the host UI.
func (m *Machine) StartWaveLabel() string {
	if m.CanStartWave() {
		return fmt.Sprintf("Start Wave %d", m.UpcomingWaveNumber())
	}
	return fmt.Sprintf("Wave %d", m.activeWave)
}

// TransitionTo attempts a transition. Returns false, with the state
// untouched, when the move is not in the adjacency list.
func (m *Machine) TransitionTo(next Phase) bool {
	allowed := false
	for _, candidate := range legalTransitions[m.current] {
		if candidate == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}
	m.apply(next)
	return true
}

// StartGame moves Ready to WavePrep.
func (m *Machine) StartGame() bool {
	return m.TransitionTo(WavePrep)
}

// StartWave launches the next wave from a startable phase and bumps the
// active wave counter.
func (m *Machine) StartWave() bool {
	if !m.CanStartWave() {
		return false
	}
	// Счётчик растёт до уведомления, чтобы событие несло номер новой волны.
	m.activeWave++
	m.apply(WaveActive)
	return true
}

// CompleteWave marks the active wave as finished.
func (m *Machine) CompleteWave() bool {
	return m.TransitionTo(WaveComplete)
}

// EndGame moves any live phase to GameOver.
func (m *Machine) EndGame() bool {
	return m.TransitionTo(GameOver)
}

// TogglePause pauses a live phase or resumes the phase remembered when the
// pause began.
func (m *Machine) TogglePause() bool {
	if m.current == Paused {
		return m.TransitionTo(m.resumeTo)
	}
	prior := m.current
	if !m.TransitionTo(Paused) {
		return false
	}
	m.resumeTo = prior
	return true
}

// ReportCrash forces the machine into Crashed from any state. Only Reset
// recovers it.
func (m *Machine) ReportCrash() {
	if m.current == Crashed {
		return
	}
	m.apply(Crashed)
}

// Reset returns the machine to Ready and clears the wave counter.
func (m *Machine) Reset() {
	m.activeWave = 0
	m.resumeTo = Ready
	if m.current != Ready {
		m.apply(Ready)
	}
}

// apply commits an already-validated transition and notifies listeners.
func (m *Machine) apply(next Phase) {
	from := m.current
	m.current = next
	if m.dispatcher == nil {
		return
	}
	m.dispatcher.Dispatch(event.Event{
		Type: event.PhaseChanged,
		Data: event.PhaseChangedPayload{
			From:               from.String(),
			To:                 next.String(),
			ActiveWaveNumber:   m.activeWave,
			UpcomingWaveNumber: m.UpcomingWaveNumber(),
		},
	})
}
