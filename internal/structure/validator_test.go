package structure

import (
	"testing"

	"go-bastion-defense/internal/types"
)

func newTestValidator(mode ValidationMode) *Validator {
	// Anchor at origin, bounds from the placement rules: [5, 35], spacing 1.5.
	return NewValidator(mode, types.Vec2{}, 5, 35, 1.5, 3.0)
}

func hasReason(result PlacementResult, code ReasonCode) bool {
	for _, reason := range result.Reasons {
		if reason.Code == code {
			return true
		}
	}
	return false
}

func TestValidatePlacementDistanceAndSpacing(t *testing.T) {
	v := newTestValidator(ModeSimple)

	// Валидное место: дистанция 10, соседей нет.
	pos := vec(10, 0)
	result := v.ValidatePlacement(PlacementCandidate{Position: &pos, Grounded: true})
	if !result.OK {
		t.Fatalf("placement at distance 10 should succeed, got %+v", result.Reasons)
	}
	if result.FirstReason() != nil {
		t.Error("valid placement must have a nil FirstReason")
	}
	v.AddPiece(1, PlacementCandidate{Position: &pos, Grounded: true})

	// Вторая часть в 1.0 от первой — BLOCKED.
	blockedPos := vec(11, 0)
	result = v.ValidatePlacement(PlacementCandidate{Position: &blockedPos, Grounded: true})
	if result.OK || !hasReason(result, ReasonBlocked) {
		t.Fatalf("placement 1.0 from an existing piece must fail BLOCKED, got %+v", result)
	}
	first := result.FirstReason()
	if first.PieceID != 1 {
		t.Errorf("BLOCKED reason should name the offending piece, got %d", first.PieceID)
	}

	tests := []struct {
		name string
		pos  types.Vec2
		code ReasonCode
	}{
		{"too close to anchor", vec(3, 0), ReasonTooClose},
		{"too far from anchor", vec(40, 0), ReasonTooFar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.pos
			result := v.ValidatePlacement(PlacementCandidate{Position: &p, Grounded: true})
			if result.OK || !hasReason(result, tt.code) {
				t.Errorf("expected %s, got %+v", tt.code, result)
			}
		})
	}
}

func TestValidatePlacementNoPosition(t *testing.T) {
	v := newTestValidator(ModeSimple)
	result := v.ValidatePlacement(PlacementCandidate{})
	if result.OK || !hasReason(result, ReasonNoPosition) {
		t.Errorf("missing position must fail NO_POSITION, got %+v", result)
	}
}

func TestValidatePlacementMultipleReasons(t *testing.T) {
	v := newTestValidator(ModeHeuristic)
	groundPos := vec(10, 0)
	v.AddPiece(1, PlacementCandidate{Position: &groundPos, Grounded: true})

	// Слишком близко к якорю, вплотную к части 1 не попадает, но не
	// заземлён и без опоры: две причины сразу.
	pos := vec(3, 0)
	result := v.ValidatePlacement(PlacementCandidate{Position: &pos, Y: 5})
	if result.OK {
		t.Fatal("expected failure")
	}
	if !hasReason(result, ReasonTooClose) || !hasReason(result, ReasonNoSupport) {
		t.Errorf("expected TOO_CLOSE and NO_SUPPORT together, got %+v", result.Reasons)
	}
}

func TestHeuristicSupportSearch(t *testing.T) {
	v := newTestValidator(ModeHeuristic)
	base := vec(10, 0)
	v.AddPiece(1, PlacementCandidate{Position: &base, Y: 0, Grounded: true})

	// Этаж выше в пределах бокового радиуса 3 — опора найдена.
	above := vec(12, 0)
	result := v.ValidatePlacement(PlacementCandidate{Position: &above, Y: 1})
	if !result.OK {
		t.Errorf("supported placement should succeed, got %+v", result.Reasons)
	}

	// Слишком далеко вбок — опоры нет.
	farSide := vec(14, 0)
	result = v.ValidatePlacement(PlacementCandidate{Position: &farSide, Y: 1})
	if result.OK || !hasReason(result, ReasonNoSupport) {
		t.Errorf("expected NO_SUPPORT beyond the lateral radius, got %+v", result)
	}

	// Заземлённый кандидат опоры не требует.
	result = v.ValidatePlacement(PlacementCandidate{Position: &farSide, Grounded: true})
	if !result.OK {
		t.Errorf("grounded candidate needs no support, got %+v", result.Reasons)
	}
}

func TestAddPieceLinksBothDirections(t *testing.T) {
	v := newTestValidator(ModeHeuristic)
	top := vec(10, 0)
	// Верхняя часть добавлена первой (восстановление из сохранения).
	v.AddPiece(2, PlacementCandidate{Position: &top, Y: 1})
	if v.GetStability(2) != 0 {
		t.Fatal("floating piece must be unstable")
	}

	base := vec(10, 0.5)
	v.AddPiece(1, PlacementCandidate{Position: &base, Y: 0, Grounded: true})
	if v.GetStability(2) != 1.0 {
		t.Error("adding a grounded piece below must stabilize the one above")
	}
}

func TestRemovePieceCascadeByMode(t *testing.T) {
	build := func(mode ValidationMode) *Validator {
		v := newTestValidator(mode)
		base := vec(10, 0)
		mid := vec(10, 1)
		top := vec(10, 2)
		v.AddPiece(1, PlacementCandidate{Position: &base, Y: 0, Grounded: true})
		v.AddPiece(2, PlacementCandidate{Position: &mid, Y: 1})
		v.AddPiece(3, PlacementCandidate{Position: &top, Y: 2})
		return v
	}

	v := build(ModeHeuristic)
	cascade := v.RemovePiece(1)
	if len(cascade) != 2 || cascade[0] != 2 || cascade[1] != 3 {
		t.Errorf("heuristic mode: expected cascade [2 3], got %v", cascade)
	}

	v = build(ModeSimple)
	if cascade := v.RemovePiece(1); cascade != nil {
		t.Errorf("simple mode must not compute cascades, got %v", cascade)
	}

	// Unknown id: nil cascade, no panic.
	if cascade := v.RemovePiece(99); cascade != nil {
		t.Errorf("unknown id: expected nil cascade, got %v", cascade)
	}
}

func TestGetStabilityByMode(t *testing.T) {
	v := newTestValidator(ModeSimple)
	pos := vec(10, 0)
	v.AddPiece(1, PlacementCandidate{Position: &pos, Y: 3}) // Висит в воздухе
	if v.GetStability(1) != 1.0 {
		t.Error("simple mode always reports stability 1.0")
	}

	h := newTestValidator(ModeHeuristic)
	h.AddPiece(1, PlacementCandidate{Position: &pos, Y: 3})
	if h.GetStability(1) != 0 {
		t.Error("heuristic mode: floating piece must have stability 0")
	}
	if h.GetStability(42) != 0 {
		t.Error("unknown piece must have stability 0")
	}
}
