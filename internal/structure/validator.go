// internal/structure/validator.go
package structure

import (
	"go-bastion-defense/internal/types"
)

// ValidationMode selects how strict placement checks are.
type ValidationMode int

const (
	// ModeSimple enforces only distance and spacing rules.
	ModeSimple ValidationMode = iota
	// ModeHeuristic additionally requires structural support and computes
	// destruction cascades on removal.
	ModeHeuristic
)

// ReasonCode tags one placement violation.
type ReasonCode string

const (
	ReasonNoPosition ReasonCode = "NO_POSITION"
	ReasonTooClose   ReasonCode = "TOO_CLOSE"
	ReasonTooFar     ReasonCode = "TOO_FAR"
	ReasonBlocked    ReasonCode = "BLOCKED"
	ReasonNoSupport  ReasonCode = "NO_SUPPORT"
)

// PlacementReason is one violation with context for the UI.
type PlacementReason struct {
	Code     ReasonCode
	Distance float64        // Фактическое расстояние, если применимо
	Limit    float64        // Нарушенная граница
	PieceID  types.EntityID // Мешающая часть для BLOCKED
}

// PlacementResult reports every violation at once; an empty reason list
// means the placement is legal.
type PlacementResult struct {
	OK      bool
	Reasons []PlacementReason
}

// FirstReason returns the first violation, or nil when the placement is
// valid. Compatibility view for callers that only show a single reason.
func (r PlacementResult) FirstReason() *PlacementReason {
	if len(r.Reasons) == 0 {
		return nil
	}
	return &r.Reasons[0]
}

// PlacementCandidate describes a piece being validated or added.
type PlacementCandidate struct {
	Position *types.Vec2 // nil — позиция не задана
	Y        float64
	Type     string
	Grounded bool
}

// Validator applies placement rules on top of a SupportGraph and owns the
// piece lifecycle for the bastion.
type Validator struct {
	Mode ValidationMode

	anchor      types.Vec2
	minDistance float64
	maxDistance float64
	minSpacing  float64

	// Heuristic-mode support search: lateral radius around the candidate
	// and how far below a supporter may sit.
	supportRadius  float64
	supportReach   float64
	graph          *SupportGraph
}

// NewValidator creates a validator around the defended anchor point.
func NewValidator(mode ValidationMode, anchor types.Vec2, minDistance, maxDistance, minSpacing, supportRadius float64) *Validator {
	return &Validator{
		Mode:          mode,
		anchor:        anchor,
		minDistance:   minDistance,
		maxDistance:   maxDistance,
		minSpacing:    minSpacing,
		supportRadius: supportRadius,
		supportReach:  2.0,
		graph:         NewSupportGraph(),
	}
}

// Graph exposes the underlying support graph.
func (v *Validator) Graph() *SupportGraph {
	return v.graph
}

// ValidatePlacement checks every rule and reports all violations together.
func (v *Validator) ValidatePlacement(candidate PlacementCandidate) PlacementResult {
	var reasons []PlacementReason

	if candidate.Position == nil {
		reasons = append(reasons, PlacementReason{Code: ReasonNoPosition})
		return PlacementResult{OK: false, Reasons: reasons}
	}
	pos := *candidate.Position

	anchorDist := pos.DistanceTo(v.anchor)
	if anchorDist < v.minDistance {
		reasons = append(reasons, PlacementReason{
			Code: ReasonTooClose, Distance: anchorDist, Limit: v.minDistance,
		})
	}
	if anchorDist > v.maxDistance {
		reasons = append(reasons, PlacementReason{
			Code: ReasonTooFar, Distance: anchorDist, Limit: v.maxDistance,
		})
	}

	// Spacing: no existing piece may sit within minSpacing.
	for _, id := range v.graph.Pieces() {
		piece := v.graph.Piece(id)
		if d := piece.Position.DistanceTo(pos); d < v.minSpacing {
			reasons = append(reasons, PlacementReason{
				Code: ReasonBlocked, Distance: d, Limit: v.minSpacing, PieceID: id,
			})
			break
		}
	}

	if v.Mode == ModeHeuristic && !candidate.Grounded {
		if len(v.findSupporters(candidate)) == 0 {
			reasons = append(reasons, PlacementReason{
				Code: ReasonNoSupport, Limit: v.supportRadius,
			})
		}
	}

	return PlacementResult{OK: len(reasons) == 0, Reasons: reasons}
}

// findSupporters returns existing pieces able to hold up the candidate:
// below it within supportReach vertically and supportRadius laterally.
func (v *Validator) findSupporters(candidate PlacementCandidate) []types.EntityID {
	if candidate.Position == nil {
		return nil
	}
	var supporters []types.EntityID
	for _, id := range v.graph.Pieces() {
		piece := v.graph.Piece(id)
		drop := candidate.Y - piece.Y
		if drop <= 0 || drop > v.supportReach {
			continue
		}
		if piece.Position.DistanceTo(*candidate.Position) <= v.supportRadius {
			supporters = append(supporters, id)
		}
	}
	return supporters
}

// AddPiece registers a validated candidate under the given id, wiring
// support edges both downward (its supporters) and upward (pieces it now
// helps hold up).
func (v *Validator) AddPiece(id types.EntityID, candidate PlacementCandidate) {
	if candidate.Position == nil {
		return
	}
	piece := Piece{
		ID:       id,
		Position: *candidate.Position,
		Y:        candidate.Y,
		Type:     candidate.Type,
		Grounded: candidate.Grounded,
	}
	supporters := v.findSupporters(candidate)
	v.graph.AddPiece(piece, supporters)

	// Существующие части прямо над новой теперь опираются и на неё.
	for _, otherID := range v.graph.Pieces() {
		if otherID == id {
			continue
		}
		other := v.graph.Piece(otherID)
		rise := other.Y - candidate.Y
		if rise <= 0 || rise > v.supportReach {
			continue
		}
		if other.Position.DistanceTo(*candidate.Position) <= v.supportRadius {
			v.graph.Link(id, otherID)
		}
	}
}

// RemovePiece unlinks the piece. In heuristic mode it first computes the
// cascade of pieces that lose the ground and returns it to the caller; in
// simple mode no cascade is computed. Unknown ids yield a nil cascade.
func (v *Validator) RemovePiece(id types.EntityID) []types.EntityID {
	if v.graph.Piece(id) == nil {
		return nil
	}
	var cascade []types.EntityID
	if v.Mode == ModeHeuristic {
		cascade = v.graph.FindDisconnectedAfterRemoval(id)
	}
	v.graph.RemovePiece(id)
	return cascade
}

// GetStability reports 1.0 in simple mode; heuristic mode delegates to the
// graph's memoized ground-reachability check.
func (v *Validator) GetStability(id types.EntityID) float64 {
	if v.graph.Piece(id) == nil {
		return 0
	}
	if v.Mode == ModeSimple {
		return 1.0
	}
	return v.graph.Stability(id)
}
