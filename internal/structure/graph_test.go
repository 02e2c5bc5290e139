package structure

import (
	"testing"

	"go-bastion-defense/internal/types"
)

func vec(x, z float64) types.Vec2 {
	return types.Vec2{X: x, Z: z}
}

// buildTower builds a three-level stack: 1 (grounded) <- 2 <- 3.
func buildTower() *SupportGraph {
	g := NewSupportGraph()
	g.AddPiece(Piece{ID: 1, Position: vec(0, 0), Y: 0, Grounded: true}, nil)
	g.AddPiece(Piece{ID: 2, Position: vec(0, 0), Y: 1}, []types.EntityID{1})
	g.AddPiece(Piece{ID: 3, Position: vec(0, 0), Y: 2}, []types.EntityID{2})
	return g
}

func TestHasPathToGround(t *testing.T) {
	g := buildTower()

	for _, id := range []types.EntityID{1, 2, 3} {
		if !g.HasPathToGround(id) {
			t.Errorf("piece %d should reach the ground", id)
		}
	}
	if g.HasPathToGround(99) {
		t.Error("unknown piece must not reach the ground")
	}

	// Removing the whole supporter chain strands the top piece.
	g.RemovePiece(2)
	if g.HasPathToGround(3) {
		t.Error("piece 3 lost its only supporter chain")
	}
	if !g.HasPathToGround(1) {
		t.Error("grounded piece must always reach the ground")
	}
}

func TestHasPathToGroundCycle(t *testing.T) {
	g := NewSupportGraph()
	// Два куска, держащие друг друга, без земли — не должно зациклиться.
	g.AddPiece(Piece{ID: 1, Position: vec(0, 0), Y: 1}, nil)
	g.AddPiece(Piece{ID: 2, Position: vec(1, 0), Y: 1}, []types.EntityID{1})
	g.Link(2, 1)

	if g.HasPathToGround(1) || g.HasPathToGround(2) {
		t.Error("cycle without ground must not reach the ground")
	}

	// Прицепляем землю к циклу — оба становятся устойчивыми.
	g.AddPiece(Piece{ID: 3, Position: vec(2, 0), Y: 0, Grounded: true}, nil)
	g.Link(3, 2)
	if !g.HasPathToGround(1) || !g.HasPathToGround(2) {
		t.Error("cycle attached to ground must reach the ground")
	}
}

func TestFindDisconnectedAfterRemoval(t *testing.T) {
	// 1 (grounded) supports 2 and 4; 2 supports 3; 4 also held by 5 (grounded).
	g := NewSupportGraph()
	g.AddPiece(Piece{ID: 1, Position: vec(0, 0), Y: 0, Grounded: true}, nil)
	g.AddPiece(Piece{ID: 5, Position: vec(3, 0), Y: 0, Grounded: true}, nil)
	g.AddPiece(Piece{ID: 2, Position: vec(0, 1), Y: 1}, []types.EntityID{1})
	g.AddPiece(Piece{ID: 3, Position: vec(0, 2), Y: 2}, []types.EntityID{2})
	g.AddPiece(Piece{ID: 4, Position: vec(2, 0), Y: 1}, []types.EntityID{1, 5})

	got := g.FindDisconnectedAfterRemoval(1)

	// 2 and 3 fall; 4 keeps the alternate path through 5; 1 never included.
	if len(got) != 2 {
		t.Fatalf("expected 2 disconnected pieces, got %v", got)
	}
	for _, id := range got {
		if id == 1 {
			t.Error("removed piece must never appear in its own cascade")
		}
		if id == 4 {
			t.Error("piece with an alternate ground path must not be in the cascade")
		}
	}
	// Discovery order: direct dependents before their dependents.
	if got[0] != 2 || got[1] != 3 {
		t.Errorf("expected discovery order [2 3], got %v", got)
	}

	// Анализ не мутирует граф.
	if !g.HasPathToGround(3) {
		t.Error("analysis must not modify the graph")
	}

	if cascade := g.FindDisconnectedAfterRemoval(99); cascade != nil {
		t.Errorf("unknown piece: expected nil cascade, got %v", cascade)
	}
}

func TestRemovePieceLeavesNoDanglingEdges(t *testing.T) {
	g := buildTower()
	g.RemovePiece(2)

	if supporters := g.Supporters(3); len(supporters) != 0 {
		t.Errorf("piece 3 still lists removed supporter: %v", supporters)
	}
	if supported := g.Supported(1); len(supported) != 0 {
		t.Errorf("piece 1 still lists removed dependent: %v", supported)
	}
	// Повторное удаление — безопасный no-op.
	g.RemovePiece(2)
	if g.Count() != 2 {
		t.Errorf("expected 2 pieces, got %d", g.Count())
	}
}

func TestStabilityMemoInvalidation(t *testing.T) {
	g := buildTower()
	if got := g.Stability(3); got != 1.0 {
		t.Fatalf("expected stability 1.0, got %v", got)
	}
	// Мутация графа должна сбросить кэш.
	g.RemovePiece(1)
	if got := g.Stability(3); got != 0.0 {
		t.Errorf("expected stability 0.0 after losing the ground, got %v", got)
	}
	if got := g.Stability(42); got != 0.0 {
		t.Errorf("unknown piece stability must be 0, got %v", got)
	}
}

func TestSerializeRestore(t *testing.T) {
	g := buildTower()
	g.AddPiece(Piece{ID: 4, Position: vec(2, 1), Y: 0, Type: "wall", Grounded: true}, nil)

	snapshot := g.Serialize()
	if len(snapshot.Pieces) != 4 {
		t.Fatalf("expected 4 piece records, got %d", len(snapshot.Pieces))
	}
	if len(snapshot.Grounded) != 2 {
		t.Errorf("expected 2 grounded ids, got %v", snapshot.Grounded)
	}

	restored := NewSupportGraph()
	restored.Restore(snapshot)

	if restored.Count() != 4 {
		t.Fatalf("expected 4 pieces after restore, got %d", restored.Count())
	}
	for _, id := range []types.EntityID{1, 2, 3} {
		if !restored.HasPathToGround(id) {
			t.Errorf("piece %d lost ground reachability across serialization", id)
		}
	}
	piece := restored.Piece(4)
	if piece == nil || piece.Type != "wall" || !piece.Grounded {
		t.Errorf("piece 4 attributes lost: %+v", piece)
	}
	if got := restored.Supporters(2); len(got) != 1 || got[0] != 1 {
		t.Errorf("edge 1->2 lost across serialization: %v", got)
	}

	// Restore replaces, not merges.
	restored.Restore(&BuildingSnapshot{})
	if restored.Count() != 0 {
		t.Errorf("restore from empty snapshot must clear the graph, got %d pieces", restored.Count())
	}
}
