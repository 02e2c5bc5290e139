// internal/structure/snapshot.go
package structure

import (
	"go-bastion-defense/internal/types"
)

// PieceRecord is the flattened form of one piece.
type PieceRecord struct {
	ID       uint64  `yaml:"id"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Z        float64 `yaml:"z"`
	Type     string  `yaml:"type"`
	Grounded bool    `yaml:"grounded"`
}

// BuildingSnapshot is the serializable layout of the support graph:
// pieces, support edges (id -> supported ids) and the grounded set.
type BuildingSnapshot struct {
	Pieces   []PieceRecord       `yaml:"pieces"`
	Supports map[uint64][]uint64 `yaml:"supports"`
	Grounded []uint64            `yaml:"grounded"`
}

// Serialize flattens the graph to a plain structure.
func (g *SupportGraph) Serialize() *BuildingSnapshot {
	snapshot := &BuildingSnapshot{
		Supports: make(map[uint64][]uint64),
	}
	for _, id := range g.Pieces() {
		piece := g.pieces[id]
		snapshot.Pieces = append(snapshot.Pieces, PieceRecord{
			ID:       uint64(id),
			X:        piece.Position.X,
			Y:        piece.Y,
			Z:        piece.Position.Z,
			Type:     piece.Type,
			Grounded: piece.Grounded,
		})
		if supported := g.Supported(id); len(supported) > 0 {
			edges := make([]uint64, len(supported))
			for i, s := range supported {
				edges[i] = uint64(s)
			}
			snapshot.Supports[uint64(id)] = edges
		}
		if g.grounded[id] {
			snapshot.Grounded = append(snapshot.Grounded, uint64(id))
		}
	}
	return snapshot
}

// Restore rebuilds the graph from a snapshot, replacing all current state.
func (g *SupportGraph) Restore(snapshot *BuildingSnapshot) {
	g.pieces = make(map[types.EntityID]*Piece)
	g.supports = make(map[types.EntityID]map[types.EntityID]bool)
	g.supportedBy = make(map[types.EntityID]map[types.EntityID]bool)
	g.grounded = make(map[types.EntityID]bool)
	g.invalidateStability()
	if snapshot == nil {
		return
	}

	for _, record := range snapshot.Pieces {
		g.AddPiece(Piece{
			ID:       types.EntityID(record.ID),
			Position: types.Vec2{X: record.X, Z: record.Z},
			Y:        record.Y,
			Type:     record.Type,
			Grounded: record.Grounded,
		}, nil)
	}
	for supporter, supported := range snapshot.Supports {
		for _, s := range supported {
			g.Link(types.EntityID(supporter), types.EntityID(s))
		}
	}
	// Grounded list wins over per-piece flags for backward compatibility.
	for _, id := range snapshot.Grounded {
		if g.pieces[types.EntityID(id)] != nil {
			g.grounded[types.EntityID(id)] = true
		}
	}
}
