// internal/spatial/grid.go
package spatial

import (
	"math"

	"go-bastion-defense/internal/types"
)

// cellKey identifies one grid cell: (floor(x/cellSize), floor(z/cellSize)).
type cellKey struct {
	CX, CZ int
}

// Grid is a uniform 2D hash grid over planar positions. Insert, Remove and
// Update are O(1) average; radius and nearest queries scan only the cells
// that can intersect the query disk.
type Grid struct {
	cellSize  float64
	cells     map[cellKey]map[types.EntityID]bool
	tracked   map[types.EntityID]cellKey
	positions map[types.EntityID]types.Vec2
}

// Stats describes cell occupancy, for diagnostics.
type Stats struct {
	CellSize      float64
	Cells         int
	Tracked       int
	MaxOccupancy  int
	MeanOccupancy float64
}

// NewGrid creates a grid with the given cell size. A cell size close to the
// typical query radius keeps candidate counts small.
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1.0
	}
	return &Grid{
		cellSize:  cellSize,
		cells:     make(map[cellKey]map[types.EntityID]bool),
		tracked:   make(map[types.EntityID]cellKey),
		positions: make(map[types.EntityID]types.Vec2),
	}
}

func (g *Grid) keyFor(pos types.Vec2) cellKey {
	return cellKey{
		CX: int(math.Floor(pos.X / g.cellSize)),
		CZ: int(math.Floor(pos.Z / g.cellSize)),
	}
}

// Insert registers the entity at pos. An already-tracked entity is moved,
// so an entity never belongs to two cells at once.
func (g *Grid) Insert(id types.EntityID, pos types.Vec2) {
	if _, exists := g.tracked[id]; exists {
		g.Remove(id)
	}
	key := g.keyFor(pos)
	cell, ok := g.cells[key]
	if !ok {
		cell = make(map[types.EntityID]bool)
		g.cells[key] = cell
	}
	cell[id] = true
	g.tracked[id] = key
	g.positions[id] = pos
}

// Remove deletes the entity from the grid. Returns false if untracked.
func (g *Grid) Remove(id types.EntityID) bool {
	key, exists := g.tracked[id]
	if !exists {
		return false
	}
	if cell, ok := g.cells[key]; ok {
		delete(cell, id)
		if len(cell) == 0 {
			delete(g.cells, key)
		}
	}
	delete(g.tracked, id)
	delete(g.positions, id)
	return true
}

// Update moves a tracked entity to newPos: remove then insert.
func (g *Grid) Update(id types.EntityID, newPos types.Vec2) {
	g.Remove(id)
	g.Insert(id, newPos)
}

// Contains reports whether the entity is tracked.
func (g *Grid) Contains(id types.EntityID) bool {
	_, ok := g.tracked[id]
	return ok
}

// Position returns the last inserted position of a tracked entity.
func (g *Grid) Position(id types.EntityID) (types.Vec2, bool) {
	pos, ok := g.positions[id]
	return pos, ok
}

// QueryRadius returns every tracked entity with planar distance <= r from
// pos. The cell scan covers ceil(r/cellSize) rings around the center cell,
// a superset of the true disk, and exact squared-distance filtering removes
// the false positives, so the result is exact.
func (g *Grid) QueryRadius(pos types.Vec2, r float64) []types.EntityID {
	if r < 0 {
		return nil
	}
	minCX := int(math.Floor((pos.X - r) / g.cellSize))
	maxCX := int(math.Floor((pos.X + r) / g.cellSize))
	minCZ := int(math.Floor((pos.Z - r) / g.cellSize))
	maxCZ := int(math.Floor((pos.Z + r) / g.cellSize))

	rSq := r * r
	var result []types.EntityID
	for cx := minCX; cx <= maxCX; cx++ {
		for cz := minCZ; cz <= maxCZ; cz++ {
			cell, ok := g.cells[cellKey{CX: cx, CZ: cz}]
			if !ok {
				continue
			}
			for id := range cell {
				if g.positions[id].DistanceSqTo(pos) <= rSq {
					result = append(result, id)
				}
			}
		}
	}
	return result
}

// FindNearest returns the tracked entity closest to pos within maxRadius.
// It expands outward over Chebyshev shells of cells. Every entity in an
// unscanned shell m lies at planar distance > (m-1)*cellSize, so once the
// best candidate's distance is <= ring*cellSize after finishing that ring,
// no later shell can contain a closer entity and the search stops.
func (g *Grid) FindNearest(pos types.Vec2, maxRadius float64) (types.EntityID, bool) {
	if maxRadius < 0 || len(g.tracked) == 0 {
		return 0, false
	}
	center := g.keyFor(pos)
	maxRing := int(math.Ceil(maxRadius/g.cellSize)) + 1

	var bestID types.EntityID
	bestDistSq := math.Inf(1)
	found := false

	for ring := 0; ring <= maxRing; ring++ {
		g.scanRing(center, ring, func(id types.EntityID) {
			distSq := g.positions[id].DistanceSqTo(pos)
			if distSq < bestDistSq {
				bestDistSq = distSq
				bestID = id
				found = true
			}
		})
		if found {
			bestDist := math.Sqrt(bestDistSq)
			if bestDist <= float64(ring)*g.cellSize {
				break
			}
		}
	}

	if !found || bestDistSq > maxRadius*maxRadius {
		return 0, false
	}
	return bestID, true
}

// scanRing visits every entity in cells at exactly Chebyshev distance ring
// from the center cell.
func (g *Grid) scanRing(center cellKey, ring int, visit func(types.EntityID)) {
	if ring == 0 {
		g.scanCell(cellKey{CX: center.CX, CZ: center.CZ}, visit)
		return
	}
	for cx := center.CX - ring; cx <= center.CX+ring; cx++ {
		g.scanCell(cellKey{CX: cx, CZ: center.CZ - ring}, visit)
		g.scanCell(cellKey{CX: cx, CZ: center.CZ + ring}, visit)
	}
	// Боковые стороны без углов, они уже заняты верхней и нижней строками.
	for cz := center.CZ - ring + 1; cz <= center.CZ+ring-1; cz++ {
		g.scanCell(cellKey{CX: center.CX - ring, CZ: cz}, visit)
		g.scanCell(cellKey{CX: center.CX + ring, CZ: cz}, visit)
	}
}

func (g *Grid) scanCell(key cellKey, visit func(types.EntityID)) {
	cell, ok := g.cells[key]
	if !ok {
		return
	}
	for id := range cell {
		visit(id)
	}
}

// Clear removes everything from the grid.
func (g *Grid) Clear() {
	g.cells = make(map[cellKey]map[types.EntityID]bool)
	g.tracked = make(map[types.EntityID]cellKey)
	g.positions = make(map[types.EntityID]types.Vec2)
}

// GetStats returns cell occupancy diagnostics.
func (g *Grid) GetStats() Stats {
	stats := Stats{
		CellSize: g.cellSize,
		Cells:    len(g.cells),
		Tracked:  len(g.tracked),
	}
	total := 0
	for _, cell := range g.cells {
		n := len(cell)
		total += n
		if n > stats.MaxOccupancy {
			stats.MaxOccupancy = n
		}
	}
	if stats.Cells > 0 {
		stats.MeanOccupancy = float64(total) / float64(stats.Cells)
	}
	return stats
}
