// internal/structure/graph.go
package structure

import (
	"sort"

	"go-bastion-defense/internal/types"
)

// Piece is one placed structural element tracked by the support graph.
// Y participates only in support analysis; gameplay queries stay planar.
type Piece struct {
	ID       types.EntityID
	Position types.Vec2
	Y        float64
	Type     string
	Grounded bool
}

// SupportGraph stores the support relation between placed pieces as two
// id-keyed adjacency maps plus the grounded set. The maps are exact
// inverses: a ∈ supports[b] ⇔ b ∈ supportedBy[a].
type SupportGraph struct {
	pieces      map[types.EntityID]*Piece
	supports    map[types.EntityID]map[types.EntityID]bool // id -> части, которые id держит
	supportedBy map[types.EntityID]map[types.EntityID]bool // id -> части, которые держат id
	grounded    map[types.EntityID]bool

	// Memoized stability per piece, invalidated on every mutation.
	stability map[types.EntityID]float64
}

func NewSupportGraph() *SupportGraph {
	return &SupportGraph{
		pieces:      make(map[types.EntityID]*Piece),
		supports:    make(map[types.EntityID]map[types.EntityID]bool),
		supportedBy: make(map[types.EntityID]map[types.EntityID]bool),
		grounded:    make(map[types.EntityID]bool),
		stability:   make(map[types.EntityID]float64),
	}
}

// Piece returns the stored piece, or nil when unknown.
func (g *SupportGraph) Piece(id types.EntityID) *Piece {
	return g.pieces[id]
}

// Pieces returns all piece ids in ascending order. The ordering keeps every
// traversal of the graph deterministic.
func (g *SupportGraph) Pieces() []types.EntityID {
	ids := make([]types.EntityID, 0, len(g.pieces))
	for id := range g.pieces {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Count returns the number of tracked pieces.
func (g *SupportGraph) Count() int {
	return len(g.pieces)
}

// IsGrounded reports whether the piece is directly anchored to the ground.
func (g *SupportGraph) IsGrounded(id types.EntityID) bool {
	return g.grounded[id]
}

// AddPiece registers the piece and links it under each supporter.
// Unknown supporter ids are ignored.
func (g *SupportGraph) AddPiece(piece Piece, supporters []types.EntityID) {
	stored := piece
	g.pieces[piece.ID] = &stored
	if g.supports[piece.ID] == nil {
		g.supports[piece.ID] = make(map[types.EntityID]bool)
	}
	if g.supportedBy[piece.ID] == nil {
		g.supportedBy[piece.ID] = make(map[types.EntityID]bool)
	}
	if piece.Grounded {
		g.grounded[piece.ID] = true
	}
	for _, supporter := range supporters {
		g.Link(supporter, piece.ID)
	}
	g.invalidateStability()
}

// Link records that supporter holds up supported. Both pieces must exist.
func (g *SupportGraph) Link(supporter, supported types.EntityID) {
	if g.pieces[supporter] == nil || g.pieces[supported] == nil || supporter == supported {
		return
	}
	g.supports[supporter][supported] = true
	g.supportedBy[supported][supporter] = true
	g.invalidateStability()
}

// RemovePiece deletes the piece and every edge touching it, leaving no
// dangling ids. Unknown ids are a no-op.
func (g *SupportGraph) RemovePiece(id types.EntityID) {
	if g.pieces[id] == nil {
		return
	}
	for supported := range g.supports[id] {
		delete(g.supportedBy[supported], id)
	}
	for supporter := range g.supportedBy[id] {
		delete(g.supports[supporter], id)
	}
	delete(g.supports, id)
	delete(g.supportedBy, id)
	delete(g.grounded, id)
	delete(g.pieces, id)
	g.invalidateStability()
}

// Supporters returns the ids holding up the piece, ascending.
func (g *SupportGraph) Supporters(id types.EntityID) []types.EntityID {
	return sortedKeys(g.supportedBy[id])
}

// Supported returns the ids the piece holds up, ascending.
func (g *SupportGraph) Supported(id types.EntityID) []types.EntityID {
	return sortedKeys(g.supports[id])
}

// HasPathToGround walks the supportedBy relation with BFS until a grounded
// piece is reached. The visited set guards against support cycles.
func (g *SupportGraph) HasPathToGround(id types.EntityID) bool {
	return g.hasPathToGroundExcluding(id, 0)
}

// hasPathToGroundExcluding is HasPathToGround with one piece treated as
// already removed. excluded == 0 excludes nothing.
func (g *SupportGraph) hasPathToGroundExcluding(id, excluded types.EntityID) bool {
	if g.pieces[id] == nil || id == excluded {
		return false
	}
	if g.grounded[id] {
		return true
	}
	visited := map[types.EntityID]bool{id: true}
	queue := []types.EntityID{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, supporter := range sortedKeys(g.supportedBy[current]) {
			if supporter == excluded || visited[supporter] {
				continue
			}
			if g.grounded[supporter] {
				return true
			}
			visited[supporter] = true
			queue = append(queue, supporter)
		}
	}
	return false
}

// FindDisconnectedAfterRemoval returns the pieces that lose their last path
// to ground once removed is gone, in BFS discovery order over the supports
// relation. The removed piece itself is never included, and a piece with any
// alternate path to ground is never included. O(V+E) per call.
func (g *SupportGraph) FindDisconnectedAfterRemoval(removed types.EntityID) []types.EntityID {
	if g.pieces[removed] == nil {
		return nil
	}

	// Collect everything potentially affected: BFS downstream over supports.
	visited := map[types.EntityID]bool{removed: true}
	var affected []types.EntityID
	queue := sortedKeys(g.supports[removed])
	for _, id := range queue {
		visited[id] = true
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		affected = append(affected, current)
		for _, next := range sortedKeys(g.supports[current]) {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	// Re-check ground reachability with removed treated as gone.
	var disconnected []types.EntityID
	for _, id := range affected {
		if !g.hasPathToGroundExcluding(id, removed) {
			disconnected = append(disconnected, id)
		}
	}
	return disconnected
}

// Stability returns 1.0 when the piece can reach the ground, 0 otherwise.
// Results are memoized per piece until the next graph mutation.
func (g *SupportGraph) Stability(id types.EntityID) float64 {
	if g.pieces[id] == nil {
		return 0
	}
	if value, ok := g.stability[id]; ok {
		return value
	}
	value := 0.0
	if g.HasPathToGround(id) {
		value = 1.0
	}
	g.stability[id] = value
	return value
}

func (g *SupportGraph) invalidateStability() {
	if len(g.stability) > 0 {
		g.stability = make(map[types.EntityID]float64)
	}
}

func sortedKeys(set map[types.EntityID]bool) []types.EntityID {
	if len(set) == 0 {
		return nil
	}
	ids := make([]types.EntityID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
