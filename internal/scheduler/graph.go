package scheduler

import (
	"errors"
	"fmt"

	"github.com/ShayCichocki/deepthink/pkg/models"
)

// ErrCycleDetected indicates a circular dependency was found in the subtask graph.
var ErrCycleDetected = errors.New("circular dependency detected")

// dependencyGraph is a directed acyclic graph of subtask dependencies.
// Subtasks are nodes, and edges represent "consumes the output of"
// relationships.
type dependencyGraph struct {
	// order preserves the decomposition order of subtask ids.
	order []int
	// nodes maps subtask ID to the subtask itself.
	nodes map[int]*models.Subtask
	// edges maps subtask ID to the IDs it depends on.
	edges map[int][]int
}

// buildGraph constructs the dependency graph from a subtask list.
// Returns an error if a cycle is detected or dependencies reference
// unknown subtasks.
func buildGraph(subtasks []*models.Subtask) (*dependencyGraph, error) {
	g := &dependencyGraph{
		nodes: make(map[int]*models.Subtask),
		edges: make(map[int][]int),
	}

	for _, st := range subtasks {
		if _, exists := g.nodes[st.ID]; exists {
			return nil, fmt.Errorf("duplicate subtask id %d", st.ID)
		}
		g.nodes[st.ID] = st
		g.edges[st.ID] = nil
		g.order = append(g.order, st.ID)
	}

	for _, st := range subtasks {
		for _, depID := range st.Dependencies {
			if _, exists := g.nodes[depID]; !exists {
				return nil, fmt.Errorf("subtask %d depends on unknown subtask %d", st.ID, depID)
			}
			g.edges[st.ID] = append(g.edges[st.ID], depID)
		}
	}

	if g.hasCycle() {
		return nil, ErrCycleDetected
	}

	return g, nil
}

// hasCycle returns true if the graph contains a circular dependency.
// Uses depth-first search with coloring to detect back edges.
func (g *dependencyGraph) hasCycle() bool {
	// Color states: 0 = white (unvisited), 1 = gray (in progress), 2 = black (done).
	colors := make(map[int]int, len(g.nodes))

	var visit func(id int) bool
	visit = func(id int) bool {
		colors[id] = 1

		for _, depID := range g.edges[id] {
			switch colors[depID] {
			case 1:
				// Back edge - cycle detected.
				return true
			case 0:
				if visit(depID) {
					return true
				}
			}
		}

		colors[id] = 2
		return false
	}

	for _, id := range g.order {
		if colors[id] == 0 {
			if visit(id) {
				return true
			}
		}
	}

	return false
}

// layers partitions subtask ids into topological layers: layer 0 holds
// subtasks with no dependencies, layer n holds subtasks whose
// dependencies all live in earlier layers. Within a layer the original
// decomposition order is preserved. All subtasks in one layer can run
// concurrently.
func (g *dependencyGraph) layers() [][]int {
	depth := make(map[int]int, len(g.nodes))

	var depthOf func(id int) int
	depthOf = func(id int) int {
		if d, ok := depth[id]; ok {
			return d
		}
		d := 0
		for _, depID := range g.edges[id] {
			if dd := depthOf(depID) + 1; dd > d {
				d = dd
			}
		}
		depth[id] = d
		return d
	}

	maxDepth := 0
	for _, id := range g.order {
		if d := depthOf(id); d > maxDepth {
			maxDepth = d
		}
	}

	result := make([][]int, maxDepth+1)
	for _, id := range g.order {
		d := depth[id]
		result[d] = append(result[d], id)
	}

	return result
}

// subtask returns the subtask for a given ID, or nil if not found.
func (g *dependencyGraph) subtask(id int) *models.Subtask {
	return g.nodes[id]
}
