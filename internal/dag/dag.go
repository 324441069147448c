// SPDX-License-Identifier: MPL-2.0

// Package dag provides directed graph operations for topological sorting
// and cycle detection. It is used by the resolver to order import links:
// an edge from A to B means import B was resolved through import A.
package dag

import (
	"fmt"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError struct {
		// Cycle lists the nodes of one cycle in edge order, starting and
		// ending with the same node.
		Cycle []string
		// Blocked lists every node that could not be ordered, in insertion order.
		Blocked []string
	}

	// Graph is a directed graph for topological sorting.
	// Nodes are identified by string keys. An edge from A to B means A must be
	// ordered before B. Repeated edges are stored once.
	Graph struct {
		// adjacency maps each node to its outgoing neighbors, in insertion order.
		adjacency map[string][]string
		// edges deduplicates adjacency entries.
		edges map[[2]string]bool
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes   []string
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		edges:     make(map[[2]string]bool),
		nodeSet:   make(map[string]bool),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge adds a directed edge from -> to, meaning "from" is ordered before "to".
// Both nodes are implicitly added if they don't exist.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	edge := [2]string{from, to}
	if g.edges[edge] {
		return
	}
	g.edges[edge] = true
	g.adjacency[from] = append(g.adjacency[from], to)
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Successors returns a copy of the nodes that name has edges to.
func (g *Graph) Successors(name string) []string {
	out := make([]string, len(g.adjacency[name]))
	copy(out, g.adjacency[name])
	return out
}

// TopologicalSort returns a valid order using Kahn's algorithm.
// Returns CycleError if the graph contains a cycle.
// The returned order is deterministic: nodes at the same topological level
// appear in the order they were first added to the graph.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = 0
	}
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	queue := make([]string, 0)
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) == len(g.nodes) {
		return result, nil
	}

	var blocked []string
	for _, node := range g.nodes {
		if inDegree[node] > 0 {
			blocked = append(blocked, node)
		}
	}
	return nil, &CycleError{Cycle: g.findCycle(inDegree), Blocked: blocked}
}

// findCycle walks backwards from a blocked node. Every blocked node has a
// blocked predecessor, so the walk must revisit a node, closing a cycle.
func (g *Graph) findCycle(inDegree map[string]int) []string {
	preds := make(map[string][]string)
	for _, from := range g.nodes {
		if inDegree[from] == 0 {
			continue
		}
		for _, to := range g.adjacency[from] {
			if inDegree[to] > 0 {
				preds[to] = append(preds[to], from)
			}
		}
	}

	var start string
	for _, node := range g.nodes {
		if inDegree[node] > 0 {
			start = node
			break
		}
	}

	seen := make(map[string]int)
	var walk []string
	node := start
	for {
		if _, ok := seen[node]; ok {
			break
		}
		seen[node] = len(walk)
		walk = append(walk, node)
		node = preds[node][0]
	}

	// walk runs against the edges; reverse the looping part into edge order.
	loop := walk[seen[node]:]
	cycle := make([]string, 0, len(loop)+1)
	for i := len(loop) - 1; i >= 0; i-- {
		cycle = append(cycle, loop[i])
	}

	// Rotate so the earliest added node leads.
	order := make(map[string]int, len(g.nodes))
	for i, n := range g.nodes {
		order[n] = i
	}
	lead := 0
	for i, n := range cycle {
		if order[n] < order[cycle[lead]] {
			lead = i
		}
	}
	rotated := make([]string, 0, len(cycle)+1)
	rotated = append(rotated, cycle[lead:]...)
	rotated = append(rotated, cycle[:lead]...)
	return append(rotated, rotated[0])
}
