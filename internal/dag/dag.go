// SPDX-License-Identifier: MPL-2.0

// Package dag orders module dependency graphs.
//
// An edge from A to B means "A uses B": B must appear before A in any build
// order. Both traversals here emit dependencies first.
package dag

import (
	"fmt"
	"strings"
)

type (
	// CycleError reports a dependency cycle.
	CycleError struct {
		// Cycle is the closed path that was found, first node repeated at the
		// end (a -> b -> a). For whole-graph sorts it lists the nodes left
		// unordered instead.
		Cycle []string
	}

	// NextFunc returns the direct dependencies of node in declaration order.
	// A non-nil error aborts the walk and is returned unchanged.
	NextFunc func(node string) ([]string, error)

	// Graph is an in-memory dependency graph with deterministic ordering.
	Graph struct {
		// deps maps each node to the nodes it uses, without duplicates.
		deps map[string][]string
		// nodes tracks all nodes in insertion order.
		nodes   []string
		nodeSet map[string]bool
	}

	frame struct {
		node string
		deps []string
		next int
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		deps:    make(map[string][]string),
		nodeSet: make(map[string]bool),
	}
}

// AddNode adds a node to the graph. Adding an existing node is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge records that from uses to. Both nodes are added if missing and
// repeated edges are ignored.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	for _, d := range g.deps[from] {
		if d == to {
			return
		}
	}
	g.deps[from] = append(g.deps[from], to)
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.nodes...)
}

// Deps returns the direct dependencies of node in insertion order.
func (g *Graph) Deps(node string) []string {
	return append([]string(nil), g.deps[node]...)
}

// PostOrder returns root and everything reachable from it, dependencies
// first. Unknown roots yield just the root.
func (g *Graph) PostOrder(root string) ([]string, error) {
	return Walk(root, func(node string) ([]string, error) {
		return g.deps[node], nil
	})
}

// Walk performs an iterative depth-first traversal from root, asking next for
// each node's dependencies. It returns the visited nodes in post-order, so
// every node follows all of its dependencies and shared dependencies appear
// once. A back edge yields a *CycleError carrying the offending path.
//
// The traversal uses an explicit stack, so deep chains cannot exhaust the
// goroutine stack.
func Walk(root string, next NextFunc) ([]string, error) {
	deps, err := next(root)
	if err != nil {
		return nil, err
	}

	var (
		order    []string
		done     = make(map[string]bool)
		visiting = map[string]int{root: 0}
		stack    = []*frame{{node: root, deps: deps}}
	)

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next == len(top.deps) {
			stack = stack[:len(stack)-1]
			delete(visiting, top.node)
			done[top.node] = true
			order = append(order, top.node)
			continue
		}

		child := top.deps[top.next]
		top.next++
		if done[child] {
			continue
		}
		if at, ok := visiting[child]; ok {
			cycle := make([]string, 0, len(stack)-at+1)
			for _, f := range stack[at:] {
				cycle = append(cycle, f.node)
			}
			return nil, &CycleError{Cycle: append(cycle, child)}
		}

		childDeps, err := next(child)
		if err != nil {
			return nil, err
		}
		visiting[child] = len(stack)
		stack = append(stack, &frame{node: child, deps: childDeps})
	}

	return order, nil
}

// TopologicalSort orders every node in the graph, dependencies first, using
// Kahn's algorithm. Nodes that become ready together keep insertion order.
// Returns a *CycleError listing the unordered nodes if the graph has a cycle.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	// pending counts unsatisfied dependencies; users is the reverse adjacency.
	pending := make(map[string]int, len(g.nodes))
	users := make(map[string][]string, len(g.nodes))
	for _, node := range g.nodes {
		pending[node] = len(g.deps[node])
		for _, d := range g.deps[node] {
			users[d] = append(users[d], node)
		}
	}

	queue := make([]string, 0, len(g.nodes))
	for _, node := range g.nodes {
		if pending[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, u := range users[node] {
			pending[u]--
			if pending[u] == 0 {
				queue = append(queue, u)
			}
		}
	}

	if len(result) != len(g.nodes) {
		var stuck []string
		for _, node := range g.nodes {
			if pending[node] > 0 {
				stuck = append(stuck, node)
			}
		}
		return nil, &CycleError{Cycle: stuck}
	}

	return result, nil
}
