package module

import (
	"fmt"
	"strings"
)

// Node is one source file in the include graph.
type Node struct {
	Path     string  // Absolute path of the file, or the remote reference it was fetched for
	Children []*Node // Included files, in include order
}

// Graph represents the include relationships of a build.
type Graph struct {
	Root  *Node
	Nodes map[string]*Node
}

// NewGraph creates a graph containing only the root file.
func NewGraph(rootPath string) *Graph {
	root := &Node{Path: rootPath}
	return &Graph{
		Root:  root,
		Nodes: map[string]*Node{rootPath: root},
	}
}

// AddNode returns the node for path, creating it if needed.
func (g *Graph) AddNode(path string) *Node {
	if existing, ok := g.Nodes[path]; ok {
		return existing
	}
	node := &Node{Path: path}
	g.Nodes[path] = node
	return node
}

// AddEdge records that from includes to.
func (g *Graph) AddEdge(from, to *Node) {
	from.Children = append(from.Children, to)
}

// CycleError represents an include cycle.
type CycleError struct {
	Cycle []string // File paths forming the cycle
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("include cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// DetectCycles checks for cycles reachable from the root.
// Returns nil if no cycles are found, or a CycleError describing the first cycle found.
func (g *Graph) DetectCycles() error {
	// 0 = unvisited, 1 = in progress, 2 = done
	state := make(map[string]int)
	path := make([]string, 0)

	var visit func(node *Node) error
	visit = func(node *Node) error {
		if state[node.Path] == 2 {
			return nil
		}
		if state[node.Path] == 1 {
			for i, p := range path {
				if p == node.Path {
					cycle := append(append([]string{}, path[i:]...), node.Path)
					return &CycleError{Cycle: cycle}
				}
			}
			return &CycleError{Cycle: []string{node.Path}}
		}

		state[node.Path] = 1
		path = append(path, node.Path)

		for _, child := range node.Children {
			if err := visit(child); err != nil {
				return err
			}
		}

		state[node.Path] = 2
		path = path[:len(path)-1]
		return nil
	}

	return visit(g.Root)
}
