package netgraph

import (
	"errors"
	"fmt"
	"sort"
)

// Direction is the traversal direction of a segment within one resolved path.
type Direction int

const (
	AToB Direction = iota
	BToA
)

func (d Direction) String() string {
	if d == BToA {
		return "b_to_a"
	}
	return "a_to_b"
}

// Hop is one segment traversal within a resolved path.
type Hop struct {
	Segment   string
	Direction Direction
}

// Per-connection resolution failures. Both leave the rest of a batch
// unaffected; callers report them against the offending connection.
var (
	// ErrUnknownNode means a requested endpoint id is absent from the graph.
	ErrUnknownNode = errors.New("node not in graph")

	// ErrNoPath means the endpoints exist but no segment path connects
	// them: an electrically disconnected requested pair, a data error to
	// surface rather than swallow.
	ErrNoPath = errors.New("no path between nodes")
)

// Resolve finds the sequence of segments a connection physically traverses
// from fromID to toID, by breadth-first search over the undirected adjacency
// implied by the segments. BFS yields a minimum-hop path, the only level of
// optimality required. Candidate segments at each node are visited in
// lexicographic id order so tie-breaking among equal-length paths is
// reproducible across runs.
func Resolve(g *Graph, fromID, toID string) ([]Hop, error) {
	if _, ok := g.Nodes[fromID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, fromID)
	}
	if _, ok := g.Nodes[toID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, toID)
	}

	adjacency := g.adjacency()

	type entry struct {
		node string
		path []Hop
	}

	queue := []entry{{node: fromID}}
	visited := map[string]bool{fromID: true}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.node == toID {
			return current.path, nil
		}

		for _, segID := range adjacency[current.node] {
			seg := g.Segments[segID]

			var next string
			var dir Direction
			switch current.node {
			case seg.EndA:
				next, dir = seg.EndB, AToB
			case seg.EndB:
				next, dir = seg.EndA, BToA
			default:
				continue
			}

			if visited[next] {
				continue
			}
			visited[next] = true

			path := make([]Hop, len(current.path), len(current.path)+1)
			copy(path, current.path)
			path = append(path, Hop{Segment: segID, Direction: dir})
			queue = append(queue, entry{node: next, path: path})
		}
	}

	return nil, fmt.Errorf("%w: %s -> %s", ErrNoPath, fromID, toID)
}

// adjacency maps each node id to the ids of its touching segments, sorted
// lexicographically for deterministic traversal order.
func (g *Graph) adjacency() map[string][]string {
	adj := make(map[string][]string, len(g.Nodes))
	for id, seg := range g.Segments {
		adj[seg.EndA] = append(adj[seg.EndA], id)
		if seg.EndB != seg.EndA {
			adj[seg.EndB] = append(adj[seg.EndB], id)
		}
	}
	for node := range adj {
		sort.Strings(adj[node])
	}
	return adj
}

// TouchingSegments returns the ids of segments incident to the node, sorted.
func (g *Graph) TouchingSegments(nodeID string) []string {
	var out []string
	for id, seg := range g.Segments {
		if seg.EndA == nodeID || seg.EndB == nodeID {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
