package generation

import (
	"fmt"
	"sort"

	"frontier.dev/internal/models"
)

// NodeType identifies what kind of settlement a node stands for
type NodeType int

const (
	NodeTown NodeType = iota
	NodeLocality
)

// Node is a settlement in the road graph. Positions are reduced cells.
type Node struct {
	ID       string
	Type     NodeType
	Position Point
	Bounds   models.Bounds // reduced footprint
}

// Edge is a candidate road between two settlements
type Edge struct {
	From, To string
	Weight   int     // manhattan distance in reduced cells
	Path     []Point // reduced route, filled when routed
}

// Graph holds the settlements and the roads linking them
type Graph struct {
	Nodes map[string]*Node
	Edges []*Edge

	// Adjacency list for quick lookups
	Adjacent map[string][]string
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		Nodes:    make(map[string]*Node),
		Edges:    make([]*Edge, 0),
		Adjacent: make(map[string][]string),
	}
}

// NewSettlementGraph builds the road candidates of a world: locality pairs
// closer than localityCap and town/locality pairs closer than townCap
func NewSettlementGraph(places *Places, s Settings) *Graph {
	g := NewGraph()
	for i, town := range places.Towns {
		g.AddNode(&Node{ID: townID(i), Type: NodeTown, Position: town.Center, Bounds: townFootprint(s, town.Center)})
	}
	for i, locality := range places.Localities {
		g.AddNode(&Node{ID: localityID(i), Type: NodeLocality, Position: locality.Center, Bounds: localityFootprint(s, locality.Center)})
	}

	for i := range places.Localities {
		for j := i + 1; j < len(places.Localities); j++ {
			if models.Manhattan(places.Localities[i].Center, places.Localities[j].Center) <= s.LocalityRoadCap {
				// ids are known to exist
				_ = g.AddEdge(localityID(i), localityID(j))
			}
		}
	}
	for i := range places.Towns {
		for j := range places.Localities {
			if models.Manhattan(places.Towns[i].Center, places.Localities[j].Center) <= s.TownRoadCap {
				_ = g.AddEdge(townID(i), localityID(j))
			}
		}
	}
	return g
}

func townID(i int) string     { return fmt.Sprintf("town-%d", i) }
func localityID(i int) string { return fmt.Sprintf("locality-%d", i) }

// AddNode adds a node to the graph
func (g *Graph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if g.Adjacent[n.ID] == nil {
		g.Adjacent[n.ID] = make([]string, 0)
	}
}

// AddEdge adds an edge between two nodes. Duplicate pairs are ignored.
func (g *Graph) AddEdge(fromID, toID string) error {
	from, ok := g.Nodes[fromID]
	if !ok {
		return fmt.Errorf("node %s not found", fromID)
	}
	to, ok := g.Nodes[toID]
	if !ok {
		return fmt.Errorf("node %s not found", toID)
	}
	if g.GetEdge(fromID, toID) != nil {
		return nil
	}

	g.Edges = append(g.Edges, &Edge{
		From:   fromID,
		To:     toID,
		Weight: models.Manhattan(from.Position, to.Position),
	})
	g.Adjacent[fromID] = append(g.Adjacent[fromID], toID)
	g.Adjacent[toID] = append(g.Adjacent[toID], fromID)

	return nil
}

// GetEdge returns the edge between two nodes if it exists
func (g *Graph) GetEdge(fromID, toID string) *Edge {
	for _, e := range g.Edges {
		if (e.From == fromID && e.To == toID) || (e.From == toID && e.To == fromID) {
			return e
		}
	}
	return nil
}

// IsConnected checks if all nodes are reachable from a starting node using BFS
func (g *Graph) IsConnected(startID string) bool {
	if len(g.Nodes) == 0 {
		return true
	}
	return len(g.reachable(startID)) == len(g.Nodes)
}

// FindUnreachable returns the sorted ids of nodes not reachable from the start node
func (g *Graph) FindUnreachable(startID string) []string {
	visited := g.reachable(startID)
	unreachable := make([]string, 0)
	for id := range g.Nodes {
		if !visited[id] {
			unreachable = append(unreachable, id)
		}
	}
	sort.Strings(unreachable)
	return unreachable
}

func (g *Graph) reachable(startID string) map[string]bool {
	visited := map[string]bool{startID: true}
	queue := []string{startID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, neighborID := range g.Adjacent[current] {
			if !visited[neighborID] {
				visited[neighborID] = true
				queue = append(queue, neighborID)
			}
		}
	}
	return visited
}

// NodesOfType returns the nodes of a type ordered by id
func (g *Graph) NodesOfType(t NodeType) []*Node {
	nodes := make([]*Node, 0)
	for _, n := range g.Nodes {
		if n.Type == t {
			nodes = append(nodes, n)
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}
