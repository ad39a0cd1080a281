package diagram

import (
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Grid spacing shared by the flowchart layouts.
const (
	colWidth  = 250.0
	rowHeight = 150.0
	maxCols   = 3
)

// cell is a zero-based grid position.
type cell struct {
	col, row int
}

// gridLayout places n nodes row by row in at most three columns.
func gridLayout(n int) []cell {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	cols = min(maxCols, max(1, cols))

	cells := make([]cell, n)
	for i := range cells {
		cells[i] = cell{col: i % cols, row: i / cols}
	}
	return cells
}

// layeredLayout puts every node one row below its deepest predecessor.
// Nodes in a row keep their input order. It reports false when the edges
// contain a cycle or there are none, in which case callers use gridLayout.
func layeredLayout(n int, edges [][2]int) ([]cell, bool) {
	g := simple.NewDirectedGraph()
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}

	linked := false
	for _, e := range edges {
		from, to := e[0], e[1]
		if from == to || from < 0 || to < 0 || from >= n || to >= n {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(from), simple.Node(to)))
		linked = true
	}
	if !linked {
		return nil, false
	}

	order, err := topo.Sort(g)
	if err != nil {
		return nil, false
	}

	rows := make(map[int64]int, n)
	for _, node := range order {
		id := node.ID()
		for _, pred := range graph.NodesOf(g.To(id)) {
			rows[id] = max(rows[id], rows[pred.ID()]+1)
		}
	}

	cells := make([]cell, n)
	used := make(map[int]int)
	for i := 0; i < n; i++ {
		row := rows[int64(i)]
		cells[i] = cell{col: used[row], row: row}
		used[row]++
	}
	return cells, true
}
