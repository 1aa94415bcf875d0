package mesh

import (
	"fmt"
	"sort"

	"github.com/koremap/koremap/geom"
)

// ElementType represents the solid element kinds understood by the readers.
// The mapping pipeline itself only operates on Hex8.
type ElementType int

const (
	Hex8 ElementType = iota
	Tet4
)

func (e ElementType) String() string {
	return [...]string{"Hex8", "Tet4"}[e]
}

// Node is a mesh point. Position is the coordinate the node was created
// with; Mapped holds the transformed coordinate once a mapping step has run.
type Node struct {
	ID       int
	Position geom.Vec
	Mapped   geom.Vec
	IsMapped bool
}

// Effective returns the mapped position when one has been assigned,
// otherwise the original position.
func (n *Node) Effective() geom.Vec {
	if n.IsMapped {
		return n.Mapped
	}
	return n.Position
}

// SetMapped assigns the transformed position.
func (n *Node) SetMapped(p geom.Vec) {
	n.Mapped = p
	n.IsMapped = true
}

// Element is an 8-node solid element. I, J, K are the structured lattice
// address, valid only while IndexAssigned is set; addresses are scoped to
// the connectivity they were computed for.
type Element struct {
	ID      int
	PartID  int
	NodeIDs [NumNodes]int
	Type    ElementType

	I, J, K       int
	IndexAssigned bool
}

// SetGridIndex attaches a structured lattice address.
func (e *Element) SetGridIndex(i, j, k int) {
	e.I, e.J, e.K = i, j, k
	e.IndexAssigned = true
}

// ClearGridIndex resets the structured address.
func (e *Element) ClearGridIndex() {
	e.I, e.J, e.K = -1, -1, -1
	e.IndexAssigned = false
}

// FaceNodeIDs resolves the node ids on the given local face.
func (e *Element) FaceNodeIDs(face int) [NodesPerFace]int {
	local := FaceLocalNodes(face)
	return [NodesPerFace]int{
		e.NodeIDs[local[0]],
		e.NodeIDs[local[1]],
		e.NodeIDs[local[2]],
		e.NodeIDs[local[3]],
	}
}

// ContainsNode reports whether the element references the node id.
func (e *Element) ContainsNode(nodeID int) bool {
	for _, id := range e.NodeIDs {
		if id == nodeID {
			return true
		}
	}
	return false
}

// Part groups elements under a part id.
type Part struct {
	ID   int
	Name string
}

// Mesh owns nodes, elements and parts keyed by their external ids.
// DimI/DimJ/DimK are set only after structured index assignment succeeds.
type Mesh struct {
	Name     string
	Nodes    map[int]*Node
	Elements map[int]*Element
	Parts    map[int]*Part

	DimI, DimJ, DimK int
	GridDimsSet      bool
}

func NewMesh() *Mesh {
	return &Mesh{
		Nodes:    make(map[int]*Node),
		Elements: make(map[int]*Element),
		Parts:    make(map[int]*Part),
	}
}

func (m *Mesh) AddNode(id int, x, y, z float64) {
	p := geom.Vec{X: x, Y: y, Z: z}
	m.Nodes[id] = &Node{ID: id, Position: p, Mapped: p}
}

func (m *Mesh) AddElement(id, partID int, nodeIDs [NumNodes]int) {
	m.Elements[id] = &Element{ID: id, PartID: partID, NodeIDs: nodeIDs, Type: Hex8}
}

func (m *Mesh) AddPart(id int, name string) {
	m.Parts[id] = &Part{ID: id, Name: name}
}

func (m *Mesh) Node(id int) *Node { return m.Nodes[id] }

func (m *Mesh) Element(id int) *Element { return m.Elements[id] }

// SetGridDimensions records the structured extents after indexing.
func (m *Mesh) SetGridDimensions(i, j, k int) {
	m.DimI, m.DimJ, m.DimK = i, j, k
	m.GridDimsSet = true
}

// Clear drops all mesh content.
func (m *Mesh) Clear() {
	m.Nodes = make(map[int]*Node)
	m.Elements = make(map[int]*Element)
	m.Parts = make(map[int]*Part)
	m.Name = ""
	m.DimI, m.DimJ, m.DimK = 0, 0, 0
	m.GridDimsSet = false
}

// Clone returns an independent deep copy. Structured addresses are copied
// too but remain meaningful only for the connectivity they came from.
func (m *Mesh) Clone() *Mesh {
	c := NewMesh()
	c.Name = m.Name
	for id, n := range m.Nodes {
		nn := *n
		c.Nodes[id] = &nn
	}
	for id, e := range m.Elements {
		ee := *e
		c.Elements[id] = &ee
	}
	for id, p := range m.Parts {
		pp := *p
		c.Parts[id] = &pp
	}
	c.DimI, c.DimJ, c.DimK = m.DimI, m.DimJ, m.DimK
	c.GridDimsSet = m.GridDimsSet
	return c
}

// SortedNodeIDs returns node ids in ascending order for deterministic
// iteration.
func (m *Mesh) SortedNodeIDs() []int {
	ids := make([]int, 0, len(m.Nodes))
	for id := range m.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// SortedElementIDs returns element ids in ascending order.
func (m *Mesh) SortedElementIDs() []int {
	ids := make([]int, 0, len(m.Elements))
	for id := range m.Elements {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// BoundingBox returns the axis-aligned bounds of the original node
// positions. An empty mesh yields a zero box.
func (m *Mesh) BoundingBox() (min, max geom.Vec) {
	first := true
	for _, n := range m.Nodes {
		p := n.Position
		if first {
			min, max = p, p
			first = false
			continue
		}
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.Z < min.Z {
			min.Z = p.Z
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
		if p.Z > max.Z {
			max.Z = p.Z
		}
	}
	return
}

// ElementCentroid averages the element's resolvable corner positions.
func (m *Mesh) ElementCentroid(e *Element) geom.Vec {
	var c geom.Vec
	count := 0
	for _, id := range e.NodeIDs {
		if n := m.Node(id); n != nil {
			c = c.Add(n.Position)
			count++
		}
	}
	if count > 0 {
		c = c.Scale(1 / float64(count))
	}
	return c
}

// Validate checks that every element resolves all eight node ids.
func (m *Mesh) Validate() error {
	for _, id := range m.SortedElementIDs() {
		e := m.Elements[id]
		for _, nid := range e.NodeIDs {
			if _, ok := m.Nodes[nid]; !ok {
				return fmt.Errorf("element %d references non-existent node %d", id, nid)
			}
		}
	}
	return nil
}

// Stats summarizes the mesh for reporting.
type Stats struct {
	NodeCount    int
	ElementCount int
	Min, Max     geom.Vec
	Dimensions   geom.Vec
	Centroid     geom.Vec

	DimI, DimJ, DimK int
	IsStructured     bool
}

func (m *Mesh) Stats() Stats {
	min, max := m.BoundingBox()
	return Stats{
		NodeCount:    len(m.Nodes),
		ElementCount: len(m.Elements),
		Min:          min,
		Max:          max,
		Dimensions:   max.Sub(min),
		Centroid:     min.Add(max).Scale(0.5),
		DimI:         m.DimI,
		DimJ:         m.DimJ,
		DimK:         m.DimK,
		IsStructured: m.GridDimsSet,
	}
}

// Print writes a human-readable statistics block, mirroring the CLI output.
func (s Stats) Print() {
	fmt.Printf("Mesh Statistics:\n")
	fmt.Printf("  Nodes:    %d\n", s.NodeCount)
	fmt.Printf("  Elements: %d\n", s.ElementCount)
	fmt.Printf("  Bounds:   (%.4g, %.4g, %.4g) - (%.4g, %.4g, %.4g)\n",
		s.Min.X, s.Min.Y, s.Min.Z, s.Max.X, s.Max.Y, s.Max.Z)
	if s.IsStructured {
		fmt.Printf("  Grid:     %d x %d x %d\n", s.DimI, s.DimJ, s.DimK)
	}
}
