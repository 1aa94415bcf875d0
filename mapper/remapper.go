package mapper

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/koremap/koremap/geom"
	"github.com/koremap/koremap/grid"
	"github.com/koremap/koremap/mesh"
	"github.com/koremap/koremap/utils"
)

// Stats reports the outcome of a remapping run. InvalidElements counts
// mapped elements with non-positive Jacobian; these are surfaced, never
// silently dropped, and by default do not fail the run.
type Stats struct {
	NodesProcessed    int
	ElementsProcessed int
	MinJacobian       float64
	MaxJacobian       float64
	AvgJacobian       float64
	InvalidElements   int
	Elapsed           time.Duration
}

// Print writes the statistics block the CLI shows after a mapping run.
func (s *Stats) Print() {
	fmt.Printf("Mapping Statistics:\n")
	fmt.Printf("  Nodes processed:    %d\n", s.NodesProcessed)
	fmt.Printf("  Elements processed: %d\n", s.ElementsProcessed)
	fmt.Printf("  Jacobian min/max/avg: %.6g / %.6g / %.6g\n",
		s.MinJacobian, s.MaxJacobian, s.AvgJacobian)
	if s.InvalidElements > 0 {
		fmt.Printf("  Invalid elements (Jacobian <= 0): %d\n", s.InvalidElements)
	}
	fmt.Printf("  Elapsed: %v\n", s.Elapsed)
}

// Options tunes a remapping run. The zero value is usable.
type Options struct {
	Mode Mode
	// Workers bounds the goroutines used for per-node chart evaluation;
	// <= 0 means runtime.NumCPU().
	Workers int
	// FailOnInvalid turns a non-zero invalid-element count into an error.
	FailOnInvalid bool
	// Progress, when set, is called synchronously with a percentage after
	// each pipeline step. It must not block.
	Progress func(percent int)
}

func (o *Options) progress(p int) {
	if o.Progress != nil {
		o.Progress(p)
	}
}

// Remap transforms every node of flat through the coordinate chart of bent.
// Both inputs are borrowed read-only; the returned mesh is fresh, with
// flat's ids, elements and parts and bent-space node positions.
func Remap(bent, flat *mesh.Mesh, opts Options) (*mesh.Mesh, *Stats, error) {
	start := time.Now()
	stats := &Stats{MinJacobian: math.MaxFloat64, MaxJacobian: -math.MaxFloat64}

	if bent == nil || len(bent.Elements) == 0 {
		return nil, nil, fmt.Errorf("bent reference mesh is empty")
	}
	if flat == nil || len(flat.Nodes) == 0 {
		return nil, nil, fmt.Errorf("flat mesh is empty")
	}
	opts.progress(0)

	frame, err := BuildBentFrame(bent)
	if err != nil {
		return nil, nil, err
	}
	frame.Mode = opts.Mode
	opts.progress(30)

	bbMin, bbMax := flat.BoundingBox()
	size := bbMax.Sub(bbMin)
	opts.progress(45)

	result := mesh.NewMesh()
	result.Name = flat.Name + "_mapped"

	mapNodes(frame, flat, result, bbMin, size, opts.Workers)
	stats.NodesProcessed = len(result.Nodes)
	opts.progress(70)

	for id, e := range flat.Elements {
		ee := *e
		result.Elements[id] = &ee
	}
	for id, p := range flat.Parts {
		pp := *p
		result.Parts[id] = &pp
	}
	stats.ElementsProcessed = len(result.Elements)
	opts.progress(85)

	qualityPass(result, stats)
	opts.progress(100)

	stats.Elapsed = time.Since(start)
	if opts.FailOnInvalid && stats.InvalidElements > 0 {
		return result, stats, fmt.Errorf("%d mapped elements have non-positive Jacobian", stats.InvalidElements)
	}
	return result, stats, nil
}

// BuildBentFrame runs the analysis pipeline (connectivity, indexing,
// boundary extraction, edge geometry) on a working copy of the bent mesh
// and returns its coordinate chart. The input is not mutated.
func BuildBentFrame(bent *mesh.Mesh) (*Frame, error) {
	work := bent.Clone()

	conn, err := grid.BuildConnectivity(work)
	if err != nil {
		return nil, fmt.Errorf("bent mesh is not a valid structured grid: %w", err)
	}
	if err := grid.AssignIndices(work, conn); err != nil {
		return nil, fmt.Errorf("failed to assign structured indices: %w", err)
	}
	boundary, err := grid.ExtractBoundary(work)
	if err != nil {
		return nil, err
	}
	edges := grid.CalculateEdges(work, boundary)

	frame, err := BuildFrame(work, boundary, edges)
	if err != nil {
		return nil, fmt.Errorf("failed to build parametric frame: %w", err)
	}
	return frame, nil
}

// mapNodes evaluates the chart at every flat node. The frame is immutable
// and each node id is written by exactly one goroutine, so buckets need no
// locking beyond the final merge.
func mapNodes(frame *Frame, flat, result *mesh.Mesh, bbMin, size geom.Vec, workers int) {
	ids := flat.SortedNodeIDs()
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(ids) {
		workers = len(ids)
	}
	if workers < 1 {
		workers = 1
	}

	mapped := make([]geom.Vec, len(ids))
	pm := utils.NewPartitionMap(workers, len(ids))

	var wg sync.WaitGroup
	for n := 0; n < workers; n++ {
		lo, hi := pm.GetBucketRange(n)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for idx := lo; idx < hi; idx++ {
				p := flat.Nodes[ids[idx]].Position
				u, v, w := normalizeToBox(p, bbMin, size)
				mapped[idx] = frame.MapToPhysical(u, v, w)
			}
		}(lo, hi)
	}
	wg.Wait()

	for idx, id := range ids {
		n := &mesh.Node{ID: id, Position: mapped[idx]}
		n.SetMapped(mapped[idx])
		result.Nodes[id] = n
	}
}

// normalizeToBox rescales a position into unit-cube parameters against the
// flat mesh bounding box. A collapsed axis maps to parameter 0 rather than
// dividing by zero.
func normalizeToBox(p, bbMin, size geom.Vec) (u, v, w float64) {
	if size.X > 0 {
		u = geom.Clamp01((p.X - bbMin.X) / size.X)
	}
	if size.Y > 0 {
		v = geom.Clamp01((p.Y - bbMin.Y) / size.Y)
	}
	if size.Z > 0 {
		w = geom.Clamp01((p.Z - bbMin.Z) / size.Z)
	}
	return
}

// qualityPass approximates each element's Jacobian at its center from
// opposite-face corner averages and accumulates the quality statistics.
// Elements with unresolvable nodes count as invalid but never abort.
func qualityPass(result *mesh.Mesh, stats *Stats) {
	sum := 0.0
	counted := 0
	for _, e := range result.Elements {
		var corners [8]geom.Vec
		ok := true
		for idx, nid := range e.NodeIDs {
			n := result.Node(nid)
			if n == nil {
				ok = false
				break
			}
			corners[idx] = n.Effective()
		}
		if !ok {
			stats.InvalidElements++
			continue
		}

		j := CenterJacobian(corners)
		if j < stats.MinJacobian {
			stats.MinJacobian = j
		}
		if j > stats.MaxJacobian {
			stats.MaxJacobian = j
		}
		sum += j
		counted++
		if j <= 0 {
			stats.InvalidElements++
		}
	}
	if counted > 0 {
		stats.AvgJacobian = sum / float64(counted)
	} else {
		stats.MinJacobian, stats.MaxJacobian = 0, 0
	}
}

// CenterJacobian is the scalar triple product of the central-difference
// derivatives formed from opposite-face corner averages.
func CenterJacobian(c [8]geom.Vec) float64 {
	quarter := func(a, b, cc, d geom.Vec) geom.Vec {
		return a.Add(b).Add(cc).Add(d).Scale(0.25)
	}
	dxdu := quarter(c[1], c[2], c[5], c[6]).Sub(quarter(c[0], c[3], c[4], c[7]))
	dxdv := quarter(c[2], c[3], c[6], c[7]).Sub(quarter(c[0], c[1], c[4], c[5]))
	dxdw := quarter(c[4], c[5], c[6], c[7]).Sub(quarter(c[0], c[1], c[2], c[3]))
	return geom.Triple(dxdu, dxdv, dxdw)
}
