package bvh

import (
	"fmt"
	"strings"
	"time"

	"github.com/akmonengine/bvh/actor"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// ErrTypeQueryMismatch is the type of the error logged when an accelerated
// query disagrees with the linear scan.
const ErrTypeQueryMismatch = "query_mismatch"

// Comparison is the outcome of one search run through every query path.
type Comparison struct {
	Search           actor.AABB
	Linear           []actor.Object
	Hierarchy        []actor.Object
	Grid             []actor.Object
	LinearElapsed    time.Duration
	HierarchyElapsed time.Duration
	GridElapsed      time.Duration
	Match            bool
}

// Benchmark times LinearQuery against the hierarchy, and against a
// SpatialGrid when one is set, accumulating elapsed times over calls.
// It is not safe for concurrent use.
type Benchmark struct {
	Session *Session
	Grid    *SpatialGrid

	Runs             int
	Matches          int
	Mismatches       int
	LinearElapsed    time.Duration
	HierarchyElapsed time.Duration
	GridElapsed      time.Duration
}

// Compare runs search through every path and records the timings.
func (b *Benchmark) Compare(search actor.AABB) (Comparison, error) {
	if err := b.Session.checkReady(); err != nil {
		return Comparison{}, err
	}
	objects := b.Session.Store().Objects()
	h := b.Session.Hierarchy()

	c := Comparison{Search: search}

	start := time.Now()
	c.Linear = LinearQuery(objects, search, h.Policy)
	c.LinearElapsed = time.Since(start)

	start = time.Now()
	c.Hierarchy = h.Query(search)
	c.HierarchyElapsed = time.Since(start)

	c.Match = SameObjects(c.Linear, c.Hierarchy)

	if b.Grid != nil {
		start = time.Now()
		c.Grid = b.Grid.Query(search, h.Policy)
		c.GridElapsed = time.Since(start)
		c.Match = c.Match && SameObjects(c.Linear, c.Grid)
	}

	b.record(c)
	return c, nil
}

// CompareAll runs Compare for each search, stopping at the first error.
func (b *Benchmark) CompareAll(searches []actor.AABB) ([]Comparison, error) {
	comparisons := make([]Comparison, 0, len(searches))
	for _, search := range searches {
		c, err := b.Compare(search)
		if err != nil {
			return comparisons, err
		}
		comparisons = append(comparisons, c)
	}
	return comparisons, nil
}

func (b *Benchmark) record(c Comparison) {
	b.Runs++
	b.LinearElapsed += c.LinearElapsed
	b.HierarchyElapsed += c.HierarchyElapsed
	b.GridElapsed += c.GridElapsed

	instrumentQuery(linearPath, c.LinearElapsed)
	instrumentQuery(hierarchyPath, c.HierarchyElapsed)
	if b.Grid != nil {
		instrumentQuery(gridPath, c.GridElapsed)
	}

	if c.Match {
		b.Matches++
		return
	}

	b.Mismatches++
	instrumentMismatch()
	logs.Warn(errors.New("query results differ from linear scan").
		WithType(ErrTypeQueryMismatch).
		WithTag("session_id", b.Session.ID).
		WithTag("search", c.Search).
		WithTag("linear", actor.IDs(c.Linear)).
		WithTag("hierarchy", actor.IDs(c.Hierarchy)).
		WithTag("grid", actor.IDs(c.Grid)))
}

// Report is a snapshot of the accumulated benchmark counters.
type Report struct {
	Runs             int
	Matches          int
	Mismatches       int
	LinearElapsed    time.Duration
	HierarchyElapsed time.Duration
	GridElapsed      time.Duration
	HasGrid          bool
}

func (b *Benchmark) Report() Report {
	return Report{
		Runs:             b.Runs,
		Matches:          b.Matches,
		Mismatches:       b.Mismatches,
		LinearElapsed:    b.LinearElapsed,
		HierarchyElapsed: b.HierarchyElapsed,
		GridElapsed:      b.GridElapsed,
		HasGrid:          b.Grid != nil,
	}
}

func (r Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "runs: %d, matches: %d, mismatches: %d\n", r.Runs, r.Matches, r.Mismatches)
	fmt.Fprintf(&sb, "linear scan time: %s\n", r.LinearElapsed)
	fmt.Fprintf(&sb, "hierarchy time: %s\n", r.HierarchyElapsed)
	if r.HasGrid {
		fmt.Fprintf(&sb, "grid time: %s\n", r.GridElapsed)
	}
	return sb.String()
}
