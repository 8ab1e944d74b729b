package bvh

import (
	"math"
	"sort"

	"github.com/akmonengine/bvh/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================================
// Types
// ============================================================================

// CellKey is the coordinate of a cell in the plane
type CellKey struct {
	X, Y int
}

// Cell holds the references of the objects touching it
type Cell struct {
	objectRefs []int
}

// SpatialGrid is a uniform grid hashed into a fixed number of cells. It is a
// second accelerated query path, checked against LinearQuery like the
// hierarchy.
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
	objects  []actor.Object
}

// ============================================================================
// Constructor
// ============================================================================

// NewSpatialGrid creates an empty grid. numCells is rounded up to a power of
// two.
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)
	if cellSize <= 0 {
		cellSize = 1
	}

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].objectRefs = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

// nextPowerOfTwo rounds n up to the next power of two
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// SuggestCellSize returns the mean of the largest side of each box, which
// keeps most objects within a few cells.
func SuggestCellSize(objects []actor.Object) float64 {
	if len(objects) == 0 {
		return 1
	}
	var sum float64
	for _, o := range objects {
		sum += math.Max(o.Box.Width, o.Box.Height)
	}
	if sum == 0 {
		return 1
	}
	return sum / float64(len(objects))
}

// Index clears the grid and inserts every object.
func (sg *SpatialGrid) Index(objects []actor.Object) {
	sg.Clear()
	sg.objects = objects
	for i, o := range objects {
		sg.Insert(i, o.Box)
	}
	sg.SortCells()
}

// Insert adds an object reference to every cell its box covers
func (sg *SpatialGrid) Insert(ref int, box actor.AABB) {
	sg.forEachCell(box, func(cellIdx int) {
		sg.cells[cellIdx].objectRefs = append(sg.cells[cellIdx].objectRefs, ref)
	})
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].objectRefs = sg.cells[i].objectRefs[:0]
	}
	sg.objects = nil
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].objectRefs) > 1 {
			sort.Ints(sg.cells[i].objectRefs)
		}
	}
}

// Query returns the indexed objects intersecting search under policy.
func (sg *SpatialGrid) Query(search actor.AABB, policy actor.IntersectionPolicy) []actor.Object {
	var found []actor.Object
	seen := make([]bool, len(sg.objects))

	sg.forEachCell(search, func(cellIdx int) {
		for _, ref := range sg.cells[cellIdx].objectRefs {
			if seen[ref] {
				continue
			}
			seen[ref] = true

			if o := sg.objects[ref]; policy.Intersects(search, o.Box) {
				found = append(found, o)
			}
		}
	})
	return found
}

// forEachCell calls fn once per distinct hashed cell covered by box. When the
// box covers more cells than the grid holds, every cell is visited.
func (sg *SpatialGrid) forEachCell(box actor.AABB, fn func(cellIdx int)) {
	minCell := sg.worldToCell(box.Min())
	maxCell := sg.worldToCell(box.Max())

	spanX := float64(maxCell.X-minCell.X) + 1
	spanY := float64(maxCell.Y-minCell.Y) + 1
	if spanX*spanY >= float64(len(sg.cells)) {
		for i := range sg.cells {
			fn(i)
		}
		return
	}

	visited := make(map[int]struct{})
	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			cellIdx := sg.hashCell(CellKey{x, y})
			if _, ok := visited[cellIdx]; ok {
				continue
			}
			visited[cellIdx] = struct{}{}
			fn(cellIdx)
		}
	}
}

// worldToCell converts a world position into cell coordinates
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec2) CellKey {
	return CellKey{
		X: cellCoord(pos.X() / sg.cellSize),
		Y: cellCoord(pos.Y() / sg.cellSize),
	}
}

// cellCoord floors v and clamps it to [math.MinInt32, math.MaxInt32] so the
// conversion to int is always defined. NaN maps to cell 0.
func cellCoord(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Max(math.MinInt32, math.Min(math.MaxInt32, math.Floor(v))))
}

// hashCell maps a cell to an index in the cell array
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663)
	return h & sg.cellMask
}
