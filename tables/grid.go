package tables

import (
	"math"
	"sort"

	"github.com/tsawler/tabmerge/model"
)

// GridDetector finds ruled table grids among a page's ruling lines.
type GridDetector struct {
	// Tolerance for considering lines aligned or touching (in points)
	AlignmentTolerance float64

	// Minimum number of aligned lines to form a grid axis
	MinAlignedLines int

	// Minimum line length to consider (in points)
	MinLineLength float64
}

// NewGridDetector creates a new grid detector with default settings
func NewGridDetector() *GridDetector {
	return &GridDetector{
		AlignmentTolerance: 2.0,
		MinAlignedLines:    2,
		MinLineLength:      10.0,
	}
}

// Grid is a detected ruled table. Coordinates are PDF user space with Y
// growing upwards.
type Grid struct {
	BBox model.BBox

	// Horizontal rule positions (Y coordinates, sorted descending)
	HorizontalLines []float64

	// Vertical rule positions (X coordinates, sorted ascending)
	VerticalLines []float64

	// Confidence score (0-1)
	Confidence float64

	Rows int
	Cols int

	HasTopBorder    bool
	HasBottomBorder bool
	HasLeftBorder   bool
	HasRightBorder  bool
}

// AlignedLineGroup represents a group of lines aligned on an axis
type AlignedLineGroup struct {
	// Position on the alignment axis (X for vertical lines, Y for horizontal)
	Position float64

	Lines []model.Line

	// Total coverage (sum of line lengths)
	TotalLength float64

	// Span of the lines (min to max on the perpendicular axis)
	MinExtent float64
	MaxExtent float64
}

// Detect returns the ruled grids formed by lines, ordered top to bottom.
// Lines are first split into connected clusters so that separate tables on
// one page produce separate grids.
func (gd *GridDetector) Detect(lines []model.Line) []*Grid {
	var horizontals, verticals []model.Line
	for _, l := range gd.filterByLength(lines) {
		switch {
		case l.IsHorizontal(gd.AlignmentTolerance):
			horizontals = append(horizontals, l)
		case l.IsVertical(gd.AlignmentTolerance):
			verticals = append(verticals, l)
		}
	}

	var grids []*Grid
	for _, c := range gd.connectedClusters(horizontals, verticals) {
		grids = append(grids, gd.DetectFromLines(c.horizontals, c.verticals)...)
	}

	sort.SliceStable(grids, func(i, j int) bool {
		return grids[i].BBox.Top() > grids[j].BBox.Top()
	})
	return grids
}

// DetectFromLines detects a grid from horizontal and vertical lines that
// belong to one table.
func (gd *GridDetector) DetectFromLines(horizontals, verticals []model.Line) []*Grid {
	horizontals = gd.filterByLength(horizontals)
	verticals = gd.filterByLength(verticals)

	if len(horizontals) < gd.MinAlignedLines || len(verticals) < gd.MinAlignedLines {
		return nil
	}

	hGroups := gd.groupAlignedLines(horizontals, true)
	vGroups := gd.groupAlignedLines(verticals, false)

	if len(hGroups) < gd.MinAlignedLines || len(vGroups) < gd.MinAlignedLines {
		return nil
	}

	return gd.findGrids(hGroups, vGroups)
}

func (gd *GridDetector) filterByLength(lines []model.Line) []model.Line {
	result := make([]model.Line, 0, len(lines))
	for _, line := range lines {
		if line.Length() >= gd.MinLineLength {
			result = append(result, line)
		}
	}
	return result
}

type lineCluster struct {
	horizontals []model.Line
	verticals   []model.Line
}

// connectedClusters groups lines that cross or touch, using union-find
// over horizontal/vertical intersections.
func (gd *GridDetector) connectedClusters(horizontals, verticals []model.Line) []lineCluster {
	n := len(horizontals) + len(verticals)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	tol := gd.AlignmentTolerance
	for i, h := range horizontals {
		hy := (h.Start.Y + h.End.Y) / 2
		hMin, hMax := math.Min(h.Start.X, h.End.X), math.Max(h.Start.X, h.End.X)
		for j, v := range verticals {
			vx := (v.Start.X + v.End.X) / 2
			vMin, vMax := math.Min(v.Start.Y, v.End.Y), math.Max(v.Start.Y, v.End.Y)
			if vx >= hMin-tol && vx <= hMax+tol && hy >= vMin-tol && hy <= vMax+tol {
				parent[find(i)] = find(len(horizontals) + j)
			}
		}
	}

	index := make(map[int]int)
	var clusters []lineCluster
	cluster := func(i int) *lineCluster {
		root := find(i)
		k, ok := index[root]
		if !ok {
			k = len(clusters)
			index[root] = k
			clusters = append(clusters, lineCluster{})
		}
		return &clusters[k]
	}
	for i, h := range horizontals {
		c := cluster(i)
		c.horizontals = append(c.horizontals, h)
	}
	for j, v := range verticals {
		c := cluster(len(horizontals) + j)
		c.verticals = append(c.verticals, v)
	}
	return clusters
}

// groupAlignedLines groups lines that are aligned on the same axis
func (gd *GridDetector) groupAlignedLines(lines []model.Line, isHorizontal bool) []AlignedLineGroup {
	if len(lines) == 0 {
		return nil
	}

	positions := make([]float64, len(lines))
	for i, line := range lines {
		if isHorizontal {
			positions[i] = (line.Start.Y + line.End.Y) / 2
		} else {
			positions[i] = (line.Start.X + line.End.X) / 2
		}
	}

	indices := make([]int, len(lines))
	for i := range indices {
		indices[i] = i
	}
	sort.Slice(indices, func(i, j int) bool {
		return positions[indices[i]] < positions[indices[j]]
	})

	var groups []AlignedLineGroup
	current := AlignedLineGroup{
		Position: positions[indices[0]],
		Lines:    []model.Line{lines[indices[0]]},
	}

	for _, idx := range indices[1:] {
		pos := positions[idx]

		if pos-current.Position <= gd.AlignmentTolerance {
			current.Lines = append(current.Lines, lines[idx])
			// running average of member positions
			current.Position = (current.Position*float64(len(current.Lines)-1) + pos) / float64(len(current.Lines))
			continue
		}

		finalizeGroup(&current, isHorizontal)
		groups = append(groups, current)
		current = AlignedLineGroup{
			Position: pos,
			Lines:    []model.Line{lines[idx]},
		}
	}

	finalizeGroup(&current, isHorizontal)
	groups = append(groups, current)

	return groups
}

func finalizeGroup(group *AlignedLineGroup, isHorizontal bool) {
	if len(group.Lines) == 0 {
		return
	}

	group.TotalLength = 0
	group.MinExtent = math.MaxFloat64
	group.MaxExtent = -math.MaxFloat64

	for _, line := range group.Lines {
		group.TotalLength += line.Length()

		var lo, hi float64
		if isHorizontal {
			lo, hi = math.Min(line.Start.X, line.End.X), math.Max(line.Start.X, line.End.X)
		} else {
			lo, hi = math.Min(line.Start.Y, line.End.Y), math.Max(line.Start.Y, line.End.Y)
		}
		group.MinExtent = math.Min(group.MinExtent, lo)
		group.MaxExtent = math.Max(group.MaxExtent, hi)
	}
}

// findGrids builds the grid spanned by the aligned line groups.
//
// For horizontal groups Position is Y and the extent is the X range; for
// vertical groups Position is X and the extent is the Y range.
func (gd *GridDetector) findGrids(hGroups, vGroups []AlignedLineGroup) []*Grid {
	gridLeft, gridRight := positionRange(vGroups)
	gridBottom, gridTop := positionRange(hGroups)

	if gridRight <= gridLeft || gridTop <= gridBottom {
		return nil
	}

	// Rules must span a significant portion of the grid
	relevantH := filterGroupsByExtent(hGroups, gridLeft, gridRight)
	relevantV := filterGroupsByExtent(vGroups, gridBottom, gridTop)

	if len(relevantH) < gd.MinAlignedLines || len(relevantV) < gd.MinAlignedLines {
		return nil
	}

	// top to bottom in PDF coords
	sort.Slice(relevantH, func(i, j int) bool {
		return relevantH[i].Position > relevantH[j].Position
	})
	sort.Slice(relevantV, func(i, j int) bool {
		return relevantV[i].Position < relevantV[j].Position
	})

	g := &Grid{
		BBox:            model.BBoxFromCorners(model.Point{X: gridLeft, Y: gridBottom}, model.Point{X: gridRight, Y: gridTop}),
		HorizontalLines: make([]float64, len(relevantH)),
		VerticalLines:   make([]float64, len(relevantV)),
		Rows:            len(relevantH) - 1,
		Cols:            len(relevantV) - 1,
	}
	for i, grp := range relevantH {
		g.HorizontalLines[i] = grp.Position
	}
	for i, grp := range relevantV {
		g.VerticalLines[i] = grp.Position
	}

	g.HasTopBorder = math.Abs(relevantH[0].Position-gridTop) < gd.AlignmentTolerance
	g.HasBottomBorder = math.Abs(relevantH[len(relevantH)-1].Position-gridBottom) < gd.AlignmentTolerance
	g.HasLeftBorder = math.Abs(relevantV[0].Position-gridLeft) < gd.AlignmentTolerance
	g.HasRightBorder = math.Abs(relevantV[len(relevantV)-1].Position-gridRight) < gd.AlignmentTolerance

	g.Confidence = calculateConfidence(g, relevantH, relevantV)

	if g.Rows < 1 || g.Cols < 1 {
		return nil
	}
	return []*Grid{g}
}

func positionRange(groups []AlignedLineGroup) (lo, hi float64) {
	if len(groups) == 0 {
		return 0, 0
	}
	lo, hi = groups[0].Position, groups[0].Position
	for _, g := range groups[1:] {
		lo = math.Min(lo, g.Position)
		hi = math.Max(hi, g.Position)
	}
	return lo, hi
}

// filterGroupsByExtent keeps groups covering at least half of [lo, hi].
func filterGroupsByExtent(groups []AlignedLineGroup, lo, hi float64) []AlignedLineGroup {
	var result []AlignedLineGroup
	required := (hi - lo) * 0.5

	for _, g := range groups {
		if g.MaxExtent-g.MinExtent < required {
			continue
		}
		if math.Min(g.MaxExtent, hi) > math.Max(g.MinExtent, lo) {
			result = append(result, g)
		}
	}
	return result
}

// calculateConfidence scores a grid on cell count, spacing regularity,
// border completeness and line coverage.
func calculateConfidence(g *Grid, hGroups, vGroups []AlignedLineGroup) float64 {
	score := 0.0

	cellCount := g.Rows * g.Cols
	if cellCount >= 4 {
		score += 0.2
	}
	if cellCount >= 9 {
		score += 0.1
	}

	score += calculateRegularity(g) * 0.3

	borders := 0.0
	for _, ok := range []bool{g.HasTopBorder, g.HasBottomBorder, g.HasLeftBorder, g.HasRightBorder} {
		if ok {
			borders += 0.25
		}
	}
	score += borders * 0.2

	expected := float64(len(g.HorizontalLines) + len(g.VerticalLines))
	if expected > 0 {
		score += math.Min(1.0, float64(len(hGroups)+len(vGroups))/expected) * 0.2
	}

	return math.Min(1.0, score)
}

// calculateRegularity measures how regular the grid spacing is
func calculateRegularity(g *Grid) float64 {
	rowScore := 1.0
	if g.Rows > 1 {
		heights := make([]float64, g.Rows)
		for i := range heights {
			heights[i] = g.HorizontalLines[i] - g.HorizontalLines[i+1]
		}
		rowScore = math.Max(0, 1-coefficientOfVariation(heights))
	}

	colScore := 1.0
	if g.Cols > 1 {
		widths := make([]float64, g.Cols)
		for i := range widths {
			widths[i] = g.VerticalLines[i+1] - g.VerticalLines[i]
		}
		colScore = math.Max(0, 1-coefficientOfVariation(widths))
	}

	return (rowScore + colScore) / 2
}

// coefficientOfVariation calculates CV (std dev / mean)
func coefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	m := 0.0
	for _, v := range values {
		m += v
	}
	m /= float64(len(values))
	if m == 0 {
		return 0
	}

	v := 0.0
	for _, val := range values {
		diff := val - m
		v += diff * diff
	}
	v /= float64(len(values))

	return math.Sqrt(v) / m
}
