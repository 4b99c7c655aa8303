package parser

import (
	"bufio"
	"errors"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"partscan/internal/analyzer/models"
)

// ============================================================
// Markers
// ============================================================

// previewLimit caps how many points are kept for preview rendering.
const previewLimit = 100

var (
	productRe = regexp.MustCompile(`(?i)\bPRODUCT\s*\(`)
	pointRe   = regexp.MustCompile(`(?i)\bCARTESIAN_POINT\s*\((?:\s*'[^']*'\s*,)?\s*\(([^()]*)\)`)
	circleRe  = regexp.MustCompile(`(?i)\bCIRCLE\s*\(([^;]*)\)`)

	materialRe   = regexp.MustCompile(`(?i)mat(?:erial|ériau|eriau)`)
	annotationRe = regexp.MustCompile(`(?i)annotation|note|remarque|remark`)
)

var (
	materialMarkers   = []string{"material", "matériau", "materiau"}
	annotationMarkers = []string{"annotation", "note", "remark", "remarque"}
	toleranceMarkers  = []string{"tolerance", "tolérance"}
)

// ============================================================
// Bounding box
// ============================================================

type axis struct {
	min, max float64
}

func newAxis() axis {
	return axis{min: math.Inf(1), max: math.Inf(-1)}
}

func (a *axis) add(v float64) {
	a.min = math.Min(a.min, v)
	a.max = math.Max(a.max, v)
}

// set reports whether at least one value reached the axis.
func (a axis) set() bool {
	return a.min <= a.max
}

func (a axis) extent() float64 {
	if !a.set() {
		return 0
	}
	return math.Abs(a.max - a.min)
}

type BoundingBox struct {
	X, Y, Z axis
}

func NewBoundingBox() BoundingBox {
	return BoundingBox{X: newAxis(), Y: newAxis(), Z: newAxis()}
}

func (b *BoundingBox) Extend(p models.Point) {
	b.X.add(p.X)
	b.Y.add(p.Y)
	b.Z.add(p.Z)
}

// Empty is true when no point was ever added.
func (b BoundingBox) Empty() bool {
	return !b.X.set() && !b.Y.set() && !b.Z.set()
}

// Extents returns |max-min| per axis, 0 for unset axes.
func (b BoundingBox) Extents() [3]float64 {
	return [3]float64{b.X.extent(), b.Y.extent(), b.Z.extent()}
}

// ============================================================
// Accumulator
// ============================================================

// accumulator collects raw scan results; it is consumed once by derive.
type accumulator struct {
	productName  string
	materialHint string
	annotations  []string
	tolerances   []string
	circleRadii  []float64
	bbox         BoundingBox
	points       []models.Point
	pointCount   int
	keywords     keywordSet
}

func newAccumulator() *accumulator {
	return &accumulator{
		annotations: []string{},
		tolerances:  []string{},
		circleRadii: []float64{},
		bbox:        NewBoundingBox(),
	}
}

// feed processes a single line. Malformed content is skipped.
func (a *accumulator) feed(line string) {
	lower := strings.ToLower(line)
	a.keywords.observe(lower)

	if a.productName == "" {
		if loc := productRe.FindStringIndex(line); loc != nil {
			if name, ok := valueAfter(line, loc[1], nil); ok {
				a.productName = name
			}
		}
	}

	if a.materialHint == "" {
		if at := markerAt(line, materialRe, materialMarkers); at >= 0 {
			if hint, ok := valueAfter(line, at, materialMarkers); ok {
				a.materialHint = hint
			}
		}
	}

	if at := markerAt(line, annotationRe, annotationMarkers); at >= 0 {
		if note, ok := valueAfter(line, at, annotationMarkers); ok {
			a.annotations = append(a.annotations, note)
			if containsAny(strings.ToLower(note), toleranceMarkers) {
				a.tolerances = append(a.tolerances, note)
			}
		}
	}

	if m := pointRe.FindStringSubmatch(line); m != nil {
		coords, ok := parseCoords(m[1])
		if ok && len(coords) >= 3 && finite(coords[:3]...) {
			p := models.Point{X: coords[0], Y: coords[1], Z: coords[2]}
			a.bbox.Extend(p)
			a.pointCount++
			if len(a.points) < previewLimit {
				a.points = append(a.points, p)
			}
		}
	}

	if m := circleRe.FindStringSubmatch(line); m != nil {
		if r, ok := trailingNumber(m[1]); ok && r > 0 {
			a.circleRadii = append(a.circleRadii, r)
		}
	}
}

func trailingNumber(args string) (float64, bool) {
	parts := strings.Split(args, ",")
	last := strings.TrimSpace(parts[len(parts)-1])
	v, err := strconv.ParseFloat(last, 64)
	if err != nil || !finite(v) {
		return 0, false
	}
	return v, true
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ============================================================
// Scanner
// ============================================================

// scan performs a single forward pass over r. Only read failures are returned.
func scan(r io.Reader) (*accumulator, error) {
	acc := newAccumulator()
	br := bufio.NewReader(r)

	for {
		line, err := br.ReadString('\n')
		if line != "" {
			acc.feed(strings.TrimRight(line, "\r\n"))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return acc, nil
			}
			return nil, &ReadError{Err: err}
		}
	}
}
