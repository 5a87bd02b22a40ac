package qmap

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// QPoint is one pixel of a 2D q-map placed in (qx, qy) space
type QPoint struct {
	QX, QY   float64
	Row, Col int
}

// Compare implements the kdtree.Comparable interface
func (p QPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(QPoint)
	switch d {
	case 0:
		return p.QX - q.QX
	case 1:
		return p.QY - q.QY
	default:
		panic("illegal dimension")
	}
}

// Dims returns the number of dimensions for the KD-tree
func (p QPoint) Dims() int { return 2 }

// Distance returns the squared Euclidean distance in q-space
func (p QPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(QPoint)
	dx := p.QX - q.QX
	dy := p.QY - q.QY
	return dx*dx + dy*dy
}

// QPoints is a collection of QPoint that satisfies kdtree.Interface
type QPoints []QPoint

func (p QPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p QPoints) Len() int                              { return len(p) }
func (p QPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Pivot implements the kdtree.Interface method
func (p QPoints) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(qPlane{QPoints: p, Dim: d}, kdtree.MedianOfRandoms(qPlane{QPoints: p, Dim: d}, 100))
}

// qPlane implements sort.Interface and kdtree.SortSlicer for QPoints
type qPlane struct {
	QPoints
	kdtree.Dim
}

func (p qPlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.QPoints[i].QX < p.QPoints[j].QX
	case 1:
		return p.QPoints[i].QY < p.QPoints[j].QY
	default:
		panic("illegal dimension")
	}
}

func (p qPlane) Slice(start, end int) kdtree.SortSlicer {
	return qPlane{QPoints: p.QPoints[start:end], Dim: p.Dim}
}

func (p qPlane) Swap(i, j int) {
	p.QPoints[i], p.QPoints[j] = p.QPoints[j], p.QPoints[i]
}

// Locator finds the pixel whose (qx, qy) is closest to a q-space point on a
// full 2D q-map, where the 1D per-axis search is not valid (tilted detectors).
type Locator struct {
	tree *kdtree.Tree
	size int
}

// NewLocator indexes every finite pixel of the qx/qy matrices. The matrices
// must share a shape; mismatched or ragged input yields an empty locator.
func NewLocator(qx, qy [][]float64) *Locator {
	if !isRectangular(qx) || !isRectangular(qy) || len(qx) != len(qy) || len(qx[0]) != len(qy[0]) {
		return &Locator{}
	}

	points := make(QPoints, 0, len(qx)*len(qx[0]))
	for r := range qx {
		for c := range qx[r] {
			x, y := qx[r][c], qy[r][c]
			if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
				continue
			}
			points = append(points, QPoint{QX: x, QY: y, Row: r, Col: c})
		}
	}
	if len(points) == 0 {
		return &Locator{}
	}
	return &Locator{tree: kdtree.New(points, false), size: len(points)}
}

// Len returns the number of indexed pixels
func (l *Locator) Len() int {
	return l.size
}

// Nearest returns the pixel closest to (qx, qy). ok is false when the
// locator is empty.
func (l *Locator) Nearest(qx, qy float64) (row, col int, ok bool) {
	if l.tree == nil || l.size == 0 {
		return 0, 0, false
	}
	got, _ := l.tree.Nearest(QPoint{QX: qx, QY: qy})
	if got == nil {
		return 0, 0, false
	}
	p := got.(QPoint)
	return p.Row, p.Col, true
}

// Meshgrid expands per-axis q-vectors into per-pixel matrices: qx varies
// along the columns, qy down the rows. Either vector empty gives nil.
func Meshgrid(qxVector, qyVector []float64) (qx, qy [][]float64) {
	if len(qxVector) == 0 || len(qyVector) == 0 {
		return nil, nil
	}
	qx = make([][]float64, len(qyVector))
	qy = make([][]float64, len(qyVector))
	for r, y := range qyVector {
		qx[r] = append([]float64(nil), qxVector...)
		qy[r] = make([]float64, len(qxVector))
		for c := range qy[r] {
			qy[r][c] = y
		}
	}
	return qx, qy
}
