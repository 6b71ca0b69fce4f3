package services

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"

	"airbnb-area-scraper/models"
)

// ErrInvalidPartition flags a degenerate box or a non-positive subdivision
// factor. It is fatal to that partition call, never to the whole run.
var ErrInvalidPartition = errors.New("invalid partition")

// CellIndex addresses one cell of a partition grid, zero-based.
type CellIndex struct {
	Row, Col int
}

// SubGrid is the subdivision factor applied to one refined cell.
type SubGrid struct {
	Rows, Cols int
}

// Partition divides box into rows*cols equal cells by linear interpolation
// along latitude and longitude independently. Cells tile the box exactly and
// are labeled "Area_<i+1>_<j+1>" so repeated runs produce stable output.
func Partition(box models.BoundingBox, rows, cols int) ([]models.BoundingBox, error) {
	return split(box, rows, cols, "Area")
}

// Subdivide re-partitions a single grid cell, labeling children so both the
// parent and child indices stay visible ("Area_4_2_Sub_1_1"). Applying it to
// its own output nests another "_Sub" level.
func Subdivide(cell models.BoundingBox, rows, cols int) ([]models.BoundingBox, error) {
	return split(cell, rows, cols, cell.Name+"_Sub")
}

func split(box models.BoundingBox, rows, cols int, prefix string) ([]models.BoundingBox, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d grid", ErrInvalidPartition, rows, cols)
	}
	if box.Degenerate() {
		return nil, fmt.Errorf("%w: degenerate box %q", ErrInvalidPartition, box.Name)
	}

	bound := box.Bound()
	latStep := (bound.Max.Lat() - bound.Min.Lat()) / float64(rows)
	longStep := (bound.Max.Lon() - bound.Min.Lon()) / float64(cols)

	cells := make([]models.BoundingBox, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			cell := orb.Bound{
				Min: orb.Point{
					bound.Min.Lon() + float64(j)*longStep,
					bound.Min.Lat() + float64(i)*latStep,
				},
				Max: orb.Point{
					bound.Min.Lon() + float64(j+1)*longStep,
					bound.Min.Lat() + float64(i+1)*latStep,
				},
			}
			cells = append(cells,
				models.BoxFromBound(cell, fmt.Sprintf("%s_%d_%d", prefix, i+1, j+1)))
		}
	}
	return cells, nil
}

// BuildSearchGrid partitions box and re-partitions the cells named in
// overrides. Search backends cap the number of results per query, so a cell
// whose listing density exceeds the cap needs a finer grid; which cells those
// are is empirical and therefore an input here, never inferred.
func BuildSearchGrid(box models.BoundingBox, rows, cols int, overrides map[CellIndex]SubGrid) ([]models.BoundingBox, error) {
	for idx := range overrides {
		if idx.Row < 0 || idx.Row >= rows || idx.Col < 0 || idx.Col >= cols {
			return nil, fmt.Errorf("%w: refinement (%d,%d) outside %dx%d grid",
				ErrInvalidPartition, idx.Row, idx.Col, rows, cols)
		}
	}

	cells, err := Partition(box, rows, cols)
	if err != nil {
		return nil, err
	}

	out := make([]models.BoundingBox, 0, len(cells))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			cell := cells[i*cols+j]
			sub, ok := overrides[CellIndex{Row: i, Col: j}]
			if !ok {
				out = append(out, cell)
				continue
			}
			subCells, err := Subdivide(cell, sub.Rows, sub.Cols)
			if err != nil {
				return nil, err
			}
			out = append(out, subCells...)
		}
	}
	return out, nil
}
