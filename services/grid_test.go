package services

import (
	"errors"
	"math"
	"testing"

	"airbnb-area-scraper/models"
)

func istanbulBox() models.BoundingBox {
	return models.BoundingBox{
		Name:   "Istanbul",
		SWLat:  41.03,
		SWLong: 28.97,
		NELat:  41.04,
		NELong: 28.98,
	}
}

func TestPartitionIstanbulScenario(t *testing.T) {
	cells, err := Partition(istanbulBox(), 4, 4)
	if err != nil {
		t.Fatalf("Partition returned error: %v", err)
	}
	if len(cells) != 16 {
		t.Fatalf("cell count: got %d, want 16", len(cells))
	}

	if cells[0].Name != "Area_1_1" {
		t.Errorf("first label: got %q, want Area_1_1", cells[0].Name)
	}
	if cells[15].Name != "Area_4_4" {
		t.Errorf("last label: got %q, want Area_4_4", cells[15].Name)
	}

	for _, c := range cells {
		latExtent := c.NELat - c.SWLat
		longExtent := c.NELong - c.SWLong
		if math.Abs(latExtent-0.0025) > 1e-9 || math.Abs(longExtent-0.0025) > 1e-9 {
			t.Errorf("%s extent: got %.6f x %.6f, want 0.0025 x 0.0025",
				c.Name, latExtent, longExtent)
		}
	}
}

func TestPartitionTilesExactly(t *testing.T) {
	box := istanbulBox()
	cells, err := Partition(box, 3, 5)
	if err != nil {
		t.Fatalf("Partition returned error: %v", err)
	}

	var total float64
	for _, c := range cells {
		total += c.Area()
	}
	if math.Abs(total-box.Area()) > 1e-12 {
		t.Errorf("area sum: got %.15f, want %.15f", total, box.Area())
	}

	for i := 0; i < len(cells); i++ {
		for j := i + 1; j < len(cells); j++ {
			if boxesOverlap(cells[i], cells[j]) {
				t.Errorf("cells %s and %s overlap", cells[i].Name, cells[j].Name)
			}
		}
	}

	// Corner cells pin the original box exactly.
	if cells[0].SWLat != box.SWLat || cells[0].SWLong != box.SWLong {
		t.Errorf("first cell does not start at box SW corner: %+v", cells[0])
	}
	last := cells[len(cells)-1]
	if math.Abs(last.NELat-box.NELat) > 1e-12 || math.Abs(last.NELong-box.NELong) > 1e-12 {
		t.Errorf("last cell does not end at box NE corner: %+v", last)
	}
}

func TestSubdivideTilesParentCell(t *testing.T) {
	cells, err := Partition(istanbulBox(), 4, 4)
	if err != nil {
		t.Fatalf("Partition returned error: %v", err)
	}
	parent := cells[5]

	children, err := Subdivide(parent, 2, 3)
	if err != nil {
		t.Fatalf("Subdivide returned error: %v", err)
	}
	if len(children) != 6 {
		t.Fatalf("child count: got %d, want 6", len(children))
	}

	if children[0].Name != parent.Name+"_Sub_1_1" {
		t.Errorf("child label: got %q, want %q", children[0].Name, parent.Name+"_Sub_1_1")
	}

	var total float64
	for _, c := range children {
		total += c.Area()
	}
	if math.Abs(total-parent.Area()) > 1e-12 {
		t.Errorf("child area sum %.18f != parent area %.18f", total, parent.Area())
	}
	for i := 0; i < len(children); i++ {
		for j := i + 1; j < len(children); j++ {
			if boxesOverlap(children[i], children[j]) {
				t.Errorf("children %s and %s overlap", children[i].Name, children[j].Name)
			}
		}
	}
}

func TestPartitionRejectsDegenerateInput(t *testing.T) {
	tests := []struct {
		name string
		box  models.BoundingBox
		rows int
		cols int
	}{
		{"zero rows", istanbulBox(), 0, 4},
		{"negative cols", istanbulBox(), 4, -1},
		{"zero-area box", models.BoundingBox{Name: "flat", SWLat: 41, SWLong: 29, NELat: 41, NELong: 30}, 2, 2},
		{"inverted box", models.BoundingBox{Name: "inv", SWLat: 42, SWLong: 29, NELat: 41, NELong: 30}, 2, 2},
	}

	for _, tt := range tests {
		_, err := Partition(tt.box, tt.rows, tt.cols)
		if !errors.Is(err, ErrInvalidPartition) {
			t.Errorf("%s: got %v, want ErrInvalidPartition", tt.name, err)
		}
	}
}

func TestBuildSearchGridRefinement(t *testing.T) {
	box := istanbulBox()
	overrides := map[CellIndex]SubGrid{
		{Row: 3, Col: 1}: {Rows: 2, Cols: 2},
	}

	cells, err := BuildSearchGrid(box, 4, 4, overrides)
	if err != nil {
		t.Fatalf("BuildSearchGrid returned error: %v", err)
	}

	// 16 cells, one replaced by its 4 children.
	if len(cells) != 19 {
		t.Fatalf("cell count: got %d, want 19", len(cells))
	}

	names := make(map[string]bool, len(cells))
	for _, c := range cells {
		names[c.Name] = true
	}
	if names["Area_4_2"] {
		t.Error("refined cell Area_4_2 should not appear as a leaf")
	}
	for _, want := range []string{"Area_4_2_Sub_1_1", "Area_4_2_Sub_2_2"} {
		if !names[want] {
			t.Errorf("missing refined cell %s", want)
		}
	}

	var total float64
	for _, c := range cells {
		total += c.Area()
	}
	if math.Abs(total-box.Area()) > 1e-12 {
		t.Errorf("refined grid area sum %.15f != box area %.15f", total, box.Area())
	}
}

func TestBuildSearchGridRejectsOutOfRangeOverride(t *testing.T) {
	overrides := map[CellIndex]SubGrid{
		{Row: 4, Col: 0}: {Rows: 2, Cols: 2},
	}
	_, err := BuildSearchGrid(istanbulBox(), 4, 4, overrides)
	if !errors.Is(err, ErrInvalidPartition) {
		t.Errorf("got %v, want ErrInvalidPartition", err)
	}
}

func boxesOverlap(a, b models.BoundingBox) bool {
	return a.SWLat < b.NELat && b.SWLat < a.NELat &&
		a.SWLong < b.NELong && b.SWLong < a.NELong
}
