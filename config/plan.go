package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"airbnb-area-scraper/models"
)

// Area plan validation errors.
var (
	ErrPlanMissingArea      = errors.New("plan: area bounding box is required")
	ErrPlanDegenerateArea   = errors.New("plan: area box has zero extent")
	ErrPlanInvalidGrid      = errors.New("plan: grid rows and cols must be positive")
	ErrPlanInvalidRefine    = errors.New("plan: refinement rows and cols must be positive")
	ErrPlanRefineOutOfRange = errors.New("plan: refinement cell outside the grid")
)

// AreaPlan is the declarative description of one area search run: the
// target bounding box, the grid factor, which cells get a finer grid, and
// the search filters forwarded to the collaborator.
type AreaPlan struct {
	Area models.BoundingBox `yaml:"area"`

	Grid struct {
		Rows int `yaml:"rows"`
		Cols int `yaml:"cols"`
	} `yaml:"grid"`

	Refine []Refinement `yaml:"refine"`

	Filters PlanFilters `yaml:"filters"`
}

// Refinement re-partitions one grid cell. Row and Col are 1-based, matching
// the Area_<row>_<col> cell labels in the output.
type Refinement struct {
	Row  int `yaml:"row"`
	Col  int `yaml:"col"`
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// PlanFilters are the search parameters passed through to every cell query.
type PlanFilters struct {
	CheckIn   string   `yaml:"check_in"`
	CheckOut  string   `yaml:"check_out"`
	Currency  string   `yaml:"currency"`
	Language  string   `yaml:"language"`
	PriceMin  int      `yaml:"price_min"`
	PriceMax  int      `yaml:"price_max"`
	PlaceType string   `yaml:"place_type"`
	Amenities []string `yaml:"amenities"`
	Zoom      int      `yaml:"zoom"`
}

// LoadAreaPlan reads and validates an area plan file.
func LoadAreaPlan(path string) (*AreaPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plan: read %q: %w", path, err)
	}

	plan := &AreaPlan{}
	plan.Grid.Rows = 4
	plan.Grid.Cols = 4
	plan.Filters.Currency = "USD"
	plan.Filters.Language = "en"
	plan.Filters.Zoom = 17

	if err := yaml.Unmarshal(data, plan); err != nil {
		return nil, fmt.Errorf("plan: parse %q: %w", path, err)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// Validate checks the plan's geometry and refinement indices.
func (p *AreaPlan) Validate() error {
	zero := models.BoundingBox{}
	zero.Name = p.Area.Name
	if p.Area == zero {
		return ErrPlanMissingArea
	}
	if p.Area.Degenerate() {
		return fmt.Errorf("%w: %s", ErrPlanDegenerateArea, p.Area)
	}
	if p.Grid.Rows <= 0 || p.Grid.Cols <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrPlanInvalidGrid, p.Grid.Rows, p.Grid.Cols)
	}
	for _, r := range p.Refine {
		if r.Rows <= 0 || r.Cols <= 0 {
			return fmt.Errorf("%w: cell (%d,%d) got %dx%d",
				ErrPlanInvalidRefine, r.Row, r.Col, r.Rows, r.Cols)
		}
		if r.Row < 1 || r.Row > p.Grid.Rows || r.Col < 1 || r.Col > p.Grid.Cols {
			return fmt.Errorf("%w: cell (%d,%d) in a %dx%d grid",
				ErrPlanRefineOutOfRange, r.Row, r.Col, p.Grid.Rows, p.Grid.Cols)
		}
	}
	return nil
}
