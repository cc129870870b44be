// Package landtax computes provincial land transfer tax from a marginal
// bracket schedule.
package landtax

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
)

// DefaultRegion names the province modelled by Default.
const DefaultRegion = "Manitoba"

// Bracket is one band of a marginal schedule. A price above Floor is taxed
// Base plus Rate times the excess over Floor.
type Bracket struct {
	Floor float64 `json:"floor" yaml:"floor" mapstructure:"floor"`
	Base  float64 `json:"base" yaml:"base" mapstructure:"base"`
	Rate  float64 `json:"rate" yaml:"rate" mapstructure:"rate"`
}

// Schedule is an ordered set of brackets for one region.
type Schedule struct {
	Region   string    `json:"region" yaml:"region" mapstructure:"region"`
	Brackets []Bracket `json:"brackets" yaml:"brackets" mapstructure:"brackets"`
}

// Default returns the schedule used by the estimate form:
//
//	price ≤ 50,000:            price × 0.5%
//	50,000 < price ≤ 100,000:  50 + 1% over 50,000
//	100,000 < price ≤ 150,000: 550 + 1.5% over 100,000
//	150,000 < price ≤ 200,000: 1,300 + 2% over 150,000
//	price > 200,000:           2,300 + 2.5% over 200,000
func Default() Schedule {
	return Schedule{
		Region: DefaultRegion,
		Brackets: []Bracket{
			{Floor: 0, Base: 0, Rate: 0.005},
			{Floor: 50000, Base: 50, Rate: 0.01},
			{Floor: 100000, Base: 550, Rate: 0.015},
			{Floor: 150000, Base: 1300, Rate: 0.02},
			{Floor: 200000, Base: 2300, Rate: 0.025},
		},
	}
}

// Tax returns the land transfer tax owed on price. Prices at or below zero
// owe nothing, as does any price under an empty schedule.
func (s Schedule) Tax(price float64) float64 {
	if !(price > 0) {
		return 0
	}

	for i := len(s.Brackets) - 1; i >= 0; i-- {
		bracket := s.Brackets[i]
		if price > bracket.Floor {
			return bracket.Base + (price-bracket.Floor)*bracket.Rate
		}
	}
	return 0
}

// Label is the human-readable name of the tax, e.g. "Manitoba Land Transfer Tax".
func (s Schedule) Label() string {
	region := strings.TrimSpace(s.Region)
	if region == "" {
		return "Land Transfer Tax"
	}
	return region + " Land Transfer Tax"
}

// Validate checks that the schedule starts at zero, has strictly ascending
// floors and carries no negative base or rate.
func (s Schedule) Validate() error {
	if len(s.Brackets) == 0 {
		return errors.New("land transfer tax schedule has no brackets")
	}
	if s.Brackets[0].Floor != 0 {
		return fmt.Errorf("first bracket must start at 0, got %.2f", s.Brackets[0].Floor)
	}

	for i, bracket := range s.Brackets {
		if bracket.Base < 0 {
			return fmt.Errorf("bracket %d has negative base %.2f", i+1, bracket.Base)
		}
		if bracket.Rate < 0 {
			return fmt.Errorf("bracket %d has negative rate %.4f", i+1, bracket.Rate)
		}
		if i > 0 && bracket.Floor <= s.Brackets[i-1].Floor {
			return fmt.Errorf("bracket %d floor %.2f is not above previous floor %.2f",
				i+1, bracket.Floor, s.Brackets[i-1].Floor)
		}
	}
	return nil
}

// Normalize returns a copy of the schedule with brackets sorted by floor.
func (s Schedule) Normalize() Schedule {
	brackets := append([]Bracket(nil), s.Brackets...)
	sort.SliceStable(brackets, func(i, j int) bool {
		return brackets[i].Floor < brackets[j].Floor
	})
	return Schedule{Region: strings.TrimSpace(s.Region), Brackets: brackets}
}

// Discontinuities reports every bracket floor where the tax jumps by more
// than tolerance, i.e. where the bracket's base differs from what the
// bracket below accumulates at that floor.
func (s Schedule) Discontinuities(tolerance float64) []float64 {
	var floors []float64
	for i := 1; i < len(s.Brackets); i++ {
		below := s.Brackets[i-1]
		accumulated := below.Base + (s.Brackets[i].Floor-below.Floor)*below.Rate
		if !mathutil.WithinTolerance(accumulated, s.Brackets[i].Base, tolerance) {
			floors = append(floors, s.Brackets[i].Floor)
		}
	}
	return floors
}
