package types

import (
	"errors"
	"math"
	"slices"
	"strings"
)

// AllValues selects every value on an axis.
const AllValues = "All"

const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 30000
)

var ErrInvalidRange = errors.New("invalid price range")

type Axis string

const (
	AxisCategory Axis = "category"
	AxisBrand    Axis = "brand"
	AxisPrice    Axis = "price"
)

// Selection is a set of facet values. It is kept sorted, without duplicates
// and without blank entries so two selections are equal when their slices are.
type Selection []string

func NewSelection(values ...string) Selection {
	result := make(Selection, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		result = append(result, v)
	}
	slices.Sort(result)
	return slices.Compact(result)
}

func (s Selection) Has(value string) bool {
	_, found := slices.BinarySearch(s, value)
	return found
}

// Toggle adds value when missing and removes it when present.
// Blank values leave the selection unchanged.
func (s Selection) Toggle(value string) Selection {
	value = strings.TrimSpace(value)
	if value == "" {
		return slices.Clone(s)
	}
	if s.Has(value) {
		return slices.DeleteFunc(slices.Clone(s), func(v string) bool {
			return v == value
		})
	}
	return NewSelection(append(slices.Clone(s), value)...)
}

// Unrestricted reports whether the selection lets every value through.
// An empty selection counts as unrestricted.
func (s Selection) Unrestricted() bool {
	return len(s) == 0 || s.Has(AllValues)
}

func (s Selection) Allows(value string) bool {
	return s.Unrestricted() || s.Has(value)
}

func (s Selection) Equal(other Selection) bool {
	return slices.Equal(s, other)
}

// Values never returns nil, the backend expects arrays.
func (s Selection) Values() []string {
	if s == nil {
		return []string{}
	}
	return []string(s)
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r PriceRange) Valid() bool {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return false
	}
	return r.Min >= 0 && r.Max >= 0 && r.Min <= r.Max
}

func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

type FilterCriteria struct {
	Categories Selection  `json:"categories"`
	Brands     Selection  `json:"brands"`
	Price      PriceRange `json:"priceRange"`
}

func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		Categories: Selection{},
		Brands:     Selection{},
		Price:      PriceRange{Min: DefaultMinPrice, Max: DefaultMaxPrice},
	}
}

func (c FilterCriteria) Validate() error {
	if !c.Price.Valid() {
		return ErrInvalidRange
	}
	return nil
}

func (c FilterCriteria) Equal(other FilterCriteria) bool {
	return c.Categories.Equal(other.Categories) &&
		c.Brands.Equal(other.Brands) &&
		c.Price == other.Price
}

// Selection returns the selection held on a set axis.
func (c FilterCriteria) Selection(axis Axis) (Selection, bool) {
	switch axis {
	case AxisCategory:
		return c.Categories, true
	case AxisBrand:
		return c.Brands, true
	}
	return nil, false
}

// WithSelection returns a copy with the axis replaced.
func (c FilterCriteria) WithSelection(axis Axis, s Selection) (FilterCriteria, bool) {
	switch axis {
	case AxisCategory:
		c.Categories = s
	case AxisBrand:
		c.Brands = s
	default:
		return c, false
	}
	return c, true
}

func (c FilterCriteria) Matches(p *Product) bool {
	if !c.Categories.Allows(p.Category) {
		return false
	}
	if !c.Brands.Allows(p.Brand) {
		return false
	}
	return c.Price.Contains(p.Price)
}

// Apply keeps the products matching every axis, preserving order.
func (c FilterCriteria) Apply(list ProductList) ProductList {
	result := make(ProductList, 0, len(list))
	for i := range list {
		if c.Matches(&list[i]) {
			result = append(result, list[i])
		}
	}
	return result
}

// FilterRequest is the body of a server side filter request.
type FilterRequest struct {
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
	MinPrice   float64  `json:"minPrice"`
	MaxPrice   float64  `json:"maxPrice"`
}

func (c FilterCriteria) Request() FilterRequest {
	return FilterRequest{
		Categories: c.Categories.Values(),
		Brands:     c.Brands.Values(),
		MinPrice:   c.Price.Min,
		MaxPrice:   c.Price.Max,
	}
}

func (r FilterRequest) Criteria() FilterCriteria {
	return FilterCriteria{
		Categories: NewSelection(r.Categories...),
		Brands:     NewSelection(r.Brands...),
		Price:      PriceRange{Min: r.MinPrice, Max: r.MaxPrice},
	}
}
