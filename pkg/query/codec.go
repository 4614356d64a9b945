package query

import (
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
	"github.com/rishia17/ecommerceweb/pkg/types"
)

const (
	CategoryKey = "category"
	BrandKey    = "brand"
	MinPriceKey = "minPrice"
	MaxPriceKey = "maxPrice"
)

// Defaults used when a price key is missing or malformed in the url.
const (
	DecodeMinPrice = 0
	DecodeMaxPrice = 300000
)

type form struct {
	Category []string `schema:"category,omitempty"`
	Brand    []string `schema:"brand,omitempty"`
	MinPrice float64  `schema:"minPrice"`
	MaxPrice float64  `schema:"maxPrice"`
}

var decoder = schema.NewDecoder()
var encoder = schema.NewEncoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
	encoder.RegisterEncoder(float64(0), func(v reflect.Value) string {
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	})
}

// Encode writes criteria as a url query without the leading "?".
func Encode(c types.FilterCriteria) string {
	values := url.Values{}
	f := form{
		Category: c.Categories,
		Brand:    c.Brands,
		MinPrice: c.Price.Min,
		MaxPrice: c.Price.Max,
	}
	if err := encoder.Encode(&f, values); err != nil {
		// only reachable for unsupported field types
		return ""
	}
	return values.Encode()
}

// Decode never fails, anything unreadable falls back to defaults.
func Decode(raw string) types.FilterCriteria {
	raw = strings.TrimPrefix(raw, "?")
	// ParseQuery keeps every pair it could read even when it reports an error
	values, _ := url.ParseQuery(raw)
	return DecodeValues(values)
}

func DecodeValues(values url.Values) types.FilterCriteria {
	f := form{
		Category: []string{},
		Brand:    []string{},
		MinPrice: DecodeMinPrice,
		MaxPrice: DecodeMaxPrice,
	}
	// conversion errors leave the field at its default
	_ = decoder.Decode(&f, exactKeys(values))

	if !validPrice(f.MinPrice) {
		f.MinPrice = DecodeMinPrice
	}
	if !validPrice(f.MaxPrice) {
		f.MaxPrice = DecodeMaxPrice
	}
	if f.MinPrice > f.MaxPrice {
		f.MinPrice = DecodeMinPrice
		f.MaxPrice = DecodeMaxPrice
	}
	return types.FilterCriteria{
		Categories: types.NewSelection(f.Category...),
		Brands:     types.NewSelection(f.Brand...),
		Price:      types.PriceRange{Min: f.MinPrice, Max: f.MaxPrice},
	}
}

// exactKeys drops keys that only match a field alias case-insensitively.
func exactKeys(values url.Values) url.Values {
	result := url.Values{}
	for _, key := range []string{CategoryKey, BrandKey, MinPriceKey, MaxPriceKey} {
		if v, ok := values[key]; ok {
			result[key] = v
		}
	}
	return result
}

func validPrice(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
