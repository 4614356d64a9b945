package types

import (
	"fmt"
	"math"
)

type Product struct {
	ProductId   string   `json:"productId"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Price       float64  `json:"price"`
	Discount    float64  `json:"discount"`
	Rating      float64  `json:"rating"`
	ImageUrls   []string `json:"imageUrls"`
	Description string   `json:"description"`
}

// ProductList keeps the order the backend returned.
type ProductList []Product

// SalePrice is the price after discount rounded down to whole currency units.
func (p *Product) SalePrice() float64 {
	sale := math.Floor(p.Price - p.Price*(p.Discount/100))
	if math.IsNaN(sale) {
		return 0
	}
	return sale
}

// MainImage is the first image, used as thumbnail.
func (p *Product) MainImage() string {
	if len(p.ImageUrls) == 0 {
		return ""
	}
	return p.ImageUrls[0]
}

func (p *Product) Validate() error {
	if p.ProductId == "" {
		return fmt.Errorf("product without id")
	}
	if p.Price < 0 {
		return fmt.Errorf("product %s: negative price %v", p.ProductId, p.Price)
	}
	if p.Discount < 0 || p.Discount > 100 {
		return fmt.Errorf("product %s: discount %v out of range", p.ProductId, p.Discount)
	}
	if p.Rating < 0 || p.Rating > 5 {
		return fmt.Errorf("product %s: rating %v out of range", p.ProductId, p.Rating)
	}
	if len(p.ImageUrls) == 0 {
		return fmt.Errorf("product %s: no images", p.ProductId)
	}
	return nil
}

func (l ProductList) Find(productId string) (*Product, bool) {
	for i := range l {
		if l[i].ProductId == productId {
			return &l[i], true
		}
	}
	return nil, false
}

func (l ProductList) Ids() []string {
	ids := make([]string, len(l))
	for i := range l {
		ids[i] = l[i].ProductId
	}
	return ids
}

// Validate checks every product and that ids are unique.
func (l ProductList) Validate() error {
	seen := make(map[string]struct{}, len(l))
	for i := range l {
		if err := l[i].Validate(); err != nil {
			return err
		}
		if _, ok := seen[l[i].ProductId]; ok {
			return fmt.Errorf("duplicate product id %s", l[i].ProductId)
		}
		seen[l[i].ProductId] = struct{}{}
	}
	return nil
}
