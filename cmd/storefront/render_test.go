package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rishia17/ecommerceweb/pkg/controller"
	"github.com/rishia17/ecommerceweb/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestRenderEmptyPage(t *testing.T) {
	var buf bytes.Buffer
	renderPage(&buf, controller.Snapshot{Products: types.ProductList{}, Page: 1, TotalPages: 1})
	assert.Equal(t, "No products found\n", buf.String())
}

func TestRenderPage(t *testing.T) {
	list := types.ProductList{
		{ProductId: "1", Name: "Galaxy", Category: "Mobile", Brand: "samsung", Price: 999, Discount: 10},
		{ProductId: "2", Name: "Band", Category: "Watch", Brand: "boat", Price: 1999},
	}
	var buf bytes.Buffer
	renderPage(&buf, controller.Snapshot{Products: list, Visible: list, Page: 1, TotalPages: 1})
	out := buf.String()
	assert.Contains(t, out, "899 (was 999, -10%)")
	assert.Contains(t, out, "Band")
	assert.Contains(t, out, "Page 1 of 1 (2 products)")
}

func TestRenderPageShowsError(t *testing.T) {
	var buf bytes.Buffer
	renderPage(&buf, controller.Snapshot{Err: errors.New("catalog rejected: invalid token"), Products: types.ProductList{}})
	assert.Contains(t, buf.String(), "error: catalog rejected: invalid token")
	assert.Contains(t, buf.String(), "No products found")
}

func TestRenderProduct(t *testing.T) {
	var buf bytes.Buffer
	renderProduct(&buf, types.Product{
		ProductId:   "7",
		Name:        "iPad Air",
		Category:    "IPAD",
		Brand:       "iphone",
		Price:       50000,
		Discount:    5,
		Rating:      4.5,
		ImageUrls:   []string{"a.png", "b.png"},
		Description: "Thin.",
	})
	out := buf.String()
	assert.Contains(t, out, "price:    47500")
	assert.Contains(t, out, "mrp:      50000 (5% off)")
	assert.Contains(t, out, "rating:   4.5/5")
	assert.Contains(t, out, "images:   a.png, b.png")
	assert.Contains(t, out, "Thin.")
}
