package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rishia17/ecommerceweb/pkg/controller"
	"github.com/rishia17/ecommerceweb/pkg/types"
)

func price(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func renderPage(w io.Writer, snap controller.Snapshot) {
	if snap.Err != nil {
		fmt.Fprintf(w, "error: %v\n", snap.Err)
	}
	if len(snap.Products) == 0 {
		fmt.Fprintln(w, "No products found")
		return
	}
	for _, p := range snap.Visible {
		fmt.Fprintf(w, "%-8s %-30s %-12s %-10s %10s", p.ProductId, p.Name, p.Category, p.Brand, price(p.SalePrice()))
		if p.Discount > 0 {
			fmt.Fprintf(w, " (was %s, -%s%%)", price(p.Price), price(p.Discount))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Page %d of %d (%d products)\n", snap.Page, snap.TotalPages, len(snap.Products))
}

func renderProduct(w io.Writer, p types.Product) {
	fmt.Fprintf(w, "%s\n", p.Name)
	fmt.Fprintf(w, "  id:       %s\n", p.ProductId)
	fmt.Fprintf(w, "  category: %s\n", p.Category)
	fmt.Fprintf(w, "  brand:    %s\n", p.Brand)
	fmt.Fprintf(w, "  price:    %s\n", price(p.SalePrice()))
	if p.Discount > 0 {
		fmt.Fprintf(w, "  mrp:      %s (%s%% off)\n", price(p.Price), price(p.Discount))
	}
	fmt.Fprintf(w, "  rating:   %s/5\n", price(p.Rating))
	if len(p.ImageUrls) > 0 {
		fmt.Fprintf(w, "  images:   %s\n", strings.Join(p.ImageUrls, ", "))
	}
	if p.Description != "" {
		fmt.Fprintf(w, "\n%s\n", p.Description)
	}
}
