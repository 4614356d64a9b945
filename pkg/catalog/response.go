package catalog

import "github.com/rishia17/ecommerceweb/pkg/types"

// Status tags the backend puts in the message field on success.
const (
	AllProductsMessage      = "all products"
	FilteredProductsMessage = "filtered products"
	ProductAddedMessage     = "product added"
)

// Response is the envelope every backend endpoint answers with.
type Response struct {
	Message string            `json:"message"`
	Payload types.ProductList `json:"payload,omitempty"`
}
