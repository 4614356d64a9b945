// Package backend answers the catalog and cart endpoints the storefront
// consumes, over an in-memory product list. It backs the catalog-stub binary
// and the client tests.
package backend

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/rishia17/ecommerceweb/pkg/catalog"
	"github.com/rishia17/ecommerceweb/pkg/common"
	"github.com/rishia17/ecommerceweb/pkg/common/jsoncompat"
	"github.com/rishia17/ecommerceweb/pkg/types"
)

const (
	InvalidTokenMessage    = "invalid token"
	ProductNotFoundMessage = "product not found"
	BadRequestMessage      = "invalid request"
)

// TokenCheck tells whether a bearer token may call the api of a role.
type TokenCheck func(token string, role types.Role) bool

type Server struct {
	Storage   CartStorage
	Authorize TokenCheck

	mu       sync.RWMutex
	products types.ProductList
	calls    map[string]int
}

func NewServer(products types.ProductList, storage CartStorage) *Server {
	if storage == nil {
		storage = NewMemoryCartStorage()
	}
	return &Server{
		Storage:  storage,
		products: products,
		calls:    make(map[string]int),
	}
}

// SetProducts replaces the catalog.
func (s *Server) SetProducts(products types.ProductList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
}

func (s *Server) Products() types.ProductList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products
}

// Calls is the number of requests seen for an endpoint name:
// "products", "product-filter" or "cart".
func (s *Server) Calls(endpoint string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[endpoint]
}

func (s *Server) record(endpoint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[endpoint]++
}

func bearer(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

func (s *Server) authorized(r *http.Request, role types.Role) bool {
	token := bearer(r)
	if token == "" {
		return false
	}
	if s.Authorize == nil {
		return true
	}
	return s.Authorize(token, role)
}

var errUnknownApi = errors.New("unknown api")

func roleFromPath(r *http.Request) (types.Role, error) {
	api := r.PathValue("api")
	name, found := strings.CutSuffix(api, "-api")
	role := types.Role(name)
	if !found || !role.Valid() {
		return "", errUnknownApi
	}
	return role, nil
}

func (s *Server) GetProducts(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	s.record("products")
	role, err := roleFromPath(r)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return enc.Encode(catalog.Response{Message: err.Error()})
	}
	if !s.authorized(r, role) {
		return enc.Encode(catalog.Response{Message: InvalidTokenMessage})
	}
	return enc.Encode(catalog.Response{
		Message: catalog.AllProductsMessage,
		Payload: s.Products(),
	})
}

func (s *Server) FilterProducts(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	s.record("product-filter")
	role, err := roleFromPath(r)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return enc.Encode(catalog.Response{Message: err.Error()})
	}
	if !s.authorized(r, role) {
		return enc.Encode(catalog.Response{Message: InvalidTokenMessage})
	}
	var req types.FilterRequest
	if err = jsoncompat.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return enc.Encode(catalog.Response{Message: BadRequestMessage})
	}
	return enc.Encode(catalog.Response{
		Message: catalog.FilteredProductsMessage,
		Payload: req.Criteria().Apply(s.Products()),
	})
}

func (s *Server) AddToCart(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	s.record("cart")
	if !s.authorized(r, types.RoleUser) {
		return enc.Encode(catalog.Response{Message: InvalidTokenMessage})
	}
	var entry types.CartEntry
	if err := jsoncompat.NewDecoder(r.Body).Decode(&entry); err != nil || entry.UserName == "" {
		w.WriteHeader(http.StatusBadRequest)
		return enc.Encode(catalog.Response{Message: BadRequestMessage})
	}
	if _, ok := s.Products().Find(entry.ProductId); !ok {
		return enc.Encode(catalog.Response{Message: ProductNotFoundMessage})
	}
	if err := s.Storage.AddItem(entry); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return enc.Encode(catalog.Response{Message: err.Error()})
	}
	return enc.Encode(catalog.Response{Message: catalog.ProductAddedMessage})
}

func (s *Server) Handler() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{api}/products", common.JsonHandler(s.GetProducts))
	mux.HandleFunc("POST /{api}/product-filter", common.JsonHandler(s.FilterProducts))
	mux.HandleFunc("POST /user-api/cart", common.JsonHandler(s.AddToCart))
	mux.HandleFunc("OPTIONS /", common.RespondToOptions)
	return mux
}
