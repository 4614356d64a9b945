package cart

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rishia17/ecommerceweb/pkg/catalog"
	"github.com/rishia17/ecommerceweb/pkg/common/jsoncompat"
	"github.com/rishia17/ecommerceweb/pkg/session"
	"github.com/rishia17/ecommerceweb/pkg/types"
)

var (
	cartAdds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_add_total",
		Help: "The total number of add to cart requests by outcome",
	}, []string{"outcome"})
)

type Dispatcher struct {
	baseUrl string
	client  *http.Client
}

func NewDispatcher(baseUrl string, sess *session.Context, client *http.Client) *Dispatcher {
	if sess == nil {
		sess = session.Anonymous()
	}
	return &Dispatcher{
		baseUrl: strings.TrimRight(baseUrl, "/"),
		client:  sess.Client(client),
	}
}

// AddToCart posts one cart entry for a logged in shopper. Anyone else is
// ignored without a request. Repeated calls add the product again.
func (d *Dispatcher) AddToCart(ctx context.Context, user types.UserContext, productId string) error {
	if !user.CanAddToCart() {
		cartAdds.WithLabelValues("skipped").Inc()
		return nil
	}
	err := d.post(ctx, types.CartEntry{UserName: user.CurrentUser.UserName, ProductId: productId})
	outcome := "ok"
	if err != nil {
		outcome = err.(*CartError).Kind.String()
	}
	cartAdds.WithLabelValues(outcome).Inc()
	return err
}

func (d *Dispatcher) post(ctx context.Context, entry types.CartEntry) error {
	body, err := jsoncompat.Marshal(entry)
	if err != nil {
		return &CartError{Kind: types.Transport, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseUrl+"/"+types.RoleUser.ApiPrefix()+"/cart", bytes.NewReader(body))
	if err != nil {
		return &CartError{Kind: types.Transport, Err: err}
	}
	requestId := uuid.New().String()
	req.Header.Set(catalog.RequestIdHeader, requestId)
	req.Header.Set("Content-Type", "application/json")

	res, err := d.client.Do(req)
	if err != nil {
		log.Printf("cart request %s failed: %v", requestId, err)
		return &CartError{Kind: types.Transport, Err: err}
	}
	defer res.Body.Close()

	var envelope catalog.Response
	if err = catalog.ReadEnvelope(res, &envelope); err != nil {
		log.Printf("cart request %s: %v", requestId, err)
		return &CartError{Kind: types.Transport, Err: err}
	}
	if envelope.Message != catalog.ProductAddedMessage {
		log.Printf("cart request %s rejected: %s", requestId, envelope.Message)
		return &CartError{Kind: types.BackendRejected, Message: envelope.Message}
	}
	return nil
}
