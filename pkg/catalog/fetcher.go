package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rishia17/ecommerceweb/pkg/common/jsoncompat"
	"github.com/rishia17/ecommerceweb/pkg/session"
	"github.com/rishia17/ecommerceweb/pkg/types"
)

var (
	fetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_catalog_fetch_total",
		Help: "The total number of catalog fetches by role, mode and outcome",
	}, []string{"role", "mode", "outcome"})
)

const RequestIdHeader = "X-Request-Id"

// maxBody caps how much of a response is read.
const maxBody = 32 << 20

type Fetcher struct {
	baseUrl string
	client  *http.Client
}

// NewFetcher builds a fetcher against baseUrl, authenticating every call with
// the bearer credential of sess. A nil client uses http.DefaultClient.
func NewFetcher(baseUrl string, sess *session.Context, client *http.Client) *Fetcher {
	if sess == nil {
		sess = session.Anonymous()
	}
	return &Fetcher{
		baseUrl: strings.TrimRight(baseUrl, "/"),
		client:  sess.Client(client),
	}
}

func (f *Fetcher) FetchAll(ctx context.Context, role types.Role) (types.ProductList, error) {
	if !role.Valid() {
		return nil, &FetchError{Kind: types.Unauthorized, Message: fmt.Sprintf("unknown role %q", role)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url(role, "products"), nil)
	if err != nil {
		return nil, transportError(err)
	}
	list, err := f.do(req, AllProductsMessage)
	count(role, "all", err)
	return list, err
}

func (f *Fetcher) FetchFiltered(ctx context.Context, role types.Role, criteria types.FilterCriteria) (types.ProductList, error) {
	if !role.Valid() {
		return nil, &FetchError{Kind: types.Unauthorized, Message: fmt.Sprintf("unknown role %q", role)}
	}
	body, err := jsoncompat.Marshal(criteria.Request())
	if err != nil {
		return nil, transportError(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url(role, "product-filter"), bytes.NewReader(body))
	if err != nil {
		return nil, transportError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	list, err := f.do(req, FilteredProductsMessage)
	count(role, "filtered", err)
	return list, err
}

func (f *Fetcher) url(role types.Role, path string) string {
	return fmt.Sprintf("%s/%s/%s", f.baseUrl, role.ApiPrefix(), path)
}

func (f *Fetcher) do(req *http.Request, success string) (types.ProductList, error) {
	requestId := uuid.New().String()
	req.Header.Set(RequestIdHeader, requestId)
	req.Header.Set("Accept", "application/json")

	res, err := f.client.Do(req)
	if err != nil {
		log.Printf("catalog request %s %s failed: %v", requestId, req.URL.Path, err)
		return nil, transportError(err)
	}
	defer res.Body.Close()

	var envelope Response
	if err = ReadEnvelope(res, &envelope); err != nil {
		log.Printf("catalog request %s %s: %v", requestId, req.URL.Path, err)
		return nil, transportError(err)
	}
	if envelope.Message != success {
		log.Printf("catalog request %s %s rejected: %s", requestId, req.URL.Path, envelope.Message)
		return nil, rejectedError(envelope.Message)
	}
	if envelope.Payload == nil {
		envelope.Payload = types.ProductList{}
	}
	return envelope.Payload, nil
}

// ReadEnvelope decodes a 2xx body. Anything else is a transport failure.
func ReadEnvelope(res *http.Response, out *Response) error {
	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return fmt.Errorf("unexpected status %s", res.Status)
	}
	data, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return fmt.Errorf("reading body: %w", err)
	}
	if err = jsoncompat.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding body: %w", err)
	}
	return nil
}

func count(role types.Role, mode string, err error) {
	outcome := "ok"
	if kind, ok := KindOf(err); ok {
		outcome = kind.String()
	}
	fetches.WithLabelValues(string(role), mode, outcome).Inc()
}
