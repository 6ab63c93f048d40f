// Package authnet submits Accept.js payments to the Authorize.Net JSON API
// and normalizes the responses into models.PaymentResult values.
package authnet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/alovak/cardflow-accept/merchant/models"
	"github.com/google/uuid"
)

const (
	EnvironmentProduction = "Production"
	EnvironmentSandbox    = "Sandbox"

	ProductionEndpoint = "https://api.authorize.net/xml/v1/request.api"
	SandboxEndpoint    = "https://apitest.authorize.net/xml/v1/request.api"
)

// ErrGatewayUnavailable wraps every failure to obtain a response from the
// processor: connection errors, non-2xx statuses and undecodable bodies.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// Config holds the merchant credentials. Environment selects the endpoint;
// anything other than "Production" goes to the sandbox.
type Config struct {
	Environment    string
	LoginID        string
	TransactionKey string
}

// EndpointFor returns the API endpoint for an environment name.
func EndpointFor(environment string) string {
	if environment == EnvironmentProduction {
		return ProductionEndpoint
	}
	return SandboxEndpoint
}

type Option func(*Gateway)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *Gateway) {
		if hc != nil {
			g.http = hc
		}
	}
}

// WithEndpoint overrides the environment-selected endpoint.
func WithEndpoint(endpoint string) Option {
	return func(g *Gateway) {
		if endpoint != "" {
			g.endpoint = endpoint
		}
	}
}

// Gateway is safe for concurrent use; it only reads its configuration.
type Gateway struct {
	auth     MerchantAuthentication
	endpoint string
	http     *http.Client
}

func New(cfg Config, opts ...Option) *Gateway {
	g := &Gateway{
		auth: MerchantAuthentication{
			Name:           cfg.LoginID,
			TransactionKey: cfg.TransactionKey,
		},
		endpoint: EndpointFor(cfg.Environment),
		http:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) Endpoint() string { return g.endpoint }

// CreatePaymentTransaction submits order as an authorize-and-capture
// transaction. Processor-reported problems come back as a models.Failure
// with a nil error; only a missing exchange with the processor is an error.
func (g *Gateway) CreatePaymentTransaction(ctx context.Context, order models.Order) (models.PaymentResult, error) {
	req := BuildRequest(order, g.auth, newRefID())

	resp, err := g.send(ctx, req)
	if err != nil {
		return nil, err
	}

	return Classify(resp), nil
}

func (g *Gateway) send(ctx context.Context, req CreateTransactionRequest) (*CreateTransactionResponse, error) {
	body, err := json.Marshal(createTransactionEnvelope{CreateTransactionRequest: req})
	if err != nil {
		return nil, fmt.Errorf("marshal create transaction request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build create transaction request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := g.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w: %w", ErrGatewayUnavailable, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read create transaction response: %w: %w", ErrGatewayUnavailable, err)
	}

	if httpResp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("create transaction status=%d body=%s: %w",
			httpResp.StatusCode, strings.TrimSpace(string(raw)), ErrGatewayUnavailable)
	}

	return decodeResponse(raw)
}

// decodeResponse strips the UTF-8 byte order mark the processor prepends to
// its JSON. An empty body or a JSON null yields a nil response.
func decodeResponse(raw []byte) (*CreateTransactionResponse, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	var resp *CreateTransactionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode create transaction response: %w: %w", ErrGatewayUnavailable, err)
	}
	return resp, nil
}

// refId is limited to 20 characters.
func newRefID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
}
