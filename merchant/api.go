package merchant

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/alovak/cardflow-accept/internal/acceptjs"
	"github.com/alovak/cardflow-accept/internal/authnet"
	"github.com/alovak/cardflow-accept/internal/middleware"
	"github.com/alovak/cardflow-accept/merchant/models"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

const (
	msgGatewayUnavailable = "The payment processor could not be reached. Please try again."
	msgInvalidRequest     = "Invalid payment request."
)

// API is a HTTP API for the checkout page
type API struct {
	merchant *Service
	config   *Config
}

func NewAPI(merchant *Service, config *Config) *API {
	if config == nil {
		config = DefaultConfig()
	}
	return &API{
		merchant: merchant,
		config:   config,
	}
}

// BrowserConfig is what the Accept.js form needs to tokenize a card.
type BrowserConfig struct {
	Environment          string            `json:"environment"`
	APILoginID           string            `json:"apiLoginId"`
	ClientKey            string            `json:"clientKey"`
	AcceptJSURL          string            `json:"acceptJsUrl"`
	ErrorMessages        map[string]string `json:"errorMessages"`
	FallbackErrorMessage string            `json:"fallbackErrorMessage"`
}

func (a *API) AppendRoutes(r chi.Router) {
	// the checkout page uses the capitalized paths; lowercase ones are aliases
	for _, prefix := range []string{"/Payments", "/payments"} {
		r.Post(prefix, a.submitPayment)
		r.Get(prefix+"/Config", a.browserConfig)
		r.Get(prefix+"/config", a.browserConfig)
	}
	r.Get("/Health", a.health)
	r.Get("/health", a.health)
}

func (a *API) submitPayment(w http.ResponseWriter, r *http.Request) {
	payload := models.PaymentPayload{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.merchant.logger.Warn("decoding payment request",
			slog.String("request_id", middleware.RequestID(r.Context())),
			slog.String("err", err.Error()),
		)
		writeJSON(w, http.StatusBadRequest, models.Failure{ErrorMessage: msgInvalidRequest})
		return
	}
	if strings.TrimSpace(payload.PaymentMethodNonceValue) == "" || strings.TrimSpace(payload.PaymentMethodNonceDescriptor) == "" {
		writeJSON(w, http.StatusBadRequest, models.Failure{ErrorMessage: "Payment token is required."})
		return
	}

	result, err := a.merchant.SubmitPayment(r.Context(), middleware.RequestID(r.Context()), payload)
	if err != nil {
		if errors.Is(err, authnet.ErrGatewayUnavailable) {
			writeJSON(w, http.StatusBadGateway, models.Failure{ErrorMessage: msgGatewayUnavailable})
		} else {
			writeJSON(w, http.StatusInternalServerError, models.Failure{ErrorMessage: err.Error()})
		}
		return
	}

	status := http.StatusOK
	if !result.IsSuccess() {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, models.View(result))
}

func (a *API) browserConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, BrowserConfig{
		Environment:          a.config.AuthNetEnvironment,
		APILoginID:           a.config.AuthNetLoginID,
		ClientKey:            a.config.AuthNetClientKey,
		AcceptJSURL:          acceptjs.ScriptURL(a.config.AuthNetEnvironment),
		ErrorMessages:        acceptjs.Messages(),
		FallbackErrorMessage: acceptjs.FallbackMessage,
	})
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Healthy"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
