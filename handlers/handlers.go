package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"
	"strconv"

	"storefront/entities"
	"storefront/models"
	"storefront/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	bs     services.BasketService
	ps     services.PricingService
	cos    services.CheckoutService
	prs    services.ProductService
	logger *zap.Logger
}

type HandlerParams struct {
	BasketService   services.BasketService
	PricingService  services.PricingService
	CheckoutService services.CheckoutService
	ProductService  services.ProductService
	Logger          *zap.Logger
}

func NewHandler(params HandlerParams) *Handler {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		bs:     params.BasketService,
		ps:     params.PricingService,
		cos:    params.CheckoutService,
		prs:    params.ProductService,
		logger: logger,
	}
}

func NewRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()
	router.Use(h.ErrorHandleMiddleware)

	router.HandleFunc("/products", h.GetProducts).Methods("GET")
	router.HandleFunc("/products/{id:[0-9]+}", h.GetProduct).Methods("GET")
	router.HandleFunc("/basket", h.GetBasket).Methods("GET")
	router.HandleFunc("/basket", h.AddToBasket).Methods("POST")
	router.HandleFunc("/basket", h.ClearBasket).Methods("DELETE")
	router.HandleFunc("/basket/pricing", h.GetPricing).Methods("GET")
	router.HandleFunc("/basket/{id:[0-9]+}", h.ChangeQuantity).Methods("PATCH")
	router.HandleFunc("/checkout", h.PlaceOrder).Methods("POST")
	return router
}

type addRequest struct {
	ProductId int `json:"productId"`
}

type quantityRequest struct {
	Delta int `json:"delta"`
}

type checkoutRequest struct {
	Form          models.CheckoutForm  `json:"form"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
}

func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	products := h.prs.GetAllProducts()
	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, newProductResponse(p))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	p, err := h.prs.GetProductById(id)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newProductResponse(p))
}

func (h *Handler) GetBasket(w http.ResponseWriter, r *http.Request) {
	view, err := h.bs.GetBasket(r.Context())
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newBasketResponse(view, ""))
}

func (h *Handler) GetPricing(w http.ResponseWriter, r *http.Request) {
	view, err := h.ps.GetPricing(r.Context())
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newPricingResponse(view.Pricing))
}

func (h *Handler) AddToBasket(w http.ResponseWriter, r *http.Request) {
	req := addRequest{}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.logger.Debug("decode add request", zap.Error(err))
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	view, err := h.bs.AddToBasket(r.Context(), req.ProductId)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newBasketResponse(view, services.AddedToBasketMessage))
}

func (h *Handler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	req := quantityRequest{}
	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.logger.Debug("decode quantity request", zap.Error(err))
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	view, err := h.bs.ChangeQuantity(r.Context(), id, req.Delta)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newBasketResponse(view, ""))
}

func (h *Handler) ClearBasket(w http.ResponseWriter, r *http.Request) {
	view, err := h.bs.ClearBasket(r.Context())
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newBasketResponse(view, ""))
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	req := checkoutRequest{}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.logger.Debug("decode checkout request", zap.Error(err))
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !req.PaymentMethod.Valid() {
		h.logger.Debug("unknown payment method", zap.String("payment_method", string(req.PaymentMethod)))
		WriteErrorResponse(w, models.ErrBadRequest)
		return
	}
	outcome, err := h.cos.PlaceOrder(r.Context(), req.Form, req.PaymentMethod)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	if outcome.State == entities.Rejected {
		h.writeJSON(w, http.StatusUnprocessableEntity, outcome.Rejection)
		return
	}
	h.writeJSON(w, http.StatusOK, newConfirmationResponse(*outcome.Confirmation))
}

func (h *Handler) ErrorHandleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Error("panic occured",
					zap.Any("panic", rec),
					zap.String("stacktrace", string(debug.Stack())))
				http.Error(w, "something went wrong, contact with service administration", http.StatusBadGateway)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		h.logger.Error("marshal response", zap.Error(err))
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(jsonData)
}

func WriteErrorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrServerError):
		http.Error(w, err.Error(), http.StatusInternalServerError)
	case errors.Is(err, models.ErrBadRequest), errors.Is(err, models.ErrInvalidEntry):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrNotFoundError):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrNotAllowed), errors.Is(err, models.ErrOrderPlaced):
		http.Error(w, err.Error(), http.StatusNotAcceptable)
	default:
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}
