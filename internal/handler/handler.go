// Package handler содержит HTTP-обработчики API сервиса ланчонете.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/lanchonete/internal/auth"
	"github.com/mmeshcher/lanchonete/internal/cart"
	"github.com/mmeshcher/lanchonete/internal/catalog"
	"github.com/mmeshcher/lanchonete/internal/checkout"
	"github.com/mmeshcher/lanchonete/internal/middleware"
	"github.com/mmeshcher/lanchonete/internal/model"
	"github.com/mmeshcher/lanchonete/internal/session"
	"github.com/mmeshcher/lanchonete/internal/validation"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Register(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, userID string) error
	Menu() []model.Product
	Cart(userID string) (session.View, error)
	AddToCart(userID, productID string) (session.View, error)
	RemoveFromCart(userID string, index int) (session.View, error)
	ClearCart(userID string) (session.View, error)
	Review(userID string) (session.View, error)
	RequestPayment(userID string) (session.View, error)
	Pay(userID, method string) (model.Order, error)
	Orders(userID string) ([]model.Order, error)
}

// Handler реализует HTTP-обработчики API сервиса ланчонете.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, authMW *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: authMW,
	}
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,notblank"`
	Password string `json:"password" validate:"required,notblank"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (h *Handler) decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return req, false
	}

	if err := validation.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return req, false
	}

	return req, true
}

// Register обрабатывает регистрацию нового пользователя.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	userID, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			writeMessage(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("register user error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := h.authMiddleware.SetAuthCookie(w, userID); err != nil {
		h.logger.Error("set auth cookie error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Login выполняет аутентификацию пользователя и установку cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	userID, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeMessage(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.logger.Error("login user error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := h.authMiddleware.SetAuthCookie(w, userID); err != nil {
		h.logger.Error("set auth cookie error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Logout завершает сессию и удаляет cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := h.service.Logout(r.Context(), userID); err != nil {
		h.logger.Warn("logout error", zap.Error(err), zap.String("userID", userID))
	}

	h.authMiddleware.ClearAuthCookie(w)
	w.WriteHeader(http.StatusOK)
}

type productResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// GetMenu возвращает меню.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	products := h.service.Menu()

	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, productResponse{
			ID:    p.ID,
			Name:  p.Name,
			Price: model.CentsToReais(p.Price),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

type lineItemResponse struct {
	Index     int     `json:"index"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

type cartResponse struct {
	Items []lineItemResponse `json:"items"`
	Total float64            `json:"total"`
	State string             `json:"state"`
}

func newLineItems(items []model.LineItem) []lineItemResponse {
	res := make([]lineItemResponse, 0, len(items))
	for i, it := range items {
		res = append(res, lineItemResponse{
			Index:     i,
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     model.CentsToReais(it.Price),
		})
	}
	return res
}

func newCartResponse(v session.View) cartResponse {
	return cartResponse{
		Items: newLineItems(v.Cart.Items),
		Total: model.CentsToReais(v.Cart.Total),
		State: v.State.String(),
	}
}

// writeSessionError отвечает на ошибки операций корзины и оформления.
func (h *Handler) writeSessionError(w http.ResponseWriter, err error, userID string) {
	switch {
	case errors.Is(err, session.ErrNoSession):
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	case errors.Is(err, catalog.ErrProductNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, cart.ErrIndexOutOfRange):
		h.logger.Warn("cart index out of range", zap.Error(err), zap.String("userID", userID))
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, checkout.ErrInvalidTransition):
		writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrUnknownPaymentMethod):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("session operation error", zap.Error(err), zap.String("userID", userID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) respondCart(w http.ResponseWriter, userID string, v session.View, err error) {
	if err != nil {
		h.writeSessionError(w, err, userID)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(v))
}

// GetCart возвращает корзину текущего пользователя.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	v, err := h.service.Cart(userID)
	h.respondCart(w, userID, v, err)
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required,notblank"`
}

// AddCartItem добавляет товар меню в корзину.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if err := validation.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	v, err := h.service.AddToCart(userID, req.ProductID)
	h.respondCart(w, userID, v, err)
}

// RemoveCartItem удаляет позицию корзины по индексу из пути.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	v, err := h.service.RemoveFromCart(userID, index)
	h.respondCart(w, userID, v, err)
}

// ClearCart очищает корзину.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	v, err := h.service.ClearCart(userID)
	h.respondCart(w, userID, v, err)
}

// Review переводит к итогам заказа.
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	v, err := h.service.Review(userID)
	h.respondCart(w, userID, v, err)
}

type paymentOptionsResponse struct {
	State   string   `json:"state"`
	Total   float64  `json:"total"`
	Methods []string `json:"methods"`
}

// RequestPayment переводит к выбору способа оплаты и возвращает доступные способы.
func (h *Handler) RequestPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	v, err := h.service.RequestPayment(userID)
	if err != nil {
		h.writeSessionError(w, err, userID)
		return
	}

	methods := make([]string, 0, len(model.PaymentMethods))
	for _, m := range model.PaymentMethods {
		methods = append(methods, string(m))
	}

	writeJSON(w, http.StatusOK, paymentOptionsResponse{
		State:   v.State.String(),
		Total:   model.CentsToReais(v.Cart.Total),
		Methods: methods,
	})
}

type payRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,notblank"`
}

type orderResponse struct {
	ID            string             `json:"id"`
	Items         []lineItemResponse `json:"items"`
	Total         float64            `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	CreatedAt     string             `json:"created_at"`
}

func newOrderResponse(o model.Order) orderResponse {
	return orderResponse{
		ID:            o.ID,
		Items:         newLineItems(o.Items),
		Total:         model.CentsToReais(o.Total),
		PaymentMethod: string(o.PaymentMethod),
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
	}
}

// Pay оформляет заказ выбранным способом оплаты.
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req payRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if err := validation.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.service.Pay(userID, req.PaymentMethod)
	if err != nil {
		h.writeSessionError(w, err, userID)
		return
	}

	h.logger.Info("order finalized",
		zap.String("orderID", order.ID),
		zap.String("userID", userID),
		zap.Int64("total", order.Total),
		zap.String("paymentMethod", string(order.PaymentMethod)),
	)

	writeJSON(w, http.StatusCreated, newOrderResponse(order))
}

// GetOrders возвращает историю заказов текущего пользователя.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	orders, err := h.service.Orders(userID)
	if err != nil {
		h.writeSessionError(w, err, userID)
		return
	}

	if len(orders) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, newOrderResponse(o))
	}

	writeJSON(w, http.StatusOK, resp)
}
