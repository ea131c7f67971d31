// Package http exposes the checkout engine over a REST API. Handlers bind
// request bodies, build commands and queries, and translate the error
// taxonomy into HTTP statuses; no business logic lives here.
package http

import (
	"errors"
	"net/http"
	"time"

	"checkout/internal/core/application/usecases/commands"
	"checkout/internal/core/application/usecases/queries"
	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/core/domain/services"
	"checkout/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	defaultCurrency kernel.Currency

	// Command handlers
	createOrderHandler      commands.CreateOrderCommandHandler
	addLineItemHandler      commands.AddLineItemCommandHandler
	advanceCheckoutHandler  commands.AdvanceCheckoutCommandHandler
	completeCheckoutHandler commands.CompleteCheckoutCommandHandler
	updateCheckoutHandler   commands.UpdateCheckoutCommandHandler
	cancelOrderHandler      commands.CancelOrderCommandHandler
	resumeOrderHandler      commands.ResumeOrderCommandHandler
	addPaymentHandler       commands.AddPaymentCommandHandler

	// Query handlers
	getOrderHandler            queries.GetOrderQueryHandler
	getIncompleteOrdersHandler queries.GetIncompleteOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query
// handlers. Orders created without an explicit currency are denominated in
// the default currency.
func NewServer(
	defaultCurrency kernel.Currency,
	createOrderHandler commands.CreateOrderCommandHandler,
	addLineItemHandler commands.AddLineItemCommandHandler,
	advanceCheckoutHandler commands.AdvanceCheckoutCommandHandler,
	completeCheckoutHandler commands.CompleteCheckoutCommandHandler,
	updateCheckoutHandler commands.UpdateCheckoutCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	resumeOrderHandler commands.ResumeOrderCommandHandler,
	addPaymentHandler commands.AddPaymentCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getIncompleteOrdersHandler queries.GetIncompleteOrdersQueryHandler,
) *Server {
	return &Server{
		defaultCurrency:            defaultCurrency,
		createOrderHandler:         createOrderHandler,
		addLineItemHandler:         addLineItemHandler,
		advanceCheckoutHandler:     advanceCheckoutHandler,
		completeCheckoutHandler:    completeCheckoutHandler,
		updateCheckoutHandler:      updateCheckoutHandler,
		cancelOrderHandler:         cancelOrderHandler,
		resumeOrderHandler:         resumeOrderHandler,
		addPaymentHandler:          addPaymentHandler,
		getOrderHandler:            getOrderHandler,
		getIncompleteOrdersHandler: getIncompleteOrdersHandler,
	}
}

// RegisterRoutes attaches every checkout route to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/incomplete", s.GetIncompleteOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.PATCH("/orders/:id", s.UpdateCheckout)
	api.POST("/orders/:id/line-items", s.AddLineItem)
	api.POST("/orders/:id/advance", s.AdvanceCheckout)
	api.POST("/orders/:id/complete", s.CompleteCheckout)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/resume", s.ResumeOrder)
	api.POST("/orders/:id/payments", s.AddPayment)
}

// Error is the JSON error payload of every failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrder is the request body of POST /orders.
type NewOrder struct {
	Currency string `json:"currency,omitempty"`
}

// OrderCreated is the response body of POST /orders.
type OrderCreated struct {
	ID string `json:"id"`
}

// NewLineItem is the request body of POST /orders/:id/line-items.
type NewLineItem struct {
	VariantID          string `json:"variant_id"`
	ShippingCategoryID string `json:"shipping_category_id"`
	Quantity           int    `json:"quantity"`
	UnitPrice          string `json:"unit_price"`
}

// NewPayment is the request body of POST /orders/:id/payments.
type NewPayment struct {
	Amount string `json:"amount"`
}

// OrderSnapshot is the response body of GET /orders/:id.
type OrderSnapshot struct {
	ID             string `json:"id"`
	Currency       string `json:"currency"`
	Stage          string `json:"stage"`
	PaymentStatus  string `json:"payment_status"`
	ShipmentStatus string `json:"shipment_status,omitempty"`

	ItemCount          int             `json:"item_count"`
	ItemTotal          decimal.Decimal `json:"item_total"`
	ShipmentTotal      decimal.Decimal `json:"shipment_total"`
	AdjustmentTotal    decimal.Decimal `json:"adjustment_total"`
	AdditionalTaxTotal decimal.Decimal `json:"additional_tax_total"`
	IncludedTaxTotal   decimal.Decimal `json:"included_tax_total"`
	PaymentTotal       decimal.Decimal `json:"payment_total"`
	PromoTotal         decimal.Decimal `json:"promo_total"`
	Total              decimal.Decimal `json:"total"`

	Completed bool  `json:"completed"`
	Canceled  bool  `json:"canceled"`
	Version   int64 `json:"version"`
}

// IncompleteOrder is one element of the GET /orders/incomplete response.
type IncompleteOrder struct {
	ID        string          `json:"id"`
	Stage     string          `json:"stage"`
	Total     decimal.Decimal `json:"total"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateOrder handles POST /api/v1/orders - starts a new cart.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	currency := s.defaultCurrency
	if body.Currency != "" {
		var err error
		currency, err = kernel.NewCurrency(body.Currency)
		if err != nil {
			return s.errorResponse(ctx, err)
		}
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, currency)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, OrderCreated{ID: orderID.String()})
}

// AddLineItem handles POST /api/v1/orders/:id/line-items.
func (s *Server) AddLineItem(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var body NewLineItem
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	variantID, err := kernel.UUIDFromString(body.VariantID)
	if err != nil {
		return badRequest(ctx, "Invalid variant id")
	}
	categoryID, err := kernel.UUIDFromString(body.ShippingCategoryID)
	if err != nil {
		return badRequest(ctx, "Invalid shipping category id")
	}
	unitPrice, err := kernel.MoneyFromString(body.UnitPrice, s.defaultCurrency)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	cmd, err := commands.NewAddLineItemCommand(orderID, variantID, categoryID, body.Quantity, unitPrice)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err := s.addLineItemHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AdvanceCheckout handles POST /api/v1/orders/:id/advance. With to_end=true
// the order advances as far as its guards allow.
func (s *Server) AdvanceCheckout(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	toEnd := ctx.QueryParam("to_end") == "true"
	cmd, err := commands.NewAdvanceCheckoutCommand(orderID, toEnd)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err := s.advanceCheckoutHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteCheckout handles POST /api/v1/orders/:id/complete.
func (s *Server) CompleteCheckout(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewCompleteCheckoutCommand(orderID)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err := s.completeCheckoutHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateCheckout handles PATCH /api/v1/orders/:id. The body is a patch of
// whitelisted checkout attributes; anything else is rejected without
// persisting.
func (s *Server) UpdateCheckout(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var patch map[string]any
	if err := ctx.Bind(&patch); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewUpdateCheckoutCommand(orderID, patch)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err := s.updateCheckoutHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ResumeOrder handles POST /api/v1/orders/:id/resume.
func (s *Server) ResumeOrder(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewResumeOrderCommand(orderID)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err := s.resumeOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AddPayment handles POST /api/v1/orders/:id/payments.
func (s *Server) AddPayment(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var body NewPayment
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	amount, err := kernel.MoneyFromString(body.Amount, s.defaultCurrency)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	cmd, err := commands.NewAddPaymentCommand(orderID, amount)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err := s.addPaymentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOrder handles GET /api/v1/orders/:id - returns the order's reconciled
// snapshot.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	snapshot, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OrderSnapshot{
		ID:                 snapshot.ID.String(),
		Currency:           snapshot.Currency,
		Stage:              snapshot.Stage,
		PaymentStatus:      snapshot.PaymentStatus,
		ShipmentStatus:     snapshot.ShipmentStatus,
		ItemCount:          snapshot.ItemCount,
		ItemTotal:          snapshot.ItemTotal,
		ShipmentTotal:      snapshot.ShipmentTotal,
		AdjustmentTotal:    snapshot.AdjustmentTotal,
		AdditionalTaxTotal: snapshot.AdditionalTaxTotal,
		IncludedTaxTotal:   snapshot.IncludedTaxTotal,
		PaymentTotal:       snapshot.PaymentTotal,
		PromoTotal:         snapshot.PromoTotal,
		Total:              snapshot.Total,
		Completed:          snapshot.Completed,
		Canceled:           snapshot.Canceled,
		Version:            snapshot.Version,
	})
}

// GetIncompleteOrders handles GET /api/v1/orders/incomplete - lists orders
// still moving through checkout.
func (s *Server) GetIncompleteOrders(ctx echo.Context) error {
	query := queries.NewGetIncompleteOrdersQuery()

	orders, err := s.getIncompleteOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	response := make([]IncompleteOrder, len(orders))
	for i, o := range orders {
		response[i] = IncompleteOrder{
			ID:        o.ID.String(),
			Stage:     o.Stage,
			Total:     o.Total,
			UpdatedAt: o.UpdatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// errorResponse maps the error taxonomy onto HTTP statuses. Stage guard
// failures and forbidden attributes are unprocessable rather than malformed:
// the request was valid, the order refused it.
func (s *Server) errorResponse(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrVersionConflict):
		code = http.StatusConflict
	case errors.Is(err, order.ErrStageValidation),
		errors.Is(err, order.ErrIncompleteCheckout),
		errors.Is(err, order.ErrOrderContentImmutable),
		errors.Is(err, services.ErrForbiddenAttribute):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrDomainValidation),
		errors.Is(err, kernel.ErrCurrencyMismatch):
		code = http.StatusBadRequest
	}

	return ctx.JSON(code, Error{Code: code, Message: err.Error()})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func orderIDParam(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("id"))
}
