package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/siamstore/storefront/internal/backend"
	"github.com/siamstore/storefront/internal/logging"
	"github.com/siamstore/storefront/internal/middleware/auth"
	"github.com/siamstore/storefront/internal/mykafka"
	"github.com/siamstore/storefront/internal/order"
)

type OrderHandler struct {
	Backend   *backend.Client
	Producer  *mykafka.Producer
	JWTSecret []byte
}

func (h *OrderHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// CreateOrder normalizes a loosely-typed client order and forwards it to the
// upstream order-creation endpoint, relaying the upstream response verbatim.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.create")

	var raw order.RawOrder
	if err := c.Bind(&raw); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "รูปแบบข้อมูลไม่ถูกต้อง")
	}

	fallbackID := auth.OptionalUserID(c, h.JWTSecret)
	normalized, err := order.Normalize(raw, fallbackID)
	if err != nil {
		if errors.Is(err, order.ErrValidation) {
			l.Warn("create_order_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "ข้อมูลคำสั่งซื้อไม่ครบถ้วน")
		}
		l.Error("create_order_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "เกิดข้อผิดพลาด กรุณาลองใหม่อีกครั้ง")
	}

	res, err := h.Backend.Forward(ctx, http.MethodPost, "/orders", normalized, c.Request().Header)
	if err != nil {
		l.Error("create_order_upstream_error", "error", err)
		return backend.UpstreamError(err)
	}

	if res.IsSuccess() {
		h.publish(c, map[string]any{
			"type":      "order_submitted",
			"userID":    normalized.UserID,
			"event_id":  uuid.NewString(),
			"total":     normalized.TotalAmount,
			"num_items": len(normalized.Items),
		})
	}

	l.Info("create_order_forwarded", "status", res.StatusCode())
	return backend.Relay(c, res)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.list")

	path := "/orders"
	if qs := c.QueryString(); qs != "" {
		path += "?" + qs
	}

	res, err := h.Backend.Forward(ctx, http.MethodGet, path, nil, c.Request().Header)
	if err != nil {
		l.Error("list_orders_upstream_error", "error", err)
		return backend.UpstreamError(err)
	}
	return backend.Relay(c, res)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.get")

	res, err := h.Backend.Forward(ctx, http.MethodGet, "/orders/"+url.PathEscape(c.Param("id")), nil, c.Request().Header)
	if err != nil {
		l.Error("get_order_upstream_error", "error", err)
		return backend.UpstreamError(err)
	}
	return backend.Relay(c, res)
}
