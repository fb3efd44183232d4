package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/siamstore/storefront/internal/backend"
	"github.com/siamstore/storefront/internal/logging"
)

type CouponHandler struct {
	Backend *backend.Client
}

// ValidateCoupon forwards {code, order_total, items, email} to the upstream
// coupon endpoint and relays its verdict.
func (h *CouponHandler) ValidateCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupons.validate")

	var body map[string]interface{}
	if err := c.Bind(&body); err != nil {
		l.Warn("validate_coupon_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "รูปแบบข้อมูลไม่ถูกต้อง")
	}

	code, _ := body["code"].(string)
	if strings.TrimSpace(code) == "" {
		l.Warn("validate_coupon_error", "status", 400, "reason", "missing code")
		return echo.NewHTTPError(http.StatusBadRequest, "กรุณาระบุรหัสคูปอง")
	}

	res, err := h.Backend.Forward(ctx, http.MethodPost, "/coupons/validate", body, c.Request().Header)
	if err != nil {
		l.Error("validate_coupon_upstream_error", "error", err)
		return backend.UpstreamError(err)
	}
	return backend.Relay(c, res)
}
