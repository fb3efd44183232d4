package backend

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/labstack/echo/v4"
)

const defaultTimeout = 15 * time.Second

// Client talks to the upstream storefront backend. Every proxy route goes
// through it so timeouts and header propagation stay in one place.
type Client struct {
	http *resty.Client
}

func New(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetHeader("User-Agent", "storefront-bff/1.0")

	return &Client{http: c}
}

// Forward performs one upstream call, carrying over the caller's
// Authorization and Cookie headers. Non-2xx upstream statuses are not
// errors, the caller relays them as-is.
func (c *Client) Forward(ctx context.Context, method, path string, body interface{}, hdr http.Header) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx)

	for _, name := range []string{"Authorization", "Cookie"} {
		if v := hdr.Get(name); v != "" {
			req.SetHeader(name, v)
		}
	}

	if body != nil {
		req.SetHeader("Content-Type", echo.MIMEApplicationJSON)
		req.SetBody(body)
	}

	return req.Execute(method, path)
}

// Relay writes an upstream response back to the caller verbatim, including
// its Set-Cookie headers.
func Relay(c echo.Context, res *resty.Response) error {
	for _, sc := range res.Header().Values("Set-Cookie") {
		c.Response().Header().Add("Set-Cookie", sc)
	}

	ct := res.Header().Get("Content-Type")
	if ct == "" {
		ct = echo.MIMEApplicationJSON
	}
	return c.Blob(res.StatusCode(), ct, res.Body())
}

// UpstreamError maps a failed upstream call to a gateway status: timeouts
// become 504, everything else 502.
func UpstreamError(err error) *echo.HTTPError {
	if errors.Is(err, context.DeadlineExceeded) {
		return echo.NewHTTPError(http.StatusGatewayTimeout, "ระบบหลังบ้านไม่ตอบสนอง กรุณาลองใหม่อีกครั้ง")
	}
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) && ne.Timeout() {
		return echo.NewHTTPError(http.StatusGatewayTimeout, "ระบบหลังบ้านไม่ตอบสนอง กรุณาลองใหม่อีกครั้ง")
	}
	return echo.NewHTTPError(http.StatusBadGateway, "ไม่สามารถเชื่อมต่อระบบหลังบ้านได้")
}
