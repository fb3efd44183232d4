package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/siamstore/storefront/internal/logging"
	"github.com/siamstore/storefront/internal/mykafka"
	"github.com/siamstore/storefront/internal/slip"
	"github.com/siamstore/storefront/internal/vision"
)

// SlipHandler checks uploaded payment-proof images. The result is advisory
// only, an order submission is never blocked on it.
type SlipHandler struct {
	Vision   vision.Extractor
	Producer *mykafka.Producer
}

func (h *SlipHandler) ValidateSlip(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "slip.validate")

	fh, err := c.FormFile("file")
	if err != nil {
		fh, err = c.FormFile("slip")
	}
	if err != nil {
		l.Warn("validate_slip_error", "status", 400, "reason", "missing file")
		return echo.NewHTTPError(http.StatusBadRequest, "กรุณาแนบไฟล์สลิป")
	}

	result := slip.QuickCheck(fh.Filename, fh.Size)
	mode := "quick"

	if h.Vision != nil {
		if text, err := h.extractText(ctx, fh); err != nil {
			l.Warn("slip_ocr_failed", "error", err)
		} else {
			result = slip.ScoreText(text)
			mode = "ocr"
		}
	}

	if h.Producer != nil {
		pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		event := map[string]any{
			"type":       "slip_checked",
			"filename":   fh.Filename,
			"mode":       mode,
			"confidence": result.Confidence,
			"is_valid":   result.IsValid,
		}
		if err := h.Producer.PublishEvent(pubCtx, "order_events", fh.Filename, event); err != nil {
			c.Logger().Errorf("Kafka publish error: %v", err)
		}
	}

	l.Info("slip_checked", "mode", mode, "confidence", result.Confidence)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"mode":    mode,
		"data":    result,
	})
}

func (h *SlipHandler) extractText(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	return h.Vision.ExtractText(ctx, data)
}
