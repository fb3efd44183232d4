package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/siamstore/storefront/internal/logging"
	"github.com/siamstore/storefront/internal/models"
)

// SettingsHandler serves the storefront's free-form key/value settings,
// persisted locally rather than proxied.
type SettingsHandler struct {
	DB *gorm.DB
}

func (h *SettingsHandler) GetHomepage(c echo.Context) error {
	var rows []models.HomepageSetting
	if err := h.DB.Find(&rows).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "เกิดข้อผิดพลาด กรุณาลองใหม่อีกครั้ง")
	}

	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": out})
}

func (h *SettingsHandler) UpsertHomepage(c echo.Context) error {
	values, err := bindSettings(c)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for k, v := range values {
		row := models.HomepageSetting{Key: k, Value: v, UpdatedAt: now}
		if err := h.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&row).Error; err != nil {
			logging.FromContext(c.Request().Context()).Error("homepage_setting_upsert_failed", "key", k, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "เกิดข้อผิดพลาด กรุณาลองใหม่อีกครั้ง")
		}
	}
	return h.GetHomepage(c)
}

func (h *SettingsHandler) GetAbout(c echo.Context) error {
	var rows []models.AboutSetting
	if err := h.DB.Find(&rows).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "เกิดข้อผิดพลาด กรุณาลองใหม่อีกครั้ง")
	}

	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": out})
}

func (h *SettingsHandler) UpsertAbout(c echo.Context) error {
	values, err := bindSettings(c)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for k, v := range values {
		row := models.AboutSetting{Key: k, Value: v, UpdatedAt: now}
		if err := h.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&row).Error; err != nil {
			logging.FromContext(c.Request().Context()).Error("about_setting_upsert_failed", "key", k, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "เกิดข้อผิดพลาด กรุณาลองใหม่อีกครั้ง")
		}
	}
	return h.GetAbout(c)
}

// bindSettings flattens an arbitrary JSON object to string values. Nested
// values are stored as their JSON encoding.
func bindSettings(c echo.Context) (map[string]string, error) {
	var body map[string]interface{}
	if err := c.Bind(&body); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "รูปแบบข้อมูลไม่ถูกต้อง")
	}
	if len(body) == 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "ไม่มีข้อมูลสำหรับบันทึก")
	}

	out := make(map[string]string, len(body))
	for k, v := range body {
		switch x := v.(type) {
		case string:
			out[k] = x
		case nil:
			out[k] = ""
		case float64:
			out[k] = fmt.Sprint(x)
		case bool:
			out[k] = fmt.Sprint(x)
		default:
			enc, err := json.Marshal(x)
			if err != nil {
				return nil, echo.NewHTTPError(http.StatusBadRequest, "รูปแบบข้อมูลไม่ถูกต้อง")
			}
			out[k] = string(enc)
		}
	}
	return out, nil
}
