package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/siamstore/storefront/internal/logging"
	"github.com/siamstore/storefront/internal/middleware/auth"
	"github.com/siamstore/storefront/internal/models"
	"github.com/siamstore/storefront/internal/mykafka"
)

type AddressHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type addressRequest struct {
	Label      string `json:"label"`
	Recipient  string `json:"recipient"  validate:"required"`
	Phone      string `json:"phone"      validate:"required"`
	Line1      string `json:"line1"      validate:"required"`
	Line2      string `json:"line2"`
	District   string `json:"district"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	IsDefault  bool   `json:"is_default"`
}

func (h *AddressHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "address_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *AddressHandler) ListAddresses(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var addrs []models.UserAddress
	if err := h.DB.Where("user_id = ?", userID).Order("is_default DESC, id ASC").Find(&addrs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "เกิดข้อผิดพลาด กรุณาลองใหม่อีกครั้ง")
	}
	return c.JSON(http.StatusOK, addrs)
}

func (h *AddressHandler) CreateAddress(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req addressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "รูปแบบข้อมูลไม่ถูกต้อง")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ข้อมูลที่อยู่ไม่ครบถ้วน")
	}

	var count int64
	if err := h.DB.Model(&models.UserAddress{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "เกิดข้อผิดพลาด กรุณาลองใหม่อีกครั้ง")
	}

	addr := models.UserAddress{
		UserID:     userID,
		Label:      req.Label,
		Recipient:  req.Recipient,
		Phone:      req.Phone,
		Line1:      req.Line1,
		Line2:      req.Line2,
		District:   req.District,
		Province:   req.Province,
		PostalCode: req.PostalCode,
		// first address always becomes the default
		IsDefault: req.IsDefault || count == 0,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if addr.IsDefault {
			if err := tx.Model(&models.UserAddress{}).Where("user_id = ?", userID).Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&addr).Error
	})
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("create_address_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "เกิดข้อผิดพลาด กรุณาลองใหม่อีกครั้ง")
	}

	h.publish(c, map[string]any{"type": "address_created", "userID": userID, "addressID": addr.ID})
	return c.JSON(http.StatusCreated, addr)
}

func (h *AddressHandler) UpdateAddress(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "รหัสที่อยู่ไม่ถูกต้อง")
	}

	var req addressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "รูปแบบข้อมูลไม่ถูกต้อง")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ข้อมูลที่อยู่ไม่ครบถ้วน")
	}

	var addr models.UserAddress
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&addr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "ไม่พบที่อยู่ที่ระบุ")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "เกิดข้อผิดพลาด กรุณาลองใหม่อีกครั้ง")
	}

	addr.Label = req.Label
	addr.Recipient = req.Recipient
	addr.Phone = req.Phone
	addr.Line1 = req.Line1
	addr.Line2 = req.Line2
	addr.District = req.District
	addr.Province = req.Province
	addr.PostalCode = req.PostalCode

	if err := h.DB.Save(&addr).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "เกิดข้อผิดพลาด กรุณาลองใหม่อีกครั้ง")
	}
	return c.JSON(http.StatusOK, addr)
}

func (h *AddressHandler) DeleteAddress(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "รหัสที่อยู่ไม่ถูกต้อง")
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.UserAddress{})
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "เกิดข้อผิดพลาด กรุณาลองใหม่อีกครั้ง")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "ไม่พบที่อยู่ที่ระบุ")
	}

	h.publish(c, map[string]any{"type": "address_deleted", "userID": userID, "addressID": id})
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}

// SetDefaultAddress flips the default flag to the given address. The clear
// and set run in one transaction so the user is never left without a default
// or with two.
func (h *AddressHandler) SetDefaultAddress(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "รหัสที่อยู่ไม่ถูกต้อง")
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.UserAddress{}).Where("user_id = ?", userID).Update("is_default", false).Error; err != nil {
			return err
		}
		res := tx.Model(&models.UserAddress{}).Where("id = ? AND user_id = ?", id, userID).Update("is_default", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "ไม่พบที่อยู่ที่ระบุ")
		}
		logging.FromContext(c.Request().Context()).Error("set_default_address_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "เกิดข้อผิดพลาด กรุณาลองใหม่อีกครั้ง")
	}

	h.publish(c, map[string]any{"type": "default_address_changed", "userID": userID, "addressID": id})
	return c.JSON(http.StatusOK, echo.Map{"default": id})
}
