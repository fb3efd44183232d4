package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrValidation = errors.New("validation")

// RawOrder is the loosely-typed body a storefront client submits. Numeric
// fields may arrive as strings, and several fields go by more than one name
// depending on which client version sent them.
type RawOrder struct {
	UserID         interface{}     `json:"user_id"`
	AddressID      interface{}     `json:"address_id"`
	AddressIDCamel interface{}     `json:"addressId"`
	Items          json.RawMessage `json:"items"`
	CartItems      json.RawMessage `json:"cartItems"`
	ShippingFee    interface{}     `json:"shipping_fee"`
	DiscountAmount interface{}     `json:"discount_amount"`
	Discount       interface{}     `json:"discount"`
	CouponDiscount interface{}     `json:"couponDiscount"`
	TotalAmount    interface{}     `json:"total_amount"`
	TotalCamel     interface{}     `json:"totalAmount"`
	Total          interface{}     `json:"total"`
	CouponCode     string          `json:"coupon_code"`
	PaymentMethod  string          `json:"payment_method"`
	Notes          string          `json:"notes"`
}

type rawItem struct {
	ProductID      interface{} `json:"product_id"`
	ID             interface{} `json:"id"`
	ProductIDCamel interface{} `json:"productId"`
	Quantity       interface{} `json:"quantity"`
	Price          interface{} `json:"price"`
	UnitPrice      interface{} `json:"unit_price"`
}

// Item is a surviving order line. Price is a fixed two-decimal string, the
// shape the upstream order endpoint expects for money.
type Item struct {
	ProductID uint   `json:"product_id"`
	Quantity  uint   `json:"quantity"`
	Price     string `json:"price"`
}

// Order is the well-typed payload forwarded to the upstream order-creation
// endpoint.
type Order struct {
	UserID         uint   `json:"user_id"`
	AddressID      uint   `json:"address_id"`
	Items          []Item `json:"items"`
	Subtotal       string `json:"subtotal"`
	ShippingFee    string `json:"shipping_fee"`
	DiscountAmount string `json:"discount_amount"`
	TotalAmount    string `json:"total_amount"`
	CouponCode     string `json:"coupon_code,omitempty"`
	PaymentMethod  string `json:"payment_method,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// Normalize validates and converts a raw order in one pass. fallbackUserID
// is the id recovered from the signed-in cookie, used when the body carries
// no usable user_id. All failures wrap ErrValidation.
func Normalize(raw RawOrder, fallbackUserID uint) (*Order, error) {
	userID, ok := toUint(raw.UserID)
	if !ok {
		userID = fallbackUserID
	}
	if userID == 0 {
		return nil, fmt.Errorf("%w: user_id required", ErrValidation)
	}

	addressID, ok := toUint(first(raw.AddressID, raw.AddressIDCamel))
	if !ok {
		return nil, fmt.Errorf("%w: address_id required", ErrValidation)
	}

	rawItems, err := decodeItems(raw.Items, raw.CartItems)
	if err != nil {
		return nil, err
	}

	var items []Item
	var subtotal float64
	for _, ri := range rawItems {
		pid, ok := toUint(first(ri.ProductID, ri.ID, ri.ProductIDCamel))
		if !ok {
			continue
		}
		qty, ok := toUint(ri.Quantity)
		if !ok {
			continue
		}
		price, ok := toFloat(first(ri.Price, ri.UnitPrice))
		if !ok || price < 0 {
			continue
		}
		items = append(items, Item{ProductID: pid, Quantity: qty, Price: money(price)})
		subtotal += price * float64(qty)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}

	fee, _ := toFloat(raw.ShippingFee)
	discount, _ := toFloat(first(raw.DiscountAmount, raw.Discount, raw.CouponDiscount))

	total, ok := toFloat(first(raw.TotalAmount, raw.TotalCamel, raw.Total))
	if !ok {
		total = subtotal + fee - discount
	}

	return &Order{
		UserID:         userID,
		AddressID:      addressID,
		Items:          items,
		Subtotal:       money(subtotal),
		ShippingFee:    money(fee),
		DiscountAmount: money(discount),
		TotalAmount:    money(total),
		CouponCode:     strings.TrimSpace(raw.CouponCode),
		PaymentMethod:  strings.TrimSpace(raw.PaymentMethod),
		Notes:          strings.TrimSpace(raw.Notes),
	}, nil
}

// decodeItems accepts either a JSON array or a JSON-encoded string holding
// one. `items` wins over `cartItems` when both are present.
func decodeItems(primary, alt json.RawMessage) ([]rawItem, error) {
	src := primary
	if emptyRaw(src) {
		src = alt
	}
	if emptyRaw(src) {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}

	data := []byte(strings.TrimSpace(string(src)))
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("%w: items malformed", ErrValidation)
		}
		data = []byte(s)
	}

	var items []rawItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: items malformed", ErrValidation)
	}
	return items, nil
}

func emptyRaw(r json.RawMessage) bool {
	s := strings.TrimSpace(string(r))
	return s == "" || s == "null"
}

func first(vals ...interface{}) interface{} {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

// toUint accepts integer-like positive values only: 42, 42.0 and "42" pass,
// 42.5 and 0 do not.
func toUint(v interface{}) (uint, bool) {
	f, ok := toFloat(v)
	if !ok || f <= 0 || f != math.Trunc(f) || f > math.MaxUint32 {
		return 0, false
	}
	return uint(f), true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func money(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', 2, 64)
}
