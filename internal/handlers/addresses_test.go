package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/siamstore/storefront/internal/handlers"
	"github.com/siamstore/storefront/internal/models"
)

func countDefaults(t *testing.T, env *testEnv, userID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.DB.Model(&models.UserAddress{}).Where("user_id = ? AND is_default = ?", userID, true).Count(&n).Error)
	return n
}

func TestCreateFirstAddressBecomesDefault(t *testing.T) {
	env := newTestEnv(t)
	h := &handlers.AddressHandler{DB: env.DB}

	body := map[string]any{
		"recipient": "Somchai J.",
		"phone":     "0812345678",
		"line1":     "99/1 Sukhumvit Rd",
		"province":  "Bangkok",
	}
	rec, c := env.doAuthedRequest(http.MethodPost, "/api/addresses", body, 1)

	require.NoError(t, h.CreateAddress(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var addr models.UserAddress
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &addr))
	require.True(t, addr.IsDefault)
	require.Equal(t, uint(1), addr.UserID)
}

func TestCreateAddressMissingFields(t *testing.T) {
	env := newTestEnv(t)
	h := &handlers.AddressHandler{DB: env.DB}

	_, c := env.doAuthedRequest(http.MethodPost, "/api/addresses", map[string]any{"recipient": "X"}, 1)
	err := h.CreateAddress(c)
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, httpCode(t, err))
}

func TestSetDefaultAddressLeavesExactlyOne(t *testing.T) {
	env := newTestEnv(t)
	h := &handlers.AddressHandler{DB: env.DB}

	// a messy starting state: two rows already flagged default
	for _, def := range []bool{true, true, false} {
		require.NoError(t, env.DB.Create(&models.UserAddress{
			UserID:    1,
			Recipient: "R",
			Phone:     "0800000000",
			Line1:     "addr",
			IsDefault: def,
		}).Error)
	}

	rec, c := env.doAuthedRequest(http.MethodPost, "/api/addresses/3/default", nil, 1)
	c.SetParamNames("id")
	c.SetParamValues("3")

	require.NoError(t, h.SetDefaultAddress(c))
	require.Equal(t, http.StatusOK, rec.Code)

	require.EqualValues(t, 1, countDefaults(t, env, 1))

	var addr models.UserAddress
	require.NoError(t, env.DB.First(&addr, 3).Error)
	require.True(t, addr.IsDefault)
}

func TestSetDefaultAddressWrongUser(t *testing.T) {
	env := newTestEnv(t)
	h := &handlers.AddressHandler{DB: env.DB}

	require.NoError(t, env.DB.Create(&models.UserAddress{
		UserID: 2, Recipient: "R", Phone: "0800000000", Line1: "addr", IsDefault: true,
	}).Error)

	_, c := env.doAuthedRequest(http.MethodPost, "/api/addresses/1/default", nil, 1)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.SetDefaultAddress(c)
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, httpCode(t, err))

	// the other user's default is untouched
	require.EqualValues(t, 1, countDefaults(t, env, 2))
}

func TestListAddressesScopedToUser(t *testing.T) {
	env := newTestEnv(t)
	h := &handlers.AddressHandler{DB: env.DB}

	require.NoError(t, env.DB.Create(&models.UserAddress{UserID: 1, Recipient: "A", Phone: "1", Line1: "x"}).Error)
	require.NoError(t, env.DB.Create(&models.UserAddress{UserID: 2, Recipient: "B", Phone: "2", Line1: "y"}).Error)

	rec, c := env.doAuthedRequest(http.MethodGet, "/api/addresses", nil, 1)
	require.NoError(t, h.ListAddresses(c))

	var addrs []models.UserAddress
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &addrs))
	require.Len(t, addrs, 1)
	require.Equal(t, "A", addrs[0].Recipient)
}

func TestDeleteAddress(t *testing.T) {
	env := newTestEnv(t)
	h := &handlers.AddressHandler{DB: env.DB}

	require.NoError(t, env.DB.Create(&models.UserAddress{UserID: 1, Recipient: "A", Phone: "1", Line1: "x"}).Error)

	rec, c := env.doAuthedRequest(http.MethodDelete, "/api/addresses/1", nil, 1)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.DeleteAddress(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var n int64
	require.NoError(t, env.DB.Model(&models.UserAddress{}).Count(&n).Error)
	require.EqualValues(t, 0, n)
}
