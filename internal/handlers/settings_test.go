package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/siamstore/storefront/internal/handlers"
)

type settingsResponse struct {
	Success bool              `json:"success"`
	Data    map[string]string `json:"data"`
}

func TestHomepageSettingUpsert(t *testing.T) {
	env := newTestEnv(t)
	h := &handlers.SettingsHandler{DB: env.DB}

	rec, c := env.doJSONRequest(http.MethodPost, "/api/homepage-setting", map[string]any{
		"hero_title": "Summer Sale",
		"banner_on":  true,
		"slots":      []string{"a", "b"},
	})
	require.NoError(t, h.UpsertHomepage(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// overwrite one key
	rec, c = env.doJSONRequest(http.MethodPatch, "/api/homepage-setting", map[string]any{
		"hero_title": "Rainy Season Sale",
	})
	require.NoError(t, h.UpsertHomepage(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, c = env.doJSONRequest(http.MethodGet, "/api/homepage-setting", nil)
	require.NoError(t, h.GetHomepage(c))

	var resp settingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "Rainy Season Sale", resp.Data["hero_title"])
	require.Equal(t, "true", resp.Data["banner_on"])
	require.JSONEq(t, `["a","b"]`, resp.Data["slots"])
}

func TestHomepageSettingEmptyBody(t *testing.T) {
	env := newTestEnv(t)
	h := &handlers.SettingsHandler{DB: env.DB}

	_, c := env.doJSONRequest(http.MethodPost, "/api/homepage-setting", map[string]any{})
	err := h.UpsertHomepage(c)
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, httpCode(t, err))
}

func TestAboutSettingIndependentOfHomepage(t *testing.T) {
	env := newTestEnv(t)
	h := &handlers.SettingsHandler{DB: env.DB}

	_, c := env.doJSONRequest(http.MethodPost, "/api/about-setting", map[string]any{"story": "founded 2019"})
	require.NoError(t, h.UpsertAbout(c))

	rec, c := env.doJSONRequest(http.MethodGet, "/api/homepage-setting", nil)
	require.NoError(t, h.GetHomepage(c))

	var resp settingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Empty(t, resp.Data)
}
