package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/siamstore/storefront/internal/handlers"
	"github.com/siamstore/storefront/internal/middleware/auth"
)

type Deps struct {
	OrderHandler    *handlers.OrderHandler
	CatalogHandler  *handlers.CatalogHandler
	CouponHandler   *handlers.CouponHandler
	SlipHandler     *handlers.SlipHandler
	SettingsHandler *handlers.SettingsHandler
	AddressHandler  *handlers.AddressHandler
	ProfileHandler  *handlers.ProfileHandler
	SearchHandler   *handlers.SearchHandler

	JWTSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	api := e.Group("/api")

	api.GET("/products", d.CatalogHandler.GetProducts)
	api.GET("/products/:id", d.CatalogHandler.GetProduct)
	api.GET("/categories", d.CatalogHandler.GetCategories)
	api.GET("/categories/:slug/products", d.CatalogHandler.GetCategoryProducts)

	api.POST("/coupons/validate", d.CouponHandler.ValidateCoupon)
	api.POST("/validate-slip", d.SlipHandler.ValidateSlip)

	if d.SearchHandler != nil {
		api.GET("/search", d.SearchHandler.Search)
	}

	api.GET("/homepage-setting", d.SettingsHandler.GetHomepage)
	api.POST("/homepage-setting", d.SettingsHandler.UpsertHomepage)
	api.PATCH("/homepage-setting", d.SettingsHandler.UpsertHomepage)
	api.GET("/about-setting", d.SettingsHandler.GetAbout)
	api.POST("/about-setting", d.SettingsHandler.UpsertAbout)
	api.PATCH("/about-setting", d.SettingsHandler.UpsertAbout)

	// user_id may come from the body, the signed-in cookie is only a fallback
	api.POST("/orders", d.OrderHandler.CreateOrder)

	priv := api.Group("", auth.RequireLogin(d.JWTSecret))

	priv.GET("/orders", d.OrderHandler.ListOrders)
	priv.GET("/orders/:id", d.OrderHandler.GetOrder)

	priv.GET("/addresses", d.AddressHandler.ListAddresses)
	priv.POST("/addresses", d.AddressHandler.CreateAddress)
	priv.PATCH("/addresses/:id", d.AddressHandler.UpdateAddress)
	priv.DELETE("/addresses/:id", d.AddressHandler.DeleteAddress)
	priv.POST("/addresses/:id/default", d.AddressHandler.SetDefaultAddress)

	priv.GET("/profile", d.ProfileHandler.GetProfile)
	priv.PATCH("/profile", d.ProfileHandler.UpdateProfile)
}
