// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sirparcel/internal/http/handlers"
	"sirparcel/internal/http/middleware"
)

func NewRouter(deps ServerDeps) http.Handler {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.RequestIDs(), middleware.Logging(log), middleware.Recovery(log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")

	quoteHandler := handlers.NewQuoteHandler(deps.Pricing, deps.Planner)
	api.GET("/cities", quoteHandler.Cities)
	api.POST("/quote", quoteHandler.Quote)
	api.POST("/tools/volumetric-weight", quoteHandler.VolumetricWeight)

	locationHandler := handlers.NewLocationHandler(deps.Location)
	api.GET("/locations/states", locationHandler.States)
	api.GET("/locations/states/:state/cities", locationHandler.Cities)
	api.GET("/locations/states/:state/cities/:city/offices", locationHandler.Offices)

	trackHandler := handlers.NewTrackHandler(deps.Order)
	api.GET("/track/:waybill", trackHandler.Track)
	api.GET("/track/:waybill/proof", trackHandler.Proof)

	pickupHandler := handlers.NewPickupHandler(deps.Pickup)
	api.POST("/pickups", pickupHandler.Schedule)

	// Everything below reads or writes the session cookie.
	sess := api.Group("", middleware.Session(deps.Sessions))

	accountHandler := handlers.NewAccountHandler(deps.Account)
	sess.POST("/accounts", accountHandler.SignUp)
	sess.POST("/accounts/password-reset", accountHandler.ResetPassword)
	sess.POST("/session", accountHandler.Login)
	sess.DELETE("/session", accountHandler.Logout)

	assistantHandler := handlers.NewAssistantHandler(deps.Assistant)
	sess.GET("/assistant/messages", assistantHandler.History)
	sess.POST("/assistant/messages", assistantHandler.Send)

	me := sess.Group("/me", middleware.RequireLogin())
	me.GET("", accountHandler.Me)
	me.PUT("", accountHandler.UpdateMe)

	orderHandler := handlers.NewOrderHandler(deps.Order, deps.Account)
	me.POST("/claims", orderHandler.Claim)
	me.GET("/orders", orderHandler.List)
	me.GET("/orders/:id/invoice", orderHandler.Invoice)

	return r
}
