package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"auracheck/internal/config"
	"auracheck/internal/db"
	"auracheck/internal/logging"
	"auracheck/internal/readings"
	"auracheck/internal/ws"
)

func NewRouter(dbConn *db.DB, svc *readings.Service, hub *ws.Hub, logger *logging.Logger, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger))

	h := NewHandler(dbConn, svc, hub, logger)
	api := r.Group(cfg.API.BasePath)
	{
		// Readings
		api.POST("/readings", h.PostReading)
		api.GET("/readings", h.GetAllReadings)
		api.GET("/readings/:device_id", h.GetReading)
		api.GET("/readings/:device_id/history", h.GetHistory)

		// Snooze
		api.POST("/devices/:device_id/snooze", h.PostSnooze)
		api.DELETE("/devices/:device_id/snooze", h.DeleteSnooze)

		// Contacts
		api.POST("/contacts", h.PostContact)
		api.GET("/contacts", h.GetContacts)

		// Rollups and live feed
		api.GET("/locations", h.GetLocations)
		api.GET("/ws", h.ServeWS)

		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return r
}
