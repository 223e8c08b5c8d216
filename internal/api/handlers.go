package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"auracheck/internal/db"
	"auracheck/internal/logging"
	"auracheck/internal/models"
	"auracheck/internal/readings"
	"auracheck/internal/ws"
)

type Handler struct {
	db     *db.DB
	svc    *readings.Service
	hub    *ws.Hub
	logger *logging.Logger
}

func NewHandler(dbConn *db.DB, svc *readings.Service, hub *ws.Hub, logger *logging.Logger) *Handler {
	return &Handler{db: dbConn, svc: svc, hub: hub, logger: logger}
}

// PostReading ingests one sensor reading. Range and presence checks happen
// here at the binding; the pipeline assumes validated input.
func (h *Handler) PostReading(c *gin.Context) {
	var payload models.SensorPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Errorf("Invalid reading payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reading, err := h.svc.Ingest(c.Request.Context(), payload)
	if err != nil {
		h.logger.Errorf("Ingest failed for device %s: %v", payload.DeviceID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ingest reading"})
		return
	}
	c.JSON(http.StatusCreated, reading)
}

func (h *Handler) GetAllReadings(c *gin.Context) {
	result, err := h.db.GetAllLatest(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Get readings failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch readings"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetReading(c *gin.Context) {
	deviceID := c.Param("device_id")
	reading, err := h.db.GetLatestByDevice(c.Request.Context(), deviceID)
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
		return
	}
	if err != nil {
		h.logger.Errorf("Get reading for %s failed: %v", deviceID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reading"})
		return
	}
	c.JSON(http.StatusOK, reading)
}

func (h *Handler) GetHistory(c *gin.Context) {
	deviceID := c.Param("device_id")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}
	if limit > 200 {
		limit = 200
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset"})
		return
	}

	entries, err := h.db.GetHistory(c.Request.Context(), deviceID, limit, offset)
	if err != nil {
		h.logger.Errorf("Get history for %s failed: %v", deviceID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries, "limit": limit, "offset": offset})
}

func (h *Handler) PostSnooze(c *gin.Context) {
	deviceID := c.Param("device_id")
	state, err := h.svc.Snooze(c.Request.Context(), deviceID)
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
		return
	}
	if err != nil {
		h.logger.Errorf("Snooze for %s failed: %v", deviceID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set snooze"})
		return
	}
	h.logger.Infof("Device %s snoozed until %v", deviceID, state.CooldownUntil)
	c.JSON(http.StatusOK, state)
}

func (h *Handler) DeleteSnooze(c *gin.Context) {
	deviceID := c.Param("device_id")
	state, err := h.svc.CancelSnooze(c.Request.Context(), deviceID)
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
		return
	}
	if err != nil {
		h.logger.Errorf("Cancel snooze for %s failed: %v", deviceID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel snooze"})
		return
	}
	h.logger.Infof("Device %s snooze cancelled", deviceID)
	c.JSON(http.StatusOK, state)
}

func (h *Handler) PostContact(c *gin.Context) {
	var body models.ContactCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Errorf("Invalid contact payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact, err := h.db.CreateContact(c.Request.Context(), body)
	if err != nil {
		h.logger.Errorf("Create contact failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contact"})
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (h *Handler) GetContacts(c *gin.Context) {
	location := c.Query("location")
	if location == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query param 'location' is required"})
		return
	}

	contacts, err := h.db.GetContactsByLocation(c.Request.Context(), location)
	if err != nil {
		h.logger.Errorf("Get contacts for %s failed: %v", location, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contacts"})
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (h *Handler) GetLocations(c *gin.Context) {
	summaries, err := h.db.GetLocationsSummary(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Get locations failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch locations"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection and keeps it registered on the hub until
// the client goes away.
func (h *Handler) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}

	h.hub.Add(conn)
	go func() {
		defer func() {
			h.hub.Remove(conn)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
