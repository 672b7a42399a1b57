// Package server exposes the dashboard API: the active request list, the
// customer-part lookup, and the MES location proxy.
package server

import (
	"net/http"

	"github.com/TristoneFM/material-request-mes/internal/mes"
	"github.com/TristoneFM/material-request-mes/internal/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the dashboard API routes.
type Handler struct {
	log      *zap.Logger
	requests store.RequestRepository
	parts    store.CustomerPartRepository
	mes      mes.Client
}

func NewHandler(log *zap.Logger, requests store.RequestRepository, parts store.CustomerPartRepository, mesClient mes.Client) *Handler {
	return &Handler{log: log, requests: requests, parts: parts, mes: mesClient}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Health)
	r.GET("/api/material-requests", h.ListRequests)
	r.GET("/api/customer-part", h.CustomerPart)
	r.POST("/api/ubicaciones", h.Ubicaciones)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListRequests returns the active set for the configured plant, newest
// first. Terminal statuses never appear; the board relies on that.
func (h *Handler) ListRequests(c *gin.Context) {
	requests, err := h.requests.ActiveRequests(c.Request.Context())
	if err != nil {
		h.log.Error("listing material requests", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch material requests"})
		return
	}

	c.JSON(http.StatusOK, requests)
}

// customerPartResponse keeps custPart nullable: null means "no row", which
// the board renders differently from an error.
type customerPartResponse struct {
	CustPart *string `json:"custPart"`
}

func (h *Handler) CustomerPart(c *gin.Context) {
	sap := c.Query("sap")
	if sap == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "SAP number required"})
		return
	}

	part, found, err := h.parts.CustomerPart(c.Request.Context(), sap)
	if err != nil {
		h.log.Error("looking up customer part", zap.String("sap", sap), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	resp := customerPartResponse{}
	if found {
		resp.CustPart = &part
	}
	c.JSON(http.StatusOK, resp)
}

type ubicacionesRequest struct {
	SAPMaterial string `json:"sapMaterial"`
}

// Ubicaciones relays the MES material-search payload untouched; the board
// owns decoding and reshaping.
func (h *Handler) Ubicaciones(c *gin.Context) {
	var req ubicacionesRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SAPMaterial == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "SAP material required"})
		return
	}

	payload, err := h.mes.MaterialSearch(c.Request.Context(), req.SAPMaterial)
	if err != nil {
		h.log.Error("mes material search", zap.String("material", req.SAPMaterial), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ubicaciones"})
		return
	}

	c.Data(http.StatusOK, "application/json", payload)
}
