package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Karavaev93/campusparking/internal/domain"
	"github.com/Karavaev93/campusparking/internal/service/slots"
)

type SlotHandler struct {
	service slots.SlotUseCase
}

type addSlotRequest struct {
	SlotNumber string `json:"slot_number" binding:"required"`
	Zone       string `json:"zone" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"min=0"`
}

type updatePriceRequest struct {
	PriceCents int64 `json:"price_cents" binding:"min=0"`
}

type slotResponse struct {
	ID         string `json:"id"`
	SlotNumber string `json:"slot_number"`
	Zone       string `json:"zone"`
	PriceCents int64  `json:"price_cents"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

func toSlotResponse(s *domain.Slot) slotResponse {
	return slotResponse{
		ID:         s.ID,
		SlotNumber: s.SlotNumber,
		Zone:       s.Zone,
		PriceCents: s.PriceCents,
		Status:     string(s.Status),
		CreatedAt:  s.CreatedAt.Format(time.RFC3339),
	}
}

func NewSlotHandler(service slots.SlotUseCase) *SlotHandler {
	return &SlotHandler{service: service}
}

func (h *SlotHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", h.add)
	router.PATCH("/:id/price", h.updatePrice)
}

func (h *SlotHandler) list(c *gin.Context) {
	slots, err := h.service.List(c.Request.Context(), c.Query("zone"))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]slotResponse, 0, len(slots))
	for i := range slots {
		resp = append(resp, toSlotResponse(&slots[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SlotHandler) get(c *gin.Context) {
	slot, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSlotResponse(slot))
}

func (h *SlotHandler) add(c *gin.Context) {
	var req addSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := h.service.Add(c.Request.Context(), sessionFrom(c), slots.AddSlotInput{
		SlotNumber: req.SlotNumber,
		Zone:       req.Zone,
		PriceCents: req.PriceCents,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toSlotResponse(slot))
}

func (h *SlotHandler) updatePrice(c *gin.Context) {
	var req updatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := h.service.UpdatePrice(c.Request.Context(), sessionFrom(c), c.Param("id"), req.PriceCents)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSlotResponse(slot))
}
