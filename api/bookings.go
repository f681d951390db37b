package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Karavaev93/campusparking/internal/domain"
	"github.com/Karavaev93/campusparking/internal/service/bookings"
)

type BookingHandler struct {
	service bookings.BookingUseCase
}

type createBookingRequest struct {
	SlotID string `json:"slot_id" binding:"required"`
}

type bookingResponse struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	SlotID       string `json:"slot_id"`
	Status       string `json:"status"`
	BookedAt     string `json:"booked_at"`
	CheckedInAt  string `json:"checked_in_at,omitempty"`
	CheckedOutAt string `json:"checked_out_at,omitempty"`
	TotalCents   *int64 `json:"total_cents,omitempty"`
}

type bookingWithSlotResponse struct {
	bookingResponse
	SlotNumber     string `json:"slot_number"`
	Zone           string `json:"zone"`
	SlotPriceCents int64  `json:"slot_price_cents"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:         b.ID,
		UserID:     b.UserID,
		SlotID:     b.SlotID,
		Status:     string(b.Status),
		BookedAt:   b.BookedAt.Format(time.RFC3339),
		TotalCents: b.TotalCents,
	}
	if b.CheckedInAt != nil {
		resp.CheckedInAt = b.CheckedInAt.Format(time.RFC3339)
	}
	if b.CheckedOutAt != nil {
		resp.CheckedOutAt = b.CheckedOutAt.Format(time.RFC3339)
	}
	return resp
}

func NewBookingHandler(service bookings.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/active", h.active)
	router.POST("", h.create)
	router.POST("/:id/check-in", h.checkIn)
	router.POST("/:id/check-out", h.checkOut)
	router.POST("/:id/cancel", h.cancel)
}

func (h *BookingHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), sessionFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]bookingWithSlotResponse, 0, len(list))
	for i := range list {
		resp = append(resp, bookingWithSlotResponse{
			bookingResponse: toBookingResponse(&list[i].Booking),
			SlotNumber:      list[i].SlotNumber,
			Zone:            list[i].Zone,
			SlotPriceCents:  list[i].SlotPriceCents,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) active(c *gin.Context) {
	booking, err := h.service.Active(c.Request.Context(), sessionFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if booking == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.service.Create(c.Request.Context(), sessionFrom(c), req.SlotID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(booking))
}

func (h *BookingHandler) checkIn(c *gin.Context) {
	booking, err := h.service.CheckIn(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) checkOut(c *gin.Context) {
	booking, err := h.service.CheckOut(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	booking, err := h.service.Cancel(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}
