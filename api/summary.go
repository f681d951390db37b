package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Karavaev93/campusparking/internal/service/bookings"
)

type SummaryHandler struct {
	service bookings.BookingUseCase
}

type summaryResponse struct {
	SlotsTotal        int    `json:"slots_total"`
	SlotsAvailable    int    `json:"slots_available"`
	SlotsBooked       int    `json:"slots_booked"`
	SlotsOccupied     int    `json:"slots_occupied"`
	ActiveBookings    int    `json:"active_bookings"`
	CompletedBookings int    `json:"completed_bookings"`
	RevenueCents      *int64 `json:"revenue_cents,omitempty"`
}

func NewSummaryHandler(service bookings.BookingUseCase) *SummaryHandler {
	return &SummaryHandler{service: service}
}

func (h *SummaryHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.summary)
}

func (h *SummaryHandler) summary(c *gin.Context) {
	sum, err := h.service.Summary(c.Request.Context(), sessionFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaryResponse{
		SlotsTotal:        sum.SlotsTotal,
		SlotsAvailable:    sum.SlotsAvailable,
		SlotsBooked:       sum.SlotsBooked,
		SlotsOccupied:     sum.SlotsOccupied,
		ActiveBookings:    sum.ActiveBookings,
		CompletedBookings: sum.CompletedBookings,
		RevenueCents:      sum.RevenueCents,
	})
}
