package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"localpro/models"
	"localpro/services/availability"
	"localpro/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler exposes the listing-scoped availability endpoints.
type AvailabilityHandler struct {
	Service availability.AvailabilityService
}

// NewAvailabilityHandler creates an AvailabilityHandler.
func NewAvailabilityHandler(svc availability.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

type availabilitySlotInput struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type createAvailabilityInput struct {
	StartDate     string                  `json:"startDate" binding:"required"`
	EndDate       string                  `json:"endDate" binding:"required"`
	AvailableDays []string                `json:"availableDays" binding:"required"`
	TimeSlots     []availabilitySlotInput `json:"timeSlots"`
	Recurrence    string                  `json:"recurrence"`
	Notes         string                  `json:"notes"`
}

// CreateAvailabilityHandler declares a new availability window for a listing.
func (h *AvailabilityHandler) CreateAvailabilityHandler(c *gin.Context) {
	var input createAvailabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	start, err := parseDate(input.StartDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid startDate", err.Error())
		return
	}
	end, err := parseDate(input.EndDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid endDate", err.Error())
		return
	}
	days, err := parseWeekdays(input.AvailableDays)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid availableDays", err.Error())
		return
	}

	record, err := h.Service.Create(c.Request.Context(), availability.CreateInput{
		ListingID:     c.Param("listingId"),
		StartDate:     start,
		EndDate:       end,
		AvailableDays: days,
		TimeSlots:     toSlots(input.TimeSlots),
		Recurrence:    input.Recurrence,
		Notes:         input.Notes,
	})
	if err != nil {
		h.writeAvailabilityError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

type updateAvailabilityInput struct {
	StartDate     *string                  `json:"startDate"`
	EndDate       *string                  `json:"endDate"`
	AvailableDays *[]string                `json:"availableDays"`
	TimeSlots     *[]availabilitySlotInput `json:"timeSlots"`
	Recurrence    *string                  `json:"recurrence"`
	Active        *bool                    `json:"active"`
	Notes         *string                  `json:"notes"`
}

// UpdateAvailabilityHandler applies a partial mutation by identity.
func (h *AvailabilityHandler) UpdateAvailabilityHandler(c *gin.Context) {
	var input updateAvailabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	upd := availability.UpdateInput{
		Recurrence: input.Recurrence,
		Active:     input.Active,
		Notes:      input.Notes,
	}
	if input.StartDate != nil {
		start, err := parseDate(*input.StartDate)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid startDate", err.Error())
			return
		}
		upd.StartDate = &start
	}
	if input.EndDate != nil {
		end, err := parseDate(*input.EndDate)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid endDate", err.Error())
			return
		}
		upd.EndDate = &end
	}
	if input.AvailableDays != nil {
		days, err := parseWeekdays(*input.AvailableDays)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid availableDays", err.Error())
			return
		}
		upd.AvailableDays = &days
	}
	if input.TimeSlots != nil {
		slots := toSlots(*input.TimeSlots)
		upd.TimeSlots = &slots
	}

	record, err := h.Service.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		h.writeAvailabilityError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// DeleteAvailabilityHandler hard-removes an availability record.
func (h *AvailabilityHandler) DeleteAvailabilityHandler(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeAvailabilityError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// AvailableOnHandler returns the record covering a single date, if any.
func (h *AvailabilityHandler) AvailableOnHandler(c *gin.Context) {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	record, err := h.Service.FindAvailableOn(c.Request.Context(), c.Param("listingId"), date)
	if err != nil {
		h.writeAvailabilityError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": record})
}

// CheckAvailabilityHandler reports whether a whole date range is covered.
func (h *AvailabilityHandler) CheckAvailabilityHandler(c *gin.Context) {
	start, err := parseDate(c.Query("start"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid start", err.Error())
		return
	}
	end, err := parseDate(c.Query("end"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid end", err.Error())
		return
	}

	available, err := h.Service.CheckAvailability(c.Request.Context(), c.Param("listingId"), start, end)
	if err != nil {
		h.writeAvailabilityError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}

type blockDatesInput struct {
	Dates []string `json:"dates" binding:"required"`
}

// BlockDatesHandler unions dates into every active record of the listing.
func (h *AvailabilityHandler) BlockDatesHandler(c *gin.Context) {
	var input blockDatesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	dates := make([]time.Time, 0, len(input.Dates))
	for _, raw := range input.Dates {
		d, err := parseDate(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid date", err.Error())
			return
		}
		dates = append(dates, d)
	}

	touched, err := h.Service.BlockDates(c.Request.Context(), c.Param("listingId"), dates)
	if err != nil {
		h.writeAvailabilityError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updatedRecords": touched})
}

func (h *AvailabilityHandler) writeAvailabilityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, availability.ErrInvalidWindow),
		errors.Is(err, availability.ErrNoAvailableDays),
		errors.Is(err, availability.ErrInvalidTimeSlot),
		errors.Is(err, availability.ErrInvalidRecurrence):
		utils.JSONError(c, http.StatusBadRequest, "validation failed", err.Error())
	case errors.Is(err, availability.ErrOverlap):
		utils.JSONError(c, http.StatusConflict, "overlapping availability", err.Error())
	case errors.Is(err, availability.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "availability not found", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "availability request failed", err.Error())
	}
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse(models.DateLayout, raw)
}

var weekdaysByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekdays(names []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		d, ok := weekdaysByName[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		days = append(days, d)
	}
	return days, nil
}

func toSlots(in []availabilitySlotInput) []models.AvailabilitySlot {
	slots := make([]models.AvailabilitySlot, 0, len(in))
	for _, s := range in {
		slots = append(slots, models.AvailabilitySlot{Start: s.Start, End: s.End})
	}
	return slots
}
