package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/hub"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/utils"
	"gorm.io/gorm"
)

type RoomBookingController struct {
	DB       *gorm.DB
	Bookings *services.BookingService
	Hub      *hub.Hub
}

func NewRoomBookingController(db *gorm.DB, bs *services.BookingService, h *hub.Hub) *RoomBookingController {
	return &RoomBookingController{DB: db, Bookings: bs, Hub: h}
}

// GetAvailableRooms lists all guest rooms with their status for the range.
func (rc *RoomBookingController) GetAvailableRooms(c *gin.Context) {
	var q struct {
		DateFrom string `form:"dateFrom" binding:"required,isodate"`
		DateTo   string `form:"dateTo" binding:"required,isodate"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	from, err := parseDay("dateFrom", q.DateFrom)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	to, err := parseDay("dateTo", q.DateTo)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	rooms, err := rc.Bookings.Availability(from, to)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	available := make([]string, 0, len(rooms))
	for _, r := range rooms {
		if r.Status == services.RoomAvailable {
			available = append(available, r.RoomNo)
		}
	}
	utils.RespondJSON(c, http.StatusOK, "Guest room availability", gin.H{
		"rooms":          rooms,
		"availableRooms": available,
		"dateFrom":       from,
		"dateTo":         to,
	})
}

func (rc *RoomBookingController) BookRoom(c *gin.Context) {
	var input struct {
		VisitorName string `json:"visitorName" binding:"required"`
		Relation    string `json:"relation" binding:"required"`
		GuestRoomNO string `json:"guestRoomNO" binding:"required"`
		DateFrom    string `json:"dateFrom" binding:"required,isodate"`
		DateTo      string `json:"dateTo" binding:"required,isodate"`
		Purpose     string `json:"purpose" binding:"max=500"`
	}
	if !bindJSON(c, &input) {
		return
	}
	from, err := parseDay("dateFrom", input.DateFrom)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	to, err := parseDay("dateTo", input.DateTo)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	student := utils.CurrentStudent(c)
	booking, err := rc.Bookings.Book(student, services.BookingInput{
		VisitorName: input.VisitorName,
		Relation:    input.Relation,
		GuestRoomNO: input.GuestRoomNO,
		DateFrom:    from,
		DateTo:      to,
		Purpose:     input.Purpose,
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}

	rc.Hub.SendToBlockAdmins(student.HostelBlock, hub.Message{Event: hub.EventBookingUpdated, Data: booking})
	utils.RespondJSON(c, http.StatusCreated, "Guest room booking requested", booking)
}

func (rc *RoomBookingController) GetMyBookings(c *gin.Context) {
	var bookings []models.RoomBooking
	if err := rc.DB.Where("user_id = ?", utils.CurrentStudent(c).ID).
		Order("created_at DESC").Find(&bookings).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bookings retrieved", bookings)
}

// GetBlockBookings lists bookings made by students of the admin's block.
func (rc *RoomBookingController) GetBlockBookings(c *gin.Context) {
	block := utils.CurrentAdmin(c).HostelBlock
	var bookings []models.RoomBooking
	if err := rc.DB.Preload("Student").
		Where("user_id IN (?)", rc.DB.Model(&models.User{}).Select("id").Where("hostel_block = ?", block)).
		Order("created_at DESC").Find(&bookings).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bookings retrieved", bookings)
}

func (rc *RoomBookingController) UpdateBookingStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input struct {
		Status models.BookingStatus `json:"status" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}

	booking, err := rc.Bookings.UpdateStatus(utils.CurrentAdmin(c), id, input.Status)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	rc.Hub.SendToStudent(booking.UserID, hub.Message{Event: hub.EventBookingUpdated, Data: booking})
	utils.RespondJSON(c, http.StatusOK, "Booking "+string(booking.Status), booking)
}
