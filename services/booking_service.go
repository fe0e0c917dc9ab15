package services

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/utils"
	"gorm.io/gorm"
)

type RoomStatus string

const (
	RoomAvailable RoomStatus = "available"
	RoomPending   RoomStatus = "pending"
	RoomBooked    RoomStatus = "booked"
)

type RoomAvailability struct {
	RoomNo   string     `json:"roomNo"`
	Status   RoomStatus `json:"status"`
	Capacity int        `json:"capacity"`
}

// Overlaps reports whether the inclusive ranges [aFrom, aTo] and [bFrom, bTo]
// share at least one day.
func Overlaps(aFrom, aTo, bFrom, bTo time.Time) bool {
	return !aFrom.After(bTo) && !aTo.Before(bFrom)
}

// ComputeRoomStatuses derives one status per room of the fixed pool for the
// range [from, to]. An approved overlap makes a room booked, which wins over
// a pending overlap.
func ComputeRoomStatuses(rooms []models.GuestRoom, bookings []models.RoomBooking, from, to time.Time) []RoomAvailability {
	capacity := make(map[string]int, len(rooms))
	for _, r := range rooms {
		capacity[r.RoomNo] = r.Capacity
	}

	booked := make(map[string]bool)
	pending := make(map[string]bool)
	for _, b := range bookings {
		if b.GuestHostelBlock != models.GuestHostelBlock {
			continue
		}
		if !Overlaps(b.DateFrom, b.DateTo, from, to) {
			continue
		}
		switch b.Status {
		case models.BookingApproved:
			booked[b.GuestRoomNO] = true
		case models.BookingPending:
			pending[b.GuestRoomNO] = true
		}
	}

	out := make([]RoomAvailability, 0, models.GuestRoomCount)
	for _, no := range models.GuestRoomNumbers() {
		status := RoomAvailable
		if booked[no] {
			status = RoomBooked
		} else if pending[no] {
			status = RoomPending
		}
		cp := capacity[no]
		if cp <= 0 {
			cp = models.DefaultGuestCapacity
		}
		out = append(out, RoomAvailability{RoomNo: no, Status: status, Capacity: cp})
	}
	return out
}

// NormalizeRoomNo maps "5", "05" or "005" to the pool form "005".
func NormalizeRoomNo(s string) (string, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > models.GuestRoomCount {
		return "", false
	}
	return models.GuestRoomNo(n), true
}

type BookingService struct {
	DB *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

type BookingInput struct {
	VisitorName string
	Relation    string
	GuestRoomNO string
	DateFrom    time.Time
	DateTo      time.Time
	Purpose     string
}

// Availability returns every pool room with its status for [from, to].
func (s *BookingService) Availability(from, to time.Time) ([]RoomAvailability, error) {
	if to.Before(from) {
		return nil, utils.BadRequest("dateTo must not be before dateFrom")
	}

	var rooms []models.GuestRoom
	if err := s.DB.Where("guest_hostel_block = ? AND is_active = ?", models.GuestHostelBlock, true).
		Order("room_no ASC").Find(&rooms).Error; err != nil {
		return nil, utils.Internal(err)
	}

	var bookings []models.RoomBooking
	if err := s.DB.Where("guest_hostel_block = ? AND status IN ? AND date_from <= ? AND date_to >= ?",
		models.GuestHostelBlock,
		[]models.BookingStatus{models.BookingApproved, models.BookingPending},
		to, from).
		Find(&bookings).Error; err != nil {
		return nil, utils.Internal(err)
	}

	return ComputeRoomStatuses(rooms, bookings, from, to), nil
}

// approvedConflict finds an approved booking of roomNo overlapping the range,
// ignoring excludeID.
func approvedConflict(tx *gorm.DB, roomNo string, from, to time.Time, excludeID uint) (*models.RoomBooking, error) {
	q := tx.Where("guest_hostel_block = ? AND guest_room_no = ? AND status = ? AND date_from <= ? AND date_to >= ?",
		models.GuestHostelBlock, roomNo, models.BookingApproved, to, from)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var conflict models.RoomBooking
	err := q.First(&conflict).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conflict, nil
}

// Book files a pending request. Only approved bookings block a slot, so two
// pending requests for the same room and range can coexist.
func (s *BookingService) Book(student *models.User, in BookingInput) (*models.RoomBooking, error) {
	roomNo, ok := NormalizeRoomNo(in.GuestRoomNO)
	if !ok {
		return nil, utils.BadRequest("Unknown guest room number")
	}
	if in.DateTo.Before(in.DateFrom) {
		return nil, utils.BadRequest("dateTo must not be before dateFrom")
	}

	var room models.GuestRoom
	err := s.DB.Where("guest_hostel_block = ? AND room_no = ?", models.GuestHostelBlock, roomNo).First(&room).Error
	switch {
	case err == nil && !room.IsActive:
		return nil, utils.BadRequest("Guest room is not in service")
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, utils.Internal(err)
	}

	conflict, err := approvedConflict(s.DB, roomNo, in.DateFrom, in.DateTo, 0)
	if err != nil {
		return nil, utils.Internal(err)
	}
	if conflict != nil {
		return nil, utils.Conflict("Guest room already booked for that room no.")
	}

	booking := models.RoomBooking{
		UserID:           student.ID,
		GuestHostelBlock: models.GuestHostelBlock,
		VisitorName:      in.VisitorName,
		Relation:         in.Relation,
		GuestRoomNO:      roomNo,
		DateFrom:         in.DateFrom,
		DateTo:           in.DateTo,
		Purpose:          in.Purpose,
		Status:           models.BookingPending,
	}
	if err := s.DB.Create(&booking).Error; err != nil {
		return nil, utils.Internal(err)
	}
	return &booking, nil
}

// UpdateStatus approves or rejects a booking of a student in the admin's
// block. Approval re-checks overlap against the other approved bookings.
func (s *BookingService) UpdateStatus(admin *models.Admin, id uint, status models.BookingStatus) (*models.RoomBooking, error) {
	if status != models.BookingApproved && status != models.BookingRejected {
		return nil, utils.BadRequest("Invalid status")
	}

	var booking models.RoomBooking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Student").First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("Booking not found")
			}
			return utils.Internal(err)
		}
		if booking.Student == nil || booking.Student.HostelBlock != admin.HostelBlock {
			return utils.Forbidden("Not authorized. This booking belongs to a student from a different hostel block.")
		}

		if status == models.BookingApproved {
			conflict, err := approvedConflict(tx, booking.GuestRoomNO, booking.DateFrom, booking.DateTo, booking.ID)
			if err != nil {
				return utils.Internal(err)
			}
			if conflict != nil {
				return utils.Conflict("Guest room already approved for an overlapping booking")
			}
		}

		if err := tx.Model(&models.RoomBooking{}).Where("id = ?", booking.ID).Update("status", status).Error; err != nil {
			return utils.Internal(err)
		}
		booking.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
