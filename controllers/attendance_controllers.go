package controllers

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceController struct {
	DB  *gorm.DB
	Loc *time.Location
}

func NewAttendanceController(db *gorm.DB, loc *time.Location) *AttendanceController {
	return &AttendanceController{DB: db, Loc: loc}
}

func (ac *AttendanceController) blockStudents(block string) *gorm.DB {
	return ac.DB.Model(&models.User{}).Select("id").
		Where("role = ? AND hostel_block = ?", utils.RoleStudent, block)
}

// RecordAttendance sets a student's status for a day, overwriting any earlier
// record for the same day.
func (ac *AttendanceController) RecordAttendance(c *gin.Context) {
	var input struct {
		StudentID string                  `json:"studentID" binding:"required"`
		Status    models.AttendanceStatus `json:"status" binding:"required,oneof=present absent"`
		Date      string                  `json:"date" binding:"omitempty,isodate"`
	}
	if !bindJSON(c, &input) {
		return
	}

	day := utils.CalendarDay(time.Now(), ac.Loc)
	if input.Date != "" {
		d, err := parseDay("date", input.Date)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		day = d
	}

	admin := utils.CurrentAdmin(c)
	var student models.User
	err := ac.DB.Where("student_id = ? AND hostel_block = ? AND role = ?", input.StudentID, admin.HostelBlock, utils.RoleStudent).
		First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Fail(c, utils.NotFound("Student not found in your block"))
		return
	}
	if err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}

	var record models.Attendance
	err = ac.DB.Where("user_id = ? AND date = ?", student.ID, day).First(&record).Error
	switch {
	case err == nil:
		if err := ac.DB.Model(&record).Update("status", input.Status).Error; err != nil {
			utils.Fail(c, utils.Internal(err))
			return
		}
		record.Status = input.Status
		utils.RespondJSON(c, http.StatusOK, "Attendance updated", record)
		return
	case !errors.Is(err, gorm.ErrRecordNotFound):
		utils.Fail(c, utils.Internal(err))
		return
	}

	record = models.Attendance{UserID: student.ID, Date: day, Status: input.Status}
	if err := ac.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&record).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Attendance recorded", record)
}

func (ac *AttendanceController) GetAttendanceByDate(c *gin.Context) {
	raw := c.Query("date")
	if raw == "" {
		utils.Fail(c, utils.BadRequest("Date is required"))
		return
	}
	day, err := parseDay("date", raw)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	var records []models.Attendance
	if err := ac.DB.Preload("Student").
		Where("user_id IN (?) AND date = ?", ac.blockStudents(utils.CurrentAdmin(c).HostelBlock), day).
		Find(&records).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Attendance retrieved", records)
}

func (ac *AttendanceController) GetAllAttendance(c *gin.Context) {
	var records []models.Attendance
	if err := ac.DB.Preload("Student").
		Where("user_id IN (?)", ac.blockStudents(utils.CurrentAdmin(c).HostelBlock)).
		Order("date DESC").Find(&records).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Attendance retrieved", records)
}

type AttendanceStat struct {
	StudentID  string  `json:"studentID"`
	Name       string  `json:"name"`
	RoomNO     string  `json:"roomNO"`
	Total      int64   `json:"total"`
	Present    int64   `json:"present"`
	Absent     int64   `json:"absent"`
	Percentage float64 `json:"attendancePercentage"`
}

func (ac *AttendanceController) GetAttendanceStats(c *gin.Context) {
	block := utils.CurrentAdmin(c).HostelBlock

	var students []models.User
	if err := ac.DB.Where("role = ? AND hostel_block = ?", utils.RoleStudent, block).
		Order("student_id").Find(&students).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}

	var rows []struct {
		UserID    uint
		Status    models.AttendanceStatus
		Count     int64
	}
	if err := ac.DB.Model(&models.Attendance{}).
		Select("user_id, status, COUNT(*) AS count").
		Where("user_id IN (?)", ac.blockStudents(block)).
		Group("user_id, status").Scan(&rows).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	present := make(map[uint]int64)
	absent := make(map[uint]int64)
	for _, r := range rows {
		if r.Status == models.Present {
			present[r.UserID] = r.Count
		} else {
			absent[r.UserID] += r.Count
		}
	}

	stats := make([]AttendanceStat, 0, len(students))
	for _, s := range students {
		st := AttendanceStat{
			StudentID: s.StudentID,
			Name:      s.FullName,
			RoomNO:    s.RoomNO,
			Present:   present[s.ID],
			Absent:    absent[s.ID],
		}
		st.Total = st.Present + st.Absent
		if st.Total > 0 {
			st.Percentage = math.Round(float64(st.Present)/float64(st.Total)*10000) / 100
		}
		stats = append(stats, st)
	}
	utils.RespondJSON(c, http.StatusOK, "Attendance statistics", stats)
}

// GetMyAttendance returns the student's 30 most recent records.
func (ac *AttendanceController) GetMyAttendance(c *gin.Context) {
	var records []models.Attendance
	if err := ac.DB.Where("user_id = ?", utils.CurrentStudent(c).ID).
		Order("date DESC").Limit(30).Find(&records).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Attendance retrieved", records)
}
