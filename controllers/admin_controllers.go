package controllers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/utils"
	"gorm.io/gorm"
)

// AdminController serves the block admin's registration queue, student
// directory and dashboard.
type AdminController struct {
	DB            *gorm.DB
	Registrations *services.RegistrationService
	Dashboard     *services.DashboardService
}

func NewAdminController(db *gorm.DB, reg *services.RegistrationService, dash *services.DashboardService) *AdminController {
	return &AdminController{DB: db, Registrations: reg, Dashboard: dash}
}

func (ac *AdminController) GetPendingRegistrations(c *gin.Context) {
	admin := utils.CurrentAdmin(c)
	reqs, err := ac.Registrations.Pending(admin.HostelBlock)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pending registration requests", reqs)
}

func (ac *AdminController) ApproveStudent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := ac.Registrations.Approve(utils.CurrentAdmin(c), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.InfoLogger.Printf("Student %s approved", user.StudentID)
	utils.RespondJSON(c, http.StatusOK, "Student approved successfully", user)
}

func (ac *AdminController) RejectStudent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input struct {
		Reason string `json:"reason"`
	}
	if !bindOptionalJSON(c, &input) {
		return
	}

	req, err := ac.Registrations.Reject(utils.CurrentAdmin(c), id, input.Reason)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Registration request rejected", req)
}

func (ac *AdminController) GetStudents(c *gin.Context) {
	admin := utils.CurrentAdmin(c)
	var students []models.User
	if err := ac.DB.Where("role = ? AND hostel_block = ?", utils.RoleStudent, admin.HostelBlock).
		Order("created_at DESC").Find(&students).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Students retrieved", students)
}

type StudentDetail struct {
	Student     models.User          `json:"student"`
	Complaints  []models.Complaint   `json:"complaints"`
	Attendance  []models.Attendance  `json:"attendance"`
	MessLeaves  []models.MessLeave   `json:"messLeaves"`
	Invoices    []models.Invoice     `json:"invoices"`
	RoomBooking []models.RoomBooking `json:"roomBookings"`
}

// GetStudentDetail looks the student up by roll number within the admin's block.
func (ac *AdminController) GetStudentDetail(c *gin.Context) {
	admin := utils.CurrentAdmin(c)

	var detail StudentDetail
	err := ac.DB.Where("student_id = ? AND hostel_block = ? AND role = ?",
		c.Param("id"), admin.HostelBlock, utils.RoleStudent).First(&detail.Student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Fail(c, utils.NotFound("Student not found"))
		return
	}
	if err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}

	sid := detail.Student.ID
	queries := []struct {
		dest  interface{}
		order string
	}{
		{&detail.Complaints, "created_at DESC"},
		{&detail.Attendance, "date DESC"},
		{&detail.MessLeaves, "start_date DESC"},
		{&detail.Invoices, "created_at DESC"},
		{&detail.RoomBooking, "date_from DESC"},
	}
	for _, q := range queries {
		if err := ac.DB.Where("user_id = ?", sid).Order(q.order).Find(q.dest).Error; err != nil {
			utils.Fail(c, utils.Internal(err))
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Student detail", detail)
}

func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	stats, err := ac.Dashboard.AdminStats(utils.CurrentAdmin(c).HostelBlock)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}

// GetAttendanceChart renders the dashboard attendance series as a PNG.
func (ac *AdminController) GetAttendanceChart(c *gin.Context) {
	stats, err := ac.Dashboard.AdminStats(utils.CurrentAdmin(c).HostelBlock)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var buf bytes.Buffer
	if err := services.RenderAttendanceChart(&buf, stats.AttendanceData); err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
