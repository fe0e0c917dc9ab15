package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type StudentController struct {
	DB        *gorm.DB
	Dashboard *services.DashboardService
}

func NewStudentController(db *gorm.DB, dash *services.DashboardService) *StudentController {
	return &StudentController{DB: db, Dashboard: dash}
}

func (sc *StudentController) GetProfile(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Profile retrieved", utils.CurrentStudent(c))
}

func (sc *StudentController) UpdateProfile(c *gin.Context) {
	var input struct {
		FullName   *string `json:"fullName"`
		Branch     *string `json:"branch"`
		ProfilePic *string `json:"profilePic" binding:"omitempty,max=512"`
	}
	if !bindJSON(c, &input) {
		return
	}

	updates := map[string]interface{}{}
	if input.FullName != nil && strings.TrimSpace(*input.FullName) != "" {
		updates["full_name"] = strings.TrimSpace(*input.FullName)
	}
	if input.Branch != nil && strings.TrimSpace(*input.Branch) != "" {
		updates["branch"] = strings.TrimSpace(*input.Branch)
	}
	if input.ProfilePic != nil {
		updates["profile_pic"] = strings.TrimSpace(*input.ProfilePic)
	}
	if len(updates) == 0 {
		utils.Fail(c, utils.BadRequest("Nothing to update"))
		return
	}

	student := utils.CurrentStudent(c)
	if err := sc.DB.Model(student).Updates(updates).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	var fresh models.User
	if err := sc.DB.First(&fresh, student.ID).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile updated", fresh)
}

func (sc *StudentController) ChangePassword(c *gin.Context) {
	var input struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=6"`
	}
	if !bindJSON(c, &input) {
		return
	}

	student := utils.CurrentStudent(c)
	if err := bcrypt.CompareHashAndPassword([]byte(student.Password), []byte(input.CurrentPassword)); err != nil {
		utils.Fail(c, utils.BadRequest("Current password is incorrect"))
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	if err := sc.DB.Model(student).Update("password", string(hashed)).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Password updated successfully", nil)
}

func (sc *StudentController) GetDashboardStats(c *gin.Context) {
	stats, err := sc.Dashboard.StudentStats(utils.CurrentStudent(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}
