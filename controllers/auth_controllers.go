package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/hub"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const sessionCookie = "token"

type AuthController struct {
	DB            *gorm.DB
	Registrations *services.RegistrationService
	Tokens        *utils.TokenManager
	Blacklist     utils.TokenBlacklist
	Hub           *hub.Hub
	CookieSecure  bool
}

func NewAuthController(db *gorm.DB, reg *services.RegistrationService, tm *utils.TokenManager,
	bl utils.TokenBlacklist, h *hub.Hub, cookieSecure bool) *AuthController {
	return &AuthController{DB: db, Registrations: reg, Tokens: tm, Blacklist: bl, Hub: h, CookieSecure: cookieSecure}
}

// Register files a registration request for the block admin to review.
func (ac *AuthController) Register(c *gin.Context) {
	var req struct {
		FullName     string `json:"fullName" binding:"required"`
		StudentID    string `json:"studentID" binding:"required"`
		Branch       string `json:"branch" binding:"required"`
		CollegeEmail string `json:"collegeEmail" binding:"required,email"`
		HostelBlock  string `json:"hostelBlock" binding:"required"`
		RoomNO       string `json:"roomNO" binding:"required"`
		Password     string `json:"password" binding:"required,min=6"`
	}
	if !bindJSON(c, &req) {
		return
	}

	created, err := ac.Registrations.Submit(services.RegistrationInput{
		FullName:     req.FullName,
		StudentID:    req.StudentID,
		Branch:       req.Branch,
		CollegeEmail: req.CollegeEmail,
		HostelBlock:  req.HostelBlock,
		RoomNO:       req.RoomNO,
		Password:     req.Password,
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.InfoLogger.Printf("Registration request submitted: %s (block=%s)", created.StudentID, created.HostelBlock)
	ac.Hub.SendToBlockAdmins(created.HostelBlock, hub.Message{Event: hub.EventRegistrationCreated, Data: created})

	utils.RespondJSON(c, http.StatusCreated, "Registration request submitted. Wait for admin approval.", created)
}

func (ac *AuthController) setSession(c *gin.Context, id uint, role string) (string, bool) {
	token, err := ac.Tokens.GenerateToken(id, role)
	if err != nil {
		utils.Fail(c, utils.Internal(err))
		return "", false
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookie, token, int(ac.Tokens.TTL()/time.Second), "/", "", ac.CookieSecure, true)
	return token, true
}

// Login authenticates an approved student by roll number.
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		StudentID string `json:"studentID" binding:"required"`
		Password  string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}

	var user models.User
	if err := ac.DB.Where("student_id = ?", strings.TrimSpace(input.StudentID)).First(&user).Error; err != nil {
		utils.Fail(c, utils.BadRequest("Invalid credentials"))
		return
	}
	if !user.IsApproved {
		utils.Fail(c, utils.Forbidden("Account not approved by admin yet"))
		return
	}
	if !user.IsActive {
		utils.Fail(c, utils.Forbidden("Account is deactivated"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.Fail(c, utils.BadRequest("Invalid credentials"))
		return
	}

	token, ok := ac.setSession(c, user.ID, utils.RoleStudent)
	if !ok {
		return
	}
	utils.InfoLogger.Printf("Student login: %s", user.StudentID)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"user":  user,
		"role":  utils.RoleStudent,
		"token": token,
	})
}

func (ac *AuthController) AdminLogin(c *gin.Context) {
	var input struct {
		AdminID  string `json:"adminID" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}

	var admin models.Admin
	if err := ac.DB.Where("admin_id = ?", strings.TrimSpace(input.AdminID)).First(&admin).Error; err != nil {
		utils.Fail(c, utils.BadRequest("Invalid credentials"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(input.Password)); err != nil {
		utils.Fail(c, utils.BadRequest("Invalid credentials"))
		return
	}

	token, ok := ac.setSession(c, admin.ID, utils.RoleAdmin)
	if !ok {
		return
	}
	utils.InfoLogger.Printf("Admin login: %s (block=%s)", admin.AdminID, admin.HostelBlock)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"user":  admin,
		"role":  utils.RoleAdmin,
		"token": token,
	})
}

// Logout clears the cookie and revokes the presented token, if any.
func (ac *AuthController) Logout(c *gin.Context) {
	token, _ := c.Cookie(sessionCookie)
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	if token != "" {
		if claims, err := ac.Tokens.ParseToken(token); err == nil && claims.ExpiresAt != nil && ac.Blacklist != nil {
			if err := ac.Blacklist.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
				utils.ErrorLogger.Errorf("revoke token: %v", err)
			}
		}
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", ac.CookieSecure, true)
	utils.RespondJSON(c, http.StatusOK, "Logged out successfully", nil)
}

// Me returns the current principal.
func (ac *AuthController) Me(c *gin.Context) {
	session, ok := utils.CurrentSession(c)
	if !ok {
		utils.Fail(c, utils.Unauthorized("unauthorized"))
		return
	}
	var principal interface{} = session.Student
	if session.Role == utils.RoleAdmin {
		principal = session.Admin
	}
	utils.RespondJSON(c, http.StatusOK, "Current user", gin.H{
		"user": principal,
		"role": session.Role,
	})
}
