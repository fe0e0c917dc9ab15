package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/hub"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/utils"
	"gorm.io/gorm"
)

type AnnouncementController struct {
	DB  *gorm.DB
	Hub *hub.Hub
}

func NewAnnouncementController(db *gorm.DB, h *hub.Hub) *AnnouncementController {
	return &AnnouncementController{DB: db, Hub: h}
}

// CreateAnnouncement posts to the admin's block, or to every block when
// global is set.
func (ac *AnnouncementController) CreateAnnouncement(c *gin.Context) {
	var input struct {
		Title   string `json:"title" binding:"required"`
		Message string `json:"message" binding:"required"`
		Global  bool   `json:"global"`
	}
	if !bindJSON(c, &input) {
		return
	}

	admin := utils.CurrentAdmin(c)
	block := admin.HostelBlock
	if input.Global {
		block = models.GlobalBlock
	}
	announcement := models.Announcement{
		Title:       input.Title,
		Message:     input.Message,
		HostelBlock: block,
		CreatedBy:   admin.ID,
	}
	if err := ac.DB.Create(&announcement).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}

	ac.Hub.BroadcastToBlock(block, hub.Message{Event: hub.EventAnnouncementCreated, Data: announcement})
	utils.RespondJSON(c, http.StatusCreated, "Announcement created", announcement)
}

func (ac *AnnouncementController) list(c *gin.Context, block string) {
	var announcements []models.Announcement
	if err := ac.DB.Preload("Author").
		Where("hostel_block IN ?", []string{block, models.GlobalBlock}).
		Order("created_at DESC").Find(&announcements).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Announcements retrieved", announcements)
}

func (ac *AnnouncementController) GetAdminAnnouncements(c *gin.Context) {
	ac.list(c, utils.CurrentAdmin(c).HostelBlock)
}

func (ac *AnnouncementController) GetMyAnnouncements(c *gin.Context) {
	ac.list(c, utils.CurrentStudent(c).HostelBlock)
}
