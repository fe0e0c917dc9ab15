package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/hub"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/utils"
	"gorm.io/gorm"
)

type ComplaintController struct {
	DB  *gorm.DB
	Hub *hub.Hub
}

func NewComplaintController(db *gorm.DB, h *hub.Hub) *ComplaintController {
	return &ComplaintController{DB: db, Hub: h}
}

func (cc *ComplaintController) CreateComplaint(c *gin.Context) {
	var input struct {
		Category    string `json:"category" binding:"required,oneof=electricity water mess fans lightbulb other"`
		Description string `json:"description" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}

	student := utils.CurrentStudent(c)
	complaint := models.Complaint{
		UserID:      student.ID,
		HostelBlock: student.HostelBlock,
		Category:    input.Category,
		Description: input.Description,
		Status:      models.ComplaintPending,
	}
	if err := cc.DB.Create(&complaint).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}

	cc.Hub.SendToBlockAdmins(student.HostelBlock, hub.Message{Event: hub.EventComplaintUpdated, Data: complaint})
	utils.RespondJSON(c, http.StatusCreated, "Complaint submitted successfully", complaint)
}

func (cc *ComplaintController) GetMyComplaints(c *gin.Context) {
	var complaints []models.Complaint
	if err := cc.DB.Where("user_id = ?", utils.CurrentStudent(c).ID).
		Order("created_at DESC").Find(&complaints).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Complaints retrieved", complaints)
}

func (cc *ComplaintController) GetBlockComplaints(c *gin.Context) {
	var complaints []models.Complaint
	if err := cc.DB.Preload("Student").
		Where("hostel_block = ?", utils.CurrentAdmin(c).HostelBlock).
		Order("created_at DESC").Find(&complaints).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Complaints retrieved", complaints)
}

// transition loads a complaint of the admin's block and moves it to next,
// applying extra column updates.
func (cc *ComplaintController) transition(c *gin.Context, next models.ComplaintStatus, extra map[string]interface{}) (*models.Complaint, error) {
	id, err := parseParamID(c, "id")
	if err != nil {
		return nil, err
	}

	var complaint models.Complaint
	if err := cc.DB.First(&complaint, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Complaint not found")
		}
		return nil, utils.Internal(err)
	}
	if complaint.HostelBlock != utils.CurrentAdmin(c).HostelBlock {
		return nil, utils.ErrOtherBlock
	}
	if !complaint.Status.CanMoveTo(next) {
		return nil, utils.BadRequest("Complaint cannot move from " + string(complaint.Status) + " to " + string(next))
	}

	updates := map[string]interface{}{"status": next}
	for k, v := range extra {
		updates[k] = v
	}
	if err := cc.DB.Model(&complaint).Updates(updates).Error; err != nil {
		return nil, utils.Internal(err)
	}
	if err := cc.DB.First(&complaint, id).Error; err != nil {
		return nil, utils.Internal(err)
	}

	cc.Hub.SendToStudent(complaint.UserID, hub.Message{Event: hub.EventComplaintUpdated, Data: complaint})
	return &complaint, nil
}

// AcceptComplaint marks a complaint accepted and schedules its resolution.
func (cc *ComplaintController) AcceptComplaint(c *gin.Context) {
	var input struct {
		ResolutionDate string `json:"resolutionDate" binding:"omitempty,isodate"`
		ResolutionTime string `json:"resolutionTime" binding:"omitempty,max=20"`
	}
	if !bindOptionalJSON(c, &input) {
		return
	}

	extra := map[string]interface{}{}
	if input.ResolutionDate != "" {
		d, err := parseDay("resolutionDate", input.ResolutionDate)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		extra["resolution_date"] = d
	}
	if input.ResolutionTime != "" {
		extra["resolution_time"] = input.ResolutionTime
	}

	complaint, err := cc.transition(c, models.ComplaintAccepted, extra)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Complaint accepted", complaint)
}

func (cc *ComplaintController) ResolveComplaint(c *gin.Context) {
	complaint, err := cc.transition(c, models.ComplaintResolved, nil)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Complaint resolved", complaint)
}

func (cc *ComplaintController) UpdateComplaintStatus(c *gin.Context) {
	var input struct {
		Status models.ComplaintStatus `json:"status" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}
	if !input.Status.Valid() {
		utils.Fail(c, utils.BadRequest("Invalid status"))
		return
	}

	complaint, err := cc.transition(c, input.Status, nil)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Complaint status updated", complaint)
}
