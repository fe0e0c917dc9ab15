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

type MessLeaveController struct {
	DB  *gorm.DB
	Hub *hub.Hub
}

func NewMessLeaveController(db *gorm.DB, h *hub.Hub) *MessLeaveController {
	return &MessLeaveController{DB: db, Hub: h}
}

// ApplyMessLeave accepts startDate/endDate or the dateFrom/dateTo aliases.
func (mc *MessLeaveController) ApplyMessLeave(c *gin.Context) {
	var input struct {
		StartDate string `json:"startDate" binding:"omitempty,isodate"`
		EndDate   string `json:"endDate" binding:"omitempty,isodate"`
		DateFrom  string `json:"dateFrom" binding:"omitempty,isodate"`
		DateTo    string `json:"dateTo" binding:"omitempty,isodate"`
		Reason    string `json:"reason" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}

	startRaw := firstNonEmpty(input.StartDate, input.DateFrom)
	endRaw := firstNonEmpty(input.EndDate, input.DateTo)
	if startRaw == "" || endRaw == "" {
		utils.Fail(c, utils.BadRequest("startDate and endDate are required"))
		return
	}
	start, err := parseDay("startDate", startRaw)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	end, err := parseDay("endDate", endRaw)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if end.Before(start) {
		utils.Fail(c, utils.BadRequest("Enter a valid end date"))
		return
	}

	student := utils.CurrentStudent(c)
	leave := models.MessLeave{
		UserID:      student.ID,
		HostelBlock: student.HostelBlock,
		StartDate:   start,
		EndDate:     end,
		Reason:      input.Reason,
		Status:      models.LeavePending,
	}
	if err := mc.DB.Create(&leave).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}

	mc.Hub.SendToBlockAdmins(student.HostelBlock, hub.Message{Event: hub.EventLeaveUpdated, Data: leave})
	utils.RespondJSON(c, http.StatusCreated, "Mess leave applied", leave)
}

func (mc *MessLeaveController) GetMyMessLeaves(c *gin.Context) {
	var leaves []models.MessLeave
	if err := mc.DB.Where("user_id = ?", utils.CurrentStudent(c).ID).
		Order("created_at DESC").Find(&leaves).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Mess leaves retrieved", leaves)
}

func (mc *MessLeaveController) GetBlockMessLeaves(c *gin.Context) {
	var leaves []models.MessLeave
	if err := mc.DB.Preload("Student").
		Where("hostel_block = ?", utils.CurrentAdmin(c).HostelBlock).
		Order("created_at DESC").Find(&leaves).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Mess leaves retrieved", leaves)
}

func (mc *MessLeaveController) decide(c *gin.Context, status models.LeaveStatus) (*models.MessLeave, error) {
	id, err := parseParamID(c, "id")
	if err != nil {
		return nil, err
	}

	var leave models.MessLeave
	if err := mc.DB.First(&leave, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Leave request not found")
		}
		return nil, utils.Internal(err)
	}
	if leave.HostelBlock != utils.CurrentAdmin(c).HostelBlock {
		return nil, utils.ErrOtherBlock
	}
	if leave.Status != models.LeavePending {
		return nil, utils.BadRequest("Leave request already " + string(leave.Status))
	}

	res := mc.DB.Model(&models.MessLeave{}).
		Where("id = ? AND status = ?", leave.ID, models.LeavePending).
		Update("status", status)
	if res.Error != nil {
		return nil, utils.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, utils.BadRequest("Leave request already processed")
	}
	leave.Status = status

	mc.Hub.SendToStudent(leave.UserID, hub.Message{Event: hub.EventLeaveUpdated, Data: leave})
	return &leave, nil
}

func (mc *MessLeaveController) ApproveMessLeave(c *gin.Context) {
	leave, err := mc.decide(c, models.LeaveApproved)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Mess leave approved", leave)
}

func (mc *MessLeaveController) RejectMessLeave(c *gin.Context) {
	leave, err := mc.decide(c, models.LeaveRejected)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Mess leave rejected", leave)
}
