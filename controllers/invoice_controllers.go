package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeremiapane/hostel-app/hub"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoiceController struct {
	DB      *gorm.DB
	Hub     *hub.Hub
	Gateway services.PaymentGateway
}

func NewInvoiceController(db *gorm.DB, h *hub.Hub, gw services.PaymentGateway) *InvoiceController {
	return &InvoiceController{DB: db, Hub: h, Gateway: gw}
}

func newInvoiceID() string {
	return "INV-" + strings.ToUpper(uuid.NewString())
}

func (ic *InvoiceController) GetMyInvoices(c *gin.Context) {
	var invoices []models.Invoice
	if err := ic.DB.Where("user_id = ?", utils.CurrentStudent(c).ID).
		Order("created_at DESC").Find(&invoices).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Invoices retrieved", invoices)
}

func (ic *InvoiceController) GetBlockInvoices(c *gin.Context) {
	var invoices []models.Invoice
	if err := ic.DB.Preload("Student").
		Where("hostel_block = ?", utils.CurrentAdmin(c).HostelBlock).
		Order("created_at DESC").Find(&invoices).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Invoices retrieved", invoices)
}

type createInvoiceInput struct {
	StudentID   interface{} `json:"studentID"`
	Title       string      `json:"title" binding:"required"`
	Description string      `json:"description" binding:"required"`
	Amount      float64     `json:"amount" binding:"required,gt=0"`
	DueDate     string      `json:"dueDate" binding:"required,isodate"`
	IsBroadcast bool        `json:"isBroadcast"`
	CampaignKey string      `json:"campaignKey" binding:"omitempty,max=64"`
}

// studentRef renders the studentID field, which clients send either as the
// numeric row id or as the roll number.
func studentRef(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

// findBlockStudent resolves ref by roll number first, then by row id.
func (ic *InvoiceController) findBlockStudent(block, ref string) (*models.User, error) {
	var student models.User
	base := ic.DB.Where("hostel_block = ? AND role = ?", block, utils.RoleStudent).Session(&gorm.Session{})
	err := base.Where("student_id = ?", ref).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if id, perr := strconv.ParseUint(ref, 10, 64); perr == nil {
			err = base.Where("id = ?", id).First(&student).Error
		}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFound("Student not found in this block")
	}
	if err != nil {
		return nil, utils.Internal(err)
	}
	return &student, nil
}

// CreateInvoice issues one targeted invoice, or with isBroadcast one invoice
// per approved student of the block. Broadcast retries with the same
// campaignKey do not duplicate rows.
func (ic *InvoiceController) CreateInvoice(c *gin.Context) {
	var input createInvoiceInput
	if !bindJSON(c, &input) {
		return
	}
	due, err := parseDay("dueDate", input.DueDate)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	admin := utils.CurrentAdmin(c)

	if !input.IsBroadcast {
		ref := studentRef(input.StudentID)
		if ref == "" {
			utils.Fail(c, utils.BadRequest("Student ID is required for non-broadcast invoices"))
			return
		}
		student, err := ic.findBlockStudent(admin.HostelBlock, ref)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		invoice := models.Invoice{
			InvoiceID:   newInvoiceID(),
			UserID:      student.ID,
			HostelBlock: admin.HostelBlock,
			Title:       input.Title,
			Description: input.Description,
			Amount:      input.Amount,
			DueDate:     due,
			Status:      models.InvoicePending,
		}
		if err := ic.DB.Create(&invoice).Error; err != nil {
			utils.Fail(c, utils.Internal(err))
			return
		}
		ic.Hub.SendToStudent(student.ID, hub.Message{Event: hub.EventInvoiceCreated, Data: invoice})
		utils.RespondJSON(c, http.StatusCreated, "Invoice created for student", invoice)
		return
	}

	var students []models.User
	if err := ic.DB.Where("role = ? AND hostel_block = ? AND is_approved = ?", utils.RoleStudent, admin.HostelBlock, true).
		Find(&students).Error; err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	if len(students) == 0 {
		utils.Fail(c, utils.NotFound("No students found in this block"))
		return
	}

	campaign := input.CampaignKey
	if campaign == "" {
		campaign = uuid.NewString()
	}
	invoices := make([]models.Invoice, 0, len(students))
	for _, s := range students {
		invoices = append(invoices, models.Invoice{
			InvoiceID:   newInvoiceID(),
			UserID:      s.ID,
			HostelBlock: admin.HostelBlock,
			Title:       input.Title,
			Description: input.Description,
			Amount:      input.Amount,
			DueDate:     due,
			Status:      models.InvoicePending,
			CampaignKey: &campaign,
		})
	}

	res := ic.DB.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&invoices, 200)
	if res.Error != nil {
		utils.Fail(c, utils.Internal(res.Error))
		return
	}

	created := res.RowsAffected
	data := gin.H{"campaignKey": campaign, "created": created, "students": len(students)}
	if created == 0 {
		utils.RespondJSON(c, http.StatusOK, "Invoice already broadcasted", data)
		return
	}
	ic.Hub.BroadcastToBlock(admin.HostelBlock, hub.Message{Event: hub.EventInvoiceCreated, Data: gin.H{
		"title": input.Title, "amount": input.Amount, "dueDate": due, "campaignKey": campaign,
	}})
	utils.RespondJSON(c, http.StatusCreated, fmt.Sprintf("Invoice broadcasted to %d students", created), data)
}

func (ic *InvoiceController) loadInvoice(c *gin.Context) (*models.Invoice, error) {
	id, err := parseParamID(c, "id")
	if err != nil {
		return nil, err
	}
	var invoice models.Invoice
	if err := ic.DB.Preload("Student").First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Invoice not found")
		}
		return nil, utils.Internal(err)
	}
	return &invoice, nil
}

// settle marks a pending invoice paid. It reports false when the invoice was
// already paid.
func (ic *InvoiceController) settle(invoice *models.Invoice, ref string) (bool, error) {
	now := time.Now().UTC()
	res := ic.DB.Model(&models.Invoice{}).
		Where("id = ? AND status = ?", invoice.ID, models.InvoicePending).
		Updates(map[string]interface{}{"status": models.InvoicePaid, "paid_at": now, "payment_ref": ref})
	if res.Error != nil {
		return false, utils.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	invoice.Status = models.InvoicePaid
	invoice.PaidAt = &now
	invoice.PaymentRef = &ref
	ic.Hub.SendToStudent(invoice.UserID, hub.Message{Event: hub.EventInvoiceUpdated, Data: invoice})
	return true, nil
}

func (ic *InvoiceController) MarkInvoicePaid(c *gin.Context) {
	invoice, err := ic.loadInvoice(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	admin := utils.CurrentAdmin(c)
	if invoice.HostelBlock != admin.HostelBlock {
		utils.Fail(c, utils.ErrOtherBlock)
		return
	}
	if invoice.Status == models.InvoicePaid {
		utils.Fail(c, utils.Conflict("Invoice already paid"))
		return
	}

	ok, err := ic.settle(invoice, "manual:"+admin.AdminID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if !ok {
		utils.Fail(c, utils.Conflict("Invoice already paid"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Invoice marked as paid", invoice)
}

// Checkout opens a Midtrans Snap transaction for the student's own invoice.
func (ic *InvoiceController) Checkout(c *gin.Context) {
	if ic.Gateway == nil || !ic.Gateway.Enabled() {
		utils.Fail(c, &utils.AppError{Code: http.StatusServiceUnavailable, Message: "Online payment is not available"})
		return
	}
	invoice, err := ic.loadInvoice(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	student := utils.CurrentStudent(c)
	if invoice.UserID != student.ID {
		utils.Fail(c, utils.Forbidden("Not your invoice"))
		return
	}
	if invoice.Status == models.InvoicePaid {
		utils.Fail(c, utils.Conflict("Invoice already paid"))
		return
	}

	checkout, err := ic.Gateway.CreateCheckout(*invoice, *student)
	if err != nil {
		utils.ErrorLogger.Errorf("checkout %s: %v", invoice.InvoiceID, err)
		utils.Fail(c, &utils.AppError{Code: http.StatusBadGateway, Message: "Payment gateway error", Err: err})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Checkout created", checkout)
}

// PaymentNotification handles the Midtrans webhook. Replays are harmless.
func (ic *InvoiceController) PaymentNotification(c *gin.Context) {
	if ic.Gateway == nil || !ic.Gateway.Enabled() {
		utils.Fail(c, &utils.AppError{Code: http.StatusServiceUnavailable, Message: "Online payment is not available"})
		return
	}
	var n services.PaymentNotification
	if !bindJSON(c, &n) {
		return
	}
	if !ic.Gateway.ValidateSignature(n.OrderID, n.StatusCode, n.GrossAmount, n.SignatureKey) {
		utils.ErrorLogger.Warnf("payment notification with bad signature for %s", n.OrderID)
		utils.Fail(c, utils.Forbidden("invalid signature"))
		return
	}

	var invoice models.Invoice
	if err := ic.DB.Where("invoice_id = ?", n.OrderID).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Fail(c, utils.NotFound("Invoice not found"))
			return
		}
		utils.Fail(c, utils.Internal(err))
		return
	}

	if !n.Settled() {
		utils.InfoLogger.Printf("payment notification %s for %s ignored", n.TransactionStatus, n.OrderID)
		utils.RespondJSON(c, http.StatusOK, "Notification ignored", gin.H{"status": invoice.Status})
		return
	}

	gross, err := strconv.ParseFloat(n.GrossAmount, 64)
	if err != nil || services.GrossAmount(gross) != services.GrossAmount(invoice.Amount) {
		utils.Fail(c, utils.BadRequest("gross amount does not match invoice"))
		return
	}

	if _, err := ic.settle(&invoice, "midtrans:"+n.TransactionID); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification processed", gin.H{"status": models.InvoicePaid})
}

// DownloadPDF serves the invoice to its student or to the block admin.
func (ic *InvoiceController) DownloadPDF(c *gin.Context) {
	invoice, err := ic.loadInvoice(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	session, _ := utils.CurrentSession(c)
	switch session.Role {
	case utils.RoleStudent:
		if invoice.UserID != session.ID {
			utils.Fail(c, utils.Forbidden("Not your invoice"))
			return
		}
	case utils.RoleAdmin:
		if invoice.HostelBlock != session.HostelBlock {
			utils.Fail(c, utils.ErrOtherBlock)
			return
		}
	}

	var student models.User
	if invoice.Student != nil {
		student = *invoice.Student
	}
	var buf bytes.Buffer
	if err := services.RenderInvoicePDF(&buf, *invoice, student); err != nil {
		utils.Fail(c, utils.Internal(err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, invoice.InvoiceID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
