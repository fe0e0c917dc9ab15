package controllers_test

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/services"
)

func invoiceBody(extra gin.H) gin.H {
	body := gin.H{
		"title":       "Mess fee March",
		"description": "Monthly mess charges",
		"amount":      1500,
		"dueDate":     "2024-03-31",
	}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

func TestTargetedInvoiceAndManualPayment(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin("ADM-A", "A")
	student := env.seedStudent("21EC030", "A", "130")
	outsider := env.seedStudent("21EC031", "B", "131")
	adminToken := env.adminToken(admin)

	w, resp := env.do(http.MethodPost, "/api/invoices", adminToken, invoiceBody(nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Student ID is required for non-broadcast invoices", resp.Message)

	w, _ = env.do(http.MethodPost, "/api/invoices", adminToken, invoiceBody(gin.H{"studentID": outsider.StudentID}))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = env.do(http.MethodPost, "/api/invoices", adminToken, invoiceBody(gin.H{"amount": -5, "studentID": student.StudentID}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// roll number and numeric id both resolve
	w, _ = env.do(http.MethodPost, "/api/invoices", adminToken, invoiceBody(gin.H{"studentID": student.ID}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, resp = env.do(http.MethodPost, "/api/invoices", adminToken, invoiceBody(gin.H{"studentID": student.StudentID}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var invoice models.Invoice
	decode(t, resp.Data, &invoice)
	assert.Regexp(t, `^INV-[0-9A-F-]{36}$`, invoice.InvoiceID)
	assert.Equal(t, models.InvoicePending, invoice.Status)
	assert.Equal(t, student.ID, invoice.UserID)

	path := fmt.Sprintf("/api/invoices/%d/pay", invoice.ID)
	w, resp = env.do(http.MethodPatch, path, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, resp.Data, &invoice)
	assert.Equal(t, models.InvoicePaid, invoice.Status)
	require.NotNil(t, invoice.PaymentRef)
	assert.Equal(t, "manual:ADM-A", *invoice.PaymentRef)

	w, resp = env.do(http.MethodPatch, path, adminToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Invoice already paid", resp.Message)

	w, resp = env.do(http.MethodGet, "/api/invoices/my", env.studentToken(student), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.Invoice
	decode(t, resp.Data, &mine)
	assert.Len(t, mine, 2)

	w, _ = env.do(http.MethodGet, "/api/invoices/my", env.studentToken(outsider), nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBroadcastInvoiceIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin("ADM-A", "A")
	empty := env.seedAdmin("ADM-C", "C")
	for i := 0; i < 3; i++ {
		env.seedStudent(fmt.Sprintf("21EC04%d", i), "A", fmt.Sprintf("14%d", i))
	}
	env.seedStudent("21EC049", "B", "149")
	adminToken := env.adminToken(admin)

	w, resp := env.do(http.MethodPost, "/api/invoices", env.adminToken(empty), invoiceBody(gin.H{"isBroadcast": true}))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No students found in this block", resp.Message)

	body := invoiceBody(gin.H{"isBroadcast": true, "campaignKey": "mess-2024-03"})
	w, resp = env.do(http.MethodPost, "/api/invoices", adminToken, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var result struct {
		Created  int64  `json:"created"`
		Students int    `json:"students"`
		Campaign string `json:"campaignKey"`
	}
	decode(t, resp.Data, &result)
	assert.EqualValues(t, 3, result.Created)
	assert.Equal(t, 3, result.Students)
	assert.Equal(t, "mess-2024-03", result.Campaign)

	w, resp = env.do(http.MethodPost, "/api/invoices", adminToken, body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Invoice already broadcasted", resp.Message)
	decode(t, resp.Data, &result)
	assert.EqualValues(t, 0, result.Created)

	var count int64
	require.NoError(t, env.db.Model(&models.Invoice{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)

	w, resp = env.do(http.MethodGet, "/api/invoices/admin", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var block []models.Invoice
	decode(t, resp.Data, &block)
	assert.Len(t, block, 3)
	for _, inv := range block {
		require.NotNil(t, inv.Student)
		assert.Equal(t, inv.UserID, inv.Student.ID)
	}
}

func seedInvoice(t *testing.T, env *testEnv, student *models.User, amount float64) *models.Invoice {
	t.Helper()
	inv := &models.Invoice{
		InvoiceID:   fmt.Sprintf("INV-TEST-%d-%d", student.ID, int(amount)),
		UserID:      student.ID,
		HostelBlock: student.HostelBlock,
		Title:       "Room rent",
		Description: "Semester rent",
		Amount:      amount,
		Status:      models.InvoicePending,
	}
	require.NoError(t, env.db.Create(inv).Error)
	return inv
}

func notification(orderID, status, gross string, signed bool) gin.H {
	sig := "bogus"
	if signed {
		sig = services.Signature(orderID, "200", gross, gatewayKey)
	}
	return gin.H{
		"order_id":           orderID,
		"status_code":        "200",
		"gross_amount":       gross,
		"signature_key":      sig,
		"transaction_status": status,
		"transaction_id":     "trx-1",
		"fraud_status":       "accept",
	}
}

func TestCheckoutAndPaymentNotification(t *testing.T) {
	env := newTestEnv(t)
	student := env.seedStudent("21EC050", "A", "150")
	other := env.seedStudent("21EC051", "A", "151")
	inv := seedInvoice(t, env, student, 2500)

	w, _ := env.do(http.MethodPost, fmt.Sprintf("/api/invoices/%d/checkout", inv.ID), env.studentToken(other), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp := env.do(http.MethodPost, fmt.Sprintf("/api/invoices/%d/checkout", inv.ID), env.studentToken(student), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var checkout services.Checkout
	decode(t, resp.Data, &checkout)
	assert.Equal(t, inv.InvoiceID, checkout.OrderID)

	hook := "/api/invoices/payments/notification"
	w, _ = env.do(http.MethodPost, hook, "", notification(inv.InvoiceID, "settlement", "2500.00", false))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp = env.do(http.MethodPost, hook, "", notification(inv.InvoiceID, "pending", "2500.00", true))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Notification ignored", resp.Message)

	w, _ = env.do(http.MethodPost, hook, "", notification(inv.InvoiceID, "settlement", "10.00", true))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(http.MethodPost, hook, "", notification("INV-MISSING", "settlement", "2500.00", true))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, resp = env.do(http.MethodPost, hook, "", notification(inv.InvoiceID, "settlement", "2500.00", true))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Notification processed", resp.Message)

	var stored models.Invoice
	require.NoError(t, env.db.First(&stored, inv.ID).Error)
	assert.Equal(t, models.InvoicePaid, stored.Status)
	require.NotNil(t, stored.PaymentRef)
	assert.Equal(t, "midtrans:trx-1", *stored.PaymentRef)

	// replays are accepted without changing anything
	w, _ = env.do(http.MethodPost, hook, "", notification(inv.InvoiceID, "settlement", "2500.00", true))
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(http.MethodPost, fmt.Sprintf("/api/invoices/%d/checkout", inv.ID), env.studentToken(student), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	env.gateway.enabled = false
	w, _ = env.do(http.MethodPost, hook, "", notification(inv.InvoiceID, "settlement", "2500.00", true))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestInvoicePDF(t *testing.T) {
	env := newTestEnv(t)
	adminA := env.seedAdmin("ADM-A", "A")
	adminB := env.seedAdmin("ADM-B", "B")
	student := env.seedStudent("21EC060", "A", "160")
	other := env.seedStudent("21EC061", "A", "161")
	inv := seedInvoice(t, env, student, 800)
	path := fmt.Sprintf("/api/invoices/%d/pdf", inv.ID)

	for _, token := range []string{env.studentToken(student), env.adminToken(adminA)} {
		w, _ := env.do(http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), inv.InvoiceID+".pdf")
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	}

	w, _ := env.do(http.MethodGet, path, env.studentToken(other), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = env.do(http.MethodGet, path, env.adminToken(adminB), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
