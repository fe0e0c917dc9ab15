package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hostel-app/models"
)

func TestComplaintLifecycle(t *testing.T) {
	env := newTestEnv(t)
	adminA := env.seedAdmin("ADM-A", "A")
	adminB := env.seedAdmin("ADM-B", "B")
	student := env.seedStudent("21EC010", "A", "110")
	studentToken := env.studentToken(student)

	w, _ := env.do(http.MethodPost, "/api/complaints", studentToken, map[string]string{
		"category": "plumbing", "description": "leak",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp := env.do(http.MethodPost, "/api/complaints", studentToken, map[string]string{
		"category": "water", "description": "No water on floor 2",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var complaint models.Complaint
	decode(t, resp.Data, &complaint)
	assert.Equal(t, models.ComplaintPending, complaint.Status)
	assert.Equal(t, "A", complaint.HostelBlock)

	// block B cannot touch a block A complaint
	w, _ = env.do(http.MethodPut, fmt.Sprintf("/api/complaints/%d/accept", complaint.ID), env.adminToken(adminB), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp = env.do(http.MethodGet, "/api/complaints/admin", env.adminToken(adminB), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var blockB []models.Complaint
	decode(t, resp.Data, &blockB)
	assert.Empty(t, blockB)

	adminToken := env.adminToken(adminA)
	w, resp = env.do(http.MethodGet, "/api/complaints/admin", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var blockA []models.Complaint
	decode(t, resp.Data, &blockA)
	require.Len(t, blockA, 1)
	require.NotNil(t, blockA[0].Student)
	assert.Equal(t, "21EC010", blockA[0].Student.StudentID)

	w, _ = env.do(http.MethodPut, fmt.Sprintf("/api/complaints/%d/accept", complaint.ID), adminToken, map[string]string{
		"resolutionDate": "12/03/2024",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = env.do(http.MethodPut, fmt.Sprintf("/api/complaints/%d/accept", complaint.ID), adminToken, map[string]string{
		"resolutionDate": "2024-03-12", "resolutionTime": "10:00 AM",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, resp.Data, &complaint)
	assert.Equal(t, models.ComplaintAccepted, complaint.Status)
	require.NotNil(t, complaint.ResolutionDate)
	assert.Equal(t, "2024-03-12", complaint.ResolutionDate.Format("2006-01-02"))

	w, resp = env.do(http.MethodPut, fmt.Sprintf("/api/complaints/%d/resolve", complaint.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, resp.Data, &complaint)
	assert.Equal(t, models.ComplaintResolved, complaint.Status)
	require.NotNil(t, complaint.ResolutionDate, "resolving keeps the scheduled date")

	// status never moves backwards
	w, _ = env.do(http.MethodPatch, fmt.Sprintf("/api/complaints/%d/status", complaint.ID), adminToken, map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(http.MethodPatch, fmt.Sprintf("/api/complaints/%d/status", complaint.ID), adminToken, map[string]string{"status": "closed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(http.MethodPut, "/api/complaints/999/resolve", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, resp = env.do(http.MethodGet, "/api/complaints/my", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.Complaint
	decode(t, resp.Data, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, models.ComplaintResolved, mine[0].Status)

	// admins cannot file complaints
	w, _ = env.do(http.MethodPost, "/api/complaints", adminToken, map[string]string{"category": "water", "description": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
