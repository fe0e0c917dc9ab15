package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hostel-app/models"
)

func TestMessLeave(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin("ADM-A", "A")
	other := env.seedAdmin("ADM-B", "B")
	student := env.seedStudent("21EC020", "A", "120")
	studentToken := env.studentToken(student)
	adminToken := env.adminToken(admin)

	w, resp := env.do(http.MethodPost, "/api/mess-leave/apply", studentToken, map[string]string{
		"startDate": "2024-03-10", "endDate": "2024-03-08", "reason": "home",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Enter a valid end date", resp.Message)

	w, _ = env.do(http.MethodPost, "/api/mess-leave/apply", studentToken, map[string]string{
		"startDate": "2024-03-10", "reason": "home",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// dateFrom/dateTo are accepted as aliases
	w, resp = env.do(http.MethodPost, "/api/mess-leave/apply", studentToken, map[string]string{
		"dateFrom": "2024-03-10", "dateTo": "2024-03-10", "reason": "festival",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var leave models.MessLeave
	decode(t, resp.Data, &leave)
	assert.Equal(t, models.LeavePending, leave.Status)
	assert.True(t, leave.StartDate.Equal(leave.EndDate))

	path := fmt.Sprintf("/api/mess-leave/%d/approve", leave.ID)
	w, _ = env.do(http.MethodPatch, path, env.adminToken(other), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp = env.do(http.MethodPatch, path, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, resp.Data, &leave)
	assert.Equal(t, models.LeaveApproved, leave.Status)

	w, _ = env.do(http.MethodPatch, fmt.Sprintf("/api/mess-leave/%d/reject", leave.ID), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(http.MethodPatch, "/api/mess-leave/abc/approve", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = env.do(http.MethodGet, "/api/mess-leave/admin", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var block []models.MessLeave
	decode(t, resp.Data, &block)
	require.Len(t, block, 1)
	require.NotNil(t, block[0].Student)
	assert.Equal(t, "21EC020", block[0].Student.StudentID)

	w, resp = env.do(http.MethodGet, "/api/mess-leave/my", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.MessLeave
	decode(t, resp.Data, &mine)
	assert.Len(t, mine, 1)
}
