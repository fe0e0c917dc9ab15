package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hostel-app/controllers"
	"github.com/yeremiapane/hostel-app/models"
)

func TestAttendance(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin("ADM-A", "A")
	otherAdmin := env.seedAdmin("ADM-B", "B")
	student := env.seedStudent("21EC080", "A", "180")
	env.seedStudent("21EC081", "A", "181")
	adminToken := env.adminToken(admin)

	record := func(token, roll, status, date string) (int, models.Attendance) {
		w, resp := env.do(http.MethodPost, "/api/attendance/record", token, gin.H{
			"studentID": roll, "status": status, "date": date,
		})
		var a models.Attendance
		if w.Code < 300 {
			decode(t, resp.Data, &a)
		}
		return w.Code, a
	}

	code, _ := record(env.adminToken(otherAdmin), "21EC080", "present", "2024-03-01")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = record(adminToken, "21EC080", "late", "2024-03-01")
	assert.Equal(t, http.StatusBadRequest, code)

	code, first := record(adminToken, "21EC080", "present", "2024-03-01")
	require.Equal(t, http.StatusCreated, code)
	code, again := record(adminToken, "21EC080", "absent", "2024-03-01")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, models.Absent, again.Status)

	code, _ = record(adminToken, "21EC080", "present", "2024-03-02")
	require.Equal(t, http.StatusCreated, code)
	code, _ = record(adminToken, "21EC080", "present", "2024-03-03")
	require.Equal(t, http.StatusCreated, code)

	var count int64
	require.NoError(t, env.db.Model(&models.Attendance{}).Where("user_id = ?", student.ID).Count(&count).Error)
	assert.EqualValues(t, 3, count)

	w, resp := env.do(http.MethodGet, "/api/attendance/date", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Date is required", resp.Message)

	w, resp = env.do(http.MethodGet, "/api/attendance/date?date=2024-03-01", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var onDay []models.Attendance
	decode(t, resp.Data, &onDay)
	require.Len(t, onDay, 1)
	assert.Equal(t, models.Absent, onDay[0].Status)
	require.NotNil(t, onDay[0].Student)
	assert.Equal(t, "21EC080", onDay[0].Student.StudentID)

	w, resp = env.do(http.MethodGet, "/api/attendance/date?date=2024-03-01", env.adminToken(otherAdmin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, resp.Data, &onDay)
	assert.Empty(t, onDay)

	w, resp = env.do(http.MethodGet, "/api/attendance/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats []controllers.AttendanceStat
	decode(t, resp.Data, &stats)
	require.Len(t, stats, 2)
	assert.Equal(t, "21EC080", stats[0].StudentID)
	assert.EqualValues(t, 3, stats[0].Total)
	assert.EqualValues(t, 2, stats[0].Present)
	assert.InDelta(t, 66.67, stats[0].Percentage, 0.001)
	assert.EqualValues(t, 0, stats[1].Total)
	assert.Zero(t, stats[1].Percentage)

	w, resp = env.do(http.MethodGet, "/api/attendance/all", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.Attendance
	decode(t, resp.Data, &all)
	assert.Len(t, all, 3)
	for _, r := range all {
		assert.NotNil(t, r.Student)
	}

	w, resp = env.do(http.MethodGet, "/api/attendance/my-attendance", env.studentToken(student), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.Attendance
	decode(t, resp.Data, &mine)
	require.Len(t, mine, 3)
	assert.Equal(t, "2024-03-03", mine[0].Date.Format("2006-01-02"))
}
