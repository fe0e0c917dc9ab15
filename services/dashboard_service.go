package services

import (
	"time"

	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/utils"
	"gorm.io/gorm"
)

type ChartSlice struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
	Color string `json:"color,omitempty"`
}

type DayPresence struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	Present int64  `json:"present"`
}

type AdminStats struct {
	TotalStudents     int64         `json:"totalStudents"`
	PendingBookings   int64         `json:"pendingBookings"`
	OpenComplaints    int64         `json:"openComplaints"`
	MessLeaveRequests int64         `json:"messLeaveRequests"`
	ComplaintsData    []ChartSlice  `json:"complaintsData"`
	AttendanceData    []DayPresence `json:"attendanceData"`
}

type AttendancePoint struct {
	Date   string                  `json:"date"`
	Status models.AttendanceStatus `json:"status"`
}

type StudentStats struct {
	TotalAttendance      int64                 `json:"totalAttendance"`
	ActiveComplaints     int64                 `json:"activeComplaints"`
	MessLeaveDays        int                   `json:"messLeaveDays"`
	AttendanceTrend      []AttendancePoint     `json:"attendanceTrend"`
	ComplaintsByCategory []ChartSlice          `json:"complaintsByCategory"`
	RecentAnnouncements  []models.Announcement `json:"recentAnnouncements"`
	RecentMessLeaves     []models.MessLeave    `json:"recentMessLeaves"`
}

// WeekWindow is the number of calendar days, today included, shown in trends.
const WeekWindow = 7

type DashboardService struct {
	DB  *gorm.DB
	Loc *time.Location
	Now func() time.Time
}

func NewDashboardService(db *gorm.DB, loc *time.Location) *DashboardService {
	return &DashboardService{DB: db, Loc: loc, Now: time.Now}
}

func (s *DashboardService) today() time.Time {
	return utils.CalendarDay(s.Now(), s.Loc)
}

type statusCount struct {
	Status string
	Count  int64
}

func (s *DashboardService) AdminStats(block string) (*AdminStats, error) {
	stats := &AdminStats{}
	blockStudents := func() *gorm.DB {
		return s.DB.Model(&models.User{}).Select("id").
			Where("role = ? AND hostel_block = ?", utils.RoleStudent, block)
	}

	if err := s.DB.Model(&models.User{}).
		Where("role = ? AND hostel_block = ? AND is_approved = ?", utils.RoleStudent, block, true).
		Count(&stats.TotalStudents).Error; err != nil {
		return nil, utils.Internal(err)
	}
	if err := s.DB.Model(&models.RoomBooking{}).
		Where("user_id IN (?) AND status = ?", blockStudents(), models.BookingPending).
		Count(&stats.PendingBookings).Error; err != nil {
		return nil, utils.Internal(err)
	}
	if err := s.DB.Model(&models.MessLeave{}).
		Where("hostel_block = ? AND status = ?", block, models.LeavePending).
		Count(&stats.MessLeaveRequests).Error; err != nil {
		return nil, utils.Internal(err)
	}

	var byStatus []statusCount
	if err := s.DB.Model(&models.Complaint{}).
		Select("status, COUNT(*) AS count").
		Where("hostel_block = ?", block).
		Group("status").Scan(&byStatus).Error; err != nil {
		return nil, utils.Internal(err)
	}
	counts := make(map[models.ComplaintStatus]int64, len(byStatus))
	for _, r := range byStatus {
		counts[models.ComplaintStatus(r.Status)] = r.Count
	}
	stats.OpenComplaints = counts[models.ComplaintPending] + counts[models.ComplaintAccepted]
	stats.ComplaintsData = []ChartSlice{
		{Name: "Resolved", Value: counts[models.ComplaintResolved], Color: "#10B981"},
		{Name: "Pending", Value: counts[models.ComplaintPending], Color: "#EF4444"},
		{Name: "In Progress", Value: counts[models.ComplaintAccepted], Color: "#F59E0B"},
	}

	today := s.today()
	start := today.AddDate(0, 0, -(WeekWindow - 1))
	var records []models.Attendance
	if err := s.DB.Select("date").
		Where("user_id IN (?) AND status = ? AND date >= ? AND date <= ?", blockStudents(), models.Present, start, today).
		Find(&records).Error; err != nil {
		return nil, utils.Internal(err)
	}
	present := make(map[string]int64)
	for _, r := range records {
		present[r.Date.UTC().Format(utils.DateLayout)]++
	}
	stats.AttendanceData = make([]DayPresence, 0, WeekWindow)
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format(utils.DateLayout)
		stats.AttendanceData = append(stats.AttendanceData, DayPresence{
			Name:    d.Format("Mon"),
			Date:    key,
			Present: present[key],
		})
	}
	return stats, nil
}

func (s *DashboardService) StudentStats(student *models.User) (*StudentStats, error) {
	stats := &StudentStats{
		AttendanceTrend:      []AttendancePoint{},
		ComplaintsByCategory: []ChartSlice{},
	}

	if err := s.DB.Model(&models.Attendance{}).
		Where("user_id = ? AND status = ?", student.ID, models.Present).
		Count(&stats.TotalAttendance).Error; err != nil {
		return nil, utils.Internal(err)
	}
	if err := s.DB.Model(&models.Complaint{}).
		Where("user_id = ? AND status IN ?", student.ID,
			[]models.ComplaintStatus{models.ComplaintPending, models.ComplaintAccepted}).
		Count(&stats.ActiveComplaints).Error; err != nil {
		return nil, utils.Internal(err)
	}

	var approved []models.MessLeave
	if err := s.DB.Where("user_id = ? AND status = ?", student.ID, models.LeaveApproved).
		Order("start_date DESC").Find(&approved).Error; err != nil {
		return nil, utils.Internal(err)
	}
	for _, l := range approved {
		stats.MessLeaveDays += utils.InclusiveDays(l.StartDate, l.EndDate)
	}
	if len(approved) > 5 {
		stats.RecentMessLeaves = approved[:5]
	} else {
		stats.RecentMessLeaves = approved
	}

	today := s.today()
	var records []models.Attendance
	if err := s.DB.Where("user_id = ? AND date >= ? AND date <= ?", student.ID,
		today.AddDate(0, 0, -(WeekWindow-1)), today).
		Order("date ASC").Find(&records).Error; err != nil {
		return nil, utils.Internal(err)
	}
	for _, r := range records {
		stats.AttendanceTrend = append(stats.AttendanceTrend, AttendancePoint{
			Date:   r.Date.UTC().Format(utils.DateLayout),
			Status: r.Status,
		})
	}

	var byCategory []struct {
		Category string
		Count    int64
	}
	if err := s.DB.Model(&models.Complaint{}).
		Select("category, COUNT(*) AS count").
		Where("user_id = ?", student.ID).
		Group("category").Order("category").Scan(&byCategory).Error; err != nil {
		return nil, utils.Internal(err)
	}
	for _, c := range byCategory {
		stats.ComplaintsByCategory = append(stats.ComplaintsByCategory, ChartSlice{Name: c.Category, Value: c.Count})
	}

	if err := s.DB.Where("hostel_block IN ?", []string{student.HostelBlock, models.GlobalBlock}).
		Order("created_at DESC").Limit(5).Find(&stats.RecentAnnouncements).Error; err != nil {
		return nil, utils.Internal(err)
	}
	return stats, nil
}
