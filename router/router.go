package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/hostel-app/config"
	"github.com/yeremiapane/hostel-app/controllers"
	"github.com/yeremiapane/hostel-app/hub"
	"github.com/yeremiapane/hostel-app/middlewares"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/utils"
	"gorm.io/gorm"
)

// Deps carries the collaborators built once at startup.
type Deps struct {
	Config    config.App
	Tokens    *utils.TokenManager
	Blacklist utils.TokenBlacklist
	Hub       *hub.Hub
	Notifier  *services.Notifier
	Gateway   services.PaymentGateway
	Redis     *redis.Client
}

func SetupRouter(db *gorm.DB, deps Deps) *gin.Engine {
	cfg := deps.Config
	utils.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.Metrics())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders(cfg.CookieSecure))
	r.Use(middlewares.CORSMiddlewares(cfg.AllowedOrigins))

	// services
	registrations := services.NewRegistrationService(db, deps.Notifier)
	dashboard := services.NewDashboardService(db, cfg.Timezone)
	bookings := services.NewBookingService(db)

	// controllers
	authCtrl := controllers.NewAuthController(db, registrations, deps.Tokens, deps.Blacklist, deps.Hub, cfg.CookieSecure)
	adminCtrl := controllers.NewAdminController(db, registrations, dashboard)
	studentCtrl := controllers.NewStudentController(db, dashboard)
	complaintCtrl := controllers.NewComplaintController(db, deps.Hub)
	leaveCtrl := controllers.NewMessLeaveController(db, deps.Hub)
	invoiceCtrl := controllers.NewInvoiceController(db, deps.Hub, deps.Gateway)
	announcementCtrl := controllers.NewAnnouncementController(db, deps.Hub)
	bookingCtrl := controllers.NewRoomBookingController(db, bookings, deps.Hub)
	attendanceCtrl := controllers.NewAttendanceController(db, cfg.Timezone)
	hubCtrl := controllers.NewHubController(deps.Hub, cfg.AllowedOrigins)

	auth := middlewares.AuthMiddleware(db, deps.Tokens, deps.Blacklist)
	limiter := middlewares.NewRateLimiter(cfg.AuthRatePerMin).RateLimit()
	student := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return []gin.HandlerFunc{middlewares.RequireRole(utils.RoleStudent), h}
	}
	admin := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return []gin.HandlerFunc{middlewares.RequireRole(utils.RoleAdmin), middlewares.AuditLogger(), h}
	}

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/healthz", healthz(db, deps.Redis))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", auth, hubCtrl.Serve)

	api := r.Group("/api")
	api.Use(middlewares.NoStore())

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", limiter, authCtrl.Register)
		authGroup.POST("/login", limiter, authCtrl.Login)
		authGroup.POST("/admin/login", limiter, authCtrl.AdminLogin)
		authGroup.POST("/logout", authCtrl.Logout)
		authGroup.GET("/me", auth, authCtrl.Me)
	}
	api.POST("/registration/request", limiter, authCtrl.Register)

	// gateway callback, authenticated by signature
	api.POST("/invoices/payments/notification", invoiceCtrl.PaymentNotification)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	authed := api.Group("")
	authed.Use(auth)

	adminGroup := authed.Group("/admin")
	{
		adminGroup.GET("/registrations", admin(adminCtrl.GetPendingRegistrations)...)
		adminGroup.PATCH("/students/:id/approve", admin(adminCtrl.ApproveStudent)...)
		adminGroup.PATCH("/students/:id/reject", admin(adminCtrl.RejectStudent)...)
		adminGroup.GET("/students", admin(adminCtrl.GetStudents)...)
		adminGroup.GET("/students/:id", admin(adminCtrl.GetStudentDetail)...)
		adminGroup.GET("/dashboard/stats", admin(adminCtrl.GetDashboardStats)...)
		adminGroup.GET("/dashboard/attendance-chart", admin(adminCtrl.GetAttendanceChart)...)
	}

	studentGroup := authed.Group("/students")
	{
		studentGroup.GET("/profile", student(studentCtrl.GetProfile)...)
		studentGroup.PUT("/profile", student(studentCtrl.UpdateProfile)...)
		studentGroup.PUT("/change-password", student(studentCtrl.ChangePassword)...)
		studentGroup.GET("/dashboard/stats", student(studentCtrl.GetDashboardStats)...)
	}

	complaints := authed.Group("/complaints")
	{
		complaints.POST("", student(complaintCtrl.CreateComplaint)...)
		complaints.GET("/my", student(complaintCtrl.GetMyComplaints)...)
		complaints.GET("/my-complaints", student(complaintCtrl.GetMyComplaints)...)
		complaints.GET("/admin", admin(complaintCtrl.GetBlockComplaints)...)
		complaints.GET("/all", admin(complaintCtrl.GetBlockComplaints)...)
		complaints.PUT("/:id/accept", admin(complaintCtrl.AcceptComplaint)...)
		complaints.PUT("/:id/resolve", admin(complaintCtrl.ResolveComplaint)...)
		complaints.PATCH("/:id/status", admin(complaintCtrl.UpdateComplaintStatus)...)
	}

	messLeave := authed.Group("/mess-leave")
	{
		messLeave.POST("/apply", student(leaveCtrl.ApplyMessLeave)...)
		messLeave.GET("/my", student(leaveCtrl.GetMyMessLeaves)...)
		messLeave.GET("/admin", admin(leaveCtrl.GetBlockMessLeaves)...)
		messLeave.PATCH("/:id/approve", admin(leaveCtrl.ApproveMessLeave)...)
		messLeave.PATCH("/:id/reject", admin(leaveCtrl.RejectMessLeave)...)
	}

	invoices := authed.Group("/invoices")
	{
		invoices.GET("/my", student(invoiceCtrl.GetMyInvoices)...)
		invoices.GET("/admin", admin(invoiceCtrl.GetBlockInvoices)...)
		invoices.POST("", admin(invoiceCtrl.CreateInvoice)...)
		invoices.PATCH("/:id/pay", admin(invoiceCtrl.MarkInvoicePaid)...)
		invoices.POST("/:id/checkout", student(invoiceCtrl.Checkout)...)
		invoices.GET("/:id/pdf", invoiceCtrl.DownloadPDF)
	}

	announcements := authed.Group("/announcements")
	{
		announcements.POST("", admin(announcementCtrl.CreateAnnouncement)...)
		announcements.GET("/admin", admin(announcementCtrl.GetAdminAnnouncements)...)
		announcements.GET("/my", student(announcementCtrl.GetMyAnnouncements)...)
	}

	roomBooking := authed.Group("/room-booking")
	{
		roomBooking.GET("/available", bookingCtrl.GetAvailableRooms)
		roomBooking.POST("/book", student(bookingCtrl.BookRoom)...)
		roomBooking.GET("/my-bookings", student(bookingCtrl.GetMyBookings)...)
		roomBooking.GET("/admin", admin(bookingCtrl.GetBlockBookings)...)
		roomBooking.PATCH("/:id/status", admin(bookingCtrl.UpdateBookingStatus)...)
	}

	attendance := authed.Group("/attendance")
	{
		attendance.POST("/record", admin(attendanceCtrl.RecordAttendance)...)
		attendance.GET("/date", admin(attendanceCtrl.GetAttendanceByDate)...)
		attendance.GET("/all", admin(attendanceCtrl.GetAllAttendance)...)
		attendance.GET("/stats", admin(attendanceCtrl.GetAttendanceStats)...)
		attendance.GET("/my-attendance", student(attendanceCtrl.GetMyAttendance)...)
	}

	r.NoRoute(func(c *gin.Context) {
		utils.Fail(c, utils.NotFound("route not found"))
	})

	return r
}

func healthz(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbHealthy := false
		if sqlDB, err := db.DB(); err == nil {
			dbHealthy = sqlDB.PingContext(ctx) == nil
		}
		body := gin.H{"db": dbHealthy}
		healthy := dbHealthy
		if rdb != nil {
			redisHealthy := rdb.Ping(ctx).Err() == nil
			body["redis"] = redisHealthy
			healthy = healthy && redisHealthy
		}

		status := http.StatusOK
		body["status"] = "ok"
		if !healthy {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
		}
		c.JSON(status, body)
	}
}
