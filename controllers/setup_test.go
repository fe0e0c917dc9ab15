package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hostel-app/config"
	"github.com/yeremiapane/hostel-app/database"
	"github.com/yeremiapane/hostel-app/hub"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/router"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testPassword = "secret123"
	gatewayKey   = "test-server-key"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []services.Mail
}

func (m *recordingMailer) Send(mail services.Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, mail)
	return nil
}

func (m *recordingMailer) Sent() []services.Mail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]services.Mail(nil), m.sent...)
}

// fakeGateway signs notifications like Midtrans without calling out.
type fakeGateway struct {
	enabled bool
}

func (g *fakeGateway) Enabled() bool { return g.enabled }

func (g *fakeGateway) CreateCheckout(inv models.Invoice, _ models.User) (*services.Checkout, error) {
	return &services.Checkout{
		Token:       "snap-" + inv.InvoiceID,
		RedirectURL: "https://pay.example/" + inv.InvoiceID,
		OrderID:     inv.InvoiceID,
	}, nil
}

func (g *fakeGateway) ValidateSignature(orderID, statusCode, grossAmount, signature string) bool {
	return services.Signature(orderID, statusCode, grossAmount, gatewayKey) == signature
}

type testEnv struct {
	t        *testing.T
	db       *gorm.DB
	router   *gin.Engine
	tokens   *utils.TokenManager
	mailer   *recordingMailer
	notifier *services.Notifier
	gateway  *fakeGateway
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedGuestRooms(db))

	cfg := config.App{
		JWTSecret:      "test-secret",
		JWTIssuer:      "hostel-test",
		SessionTTL:     time.Hour,
		AllowedOrigins: []string{"http://localhost:5173"},
		Timezone:       time.UTC,
		AuthRatePerMin: 1000,
	}
	mailer := &recordingMailer{}
	env := &testEnv{
		t:        t,
		db:       db,
		tokens:   utils.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL),
		mailer:   mailer,
		notifier: services.NewNotifier(mailer),
		gateway:  &fakeGateway{enabled: true},
	}
	env.router = router.SetupRouter(db, router.Deps{
		Config:    cfg,
		Tokens:    env.tokens,
		Blacklist: utils.NewMemoryBlacklist(),
		Hub:       hub.New(),
		Notifier:  env.notifier,
		Gateway:   env.gateway,
	})
	return env
}

func hash(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func (e *testEnv) seedAdmin(adminID, block string) *models.Admin {
	e.t.Helper()
	admin := &models.Admin{
		AdminID:     adminID,
		Name:        "Warden " + block,
		Email:       adminID + "@college.edu",
		Password:    hash(e.t, testPassword),
		HostelBlock: block,
		Role:        utils.RoleAdmin,
	}
	require.NoError(e.t, e.db.Create(admin).Error)
	return admin
}

func (e *testEnv) seedStudent(roll, block, room string) *models.User {
	e.t.Helper()
	user := &models.User{
		FullName:     "Student " + roll,
		StudentID:    roll,
		Branch:       "CSE",
		CollegeEmail: roll + "@college.edu",
		HostelBlock:  block,
		RoomNO:       room,
		Password:     hash(e.t, testPassword),
		Role:         utils.RoleStudent,
		IsApproved:   true,
		IsActive:     true,
	}
	require.NoError(e.t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) tokenFor(id uint, role string) string {
	e.t.Helper()
	token, err := e.tokens.GenerateToken(id, role)
	require.NoError(e.t, err)
	return token
}

func (e *testEnv) adminToken(a *models.Admin) string   { return e.tokenFor(a.ID, utils.RoleAdmin) }
func (e *testEnv) studentToken(u *models.User) string { return e.tokenFor(u.ID, utils.RoleStudent) }

// do sends a JSON request and decodes the response envelope.
func (e *testEnv) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp apiResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v), string(raw))
}
