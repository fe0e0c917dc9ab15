package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hostel-app/database"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

func seedAdmin(t *testing.T, db *gorm.DB, adminID, block string) *models.Admin {
	t.Helper()
	admin := &models.Admin{
		AdminID:     adminID,
		Name:        "Warden " + block,
		Email:       adminID + "@college.edu",
		Password:    "x",
		HostelBlock: block,
		Role:        utils.RoleAdmin,
	}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

func seedStudent(t *testing.T, db *gorm.DB, roll, block, room string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		FullName:     "Student " + roll,
		StudentID:    roll,
		Branch:       "CSE",
		CollegeEmail: roll + "@college.edu",
		HostelBlock:  block,
		RoomNO:       room,
		Password:     string(hashed),
		Role:         utils.RoleStudent,
		IsApproved:   true,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
