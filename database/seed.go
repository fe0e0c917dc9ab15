package database

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

// SeedGuestRooms makes sure the fixed guest room pool exists. Existing rooms
// keep their capacity and active flag.
func SeedGuestRooms(db *gorm.DB) error {
	rooms := make([]models.GuestRoom, 0, models.GuestRoomCount)
	for _, no := range models.GuestRoomNumbers() {
		rooms = append(rooms, models.GuestRoom{
			GuestHostelBlock: models.GuestHostelBlock,
			RoomNo:           no,
			Capacity:         models.DefaultGuestCapacity,
			IsActive:         true,
		})
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rooms)
	if res.Error != nil {
		return fmt.Errorf("seed guest rooms: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		utils.InfoLogger.Printf("Seeded %d guest rooms", res.RowsAffected)
	}
	return nil
}

type AdminSeed struct {
	AdminID     string `json:"adminID"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	HostelBlock string `json:"hostelBlock"`
}

// LoadAdminSeeds reads a JSON array of admins.
func LoadAdminSeeds(path string) ([]AdminSeed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seeds []AdminSeed
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return seeds, nil
}

// SeedAdmins inserts admins that do not exist yet. Existing admins are left
// untouched so changed passwords survive restarts.
func SeedAdmins(db *gorm.DB, seeds []AdminSeed) error {
	for _, s := range seeds {
		if s.AdminID == "" || s.Password == "" || s.HostelBlock == "" {
			return fmt.Errorf("admin seed %q: adminID, password and hostelBlock are required", s.AdminID)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := models.Admin{
			AdminID:     s.AdminID,
			Name:        s.Name,
			Email:       strings.ToLower(s.Email),
			Password:    string(hashed),
			HostelBlock: s.HostelBlock,
			Role:        utils.RoleAdmin,
		}
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&admin)
		if res.Error != nil {
			return fmt.Errorf("seed admin %s: %w", s.AdminID, res.Error)
		}
		if res.RowsAffected > 0 {
			utils.InfoLogger.Printf("Seeded admin %s for block %s", s.AdminID, s.HostelBlock)
		}
	}
	return nil
}
