package services

import (
	"errors"
	"strings"

	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const DefaultRejectionReason = "Rejected by admin"

type RegistrationInput struct {
	FullName     string
	StudentID    string
	Branch       string
	CollegeEmail string
	HostelBlock  string
	RoomNO       string
	Password     string
}

type RegistrationService struct {
	DB       *gorm.DB
	Notifier *Notifier
}

func NewRegistrationService(db *gorm.DB, n *Notifier) *RegistrationService {
	return &RegistrationService{DB: db, Notifier: n}
}

// Submit files a pending request after checking it does not clash with an
// existing student or another pending request.
func (s *RegistrationService) Submit(in RegistrationInput) (*models.RegistrationRequest, error) {
	in.StudentID = strings.TrimSpace(in.StudentID)
	in.CollegeEmail = strings.ToLower(strings.TrimSpace(in.CollegeEmail))
	in.HostelBlock = strings.TrimSpace(in.HostelBlock)
	in.RoomNO = strings.TrimSpace(in.RoomNO)

	var users int64
	if err := s.DB.Model(&models.User{}).
		Where("student_id = ? OR college_email = ? OR (hostel_block = ? AND room_no = ?)",
			in.StudentID, in.CollegeEmail, in.HostelBlock, in.RoomNO).
		Count(&users).Error; err != nil {
		return nil, utils.Internal(err)
	}
	if users > 0 {
		return nil, utils.Conflict("User with these details already exists")
	}

	var pending int64
	if err := s.DB.Model(&models.RegistrationRequest{}).
		Where("status = ?", models.RegistrationPending).
		Where("student_id = ? OR college_email = ? OR (hostel_block = ? AND room_no = ?)",
			in.StudentID, in.CollegeEmail, in.HostelBlock, in.RoomNO).
		Count(&pending).Error; err != nil {
		return nil, utils.Internal(err)
	}
	if pending > 0 {
		return nil, utils.Conflict("Registration request already pending")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.Internal(err)
	}

	req := models.RegistrationRequest{
		FullName:     strings.TrimSpace(in.FullName),
		StudentID:    in.StudentID,
		Branch:       strings.TrimSpace(in.Branch),
		CollegeEmail: in.CollegeEmail,
		HostelBlock:  in.HostelBlock,
		RoomNO:       in.RoomNO,
		Password:     string(hashed),
		Status:       models.RegistrationPending,
	}
	if err := s.DB.Create(&req).Error; err != nil {
		return nil, utils.Internal(err)
	}
	return &req, nil
}

func (s *RegistrationService) Pending(block string) ([]models.RegistrationRequest, error) {
	var reqs []models.RegistrationRequest
	if err := s.DB.Where("hostel_block = ? AND status = ?", block, models.RegistrationPending).
		Order("created_at DESC").Find(&reqs).Error; err != nil {
		return nil, utils.Internal(err)
	}
	return reqs, nil
}

func loadProcessable(tx *gorm.DB, admin *models.Admin, requestID uint) (*models.RegistrationRequest, error) {
	var req models.RegistrationRequest
	if err := tx.First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Registration request not found")
		}
		return nil, utils.Internal(err)
	}
	if req.Status != models.RegistrationPending {
		return nil, utils.BadRequest("Request already processed")
	}
	if req.HostelBlock != admin.HostelBlock {
		return nil, utils.Forbidden("Not authorized to approve students from other blocks")
	}
	return &req, nil
}

// markProcessed flips a request out of pending; zero rows means someone else
// processed it first.
func markProcessed(tx *gorm.DB, req *models.RegistrationRequest, updates map[string]interface{}) error {
	res := tx.Model(&models.RegistrationRequest{}).
		Where("id = ? AND status = ?", req.ID, models.RegistrationPending).
		Updates(updates)
	if res.Error != nil {
		return utils.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.Conflict("Request already processed")
	}
	return nil
}

// Approve creates the student and marks the request approved atomically,
// then mails the student.
func (s *RegistrationService) Approve(admin *models.Admin, requestID uint) (*models.User, error) {
	var (
		user models.User
		req  *models.RegistrationRequest
	)
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		if req, err = loadProcessable(tx, admin, requestID); err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.User{}).Where("student_id = ?", req.StudentID).Count(&existing).Error; err != nil {
			return utils.Internal(err)
		}
		if existing > 0 {
			return utils.Conflict("Student already exists")
		}

		approvedBy := admin.ID
		user = models.User{
			FullName:     req.FullName,
			StudentID:    req.StudentID,
			Branch:       req.Branch,
			CollegeEmail: req.CollegeEmail,
			HostelBlock:  req.HostelBlock,
			RoomNO:       req.RoomNO,
			Password:     req.Password,
			Role:         utils.RoleStudent,
			IsApproved:   true,
			ApprovedBy:   &approvedBy,
			IsActive:     true,
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.Conflict("Student with this email or room already exists")
			}
			return utils.Internal(err)
		}

		req.Status = models.RegistrationApproved
		return markProcessed(tx, req, map[string]interface{}{"status": models.RegistrationApproved})
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.RegistrationApproved(*req)
	return &user, nil
}

func (s *RegistrationService) Reject(admin *models.Admin, requestID uint, reason string) (*models.RegistrationRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultRejectionReason
	}

	var req *models.RegistrationRequest
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		if req, err = loadProcessable(tx, admin, requestID); err != nil {
			return err
		}
		req.Status = models.RegistrationRejected
		req.RejectionReason = &reason
		return markProcessed(tx, req, map[string]interface{}{
			"status":           models.RegistrationRejected,
			"rejection_reason": reason,
		})
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.RegistrationRejected(*req)
	return req, nil
}
