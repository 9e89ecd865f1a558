package services

import (
	"errors"
	"time"

	"contract-management-api/config"
	"contract-management-api/models"
	"contract-management-api/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	if db == nil {
		db = config.DB
	}
	return &UserService{db: db}
}

// RegisterOrganization creates a new organization together with its admin
// user in one transaction. The admin email doubles as the organization's
// reminder address.
func (s *UserService) RegisterOrganization(orgName, email, password string) (*models.User, error) {
	orgName = utils.SanitizeInput(orgName)
	email = utils.SanitizeInput(email)

	if orgName == "" {
		return nil, &ValidationError{Msg: "organization name is required"}
	}
	if !utils.ValidateEmail(email) {
		return nil, &ValidationError{Msg: "invalid email address"}
	}
	if ok, msg := utils.ValidatePassword(password); !ok {
		return nil, &ValidationError{Msg: msg}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		CreateAt:     &now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Organization{}).Where("name = ?", orgName).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &ValidationError{Msg: "organization name already taken"}
		}
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &ValidationError{Msg: "email already registered"}
		}

		org := models.Organization{
			Name:       orgName,
			AdminEmail: email,
			CreateAt:   &now,
		}
		if err := tx.Create(&org).Error; err != nil {
			return err
		}

		user.OrgID = org.OrgID
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		user.Organization = org
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies the credentials and returns the user with its
// organization preloaded.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Organization").
		Where("email = ? AND delete_at IS NULL", email).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
