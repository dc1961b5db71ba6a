package services

import (
	"errors"

	"github.com/mycontracts/backend/internal/models"
	"gorm.io/gorm"
)

type ProfileService interface {
	GetOrCreateProfile(userID string) (*models.UserProfile, error)
	UpdateProfile(userID string, updates ProfileUpdate) (*models.UserProfile, error)
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	DisplayName      string `json:"display_name" validate:"max=150"`
	WalletAddress    string `json:"wallet_address" validate:"max=128"`
	Bio              string `json:"bio"`
	PreferredNetwork string `json:"preferred_network" validate:"max=64"`
}

type profileService struct {
	db *gorm.DB
}

// NewProfileService creates a new ProfileService
func NewProfileService(db *gorm.DB) ProfileService {
	return &profileService{db: db}
}

// GetOrCreateProfile returns the user's profile, creating an empty one
// on first access.
func (s *profileService) GetOrCreateProfile(userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.UserProfile{UserID: userID}
		if err := s.db.Create(&profile).Error; err != nil {
			return nil, err
		}
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile overwrites the editable profile fields
func (s *profileService) UpdateProfile(userID string, updates ProfileUpdate) (*models.UserProfile, error) {
	profile, err := s.GetOrCreateProfile(userID)
	if err != nil {
		return nil, err
	}

	err = s.db.Model(profile).Updates(map[string]interface{}{
		"display_name":      updates.DisplayName,
		"wallet_address":    updates.WalletAddress,
		"bio":               updates.Bio,
		"preferred_network": updates.PreferredNetwork,
	}).Error
	if err != nil {
		return nil, err
	}

	return s.GetOrCreateProfile(userID)
}
