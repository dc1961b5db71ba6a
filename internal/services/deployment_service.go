package services

import (
	"fmt"
	"time"

	"github.com/mycontracts/backend/internal/models"
	"gorm.io/gorm"
)

type DeploymentService interface {
	CreateDeployment(deployment *models.ContractDeployment) error
	GetDeploymentByID(id uint) (*models.ContractDeployment, error)
	GetUserDeployment(id uint, userID string) (*models.ContractDeployment, error)
	ListDeploymentsByUser(userID string, limit int) ([]models.ContractDeployment, error)
	MarkRunning(id uint, message string) error
	MarkSimulated(id uint, reason string) error
	MarkFailed(id uint, reason string) error
	MarkSucceeded(id uint, txHash, rawOutput string) error
}

// deploymentService handles deployment records and their status
// transitions. Terminal transitions write status, message, outcome
// fields and completed_at in a single update so partial writes are
// never observable.
type deploymentService struct {
	db *gorm.DB
}

// NewDeploymentService creates a new DeploymentService
func NewDeploymentService(db *gorm.DB) DeploymentService {
	return &deploymentService{db: db}
}

// CreateDeployment creates a new deployment in queued status
func (s *deploymentService) CreateDeployment(deployment *models.ContractDeployment) error {
	if deployment.Status == "" {
		deployment.Status = models.DeploymentStatusQueued
	}
	return s.db.Create(deployment).Error
}

// GetDeploymentByID returns a deployment by its ID
func (s *deploymentService) GetDeploymentByID(id uint) (*models.ContractDeployment, error) {
	var deployment models.ContractDeployment
	err := s.db.First(&deployment, id).Error
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}

// GetUserDeployment returns a deployment only when it belongs to the
// given user.
func (s *deploymentService) GetUserDeployment(id uint, userID string) (*models.ContractDeployment, error) {
	var deployment models.ContractDeployment
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&deployment).Error
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}

// ListDeploymentsByUser returns the user's deployments, newest first
func (s *deploymentService) ListDeploymentsByUser(userID string, limit int) ([]models.ContractDeployment, error) {
	query := s.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var deployments []models.ContractDeployment
	err := query.Find(&deployments).Error
	return deployments, err
}

// MarkRunning transitions a deployment to running just before the
// deploy script is invoked.
func (s *deploymentService) MarkRunning(id uint, message string) error {
	return s.db.Model(&models.ContractDeployment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":         models.DeploymentStatusRunning,
		"status_message": message,
	}).Error
}

// MarkSimulated records the degraded-mode terminal state used when the
// external repository or its deploy script is absent.
func (s *deploymentService) MarkSimulated(id uint, reason string) error {
	return s.db.Model(&models.ContractDeployment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":         models.DeploymentStatusSimulated,
		"status_message": reason,
		"completed_at":   time.Now(),
	}).Error
}

// MarkFailed records a failed terminal state with diagnostic text
func (s *deploymentService) MarkFailed(id uint, reason string) error {
	return s.db.Model(&models.ContractDeployment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":         models.DeploymentStatusFailed,
		"status_message": reason,
		"completed_at":   time.Now(),
	}).Error
}

// MarkSucceeded records a successful terminal state. A missing
// transaction hash still counts as success; the hash simply stays
// unset.
func (s *deploymentService) MarkSucceeded(id uint, txHash, rawOutput string) error {
	message := "Deployment successful."
	if txHash != "" {
		message = fmt.Sprintf("Deployment successful. Tx: %s", txHash)
	}

	updates := map[string]interface{}{
		"status":         models.DeploymentStatusSucceeded,
		"status_message": message,
		"raw_output":     rawOutput,
		"completed_at":   time.Now(),
	}
	if txHash != "" {
		updates["transaction_hash"] = txHash
	}

	return s.db.Model(&models.ContractDeployment{}).Where("id = ?", id).Updates(updates).Error
}
