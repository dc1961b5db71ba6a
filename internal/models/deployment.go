package models

import "time"

type DeploymentStatus string

const (
	DeploymentStatusQueued    DeploymentStatus = "queued"
	DeploymentStatusRunning   DeploymentStatus = "running"
	DeploymentStatusSimulated DeploymentStatus = "simulated"
	DeploymentStatusSucceeded DeploymentStatus = "succeeded"
	DeploymentStatusFailed    DeploymentStatus = "failed"
)

// IsTerminal reports whether no further status transition is possible.
func (s DeploymentStatus) IsTerminal() bool {
	switch s {
	case DeploymentStatusSimulated, DeploymentStatusSucceeded, DeploymentStatusFailed:
		return true
	}
	return false
}

// ContractDeployment represents one attempt to instantiate a contract
// template on a target network. CompletedAt is set exactly when the
// status is terminal (simulated, succeeded or failed).
type ContractDeployment struct {
	ID                   uint             `gorm:"primaryKey" json:"id"`
	UserID               string           `gorm:"index;type:varchar(255);not null" json:"user_id"`
	TemplateID           string           `gorm:"not null;type:varchar(128)" json:"template_id"`
	TemplateName         string           `gorm:"type:varchar(255)" json:"template_name"`
	Network              string           `gorm:"not null;type:varchar(64)" json:"network"`
	FundingWallet        string           `gorm:"not null;type:varchar(128)" json:"funding_wallet"`
	DeployerWallet       string           `gorm:"type:varchar(128)" json:"deployer_wallet,omitempty"`
	ConstructorArguments JSON             `gorm:"type:text" json:"constructor_arguments"`
	ManagerAddress       string           `gorm:"type:varchar(128)" json:"manager_address,omitempty"`
	Status               DeploymentStatus `gorm:"default:queued;index" json:"status"` // queued, running, simulated, succeeded, failed
	StatusMessage        string           `gorm:"type:text" json:"status_message"`
	TransactionHash      string           `gorm:"type:varchar(120)" json:"transaction_hash,omitempty"`
	ContractAddress      string           `gorm:"type:varchar(128)" json:"contract_address,omitempty"`
	ChainID              int64            `json:"chain_id,omitempty"`
	RawOutput            string           `gorm:"type:text" json:"raw_output,omitempty"`
	DeploymentMetadata   JSON             `gorm:"type:text" json:"deployment_metadata,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
	CompletedAt          *time.Time       `json:"completed_at,omitempty"`
}
