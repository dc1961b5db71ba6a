package models

import "time"

// UserProfile holds workspace settings for one authenticated user. The
// primary key is the JWT subject, so a row is created lazily on the
// first profile read.
type UserProfile struct {
	UserID           string    `gorm:"primaryKey;type:varchar(255)" json:"user_id"`
	DisplayName      string    `gorm:"type:varchar(150)" json:"display_name"`
	WalletAddress    string    `gorm:"type:varchar(128)" json:"wallet_address"`
	Bio              string    `gorm:"type:text" json:"bio"`
	PreferredNetwork string    `gorm:"type:varchar(64)" json:"preferred_network"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
