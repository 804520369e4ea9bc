package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"time"
)

type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"index" json:"updatedAt"`
}

// User is the example table served by the bundled users collection.
type User struct {
	BaseModel
	Name        string          `gorm:"size:255;not null;index" json:"name"`
	Email       string          `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Age         int             `gorm:"not null" json:"age"`
	Nickname    *string         `gorm:"size:100" json:"nickname"`
	ExternalRef *uuid.UUID      `gorm:"type:uuid" json:"externalRef"`
	Balance     decimal.Decimal `gorm:"type:decimal(38,18);not null;default:0" json:"balance"`
}

func (User) TableName() string {
	return "users"
}
