package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`

	// Profile fields used to derive daily goals.
	WeightKg      float64 `json:"weight_kg"`
	HeightCm      float64 `json:"height_cm"`
	Age           int     `json:"age"`
	Gender        string  `gorm:"size:16" json:"gender"`
	ActivityLevel string  `gorm:"size:32" json:"activity_level"`
	PrepTime      string  `gorm:"size:32" json:"prep_time"`

	// Free-form preference lists, stored as comma separated values.
	Allergies          string `gorm:"size:512" json:"allergies"`
	DietPreferences    string `gorm:"size:512" json:"diet_preferences"`
	CuisinePreferences string `gorm:"size:512" json:"cuisine_preferences"`
	HealthConditions   string `gorm:"size:512" json:"health_conditions"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
