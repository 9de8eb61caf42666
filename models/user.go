package models

import "time"

const (
	RoleUser    = "user"
	RoleOfficer = "officer"
	RoleAdmin   = "admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;unique;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"` // hidden in JSON
	Role         string    `gorm:"size:20;not null;default:'user'" json:"role"` // user | officer | admin
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	Templates []FeedbackTemplate `gorm:"foreignKey:CreatedByID" json:"-"`
	Responses []FeedbackResponse `gorm:"foreignKey:UserID" json:"-"`
}

// IsStaff reports whether the user may author feedback templates.
func (u User) IsStaff() bool {
	return u.Role == RoleOfficer || u.Role == RoleAdmin
}
