package models

import "time"

// Template lifecycle. Transitions are explicit only:
// draft -> active, active -> closed, closed -> active (reactivate).
const (
	StatusDraft  = "draft"
	StatusActive = "active"
	StatusClosed = "closed"
)

type FeedbackTemplate struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title         string    `gorm:"column:title;size:255;not null" json:"title"`
	Description   string    `gorm:"column:description;type:text" json:"description"`
	Status        string    `gorm:"column:status;size:20;default:'draft'" json:"status"`
	CreatedByID   *uint     `gorm:"column:created_by_id" json:"created_by_id"`
	ResponseCount int       `gorm:"column:response_count" json:"response_count"`
	SettingsJSON  string    `gorm:"column:settings_json;type:text" json:"-"`
	EditTokenHash string    `gorm:"column:edit_token_hash;type:text" json:"-"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	CreatedBy *User `gorm:"foreignKey:CreatedByID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Fields    []TemplateField    `gorm:"foreignKey:TemplateID" json:"-"`
	Responses []FeedbackResponse `gorm:"foreignKey:TemplateID" json:"-"`
}

func (FeedbackTemplate) TableName() string {
	return "feedback_templates"
}

// AcceptsResponses reports whether new submissions are allowed.
func (t FeedbackTemplate) AcceptsResponses() bool {
	return t.Status == StatusActive
}
