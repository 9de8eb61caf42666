package models

import "time"

type FeedbackResponse struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TemplateID  uint      `gorm:"column:template_id;not null" json:"template_id"`
	UserID      *uint     `gorm:"column:user_id" json:"user_id"`
	Email       *string   `gorm:"column:email;size:255" json:"email,omitempty"`
	SubmittedAt time.Time `gorm:"column:submitted_at;autoCreateTime" json:"submitted_at"`

	User    *User         `gorm:"foreignKey:UserID" json:"-"`
	Answers []FieldAnswer `gorm:"foreignKey:ResponseID" json:"-"`
}

func (FeedbackResponse) TableName() string {
	return "feedback_responses"
}
