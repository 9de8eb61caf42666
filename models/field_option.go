package models

type FieldOption struct {
	ID       uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	FieldID  uint          `json:"field_id"`
	Field    TemplateField `gorm:"foreignKey:FieldID;constraint:OnDelete:CASCADE" json:"-"`
	Value    string        `gorm:"type:text;not null" json:"value"`
	Position int           `gorm:"default:0" json:"position"`
}
