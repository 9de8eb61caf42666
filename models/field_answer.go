package models

import "encoding/json"

// FieldAnswer is a tagged union over nullable value columns: exactly one
// of them is populated, selected by the referenced field's type. Checkbox
// selections are stored as a JSON array string.
type FieldAnswer struct {
	ID         uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	ResponseID uint             `json:"response_id"`
	Response   FeedbackResponse `gorm:"foreignKey:ResponseID;constraint:OnDelete:CASCADE" json:"-"`
	FieldID    uint             `json:"field_id"`
	Field      TemplateField    `gorm:"foreignKey:FieldID;constraint:OnDelete:CASCADE" json:"-"`

	TextValue    *string  `gorm:"column:text_value;type:text" json:"text_value,omitempty"`
	NumberValue  *float64 `gorm:"column:number_value" json:"number_value,omitempty"`
	RatingValue  *int     `gorm:"column:rating_value" json:"rating_value,omitempty"`
	ChoiceValue  *string  `gorm:"column:choice_value;type:text" json:"choice_value,omitempty"`
	CheckboxJSON string   `gorm:"column:checkbox_json;type:text" json:"-"`
}

// CheckboxValues decodes the stored selection list; nil when absent.
func (a FieldAnswer) CheckboxValues() []string {
	if a.CheckboxJSON == "" {
		return nil
	}
	var vals []string
	if err := json.Unmarshal([]byte(a.CheckboxJSON), &vals); err != nil {
		return nil
	}
	return vals
}

// HasValue reports whether any value column is populated.
func (a FieldAnswer) HasValue() bool {
	return a.TextValue != nil || a.NumberValue != nil || a.RatingValue != nil ||
		a.ChoiceValue != nil || a.CheckboxJSON != ""
}
