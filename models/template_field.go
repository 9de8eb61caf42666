package models

const (
	FieldText     = "text"
	FieldNumber   = "number"
	FieldRating   = "rating"
	FieldChoice   = "choice"
	FieldCheckbox = "checkbox"
)

// RatingMax bounds rating answers to the discrete 1..RatingMax scale.
const RatingMax = 5

func ValidFieldType(t string) bool {
	switch t {
	case FieldText, FieldNumber, FieldRating, FieldChoice, FieldCheckbox:
		return true
	}
	return false
}

// FieldTypeHasOptions reports whether the type carries an option list.
func FieldTypeHasOptions(t string) bool {
	return t == FieldChoice || t == FieldCheckbox
}

type TemplateField struct {
	ID         uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	TemplateID uint             `json:"template_id"`
	Template   FeedbackTemplate `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"-"`
	Label      string           `gorm:"type:text;not null" json:"label"`
	FieldType  string           `gorm:"size:20;not null" json:"field_type"`
	Required   bool             `gorm:"default:false" json:"required"`
	Position   int              `gorm:"default:0" json:"position"`

	Options []FieldOption `gorm:"foreignKey:FieldID" json:"options"`
	Answers []FieldAnswer `gorm:"foreignKey:FieldID" json:"-"`
}

// OptionValues flattens the option rows in display order.
func (f TemplateField) OptionValues() []string {
	vals := make([]string, 0, len(f.Options))
	for _, o := range f.Options {
		vals = append(vals, o.Value)
	}
	return vals
}
