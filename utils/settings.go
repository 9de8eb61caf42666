package utils

import (
	"encoding/json"
	"errors"
)

// NullableInt distinguishes "absent", "explicit null" and a number in a
// JSON patch, so clients can clear max_responses by sending null.
type NullableInt struct {
	Set   bool
	Value *int
}

func (n *NullableInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

func (n NullableInt) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// TemplateSettings is the optional settings blob stored on a template.
type TemplateSettings struct {
	MaxResponses NullableInt `json:"max_responses,omitempty"` // total response cap (nil = unlimited)
	RequireLogin *bool       `json:"require_login,omitempty"` // anonymous submissions refused
	CollectEmail *bool       `json:"collect_email,omitempty"` // ask fillers for an email address
}

// ValidateSettings clamps MaxResponses to at least 1.
func ValidateSettings(s *TemplateSettings) error {
	if s == nil {
		return errors.New("empty settings")
	}
	if s.MaxResponses.Set && s.MaxResponses.Value != nil {
		if *s.MaxResponses.Value < 1 {
			v := 1
			s.MaxResponses.Value = &v
		}
	}
	return nil
}

func ParseSettings(raw []byte) (*TemplateSettings, error) {
	if len(raw) == 0 {
		return &TemplateSettings{}, nil
	}
	var s TemplateSettings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errors.New("settings is not valid JSON")
	}
	if err := ValidateSettings(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func SettingsJSON(s *TemplateSettings) (string, error) {
	if s == nil {
		s = &TemplateSettings{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MergeSettings overlays patch on base; only fields the client actually
// sent overwrite.
func MergeSettings(base *TemplateSettings, patch *TemplateSettings) *TemplateSettings {
	if base == nil {
		base = &TemplateSettings{}
	}
	if patch == nil {
		patch = &TemplateSettings{}
	}
	out := *base

	if patch.MaxResponses.Set {
		out.MaxResponses = patch.MaxResponses
	}
	if patch.RequireLogin != nil {
		out.RequireLogin = patch.RequireLogin
	}
	if patch.CollectEmail != nil {
		out.CollectEmail = patch.CollectEmail
	}
	return &out
}
