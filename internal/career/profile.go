package career

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrUnknownField is returned when an edit names a field the form does not have.
var ErrUnknownField = errors.New("unknown profile field")

// Profile field keys, matching the JSON wire names.
const (
	FieldRole            = "role"
	FieldSkills          = "skills"
	FieldSkillGaps       = "skill_gaps"
	FieldCareerAmbitions = "career_ambitions"
	FieldLanguage        = "language"
)

// FieldInfo describes one input of the career analysis form.
type FieldInfo struct {
	Key         string
	Label       string
	Placeholder string
}

// Fields lists the form inputs in display order.
var Fields = []FieldInfo{
	{Key: FieldRole, Label: "Current Role", Placeholder: "e.g., Software Developer, Marketing Manager"},
	{Key: FieldSkills, Label: "Core Skills", Placeholder: "e.g., Python, JavaScript, Digital Marketing"},
	{Key: FieldSkillGaps, Label: "Skills to Develop", Placeholder: "e.g., Machine Learning, Leadership, AWS"},
	{Key: FieldCareerAmbitions, Label: "Career Aspirations", Placeholder: "e.g., Senior Developer, Team Lead, CTO"},
	{Key: FieldLanguage, Label: "Preferred Language", Placeholder: "e.g., English, Spanish, Mandarin"},
}

// MissingFieldsError lists the required fields that were left empty.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

var validate = validator.New()

// With returns a copy of p with exactly one field replaced.
func (p Profile) With(key, value string) (Profile, error) {
	switch key {
	case FieldRole:
		p.Role = value
	case FieldSkills:
		p.Skills = value
	case FieldSkillGaps:
		p.SkillGaps = value
	case FieldCareerAmbitions:
		p.CareerAmbitions = value
	case FieldLanguage:
		p.Language = value
	default:
		return p, fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	return p, nil
}

// Get returns the value of the field with the given key.
func (p Profile) Get(key string) (string, error) {
	switch key {
	case FieldRole:
		return p.Role, nil
	case FieldSkills:
		return p.Skills, nil
	case FieldSkillGaps:
		return p.SkillGaps, nil
	case FieldCareerAmbitions:
		return p.CareerAmbitions, nil
	case FieldLanguage:
		return p.Language, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, key)
}

// Validate reports every empty field as a *MissingFieldsError.
// Whitespace-only values count as empty.
func (p Profile) Validate() error {
	trimmed := Profile{
		Role:            strings.TrimSpace(p.Role),
		Skills:          strings.TrimSpace(p.Skills),
		SkillGaps:       strings.TrimSpace(p.SkillGaps),
		CareerAmbitions: strings.TrimSpace(p.CareerAmbitions),
		Language:        strings.TrimSpace(p.Language),
	}

	err := validate.Struct(trimmed)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating profile: %w", err)
	}

	failed := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		failed[fe.StructField()] = true
	}

	// Report in form order, using wire names.
	missing := &MissingFieldsError{}
	for _, f := range []struct{ key, structField string }{
		{FieldRole, "Role"},
		{FieldSkills, "Skills"},
		{FieldSkillGaps, "SkillGaps"},
		{FieldCareerAmbitions, "CareerAmbitions"},
		{FieldLanguage, "Language"},
	} {
		if failed[f.structField] {
			missing.Fields = append(missing.Fields, f.key)
		}
	}
	return missing
}
