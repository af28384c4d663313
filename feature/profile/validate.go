package profile

import (
	"math"
	"strconv"
	"strings"
)

// Editable field names accepted by SetField.
const (
	FieldDisplayName  = "displayName"
	FieldContactEmail = "contactEmail"
	FieldContactPhone = "contactPhone"
	FieldBiography    = "biography"
	FieldAvatarToken  = "avatarToken"
	FieldHourlyRate   = "hourlyRate"
)

// Names used only in validation reports.
const (
	FieldIdentity = "identity"
	FieldRole     = "role"
	FieldSkills   = "skills"
)

// EditableFields returns the field names SetField accepts.
func EditableFields() []string {
	return []string{
		FieldDisplayName,
		FieldContactEmail,
		FieldContactPhone,
		FieldBiography,
		FieldAvatarToken,
		FieldHourlyRate,
	}
}

// set assigns value to the named field of r.
func set(r *Record, name, value string) error {
	switch name {
	case FieldDisplayName:
		r.DisplayName = value
	case FieldContactEmail:
		r.ContactEmail = value
	case FieldContactPhone:
		r.ContactPhone = value
	case FieldBiography:
		r.Biography = value
	case FieldAvatarToken:
		r.AvatarToken = value
	case FieldHourlyRate:
		// Stored as validated.
		r.HourlyRate = strings.TrimSpace(value)
	default:
		return &UnknownFieldError{Field: name}
	}
	return nil
}

// Validate checks r against the record invariants and returns nil or a
// *ValidationError naming every offending field in declaration order.
func Validate(r Record) error {
	var verr ValidationError

	if !IsAvatarToken(r.AvatarToken) {
		verr.add(FieldAvatarToken, "not a selectable avatar")
	}
	if !r.Role.Valid() {
		verr.add(FieldRole, "must be client or freelancer")
	}
	if reason := skillsProblem(r.Skills); reason != "" {
		verr.add(FieldSkills, reason)
	}
	if reason := rateProblem(r.HourlyRate); reason != "" {
		verr.add(FieldHourlyRate, reason)
	}

	if len(verr.Fields) == 0 {
		return nil
	}
	return &verr
}

func skillsProblem(skills []string) string {
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		if strings.TrimSpace(s) == "" {
			return "contains an empty skill"
		}
		if _, dup := seen[s]; dup {
			return "contains duplicate skill " + strconv.Quote(s)
		}
		seen[s] = struct{}{}
	}
	return ""
}

// rateProblem accepts an empty rate as "not set".
func rateProblem(rate string) string {
	rate = strings.TrimSpace(rate)
	if rate == "" {
		return ""
	}
	v, err := strconv.ParseFloat(rate, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return "must be a number"
	}
	if v < 0 {
		return "must not be negative"
	}
	return ""
}
