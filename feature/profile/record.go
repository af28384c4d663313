package profile

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role is the marketplace role of the account owner.
type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleFreelancer
}

// Display returns the role as shown to users ("Client", "Freelancer").
func (r Role) Display() string {
	return cases.Title(language.English).String(string(r))
}

// EditsRateAndSkills reports whether a form for this role presents the hourly
// rate and skills. Values are retained for other roles, just not offered.
func (r Role) EditsRateAndSkills() bool {
	return r == RoleFreelancer
}

var avatarTokens = []string{"🤴", "👑", "🚀", "💎", "🔥", "⚡", "🌟", "🎯", "🛡️", "🎪", "🎨", "🎭"}

// AvatarTokens returns the selectable avatar symbols. The first is the default.
func AvatarTokens() []string {
	out := make([]string, len(avatarTokens))
	copy(out, avatarTokens)
	return out
}

// IsAvatarToken reports whether s is one of the selectable avatar symbols.
func IsAvatarToken(s string) bool {
	for _, t := range avatarTokens {
		if t == s {
			return true
		}
	}
	return false
}

// Record is a user's profile. The JSON names match the cached userData document
// the web client keeps, so caches written by either side stay readable.
type Record struct {
	Identity     string    `json:"address"`
	DisplayName  string    `json:"name"`
	ContactEmail string    `json:"email"`
	ContactPhone string    `json:"whatsappNumber"`
	Biography    string    `json:"bio"`
	AvatarToken  string    `json:"avatar"`
	Role         Role      `json:"role"`
	Skills       []string  `json:"skills"`
	HourlyRate   string    `json:"hourlyRate"`
	LastSyncedAt time.Time `json:"updatedAt"`
}

// DefaultRecord is the profile of a user with nothing cached yet.
func DefaultRecord() Record {
	return Record{
		AvatarToken: avatarTokens[0],
		Role:        RoleClient,
		Skills:      []string{},
	}
}

// Linked reports whether the record is tied to an external identity.
func (r Record) Linked() bool {
	return r.Identity != ""
}

// Label is the name to greet the user with.
func (r Record) Label() string {
	if r.DisplayName == "" {
		return "User"
	}
	return r.DisplayName
}

// Contact returns the remote-authoritative subset of the record.
func (r Record) Contact() Contact {
	return Contact{
		Name:           r.DisplayName,
		Email:          r.ContactEmail,
		WhatsappNumber: r.ContactPhone,
	}
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	cp := r
	cp.Skills = make([]string, len(r.Skills))
	copy(cp.Skills, r.Skills)
	return cp
}

// HasSkill reports whether skill is present, by exact match.
func (r Record) HasSkill(skill string) bool {
	for _, s := range r.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// Normalize replaces a missing or unknown avatar or role in a record read
// from a cache with the default and drops blank or duplicate skills, keeping
// first occurrences in order. Neither field is editable, so an unknown value
// left in place would fail every commit.
func Normalize(r Record) Record {
	out := r.Clone()
	if !IsAvatarToken(out.AvatarToken) {
		out.AvatarToken = avatarTokens[0]
	}
	if !out.Role.Valid() {
		out.Role = RoleClient
	}

	skills := make([]string, 0, len(out.Skills))
	seen := make(map[string]struct{}, len(out.Skills))
	for _, s := range out.Skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		skills = append(skills, s)
	}
	out.Skills = skills
	return out
}

// Contact holds the fields the remote store is authoritative for.
type Contact struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	WhatsappNumber string `json:"whatsappNumber"`
}
