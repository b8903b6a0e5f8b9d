package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageTurkish Language = "tr"
)

func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageTurkish
}

type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == ThemeSystem || t == ThemeLight || t == ThemeDark
}

type Preferences struct {
	FavoriteCategories   []Category `json:"favorite_categories"`
	DietaryRestrictions  []string   `json:"dietary_restrictions"`
	PreferredLanguage    Language   `json:"preferred_language"`
	NotificationsEnabled bool       `json:"notifications_enabled"`
	DarkModeEnabled      bool       `json:"dark_mode_enabled"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		FavoriteCategories:   []Category{},
		DietaryRestrictions:  []string{},
		PreferredLanguage:    LanguageEnglish,
		NotificationsEnabled: true,
	}
}

type User struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	ProfileImage []byte      `json:"profile_image,omitempty"`
	JoinDate     time.Time   `json:"join_date"`
	Preferences  Preferences `json:"preferences"`
	Role         Role        `json:"role"`
}

// ProfilePatch carries the fields a user may edit. Role is not editable.
type ProfilePatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

func (u *User) Apply(p ProfilePatch) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
}

// GrantsAdmin reports whether a sign-in grants admin rights. signInEmail must
// be the address the credentials were checked against, never the editable
// profile email.
func (u User) GrantsAdmin(signInEmail, adminEmail string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	return adminEmail != "" && strings.EqualFold(strings.TrimSpace(signInEmail), strings.TrimSpace(adminEmail))
}
