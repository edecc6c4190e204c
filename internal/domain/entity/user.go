package entity

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Settings are the per-account preferences.
type Settings struct {
	Notifications bool `json:"notifications"`
	Newsletter    bool `json:"newsletter"`
	DarkMode      bool `json:"darkMode"`
}

// DefaultSettings is applied to new accounts and to records that predate settings.
func DefaultSettings() *Settings {
	return &Settings{Notifications: true, Newsletter: false, DarkMode: false}
}

// UserAccount is a registered shopper. PasswordHash is only present in the
// persisted users collection; the session copy never carries it.
type UserAccount struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Avatar       string    `json:"avatar"`
	Cart         Cart      `json:"cart"`
	Wishlist     Wishlist  `json:"wishlist"`
	Orders       []Order   `json:"orders"`
	Settings     *Settings `json:"settings"`
}

// Normalize default-initializes collections missing from older records.
func (u *UserAccount) Normalize() {
	if u.Cart == nil {
		u.Cart = Cart{}
	}
	if u.Wishlist == nil {
		u.Wishlist = Wishlist{}
	}
	if u.Orders == nil {
		u.Orders = []Order{}
	}
	if u.Settings == nil {
		u.Settings = DefaultSettings()
	}
}

// Sanitized returns a deep-enough copy without the credential.
func (u *UserAccount) Sanitized() *UserAccount {
	cp := *u
	cp.PasswordHash = ""
	cp.Cart = slices.Clone(u.Cart)
	cp.Wishlist = slices.Clone(u.Wishlist)
	cp.Orders = slices.Clone(u.Orders)
	if u.Settings != nil {
		s := *u.Settings
		cp.Settings = &s
	}

	return &cp
}

// EmailMatches compares emails case-insensitively.
func (u *UserAccount) EmailMatches(email string) bool {
	return strings.EqualFold(strings.TrimSpace(u.Email), strings.TrimSpace(email))
}

// FindOrder returns the order with the given ID.
func (u *UserAccount) FindOrder(orderID string) (*Order, bool) {
	for i := range u.Orders {
		if u.Orders[i].ID == orderID {
			return &u.Orders[i], true
		}
	}

	return nil, false
}

// SeedUser is a demo account from the catalog feed; its password is plaintext until hashed.
type SeedUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Avatar   string `yaml:"avatar"`
}
