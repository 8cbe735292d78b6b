package user

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// MinPhoneDigits is the shortest accepted phone number after normalization.
const MinPhoneDigits = 10

var ErrInvalidPhone = errors.New("phone must contain at least 10 digits")

// User is an account. Its ID is the normalized phone number.
type User struct {
	ID           string
	Name         string
	Nickname     string
	Email        string
	Phone        string
	AvatarURL    string
	BirthDate    string
	FavoriteTeam string
	Position     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID string
	Name   string
	Email  string
}

// NormalizePhone keeps only the digits of raw.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParsePhone normalizes raw and rejects numbers that are too short.
func ParsePhone(raw string) (string, error) {
	digits := NormalizePhone(raw)
	if len(digits) < MinPhoneDigits {
		return "", ErrInvalidPhone
	}
	return digits, nil
}

// DefaultNickname is the first word of name.
func DefaultNickname(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func (u User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("user name is required")
	}
	if u.Email != "" {
		if _, err := mail.ParseAddress(u.Email); err != nil {
			return fmt.Errorf("invalid user email: %s", u.Email)
		}
	}
	if _, err := ParsePhone(u.Phone); err != nil {
		return err
	}
	if u.ID != NormalizePhone(u.Phone) {
		return fmt.Errorf("user id must match phone digits")
	}

	return nil
}
