package domain

import "time"

type Member struct {
	ID           string
	FirstName    string
	MiddleName   string
	Surname      string
	MatricNumber string
	Email        string
	Level        string
	Department   string

	PasswordHash string

	CreatedAt *time.Time
}

// FullName is the display name captured into transaction snapshots and
// printed on receipts.
func (m Member) FullName() string {
	if m.MiddleName != "" {
		return m.FirstName + " " + m.MiddleName + " " + m.Surname
	}
	return m.FirstName + " " + m.Surname
}
