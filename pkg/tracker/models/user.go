package models

import "time"

// User represents a registered account. Usernames are case-sensitive and
// unique; the password is only ever stored as a bcrypt hash.
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `json:"-"`

	// Relationships
	Memberships []GroupMembership `gorm:"foreignKey:UserID" json:"memberships,omitempty"`
	Expenses    []Expense         `gorm:"foreignKey:UserID" json:"expenses,omitempty"`
}
