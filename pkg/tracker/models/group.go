package models

import "time"

// Group is a named collection of users sharing visibility into expenses.
// Joining requires the exact group name plus its code. The code is unique
// across all groups, enforced at the schema level so lookup by name+code is
// unambiguous.
type Group struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Code        string    `gorm:"uniqueIndex;not null" json:"code"`
	CreatedByID uint      `gorm:"not null" json:"createdById"`

	// Relationships
	CreatedBy User              `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	Members   []GroupMembership `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	Expenses  []Expense         `gorm:"foreignKey:GroupID" json:"expenses,omitempty"`
}

// GroupMembership links a user to a group. The creator's membership is
// inserted in the same transaction as the group itself, so the creator is
// always a member. Member order is membership insertion order.
type GroupMembership struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_group" json:"userId"`
	GroupID   uint      `gorm:"not null;uniqueIndex:idx_user_group" json:"groupId"`

	// Relationships
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Group Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}
