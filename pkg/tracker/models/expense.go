package models

import "time"

// ExpenseType is one of the four fixed beverage categories.
type ExpenseType string

const (
	ExpenseTypeBeer    ExpenseType = "beer"
	ExpenseTypeWine    ExpenseType = "wine"
	ExpenseTypeSpirits ExpenseType = "spirits"
	ExpenseTypeSpritz  ExpenseType = "spritz"
)

// AllExpenseTypes lists the valid beverage categories in display order.
var AllExpenseTypes = []ExpenseType{
	ExpenseTypeBeer,
	ExpenseTypeWine,
	ExpenseTypeSpirits,
	ExpenseTypeSpritz,
}

// Valid reports whether t is one of the fixed beverage categories.
func (t ExpenseType) Valid() bool {
	switch t {
	case ExpenseTypeBeer, ExpenseTypeWine, ExpenseTypeSpirits, ExpenseTypeSpritz:
		return true
	}
	return false
}

// Expense is a single logged purchase: category, cost in currency units,
// volume in liters, and when it happened. GroupID is nil for personal
// expenses. Expenses are owned by exactly one user and are never edited
// after creation, only deleted.
type Expense struct {
	ID        uint        `gorm:"primarykey" json:"id"`
	CreatedAt time.Time   `json:"createdAt"`
	Type      ExpenseType `gorm:"type:varchar(10);not null" json:"type"`
	Amount    float64     `gorm:"not null" json:"amount"`
	Quantity  float64     `gorm:"not null" json:"quantity"`
	Date      time.Time   `gorm:"index;not null" json:"date"`
	UserID    uint        `gorm:"index;not null" json:"userId"`
	GroupID   *uint       `gorm:"index" json:"groupId"`

	// Relationships
	User  User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Group *Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}
