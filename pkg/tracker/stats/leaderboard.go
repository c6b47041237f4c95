package stats

import (
	"sort"

	"alcoltracker/pkg/tracker/models"
)

// Member identifies a group member for ranking purposes.
type Member struct {
	ID       uint
	Username string
}

// LeaderboardEntry is one ranked row. Members with no matching expenses are
// included with zero totals, not omitted.
type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	UserID   uint    `json:"user_id"`
	Username string  `json:"username"`
	Amount   float64 `json:"amount"`
	Quantity float64 `json:"quantity"`
}

// Leaderboard ranks members by spend on one beverage category, descending.
// Ties keep member-list order. Rank is the 1-based position after sorting.
func Leaderboard(members []Member, entries []Entry, typ models.ExpenseType) []LeaderboardEntry {
	byOwner := make(map[uint]Totals, len(members))
	for _, e := range entries {
		if e.Type != typ {
			continue
		}
		t := byOwner[e.OwnerID]
		t.Amount += e.Amount
		t.Quantity += e.Quantity
		byOwner[e.OwnerID] = t
	}

	board := make([]LeaderboardEntry, len(members))
	for i, m := range members {
		t := byOwner[m.ID]
		board[i] = LeaderboardEntry{
			UserID:   m.ID,
			Username: m.Username,
			Amount:   t.Amount,
			Quantity: t.Quantity,
		}
	}

	sort.SliceStable(board, func(i, j int) bool {
		return board[i].Amount > board[j].Amount
	})
	for i := range board {
		board[i].Rank = i + 1
	}
	return board
}
