package groups

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"alcoltracker/pkg/tracker/auth"
	"alcoltracker/pkg/tracker/models"
	"alcoltracker/pkg/tracker/stats"
)

// GroupStatsResponse represents period-filtered totals for a group
type GroupStatsResponse struct {
	Period        string                  `json:"period"`
	TotalAmount   float64                 `json:"totalAmount"`
	TotalQuantity float64                 `json:"totalQuantity"`
	ByType        map[string]stats.Totals `json:"byType"`
}

// LeaderboardResponse represents a ranked list of members for one type
type LeaderboardResponse struct {
	Period      string                   `json:"period"`
	Type        string                   `json:"type"`
	Leaderboard []stats.LeaderboardEntry `json:"leaderboard"`
}

func groupEntries(records []models.Expense) []stats.Entry {
	entries := make([]stats.Entry, len(records))
	for i, e := range records {
		entries[i] = stats.Entry{
			OwnerID:  e.UserID,
			Type:     e.Type,
			Amount:   e.Amount,
			Quantity: e.Quantity,
			Date:     e.Date,
		}
	}
	return entries
}

// requireMembership resolves the group id parameter and checks the current
// user belongs to the group. Absence and non-membership both read as 404.
func (h *Handler) requireMembership(c *gin.Context) (uint, bool) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid group ID"})
		return 0, false
	}

	var membership models.GroupMembership
	if err := h.db.Where("user_id = ? AND group_id = ?", userID, groupID).First(&membership).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Group not found or access denied"})
		return 0, false
	}
	return uint(groupID), true
}

// Stats returns period-filtered totals across a group's expenses
// @Summary Group statistics
// @Description Get totals and per-type breakdown over the group's expenses for a period
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Param period query string false "Period (YYYY or YYYY-MM, default current year)"
// @Success 200 {object} GroupStatsResponse
// @Failure 400 {object} map[string]string "Invalid period"
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id}/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	groupID, ok := h.requireMembership(c)
	if !ok {
		return
	}

	period, err := stats.ParsePeriod(c.Query("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var records []models.Expense
	if err := h.db.Where("group_id = ?", groupID).Order("date DESC, id ASC").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch group expenses"})
		return
	}

	entries := stats.FilterByPeriod(groupEntries(records), period)
	totals := stats.Sum(entries)

	byType := make(map[string]stats.Totals)
	for t, v := range stats.BreakdownByType(entries) {
		byType[string(t)] = v
	}

	c.JSON(http.StatusOK, GroupStatsResponse{
		Period:        period.String(),
		TotalAmount:   totals.Amount,
		TotalQuantity: totals.Quantity,
		ByType:        byType,
	})
}

// Leaderboard ranks group members by spend on one beverage type
// @Summary Group leaderboard
// @Description Rank members by amount spent on one beverage type for a period
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Param type query string true "Beverage type (beer, wine, spirits, spritz)"
// @Param period query string false "Period (YYYY or YYYY-MM, default current year)"
// @Success 200 {object} LeaderboardResponse
// @Failure 400 {object} map[string]string "Invalid type or period"
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id}/leaderboard [get]
func (h *Handler) Leaderboard(c *gin.Context) {
	groupID, ok := h.requireMembership(c)
	if !ok {
		return
	}

	expenseType := models.ExpenseType(c.Query("type"))
	if !expenseType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid expense type"})
		return
	}

	period, err := stats.ParsePeriod(c.Query("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	memberships, err := h.loadMembers(groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch members"})
		return
	}
	members := make([]stats.Member, len(memberships))
	for i, m := range memberships {
		members[i] = stats.Member{ID: m.User.ID, Username: m.User.Username}
	}

	var records []models.Expense
	if err := h.db.Where("group_id = ?", groupID).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch group expenses"})
		return
	}

	entries := stats.FilterByPeriod(groupEntries(records), period)
	board := stats.Leaderboard(members, entries, expenseType)

	c.JSON(http.StatusOK, LeaderboardResponse{
		Period:      period.String(),
		Type:        string(expenseType),
		Leaderboard: board,
	})
}
