package expenses

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"alcoltracker/pkg/tracker/auth"
	"alcoltracker/pkg/tracker/models"
	"alcoltracker/pkg/tracker/stats"
)

// Handler handles expense-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new expenses handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateExpenseRequest represents the request to log an expense
type CreateExpenseRequest struct {
	Type     string   `json:"type" binding:"required"`
	Amount   *float64 `json:"amount" binding:"required,gte=0"`
	Quantity *float64 `json:"quantity" binding:"required,gte=0"`
	Date     string   `json:"date"`
	GroupID  *uint    `json:"groupId"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID        uint    `json:"id"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Quantity  float64 `json:"quantity"`
	Date      string  `json:"date"`
	UserID    uint    `json:"userId"`
	GroupID   *uint   `json:"groupId"`
	CreatedAt string  `json:"createdAt"`
}

// StatsResponse represents the all-time aggregate of a user's expenses.
// Types the user never logged are omitted from ByType, not zero-filled.
type StatsResponse struct {
	TotalAmount   float64                 `json:"totalAmount"`
	TotalQuantity float64                 `json:"totalQuantity"`
	ByType        map[string]stats.Totals `json:"byType"`
}

// SummaryResponse represents period-filtered totals with a full per-type
// breakdown.
type SummaryResponse struct {
	Period        string                  `json:"period"`
	TotalAmount   float64                 `json:"totalAmount"`
	TotalQuantity float64                 `json:"totalQuantity"`
	ByType        map[string]stats.Totals `json:"byType"`
}

// ToResponse converts an expense model to its wire representation.
func ToResponse(e models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:        e.ID,
		Type:      string(e.Type),
		Amount:    e.Amount,
		Quantity:  e.Quantity,
		Date:      e.Date.Format(time.RFC3339),
		UserID:    e.UserID,
		GroupID:   e.GroupID,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

func toEntries(expenses []models.Expense) []stats.Entry {
	entries := make([]stats.Entry, len(expenses))
	for i, e := range expenses {
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

// Create logs a new expense owned by the current user
// @Summary Log an expense
// @Description Log a purchase, optionally scoped to a group the user belongs to
// @Tags expenses
// @Accept json
// @Produce json
// @Param request body CreateExpenseRequest true "Expense details"
// @Success 201 {object} ExpenseResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Not a member of the group"
// @Security BearerAuth
// @Router /expenses [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	expenseType := models.ExpenseType(req.Type)
	if !expenseType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid expense type"})
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			// Date-only form, as submitted by HTML date inputs
			parsed, err = time.Parse("2006-01-02", req.Date)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid date format"})
			return
		}
		date = parsed
	}

	// Group-scoped expenses require current membership, checked at write
	// time only. Absence and non-membership are indistinguishable.
	if req.GroupID != nil {
		var membership models.GroupMembership
		if err := h.db.Where("user_id = ? AND group_id = ?", userID, *req.GroupID).First(&membership).Error; err != nil {
			c.JSON(http.StatusForbidden, gin.H{"message": "Group not found or access denied"})
			return
		}
	}

	expense := models.Expense{
		Type:     expenseType,
		Amount:   *req.Amount,
		Quantity: *req.Quantity,
		Date:     date,
		UserID:   userID,
		GroupID:  req.GroupID,
	}

	if err := h.db.Create(&expense).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create expense"})
		return
	}

	c.JSON(http.StatusCreated, ToResponse(expense))
}

// List returns the current user's expenses, newest first
// @Summary List expenses
// @Description Get all expenses owned by the current user, ordered by date descending
// @Tags expenses
// @Produce json
// @Success 200 {array} ExpenseResponse
// @Security BearerAuth
// @Router /expenses [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var records []models.Expense
	if err := h.db.Where("user_id = ?", userID).Order("date DESC, id ASC").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch expenses"})
		return
	}

	resp := make([]ExpenseResponse, len(records))
	for i, e := range records {
		resp[i] = ToResponse(e)
	}

	c.JSON(http.StatusOK, resp)
}

// Delete removes an expense owned by the current user
// @Summary Delete an expense
// @Description Delete one of the current user's expenses
// @Tags expenses
// @Produce json
// @Param id path int true "Expense ID"
// @Success 200 {object} map[string]string "Expense deleted"
// @Failure 404 {object} map[string]string "Expense not found"
// @Security BearerAuth
// @Router /expenses/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	expenseID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid expense ID"})
		return
	}

	// Ownership is folded into the lookup so a foreign expense reads as absent
	result := h.db.Where("id = ? AND user_id = ?", expenseID, userID).Delete(&models.Expense{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete expense"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Expense not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}

// Stats returns all-time totals for the current user
// @Summary Expense statistics
// @Description Get all-time totals and per-type breakdown for the current user
// @Tags expenses
// @Produce json
// @Success 200 {object} StatsResponse
// @Security BearerAuth
// @Router /expenses/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var records []models.Expense
	if err := h.db.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch expenses"})
		return
	}

	entries := toEntries(records)
	totals := stats.Sum(entries)

	byType := make(map[string]stats.Totals)
	for _, e := range entries {
		t := byType[string(e.Type)]
		t.Amount += e.Amount
		t.Quantity += e.Quantity
		byType[string(e.Type)] = t
	}

	c.JSON(http.StatusOK, StatsResponse{
		TotalAmount:   totals.Amount,
		TotalQuantity: totals.Quantity,
		ByType:        byType,
	})
}

// Summary returns period-filtered totals for the current user
// @Summary Period summary
// @Description Get totals and per-type breakdown for one year or month
// @Tags expenses
// @Produce json
// @Param period query string false "Period (YYYY or YYYY-MM, default current year)"
// @Success 200 {object} SummaryResponse
// @Failure 400 {object} map[string]string "Invalid period"
// @Security BearerAuth
// @Router /expenses/summary [get]
func (h *Handler) Summary(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	period, err := stats.ParsePeriod(c.Query("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var records []models.Expense
	if err := h.db.Where("user_id = ?", userID).Order("date DESC, id ASC").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch expenses"})
		return
	}

	entries := stats.FilterByPeriod(toEntries(records), period)
	totals := stats.Sum(entries)

	byType := make(map[string]stats.Totals)
	for t, v := range stats.BreakdownByType(entries) {
		byType[string(t)] = v
	}

	c.JSON(http.StatusOK, SummaryResponse{
		Period:        period.String(),
		TotalAmount:   totals.Amount,
		TotalQuantity: totals.Quantity,
		ByType:        byType,
	})
}

// RegisterRoutes registers expense routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/expenses", h.List)
	rg.POST("/expenses", h.Create)
	rg.GET("/expenses/stats", h.Stats)
	rg.GET("/expenses/summary", h.Summary)
	rg.DELETE("/expenses/:id", h.Delete)
}
