package groups

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"alcoltracker/pkg/tracker/auth"
	"alcoltracker/pkg/tracker/expenses"
	"alcoltracker/pkg/tracker/models"
)

// Handler handles group-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new groups handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateGroupRequest represents the request to create a group.
// Code is optional; a random one is generated when omitted.
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Code        string `json:"code"`
}

// JoinGroupRequest represents the request to join a group.
// Both the exact name and the code must match.
type JoinGroupRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
}

// MemberResponse represents a group member in API responses
type MemberResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	JoinedAt string `json:"joinedAt"`
}

// GroupResponse represents a group in API responses
type GroupResponse struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Code        string           `json:"code"`
	CreatedBy   MemberResponse   `json:"createdBy"`
	Members     []MemberResponse `json:"members"`
	MemberCount int              `json:"memberCount"`
	CreatedAt   string           `json:"createdAt"`
}

// GroupDetailResponse is a group plus its expenses and the requesting user
type GroupDetailResponse struct {
	GroupResponse
	Expenses    []expenses.ExpenseResponse `json:"expenses"`
	CurrentUser auth.UserResponse          `json:"currentUser"`
}

func memberToResponse(m models.GroupMembership) MemberResponse {
	return MemberResponse{
		ID:       m.User.ID,
		Username: m.User.Username,
		JoinedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

// loadMembers returns a group's memberships in join order with users attached.
func (h *Handler) loadMembers(groupID uint) ([]models.GroupMembership, error) {
	var memberships []models.GroupMembership
	err := h.db.Preload("User").Where("group_id = ?", groupID).Order("id ASC").Find(&memberships).Error
	return memberships, err
}

func (h *Handler) groupToResponse(group models.Group, memberships []models.GroupMembership) GroupResponse {
	members := make([]MemberResponse, len(memberships))
	for i, m := range memberships {
		members[i] = memberToResponse(m)
	}

	resp := GroupResponse{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		Code:        group.Code,
		Members:     members,
		MemberCount: len(members),
		CreatedAt:   group.CreatedAt.Format(time.RFC3339),
	}
	for _, m := range memberships {
		if m.UserID == group.CreatedByID {
			resp.CreatedBy = memberToResponse(m)
			break
		}
	}
	return resp
}

// generateCode creates an unused 8-character join code.
func (h *Handler) generateCode() string {
	for attempts := 0; attempts < 10; attempts++ {
		code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
		var existing models.Group
		if err := h.db.Where("code = ?", code).First(&existing).Error; err != nil {
			return code
		}
	}
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
}

// List returns all groups the current user is a member of
// @Summary List groups
// @Description Get all groups the current user is a member of, in join order
// @Tags groups
// @Produce json
// @Success 200 {array} GroupResponse
// @Security BearerAuth
// @Router /groups [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var memberships []models.GroupMembership
	if err := h.db.Preload("Group").Where("user_id = ?", userID).Order("id ASC").Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch groups"})
		return
	}

	resp := make([]GroupResponse, len(memberships))
	for i, m := range memberships {
		groupMembers, err := h.loadMembers(m.GroupID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch groups"})
			return
		}
		resp[i] = h.groupToResponse(m.Group, groupMembers)
	}

	c.JSON(http.StatusOK, resp)
}

// Create creates a new group with the current user as creator and sole member
// @Summary Create a group
// @Description Create a new group; the current user becomes creator and sole member
// @Tags groups
// @Accept json
// @Produce json
// @Param request body CreateGroupRequest true "Group details"
// @Success 201 {object} GroupResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]string "Code already in use"
// @Security BearerAuth
// @Router /groups [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	code := req.Code
	if code == "" {
		code = h.generateCode()
	} else {
		var existing models.Group
		if err := h.db.Where("code = ?", code).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"message": "Group code already in use"})
			return
		}
	}

	// Read the user record back so the member list reflects stored data
	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	var group models.Group
	var membership models.GroupMembership
	err := h.db.Transaction(func(tx *gorm.DB) error {
		group = models.Group{
			Name:        req.Name,
			Description: req.Description,
			Code:        code,
			CreatedByID: user.ID,
		}
		if err := tx.Create(&group).Error; err != nil {
			return err
		}

		membership = models.GroupMembership{
			UserID:  user.ID,
			GroupID: group.ID,
		}
		return tx.Create(&membership).Error
	})

	if err != nil {
		// The unique index on code catches creation races
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"message": "Group code already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create group"})
		return
	}

	membership.User = user
	c.JSON(http.StatusCreated, h.groupToResponse(group, []models.GroupMembership{membership}))
}

// Join adds the current user to the group matching name and code
// @Summary Join a group
// @Description Join a group by exact name and join code
// @Tags groups
// @Accept json
// @Produce json
// @Param request body JoinGroupRequest true "Group name and code"
// @Success 200 {object} map[string]string "Joined group"
// @Failure 404 {object} map[string]string "Group not found"
// @Failure 409 {object} map[string]string "Already a member"
// @Security BearerAuth
// @Router /groups/join [post]
func (h *Handler) Join(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	// Name and code must both match exactly
	var group models.Group
	if err := h.db.Where("name = ? AND code = ?", req.Name, req.Code).First(&group).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Group not found"})
		return
	}

	var existing models.GroupMembership
	if err := h.db.Where("user_id = ? AND group_id = ?", userID, group.ID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Already a member of this group"})
		return
	}

	membership := models.GroupMembership{
		UserID:  userID,
		GroupID: group.ID,
	}
	if err := h.db.Create(&membership).Error; err != nil {
		// The unique index on (user, group) catches join races
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"message": "Already a member of this group"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to join group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Joined group successfully"})
}

// Get returns a group with its expenses and the current user's profile
// @Summary Get group detail
// @Description Get a group, its expenses, and the current user. Membership required.
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} GroupDetailResponse
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid group ID"})
		return
	}

	// Membership gate: a group the user cannot see reads as absent
	var membership models.GroupMembership
	if err := h.db.Where("user_id = ? AND group_id = ?", userID, groupID).First(&membership).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Group not found or access denied"})
		return
	}

	var group models.Group
	if err := h.db.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Group not found or access denied"})
		return
	}

	memberships, err := h.loadMembers(group.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch group"})
		return
	}

	// All expenses scoped to the group, including those left behind by
	// former members
	var records []models.Expense
	if err := h.db.Where("group_id = ?", group.ID).Order("date DESC, id ASC").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch group expenses"})
		return
	}
	groupExpenses := make([]expenses.ExpenseResponse, len(records))
	for i, e := range records {
		groupExpenses[i] = expenses.ToResponse(e)
	}

	username, _ := auth.GetUsername(c)
	c.JSON(http.StatusOK, GroupDetailResponse{
		GroupResponse: h.groupToResponse(group, memberships),
		Expenses:      groupExpenses,
		CurrentUser: auth.UserResponse{
			ID:       userID,
			Username: username,
		},
	})
}

// Delete removes a group and all expenses attributed to it (creator only)
// @Summary Delete a group
// @Description Delete a group and every expense scoped to it. Creator only.
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} map[string]string "Group deleted"
// @Failure 403 {object} map[string]string "Only the creator can delete"
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid group ID"})
		return
	}

	var group models.Group
	if err := h.db.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Group not found"})
		return
	}

	if group.CreatedByID != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Only the group creator can delete it"})
		return
	}

	// Dependents first, one transaction: no orphaned group reference survives
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", group.ID).Delete(&models.Expense{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", group.ID).Delete(&models.GroupMembership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&group).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Group deleted successfully"})
}

// Leave removes the current user from a group along with their group expenses
// @Summary Leave a group
// @Description Leave a group; the member's expenses scoped to the group are deleted. The creator cannot leave.
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} map[string]string "Left group"
// @Failure 403 {object} map[string]string "Not a member or creator"
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id}/leave [post]
func (h *Handler) Leave(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid group ID"})
		return
	}

	var group models.Group
	if err := h.db.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Group not found"})
		return
	}

	var membership models.GroupMembership
	if err := h.db.Where("user_id = ? AND group_id = ?", userID, group.ID).First(&membership).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"message": "Not a member of this group"})
		return
	}

	if group.CreatedByID == userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "The creator cannot leave the group. Delete it instead."})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		// Only the departing member's expenses go; the rest stay visible
		if err := tx.Where("group_id = ? AND user_id = ?", group.ID, userID).Delete(&models.Expense{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&membership).Error; err != nil {
			return err
		}

		// Legacy behavior: a group with nobody left in it is removed outright
		var remaining int64
		if err := tx.Model(&models.GroupMembership{}).Where("group_id = ?", group.ID).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			if err := tx.Where("group_id = ?", group.ID).Delete(&models.Expense{}).Error; err != nil {
				return err
			}
			return tx.Delete(&group).Error
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to leave group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left group successfully"})
}

// RegisterRoutes registers group routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.POST("/join", h.Join)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/leave", h.Leave)
	rg.GET("/:id/stats", h.Stats)
	rg.GET("/:id/leaderboard", h.Leaderboard)
}
