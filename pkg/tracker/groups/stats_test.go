package groups

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"testing"
	"time"

	"alcoltracker/pkg/tracker/models"
)

func TestGroupStats(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	group := createTestGroup(t, db, "Trip", "XYZ", alice, bob)

	createTestExpense(t, db, alice, &group.ID, models.ExpenseTypeBeer, 5.50, 0.5, time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC))
	createTestExpense(t, db, bob, &group.ID, models.ExpenseTypeWine, 12, 0.75, time.Date(2025, 4, 1, 21, 0, 0, 0, time.UTC))
	// Outside the requested month
	createTestExpense(t, db, bob, &group.ID, models.ExpenseTypeBeer, 99, 3, time.Date(2024, 3, 1, 21, 0, 0, 0, time.UTC))

	resp := doRequest(router, "GET", fmt.Sprintf("/groups/%d/stats?period=2025-03", group.ID), nil, alice)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body GroupStatsResponse
	json.Unmarshal(resp.Body.Bytes(), &body)

	if body.Period != "2025-03" {
		t.Errorf("Expected period 2025-03, got %s", body.Period)
	}
	if math.Abs(body.TotalAmount-5.50) > 1e-9 {
		t.Errorf("Expected totalAmount 5.50, got %v", body.TotalAmount)
	}
	if math.Abs(body.TotalQuantity-0.5) > 1e-9 {
		t.Errorf("Expected totalQuantity 0.5, got %v", body.TotalQuantity)
	}
	// Breakdown is zero-filled for every category
	if len(body.ByType) != 4 {
		t.Errorf("Expected 4 categories, got %d", len(body.ByType))
	}
	if wine := body.ByType["wine"]; wine.Amount != 0 {
		t.Errorf("Expected wine zeroed for 2025-03, got %+v", wine)
	}
}

func TestGroupStatsYearPeriod(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	alice := createTestUser(t, db, "alice")
	group := createTestGroup(t, db, "Trip", "XYZ", alice)

	createTestExpense(t, db, alice, &group.ID, models.ExpenseTypeBeer, 5, 0.5, time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC))
	createTestExpense(t, db, alice, &group.ID, models.ExpenseTypeBeer, 7, 0.5, time.Date(2025, 11, 2, 20, 0, 0, 0, time.UTC))
	createTestExpense(t, db, alice, &group.ID, models.ExpenseTypeBeer, 99, 3, time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC))

	resp := doRequest(router, "GET", fmt.Sprintf("/groups/%d/stats?period=2025", group.ID), nil, alice)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body GroupStatsResponse
	json.Unmarshal(resp.Body.Bytes(), &body)
	if math.Abs(body.TotalAmount-12) > 1e-9 {
		t.Errorf("Expected totalAmount 12, got %v", body.TotalAmount)
	}
}

func TestGroupStatsInvalidPeriod(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	alice := createTestUser(t, db, "alice")
	group := createTestGroup(t, db, "Trip", "XYZ", alice)

	resp := doRequest(router, "GET", fmt.Sprintf("/groups/%d/stats?period=nope", group.ID), nil, alice)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestGroupStatsNonMember(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	alice := createTestUser(t, db, "alice")
	mallory := createTestUser(t, db, "mallory")
	group := createTestGroup(t, db, "Trip", "XYZ", alice)

	resp := doRequest(router, "GET", fmt.Sprintf("/groups/%d/stats", group.ID), nil, mallory)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestGroupLeaderboard(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")
	group := createTestGroup(t, db, "Trip", "XYZ", alice, bob, carol)

	now := time.Now()
	createTestExpense(t, db, alice, &group.ID, models.ExpenseTypeWine, 10, 0.75, now)
	createTestExpense(t, db, bob, &group.ID, models.ExpenseTypeWine, 20, 1.5, now)
	// carol logged beer only; she must still appear, zeroed
	createTestExpense(t, db, carol, &group.ID, models.ExpenseTypeBeer, 50, 2, now)

	resp := doRequest(router, "GET", fmt.Sprintf("/groups/%d/leaderboard?type=wine", group.ID), nil, alice)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body LeaderboardResponse
	json.Unmarshal(resp.Body.Bytes(), &body)

	if body.Type != "wine" {
		t.Errorf("Expected type wine, got %s", body.Type)
	}
	if len(body.Leaderboard) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(body.Leaderboard))
	}
	if body.Leaderboard[0].Username != "bob" || body.Leaderboard[0].Rank != 1 {
		t.Errorf("First entry = %+v, want bob rank 1", body.Leaderboard[0])
	}
	if body.Leaderboard[1].Username != "alice" || body.Leaderboard[1].Rank != 2 {
		t.Errorf("Second entry = %+v, want alice rank 2", body.Leaderboard[1])
	}
	if body.Leaderboard[2].Username != "carol" || body.Leaderboard[2].Amount != 0 {
		t.Errorf("Third entry = %+v, want carol with zero amount", body.Leaderboard[2])
	}
}

func TestGroupLeaderboardInvalidType(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	alice := createTestUser(t, db, "alice")
	group := createTestGroup(t, db, "Trip", "XYZ", alice)

	resp := doRequest(router, "GET", fmt.Sprintf("/groups/%d/leaderboard?type=grappa", group.ID), nil, alice)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d: %s", resp.Code, resp.Body.String())
	}
}
