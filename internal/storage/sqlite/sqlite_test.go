package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyup/tallyup/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGroupRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name: "Roommates",
		Members: []models.Participant{
			{DisplayName: "Carol"},
			{DisplayName: "Alice"},
			{DisplayName: "Bob"},
		},
	}
	require.NoError(t, store.CreateGroup(ctx, group))
	require.NotEmpty(t, group.ID)
	require.NotZero(t, group.CreatedAt)

	got, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, "Roommates", got.Name)

	// Member order must survive persistence; the engine's tie-breaking and
	// output ordering depend on it.
	require.Len(t, got.Members, 3)
	names := []string{got.Members[0].DisplayName, got.Members[1].DisplayName, got.Members[2].DisplayName}
	assert.Equal(t, []string{"Carol", "Alice", "Bob"}, names)
}

func TestAddGroupMembersSkipsExisting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name:    "Trip",
		Members: []models.Participant{{ID: "p1", DisplayName: "Alice"}},
	}
	require.NoError(t, store.CreateGroup(ctx, group))

	err := store.AddGroupMembers(ctx, group.ID, []models.Participant{
		{ID: "p1", DisplayName: "Alice"},
		{ID: "p2", DisplayName: "Bob"},
	})
	require.NoError(t, err)

	got, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, got.Members, 2)
	assert.Equal(t, "p1", got.Members[0].ID)
	assert.Equal(t, "p2", got.Members[1].ID)
}

func TestReceiptRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name: "Dinner club",
		Members: []models.Participant{
			{ID: "alice", DisplayName: "Alice"},
			{ID: "bob", DisplayName: "Bob"},
		},
	}
	require.NoError(t, store.CreateGroup(ctx, group))

	receipt := &models.Receipt{
		GroupID:      group.ID,
		Title:        "Friday dinner",
		TaxAmount:    2.16,
		TipAmount:    5.00,
		PayerID:      "alice",
		ScannedTotal: 34.16,
		Items: []models.LineItem{
			{
				Name: "Pasta", Quantity: 2, UnitPrice: 11.00,
				Assignment: models.Assignment{Mode: models.SplitEqual, Participants: []string{"alice", "bob"}},
			},
			{
				Name: "Wine", Quantity: 1, UnitPrice: 5.00,
				Assignment: models.Assignment{
					Mode:   models.SplitPercent,
					Values: map[string]float64{"alice": 60, "bob": 40},
				},
			},
			{
				Name: "Sales tax", Quantity: 1, UnitPrice: 2.16, CategoryID: models.CategoryTax,
			},
		},
	}
	require.NoError(t, store.CreateReceipt(ctx, receipt))

	got, err := store.GetReceipt(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Friday dinner", got.Title)
	assert.Equal(t, "alice", got.PayerID)
	assert.InDelta(t, 34.16, got.ScannedTotal, 0.001)
	require.Len(t, got.Items, 3)

	var pasta, wine models.LineItem
	for _, it := range got.Items {
		switch it.Name {
		case "Pasta":
			pasta = it
		case "Wine":
			wine = it
		}
	}
	assert.Equal(t, models.SplitEqual, pasta.Assignment.Mode)
	assert.ElementsMatch(t, []string{"alice", "bob"}, pasta.Assignment.Participants)
	assert.Equal(t, models.SplitPercent, wine.Assignment.Mode)
	assert.InDelta(t, 60, wine.Assignment.Values["alice"], 0.001)
	assert.InDelta(t, 40, wine.Assignment.Values["bob"], 0.001)

	listed, err := store.ListReceiptsByGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestUpdateReceiptReplacesItems(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	receipt := &models.Receipt{
		Title: "Corner shop",
		Items: []models.LineItem{
			{Name: "Milk", Quantity: 1, UnitPrice: 1.20,
				Assignment: models.Assignment{Mode: models.SplitEqual, Participants: []string{"alice"}}},
		},
	}
	require.NoError(t, store.CreateReceipt(ctx, receipt))

	receipt.Items = []models.LineItem{
		{Name: "Milk", Quantity: 2, UnitPrice: 1.20,
			Assignment: models.Assignment{Mode: models.SplitEqual, Participants: []string{"alice", "bob"}}},
		{Name: "Bread", Quantity: 1, UnitPrice: 2.50,
			Assignment: models.Assignment{Mode: models.SplitEqual, Participants: []string{"bob"}}},
	}
	require.NoError(t, store.UpdateReceipt(ctx, receipt))

	got, err := store.GetReceipt(ctx, receipt.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)

	assert.Error(t, store.UpdateReceipt(ctx, &models.Receipt{ID: "missing", Title: "x"}))
}

func TestDeleteReceipt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	receipt := &models.Receipt{Title: "To be removed"}
	require.NoError(t, store.CreateReceipt(ctx, receipt))
	require.NoError(t, store.DeleteReceipt(ctx, receipt.ID))

	_, err := store.GetReceipt(ctx, receipt.ID)
	assert.Error(t, err)
	assert.Error(t, store.DeleteReceipt(ctx, receipt.ID))
}

func TestSettlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name: "Flat",
		Members: []models.Participant{
			{ID: "alice", DisplayName: "Alice"},
			{ID: "bob", DisplayName: "Bob"},
		},
	}
	require.NoError(t, store.CreateGroup(ctx, group))

	settlement := &models.Settlement{
		GroupID:           group.ID,
		FromParticipantID: "bob",
		ToParticipantID:   "alice",
		Amount:            12.50,
		Note:              "rent share",
	}
	require.NoError(t, store.CreateSettlement(ctx, settlement))
	require.NotEmpty(t, settlement.ID)

	listed, err := store.ListSettlementsByGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "bob", listed[0].FromParticipantID)
	assert.Equal(t, "alice", listed[0].ToParticipantID)
	assert.InDelta(t, 12.50, listed[0].Amount, 0.001)
	assert.Equal(t, "rent share", listed[0].Note)
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")
	require.NoError(t, store.CreateUser(ctx, user))
	require.NotEmpty(t, user.ID)

	byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.DisplayName)

	// Email is unique.
	dup := models.NewUser("alice@example.com", "Other", "hash2")
	assert.Error(t, store.CreateUser(ctx, dup))

	_, err = store.GetUserByEmail(ctx, "nobody@example.com")
	assert.Error(t, err)
}
