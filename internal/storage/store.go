// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/tallyup/tallyup/internal/models"
)

// Store defines the interface for Tallyup's storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// The store persists input models only; balances and settlement plans are
// derived by the engine on demand and never written back.
type Store interface {
	// CreateUser persists a new user account. The user.ID field will be
	// populated by the store.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateGroup persists a new group with its members. The group.ID field
	// and member IDs will be populated by the store where missing.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID with members in stable order.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves all groups.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// UpdateGroup replaces a group's name and membership.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group and its receipts and settlements.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddGroupMembers appends participants not already in the group,
	// preserving existing member order.
	AddGroupMembers(ctx context.Context, groupID string, members []models.Participant) error

	// CreateReceipt persists a new receipt with its items and assignments.
	CreateReceipt(ctx context.Context, receipt *models.Receipt) error

	// GetReceipt retrieves a receipt by ID, including items and assignments.
	GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error)

	// ListReceiptsByGroup retrieves all receipts for a group, oldest first.
	ListReceiptsByGroup(ctx context.Context, groupID string) ([]*models.Receipt, error)

	// UpdateReceipt replaces an existing receipt and its items.
	UpdateReceipt(ctx context.Context, receipt *models.Receipt) error

	// DeleteReceipt removes a receipt and its items.
	DeleteReceipt(ctx context.Context, receiptID string) error

	// CreateSettlement records a settling payment.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlementsByGroup retrieves all recorded settlements for a group,
	// oldest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// Close releases any resources held by the store.
	Close() error
}
