package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tallyup/tallyup/internal/models"
	"github.com/tallyup/tallyup/internal/storage"
)

// GroupService handles group and receipt CRUD.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// RegisterRoutes adds the group and receipt-collection endpoints to r. The
// split calculation endpoints share the same /groups subtree, so routes are
// registered onto a caller-owned router instead of mounted.
func (s *GroupService) RegisterRoutes(r chi.Router) {
	r.Post("/", s.handleCreateGroup)
	r.Get("/", s.handleListGroups)
	r.Get("/{groupID}", s.handleGetGroup)
	r.Put("/{groupID}", s.handleUpdateGroup)
	r.Delete("/{groupID}", s.handleDeleteGroup)
	r.Post("/{groupID}/receipts", s.handleCreateReceipt)
	r.Get("/{groupID}/receipts", s.handleListReceipts)
}

// RegisterReceiptRoutes adds the endpoints addressing receipts directly.
func (s *GroupService) RegisterReceiptRoutes(r chi.Router) {
	r.Get("/{receiptID}", s.handleGetReceipt)
	r.Put("/{receiptID}", s.handleUpdateReceipt)
	r.Delete("/{receiptID}", s.handleDeleteReceipt)
}

type groupRequest struct {
	Name    string               `json:"name"`
	Members []models.Participant `json:"members"`
}

func (s *GroupService) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, errors.New("group name is required"))
		return
	}

	group := &models.Group{Name: req.Name, Members: req.Members}
	if err := s.store.CreateGroup(r.Context(), group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	slog.Info("group created", "group_id", group.ID, "members", len(group.Members))
	writeJSON(w, http.StatusCreated, group)
}

func (s *GroupService) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.store.ListGroups(r.Context())
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *GroupService) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.store.GetGroup(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (s *GroupService) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	group := &models.Group{ID: chi.URLParam(r, "groupID"), Name: req.Name, Members: req.Members}
	if err := s.store.UpdateGroup(r.Context(), group); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (s *GroupService) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteGroup(r.Context(), chi.URLParam(r, "groupID")); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *GroupService) handleCreateReceipt(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	var receipt models.Receipt
	if err := decodeJSON(r, &receipt); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	receipt.ID = ""
	receipt.GroupID = groupID

	if err := s.validateReceipt(&receipt); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	if err := s.store.CreateReceipt(r.Context(), &receipt); err != nil {
		slog.Error("CreateReceipt failed", "group_id", groupID, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.autoAddParticipants(r.Context(), groupID, &receipt)
	slog.Info("receipt created", "receipt_id", receipt.ID, "group_id", groupID, "items", len(receipt.Items))
	writeJSON(w, http.StatusCreated, receipt)
}

func (s *GroupService) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := s.store.ListReceiptsByGroup(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		slog.Error("ListReceipts failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, receipts)
}

func (s *GroupService) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.store.GetReceipt(r.Context(), chi.URLParam(r, "receiptID"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (s *GroupService) handleUpdateReceipt(w http.ResponseWriter, r *http.Request) {
	receiptID := chi.URLParam(r, "receiptID")
	existing, err := s.store.GetReceipt(r.Context(), receiptID)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	var receipt models.Receipt
	if err := decodeJSON(r, &receipt); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	receipt.ID = receiptID
	receipt.GroupID = existing.GroupID

	if err := s.validateReceipt(&receipt); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	if err := s.store.UpdateReceipt(r.Context(), &receipt); err != nil {
		slog.Error("UpdateReceipt failed", "receipt_id", receiptID, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.autoAddParticipants(r.Context(), receipt.GroupID, &receipt)
	writeJSON(w, http.StatusOK, receipt)
}

func (s *GroupService) handleDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteReceipt(r.Context(), chi.URLParam(r, "receiptID")); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validateReceipt rejects receipts the engine could never aggregate: items
// need a positive quantity, and every line needs at least one participant
// unless its category makes it a special line.
func (s *GroupService) validateReceipt(receipt *models.Receipt) error {
	for i := range receipt.Items {
		item := &receipt.Items[i]
		if item.Quantity <= 0 {
			return fmt.Errorf("item %q: quantity must be positive", item.Name)
		}
	}
	return nil
}

// autoAddParticipants adds the payer and every assigned participant to the
// group so later receipts can reuse them. Failures are logged, not fatal:
// the receipt is already saved.
func (s *GroupService) autoAddParticipants(ctx context.Context, groupID string, receipt *models.Receipt) {
	if groupID == "" {
		return
	}

	seen := make(map[string]bool)
	var members []models.Participant
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		members = append(members, models.Participant{ID: id, DisplayName: id})
	}
	add(receipt.PayerID)
	for _, item := range receipt.Items {
		for _, id := range item.Assignment.ParticipantIDs() {
			add(id)
		}
	}
	if len(members) == 0 {
		return
	}

	if err := s.store.AddGroupMembers(ctx, groupID, members); err != nil {
		slog.Warn("autoAddParticipants failed", "group_id", groupID, "error", err)
	}
}
