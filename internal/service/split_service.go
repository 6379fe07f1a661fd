package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyup/tallyup/internal/engine"
	"github.com/tallyup/tallyup/internal/middleware"
	"github.com/tallyup/tallyup/internal/models"
	"github.com/tallyup/tallyup/internal/obs"
	"github.com/tallyup/tallyup/internal/storage"
)

// SplitService exposes the calculation engine: ad-hoc snapshot calculation,
// split-mode conversion for editors, and per-group summaries, settlement
// plans and recorded settlements.
type SplitService struct {
	store   storage.Store
	metrics *obs.Metrics
}

// NewSplitService creates a new SplitService.
func NewSplitService(store storage.Store, metrics *obs.Metrics) *SplitService {
	return &SplitService{store: store, metrics: metrics}
}

// RegisterRoutes adds the snapshot-level endpoints to r.
func (s *SplitService) RegisterRoutes(r chi.Router) {
	r.Post("/calculate", s.handleCalculate)
	r.Post("/split/convert", s.handleConvert)
	r.Post("/split/check", s.handleCheck)
}

// RegisterGroupRoutes adds the group-scoped calculation endpoints to r,
// which is expected to be the same /groups subtree the CRUD routes live on.
func (s *SplitService) RegisterGroupRoutes(r chi.Router) {
	r.Get("/{groupID}/summary", s.handleGroupSummary)
	r.Get("/{groupID}/settle", s.handleGroupSettle)
	r.Post("/{groupID}/settlements", s.handleCreateSettlement)
	r.Get("/{groupID}/settlements", s.handleListSettlements)
}

type calculateRequest struct {
	Participants []models.Participant `json:"participants"`
	Items        []models.LineItem    `json:"items,omitempty"`
	Receipts     []models.Receipt     `json:"receipts,omitempty"`
	Settlements  []models.Settlement  `json:"settlements,omitempty"`
}

type calculateResponse struct {
	Summary      models.Summary       `json:"summary"`
	Transactions []models.Transaction `json:"transactions"`
}

func (s *SplitService) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	snap := engine.Snapshot{
		Participants: req.Participants,
		Items:        req.Items,
		Receipts:     req.Receipts,
		Settlements:  req.Settlements,
	}
	resp, err := s.calculate(snap)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// calculate runs one engine pass and derives the settlement plan.
func (s *SplitService) calculate(snap engine.Snapshot) (*calculateResponse, error) {
	summary, err := engine.Aggregate(snap)
	s.metrics.ObserveCalculation(err)
	if err != nil {
		slog.Warn("calculation rejected", "error", err)
		return nil, err
	}
	return &calculateResponse{
		Summary:      summary,
		Transactions: engine.Settle(summary.Balances),
	}, nil
}

type convertRequest struct {
	Values       map[string]float64 `json:"values"`
	FromMode     models.SplitMode   `json:"from_mode"`
	ToMode       models.SplitMode   `json:"to_mode"`
	Total        float64            `json:"total"`
	Participants []string           `json:"participants,omitempty"`
}

type convertResponse struct {
	Values map[string]float64 `json:"values"`
	Mode   models.SplitMode   `json:"mode"`
}

func (s *SplitService) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	values, err := engine.Convert(req.Values, req.FromMode, req.ToMode, req.Total, req.Participants)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, convertResponse{Values: values, Mode: req.ToMode})
}

type checkRequest struct {
	LiveTotal float64 `json:"live_total"`
	ItemTotal float64 `json:"item_total"`
}

type checkResponse struct {
	Valid bool `json:"valid"`
}

// handleCheck lets editors validate a running split total before saving.
// A failing check is expected to disable the save action client-side.
func (s *SplitService) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, checkResponse{Valid: engine.ValidateTotal(req.LiveTotal, req.ItemTotal)})
}

func (s *SplitService) handleGroupSummary(w http.ResponseWriter, r *http.Request) {
	resp, status, err := s.calculateGroup(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Summary)
}

func (s *SplitService) handleGroupSettle(w http.ResponseWriter, r *http.Request) {
	resp, status, err := s.calculateGroup(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Transaction{"transactions": resp.Transactions})
}

// calculateGroup loads a group's snapshot from storage and runs the engine.
func (s *SplitService) calculateGroup(ctx context.Context, groupID string) (*calculateResponse, int, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, http.StatusNotFound, err
	}
	receipts, err := s.store.ListReceiptsByGroup(ctx, groupID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	snap := engine.Snapshot{Participants: group.Members}
	for _, r := range receipts {
		snap.Receipts = append(snap.Receipts, *r)
	}
	for _, st := range settlements {
		snap.Settlements = append(snap.Settlements, *st)
	}

	resp, err := s.calculate(snap)
	if err != nil {
		return nil, http.StatusUnprocessableEntity, err
	}
	return resp, http.StatusOK, nil
}

type settlementRequest struct {
	FromParticipantID string  `json:"from_participant_id"`
	ToParticipantID   string  `json:"to_participant_id"`
	Amount            float64 `json:"amount"`
	Note              string  `json:"note,omitempty"`
}

func (s *SplitService) handleCreateSettlement(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	var req settlementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusUnprocessableEntity, errors.New("settlement amount must be positive"))
		return
	}
	if req.FromParticipantID == "" || req.ToParticipantID == "" || req.FromParticipantID == req.ToParticipantID {
		writeError(w, http.StatusUnprocessableEntity, errors.New("settlement needs two distinct participants"))
		return
	}

	group, err := s.store.GetGroup(r.Context(), groupID)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	members := make(map[string]bool, len(group.Members))
	for _, m := range group.Members {
		members[m.ID] = true
	}
	if !members[req.FromParticipantID] || !members[req.ToParticipantID] {
		writeError(w, http.StatusUnprocessableEntity, errors.New("both participants must be group members"))
		return
	}

	settlement := &models.Settlement{
		GroupID:           groupID,
		FromParticipantID: req.FromParticipantID,
		ToParticipantID:   req.ToParticipantID,
		Amount:            req.Amount,
		CreatedBy:         middleware.GetUserID(r.Context()),
		Note:              req.Note,
	}
	if err := s.store.CreateSettlement(r.Context(), settlement); err != nil {
		slog.Error("CreateSettlement failed", "group_id", groupID, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	slog.Info("settlement recorded", "group_id", groupID,
		"from", settlement.FromParticipantID, "to", settlement.ToParticipantID, "amount", settlement.Amount)
	writeJSON(w, http.StatusCreated, settlement)
}

func (s *SplitService) handleListSettlements(w http.ResponseWriter, r *http.Request) {
	settlements, err := s.store.ListSettlementsByGroup(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, settlements)
}
