package http

import (
	"encoding/json"
	"net/http"

	"divvy/internal/core"
)

type createExpenseRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Amount      json.Number  `json:"amount"`
	Category    string       `json:"category"`
	Date        string       `json:"date"`
	PayerID     string       `json:"payerId"`
	GroupID     string       `json:"groupId"`
	Splits      []core.Split `json:"splits"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, core.Categories)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	amount, err := core.ParseAmount(req.Amount.String())
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid date, want RFC 3339 or YYYY-MM-DD")
		return
	}

	splits := req.Splits
	if len(splits) == 0 {
		// Omitted splits mean an equal split across the group.
		group, ok := s.groups.GetGroup(req.GroupID)
		if !ok {
			respondError(w, http.StatusNotFound, "group not found")
			return
		}
		splits = core.EqualSplits(amount, group.Members)
	}

	expense := core.Expense{
		Title:       req.Title,
		Description: req.Description,
		Amount:      amount,
		Category:    req.Category,
		Date:        date,
		PayerID:     req.PayerID,
		GroupID:     req.GroupID,
		Splits:      splits,
	}

	if s.strict {
		group, ok := s.groups.GetGroup(req.GroupID)
		if !ok {
			respondError(w, http.StatusNotFound, "group not found")
			return
		}
		if err := core.CheckSplitsTotal(expense); err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := core.CheckMembership(expense, group); err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	created, err := s.expenses.AddExpense(r.Context(), expense)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var patch core.ExpensePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := s.expenses.UpdateExpense(r.Context(), r.PathValue("id"), patch); err != nil {
		respondStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.DeleteExpense(r.Context(), r.PathValue("id")); err != nil {
		respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
