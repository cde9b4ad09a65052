package http

import (
	"net/http"

	"divvy/internal/core"
)

type createGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	MemberIDs   []string `json:"memberIds"`
	CreatedBy   string   `json:"createdBy"`
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups := s.groups.ListGroups()
	if groups == nil {
		groups = []core.Group{}
	}
	respondJSON(w, http.StatusOK, groups)
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	creatorID := req.CreatedBy
	if creatorID == "" {
		current, ok := s.users.CurrentUser()
		if !ok {
			respondError(w, http.StatusUnprocessableEntity, "createdBy required when no current user is set")
			return
		}
		creatorID = current.ID
	}
	creator, ok := s.users.GetUserByID(creatorID)
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "creator must be an existing user")
		return
	}

	// The creator is always a member. Unknown member ids are dropped.
	members := []core.User{creator}
	for _, id := range req.MemberIDs {
		if id == creator.ID {
			continue
		}
		if u, ok := s.users.GetUserByID(id); ok {
			members = append(members, u)
		}
	}

	group, err := s.groups.AddGroup(r.Context(), req.Name, req.Description, members, creator.ID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, group)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, ok := s.groups.GetGroup(r.PathValue("id"))
	if !ok {
		respondError(w, http.StatusNotFound, "group not found")
		return
	}
	respondJSON(w, http.StatusOK, group)
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	var patch core.GroupPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := s.groups.UpdateGroup(r.Context(), r.PathValue("id"), patch); err != nil {
		respondStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.groups.DeleteGroup(r.Context(), r.PathValue("id")); err != nil {
		respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addMemberRequest struct {
	UserID string `json:"userId"`
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user, ok := s.users.GetUserByID(req.UserID)
	if !ok {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := s.groups.AddMember(r.Context(), r.PathValue("id"), user); err != nil {
		respondStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	if err := s.groups.RemoveMember(r.Context(), r.PathValue("id"), r.PathValue("userId")); err != nil {
		respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGroupExpenses(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	if _, ok := s.groups.GetGroup(groupID); !ok {
		respondError(w, http.StatusNotFound, "group not found")
		return
	}

	expenses := s.expenses.GetExpensesByGroup(groupID)
	if expenses == nil {
		expenses = []core.Expense{}
	}
	respondJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleGroupBalances(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	if _, ok := s.groups.GetGroup(groupID); !ok {
		respondError(w, http.StatusNotFound, "group not found")
		return
	}

	balances := s.expenses.CalculateBalances(groupID)
	if balances == nil {
		balances = []core.Balance{}
	}
	// Full precision lives in the ledger, rounding happens only here.
	for i := range balances {
		balances[i].Amount = core.RoundDisplay(balances[i].Amount)
	}
	respondJSON(w, http.StatusOK, balances)
}
