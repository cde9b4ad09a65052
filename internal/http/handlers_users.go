package http

import (
	"net/http"

	"divvy/internal/core"
)

type createUserRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users := s.users.ListUsers()
	if users == nil {
		users = []core.User{}
	}
	respondJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user, err := s.users.AddUser(r.Context(), req.Name, req.Email, req.Avatar)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.users.GetUserByID(r.PathValue("id"))
	if !ok {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var patch core.UserPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := s.users.UpdateUser(r.Context(), r.PathValue("id"), patch); err != nil {
		respondStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type putSessionRequest struct {
	UserID string `json:"userId"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	user, ok := s.users.CurrentUser()
	if !ok {
		respondError(w, http.StatusNotFound, "no current user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handlePutSession(w http.ResponseWriter, r *http.Request) {
	var req putSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user, ok := s.users.GetUserByID(req.UserID)
	if !ok {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := s.users.SetCurrentUser(r.Context(), &user); err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.users.SetCurrentUser(r.Context(), nil); err != nil {
		respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
