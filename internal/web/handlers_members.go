package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/koshanqari/kanYini-connect-sub000/internal/logging"
	"github.com/koshanqari/kanYini-connect-sub000/internal/model"
	"github.com/koshanqari/kanYini-connect-sub000/internal/store"
	mw "github.com/koshanqari/kanYini-connect-sub000/internal/web/middleware"
)

type memberListResponse struct {
	Members  []model.User `json:"members"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// handleListMembers returns a paginated directory listing, optionally
// filtered by a search query over name and email.
func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	members, total, err := s.stores.Users.List(r.Context(), store.ListUsersParams{
		Query:    q.Get("q"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	if members == nil {
		members = []model.User{}
	}

	writeJSON(w, http.StatusOK, memberListResponse{
		Members:  members,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// handleGetMember returns one account by ID.
func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	id, ok := s.memberID(w, r)
	if !ok {
		return
	}

	user, err := s.stores.Users.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type memberUpdateRequest struct {
	Name       *string `json:"name" validate:"omitempty,max=200"`
	Role       *string `json:"role" validate:"omitempty,oneof=user admin"`
	IsActive   *bool   `json:"is_active"`
	IsVerified *bool   `json:"is_verified"`
}

// handleUpdateMember edits account-level fields. Admin only.
func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	id, ok := s.memberID(w, r)
	if !ok {
		return
	}

	var req memberUpdateRequest
	if err := s.decodeValid(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	upd := store.UserUpdate{
		Name:       req.Name,
		IsActive:   req.IsActive,
		IsVerified: req.IsVerified,
	}
	if req.Role != nil {
		role := model.ParseRole(*req.Role)
		upd.Role = &role
	}

	user, err := s.stores.Users.Update(r.Context(), id, upd)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("member updated", "user_id", user.ID)
	writeJSON(w, http.StatusOK, user)
}

// handleDeleteMember removes an account and everything it owns. Admin only.
func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	id, ok := s.memberID(w, r)
	if !ok {
		return
	}

	actor, _ := mw.UserFromContext(r.Context())
	if actor.ID == id {
		respondErrorMsg(w, r, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	if err := s.stores.Users.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("member deleted",
		"user_id", id,
		"deleted_by", actor.ID,
	)
	w.WriteHeader(http.StatusNoContent)
}

// memberID parses the {memberID} route parameter.
func (s *Server) memberID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "memberID"))
	if err != nil {
		respondErrorMsg(w, r, http.StatusBadRequest, "invalid member ID")
		return uuid.Nil, false
	}
	return id, true
}

// canEditMember reports whether the actor may modify the given member's
// profile data: the member themselves, or any admin.
func canEditMember(r *http.Request, memberID uuid.UUID) bool {
	actor, ok := mw.UserFromContext(r.Context())
	if !ok {
		return false
	}
	return actor.ID == memberID || actor.Role == model.RoleAdmin
}
