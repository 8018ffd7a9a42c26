package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/koshanqari/kanYini-connect-sub000/internal/model"
)

// handleGetProfile returns a member's directory profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.memberID(w, r)
	if !ok {
		return
	}

	profile, err := s.stores.Profiles.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type profileUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=200"`
	Phone    *string `json:"phone" validate:"omitempty,max=40"`
	Headline *string `json:"headline" validate:"omitempty,max=200"`
	Bio      *string `json:"bio" validate:"omitempty,max=4000"`
	Location *string `json:"location" validate:"omitempty,max=200"`
}

// handleUpdateProfile edits a member's profile. Owner or admin.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.memberID(w, r)
	if !ok {
		return
	}
	if !canEditMember(r, id) {
		respondErrorMsg(w, r, http.StatusForbidden, "you can only edit your own profile")
		return
	}

	var req profileUpdateRequest
	if err := s.decodeValid(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	profile, err := s.stores.Profiles.Update(r.Context(), id, model.ProfileUpdate{
		Name:     req.Name,
		Phone:    req.Phone,
		Headline: req.Headline,
		Bio:      req.Bio,
		Location: req.Location,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// ----------------------------------------------------------------------------
// Experiences
// ----------------------------------------------------------------------------

type experienceRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Company     string     `json:"company" validate:"required,max=200"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	IsCurrent   bool       `json:"is_current"`
	Description string     `json:"description" validate:"max=4000"`
}

func (req *experienceRequest) toModel() model.NewExperience {
	return model.NewExperience{
		Title:       req.Title,
		Company:     req.Company,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsCurrent:   req.IsCurrent,
		Description: req.Description,
	}
}

func (s *Server) handleListExperiences(w http.ResponseWriter, r *http.Request) {
	id, ok := s.memberID(w, r)
	if !ok {
		return
	}

	entries, err := s.stores.Experiences.ListByUser(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if entries == nil {
		entries = []model.Experience{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := s.memberID(w, r)
	if !ok {
		return
	}
	if !canEditMember(r, id) {
		respondErrorMsg(w, r, http.StatusForbidden, "you can only edit your own profile")
		return
	}

	var req experienceRequest
	if err := s.decodeValid(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	entry, err := s.stores.Experiences.Create(r.Context(), id, req.toModel())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleUpdateExperience(w http.ResponseWriter, r *http.Request) {
	id, entryID, ok := s.memberEntryIDs(w, r)
	if !ok {
		return
	}
	if !canEditMember(r, id) {
		respondErrorMsg(w, r, http.StatusForbidden, "you can only edit your own profile")
		return
	}

	var req experienceRequest
	if err := s.decodeValid(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	entry, err := s.stores.Experiences.Update(r.Context(), id, entryID, req.toModel())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteExperience(w http.ResponseWriter, r *http.Request) {
	id, entryID, ok := s.memberEntryIDs(w, r)
	if !ok {
		return
	}
	if !canEditMember(r, id) {
		respondErrorMsg(w, r, http.StatusForbidden, "you can only edit your own profile")
		return
	}

	if err := s.stores.Experiences.Delete(r.Context(), id, entryID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ----------------------------------------------------------------------------
// Education
// ----------------------------------------------------------------------------

type educationRequest struct {
	School      string     `json:"school" validate:"max=200"`
	Course      string     `json:"course" validate:"max=200"`
	Degree      string     `json:"degree" validate:"max=200"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	IsPresent   bool       `json:"is_present"`
	Description string     `json:"description" validate:"max=4000"`
}

func (req *educationRequest) toModel() model.NewEducation {
	return model.NewEducation{
		School:      req.School,
		Course:      req.Course,
		Degree:      req.Degree,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsPresent:   req.IsPresent,
		Description: req.Description,
	}
}

// An education entry needs at least one of school, course, or degree, same
// as rows in the bulk import.
func (req *educationRequest) empty() bool {
	return req.School == "" && req.Course == "" && req.Degree == ""
}

func (s *Server) handleListEducation(w http.ResponseWriter, r *http.Request) {
	id, ok := s.memberID(w, r)
	if !ok {
		return
	}

	entries, err := s.stores.Education.ListByUser(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if entries == nil {
		entries = []model.Education{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateEducation(w http.ResponseWriter, r *http.Request) {
	id, ok := s.memberID(w, r)
	if !ok {
		return
	}
	if !canEditMember(r, id) {
		respondErrorMsg(w, r, http.StatusForbidden, "you can only edit your own profile")
		return
	}

	var req educationRequest
	if err := s.decodeValid(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.empty() {
		respondErrorMsg(w, r, http.StatusBadRequest, "school, course, or degree is required")
		return
	}

	entry, err := s.stores.Education.Create(r.Context(), id, req.toModel())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleUpdateEducation(w http.ResponseWriter, r *http.Request) {
	id, entryID, ok := s.memberEntryIDs(w, r)
	if !ok {
		return
	}
	if !canEditMember(r, id) {
		respondErrorMsg(w, r, http.StatusForbidden, "you can only edit your own profile")
		return
	}

	var req educationRequest
	if err := s.decodeValid(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.empty() {
		respondErrorMsg(w, r, http.StatusBadRequest, "school, course, or degree is required")
		return
	}

	entry, err := s.stores.Education.Update(r.Context(), id, entryID, req.toModel())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteEducation(w http.ResponseWriter, r *http.Request) {
	id, entryID, ok := s.memberEntryIDs(w, r)
	if !ok {
		return
	}
	if !canEditMember(r, id) {
		respondErrorMsg(w, r, http.StatusForbidden, "you can only edit your own profile")
		return
	}

	if err := s.stores.Education.Delete(r.Context(), id, entryID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ----------------------------------------------------------------------------
// Skills
// ----------------------------------------------------------------------------

type skillRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	id, ok := s.memberID(w, r)
	if !ok {
		return
	}

	skills, err := s.stores.Skills.ListByUser(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if skills == nil {
		skills = []model.Skill{}
	}
	writeJSON(w, http.StatusOK, skills)
}

func (s *Server) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := s.memberID(w, r)
	if !ok {
		return
	}
	if !canEditMember(r, id) {
		respondErrorMsg(w, r, http.StatusForbidden, "you can only edit your own profile")
		return
	}

	var req skillRequest
	if err := s.decodeValid(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	skill, err := s.stores.Skills.Add(r.Context(), id, req.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, skill)
}

func (s *Server) handleRemoveSkill(w http.ResponseWriter, r *http.Request) {
	id, entryID, ok := s.memberEntryIDs(w, r)
	if !ok {
		return
	}
	if !canEditMember(r, id) {
		respondErrorMsg(w, r, http.StatusForbidden, "you can only edit your own profile")
		return
	}

	if err := s.stores.Skills.Remove(r.Context(), id, entryID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// memberEntryIDs parses the {memberID} and {entryID} route parameters.
func (s *Server) memberEntryIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	memberID, ok := s.memberID(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		respondErrorMsg(w, r, http.StatusBadRequest, "invalid entry ID")
		return uuid.Nil, uuid.Nil, false
	}
	return memberID, entryID, true
}
