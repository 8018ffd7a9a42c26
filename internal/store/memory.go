package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/koshanqari/kanYini-connect-sub000/internal/model"
)

// NewMemory returns map-backed stores with the same contracts as the pgx
// implementations. All stores share one mutex, so cross-store reads during a
// write see a consistent picture.
func NewMemory() Stores {
	m := &memory{
		users:       map[uuid.UUID]model.User{},
		profiles:    map[uuid.UUID]model.Profile{},
		experiences: map[uuid.UUID]model.Experience{},
		education:   map[uuid.UUID]model.Education{},
		skills:      map[uuid.UUID]model.Skill{},
		sessions:    map[string]model.Session{},
	}
	return Stores{
		Users:       (*memUsers)(m),
		Profiles:    (*memProfiles)(m),
		Experiences: (*memExperiences)(m),
		Education:   (*memEducation)(m),
		Skills:      (*memSkills)(m),
		Sessions:    (*memSessions)(m),
	}
}

type memory struct {
	mu          sync.Mutex
	users       map[uuid.UUID]model.User
	profiles    map[uuid.UUID]model.Profile    // keyed by user ID
	experiences map[uuid.UUID]model.Experience // keyed by entry ID
	education   map[uuid.UUID]model.Education  // keyed by entry ID
	skills      map[uuid.UUID]model.Skill      // keyed by entry ID
	sessions    map[string]model.Session       // keyed by token
	seq         int64
}

// ----------------------------------------------------------------------------
// Users
// ----------------------------------------------------------------------------

type memUsers memory

func (m *memUsers) Create(_ context.Context, n model.NewUser) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, n.Email) {
			return nil, ErrDuplicateEmail
		}
	}

	m.seq++
	now := time.Now().UTC().Add(time.Duration(m.seq)) // keeps insertion order observable
	u := model.User{
		ID:           uuid.New(),
		Email:        n.Email,
		Name:         n.Name,
		Role:         n.Role,
		IsActive:     n.IsActive,
		IsVerified:   n.IsVerified,
		PasswordHash: n.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[u.ID] = u
	return &u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) List(_ context.Context, p ListUsersParams) ([]model.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 200 {
		p.PageSize = 50
	}

	q := strings.ToLower(strings.TrimSpace(p.Query))
	var all []model.User
	for _, u := range m.users {
		if q != "" &&
			!strings.Contains(strings.ToLower(u.Name), q) &&
			!strings.Contains(strings.ToLower(u.Email), q) {
			continue
		}
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	start := (p.Page - 1) * p.PageSize
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + p.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *memUsers) Update(_ context.Context, id uuid.UUID, upd UserUpdate) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	if upd.IsVerified != nil {
		u.IsVerified = *upd.IsVerified
	}
	u.UpdatedAt = time.Now().UTC()
	m.users[id] = u
	return &u, nil
}

func (m *memUsers) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	delete(m.profiles, id)
	for eid, e := range m.experiences {
		if e.UserID == id {
			delete(m.experiences, eid)
		}
	}
	for eid, e := range m.education {
		if e.UserID == id {
			delete(m.education, eid)
		}
	}
	for sid, s := range m.skills {
		if s.UserID == id {
			delete(m.skills, sid)
		}
	}
	for tok, s := range m.sessions {
		if s.UserID == id {
			delete(m.sessions, tok)
		}
	}
	return nil
}

func (m *memUsers) SetPassword(_ context.Context, id uuid.UUID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now().UTC()
	m.users[id] = u
	return nil
}

// ----------------------------------------------------------------------------
// Profiles
// ----------------------------------------------------------------------------

type memProfiles memory

func (m *memProfiles) Create(_ context.Context, userID uuid.UUID, n model.NewProfile) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := model.Profile{
		UserID:    userID,
		Name:      n.Name,
		Phone:     n.Phone,
		UpdatedAt: time.Now().UTC(),
	}
	m.profiles[userID] = p
	return &p, nil
}

func (m *memProfiles) Get(_ context.Context, userID uuid.UUID) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *memProfiles) Update(_ context.Context, userID uuid.UUID, u model.ProfileUpdate) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.Headline != nil {
		p.Headline = *u.Headline
	}
	if u.Bio != nil {
		p.Bio = *u.Bio
	}
	if u.Location != nil {
		p.Location = *u.Location
	}
	p.UpdatedAt = time.Now().UTC()
	m.profiles[userID] = p
	return &p, nil
}

// ----------------------------------------------------------------------------
// Experiences
// ----------------------------------------------------------------------------

type memExperiences memory

func (m *memExperiences) Create(_ context.Context, userID uuid.UUID, n model.NewExperience) (*model.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := model.Experience{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       n.Title,
		Company:     n.Company,
		StartDate:   n.StartDate,
		EndDate:     n.EndDate,
		IsCurrent:   n.IsCurrent,
		Description: n.Description,
	}
	m.experiences[e.ID] = e
	return &e, nil
}

func (m *memExperiences) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Experience
	for _, e := range m.experiences {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (m *memExperiences) Update(_ context.Context, userID, id uuid.UUID, n model.NewExperience) (*model.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.experiences[id]
	if !ok || e.UserID != userID {
		return nil, ErrNotFound
	}
	e.Title = n.Title
	e.Company = n.Company
	e.StartDate = n.StartDate
	e.EndDate = n.EndDate
	e.IsCurrent = n.IsCurrent
	e.Description = n.Description
	m.experiences[id] = e
	return &e, nil
}

func (m *memExperiences) Delete(_ context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.experiences[id]
	if !ok || e.UserID != userID {
		return ErrNotFound
	}
	delete(m.experiences, id)
	return nil
}

// ----------------------------------------------------------------------------
// Education
// ----------------------------------------------------------------------------

type memEducation memory

func (m *memEducation) Create(_ context.Context, userID uuid.UUID, n model.NewEducation) (*model.Education, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := model.Education{
		ID:          uuid.New(),
		UserID:      userID,
		School:      n.School,
		Course:      n.Course,
		Degree:      n.Degree,
		StartDate:   n.StartDate,
		EndDate:     n.EndDate,
		IsPresent:   n.IsPresent,
		Description: n.Description,
	}
	m.education[e.ID] = e
	return &e, nil
}

func (m *memEducation) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Education, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Education
	for _, e := range m.education {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (m *memEducation) Update(_ context.Context, userID, id uuid.UUID, n model.NewEducation) (*model.Education, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.education[id]
	if !ok || e.UserID != userID {
		return nil, ErrNotFound
	}
	e.School = n.School
	e.Course = n.Course
	e.Degree = n.Degree
	e.StartDate = n.StartDate
	e.EndDate = n.EndDate
	e.IsPresent = n.IsPresent
	e.Description = n.Description
	m.education[id] = e
	return &e, nil
}

func (m *memEducation) Delete(_ context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.education[id]
	if !ok || e.UserID != userID {
		return ErrNotFound
	}
	delete(m.education, id)
	return nil
}

// ----------------------------------------------------------------------------
// Skills
// ----------------------------------------------------------------------------

type memSkills memory

func (m *memSkills) Add(_ context.Context, userID uuid.UUID, name string) (*model.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.skills {
		if s.UserID == userID && strings.EqualFold(s.Name, name) {
			out := s
			return &out, nil
		}
	}
	s := model.Skill{ID: uuid.New(), UserID: userID, Name: name}
	m.skills[s.ID] = s
	return &s, nil
}

func (m *memSkills) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Skill
	for _, s := range m.skills {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memSkills) Remove(_ context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.skills[id]
	if !ok || s.UserID != userID {
		return ErrNotFound
	}
	delete(m.skills, id)
	return nil
}

// ----------------------------------------------------------------------------
// Sessions
// ----------------------------------------------------------------------------

type memSessions memory

func (m *memSessions) Create(_ context.Context, sess model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[sess.Token] = sess
	return nil
}

func (m *memSessions) UserByToken(_ context.Context, token string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[token]
	if !ok || sess.Expired(time.Now()) {
		return nil, ErrNotFound
	}
	u, ok := m.users[sess.UserID]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *memSessions) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, token)
	return nil
}

func (m *memSessions) DeleteExpired(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var n int64
	for tok, sess := range m.sessions {
		if sess.Expired(now) {
			delete(m.sessions, tok)
			n++
		}
	}
	return n, nil
}
