// Package memstore holds map-backed implementations of the service store interfaces. Every read hands out a
// copy so callers can mutate freely, matching what a round trip through Postgres would give them.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/Mariolucas03/Kairos/app/queries"
	"github.com/Mariolucas03/Kairos/pkg/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Users struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func NewUsers(users ...*models.User) *Users {
	s := &Users{users: map[uuid.UUID]*models.User{}}
	for _, u := range users {
		s.users[u.ID] = cloneUser(u)
	}
	return s
}

func cloneUser(u *models.User) *models.User {
	cp := *u
	cp.MissionRequests = append(pq.StringArray{}, u.MissionRequests...)
	cp.Inventory = append(models.Inventory{}, u.Inventory...)
	return &cp
}

// Get returns a copy of the stored user, or nil.
func (s *Users) Get(id uuid.UUID) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return cloneUser(u)
	}
	return nil
}

func (s *Users) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u := s.Get(id); u != nil {
		return u, nil
	}
	return nil, queries.ErrNotFound
}

func (s *Users) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, queries.ErrNotFound
}

func (s *Users) IsUserExists(_ context.Context, username, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username || strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Users) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username || strings.EqualFold(existing.Email, u.Email) {
			return queries.ErrDuplicate
		}
	}
	s.users[u.ID] = cloneUser(u)
	return nil
}

func (s *Users) UpdateStreak(_ context.Context, id uuid.UUID, st models.Streak) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return queries.ErrNotFound
	}
	u.SetStreak(st)
	return nil
}

func (s *Users) PushMissionRequest(_ context.Context, id uuid.UUID, missionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	for _, r := range u.MissionRequests {
		if r == missionID {
			return nil
		}
	}
	u.MissionRequests = append(u.MissionRequests, missionID)
	return nil
}

func (s *Users) PullMissionRequest(_ context.Context, id uuid.UUID, missionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	kept := pq.StringArray{}
	for _, r := range u.MissionRequests {
		if r != missionID {
			kept = append(kept, r)
		}
	}
	u.MissionRequests = kept
	return nil
}

func (s *Users) MutateUser(_ context.Context, id uuid.UUID, fn func(u *models.User) error) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, queries.ErrNotFound
	}
	cp := cloneUser(u)
	if err := fn(cp); err != nil {
		return nil, err
	}
	s.users[id] = cloneUser(cp)
	return cp, nil
}

type Missions struct {
	mu       sync.Mutex
	missions map[uuid.UUID]*models.Mission

	// Updates counts successful UpdateMission calls.
	Updates int
	// Conflicts makes the next n updates of a mission fail as if another writer got there first.
	Conflicts map[uuid.UUID]int
}

func NewMissions(missions ...*models.Mission) *Missions {
	s := &Missions{missions: map[uuid.UUID]*models.Mission{}, Conflicts: map[uuid.UUID]int{}}
	for _, m := range missions {
		s.Seed(m)
	}
	return s
}

// Seed stores m as-is, bypassing the version handling of CreateMission.
func (s *Missions) Seed(m *models.Mission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.Version == 0 {
		m.Version = 1
	}
	s.missions[m.ID] = m.Clone()
}

// Get returns a copy of the stored mission, or nil.
func (s *Missions) Get(id uuid.UUID) *models.Mission {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.missions[id]; ok {
		return m.Clone()
	}
	return nil
}

func member(m *models.Mission, userID string) bool {
	if utils.SameID(m.OwnerID, userID) {
		return true
	}
	for _, p := range m.Participants {
		if utils.SameID(p, userID) {
			return true
		}
	}
	return false
}

func (s *Missions) ListForUser(_ context.Context, userID string) ([]*models.Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Mission{}
	for _, m := range s.missions {
		if member(m, userID) {
			out = append(out, m.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Completed != out[j].Completed {
			return !out[i].Completed
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Missions) GetMission(_ context.Context, id uuid.UUID) (*models.Mission, error) {
	if m := s.Get(id); m != nil {
		return m, nil
	}
	return nil, queries.ErrNotFound
}

func (s *Missions) CreateMission(_ context.Context, m *models.Mission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.Version = 1
	s.missions[m.ID] = m.Clone()
	return nil
}

func (s *Missions) UpdateMission(_ context.Context, m *models.Mission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.missions[m.ID]
	if !ok {
		return queries.ErrNotFound
	}
	if s.Conflicts[m.ID] > 0 {
		s.Conflicts[m.ID]--
		stored.Version++
		return queries.ErrConflict
	}
	if stored.Version != m.Version {
		return queries.ErrConflict
	}
	m.Version++
	s.missions[m.ID] = m.Clone()
	s.Updates++
	return nil
}

func (s *Missions) DeleteMission(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.missions[id]; !ok {
		return queries.ErrNotFound
	}
	delete(s.missions, id)
	return nil
}

func (s *Missions) DeleteMissionsForUser(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, m := range s.missions {
		if member(m, userID) {
			delete(s.missions, id)
			n++
		}
	}
	return n, nil
}

func (s *Missions) FindLinked(_ context.Context, ownerID string, exclude uuid.UUID, title, unit string) ([]*models.Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Mission{}
	for _, m := range s.missions {
		if utils.SameID(m.OwnerID, ownerID) && m.Title == title && m.Unit == unit && m.ID != exclude && !m.Completed {
			out = append(out, m.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Missions) CountApplicable(_ context.Context, userID string, weekday int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.missions {
		if !member(m, userID) || m.Frequency != models.FrequencyDaily {
			continue
		}
		if m.IsCoop && m.InvitationStatus == models.InvitationPending {
			continue
		}
		if len(m.SpecificDays) == 0 {
			n++
			continue
		}
		for _, d := range m.SpecificDays {
			if int(d) == weekday {
				n++
				break
			}
		}
	}
	return n, nil
}

func (s *Missions) ListStaleDailyHabits(_ context.Context, before time.Time) ([]*models.Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Mission{}
	for _, m := range s.missions {
		if m.Type == models.TypeHabit && m.Frequency == models.FrequencyDaily && m.Completed && m.LastUpdated.Before(before) {
			out = append(out, m.Clone())
		}
	}
	return out, nil
}

type DailyLogs struct {
	mu   sync.Mutex
	logs map[string]*models.DailyLog

	// Saves counts SaveDailyLog calls.
	Saves int
}

func NewDailyLogs() *DailyLogs {
	return &DailyLogs{logs: map[string]*models.DailyLog{}}
}

func key(userID uuid.UUID, date string) string {
	return userID.String() + "|" + date
}

func cloneLog(l *models.DailyLog) *models.DailyLog {
	cp := *l
	cp.MissionStats.ListCompleted = append([]models.CompletedMission{}, l.MissionStats.ListCompleted...)
	cp.SportWorkouts = append(models.RawJSON(nil), l.SportWorkouts...)
	cp.GymWorkouts = append(models.RawJSON(nil), l.GymWorkouts...)
	cp.Nutrition.Meals = nil
	return &cp
}

// Get returns a copy of the (user, date) log, or nil.
func (s *DailyLogs) Get(userID uuid.UUID, date string) *models.DailyLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.logs[key(userID, date)]; ok {
		return cloneLog(l)
	}
	return nil
}

func (s *DailyLogs) Put(l *models.DailyLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[key(l.UserID, l.Date)] = cloneLog(l)
}

func (s *DailyLogs) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs)
}

func (s *DailyLogs) FindOrCreateDailyLog(_ context.Context, seed *models.DailyLog) (*models.DailyLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(seed.UserID, seed.Date)
	if l, ok := s.logs[k]; ok {
		return cloneLog(l), nil
	}
	s.logs[k] = cloneLog(seed)
	return cloneLog(seed), nil
}

func (s *DailyLogs) GetDailyLog(_ context.Context, userID uuid.UUID, date string) (*models.DailyLog, error) {
	if l := s.Get(userID, date); l != nil {
		return l, nil
	}
	return nil, queries.ErrNotFound
}

func (s *DailyLogs) SaveDailyLog(_ context.Context, l *models.DailyLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(l.UserID, l.Date)
	if _, ok := s.logs[k]; !ok {
		return queries.ErrNotFound
	}
	s.logs[k] = cloneLog(l)
	s.Saves++
	return nil
}

func (s *DailyLogs) AppendCompletion(_ context.Context, userID uuid.UUID, date string, entry models.CompletedMission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.logs[key(userID, date)]
	if !ok {
		return queries.ErrNotFound
	}
	l.MissionStats.Completed++
	l.MissionStats.ListCompleted = append(l.MissionStats.ListCompleted, entry)
	return nil
}

func (s *DailyLogs) PriorWeight(_ context.Context, userID uuid.UUID, date string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	best, weight := "", 0.0
	for _, l := range s.logs {
		if l.UserID == userID && l.Date < date && l.Weight > 0 && l.Date > best {
			best, weight = l.Date, l.Weight
		}
	}
	return weight, nil
}

func (s *DailyLogs) WeightHistory(_ context.Context, userID uuid.UUID) ([]models.WeightPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.WeightPoint{}
	for _, l := range s.logs {
		if l.UserID == userID && l.Weight > 0 {
			out = append(out, models.WeightPoint{Date: l.Date, Weight: l.Weight})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *DailyLogs) SetTotalKcal(_ context.Context, userID uuid.UUID, date string, kcal int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.logs[key(userID, date)]; ok {
		l.Nutrition.TotalKcal = kcal
	}
	return nil
}

type Nutrition struct {
	mu   sync.Mutex
	logs map[string]*models.NutritionLog
}

func NewNutrition() *Nutrition {
	return &Nutrition{logs: map[string]*models.NutritionLog{}}
}

func cloneNutrition(l *models.NutritionLog) *models.NutritionLog {
	cp := *l
	cp.Meals = make(models.Meals, len(l.Meals))
	for i, m := range l.Meals {
		cp.Meals[i] = models.Meal{ID: m.ID, Name: m.Name, Foods: append([]models.FoodEntry{}, m.Foods...)}
	}
	return &cp
}

func (s *Nutrition) Put(l *models.NutritionLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[key(l.UserID, l.Date)] = cloneNutrition(l)
}

func (s *Nutrition) FindOrCreateNutritionLog(_ context.Context, seed *models.NutritionLog) (*models.NutritionLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(seed.UserID, seed.Date)
	if l, ok := s.logs[k]; ok {
		return cloneNutrition(l), nil
	}
	s.logs[k] = cloneNutrition(seed)
	return cloneNutrition(seed), nil
}

func (s *Nutrition) GetNutritionLog(_ context.Context, userID uuid.UUID, date string) (*models.NutritionLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.logs[key(userID, date)]
	if !ok {
		return nil, queries.ErrNotFound
	}
	return cloneNutrition(l), nil
}

func (s *Nutrition) SaveNutritionLog(_ context.Context, l *models.NutritionLog) error {
	s.Put(l)
	return nil
}

type Foods struct {
	mu    sync.Mutex
	Items []models.Food
}

func (s *Foods) SearchFoods(_ context.Context, userID uuid.UUID, query string, limit int) ([]models.Food, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Food{}
	for _, f := range s.Items {
		visible := f.UserID == nil || *f.UserID == userID
		if visible && strings.Contains(strings.ToLower(f.Name), strings.ToLower(query)) {
			out = append(out, f)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Foods) ListSavedFoods(_ context.Context, userID uuid.UUID, limit int) ([]models.Food, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Food{}
	for i := len(s.Items) - 1; i >= 0 && len(out) < limit; i-- {
		if s.Items[i].UserID != nil && *s.Items[i].UserID == userID {
			out = append(out, s.Items[i])
		}
	}
	return out, nil
}

func (s *Foods) GetFood(_ context.Context, id uuid.UUID) (*models.Food, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.Items {
		if f.ID == id {
			cp := f
			return &cp, nil
		}
	}
	return nil, queries.ErrNotFound
}

func (s *Foods) CreateFood(_ context.Context, f *models.Food) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Items = append(s.Items, *f)
	return nil
}

func (s *Foods) UpdateFood(_ context.Context, f *models.Food) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Items {
		if s.Items[i].ID == f.ID {
			s.Items[i] = *f
			return nil
		}
	}
	return queries.ErrNotFound
}

func (s *Foods) DeleteFood(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Items {
		if s.Items[i].ID == id {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			return nil
		}
	}
	return queries.ErrNotFound
}

type Shop struct {
	mu    sync.Mutex
	Items []models.ShopItem
}

func (s *Shop) CountSystemItems(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.Items {
		if it.Category != models.CategoryReward {
			n++
		}
	}
	return n, nil
}

func (s *Shop) InsertShopItems(_ context.Context, items []models.ShopItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Items = append(s.Items, items...)
	return nil
}

func (s *Shop) ListShopItems(_ context.Context, userID uuid.UUID) ([]models.ShopItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ShopItem{}
	for _, it := range s.Items {
		if it.Category != models.CategoryReward || (it.UserID != nil && *it.UserID == userID) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *Shop) GetShopItem(_ context.Context, id uuid.UUID) (*models.ShopItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.Items {
		if it.ID == id {
			cp := it
			return &cp, nil
		}
	}
	return nil, queries.ErrNotFound
}

func (s *Shop) CreateShopItem(_ context.Context, item *models.ShopItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Items = append(s.Items, *item)
	return nil
}
