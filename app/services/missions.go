package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/Mariolucas03/Kairos/pkg/utils"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	maxCASAttempts = 3
	maxListPasses  = 3
)

type MissionService struct {
	Missions MissionStore
	Users    UserStore
	Levels   *LevelService
	Daily    *DailyService
	Loc      *time.Location
	Now      func() time.Time
}

// ProgressResult is what a progress submission reports back to the caller.
type ProgressResult struct {
	Mission          *models.Mission         `json:"mission"`
	User             *models.User            `json:"user"`
	LeveledUp        bool                    `json:"leveledUp"`
	Rewards          *models.RewardBreakdown `json:"rewards"`
	ProgressOnly     bool                    `json:"progressOnly"`
	AlreadyCompleted bool                    `json:"alreadyCompleted,omitempty"`
}

func (s *MissionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ListMissions returns the user's missions reconciled against today. When the pass resets anything the
// listing is read again so the caller never sees a half-reset set.
func (s *MissionService) ListMissions(ctx context.Context, userID uuid.UUID) ([]*models.Mission, error) {
	uid := userID.String()
	now := s.now()

	var missions []*models.Mission
	for pass := 0; pass < maxListPasses; pass++ {
		var err error
		missions, err = s.Missions.ListForUser(ctx, uid)
		if err != nil {
			return nil, err
		}

		reset := false
		for i, m := range missions {
			canonicalizeMission(m)
			// the reset is applied to a copy; an unsaved reset must not reach the caller
			next := m.Clone()
			changed, err := ReconcileDaily(next, now, s.Loc)
			if err != nil {
				log.Warnw("skipping reconcile of malformed mission", "mission", m.ID, "error", err)
				continue
			}
			if !changed {
				continue
			}
			if err := s.Missions.UpdateMission(ctx, next); err != nil {
				log.Warnw("daily reset not persisted", "mission", m.ID, "error", err)
				continue
			}
			log.Infow("daily habit reset", "mission", m.ID)
			missions[i] = next
			reset = true
		}
		if !reset {
			return missions, nil
		}
	}
	return missions, nil
}

func (s *MissionService) CreateMission(ctx context.Context, userID uuid.UUID, req *models.CreateMissionRequest) (*models.Mission, error) {
	title := utils.CleanLabel(req.Title)
	if title == "" {
		return nil, invalid("title is required")
	}

	uid := userID.String()
	m := &models.Mission{
		ID:               uuid.New(),
		OwnerID:          uid,
		Participants:     pq.StringArray{uid},
		Title:            title,
		Type:             orDefault(req.Type, models.TypeHabit),
		Difficulty:       orDefault(req.Difficulty, models.DifficultyEasy),
		Frequency:        orDefault(req.Frequency, models.FrequencyDaily),
		SpecificDays:     pq.Int64Array{},
		Target:           positiveOr(req.Target, 1),
		Unit:             utils.CleanLabel(req.Unit),
		IsCoop:           req.IsCoop,
		InvitationStatus: models.InvitationNone,
		Contributions:    models.Contributions{uid: 0},
		LastUpdated:      s.now(),
		CreatedAt:        s.now(),
		UpdatedAt:        s.now(),
	}
	if req.SpecificDays != nil {
		m.SpecificDays = pq.Int64Array(req.SpecificDays)
	}

	var friendID uuid.UUID
	if req.IsCoop && req.FriendID != "" {
		fid, err := utils.NormalizeID(req.FriendID)
		if err != nil {
			return nil, invalid("invalid friend id")
		}
		if fid == uid {
			return nil, invalid("you cannot invite yourself")
		}
		friendID = uuid.MustParse(fid)
		if _, err := s.Users.GetUserByID(ctx, friendID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, invalid("friend not found")
			}
			return nil, err
		}
		m.Participants = append(m.Participants, fid)
		m.InvitationStatus = models.InvitationPending
	}
	applyRewards(m)

	if err := s.Missions.CreateMission(ctx, m); err != nil {
		return nil, err
	}
	if friendID != uuid.Nil {
		if err := s.Users.PushMissionRequest(ctx, friendID, m.ID.String()); err != nil {
			return nil, fmt.Errorf("mission created but invitation not delivered: %w", err)
		}
	}
	return m, nil
}

// RespondInvite accepts or rejects a cooperative invitation. Only the invited partner may answer, and only
// while the mission is pending. A request pointing at a mission that no longer exists or is no longer
// pending is removed from the responder's list before the error is reported.
func (s *MissionService) RespondInvite(ctx context.Context, userID uuid.UUID, req *models.RespondInviteRequest) (*models.Mission, error) {
	uid := userID.String()
	missionID, err := uuid.Parse(req.MissionID)
	if err != nil {
		if err := s.Users.PullMissionRequest(ctx, userID, req.MissionID); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	requestKey := missionID.String()

	var accepted *models.Mission
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		m, err := s.Missions.GetMission(ctx, missionID)
		if errors.Is(err, ErrNotFound) {
			if err := s.Users.PullMissionRequest(ctx, userID, requestKey); err != nil {
				return nil, err
			}
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		canonicalizeMission(m)
		if !m.HasParticipant(uid) {
			return nil, ErrUnauthorized
		}
		if m.OwnerID == uid {
			return nil, ErrForbidden
		}
		if m.InvitationStatus != models.InvitationPending {
			if err := s.Users.PullMissionRequest(ctx, userID, requestKey); err != nil {
				return nil, err
			}
			return nil, invalid("invitation is no longer pending")
		}

		if req.Action != "accept" {
			if err := s.Missions.DeleteMission(ctx, m.ID); err != nil && !errors.Is(err, ErrNotFound) {
				return nil, err
			}
			return nil, s.Users.PullMissionRequest(ctx, userID, requestKey)
		}

		m.InvitationStatus = models.InvitationActive
		if m.Contributions == nil {
			m.Contributions = models.Contributions{}
		}
		m.Contributions[uid] = 0
		err = s.Missions.UpdateMission(ctx, m)
		if errors.Is(err, ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		accepted = m
		break
	}
	if accepted == nil {
		return nil, ErrConflict
	}
	if err := s.Users.PullMissionRequest(ctx, userID, requestKey); err != nil {
		return nil, err
	}
	return accepted, nil
}

// UpdateProgress adds amount to the mission on behalf of actor. The primary write is a versioned
// compare-and-swap retried on conflict; rewards and linked missions are handled only after it lands.
func (s *MissionService) UpdateProgress(ctx context.Context, actor *models.User, missionID uuid.UUID, rawAmount interface{}) (*ProgressResult, error) {
	uid := actor.ID.String()
	amount := utils.NumberOr(rawAmount, 1)
	now := s.now()

	var (
		m            *models.Mission
		completedNow bool
		written      bool
	)
	for attempt := 0; attempt < maxCASAttempts && !written; attempt++ {
		var err error
		m, err = s.Missions.GetMission(ctx, missionID)
		if err != nil {
			return nil, err
		}
		canonicalizeMission(m)
		if !isMember(m, uid) {
			return nil, ErrUnauthorized
		}
		if m.IsCoop && m.InvitationStatus == models.InvitationPending {
			return nil, ErrWaitingForPartner
		}
		switch ClassifyMission(m, now, s.Loc) {
		case StateCompletedToday:
			return &ProgressResult{Mission: m, AlreadyCompleted: true}, nil
		case StateStaleCompleted:
			if m.Type != models.TypeHabit {
				return &ProgressResult{Mission: m, AlreadyCompleted: true}, nil
			}
			ResetMission(m)
		}

		completedNow = addProgress(m, uid, amount, now)
		err = s.Missions.UpdateMission(ctx, m)
		if errors.Is(err, ErrConflict) {
			log.Infow("mission changed concurrently, retrying", "mission", missionID, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, err
		}
		written = true
	}
	if !written {
		return nil, ErrConflict
	}

	result := &ProgressResult{Mission: m, ProgressOnly: !m.Completed}
	if completedNow {
		if err := s.creditParticipants(ctx, m, actor, result); err != nil {
			return nil, err
		}
	}

	linked, err := s.Missions.FindLinked(ctx, uid, m.ID, m.Title, m.Unit)
	if err != nil {
		log.Warnw("linked missions lookup failed", "mission", m.ID, "error", err)
		return result, nil
	}
	for _, l := range linked {
		if err := s.propagateLinked(ctx, actor, l, amount, now); err != nil {
			log.Warnw("linked mission skipped", "mission", l.ID, "error", err)
		}
	}
	return result, nil
}

// creditParticipants gives every participant the full reward and records one completion for the actor.
func (s *MissionService) creditParticipants(ctx context.Context, m *models.Mission, actor *models.User, result *ProgressResult) error {
	uid := actor.ID.String()
	reward := missionReward(m)
	streak := actor.StreakCurrent
	for _, p := range m.Participants {
		pid, err := uuid.Parse(p)
		if err != nil {
			log.Warnw("participant id not a uuid, reward skipped", "mission", m.ID, "participant", p)
			continue
		}
		lr, err := s.Levels.AddRewards(ctx, pid, reward)
		if err != nil {
			if p == uid {
				return fmt.Errorf("crediting rewards: %w", err)
			}
			log.Errorw("participant reward failed", "mission", m.ID, "participant", p, "error", err)
			continue
		}
		if p == uid {
			result.User = lr.User
			result.LeveledUp = lr.LeveledUp
			result.Rewards = &reward
			streak = lr.User.StreakCurrent
		}
	}
	if err := s.Daily.RecordCompletion(ctx, actor.ID, streak, completionEntry(m)); err != nil {
		log.Errorw("completion not recorded in daily log", "mission", m.ID, "error", err)
	}
	return nil
}

// propagateLinked pushes the same amount into a linked mission owned by the actor. Rewards for a linked
// completion go to the actor alone.
func (s *MissionService) propagateLinked(ctx context.Context, actor *models.User, l *models.Mission, amount float64, now time.Time) error {
	uid := actor.ID.String()
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		if attempt > 0 {
			fresh, err := s.Missions.GetMission(ctx, l.ID)
			if err != nil {
				return err
			}
			l = fresh
		}
		canonicalizeMission(l)
		if l.Completed || (l.IsCoop && l.InvitationStatus == models.InvitationPending) {
			return nil
		}

		completedNow := addProgress(l, uid, amount, now)
		err := s.Missions.UpdateMission(ctx, l)
		if errors.Is(err, ErrConflict) {
			continue
		}
		if err != nil {
			return err
		}
		if !completedNow {
			return nil
		}

		streak := actor.StreakCurrent
		lr, err := s.Levels.AddRewards(ctx, actor.ID, missionReward(l))
		if err != nil {
			return fmt.Errorf("crediting linked rewards: %w", err)
		}
		if lr.User != nil {
			streak = lr.User.StreakCurrent
		}
		return s.Daily.RecordCompletion(ctx, actor.ID, streak, completionEntry(l))
	}
	return ErrConflict
}

// EditMission changes only the fields present in req. Rewards are recomputed when frequency or difficulty
// change and progress is clamped to the new target.
func (s *MissionService) EditMission(ctx context.Context, userID uuid.UUID, missionID uuid.UUID, req *models.EditMissionRequest) (*models.Mission, error) {
	uid := userID.String()
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		m, err := s.Missions.GetMission(ctx, missionID)
		if err != nil {
			return nil, err
		}
		canonicalizeMission(m)
		if !isMember(m, uid) {
			return nil, ErrUnauthorized
		}
		if err := applyEdit(m, req); err != nil {
			return nil, err
		}
		err = s.Missions.UpdateMission(ctx, m)
		if errors.Is(err, ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, ErrConflict
}

func applyEdit(m *models.Mission, req *models.EditMissionRequest) error {
	if req.Title != nil {
		title := utils.CleanLabel(*req.Title)
		if title == "" {
			return invalid("title cannot be empty")
		}
		m.Title = title
	}
	if req.Target != nil {
		target, ok := utils.ParseNumber(req.Target)
		if !ok || target <= 0 {
			return invalid("target must be a positive number")
		}
		m.Target = target
	}
	repriced := false
	if req.Frequency != nil && *req.Frequency != "" {
		m.Frequency = *req.Frequency
		repriced = true
	}
	if req.Difficulty != nil && *req.Difficulty != "" {
		m.Difficulty = *req.Difficulty
		repriced = true
	}
	if req.Unit != nil {
		m.Unit = utils.CleanLabel(*req.Unit)
	}
	if req.SpecificDays != nil {
		m.SpecificDays = pq.Int64Array(req.SpecificDays)
	}
	if repriced {
		applyRewards(m)
	}
	if m.Progress > m.Target || m.Completed {
		m.Progress = m.Target
	}
	return nil
}

// DeleteMission removes a mission owned by userID, withdrawing a still-pending invitation first.
func (s *MissionService) DeleteMission(ctx context.Context, userID uuid.UUID, missionID uuid.UUID) error {
	uid := userID.String()
	m, err := s.Missions.GetMission(ctx, missionID)
	if err != nil {
		return err
	}
	canonicalizeMission(m)
	if m.OwnerID != uid {
		return ErrForbidden
	}
	if m.InvitationStatus == models.InvitationPending {
		for _, p := range m.Participants {
			if p == uid {
				continue
			}
			pid, err := uuid.Parse(p)
			if err != nil {
				continue
			}
			if err := s.Users.PullMissionRequest(ctx, pid, m.ID.String()); err != nil {
				return err
			}
		}
	}
	return s.Missions.DeleteMission(ctx, m.ID)
}

// PurgeMissions deletes every mission the user owns or participates in.
func (s *MissionService) PurgeMissions(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.Missions.DeleteMissionsForUser(ctx, userID.String())
	if err != nil {
		return 0, err
	}
	log.Infow("missions purged", "user", userID, "count", n)
	return n, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func positiveOr(v interface{}, def float64) float64 {
	if f, ok := utils.ParseNumber(v); ok && f > 0 {
		return f
	}
	return def
}
