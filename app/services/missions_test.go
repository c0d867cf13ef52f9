package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var missionNow = time.Date(2026, 3, 10, 12, 0, 0, 0, testLoc)

func TestCreateMission_Defaults(t *testing.T) {
	alice := newUser("alice")
	h := newHarness(missionNow, alice)

	m, err := h.svc.Missions.CreateMission(context.Background(), alice.ID, &models.CreateMissionRequest{Title: "  Stretch "})
	require.NoError(t, err)

	assert.Equal(t, "Stretch", m.Title)
	assert.Equal(t, models.TypeHabit, m.Type)
	assert.Equal(t, models.DifficultyEasy, m.Difficulty)
	assert.Equal(t, models.FrequencyDaily, m.Frequency)
	assert.Equal(t, 1.0, m.Target)
	assert.Equal(t, models.InvitationNone, m.InvitationStatus)
	assert.Equal(t, pq.StringArray{alice.ID.String()}, m.Participants)
	assert.Equal(t, models.Contributions{alice.ID.String(): 0}, m.Contributions)
	assert.Equal(t, 50, m.XPReward)
	assert.NotNil(t, h.missions.Get(m.ID))
}

func TestCreateMission_Validation(t *testing.T) {
	alice := newUser("alice")
	h := newHarness(missionNow, alice)
	ctx := context.Background()

	_, err := h.svc.Missions.CreateMission(ctx, alice.ID, &models.CreateMissionRequest{Title: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = h.svc.Missions.CreateMission(ctx, alice.ID, &models.CreateMissionRequest{Title: "Run", IsCoop: true, FriendID: strings.ToUpper(alice.ID.String())})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = h.svc.Missions.CreateMission(ctx, alice.ID, &models.CreateMissionRequest{Title: "Run", IsCoop: true, FriendID: uuid.NewString()})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = h.svc.Missions.CreateMission(ctx, alice.ID, &models.CreateMissionRequest{Title: "Run", IsCoop: true, FriendID: "not-an-id"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProgress_CompletesAndClamps(t *testing.T) {
	alice := newUser("alice")
	h := newHarness(missionNow, alice)
	ctx := context.Background()

	m, err := h.svc.Missions.CreateMission(ctx, alice.ID, &models.CreateMissionRequest{
		Title: "Push-ups", Target: 20.0, Difficulty: "easy", Unit: "reps",
	})
	require.NoError(t, err)

	res, err := h.svc.Missions.UpdateProgress(ctx, h.users.Get(alice.ID), m.ID, 25.0)
	require.NoError(t, err)
	assert.True(t, res.Mission.Completed)
	assert.Equal(t, 20.0, res.Mission.Progress)
	assert.False(t, res.ProgressOnly)
	require.NotNil(t, res.Rewards)
	assert.Equal(t, models.RewardBreakdown{XP: 50, Coins: 10, GameCoins: 100}, *res.Rewards)

	u := h.users.Get(alice.ID)
	assert.Equal(t, 50, u.XP)
	assert.Equal(t, 10, u.Coins)
	assert.Equal(t, 600, u.GameCoins)

	l := h.logs.Get(alice.ID, h.today())
	require.NotNil(t, l)
	assert.Equal(t, 1, l.MissionStats.Completed)
	assert.Equal(t, 1, l.MissionStats.Total)
	require.Len(t, l.MissionStats.ListCompleted, 1)
	assert.Equal(t, "Push-ups", l.MissionStats.ListCompleted[0].Title)

	// a second submission on the same day is a no-op
	again, err := h.svc.Missions.UpdateProgress(ctx, u, m.ID, 5.0)
	require.NoError(t, err)
	assert.True(t, again.AlreadyCompleted)
	assert.Equal(t, 50, h.users.Get(alice.ID).XP)
	assert.Equal(t, 1, h.logs.Get(alice.ID, h.today()).MissionStats.Completed)
}

func TestUpdateProgress_DefaultAmountIsOne(t *testing.T) {
	alice := newUser("alice")
	h := newHarness(missionNow, alice)
	m := h.seedMission(soloMission(alice, "Water", "glasses", 8))

	res, err := h.svc.Missions.UpdateProgress(context.Background(), alice, m.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Mission.Progress)
	assert.True(t, res.ProgressOnly)
	assert.Nil(t, res.Rewards)
}

func TestUpdateProgress_PropagatesToLinkedMissions(t *testing.T) {
	alice := newUser("alice")
	h := newHarness(missionNow, alice)
	ctx := context.Background()
	first := h.seedMission(soloMission(alice, "Read", "pages", 10))
	second := h.seedMission(soloMission(alice, "Read", "pages", 30))
	other := h.seedMission(soloMission(alice, "Read", "minutes", 30))

	_, err := h.svc.Missions.UpdateProgress(ctx, alice, first.ID, 5.0)
	require.NoError(t, err)

	linked := h.missions.Get(second.ID)
	assert.Equal(t, 5.0, linked.Progress)
	assert.Equal(t, 5.0, linked.Contributions[alice.ID.String()])
	assert.False(t, linked.Completed)
	assert.Zero(t, h.missions.Get(other.ID).Progress)

	res, err := h.svc.Missions.UpdateProgress(ctx, alice, first.ID, 5.0)
	require.NoError(t, err)
	assert.True(t, res.Mission.Completed)
	assert.Equal(t, 10.0, h.missions.Get(second.ID).Progress)
	assert.False(t, h.missions.Get(second.ID).Completed)
	assert.Equal(t, 50, h.users.Get(alice.ID).XP)
}

func TestUpdateProgress_LinkedCompletionRewardsActor(t *testing.T) {
	alice := newUser("alice")
	h := newHarness(missionNow, alice)
	primary := h.seedMission(soloMission(alice, "Run", "km", 10))
	linked := h.seedMission(soloMission(alice, "Run", "km", 3))

	res, err := h.svc.Missions.UpdateProgress(context.Background(), alice, primary.ID, 3.0)
	require.NoError(t, err)
	assert.True(t, res.ProgressOnly)

	assert.True(t, h.missions.Get(linked.ID).Completed)
	assert.Equal(t, 50, h.users.Get(alice.ID).XP)
	assert.Equal(t, 1, h.logs.Get(alice.ID, h.today()).MissionStats.Completed)
}

func TestUpdateProgress_PendingCoopRejected(t *testing.T) {
	alice, bob := newUser("alice"), newUser("bob")
	h := newHarness(missionNow, alice, bob)
	m := soloMission(alice, "Plank", "min", 5)
	m.IsCoop = true
	m.InvitationStatus = models.InvitationPending
	m.Participants = append(m.Participants, bob.ID.String())
	h.seedMission(m)
	before := h.missions.Get(m.ID)

	_, err := h.svc.Missions.UpdateProgress(context.Background(), alice, m.ID, 2.0)
	assert.ErrorIs(t, err, ErrWaitingForPartner)
	assert.Equal(t, before, h.missions.Get(m.ID))
	assert.Zero(t, h.missions.Updates)
}

func TestUpdateProgress_NonMemberRejected(t *testing.T) {
	alice, mallory := newUser("alice"), newUser("mallory")
	h := newHarness(missionNow, alice, mallory)
	m := h.seedMission(soloMission(alice, "Walk", "steps", 100))

	_, err := h.svc.Missions.UpdateProgress(context.Background(), mallory, m.ID, 1.0)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUpdateProgress_MissingMission(t *testing.T) {
	alice := newUser("alice")
	h := newHarness(missionNow, alice)

	_, err := h.svc.Missions.UpdateProgress(context.Background(), alice, uuid.New(), 1.0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProgress_RetriesOnConflict(t *testing.T) {
	alice := newUser("alice")
	h := newHarness(missionNow, alice)
	m := h.seedMission(soloMission(alice, "Squats", "reps", 50))
	h.missions.Conflicts[m.ID] = 2

	res, err := h.svc.Missions.UpdateProgress(context.Background(), alice, m.ID, 10.0)
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.Mission.Progress)
	assert.Equal(t, 10.0, h.missions.Get(m.ID).Progress)
	assert.Equal(t, 1, h.missions.Updates)
}

func TestUpdateProgress_GivesUpAfterRepeatedConflicts(t *testing.T) {
	alice := newUser("alice")
	h := newHarness(missionNow, alice)
	m := h.seedMission(soloMission(alice, "Squats", "reps", 50))
	h.missions.Conflicts[m.ID] = maxCASAttempts

	_, err := h.svc.Missions.UpdateProgress(context.Background(), alice, m.ID, 10.0)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Zero(t, h.missions.Get(m.ID).Progress)
}

func TestUpdateProgress_StaleHabitResetsBeforeAdding(t *testing.T) {
	alice := newUser("alice")
	h := newHarness(missionNow, alice)
	m := soloMission(alice, "Meditate", "min", 10)
	m.Completed, m.Progress = true, 10
	m.Contributions[alice.ID.String()] = 10
	m.LastUpdated = missionNow.Add(-24 * time.Hour)
	h.seedMission(m)

	res, err := h.svc.Missions.UpdateProgress(context.Background(), alice, m.ID, 4.0)
	require.NoError(t, err)
	assert.False(t, res.Mission.Completed)
	assert.Equal(t, 4.0, res.Mission.Progress)
	assert.Equal(t, 4.0, res.Mission.Contributions[alice.ID.String()])
}

func TestUpdateProgress_CompletedQuestStaysCompleted(t *testing.T) {
	alice := newUser("alice")
	h := newHarness(missionNow, alice)
	m := soloMission(alice, "Marathon", "race", 1)
	m.Type = models.TypeQuest
	m.Completed, m.Progress = true, 1
	m.LastUpdated = missionNow.Add(-72 * time.Hour)
	h.seedMission(m)

	res, err := h.svc.Missions.UpdateProgress(context.Background(), alice, m.ID, 1.0)
	require.NoError(t, err)
	assert.True(t, res.AlreadyCompleted)
	assert.Zero(t, h.missions.Updates)
}

func TestUpdateProgress_LegacyIDSpellings(t *testing.T) {
	alice := newUser("alice")
	h := newHarness(missionNow, alice)
	upper := strings.ToUpper(alice.ID.String())
	m := soloMission(alice, "Yoga", "min", 30)
	m.OwnerID = upper
	m.Participants = pq.StringArray{upper}
	m.Contributions = models.Contributions{upper: 5}
	h.seedMission(m)

	res, err := h.svc.Missions.UpdateProgress(context.Background(), alice, m.ID, 5.0)
	require.NoError(t, err)
	assert.Equal(t, models.Contributions{alice.ID.String(): 10}, res.Mission.Contributions)
	assert.Equal(t, alice.ID.String(), h.missions.Get(m.ID).OwnerID)
}

func TestCoopMission_CompletionRewardsEveryParticipant(t *testing.T) {
	alice, bob := newUser("alice"), newUser("bob")
	h := newHarness(missionNow, alice, bob)
	ctx := context.Background()

	m, err := h.svc.Missions.CreateMission(ctx, alice.ID, &models.CreateMissionRequest{
		Title: "Clean house", Target: 2.0, IsCoop: true, FriendID: bob.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, models.InvitationPending, m.InvitationStatus)
	assert.Contains(t, h.users.Get(bob.ID).MissionRequests, m.ID.String())

	accepted, err := h.svc.Missions.RespondInvite(ctx, bob.ID, &models.RespondInviteRequest{MissionID: m.ID.String(), Action: "accept"})
	require.NoError(t, err)
	assert.Equal(t, models.InvitationActive, accepted.InvitationStatus)
	assert.Contains(t, accepted.Contributions, bob.ID.String())
	assert.Empty(t, h.users.Get(bob.ID).MissionRequests)

	_, err = h.svc.Missions.UpdateProgress(ctx, alice, m.ID, 1.0)
	require.NoError(t, err)
	res, err := h.svc.Missions.UpdateProgress(ctx, bob, m.ID, 1.0)
	require.NoError(t, err)
	assert.True(t, res.Mission.Completed)
	assert.Equal(t, models.Contributions{alice.ID.String(): 1, bob.ID.String(): 1}, res.Mission.Contributions)

	assert.Equal(t, 75, h.users.Get(alice.ID).XP)
	assert.Equal(t, 75, h.users.Get(bob.ID).XP)
	assert.Equal(t, 1, h.logs.Get(bob.ID, h.today()).MissionStats.Completed)
	assert.Nil(t, h.logs.Get(alice.ID, h.today()))
}

func TestRespondInvite_RejectDeletesMission(t *testing.T) {
	alice, bob := newUser("alice"), newUser("bob")
	h := newHarness(missionNow, alice, bob)
	ctx := context.Background()

	m, err := h.svc.Missions.CreateMission(ctx, alice.ID, &models.CreateMissionRequest{
		Title: "Cook", IsCoop: true, FriendID: bob.ID.String(),
	})
	require.NoError(t, err)

	got, err := h.svc.Missions.RespondInvite(ctx, bob.ID, &models.RespondInviteRequest{MissionID: m.ID.String(), Action: "reject"})
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Nil(t, h.missions.Get(m.ID))
	assert.Empty(t, h.users.Get(bob.ID).MissionRequests)

	listed, err := h.svc.Missions.ListMissions(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestRespondInvite_DanglingRequestIsCleared(t *testing.T) {
	bob := newUser("bob")
	ghost := uuid.NewString()
	bob.MissionRequests = pq.StringArray{ghost}
	h := newHarness(missionNow, bob)

	_, err := h.svc.Missions.RespondInvite(context.Background(), bob.ID, &models.RespondInviteRequest{MissionID: ghost, Action: "accept"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, h.users.Get(bob.ID).MissionRequests)
}

func TestRespondInvite_OutsiderRejected(t *testing.T) {
	alice, bob, carol := newUser("alice"), newUser("bob"), newUser("carol")
	h := newHarness(missionNow, alice, bob, carol)
	ctx := context.Background()
	m, err := h.svc.Missions.CreateMission(ctx, alice.ID, &models.CreateMissionRequest{Title: "Hike", IsCoop: true, FriendID: bob.ID.String()})
	require.NoError(t, err)

	_, err = h.svc.Missions.RespondInvite(ctx, carol.ID, &models.RespondInviteRequest{MissionID: m.ID.String(), Action: "reject"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NotNil(t, h.missions.Get(m.ID))
}

func TestRespondInvite_OwnerCannotAnswer(t *testing.T) {
	alice, bob := newUser("alice"), newUser("bob")
	h := newHarness(missionNow, alice, bob)
	ctx := context.Background()
	m, err := h.svc.Missions.CreateMission(ctx, alice.ID, &models.CreateMissionRequest{Title: "Swim", IsCoop: true, FriendID: bob.ID.String()})
	require.NoError(t, err)

	for _, action := range []string{"accept", "reject"} {
		_, err = h.svc.Missions.RespondInvite(ctx, alice.ID, &models.RespondInviteRequest{MissionID: m.ID.String(), Action: action})
		assert.ErrorIs(t, err, ErrForbidden, action)
	}

	stored := h.missions.Get(m.ID)
	require.NotNil(t, stored)
	assert.Equal(t, models.InvitationPending, stored.InvitationStatus)
	assert.Contains(t, h.users.Get(bob.ID).MissionRequests, m.ID.String())

	_, err = h.svc.Missions.UpdateProgress(ctx, alice, m.ID, 1.0)
	assert.ErrorIs(t, err, ErrWaitingForPartner)
}

func TestRespondInvite_ActiveMissionIsLeftAlone(t *testing.T) {
	alice, bob := newUser("alice"), newUser("bob")
	h := newHarness(missionNow, alice, bob)
	ctx := context.Background()
	m, err := h.svc.Missions.CreateMission(ctx, alice.ID, &models.CreateMissionRequest{
		Title: "Plank", Target: 10.0, IsCoop: true, FriendID: bob.ID.String(),
	})
	require.NoError(t, err)
	_, err = h.svc.Missions.RespondInvite(ctx, bob.ID, &models.RespondInviteRequest{MissionID: m.ID.String(), Action: "accept"})
	require.NoError(t, err)
	_, err = h.svc.Missions.UpdateProgress(ctx, alice, m.ID, 5.0)
	require.NoError(t, err)

	// a stale copy of the request left on the partner's profile
	require.NoError(t, h.users.PushMissionRequest(ctx, bob.ID, m.ID.String()))

	for _, action := range []string{"reject", "accept"} {
		_, err = h.svc.Missions.RespondInvite(ctx, bob.ID, &models.RespondInviteRequest{MissionID: m.ID.String(), Action: action})
		assert.ErrorIs(t, err, ErrValidation, action)
	}

	stored := h.missions.Get(m.ID)
	require.NotNil(t, stored)
	assert.Equal(t, models.InvitationActive, stored.InvitationStatus)
	assert.Equal(t, 5.0, stored.Progress)
	assert.Empty(t, h.users.Get(bob.ID).MissionRequests)
}

func TestListMissions_ResetsStaleHabitsAndPersists(t *testing.T) {
	alice, bob := newUser("alice"), newUser("bob")
	h := newHarness(missionNow, alice, bob)
	m := soloMission(alice, "Journal", "entries", 1)
	m.Participants = append(m.Participants, bob.ID.String())
	m.Completed, m.Progress = true, 1
	m.Contributions = models.Contributions{alice.ID.String(): 1}
	m.LastUpdated = missionNow.Add(-24 * time.Hour)
	h.seedMission(m)
	fresh := h.seedMission(soloMission(alice, "Floss", "times", 1))

	listed, err := h.svc.Missions.ListMissions(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)

	stored := h.missions.Get(m.ID)
	assert.False(t, stored.Completed)
	assert.Zero(t, stored.Progress)
	assert.Equal(t, models.Contributions{alice.ID.String(): 0, bob.ID.String(): 0}, stored.Contributions)
	assert.Equal(t, 2, stored.Version)
	assert.Equal(t, 1, h.missions.Get(fresh.ID).Version)

	for _, l := range listed {
		assert.False(t, l.Completed)
	}
}

func TestListMissions_FailedResetIsNotReported(t *testing.T) {
	alice := newUser("alice")
	h := newHarness(missionNow, alice)
	m := soloMission(alice, "Stretch", "min", 10)
	m.Completed, m.Progress = true, 10
	m.Contributions = models.Contributions{alice.ID.String(): 10}
	m.LastUpdated = missionNow.Add(-24 * time.Hour)
	h.seedMission(m)
	h.missions.Conflicts[m.ID] = 100

	listed, err := h.svc.Missions.ListMissions(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].Completed)
	assert.Equal(t, 10.0, listed[0].Progress)
	assert.True(t, h.missions.Get(m.ID).Completed)
	assert.Zero(t, h.missions.Updates)
}

func TestListMissions_SkipsMalformedMission(t *testing.T) {
	alice := newUser("alice")
	h := newHarness(missionNow, alice)
	m := soloMission(alice, "Broken", "x", 1)
	m.Completed, m.Progress = true, 1
	m.Contributions = nil
	m.LastUpdated = missionNow.Add(-48 * time.Hour)
	h.seedMission(m)

	listed, err := h.svc.Missions.ListMissions(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, h.missions.Get(m.ID).Completed)
	assert.Zero(t, h.missions.Updates)
}

func TestEditMission_ClampsAndReprices(t *testing.T) {
	alice := newUser("alice")
	h := newHarness(missionNow, alice)
	m := soloMission(alice, "Pages", "pages", 40)
	m.Progress = 30
	h.seedMission(m)
	hard := "hard"

	edited, err := h.svc.Missions.EditMission(context.Background(), alice.ID, m.ID, &models.EditMissionRequest{
		Target: 20.0, Difficulty: &hard,
	})
	require.NoError(t, err)
	assert.Equal(t, 20.0, edited.Target)
	assert.Equal(t, 20.0, edited.Progress)
	assert.Equal(t, 100, edited.XPReward)
	assert.Equal(t, "Pages", edited.Title)
}

func TestEditMission_RejectsBadTarget(t *testing.T) {
	alice := newUser("alice")
	h := newHarness(missionNow, alice)
	m := h.seedMission(soloMission(alice, "Pages", "pages", 40))

	_, err := h.svc.Missions.EditMission(context.Background(), alice.ID, m.ID, &models.EditMissionRequest{Target: -3.0})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 40.0, h.missions.Get(m.ID).Target)
}

func TestDeleteMission_OwnerOnlyAndWithdrawsInvite(t *testing.T) {
	alice, bob := newUser("alice"), newUser("bob")
	h := newHarness(missionNow, alice, bob)
	ctx := context.Background()
	m, err := h.svc.Missions.CreateMission(ctx, alice.ID, &models.CreateMissionRequest{Title: "Swim", IsCoop: true, FriendID: bob.ID.String()})
	require.NoError(t, err)

	assert.ErrorIs(t, h.svc.Missions.DeleteMission(ctx, bob.ID, m.ID), ErrForbidden)
	require.NoError(t, h.svc.Missions.DeleteMission(ctx, alice.ID, m.ID))
	assert.Nil(t, h.missions.Get(m.ID))
	assert.Empty(t, h.users.Get(bob.ID).MissionRequests)
}

func TestPurgeMissions(t *testing.T) {
	alice, bob := newUser("alice"), newUser("bob")
	h := newHarness(missionNow, alice, bob)
	h.seedMission(soloMission(alice, "A", "", 1))
	h.seedMission(soloMission(alice, "B", "", 1))
	keep := h.seedMission(soloMission(bob, "C", "", 1))

	n, err := h.svc.Missions.PurgeMissions(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NotNil(t, h.missions.Get(keep.ID))
}
