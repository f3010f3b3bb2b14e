package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/learnengine/internal/curriculum"
	"github.com/example/learnengine/pkg/models"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// memStore is an in-memory ProfileStore for tests
type memStore struct {
	profile *models.LearnerProfile
	saves   int
}

func (m *memStore) Load(_ context.Context, _ string) (*models.LearnerProfile, error) {
	return m.profile, nil
}

func (m *memStore) Save(_ context.Context, p *models.LearnerProfile) error {
	m.profile = p
	m.saves++
	return nil
}

// testClock is a movable clock shared between test and engine
type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestEngine(t *testing.T, store ProfileStore) (*Engine, *testClock) {
	t.Helper()
	e, err := New(context.Background(), "learner-1", curriculum.Default(), store, Config{Seed: 42}, nil)
	require.NoError(t, err)
	clock := &testClock{now: t0}
	e.SetClock(clock.Now)
	return e, clock
}

func TestPracticeSequenceUpdatesAllModels(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	ctx := context.Background()

	outcomes := []bool{true, true, false, true, true}
	qualities := []int{4, 5, 2, 4, 5}

	var result *models.PracticeResult
	for i, ok := range outcomes {
		var err error
		result, err = e.RecordPractice(ctx, "trends", ok, qualities[i])
		require.NoError(t, err)
		require.NotNil(t, result)
	}

	// count 5, success rate 0.8, recency 1 with a fixed clock.
	assert.InDelta(t, 72.0, result.Mastery, 1e-9)

	// Four correct out of five pushes the knowledge estimate from the 0.1
	// prior across the mastery threshold.
	assert.Greater(t, result.Probability, 0.95)
	assert.True(t, result.Mastered)

	// The failed third review reset the card; the last two reviews bring
	// it back to repetition 2 with a six-day interval.
	profile := e.Profile()
	card := profile.ReviewCards["trends"]
	require.NotNil(t, card)
	assert.Equal(t, 2, card.Repetitions)
	assert.Equal(t, 6, result.Interval)

	// Leitner: promote, promote, demote to zero, promote, promote.
	assert.Equal(t, 2, result.Box)
}

func TestPracticeUnknownConceptIsNoOp(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	result, err := e.RecordPractice(context.Background(), "options-greeks", true, 5)
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.Empty(t, e.Profile().Concepts)
}

func TestNegativeQualityDerivedFromOutcome(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	ctx := context.Background()

	_, err := e.RecordPractice(ctx, "markets", true, -1)
	require.NoError(t, err)
	assert.Equal(t, 4, e.Profile().ReviewCards["markets"].LastQuality)

	_, err = e.RecordPractice(ctx, "assets", false, -1)
	require.NoError(t, err)
	assert.Equal(t, 2, e.Profile().ReviewCards["assets"].LastQuality)
}

func TestDueReviewsUnion(t *testing.T) {
	e, clock := newTestEngine(t, nil)
	ctx := context.Background()

	// Two successful reviews: the card sits at a six-day interval while
	// the Leitner box is at two with a four-day interval.
	_, err := e.RecordPractice(ctx, "markets", true, 5)
	require.NoError(t, err)
	_, err = e.RecordPractice(ctx, "markets", true, 5)
	require.NoError(t, err)

	assert.Empty(t, e.GetDueReviews())

	// Five days out only the Leitner tracker considers it due.
	clock.Advance(5 * 24 * time.Hour)
	due := e.GetDueReviews()
	require.Len(t, due, 1)
	assert.Equal(t, "markets", due[0].ConceptID)
	assert.Equal(t, models.ReviewSourceLeitner, due[0].Source)

	// Two more days and the interval scheduler agrees, which takes
	// precedence.
	clock.Advance(2 * 24 * time.Hour)
	due = e.GetDueReviews()
	require.Len(t, due, 1)
	assert.Equal(t, models.ReviewSourceSM2, due[0].Source)
	assert.InDelta(t, 1.0, due[0].DaysOverdue, 0.01)
}

func TestNextLessonPrefersOverdueReviews(t *testing.T) {
	e, clock := newTestEngine(t, nil)

	_, err := e.RecordPractice(context.Background(), "markets", true, 4)
	require.NoError(t, err)
	clock.Advance(2 * 24 * time.Hour)

	lesson := e.GetOptimalNextLesson()
	assert.Equal(t, models.LessonReview, lesson.Type)
	assert.Equal(t, "markets", lesson.ConceptID)
	assert.Contains(t, DefaultFormats, lesson.Format)
}

func TestNextLessonColdStart(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	// With nothing mastered only the prerequisite-free concepts are
	// reachable.
	lesson := e.GetOptimalNextLesson()
	assert.Equal(t, models.LessonNew, lesson.Type)
	assert.Contains(t, []string{"markets", "assets"}, lesson.ConceptID)
	assert.NotEmpty(t, lesson.Format)
	assert.NotEmpty(t, lesson.Reason)
}

func masterConcept(t *testing.T, e *Engine, conceptID string) {
	t.Helper()
	for i := 0; i < 10; i++ {
		_, err := e.RecordPractice(context.Background(), conceptID, true, 5)
		require.NoError(t, err)
	}
}

func TestNextLessonCompleteWhenCurriculumExhausted(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	for _, c := range curriculum.Default().Concepts {
		masterConcept(t, e, c.ID)
	}

	lesson := e.GetOptimalNextLesson()
	assert.Equal(t, models.LessonComplete, lesson.Type)
	assert.Empty(t, lesson.ConceptID)
}

func TestPersonalizedPathOrdersPrerequisitesFirst(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	path := e.GeneratePersonalizedPath([]string{"chart-patterns"}, 0)
	assert.Equal(t, []string{"markets", "charts", "trends", "support-resistance", "chart-patterns"}, path)

	capped := e.GeneratePersonalizedPath([]string{"chart-patterns"}, 3)
	assert.Equal(t, []string{"markets", "charts", "trends"}, capped)
}

func TestPersonalizedPathSkipsMastered(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	masterConcept(t, e, "markets")
	masterConcept(t, e, "charts")

	path := e.GeneratePersonalizedPath([]string{"trends"}, 0)
	assert.Equal(t, []string{"trends"}, path)
}

func TestPersonalizedPathIgnoresUnknownTargets(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	assert.Empty(t, e.GeneratePersonalizedPath([]string{"options-greeks"}, 0))
}

func TestStreakTracking(t *testing.T) {
	e, clock := newTestEngine(t, nil)
	ctx := context.Background()

	_, err := e.RecordPractice(ctx, "markets", true, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Profile().Streak.Current)

	// Same day does not extend the streak.
	_, err = e.RecordPractice(ctx, "markets", true, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Profile().Streak.Current)

	clock.Advance(24 * time.Hour)
	_, err = e.RecordPractice(ctx, "markets", true, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, e.Profile().Streak.Current)

	// A three-day gap breaks it but the longest streak survives.
	clock.Advance(3 * 24 * time.Hour)
	_, err = e.RecordPractice(ctx, "markets", true, 4)
	require.NoError(t, err)
	profile := e.Profile()
	assert.Equal(t, 1, profile.Streak.Current)
	assert.Equal(t, 2, profile.Streak.Longest)
}

func TestDashboard(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	ctx := context.Background()

	masterConcept(t, e, "markets")
	_, err := e.RecordPractice(ctx, "assets", false, 1)
	require.NoError(t, err)
	require.NoError(t, e.RecordSession(ctx, 25, []string{"markets"}))

	snap := e.Dashboard()
	assert.Equal(t, "learner-1", snap.LearnerID)
	assert.Greater(t, snap.OverallMastery, 0.0)
	assert.Contains(t, snap.Strengths, "markets")
	assert.Contains(t, snap.Weaknesses, "assets")
	assert.Equal(t, 1, snap.CurrentStreak)
	assert.Equal(t, 25, snap.TotalStudyMinutes)
	assert.NotEmpty(t, snap.NextLesson.Type)
}

func TestProfileRoundTrip(t *testing.T) {
	store := &memStore{}
	e, clock := newTestEngine(t, store)
	ctx := context.Background()

	concepts := curriculum.Default().Concepts
	for i := 0; i < 50; i++ {
		// Interleave lesson requests so the bandits accumulate rewards.
		if i%4 == 0 {
			e.GetOptimalNextLesson()
		}
		id := concepts[i%len(concepts)].ID
		success := i%3 != 0
		_, err := e.RecordPractice(ctx, id, success, i%6)
		require.NoError(t, err)
		if i%10 == 9 {
			require.NoError(t, e.RecordSession(ctx, 20+i, nil))
			clock.Advance(26 * time.Hour)
		}
	}
	require.Greater(t, store.saves, 50)

	before := e.Profile()

	// A second engine built from the same store must reproduce the state
	// exactly.
	restored, err := New(ctx, "learner-1", curriculum.Default(), store, Config{Seed: 42}, nil)
	require.NoError(t, err)
	assert.Equal(t, before, restored.Profile())
}

func TestResetClearsState(t *testing.T) {
	store := &memStore{}
	e, _ := newTestEngine(t, store)
	ctx := context.Background()

	masterConcept(t, e, "markets")
	require.NotEmpty(t, e.Profile().Concepts)

	require.NoError(t, e.Reset(ctx))

	profile := e.Profile()
	assert.Empty(t, profile.Concepts)
	assert.Empty(t, profile.ReviewCards)
	assert.Equal(t, 0, profile.Streak.Current)
	assert.Zero(t, e.graph.Concept("markets").Mastery)
	assert.Empty(t, store.profile.Concepts)
}

func TestCorruptProfileStartsFresh(t *testing.T) {
	// The store contract maps an unreadable blob to (nil, nil).
	store := &memStore{profile: nil}
	e, err := New(context.Background(), "learner-1", curriculum.Default(), store, Config{}, nil)
	require.NoError(t, err)
	assert.Empty(t, e.Profile().Concepts)
}
