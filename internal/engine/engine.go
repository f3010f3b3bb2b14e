// Package engine composes the probabilistic models into one per-learner
// decision engine. Every practice event flows into the knowledge graph, the
// BKT filter, the IRT model and both spaced-repetition schedulers in a
// single synchronous update, then the profile is saved through the injected
// persistence port.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/learnengine/internal/analytics"
	"github.com/example/learnengine/internal/bandit"
	"github.com/example/learnengine/internal/bkt"
	"github.com/example/learnengine/internal/cogload"
	"github.com/example/learnengine/internal/curriculum"
	"github.com/example/learnengine/internal/graph"
	"github.com/example/learnengine/internal/irt"
	"github.com/example/learnengine/internal/spaced_repetition"
	"github.com/example/learnengine/internal/styles"
	"github.com/example/learnengine/internal/transfer"
	"github.com/example/learnengine/pkg/models"
)

// ProfileStore is the persistence port. Load returns (nil, nil) when no
// usable profile exists; the engine then starts fresh.
type ProfileStore interface {
	Load(ctx context.Context, learnerID string) (*models.LearnerProfile, error)
	Save(ctx context.Context, profile *models.LearnerProfile) error
}

// Engine is the per-learner decision engine. All methods are safe for
// concurrent use; one mutex serializes a learner's events.
type Engine struct {
	mu sync.Mutex

	learnerID string
	cfg       Config
	log       *zap.Logger
	store     ProfileStore

	graph     *graph.KnowledgeGraph
	tracer    *bkt.Tracer
	irt       *irt.Model
	sm2       *spaced_repetition.SM2
	cards     map[string]*models.ReviewCard
	leitner   *spaced_repetition.Leitner
	boxes     map[string]*models.LeitnerAssignment
	ucb       *bandit.UCB1
	thompson  *bandit.Thompson
	load      *cogload.Estimator
	transfer  *transfer.Estimator
	profiler  *styles.Profiler
	analytics *analytics.Engine

	streak            models.Streak
	totalStudyMinutes int
	lastFormat        string

	now func() time.Time
	rng *rand.Rand
}

// New builds an engine for one learner over the given curriculum, loading
// any persisted profile through the store. A nil store keeps all state in
// memory; a nil logger disables logging.
func New(ctx context.Context, learnerID string, cur *curriculum.Curriculum, store ProfileStore, cfg Config, logger *zap.Logger) (*Engine, error) {
	if cur == nil {
		return nil, fmt.Errorf("engine requires a curriculum")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	g := graph.New()
	for _, c := range cur.Concepts {
		g.AddConcept(c.ID, c.Category, c.Prerequisites, c.Difficulty, c.DurationMinutes)
	}

	e := &Engine{
		learnerID: learnerID,
		cfg:       cfg,
		log:       logger.With(zap.String("learner_id", learnerID)),
		store:     store,
		graph:     g,
		tracer:    bkt.NewTracer(cfg.BKT),
		irt:       irt.NewModel(),
		sm2:       spaced_repetition.NewSM2(),
		cards:     make(map[string]*models.ReviewCard),
		leitner:   spaced_repetition.NewLeitner(),
		boxes:     make(map[string]*models.LeitnerAssignment),
		ucb:       bandit.NewUCB1(cfg.Formats),
		thompson:  bandit.NewThompson(cfg.Formats, rng),
		load:      cogload.NewEstimator(),
		transfer:  transfer.NewEstimator(g),
		profiler:  styles.NewProfiler(),
		analytics: analytics.NewEngine(),
		now:       time.Now,
		rng:       rng,
	}

	if store != nil {
		profile, err := store.Load(ctx, learnerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %v", err)
		}
		if profile != nil {
			e.restore(profile)
		}
	}
	return e, nil
}

// SetClock overrides the time source, used by tests
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
	e.graph.SetClock(now)
	e.analytics.SetClock(now)
}

// LearnerID returns the learner this engine serves
func (e *Engine) LearnerID() string {
	return e.learnerID
}

// RecordPractice applies one practice outcome to every model and saves the
// profile. Quality is an optional 0-5 recall rating; pass a negative value
// to derive it from success. An unknown concept id is a no-op returning
// (nil, nil).
func (e *Engine) RecordPractice(ctx context.Context, conceptID string, success bool, quality int) (*models.PracticeResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	concept := e.graph.Concept(conceptID)
	if concept == nil {
		e.log.Debug("practice event for unknown concept", zap.String("concept_id", conceptID))
		return nil, nil
	}

	if quality < 0 {
		if success {
			quality = 4
		} else {
			quality = 2
		}
	}
	if quality > 5 {
		quality = 5
	}

	now := e.now()

	// Retention measurement for the forgetting curve, taken before the
	// models move.
	if !concept.LastPracticed.IsZero() {
		elapsed := now.Sub(concept.LastPracticed).Hours() / 24
		observed := 0.1
		if success {
			observed = 0.9
		}
		e.analytics.RecordRetention(conceptID, elapsed, observed)
	}

	e.graph.RecordPractice(conceptID, success)
	probability := e.tracer.Update(conceptID, success)
	theta := e.irt.UpdateAbility(conceptID, success)

	card, ok := e.cards[conceptID]
	if !ok {
		card = spaced_repetition.NewCard(conceptID)
		e.cards[conceptID] = card
	}
	e.sm2.Review(card, quality, now)

	box, ok := e.boxes[conceptID]
	if !ok {
		box = spaced_repetition.NewAssignment(conceptID)
		e.boxes[conceptID] = box
	}
	e.leitner.Review(box, success, now)

	// Close the loop on the last recommended format.
	if e.lastFormat != "" {
		reward := 0.0
		if success {
			reward = 1.0
		}
		reward = (reward + float64(quality)/5) / 2
		e.ucb.Update(e.lastFormat, reward)
		e.thompson.Update(e.lastFormat, success)
		e.profiler.RecordEngagement(e.lastFormat, reward)
		e.lastFormat = ""
	}

	e.touchStreak(now)

	result := &models.PracticeResult{
		ConceptID:   conceptID,
		Mastery:     concept.Mastery,
		Probability: probability,
		Theta:       theta,
		Interval:    card.Interval,
		NextReview:  card.NextReview,
		Box:         box.Box,
		Mastered:    e.tracer.IsMastered(conceptID),
	}
	return result, e.saveLocked(ctx)
}

// RecordSession records a completed study session and saves the profile
func (e *Engine) RecordSession(ctx context.Context, durationMinutes int, masteredConceptIDs []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if durationMinutes < 0 {
		durationMinutes = 0
	}
	now := e.now()
	e.analytics.RecordSession(models.SessionRecord{
		ID:               uuid.NewString(),
		StartedAt:        now,
		DurationMinutes:  durationMinutes,
		MasteredConcepts: append([]string(nil), masteredConceptIDs...),
	})
	e.totalStudyMinutes += durationMinutes
	e.touchStreak(now)
	return e.saveLocked(ctx)
}

// GetDueReviews returns the union of SM-2-due and Leitner-due concepts.
// SM-2 ordering (most overdue first) is authoritative; concepts due only
// under Leitner follow in Leitner overdue order.
func (e *Engine) GetDueReviews() []models.Review {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dueReviewsLocked()
}

func (e *Engine) dueReviewsLocked() []models.Review {
	now := e.now()
	var out []models.Review
	seen := make(map[string]bool)

	for _, card := range e.sm2.DueCards(e.cards, now) {
		out = append(out, models.Review{
			ConceptID:   card.ConceptID,
			DaysOverdue: e.sm2.DaysOverdue(card, now),
			Source:      models.ReviewSourceSM2,
		})
		seen[card.ConceptID] = true
	}
	for _, a := range e.leitner.DueAssignments(e.boxes, now) {
		if seen[a.ConceptID] {
			continue
		}
		out = append(out, models.Review{
			ConceptID:   a.ConceptID,
			DaysOverdue: e.leitner.DaysOverdue(a, now),
			Source:      models.ReviewSourceLeitner,
		})
	}
	return out
}

// GetOptimalNextLesson recommends the next activity: overdue reviews first,
// then the most informative available new concept, or completion when the
// curriculum is exhausted.
func (e *Engine) GetOptimalNextLesson() models.Lesson {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nextLessonLocked()
}

func (e *Engine) nextLessonLocked() models.Lesson {
	due := e.dueReviewsLocked()
	if len(due) > 0 {
		return models.Lesson{
			Type:      models.LessonReview,
			ConceptID: due[0].ConceptID,
			Format:    e.pickFormatLocked(),
			Reason:    fmt.Sprintf("%d concepts are due for review; %s is the most overdue", len(due), due[0].ConceptID),
		}
	}

	mastered := make(map[string]bool)
	for _, c := range e.graph.Concepts() {
		if c.Mastery >= e.cfg.MasteredThreshold {
			mastered[c.ID] = true
		}
	}
	candidates := e.graph.NextConcepts(mastered)
	if len(candidates) == 0 {
		return models.Lesson{
			Type:   models.LessonComplete,
			Reason: "all available concepts are mastered",
		}
	}

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	ordered := e.transfer.RecommendLearningOrder(ids)
	if len(ordered) > 5 {
		ordered = ordered[:5]
	}

	pick := e.irt.SelectNextItem(ordered)
	if pick == "" {
		pick = ordered[0]
	}

	// Back off to the lightest candidate when the informative pick would
	// overload the learner.
	concept := e.graph.Concept(pick)
	elements := len(concept.Prerequisites) + len(e.graph.Dependents(pick))
	load := e.load.Estimate(elements, concept.Difficulty, e.tracer.Probability(pick), cogload.Presentation{WellStructured: true})
	reason := fmt.Sprintf("%s is available and will sharpen the ability estimate most", pick)
	if e.load.Assess(load).Status == "overloaded" {
		lightest, lightestLoad := pick, load.Total()
		for _, id := range ordered {
			c := e.graph.Concept(id)
			el := len(c.Prerequisites) + len(e.graph.Dependents(id))
			l := e.load.Estimate(el, c.Difficulty, e.tracer.Probability(id), cogload.Presentation{WellStructured: true})
			if l.Total() < lightestLoad {
				lightest, lightestLoad = id, l.Total()
			}
		}
		pick = lightest
		reason = fmt.Sprintf("%s keeps cognitive load manageable", pick)
	}

	return models.Lesson{
		Type:      models.LessonNew,
		ConceptID: pick,
		Format:    e.pickFormatLocked(),
		Reason:    reason,
	}
}

// pickFormatLocked selects a content format with the configured bandit
// policy and remembers it so the next practice outcome rewards it
func (e *Engine) pickFormatLocked() string {
	var format string
	if e.cfg.Policy == PolicyUCB1 {
		format = e.ucb.Select()
	} else {
		format = e.thompson.Select()
	}
	e.lastFormat = format
	return format
}

// GeneratePersonalizedPath returns an ordered lesson plan reaching the
// target concepts: prerequisites first, already-mastered concepts skipped,
// capped at maxLessons when positive. Unknown targets are ignored.
func (e *Engine) GeneratePersonalizedPath(targetConceptIDs []string, maxLessons int) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var path []string
	visited := make(map[string]bool)

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		c := e.graph.Concept(id)
		if c == nil {
			return
		}
		for _, pre := range c.Prerequisites {
			visit(pre)
		}
		if c.Mastery < e.cfg.MasteredThreshold {
			path = append(path, id)
		}
	}
	for _, id := range targetConceptIDs {
		visit(id)
	}

	if maxLessons > 0 && len(path) > maxLessons {
		path = path[:maxLessons]
	}
	return path
}

// Dashboard assembles the aggregate snapshot for the session layer
func (e *Engine) Dashboard() models.DashboardSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	concepts := e.graph.Concepts()
	overall := 0.0
	for _, c := range concepts {
		overall += c.Mastery
	}
	if len(concepts) > 0 {
		overall /= float64(len(concepts))
	}

	partition := e.analytics.IdentifyStrengthsWeaknesses(concepts)
	due := e.dueReviewsLocked()

	return models.DashboardSnapshot{
		LearnerID:         e.learnerID,
		OverallMastery:    overall,
		CurrentStreak:     e.streak.Current,
		LongestStreak:     e.streak.Longest,
		DueReviews:        len(due),
		Strengths:         partition.Mastered,
		Weaknesses:        partition.Struggling,
		StaleConcepts:     partition.Stale,
		Consistency:       e.analytics.StudyConsistency(),
		LearningVelocity:  e.analytics.LearningVelocity(),
		LearningStyle:     e.profiler.VARK(),
		KolbStyle:         e.profiler.Kolb(),
		NextLesson:        e.nextLessonLocked(),
		TotalStudyMinutes: e.totalStudyMinutes,
	}
}

// EstimateWorkload scores the cognitive load of studying a concept now;
// ok is false for unknown concepts
func (e *Engine) EstimateWorkload(conceptID string) (cogload.Load, cogload.Assessment, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c := e.graph.Concept(conceptID)
	if c == nil {
		return cogload.Load{}, cogload.Assessment{}, false
	}
	elements := len(c.Prerequisites) + len(e.graph.Dependents(conceptID))
	load := e.load.Estimate(elements, c.Difficulty, e.tracer.Probability(conceptID), cogload.Presentation{WellStructured: true})
	return load, e.load.Assess(load), true
}

// MasteryVector returns the learner's mastery in the curriculum's fixed
// concept order, for the collaborative index
func (e *Engine) MasteryVector() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.MasteryVector()
}

// ConceptIDs returns the curriculum's fixed concept ordering
func (e *Engine) ConceptIDs() []string {
	return e.graph.ConceptIDs()
}

// Profile snapshots the complete learner state
func (e *Engine) Profile() *models.LearnerProfile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Reset wipes the learner's state back to a fresh profile and saves it.
// This is the only deletion path.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.log.Info("resetting learner profile")
	e.restore(models.NewLearnerProfile(e.learnerID))
	return e.saveLocked(ctx)
}

func (e *Engine) touchStreak(now time.Time) {
	day := now.Format("2006-01-02")
	if e.streak.LastStudyDate == day {
		return
	}
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")
	if e.streak.LastStudyDate == yesterday {
		e.streak.Current++
	} else {
		e.streak.Current = 1
	}
	if e.streak.Current > e.streak.Longest {
		e.streak.Longest = e.streak.Current
	}
	e.streak.LastStudyDate = day
}

func (e *Engine) saveLocked(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	if err := e.store.Save(ctx, e.snapshotLocked()); err != nil {
		e.log.Error("failed to save profile", zap.Error(err))
		return err
	}
	return nil
}

// snapshotLocked serializes all component state into one profile blob
func (e *Engine) snapshotLocked() *models.LearnerProfile {
	profile := models.NewLearnerProfile(e.learnerID)
	profile.Concepts = e.graph.ExportProgress()
	for id, card := range e.cards {
		copied := *card
		profile.ReviewCards[id] = &copied
	}
	for id, box := range e.boxes {
		copied := *box
		profile.Leitner[id] = &copied
	}
	profile.Knowledge = e.tracer.Export()
	profile.Ability, profile.Items = e.irt.Export()
	profile.UCBArms = e.ucb.Export()
	profile.ThompsonArms = e.thompson.Export()
	profile.Engagement = e.profiler.Export()
	profile.Sessions, profile.Retention = e.analytics.Export()
	profile.Streak = e.streak
	profile.TotalStudyMinutes = e.totalStudyMinutes
	return profile
}

// restore applies a persisted profile to every component
func (e *Engine) restore(profile *models.LearnerProfile) {
	e.graph.RestoreProgress(profile.Concepts)

	e.cards = make(map[string]*models.ReviewCard, len(profile.ReviewCards))
	for id, card := range profile.ReviewCards {
		if card == nil || e.graph.Concept(id) == nil {
			continue
		}
		copied := *card
		e.cards[id] = &copied
	}
	e.boxes = make(map[string]*models.LeitnerAssignment, len(profile.Leitner))
	for id, box := range profile.Leitner {
		if box == nil || e.graph.Concept(id) == nil {
			continue
		}
		copied := *box
		e.boxes[id] = &copied
	}

	e.tracer.Restore(profile.Knowledge)
	e.irt.Restore(profile.Ability, profile.Items)
	e.ucb.Restore(profile.UCBArms)
	e.thompson.Restore(profile.ThompsonArms)
	e.profiler.Restore(profile.Engagement)
	e.analytics.Restore(profile.Sessions, profile.Retention)
	e.streak = profile.Streak
	e.totalStudyMinutes = profile.TotalStudyMinutes
	e.lastFormat = ""
}
