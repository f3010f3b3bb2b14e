package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/learnengine/pkg/models"
)

// ProfileRepository persists learner profiles as versioned JSON blobs
type ProfileRepository struct {
	log *zap.Logger
}

// NewProfileRepository creates a new repository instance
func NewProfileRepository(logger *zap.Logger) *ProfileRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileRepository{log: logger}
}

// Load returns the stored profile for a learner. A missing row, an
// unreadable blob or an unknown version all return (nil, nil) so the caller
// starts the learner fresh instead of failing.
func (r *ProfileRepository) Load(ctx context.Context, learnerID string) (*models.LearnerProfile, error) {
	var row struct {
		Version int    `db:"version"`
		Data    string `db:"data"`
	}
	query := DB.Rebind("SELECT version, data FROM profiles WHERE learner_id = ?")
	err := DB.GetContext(ctx, &row, query, learnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %v", err)
	}

	if row.Version > models.ProfileVersion {
		r.log.Warn("profile version is newer than this build, starting fresh",
			zap.String("learner_id", learnerID),
			zap.Int("version", row.Version))
		return nil, nil
	}

	var profile models.LearnerProfile
	if err := json.Unmarshal([]byte(row.Data), &profile); err != nil {
		r.log.Warn("stored profile is unreadable, starting fresh",
			zap.String("learner_id", learnerID),
			zap.Error(err))
		return nil, nil
	}
	return &profile, nil
}

// Save upserts the learner's profile blob
func (r *ProfileRepository) Save(ctx context.Context, profile *models.LearnerProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %v", err)
	}

	query := DB.Rebind(`
		INSERT INTO profiles (learner_id, version, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (learner_id) DO UPDATE SET
			version = excluded.version,
			data = excluded.data,
			updated_at = excluded.updated_at
	`)
	if _, err := DB.ExecContext(ctx, query, profile.LearnerID, profile.Version, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save profile: %v", err)
	}
	return nil
}

// Delete removes a learner's profile
func (r *ProfileRepository) Delete(ctx context.Context, learnerID string) error {
	query := DB.Rebind("DELETE FROM profiles WHERE learner_id = ?")
	if _, err := DB.ExecContext(ctx, query, learnerID); err != nil {
		return fmt.Errorf("failed to delete profile: %v", err)
	}
	return nil
}

// LearnerIDs lists every learner with a stored profile
func (r *ProfileRepository) LearnerIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := DB.SelectContext(ctx, &ids, "SELECT learner_id FROM profiles ORDER BY learner_id"); err != nil {
		return nil, fmt.Errorf("failed to list learners: %v", err)
	}
	return ids, nil
}
