package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-advisor-api/internal/models"
)

// PlanRepository persists course plans in the course_plans table. Entries live
// in a JSONB array; every mutation is a single UPDATE so concurrent add and
// remove calls never overwrite each other's entries.
type PlanRepository struct {
	db *sqlx.DB
}

// NewPlanRepository constructs the repository.
func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Get fetches a plan document. Returns sql.ErrNoRows when it does not exist.
func (r *PlanRepository) Get(ctx context.Context, userID, planID string) (*models.Plan, error) {
	const query = `SELECT user_id, plan_id, title, courses, session_id, created_at, modified
FROM course_plans WHERE user_id = $1 AND plan_id = $2`
	var plan models.Plan
	if err := r.db.GetContext(ctx, &plan, query, userID, planID); err != nil {
		return nil, err
	}
	return &plan, nil
}

// List returns plan summaries for a user, most recently modified first.
func (r *PlanRepository) List(ctx context.Context, userID string) ([]models.PlanSummary, error) {
	const query = `SELECT plan_id, title, COALESCE(jsonb_array_length(courses), 0) AS course_count, modified
FROM course_plans WHERE user_id = $1 ORDER BY modified DESC, plan_id ASC`
	var plans []models.PlanSummary
	if err := r.db.SelectContext(ctx, &plans, query, userID); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

// Create inserts a new plan with an empty course list.
func (r *PlanRepository) Create(ctx context.Context, plan *models.Plan) error {
	const query = `INSERT INTO course_plans (user_id, plan_id, title, courses, session_id, created_at, modified)
VALUES (:user_id, :plan_id, :title, :courses, :session_id, :created_at, :modified)`
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.Modified = now
	if plan.Courses == nil {
		plan.Courses = models.PlanEntries{}
	}
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

// AppendEntry adds entry to the plan's courses with set-union semantics: an
// entry equal to one already stored is not appended again. A NULL courses
// column is treated as empty. Returns sql.ErrNoRows when the plan is missing.
func (r *PlanRepository) AppendEntry(ctx context.Context, userID, planID string, entry models.PlanEntry) error {
	const query = `UPDATE course_plans
SET courses = CASE
		WHEN EXISTS (SELECT 1 FROM jsonb_array_elements(COALESCE(courses, '[]'::jsonb)) AS e(value) WHERE e.value = $3::jsonb)
			THEN COALESCE(courses, '[]'::jsonb)
		ELSE COALESCE(courses, '[]'::jsonb) || jsonb_build_array($3::jsonb)
	END,
	modified = $4
WHERE user_id = $1 AND plan_id = $2`
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal plan entry: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, userID, planID, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("append plan entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("append plan entry rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RemoveEntry deletes every entry whose sectionId equals sectionID. The row is
// only touched when a match exists, so removed is false both for a missing
// plan and for a plan without the section; callers that need to tell them
// apart read the plan first.
func (r *PlanRepository) RemoveEntry(ctx context.Context, userID, planID, sectionID string) (bool, error) {
	const query = `UPDATE course_plans
SET courses = COALESCE((
		SELECT jsonb_agg(e.value ORDER BY e.ord)
		FROM jsonb_array_elements(courses) WITH ORDINALITY AS e(value, ord)
		WHERE e.value->>'sectionId' IS DISTINCT FROM $3
	), '[]'::jsonb),
	modified = $4
WHERE user_id = $1 AND plan_id = $2
	AND EXISTS (SELECT 1 FROM jsonb_array_elements(COALESCE(courses, '[]'::jsonb)) AS m(value) WHERE m.value->>'sectionId' = $3)`
	res, err := r.db.ExecContext(ctx, query, userID, planID, sectionID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("remove plan entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove plan entry rows affected: %w", err)
	}
	return affected > 0, nil
}

// SetSession records the agent session bound to a plan. A nil sessionID
// clears it. Returns sql.ErrNoRows when the plan is missing.
func (r *PlanRepository) SetSession(ctx context.Context, userID, planID string, sessionID *string) error {
	const query = `UPDATE course_plans SET session_id = $3, modified = $4 WHERE user_id = $1 AND plan_id = $2`
	res, err := r.db.ExecContext(ctx, query, userID, planID, sessionID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set plan session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set plan session rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Ping checks database connectivity for readiness probes.
func (r *PlanRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
