// Package artifacts provides PostgreSQL persistence for tailoring sessions
// and the rendered documents they produce.
package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-tailor/internal/types"
)

// Store wraps a PostgreSQL connection pool
type Store struct {
	pool *pgxpool.Pool
}

// Session is one recorded tailoring run.
type Session struct {
	ID             uuid.UUID
	ResumeID       string
	JobDescription string
	ATSScore       *int
	Status         string
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// Artifact is a rendered document stored against a session.
type Artifact struct {
	ID          uuid.UUID
	SessionID   uuid.UUID
	Kind        string
	Filename    string
	ContentType string
	SizeBytes   int
	CreatedAt   time.Time
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the session and artifact tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tailoring_sessions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			resume_id TEXT NOT NULL,
			resume JSONB NOT NULL,
			job_description TEXT NOT NULL,
			result JSONB,
			ats_score INT,
			status TEXT NOT NULL DEFAULT 'running',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMPTZ
		);
		CREATE TABLE IF NOT EXISTS session_artifacts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			session_id UUID NOT NULL REFERENCES tailoring_sessions(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			filename TEXT NOT NULL,
			content_type TEXT NOT NULL,
			data BYTEA NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (session_id, kind)
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_resume_id
			ON tailoring_sessions (resume_id, created_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// StartSession records a new tailoring session and returns its ID
func (s *Store) StartSession(ctx context.Context, resume *types.Resume, jobDescription string) (uuid.UUID, error) {
	resumeJSON, err := json.Marshal(resume)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal resume: %w", err)
	}

	var id uuid.UUID
	err = s.pool.QueryRow(ctx,
		`INSERT INTO tailoring_sessions (resume_id, resume, job_description, status)
		 VALUES ($1, $2, $3, 'running')
		 RETURNING id`,
		resume.ID, resumeJSON, jobDescription,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// CompleteSession stores the tailoring result and marks the session completed
func (s *Store) CompleteSession(ctx context.Context, sessionID uuid.UUID, result *types.TailorResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE tailoring_sessions
		 SET result = $1, ats_score = $2, status = 'completed', completed_at = NOW()
		 WHERE id = $3`,
		resultJSON, result.ATSScore, sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete session: %w", err)
	}
	return nil
}

// FailSession marks the session as failed
func (s *Store) FailSession(ctx context.Context, sessionID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE tailoring_sessions SET status = 'failed', completed_at = NOW() WHERE id = $1`,
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark session failed: %w", err)
	}
	return nil
}

// LatestSession returns the most recent session for a resume, or nil when
// none exists
func (s *Store) LatestSession(ctx context.Context, resumeID string) (*Session, error) {
	var session Session
	err := s.pool.QueryRow(ctx,
		`SELECT id, resume_id, job_description, ats_score, status, created_at, completed_at
		 FROM tailoring_sessions
		 WHERE resume_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		resumeID,
	).Scan(&session.ID, &session.ResumeID, &session.JobDescription,
		&session.ATSScore, &session.Status, &session.CreatedAt, &session.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest session: %w", err)
	}
	return &session, nil
}

// SessionResult returns the stored tailoring result for a session, or nil
// when the session has not completed
func (s *Store) SessionResult(ctx context.Context, sessionID uuid.UUID) (*types.TailorResult, error) {
	var resultJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT result FROM tailoring_sessions WHERE id = $1`,
		sessionID,
	).Scan(&resultJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session result: %w", err)
	}
	if resultJSON == nil {
		return nil, nil
	}

	var result types.TailorResult
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, fmt.Errorf("failed to decode session result: %w", err)
	}
	return &result, nil
}

// SaveArtifact stores a rendered document for a session, replacing any
// previous artifact of the same kind
func (s *Store) SaveArtifact(ctx context.Context, sessionID uuid.UUID, kind, filename, contentType string, data []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO session_artifacts (session_id, kind, filename, content_type, data)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (session_id, kind) DO UPDATE
		 SET filename = $3, content_type = $4, data = $5, created_at = NOW()`,
		sessionID, kind, filename, contentType, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", kind, err)
	}
	return nil
}

// GetArtifact retrieves a stored document by session and kind. Returns nil
// data when no artifact of that kind exists
func (s *Store) GetArtifact(ctx context.Context, sessionID uuid.UUID, kind string) ([]byte, string, error) {
	var data []byte
	var filename string
	err := s.pool.QueryRow(ctx,
		`SELECT data, filename FROM session_artifacts WHERE session_id = $1 AND kind = $2`,
		sessionID, kind,
	).Scan(&data, &filename)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to get artifact %s: %w", kind, err)
	}
	return data, filename, nil
}

// ListArtifacts returns metadata for all artifacts of a session, newest first
func (s *Store) ListArtifacts(ctx context.Context, sessionID uuid.UUID) ([]Artifact, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, session_id, kind, filename, content_type, length(data), created_at
		 FROM session_artifacts
		 WHERE session_id = $1
		 ORDER BY created_at DESC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []Artifact
	for rows.Next() {
		var a Artifact
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Kind, &a.Filename,
			&a.ContentType, &a.SizeBytes, &a.CreatedAt); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}
