package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/anhth20011/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/anhth20011/dockprep/pkg/errors"
)

// JobRecord is one generated-package history entry.
type JobRecord struct {
	ID           string          `json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	ReceptorName string          `json:"receptor_name"`
	LigandName   string          `json:"ligand_name"`
	Params       json.RawMessage `json:"params"`
	ArtifactKey  string          `json:"artifact_key,omitempty"`
	ArtifactSize int64           `json:"artifact_size"`
}

// JobRepository persists job history in the docking_jobs table.
type JobRepository struct {
	db  *sql.DB
	log logging.Logger
}

// NewJobRepository wires a repository over an open connection.
func NewJobRepository(conn *Connection, log logging.Logger) *JobRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &JobRepository{db: conn.DB(), log: log.Named("jobs_repo")}
}

// SaveJob inserts one history record.
func (r *JobRepository) SaveJob(ctx context.Context, rec JobRecord) error {
	const q = `
		INSERT INTO docking_jobs (id, created_at, receptor_name, ligand_name, params, artifact_key, artifact_size)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.CreatedAt, rec.ReceptorName, rec.LigandName,
		rec.Params, nullIfEmpty(rec.ArtifactKey), rec.ArtifactSize)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodeDatabaseError, "inserting job %s", rec.ID)
	}
	return nil
}

// GetJob fetches one history record by ID.
func (r *JobRepository) GetJob(ctx context.Context, id string) (*JobRecord, error) {
	const q = `
		SELECT id, created_at, receptor_name, ligand_name, params, artifact_key, artifact_size
		FROM docking_jobs WHERE id = $1`

	var rec JobRecord
	var artifactKey sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&rec.ID, &rec.CreatedAt, &rec.ReceptorName, &rec.LigandName,
		&rec.Params, &artifactKey, &rec.ArtifactSize)
	if err == sql.ErrNoRows {
		return nil, errors.Newf(errors.ErrCodeNotFound, "no job %q", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeDatabaseError, "fetching job %s", id)
	}
	rec.ArtifactKey = artifactKey.String
	return &rec, nil
}

// ListJobs returns history records newest-first.
func (r *JobRepository) ListJobs(ctx context.Context, limit, offset int) ([]JobRecord, error) {
	const q = `
		SELECT id, created_at, receptor_name, ligand_name, params, artifact_key, artifact_size
		FROM docking_jobs ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "listing jobs")
	}
	defer rows.Close()

	var out []JobRecord
	for rows.Next() {
		var rec JobRecord
		var artifactKey sql.NullString
		if err := rows.Scan(
			&rec.ID, &rec.CreatedAt, &rec.ReceptorName, &rec.LigandName,
			&rec.Params, &artifactKey, &rec.ArtifactSize); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scanning job row")
		}
		rec.ArtifactKey = artifactKey.String
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "iterating job rows")
	}
	return out, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
