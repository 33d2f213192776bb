// internal/application/create-application-record/repository.go
package createapplicationrecord

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"internship-portal/internal/common/database"
	"internship-portal/internal/common/logger"
	"internship-portal/internal/models"

	"github.com/lib/pq"
)

const TaskType = "create-application-record"

var (
	ErrDuplicateApplication = errors.New("DUPLICATE_APPLICATION")
	ErrDuplicateIdentifier  = errors.New("DUPLICATE_APPLICATION_ID")
	ErrStorageUnavailable   = errors.New("STORAGE_UNAVAILABLE")
	ErrApplicationNotFound  = errors.New("APPLICATION_NOT_FOUND")
)

const uniqueViolation = "23505"

const selectColumns = `
	id, application_id, full_name, email, phone, university, degree, major,
	graduation_year, cgpa, preferred_domain, skills, resume_link,
	github_profile, linkedin_profile, cover_letter, status,
	submitted_at, created_at, updated_at`

// Repository stores applications in postgres.
type Repository struct {
	db     *sql.DB
	config *Config
	logger logger.Logger
}

func NewRepository(config *Config, db *sql.DB, log logger.Logger) *Repository {
	return &Repository{
		db:     db,
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (r *Repository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.config.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.config.Timeout)
}

// ExistsByEmail reports whether an application with this normalized email is stored.
func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM applications WHERE email = $1
		)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: duplicate check failed: %v", ErrStorageUnavailable, err)
	}
	return exists, nil
}

// Insert writes app and returns it with the store key filled in. A unique
// violation on email is reported as ErrDuplicateApplication.
func (r *Repository) Insert(ctx context.Context, app models.Application) (models.Application, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO applications (
			application_id, full_name, email, phone, university, degree, major,
			graduation_year, cgpa, preferred_domain, skills, resume_link,
			github_profile, linkedin_profile, cover_letter, status,
			submitted_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17, $17)
		RETURNING id`,
		app.ApplicationID,
		app.FullName,
		app.Email,
		app.Phone,
		app.University,
		app.Degree,
		app.Major,
		app.GraduationYear,
		app.CGPA,
		app.PreferredDomain,
		pq.Array(app.Skills),
		app.ResumeLink,
		app.GithubProfile,
		app.LinkedinProfile,
		app.CoverLetter,
		string(app.Status),
		app.SubmittedAt,
	).Scan(&app.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			if pqErr.Constraint == database.ApplicationsApplicationIDKey {
				return models.Application{}, fmt.Errorf("%w: %s", ErrDuplicateIdentifier, app.ApplicationID)
			}
			return models.Application{}, fmt.Errorf("%w: email %s", ErrDuplicateApplication, app.Email)
		}
		return models.Application{}, fmt.Errorf("%w: insert failed: %v", ErrStorageUnavailable, err)
	}

	app.CreatedAt = app.SubmittedAt
	app.UpdatedAt = app.SubmittedAt

	r.logger.Info("application record created", map[string]interface{}{
		"applicationId": app.ApplicationID,
		"id":            app.ID,
	})
	return app, nil
}

// GetByApplicationID loads one application by its public identifier.
func (r *Repository) GetByApplicationID(ctx context.Context, applicationID string) (models.Application, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM applications WHERE application_id = $1`, applicationID)
	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Application{}, fmt.Errorf("%w: %s", ErrApplicationNotFound, applicationID)
	}
	if err != nil {
		return models.Application{}, fmt.Errorf("%w: get application: %v", ErrStorageUnavailable, err)
	}
	return app, nil
}

// List returns one page of applications, newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, filter models.ListFilter) (models.Page, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		total int64
		rows  *sql.Rows
		err   error
	)

	if filter.Status != "" {
		err = r.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM applications WHERE status = $1`, string(filter.Status)).Scan(&total)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications`).Scan(&total)
	}
	if err != nil {
		return models.Page{}, fmt.Errorf("%w: count applications: %v", ErrStorageUnavailable, err)
	}

	if filter.Status != "" {
		rows, err = r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM applications
			WHERE status = $1
			ORDER BY submitted_at DESC, id DESC
			LIMIT $2 OFFSET $3`, string(filter.Status), filter.Limit, filter.Offset())
	} else {
		rows, err = r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM applications
			ORDER BY submitted_at DESC, id DESC
			LIMIT $1 OFFSET $2`, filter.Limit, filter.Offset())
	}
	if err != nil {
		return models.Page{}, fmt.Errorf("%w: list applications: %v", ErrStorageUnavailable, err)
	}

	apps, err := scanApplications(rows)
	if err != nil {
		return models.Page{}, err
	}
	return models.NewPage(apps, total, filter), nil
}

// ListAll returns every application, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Application, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM applications ORDER BY submitted_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: list applications: %v", ErrStorageUnavailable, err)
	}
	return scanApplications(rows)
}

// Stats counts applications per status.
func (r *Repository) Stats(ctx context.Context) (models.Stats, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return models.Stats{}, fmt.Errorf("%w: stats: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var stats models.Stats
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return models.Stats{}, fmt.Errorf("%w: scan stats: %v", ErrStorageUnavailable, err)
		}
		stats.Add(models.Status(status), count)
	}
	if err := rows.Err(); err != nil {
		return models.Stats{}, fmt.Errorf("%w: stats: %v", ErrStorageUnavailable, err)
	}
	return stats, nil
}

// DeleteAll removes every application and returns how many were deleted.
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM applications`)
	if err != nil {
		return 0, fmt.Errorf("%w: delete applications: %v", ErrStorageUnavailable, err)
	}
	n, _ := res.RowsAffected()
	r.logger.Warn("all applications deleted", map[string]interface{}{"count": n})
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (models.Application, error) {
	var (
		app    models.Application
		status string
	)
	err := row.Scan(
		&app.ID,
		&app.ApplicationID,
		&app.FullName,
		&app.Email,
		&app.Phone,
		&app.University,
		&app.Degree,
		&app.Major,
		&app.GraduationYear,
		&app.CGPA,
		&app.PreferredDomain,
		pq.Array(&app.Skills),
		&app.ResumeLink,
		&app.GithubProfile,
		&app.LinkedinProfile,
		&app.CoverLetter,
		&status,
		&app.SubmittedAt,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	app.Status = models.Status(status)
	return app, err
}

func scanApplications(rows *sql.Rows) ([]models.Application, error) {
	defer rows.Close()

	apps := []models.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan application: %v", ErrStorageUnavailable, err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate applications: %v", ErrStorageUnavailable, err)
	}
	return apps, nil
}
