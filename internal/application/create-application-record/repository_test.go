// internal/application/create-application-record/repository_test.go
package createapplicationrecord

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"internship-portal/internal/common/database"
	"internship-portal/internal/common/logger"
	"internship-portal/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var columns = []string{
	"id", "application_id", "full_name", "email", "phone", "university", "degree", "major",
	"graduation_year", "cgpa", "preferred_domain", "skills", "resume_link",
	"github_profile", "linkedin_profile", "cover_letter", "status",
	"submitted_at", "created_at", "updated_at",
}

var submittedAt = time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

func newTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(&Config{Timeout: time.Second}, db, logger.NewTestLogger(t)), mock
}

func createTestApplication() models.Application {
	return models.NewApplication("INT-2026-0001", models.Submission{
		FullName:        "Asha Rao",
		Email:           "asha@example.com",
		Phone:           "9876543210",
		University:      "IIT Madras",
		Degree:          "B.Tech",
		Major:           "Computer Science",
		GraduationYear:  2026,
		CGPA:            8.7,
		PreferredDomain: "Web Development",
		Skills:          []string{"Go", "React"},
	}, submittedAt)
}

func addRow(rows *sqlmock.Rows, id int64, appID, email, status string) *sqlmock.Rows {
	return rows.AddRow(
		id, appID, "Asha Rao", email, "9876543210", "IIT Madras", "B.Tech", "Computer Science",
		2026, 8.7, "Web Development", "{Go,React}", "", "", "", "", status,
		submittedAt, submittedAt, submittedAt,
	)
}

func insertArgs(app models.Application) []driver.Value {
	return []driver.Value{
		app.ApplicationID, app.FullName, app.Email, app.Phone, app.University, app.Degree, app.Major,
		app.GraduationYear, app.CGPA, app.PreferredDomain, sqlmock.AnyArg(), "", "", "", "",
		"pending", app.SubmittedAt,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestRepository_ExistsByEmail(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("asha@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByEmail(context.Background(), "asha@example.com")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ExistsByEmail_StoreFailure(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("asha@example.com").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.ExistsByEmail(context.Background(), "asha@example.com")

	assert.True(t, errors.Is(err, ErrStorageUnavailable))
}

func TestRepository_Insert_Success(t *testing.T) {
	repo, mock := newTestRepository(t)
	app := createTestApplication()

	mock.ExpectQuery(`INSERT INTO applications`).
		WithArgs(insertArgs(app)...).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	stored, err := repo.Insert(context.Background(), app)

	require.NoError(t, err)
	assert.Equal(t, int64(42), stored.ID)
	assert.Equal(t, "INT-2026-0001", stored.ApplicationID)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Equal(t, int64(0), app.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Insert_EmailUniqueViolation(t *testing.T) {
	repo, mock := newTestRepository(t)
	app := createTestApplication()

	mock.ExpectQuery(`INSERT INTO applications`).
		WithArgs(insertArgs(app)...).
		WillReturnError(&pq.Error{Code: "23505", Constraint: database.ApplicationsEmailKey})

	_, err := repo.Insert(context.Background(), app)

	assert.True(t, errors.Is(err, ErrDuplicateApplication))
	assert.False(t, errors.Is(err, ErrStorageUnavailable))
}

func TestRepository_Insert_IdentifierUniqueViolation(t *testing.T) {
	repo, mock := newTestRepository(t)
	app := createTestApplication()

	mock.ExpectQuery(`INSERT INTO applications`).
		WithArgs(insertArgs(app)...).
		WillReturnError(&pq.Error{Code: "23505", Constraint: database.ApplicationsApplicationIDKey})

	_, err := repo.Insert(context.Background(), app)

	assert.True(t, errors.Is(err, ErrDuplicateIdentifier))
}

func TestRepository_Insert_StoreFailure(t *testing.T) {
	repo, mock := newTestRepository(t)
	app := createTestApplication()

	mock.ExpectQuery(`INSERT INTO applications`).
		WithArgs(insertArgs(app)...).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Insert(context.Background(), app)

	assert.True(t, errors.Is(err, ErrStorageUnavailable))
}

func TestRepository_GetByApplicationID(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT .+ FROM applications WHERE application_id = \$1`).
		WithArgs("INT-2026-0001").
		WillReturnRows(addRow(sqlmock.NewRows(columns), 1, "INT-2026-0001", "asha@example.com", "reviewed"))

	app, err := repo.GetByApplicationID(context.Background(), "INT-2026-0001")

	require.NoError(t, err)
	assert.Equal(t, "INT-2026-0001", app.ApplicationID)
	assert.Equal(t, models.StatusReviewed, app.Status)
	assert.Equal(t, []string{"Go", "React"}, app.Skills)
	assert.Equal(t, 2026, app.GraduationYear)
}

func TestRepository_GetByApplicationID_NotFound(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT .+ FROM applications WHERE application_id = \$1`).
		WithArgs("INT-2026-9999").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByApplicationID(context.Background(), "INT-2026-9999")

	assert.True(t, errors.Is(err, ErrApplicationNotFound))
}

func TestRepository_List_WithStatus(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM applications WHERE status = \$1`).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(12)))

	rows := sqlmock.NewRows(columns)
	addRow(rows, 12, "INT-2026-0012", "a@example.com", "pending")
	addRow(rows, 11, "INT-2026-0011", "b@example.com", "pending")
	mock.ExpectQuery(`ORDER BY submitted_at DESC`).
		WithArgs("pending", 5, 5).
		WillReturnRows(rows)

	page, err := repo.List(context.Background(), models.ListFilter{Status: models.StatusPending, Page: 2, Limit: 5})

	require.NoError(t, err)
	assert.Len(t, page.Applications, 2)
	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, "INT-2026-0012", page.Applications[0].ApplicationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_AllStatuses(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM applications`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(`ORDER BY submitted_at DESC`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(columns))

	page, err := repo.List(context.Background(), models.ListFilter{Page: 1, Limit: 10})

	require.NoError(t, err)
	assert.NotNil(t, page.Applications)
	assert.Empty(t, page.Applications)
	assert.Equal(t, 0, page.TotalPages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Stats(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM applications GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("pending", int64(4)).
			AddRow("accepted", int64(2)).
			AddRow("rejected", int64(1)))

	stats, err := repo.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.Stats{Total: 7, Pending: 4, Accepted: 2, Rejected: 1}, stats)
}

func TestRepository_DeleteAll(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(`DELETE FROM applications`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestRepository_ListAll(t *testing.T) {
	repo, mock := newTestRepository(t)

	rows := sqlmock.NewRows(columns)
	addRow(rows, 2, "INT-2026-0002", "b@example.com", "pending")
	addRow(rows, 1, "INT-2026-0001", "a@example.com", "accepted")
	mock.ExpectQuery(`FROM applications ORDER BY submitted_at DESC`).WillReturnRows(rows)

	apps, err := repo.ListAll(context.Background())

	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "INT-2026-0002", apps[0].ApplicationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListAll_RespectsTimeout(t *testing.T) {
	repo, mock := newTestRepository(t)
	repo.config.Timeout = 20 * time.Millisecond

	mock.ExpectQuery(`FROM applications ORDER BY submitted_at DESC`).
		WillDelayFor(time.Second).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.ListAll(context.Background())

	assert.True(t, errors.Is(err, ErrStorageUnavailable))
}

func TestRepository_DeleteAll_RespectsTimeout(t *testing.T) {
	repo, mock := newTestRepository(t)
	repo.config.Timeout = 20 * time.Millisecond

	mock.ExpectExec(`DELETE FROM applications`).
		WillDelayFor(time.Second).
		WillReturnResult(sqlmock.NewResult(0, 3))

	_, err := repo.DeleteAll(context.Background())

	assert.True(t, errors.Is(err, ErrStorageUnavailable))
}
