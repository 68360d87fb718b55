package requests

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidalink/telemed/pkg/database"
	"github.com/vidalink/telemed/pkg/logger"
	"github.com/vidalink/telemed/pkg/types"
)

var requestTestColumns = []string{
	"id", "status", "request_type", "patient_id",
	"doctor_id", "patient_name", "doctor_name",
	"medications", "exams",
	"symptoms", "price", "ai_risk_level",
	"signed_at", "created_at", "updated_at",
}

func setupTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	repo := &Repository{
		db:     &database.DB{DB: sqlDB},
		logger: logger.New("debug"),
	}
	return repo, mock
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := setupTestRepository(t)

	now := time.Now()
	rows := sqlmock.NewRows(requestTestColumns).AddRow(
		"req-1", "pending_payment", "prescription", "patient-123",
		"doctor-456", "Maria", "Dr. Silva",
		"{Losartana 50mg}", "{}",
		"", 49.9, "low",
		nil, now, now,
	)

	mock.ExpectQuery(`SELECT (.+) FROM requests WHERE id = \$1`).
		WithArgs("req-1").
		WillReturnRows(rows)

	req, err := repo.GetByID(context.Background(), "req-1")

	require.NoError(t, err)
	assert.Equal(t, "req-1", req.ID)
	assert.Equal(t, "pending_payment", req.Status)
	assert.Equal(t, types.KindPrescription, req.RequestType)
	assert.Equal(t, []string{"Losartana 50mg"}, []string(req.Medications))
	assert.Nil(t, req.SignedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupTestRepository(t)

	mock.ExpectQuery(`SELECT (.+) FROM requests WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(requestTestColumns))

	_, err := repo.GetByID(context.Background(), "missing")

	require.Error(t, err)
	var terr *types.TelemedError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, types.ErrorTypeNotFound, terr.Type)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := setupTestRepository(t)

	now := time.Now()
	req := &types.Request{
		ID:          "req-2",
		Status:      "submitted",
		RequestType: types.KindExam,
		PatientID:   "patient-123",
		PatientName: "Maria",
		Exams:       []string{"Hemograma completo"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectExec(`INSERT INTO requests`).
		WithArgs(
			"req-2", "submitted", "exam", "patient-123", "", "Maria",
			"", pq.Array(req.Medications), pq.Array(req.Exams), "", 0.0, "",
			now, now,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), req)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_DoctorQueueIncludesUnassigned(t *testing.T) {
	repo, mock := setupTestRepository(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM requests WHERE \(doctor_id = \$1 OR doctor_id IS NULL\)`).
		WithArgs("doctor-456").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	rows := sqlmock.NewRows(requestTestColumns).
		AddRow("a", "submitted", "prescription", "p1", "", "", "", "{}", "{}", "", 0.0, "", nil, now, now).
		AddRow("b", "paid", "exam", "p2", "doctor-456", "", "", "{}", "{}", "", 0.0, "", nil, now.Add(time.Minute), now)

	mock.ExpectQuery(`SELECT (.+) FROM requests WHERE \(doctor_id = \$1 OR doctor_id IS NULL\) ORDER BY created_at ASC`).
		WithArgs("doctor-456").
		WillReturnRows(rows)

	page, err := repo.List(context.Background(), &types.RequestFilters{
		DoctorID:          "doctor-456",
		IncludeUnassigned: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)
	require.Len(t, page.Items, 2)
	// Stored order survives untouched
	assert.Equal(t, "a", page.Items[0].ID)
	assert.Equal(t, "b", page.Items[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_PatientWithLimit(t *testing.T) {
	repo, mock := setupTestRepository(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM requests WHERE patient_id = \$1`).
		WithArgs("patient-123").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	mock.ExpectQuery(`SELECT (.+) FROM requests WHERE patient_id = \$1 ORDER BY created_at ASC LIMIT \$2`).
		WithArgs("patient-123", 5).
		WillReturnRows(sqlmock.NewRows(requestTestColumns))

	page, err := repo.List(context.Background(), &types.RequestFilters{
		PatientID: "patient-123",
		Limit:     5,
	})

	require.NoError(t, err)
	assert.Equal(t, 7, page.TotalCount)
	assert.Empty(t, page.Items)
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock := setupTestRepository(t)

	status := "paid"
	mock.ExpectExec(`UPDATE requests SET status = \$1, updated_at = \$2 WHERE id = \$3`).
		WithArgs(status, sqlmock.AnyArg(), "req-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "req-1", &types.RequestUpdates{Status: &status})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock := setupTestRepository(t)

	status := "paid"
	mock.ExpectExec(`UPDATE requests SET`).
		WithArgs(status, sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", &types.RequestUpdates{Status: &status})

	require.Error(t, err)
	var terr *types.TelemedError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, types.ErrorTypeNotFound, terr.Type)
}

func TestRepository_UpdateStatus_NoUpdates(t *testing.T) {
	repo, _ := setupTestRepository(t)

	err := repo.UpdateStatus(context.Background(), "req-1", &types.RequestUpdates{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no updates provided")
}
