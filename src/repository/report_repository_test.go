package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"crashreporter/src/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	})

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		sqlDB.Close()
		t.Fatalf("failed to open gorm DB with sqlmock: %v", err)
	}

	return gdb, mock
}

func TestReportRepositorySearch(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &ReportRepository{db: mockDB}

	createdAt := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	reports := []model.Report{
		{ID: "a1", Service: "order_ingest", ErrorCode: "E00000001", Level: "error", CreatedAt: createdAt.Add(24 * time.Hour)},
		{ID: "a2", Service: "order_ingest", ErrorCode: "E00000002", Level: "fatal", CreatedAt: createdAt},
	}

	reportRows := func(returned ...model.Report) *sqlmock.Rows {
		rows := sqlmock.NewRows([]string{"id", "service", "error_code", "level", "created_at"})
		for _, report := range returned {
			rows.AddRow(report.ID, report.Service, report.ErrorCode, report.Level, report.CreatedAt)
		}
		return rows
	}

	t.Run("filters by service", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reports" WHERE service = $1 ORDER BY created_at DESC, id DESC`)).
			WithArgs("order_ingest").
			WillReturnRows(reportRows(reports[0], reports[1]))

		service := "order_ingest"
		results, err := repo.Search(context.Background(), ReportSearchOptions{Service: &service})
		if err != nil {
			t.Fatalf("unexpected error searching reports: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 reports, got %d", len(results))
		}
		if results[0].ID != "a1" || results[1].ID != "a2" {
			t.Fatalf("reports not returned newest first: %+v", results)
		}
	})

	t.Run("filters by level and created window", func(t *testing.T) {
		level := "fatal"
		after := createdAt.Add(-time.Hour)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reports" WHERE level = $1 AND created_at >= $2 ORDER BY created_at DESC, id DESC`)).
			WithArgs(level, after).
			WillReturnRows(reportRows(reports[1]))

		results, err := repo.Search(context.Background(), ReportSearchOptions{Level: &level, CreatedAfter: &after})
		if err != nil {
			t.Fatalf("unexpected error searching reports: %v", err)
		}
		if len(results) != 1 || results[0].ID != "a2" {
			t.Fatalf("unexpected results: %+v", results)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

// Round trip against an in-memory database, jsonb column included.
func TestReportRepositoryCreateAndRecent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Report{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	repo := &ReportRepository{db: db}

	report := &model.Report{
		ID:            "b7f9d7e2-0000-4000-8000-000000000001",
		Service:       "payment_worker",
		Host:          "worker-1",
		ErrorCode:     "E1A2B3C4D",
		ExceptionType: "io/fs.PathError",
		Message:       "open /etc/missing: no such file",
		Level:         "error",
		Detail:        `{"message":"open /etc/missing: no such file"}`,
		Formatted:     "Error Code: E1A2B3C4D\n",
	}

	if err := repo.Create(context.Background(), report); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	recent, err := repo.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 report, got %d", len(recent))
	}
	if recent[0].ErrorCode != report.ErrorCode || recent[0].Detail != report.Detail {
		t.Fatalf("stored report differs: %+v", recent[0])
	}

	got, err := repo.Get(context.Background(), report.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Message != report.Message {
		t.Fatalf("unexpected message %q", got.Message)
	}
}
