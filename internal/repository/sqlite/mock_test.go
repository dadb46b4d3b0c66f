package sqlite

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jknair0/beforeeach"

	"trashify/internal/dto"
	"trashify/internal/models"
)

var (
	mockDB *DB
	mock   sqlmock.Sqlmock
)

func setUp() {
	var conn *sql.DB
	conn, mock, _ = sqlmock.New()
	mockDB = NewWithConn(conn)
}

func tearDown() {
	mockDB.Close()
}

var it = beforeeach.Create(setUp, tearDown)

func TestGetStats_Errors(t *testing.T) {
	it(func() {
		testCases := []struct {
			name  string
			setup func()
		}{
			{
				name: "Upload count error",
				setup: func() {
					mock.ExpectQuery("SELECT COUNT\\(\\*\\), COALESCE\\(AVG\\(processing_seconds\\), 0\\) FROM uploads").
						WillReturnError(fmt.Errorf("test count error"))
				},
			},
			{
				name: "Detection count error",
				setup: func() {
					mock.ExpectQuery("FROM uploads").
						WillReturnRows(sqlmock.NewRows([]string{"count", "avg"}).AddRow(2, 1.5))
					mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM detections").
						WillReturnError(fmt.Errorf("test count error"))
				},
			},
			{
				name: "Breakdown error",
				setup: func() {
					mock.ExpectQuery("FROM uploads").
						WillReturnRows(sqlmock.NewRows([]string{"count", "avg"}).AddRow(2, 1.5))
					mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM detections").
						WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
					mock.ExpectQuery("SELECT label, COUNT\\(\\*\\) FROM detections GROUP BY label").
						WillReturnError(fmt.Errorf("test breakdown error"))
				},
			},
		}

		repo := NewUploadRepository(mockDB)
		for _, testCase := range testCases {
			testCase.setup()

			stats, err := repo.GetStats()
			if err == nil {
				t.Errorf("%s, GetStats: expected error, got %+v", testCase.name, stats)
			}
			if stats != nil {
				t.Errorf("%s, GetStats: expected nil stats, got %+v", testCase.name, stats)
			}
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %s", err)
		}
	})
}

func TestGetStats_FromRows(t *testing.T) {
	it(func() {
		mock.ExpectQuery("FROM uploads").
			WillReturnRows(sqlmock.NewRows([]string{"count", "avg"}).AddRow(4, 0.75))
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM detections").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))
		mock.ExpectQuery("SELECT label, COUNT\\(\\*\\) FROM detections GROUP BY label").
			WillReturnRows(sqlmock.NewRows([]string{"label", "count"}).AddRow("tv", 6).AddRow("mouse", 3))

		stats, err := NewUploadRepository(mockDB).GetStats()
		if err != nil {
			t.Fatalf("GetStats: unexpected error: %v", err)
		}
		if stats.TotalProcessedImages != 4 || stats.TotalDetections != 9 {
			t.Errorf("GetStats: unexpected counters %+v", stats)
		}
		if stats.DetectionBreakdown["tv"] != 6 || stats.DetectionBreakdown["mouse"] != 3 {
			t.Errorf("GetStats: unexpected breakdown %v", stats.DetectionBreakdown)
		}
		if stats.ProcessingTimeAvgSeconds != 0.75 {
			t.Errorf("GetStats: expected avg 0.75, got %v", stats.ProcessingTimeAvgSeconds)
		}
	})
}

func TestRecordBatch_RollsBackOnError(t *testing.T) {
	it(func() {
		entry := dto.LedgerEntry{
			Filename:       "desk.jpg",
			ReceivedAt:     time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
			ProcessingTime: time.Second,
			Detections:     []dto.Detection{{Label: "mouse", Confidence: 0.9}},
		}

		mock.ExpectBegin()
		mock.ExpectPrepare("INSERT INTO uploads")
		mock.ExpectPrepare("INSERT INTO detections")
		mock.ExpectExec("INSERT INTO uploads").
			WithArgs("desk.jpg", entry.ReceivedAt, "", 1, 1.0).
			WillReturnResult(sqlmock.NewResult(7, 1))
		mock.ExpectExec("INSERT INTO detections").
			WithArgs(int64(7), "mouse", 0.9).
			WillReturnError(fmt.Errorf("test insert error"))
		mock.ExpectRollback()

		err := NewUploadRepository(mockDB).RecordBatch([]dto.LedgerEntry{entry})
		if err == nil {
			t.Error("RecordBatch: expected error, got nil")
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %s", err)
		}
	})
}

func TestRecordBatch_BeginError(t *testing.T) {
	it(func() {
		mock.ExpectBegin().WillReturnError(fmt.Errorf("test begin error"))

		err := NewUploadRepository(mockDB).RecordBatch([]dto.LedgerEntry{{Filename: "a.jpg"}})
		if err == nil {
			t.Error("RecordBatch: expected error, got nil")
		}
	})
}

func TestInsertBatch_CommitError(t *testing.T) {
	it(func() {
		mock.ExpectBegin()
		mock.ExpectPrepare("INSERT INTO detections")
		mock.ExpectExec("INSERT INTO detections").
			WithArgs(int64(1), "tv", 0.7).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit().WillReturnError(fmt.Errorf("test commit error"))

		err := NewDetectionRepository(mockDB).InsertBatch([]models.Detection{{UploadID: 1, Label: "tv", Confidence: 0.7}})
		if err == nil {
			t.Error("InsertBatch: expected error, got nil")
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %s", err)
		}
	})
}

func TestDeleteAll_Error(t *testing.T) {
	it(func() {
		mock.ExpectExec("DELETE FROM detections").WillReturnError(fmt.Errorf("test delete error"))

		if err := NewUploadRepository(mockDB).DeleteAll(); err == nil {
			t.Error("DeleteAll: expected error, got nil")
		}
	})
}
