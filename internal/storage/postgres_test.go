package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

func TestPostgresListByDate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	dayStart := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)
	rows := pgxmock.NewRows([]string{"id", "full_name", "phone", "services", "starts_at"}).
		AddRow("a1", "Иванов Иван", "79991234567", "Парамедицинский педикюр",
			time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC))
	mock.ExpectQuery("SELECT id, full_name, phone, services, starts_at").
		WithArgs(dayStart, dayEnd).
		WillReturnRows(rows)

	store := NewPostgresStoreWithDB(mock)
	records, err := store.ListByDate(context.Background(), dayStart.Add(9*time.Hour))
	if err != nil {
		t.Fatalf("ListByDate: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Phone != "79991234567" {
		t.Errorf("unexpected phone %q", records[0].Phone)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresListByDateQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT id, full_name").
		WillReturnError(errors.New("connection refused"))

	store := NewPostgresStoreWithDB(mock)
	_, err = store.ListByDate(context.Background(), time.Now())
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestPostgresCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	startsAt := time.Date(2026, 3, 9, 17, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), "Иванов Иван", "79991234567", "Зачистка псевдонихии", startsAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := NewPostgresStoreWithDB(mock)
	id, err := store.Create(context.Background(), Record{
		FullName: "Иванов Иван",
		Phone:    "79991234567",
		Services: "Зачистка псевдонихии",
		StartsAt: startsAt,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Error("expected a generated id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCreateRejectedWrite(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec("INSERT INTO appointments").
		WillReturnError(errors.New("deadlock detected"))

	store := NewPostgresStoreWithDB(mock)
	_, err = store.Create(context.Background(), Record{StartsAt: time.Now()})
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}
