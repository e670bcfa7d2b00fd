package mysqlstore

import (
	"context"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/store"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db, "manager"), mock
}

func TestSetUpsertsAndNotifiesSubscribers(t *testing.T) {
	ctx := context.Background()
	st, mock := newMockStore(t)
	col := st.Collection(store.ColVehicles)

	// Subscribe lists once for the initial snapshot.
	mock.ExpectQuery("SELECT doc_id, body").
		WithArgs("manager", store.ColVehicles).
		WillReturnRows(sqlmock.NewRows([]string{"doc_id", "body"}))

	var got []store.Snapshot
	unsub, err := col.Subscribe(func(s store.Snapshot) { got = append(got, s) })
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer unsub()

	// Set upserts the row, then re-reads the collection for fan-out.
	mock.ExpectExec("INSERT INTO documents").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT doc_id, body").
		WithArgs("manager", store.ColVehicles).
		WillReturnRows(sqlmock.NewRows([]string{"doc_id", "body"}).
			AddRow("v1", []byte(`{"id":"v1","name":"Bus 01"}`)))

	if err := col.Set(ctx, "v1", map[string]any{"name": "Bus 01"}); err != nil {
		t.Fatalf("set: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected initial + write snapshot, got %d", len(got))
	}
	if len(got[1]) != 1 || got[1][0].ID != "v1" {
		t.Fatalf("write snapshot wrong: %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// Concurrent writers must not deliver an older snapshot after a newer one:
// the re-read and the fan-out share one critical section, so whichever
// writer locks first reads and delivers first. Run with -race.
func TestConcurrentWritesFanOutInOrder(t *testing.T) {
	ctx := context.Background()
	st, mock := newMockStore(t)
	mock.MatchExpectationsInOrder(false)
	col := st.Collection(store.ColVehicles)

	// Subscribe's initial read; unordered matching hands identical queries
	// out in definition order.
	mock.ExpectQuery("SELECT doc_id, body").
		WillReturnRows(sqlmock.NewRows([]string{"doc_id", "body"}))
	mock.ExpectExec("INSERT INTO documents").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO documents").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT doc_id, body").
		WillReturnRows(sqlmock.NewRows([]string{"doc_id", "body"}).
			AddRow("v1", []byte(`{"id":"v1","name":"Bus 01"}`)))
	mock.ExpectQuery("SELECT doc_id, body").
		WillReturnRows(sqlmock.NewRows([]string{"doc_id", "body"}).
			AddRow("v1", []byte(`{"id":"v1","name":"Bus 01"}`)).
			AddRow("v2", []byte(`{"id":"v2","name":"Bus 02"}`)))

	var (
		deliveredMu sync.Mutex
		delivered   []int
	)
	unsub, err := col.Subscribe(func(s store.Snapshot) {
		deliveredMu.Lock()
		delivered = append(delivered, len(s))
		deliveredMu.Unlock()
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer unsub()

	var wg sync.WaitGroup
	for _, id := range []string{"v1", "v2"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := col.Set(ctx, id, map[string]any{"name": "Bus"}); err != nil {
				t.Errorf("set %s: %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	deliveredMu.Lock()
	defer deliveredMu.Unlock()
	if len(delivered) != 3 {
		t.Fatalf("expected 3 deliveries, got %v", delivered)
	}
	for i := 1; i < len(delivered); i++ {
		if delivered[i] < delivered[i-1] {
			t.Fatalf("stale snapshot delivered after a newer one: %v", delivered)
		}
	}
	if delivered[2] != 2 {
		t.Fatalf("final snapshot must carry both writes, got %v", delivered)
	}
}

func TestUpdateMergesIntoStoredBody(t *testing.T) {
	ctx := context.Background()
	st, mock := newMockStore(t)
	col := st.Collection(store.ColTrips)

	mock.ExpectQuery("SELECT body FROM documents").
		WithArgs("manager", store.ColTrips, "t1").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).
			AddRow([]byte(`{"id":"t1","fare":0,"paid":false}`)))
	mock.ExpectExec("UPDATE documents SET body").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT doc_id, body").
		WithArgs("manager", store.ColTrips).
		WillReturnRows(sqlmock.NewRows([]string{"doc_id", "body"}).
			AddRow("t1", []byte(`{"id":"t1","fare":500000,"paid":false}`)))

	if err := col.Update(ctx, "t1", map[string]any{"fare": 500000}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateMissingDocumentReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	st, mock := newMockStore(t)
	col := st.Collection(store.ColTrips)

	mock.ExpectQuery("SELECT body FROM documents").
		WithArgs("manager", store.ColTrips, "missing").
		WillReturnRows(sqlmock.NewRows([]string{"body"}))

	err := col.Update(ctx, "missing", map[string]any{"fare": 1})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestDeleteMissingDocumentReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	st, mock := newMockStore(t)
	col := st.Collection(store.ColCustomers)

	mock.ExpectExec("DELETE FROM documents").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := col.Delete(ctx, "missing")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}
