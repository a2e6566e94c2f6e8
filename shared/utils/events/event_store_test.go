package events

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewStore(gdb), mock
}

const versionQuery = `SELECT COALESCE(MAX(version), 0) FROM "domain_events" WHERE stream_id = $1`

func TestStreamID(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	assert.Equal(t, "tenant-11111111-2222-3333-4444-555555555555", StreamID("tenant", id))
}

func TestAppendRejectsEmptyBatch(t *testing.T) {
	store, _ := newMockStore(t)

	_, err := store.Append(context.Background(), "tenant", "tenant-x", nil, AnyVersion)
	assert.Error(t, err)
}

func TestAppendVersionConflict(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(versionQuery)).
		WithArgs("tenant-x").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(3)))
	mock.ExpectRollback()

	_, err := store.Append(context.Background(), "tenant", "tenant-x", nil, 2, Event{
		Type:    "tenant.activated",
		Payload: map[string]string{"status": "ACTIVE"},
	})
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendAdvancesStreamVersion(t *testing.T) {
	store, mock := newMockStore(t)
	tenantID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(versionQuery)).
		WithArgs("tenant-x").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(3)))
	mock.ExpectQuery(`INSERT INTO "domain_events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()).AddRow(uuid.New()))
	mock.ExpectCommit()

	version, err := store.Append(context.Background(), "tenant", "tenant-x", &tenantID, 3,
		Event{Type: "tenant.suspended", Payload: map[string]string{"status": "SUSPENDED"}},
		Event{Type: "tenant.activated", Payload: map[string]string{"status": "ACTIVE"}},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(5), version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendAnyVersionSkipsCheck(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(versionQuery)).
		WithArgs("tenant-y").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(9)))
	mock.ExpectQuery(`INSERT INTO "domain_events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	version, err := store.Append(context.Background(), "tenant", "tenant-y", nil, AnyVersion,
		Event{Type: "tenant.updated", Payload: map[string]string{}},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(10), version)
}

func TestLoadReturnsOrderedEvents(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "stream_id", "stream_type", "version", "event_type", "payload"}).
		AddRow(uuid.New(), "tenant-x", "tenant", int64(1), "tenant.created", []byte(`{"name":"Acme"}`)).
		AddRow(uuid.New(), "tenant-x", "tenant", int64(2), "tenant.activated", []byte(`{"status":"ACTIVE"}`))

	mock.ExpectQuery(`SELECT \* FROM "domain_events" WHERE stream_id = \$1 AND version > \$2 ORDER BY version ASC`).
		WithArgs("tenant-x", int64(0)).
		WillReturnRows(rows)

	events, err := store.Load(context.Background(), "tenant-x", 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "tenant.created", events[0].EventType)
	assert.Equal(t, int64(2), events[1].Version)
}

func TestStreamVersion(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(versionQuery)).
		WithArgs("tenant-x").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(7)))

	version, err := store.StreamVersion(context.Background(), "tenant-x")
	require.NoError(t, err)
	assert.Equal(t, int64(7), version)
}
