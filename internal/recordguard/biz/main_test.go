package biz

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kart-io/recordguard/internal/model"
	"github.com/kart-io/recordguard/internal/recordguard/store"
)

// newTestFactory creates an in-memory database with the full schema.
func newTestFactory(t *testing.T) (store.Factory, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, store.AutoMigrate(db))

	return store.NewFactory(db), db
}

// brokenFactory returns a factory whose underlying connection is closed, so
// every query fails.
func brokenFactory(t *testing.T) store.Factory {
	t.Helper()

	factory, db := newTestFactory(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	return factory
}

func seedStaff(t *testing.T, db *gorm.DB, id uint64, role model.Role, status int) {
	t.Helper()
	require.NoError(t, db.Create(&model.Staff{
		ID:     id,
		Name:   "staff-" + role.String(),
		Role:   role,
		Status: status,
	}).Error)
}

func seedPatient(t *testing.T, db *gorm.DB, id uint64, area string, status int) {
	t.Helper()
	require.NoError(t, db.Create(&model.Patient{
		ID:            id,
		Name:          "patient",
		CatchmentArea: area,
		Status:        status,
	}).Error)
}

func activeRequester(id uint64, role model.Role) *Requester {
	return &Requester{
		ID:        id,
		Role:      role,
		Active:    true,
		SessionID: "test-session",
	}
}
