package activity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fieldservice/internal/apperr"
	"fieldservice/internal/model"
	"fieldservice/internal/tenant"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.ActivityLog{}))
	return db
}

func TestAppendRequiresTenant(t *testing.T) {
	db := newTestDB(t)
	w := NewWriter(db)

	err := w.Append(tenant.Anonymous(), "task", 1, model.ActionTaskRenamed, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrMissingTenant))

	var count int64
	require.NoError(t, db.Model(&model.ActivityLog{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAppendRecordsActorAndMeta(t *testing.T) {
	db := newTestDB(t)
	w := NewWriter(db)
	ctx := tenant.New(3, 17)

	err := w.Append(ctx, "task", 9, model.ActionTaskRenamed, map[string]interface{}{
		"from": "Stage materials",
		"to":   "Stage lumber",
	})
	require.NoError(t, err)

	var entry model.ActivityLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, uint(3), entry.TenantID)
	assert.Equal(t, "task", entry.EntityType)
	assert.Equal(t, uint(9), entry.EntityID)
	assert.Equal(t, model.ActionTaskRenamed, entry.Action)
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, uint(17), *entry.ActorID)
	assert.Equal(t, "Stage materials", entry.Meta["from"])
	assert.Equal(t, "Stage lumber", entry.Meta["to"])
}

func TestAppendWithoutActorLeavesActorNull(t *testing.T) {
	db := newTestDB(t)
	w := NewWriter(db)

	require.NoError(t, w.Append(tenant.New(3, 0), "task", 9, model.ActionTaskRenamed, nil))

	var entry model.ActivityLog
	require.NoError(t, db.First(&entry).Error)
	assert.Nil(t, entry.ActorID)
}

func TestListForEntityScopesByTenant(t *testing.T) {
	db := newTestDB(t)
	w := NewWriter(db)

	require.NoError(t, w.Append(tenant.New(1, 0), "task", 9, model.ActionTaskRenamed, nil))
	require.NoError(t, w.Append(tenant.New(2, 0), "task", 9, model.ActionTaskRenamed, nil))

	entries, err := w.ListForEntity(tenant.New(1, 0), "task", 9)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint(1), entries[0].TenantID)

	_, err = w.ListForEntity(tenant.Anonymous(), "task", 9)
	assert.True(t, errors.Is(err, apperr.ErrMissingTenant))
}

func TestListForTenantLimits(t *testing.T) {
	db := newTestDB(t)
	w := NewWriter(db)
	ctx := tenant.New(1, 0)

	for i := 0; i < 5; i++ {
		require.NoError(t, w.Append(ctx, "task", uint(i+1), model.ActionTaskRenamed, nil))
	}

	entries, err := w.ListForTenant(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	// Newest first
	assert.Equal(t, uint(5), entries[0].EntityID)
}

func TestListForTenantClampsLimit(t *testing.T) {
	db := newTestDB(t)
	w := NewWriter(db)
	ctx := tenant.New(1, 0)

	for i := 0; i < 210; i++ {
		require.NoError(t, w.Append(ctx, "task", uint(i+1), model.ActionTaskRenamed, nil))
	}

	// Over-ceiling limits clamp to 200 rather than falling back to the
	// default
	entries, err := w.ListForTenant(ctx, 250)
	require.NoError(t, err)
	assert.Len(t, entries, 200)

	entries, err = w.ListForTenant(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 50)
}
