package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fieldservice/internal/activity"
	"fieldservice/internal/model"
	"fieldservice/internal/repository"
)

// fixture wires the services against an in-memory database seeded with
// two tenants, one job each, and one user under tenant 1.
type fixture struct {
	db        *gorm.DB
	writer    *activity.Writer
	jobs      *JobService
	tasks     *TaskService
	materials *MaterialService
	entries   *TimeEntryService
	files     *FileService

	jobA model.Job // tenant 1
	jobB model.Job // tenant 2
	user model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Tenant{},
		&model.User{},
		&model.Job{},
		&model.Task{},
		&model.ChecklistTemplate{},
		&model.MaterialUsage{},
		&model.TimeEntry{},
		&model.FileAttachment{},
		&model.ActivityLog{},
	))

	f := &fixture{db: db}
	f.writer = activity.NewWriter(db)
	f.jobs = NewJobService(repository.NewScoped[model.Job](db))
	f.tasks = NewTaskService(
		repository.NewScoped[model.Task](db),
		repository.NewScoped[model.User](db),
		f.jobs,
		f.writer,
	)
	f.materials = NewMaterialService(repository.NewScoped[model.MaterialUsage](db), f.jobs, f.writer)
	f.entries = NewTimeEntryService(repository.NewScoped[model.TimeEntry](db), f.jobs, f.writer)
	f.files = NewFileService(repository.NewScoped[model.FileAttachment](db), f.jobs, f.writer)

	require.NoError(t, db.Create(&model.Tenant{Name: "Acme Field Co", Slug: "acme"}).Error)
	require.NoError(t, db.Create(&model.Tenant{Name: "Rival Services", Slug: "rival"}).Error)

	f.user = model.User{TenantID: 1, Email: "crew@acme.test", Name: "Jordan Crew"}
	require.NoError(t, db.Create(&f.user).Error)

	f.jobA = model.Job{TenantID: 1, Code: "JOB-A", Title: "Deck build", Status: model.JobStatusActive}
	require.NoError(t, db.Create(&f.jobA).Error)

	f.jobB = model.Job{TenantID: 2, Code: "JOB-B", Title: "Roof patch", Status: model.JobStatusActive}
	require.NoError(t, db.Create(&f.jobB).Error)

	return f
}

// countActivity returns how many activity rows carry the given action.
func (f *fixture) countActivity(t *testing.T, action string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&model.ActivityLog{}).Where("action = ?", action).Count(&count).Error)
	return count
}
