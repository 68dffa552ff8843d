package service

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldservice/internal/apperr"
	"fieldservice/internal/model"
	"fieldservice/internal/optional"
	"fieldservice/internal/tenant"
)

func TestTaskMutationsRequireTenant(t *testing.T) {
	f := newFixture(t)
	anon := tenant.Anonymous()

	_, err := f.tasks.Create(anon, f.jobA.ID, CreateTaskInput{Title: "Dig footings"})
	assert.True(t, errors.Is(err, apperr.ErrMissingTenant))

	_, err = f.tasks.Update(anon, f.jobA.ID, 1, UpdateTaskInput{})
	assert.True(t, errors.Is(err, apperr.ErrMissingTenant))

	err = f.tasks.Remove(anon, f.jobA.ID, 1)
	assert.True(t, errors.Is(err, apperr.ErrMissingTenant))

	var count int64
	require.NoError(t, f.db.Model(&model.Task{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTaskCreateDefaultsAndRelations(t *testing.T) {
	f := newFixture(t)
	ctx := tenant.New(1, f.user.ID)

	created, err := f.tasks.Create(ctx, f.jobA.ID, CreateTaskInput{Title: "Dig footings"})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusPending, created.Status)
	assert.Nil(t, created.AssigneeID)
	assert.Nil(t, created.ChecklistTemplateID)
	assert.Nil(t, created.DueAt)

	due := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	assignee := f.user.ID
	template := uint(4)
	created, err = f.tasks.Create(ctx, f.jobA.ID, CreateTaskInput{
		Title:               "Frame deck",
		Status:              model.TaskStatusInProgress,
		AssigneeID:          &assignee,
		ChecklistTemplateID: &template,
		DueAt:               &due,
	})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusInProgress, created.Status)
	require.NotNil(t, created.AssigneeID)
	assert.Equal(t, assignee, *created.AssigneeID)
	assert.Equal(t, "Jordan Crew", created.AssigneeName)
	require.NotNil(t, created.DueAt)
	assert.Equal(t, "2026-09-10T08:00:00Z", *created.DueAt)
}

func TestTaskCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := tenant.New(1, 0)

	_, err := f.tasks.Create(ctx, f.jobA.ID, CreateTaskInput{})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.tasks.Create(ctx, f.jobA.ID, CreateTaskInput{Title: "x", Status: "SHIPPED"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestTaskUpdateFieldPresence(t *testing.T) {
	f := newFixture(t)
	ctx := tenant.New(1, f.user.ID)

	assignee := f.user.ID
	due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	created, err := f.tasks.Create(ctx, f.jobA.ID, CreateTaskInput{
		Title:      "Pour concrete",
		AssigneeID: &assignee,
		DueAt:      &due,
	})
	require.NoError(t, err)

	// Absent fields leave stored values unchanged
	updated, err := f.tasks.Update(ctx, f.jobA.ID, created.ID, UpdateTaskInput{
		Status: optional.Of(model.TaskStatusInProgress),
	})
	require.NoError(t, err)
	assert.Equal(t, "Pour concrete", updated.Title)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, assignee, *updated.AssigneeID)
	require.NotNil(t, updated.DueAt)

	// Explicit null clears nullable relations
	updated, err = f.tasks.Update(ctx, f.jobA.ID, created.ID, UpdateTaskInput{
		AssigneeID: optional.Null[uint](),
		DueAt:      optional.Null[time.Time](),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.AssigneeID)
	assert.Nil(t, updated.DueAt)

	// Concrete values set
	updated, err = f.tasks.Update(ctx, f.jobA.ID, created.ID, UpdateTaskInput{
		AssigneeID: optional.Of(assignee),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, assignee, *updated.AssigneeID)
}

func TestTaskUpdateDecodedFromJSON(t *testing.T) {
	f := newFixture(t)
	ctx := tenant.New(1, 0)

	assignee := f.user.ID
	created, err := f.tasks.Create(ctx, f.jobA.ID, CreateTaskInput{
		Title:      "Sand railing",
		AssigneeID: &assignee,
	})
	require.NoError(t, err)

	var in UpdateTaskInput
	require.NoError(t, json.Unmarshal([]byte(`{"assignee_id": null, "status": "DONE"}`), &in))

	updated, err := f.tasks.Update(ctx, f.jobA.ID, created.ID, in)
	require.NoError(t, err)
	assert.Nil(t, updated.AssigneeID)
	assert.Equal(t, model.TaskStatusDone, updated.Status)
	assert.Equal(t, "Sand railing", updated.Title)
}

func TestTaskRenameAppendsOneActivityEntry(t *testing.T) {
	f := newFixture(t)
	ctx := tenant.New(1, f.user.ID)

	created, err := f.tasks.Create(ctx, f.jobA.ID, CreateTaskInput{Title: "Stage materials"})
	require.NoError(t, err)

	_, err = f.tasks.Update(ctx, f.jobA.ID, created.ID, UpdateTaskInput{
		Title: optional.Of("Stage lumber"),
	})
	require.NoError(t, err)

	var entries []model.ActivityLog
	require.NoError(t, f.db.Where("action = ?", model.ActionTaskRenamed).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, EntityTask, entries[0].EntityType)
	assert.Equal(t, created.ID, entries[0].EntityID)
	assert.Equal(t, "Stage materials", entries[0].Meta["from"])
	assert.Equal(t, "Stage lumber", entries[0].Meta["to"])

	// Same-title update appends nothing
	_, err = f.tasks.Update(ctx, f.jobA.ID, created.ID, UpdateTaskInput{
		Title: optional.Of("Stage lumber"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.countActivity(t, model.ActionTaskRenamed))
}

func TestChecklistDetachAppendsOneActivityEntry(t *testing.T) {
	f := newFixture(t)
	ctx := tenant.New(1, f.user.ID)

	template := uint(11)
	created, err := f.tasks.Create(ctx, f.jobA.ID, CreateTaskInput{
		Title:               "Final walkthrough",
		ChecklistTemplateID: &template,
	})
	require.NoError(t, err)

	_, err = f.tasks.Update(ctx, f.jobA.ID, created.ID, UpdateTaskInput{
		ChecklistTemplateID: optional.Null[uint](),
	})
	require.NoError(t, err)

	var entries []model.ActivityLog
	require.NoError(t, f.db.Where("action = ?", model.ActionTaskChecklistDetached).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, created.ID, entries[0].EntityID)
	assert.Equal(t, float64(template), entries[0].Meta["checklist_template_id"])

	// Detaching an already-detached template appends nothing
	_, err = f.tasks.Update(ctx, f.jobA.ID, created.ID, UpdateTaskInput{
		ChecklistTemplateID: optional.Null[uint](),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.countActivity(t, model.ActionTaskChecklistDetached))
}

func TestTaskListOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := tenant.New(1, 0)

	early := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)

	// Insertion order deliberately scrambled against the expected order.
	mk := func(title, status string, due *time.Time) {
		_, err := f.tasks.Create(ctx, f.jobA.ID, CreateTaskInput{Title: title, Status: status, DueAt: due})
		require.NoError(t, err)
	}
	mk("pending-no-due", model.TaskStatusPending, nil)
	mk("inprogress-early", model.TaskStatusInProgress, &early)
	mk("pending-late", model.TaskStatusPending, &late)
	mk("pending-early", model.TaskStatusPending, &early)
	mk("pending-early-second", model.TaskStatusPending, &early)

	tasks, err := f.tasks.List(ctx, f.jobA.ID, TaskFilters{})
	require.NoError(t, err)
	require.Len(t, tasks, 5)

	titles := make([]string, len(tasks))
	for i, task := range tasks {
		titles[i] = task.Title
	}
	// Status ascending ("IN_PROGRESS" < "PENDING"), then due date
	// ascending with open due dates last, then creation order.
	assert.Equal(t, []string{
		"inprogress-early",
		"pending-early",
		"pending-early-second",
		"pending-late",
		"pending-no-due",
	}, titles)
}

func TestTaskListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := tenant.New(1, 0)

	assignee := f.user.ID
	_, err := f.tasks.Create(ctx, f.jobA.ID, CreateTaskInput{Title: "a", AssigneeID: &assignee})
	require.NoError(t, err)
	_, err = f.tasks.Create(ctx, f.jobA.ID, CreateTaskInput{Title: "b", Status: model.TaskStatusDone})
	require.NoError(t, err)

	tasks, err := f.tasks.List(ctx, f.jobA.ID, TaskFilters{Status: model.TaskStatusDone})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "b", tasks[0].Title)

	tasks, err = f.tasks.List(ctx, f.jobA.ID, TaskFilters{AssigneeID: &assignee})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "a", tasks[0].Title)
}

func TestCrossTenantIsolation(t *testing.T) {
	f := newFixture(t)
	ctxA := tenant.New(1, 0)
	ctxB := tenant.New(2, 0)

	created, err := f.tasks.Create(ctxA, f.jobA.ID, CreateTaskInput{Title: "Private work"})
	require.NoError(t, err)

	// Tenant B cannot reach tenant A's job at all, even with correct ids.
	_, err = f.tasks.List(ctxB, f.jobA.ID, TaskFilters{})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = f.tasks.Update(ctxB, f.jobA.ID, created.ID, UpdateTaskInput{Title: optional.Of("hijack")})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	err = f.tasks.Remove(ctxB, f.jobA.ID, created.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	// Even via tenant B's own job, tenant A's task id is invisible.
	_, err = f.tasks.Update(ctxB, f.jobB.ID, created.ID, UpdateTaskInput{Title: optional.Of("hijack")})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	// The record is intact under tenant A.
	tasks, err := f.tasks.List(ctxA, f.jobA.ID, TaskFilters{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Private work", tasks[0].Title)
}

func TestTaskUpdateAndRemoveNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := tenant.New(1, 0)

	_, err := f.tasks.Update(ctx, f.jobA.ID, 9999, UpdateTaskInput{Title: optional.Of("x")})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	err = f.tasks.Remove(ctx, f.jobA.ID, 9999)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	// Unknown parent job is NotFound too
	_, err = f.tasks.List(ctx, 9999, TaskFilters{})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestTaskUpdateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := tenant.New(1, 0)

	created, err := f.tasks.Create(ctx, f.jobA.ID, CreateTaskInput{Title: "Valid"})
	require.NoError(t, err)

	_, err = f.tasks.Update(ctx, f.jobA.ID, created.ID, UpdateTaskInput{Title: optional.Null[string]()})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.tasks.Update(ctx, f.jobA.ID, created.ID, UpdateTaskInput{Title: optional.Of("")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.tasks.Update(ctx, f.jobA.ID, created.ID, UpdateTaskInput{Status: optional.Of("SHIPPED")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
