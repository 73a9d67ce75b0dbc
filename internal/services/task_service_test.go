package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskadder/taskadder-be/internal/apperr"
	"github.com/taskadder/taskadder-be/internal/models"
)

func registerTestUser(t *testing.T, users *UserService, email string) models.User {
	t.Helper()
	user, err := users.Register(email, "secret123")
	require.NoError(t, err)
	return user
}

func TestCreateThenGet_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	owner := registerTestUser(t, NewUserService(db), "owner@example.com")
	svc := NewTaskService(db)

	created, err := svc.CreateTask(owner.ID, TaskInput{
		TaskName:    "Buy groceries",
		Description: "Milk and bread",
		DueDate:     "2026-09-01",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, owner.ID, created.UserID)
	assert.Equal(t, "Buy groceries", created.TaskName)
	assert.Equal(t, "Milk and bread", created.Description)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.GetTask(owner.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.TaskName, got.TaskName)
	assert.Equal(t, created.Description, got.Description)
	assert.True(t, got.DueDate.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCreateTask_Validation(t *testing.T) {
	db := newTestDB(t)
	owner := registerTestUser(t, NewUserService(db), "owner@example.com")
	svc := NewTaskService(db)

	tests := []struct {
		name      string
		input     TaskInput
		wantField string
	}{
		{"empty name", TaskInput{TaskName: "", DueDate: "2026-09-01"}, "taskName"},
		{"whitespace name", TaskInput{TaskName: "   ", DueDate: "2026-09-01"}, "taskName"},
		{"missing due date", TaskInput{TaskName: "Task"}, "dueDate"},
		{"garbage due date", TaskInput{TaskName: "Task", DueDate: "next tuesday"}, "dueDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTask(owner.ID, tt.input)
			fieldErrs, ok := apperr.AsFieldErrors(err)
			require.True(t, ok, "expected field errors, got %v", err)
			assert.Contains(t, fieldErrs, tt.wantField)
		})
	}
}

func TestCreateTask_AcceptsTimestampDueDate(t *testing.T) {
	db := newTestDB(t)
	owner := registerTestUser(t, NewUserService(db), "owner@example.com")
	svc := NewTaskService(db)

	task, err := svc.CreateTask(owner.ID, TaskInput{
		TaskName: "Call dentist",
		DueDate:  "2026-09-01T14:30:00Z",
	})
	require.NoError(t, err)
	assert.True(t, task.DueDate.Equal(time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)))
	assert.Empty(t, task.Description)
}

func TestListTasks_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	owner := registerTestUser(t, NewUserService(db), "owner@example.com")
	svc := NewTaskService(db)

	var ids []string
	for _, name := range []string{"T1", "T2", "T3"} {
		task, err := svc.CreateTask(owner.ID, TaskInput{TaskName: name, DueDate: "2026-09-01"})
		require.NoError(t, err)
		ids = append(ids, task.ID)
		time.Sleep(5 * time.Millisecond)
	}

	tasks, err := svc.ListTasks(owner.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "T3", tasks[0].TaskName)
	assert.Equal(t, "T2", tasks[1].TaskName)
	assert.Equal(t, "T1", tasks[2].TaskName)
	assert.Equal(t, ids[2], tasks[0].ID)
}

func TestTaskOwnershipIsIndistinguishableFromAbsence(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	alice := registerTestUser(t, users, "alice@example.com")
	mallory := registerTestUser(t, users, "mallory@example.com")
	svc := NewTaskService(db)

	task, err := svc.CreateTask(alice.ID, TaskInput{TaskName: "Private", DueDate: "2026-09-01"})
	require.NoError(t, err)

	// Another user's task and a nonexistent task fail the same way.
	_, err = svc.GetTask(mallory.ID, task.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.GetTask(mallory.ID, "no-such-task")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.UpdateTask(mallory.ID, task.ID, TaskInput{TaskName: "Hijacked", DueDate: "2026-09-01"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = svc.DeleteTask(mallory.ID, task.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// Alice still sees her task untouched.
	got, err := svc.GetTask(alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", got.TaskName)
}

func TestUpdateTask_ReplacesMutableFieldsOnly(t *testing.T) {
	db := newTestDB(t)
	owner := registerTestUser(t, NewUserService(db), "owner@example.com")
	svc := NewTaskService(db)

	created, err := svc.CreateTask(owner.ID, TaskInput{
		TaskName:    "Original",
		Description: "Old description",
		DueDate:     "2026-09-01",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateTask(owner.ID, created.ID, TaskInput{
		TaskName: "Renamed",
		DueDate:  "2026-10-15",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.UserID, updated.UserID)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.Equal(t, "Renamed", updated.TaskName)
	assert.Empty(t, updated.Description, "update is a full replace of mutable fields")
	assert.True(t, updated.DueDate.Equal(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)))
}

func TestUpdateTask_Validation(t *testing.T) {
	db := newTestDB(t)
	owner := registerTestUser(t, NewUserService(db), "owner@example.com")
	svc := NewTaskService(db)

	created, err := svc.CreateTask(owner.ID, TaskInput{TaskName: "Task", DueDate: "2026-09-01"})
	require.NoError(t, err)

	_, err = svc.UpdateTask(owner.ID, created.ID, TaskInput{TaskName: "", DueDate: "2026-09-01"})
	fieldErrs, ok := apperr.AsFieldErrors(err)
	require.True(t, ok, "expected field errors, got %v", err)
	assert.Contains(t, fieldErrs, "taskName")

	// A failed update leaves the task untouched.
	got, err := svc.GetTask(owner.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Task", got.TaskName)
}

func TestDeleteTask(t *testing.T) {
	db := newTestDB(t)
	owner := registerTestUser(t, NewUserService(db), "owner@example.com")
	svc := NewTaskService(db)

	created, err := svc.CreateTask(owner.ID, TaskInput{TaskName: "Doomed", DueDate: "2026-09-01"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(owner.ID, created.ID))

	_, err = svc.GetTask(owner.ID, created.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// Deleting again reads as absence.
	assert.ErrorIs(t, svc.DeleteTask(owner.ID, created.ID), apperr.ErrNotFound)
}

func TestListTasks_EmptyForNewUser(t *testing.T) {
	db := newTestDB(t)
	owner := registerTestUser(t, NewUserService(db), "owner@example.com")
	svc := NewTaskService(db)

	tasks, err := svc.ListTasks(owner.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
