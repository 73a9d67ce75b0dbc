package services

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskadder/taskadder-be/internal/apperr"
	"github.com/taskadder/taskadder-be/internal/models"
)

// TaskInput carries the client-supplied fields for creating or replacing
// a task. The owner never comes from the client.
type TaskInput struct {
	TaskName    string `json:"taskName"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
}

// TaskServiceProvider defines the interface for task services. Every
// operation takes the acting user's id and only ever touches rows owned
// by that user.
type TaskServiceProvider interface {
	ListTasks(ownerID string) ([]models.Task, error)
	CreateTask(ownerID string, input TaskInput) (models.Task, error)
	GetTask(ownerID, taskID string) (models.Task, error)
	UpdateTask(ownerID, taskID string, input TaskInput) (models.Task, error)
	DeleteTask(ownerID, taskID string) error
}

// TaskService provides owner-scoped CRUD over tasks.
type TaskService struct {
	db *sql.DB
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *sql.DB) *TaskService {
	return &TaskService{db: db}
}

// dueDateLayouts are the accepted due date formats: full timestamps and
// bare calendar dates.
var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDueDate(value string) (time.Time, bool) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func validateTaskInput(input TaskInput) (string, time.Time, apperr.FieldErrors) {
	fieldErrs := apperr.FieldErrors{}

	name := strings.TrimSpace(input.TaskName)
	if name == "" {
		fieldErrs.Add("taskName", "Task name is required")
	}

	dueDate, ok := parseDueDate(input.DueDate)
	if !ok {
		fieldErrs.Add("dueDate", "Please enter a valid due date")
	}

	return name, dueDate, fieldErrs
}

// ListTasks retrieves all tasks owned by the given user, newest first.
func (s *TaskService) ListTasks(ownerID string) ([]models.Task, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, task_name, description, due_date, created_at
		FROM tasks WHERE user_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanTasks(rows)
}

// CreateTask validates the input and persists a new task for the given
// owner.
func (s *TaskService) CreateTask(ownerID string, input TaskInput) (models.Task, error) {
	name, dueDate, fieldErrs := validateTaskInput(input)
	if fieldErrs.Any() {
		return models.Task{}, fieldErrs
	}

	task := models.Task{
		ID:          uuid.New().String(),
		UserID:      ownerID,
		TaskName:    name,
		Description: strings.TrimSpace(input.Description),
		DueDate:     dueDate,
		CreatedAt:   time.Now().UTC(),
	}

	stmt, err := s.db.Prepare(`
		INSERT INTO tasks (id, user_id, task_name, description, due_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return models.Task{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(task.ID, task.UserID, task.TaskName, task.Description, task.DueDate, task.CreatedAt)
	if err != nil {
		return models.Task{}, err
	}

	return s.GetTask(ownerID, task.ID)
}

// GetTask retrieves a single task by id, scoped to the given owner. A
// task owned by someone else looks exactly like a task that doesn't
// exist.
func (s *TaskService) GetTask(ownerID, taskID string) (models.Task, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, task_name, description, due_date, created_at
		FROM tasks WHERE id = ? AND user_id = ?`, taskID, ownerID)
	return s.scanTask(row)
}

// UpdateTask replaces the mutable fields of a task owned by the given
// user. Id, owner, and creation time never change.
func (s *TaskService) UpdateTask(ownerID, taskID string, input TaskInput) (models.Task, error) {
	if _, err := s.GetTask(ownerID, taskID); err != nil {
		return models.Task{}, err
	}

	name, dueDate, fieldErrs := validateTaskInput(input)
	if fieldErrs.Any() {
		return models.Task{}, fieldErrs
	}

	stmt, err := s.db.Prepare(`
		UPDATE tasks SET task_name = ?, description = ?, due_date = ?
		WHERE id = ? AND user_id = ?
	`)
	if err != nil {
		return models.Task{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(name, strings.TrimSpace(input.Description), dueDate, taskID, ownerID)
	if err != nil {
		return models.Task{}, err
	}

	return s.GetTask(ownerID, taskID)
}

// DeleteTask removes a task owned by the given user, with the same
// not-found masking as GetTask.
func (s *TaskService) DeleteTask(ownerID, taskID string) error {
	res, err := s.db.Exec("DELETE FROM tasks WHERE id = ? AND user_id = ?", taskID, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// scanTasks is a helper function to scan multiple rows into a slice of
// Tasks.
func (s *TaskService) scanTasks(rows *sql.Rows) ([]models.Task, error) {
	var tasks []models.Task
	for rows.Next() {
		task, err := s.scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// scanTask is a helper function to scan a single row into a Task struct.
func (s *TaskService) scanTask(scanner interface{ Scan(...interface{}) error }) (models.Task, error) {
	var task models.Task
	var description sql.NullString
	err := scanner.Scan(
		&task.ID,
		&task.UserID,
		&task.TaskName,
		&description,
		&task.DueDate,
		&task.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Task{}, apperr.ErrNotFound
		}
		return models.Task{}, err
	}
	if description.Valid {
		task.Description = description.String
	}
	return task, nil
}
