package validation

import (
	"time"

	"taskboard/internal/domain"
)

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// ValidateTitle validates a task title for creation or update
func (tv *TaskValidator) ValidateTitle(title string) error {
	validationError := NewValidationError()

	trimmed := tv.validator.TrimAndValidateString(title)

	if !tv.validator.IsNonEmptyString(trimmed) {
		validationError.AddRequiredError("title")
		return validationError
	}

	if !tv.validator.IsValidTitleLength(trimmed) {
		validationError.AddInvalidLengthError("title", trimmed, 1, 255)
	}

	if validationError.HasErrors() {
		return validationError
	}

	return nil
}

// ValidateStatus validates a status literal
func (tv *TaskValidator) ValidateStatus(status string) error {
	if _, ok := domain.ParseStatus(status); !ok {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("status", status, "must be one of TODO, IN_PROGRESS, COMPLETED")
		return validationError
	}
	return nil
}

// ValidatePriority validates a priority literal
func (tv *TaskValidator) ValidatePriority(priority string) error {
	if _, ok := domain.ParsePriority(priority); !ok {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("priority", priority, "must be one of LOW, MEDIUM, HIGH")
		return validationError
	}
	return nil
}

// ValidateDueDate validates an optional due date
func (tv *TaskValidator) ValidateDueDate(dueDate *time.Time) error {
	if dueDate == nil {
		return nil
	}
	if !tv.validator.IsReasonableDate(*dueDate) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("due_date", *dueDate, "must be within a reasonable date range")
		return validationError
	}
	return nil
}

// ValidateTaskID validates a task ID
func (tv *TaskValidator) ValidateTaskID(id int64) error {
	if !tv.validator.IsValidID(id) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("task_id", id, "must be a positive integer")
		return validationError
	}
	return nil
}

// ValidateUserID validates a user ID reference
func (tv *TaskValidator) ValidateUserID(id int64) error {
	if !tv.validator.IsValidID(id) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("created_by_id", id, "must be a positive integer")
		return validationError
	}
	return nil
}

// ValidateTask validates a domain.Task object
func (tv *TaskValidator) ValidateTask(task domain.Task) error {
	validationError := NewValidationError()

	if titleErr := tv.ValidateTitle(task.Title); titleErr != nil {
		if titleValidationErr, ok := titleErr.(*ValidationError); ok {
			validationError.Errors = append(validationError.Errors, titleValidationErr.Errors...)
		}
	}

	if !task.Status.IsValid() {
		validationError.AddInvalidValueError("status", task.Status, "must be one of TODO, IN_PROGRESS, COMPLETED")
	}

	if !task.Priority.IsValid() {
		validationError.AddInvalidValueError("priority", task.Priority, "must be one of LOW, MEDIUM, HIGH")
	}

	// If task has an ID, validate it
	if task.ID != 0 && !tv.validator.IsValidID(task.ID) {
		validationError.AddInvalidValueError("task_id", task.ID, "must be a positive integer")
	}

	if validationError.HasErrors() {
		return validationError
	}

	return nil
}

// GetValidTitle returns a cleaned task title if valid
func (tv *TaskValidator) GetValidTitle(title string) (string, error) {
	if err := tv.ValidateTitle(title); err != nil {
		return "", err
	}
	return tv.validator.TrimAndValidateString(title), nil
}
