package task

import "errors"

var (
	ErrEmptyTitle          = errors.New("task title cannot be empty")
	ErrTitleTooLong        = errors.New("task title cannot exceed 100 characters")
	ErrMissingDueDate      = errors.New("task due date is required")
	ErrInvalidStatus       = errors.New("invalid task status")
	ErrInvalidPriority     = errors.New("invalid priority label")
	ErrInvalidTheme        = errors.New("invalid theme weekday")
	ErrInvalidAttachment   = errors.New("attachment requires a url, a name and a non-negative size")
	ErrDuplicateAttachment = errors.New("attachment already exists")
	ErrAttachmentNotFound  = errors.New("attachment not found")
	ErrNegativeDuration    = errors.New("tracked time cannot be negative")
	ErrTaskNotFound        = errors.New("task not found")
	ErrVersionConflict     = errors.New("task was modified by another writer")

	ErrEmptyTemplateName = errors.New("template name cannot be empty")
	ErrTemplateNotFound  = errors.New("template not found")
)
