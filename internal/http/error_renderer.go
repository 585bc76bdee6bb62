package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/isaacgyampoh/recipe-saver/internal/errors"
)

// ErrorRenderer is a function that renders an error template with the given data.
// This allows the error renderer to work with different rendering strategies.
type ErrorRenderer func(w http.ResponseWriter, r *http.Request, data any)

// ErrorOpts contains all options needed to render an error response.
type ErrorOpts struct {
	// W is the HTTP response writer
	W http.ResponseWriter
	// R is the HTTP request
	R *http.Request
	// Err is the error that occurred (optional, can be nil if only field errors)
	Err error
	// FieldErrors contains field-level validation errors (field name -> error message)
	FieldErrors map[string]string
	// Renderer is the function to render the error template
	Renderer ErrorRenderer
	// PageMeta contains page metadata (title, current page, etc.)
	PageMeta PageMeta
	// Data contains additional template data to pass to the renderer.
	// This is useful for preserving form data, dropdown options, etc.
	Data map[string]any
	// StatusCode is the HTTP status code to set (optional, defaults to 200 for HTMX compatibility)
	StatusCode int
	// ShowToast triggers a toast notification with the error message (optional)
	ShowToast bool
}

// RenderError renders an error response using consistent error handling patterns.
// It maps the application error taxonomy (auth, validation, query, mutation,
// upload) to user-facing messages, attaching field-level errors where the
// error names a field.
func RenderError(opts ErrorOpts) {
	if opts.Renderer == nil {
		http.Error(opts.W, "misconfigured error renderer", http.StatusInternalServerError)
		return
	}

	builder := NewTemplateData(opts.R, opts.PageMeta)

	// Process the error if present (this may add field errors)
	generalError := processError(opts.Err, &opts.FieldErrors)

	if len(opts.FieldErrors) > 0 {
		builder.WithFieldErrors(opts.FieldErrors)
	}

	if generalError != "" {
		builder.WithError(generalError)
	} else if len(opts.FieldErrors) > 0 {
		builder.WithError(errMsgFixBelow)
	}

	if opts.Data != nil {
		for k, v := range opts.Data {
			builder.With(k, v)
		}
	}

	if opts.ShowToast && generalError != "" {
		triggerToast(opts.W, generalError, "error")
	}

	if opts.StatusCode != 0 {
		opts.W.WriteHeader(opts.StatusCode)
	}

	opts.Renderer(opts.W, opts.R, builder.Build())
}

// processError processes an error and returns a user-friendly error message.
// It also updates fieldErrors if the error can be mapped to a specific field.
// Returns empty string if err is nil.
func processError(err error, fieldErrors *map[string]string) string {
	if err == nil {
		return ""
	}

	// Distinguish between timeout and cancellation for better UX
	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timed out. Please try again."
	}
	if errors.Is(err, context.Canceled) {
		return "Request was canceled."
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return processAppError(appErr, fieldErrors)
	}

	// Raw PostgreSQL errors that escaped the service mapping
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return processDBError(pgErr, fieldErrors)
	}

	return "An error occurred. Please try again."
}

// processAppError maps the application error taxonomy to user-facing messages.
func processAppError(appErr *apperrors.AppError, fieldErrors *map[string]string) string {
	switch appErr.Code {
	case apperrors.ErrCodeValidation:
		if appErr.Field != "" {
			addFieldError(fieldErrors, appErr.Field, appErr.Message)
			return errMsgFixBelow
		}
		return appErr.Message
	case apperrors.ErrCodeAuth:
		return appErr.Message
	case apperrors.ErrCodeNotFound:
		return "That item no longer exists."
	case apperrors.ErrCodeConflict:
		if appErr.Field != "" {
			addFieldError(fieldErrors, appErr.Field, "This value already exists. Please choose a different one.")
			return errMsgFixBelow
		}
		return "This value already exists. Please choose a different one."
	case apperrors.ErrCodeQuery:
		return "Unable to load data. Please try again."
	case apperrors.ErrCodeMutation:
		return "Unable to save changes. Please try again."
	case apperrors.ErrCodeUpload:
		if appErr.Message != "" {
			return appErr.Message
		}
		return "Unable to upload image. Please try again."
	default:
		return "An error occurred. Please try again."
	}
}

// processDBError processes PostgreSQL-specific errors and returns user-friendly messages.
func processDBError(pgErr *pgconn.PgError, fieldErrors *map[string]string) string {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if pgErr.ColumnName != "" {
			addFieldError(fieldErrors, pgErr.ColumnName, "This value already exists. Please choose a different one.")
			return errMsgFixBelow
		}
		return "This value already exists. Please choose a different one."
	case pgerrcode.ForeignKeyViolation:
		return "Cannot complete operation because this item is in use."
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		if pgErr.ColumnName != "" {
			addFieldError(fieldErrors, pgErr.ColumnName, "This field has an invalid value.")
			return errMsgFixBelow
		}
		return "Invalid data. Please check your input."
	default:
		return "A database error occurred. Please try again."
	}
}

func addFieldError(fieldErrors *map[string]string, field, message string) {
	if fieldErrors == nil {
		return
	}
	if *fieldErrors == nil {
		*fieldErrors = make(map[string]string)
	}
	(*fieldErrors)[field] = message
}
