package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount      ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidDescription ErrorCode = "INVALID_DESCRIPTION"
	ErrCodeInvalidDate        ErrorCode = "INVALID_DATE"
	ErrCodeInvalidQuantity    ErrorCode = "INVALID_QUANTITY"

	ErrCodeExpenseNotFound      ErrorCode = "EXPENSE_NOT_FOUND"
	ErrCodeShoppingItemNotFound ErrorCode = "SHOPPING_ITEM_NOT_FOUND"
	ErrCodeFixedExpenseNotFound ErrorCode = "FIXED_EXPENSE_NOT_FOUND"
	ErrCodeTaskNotFound         ErrorCode = "TASK_NOT_FOUND"
	ErrCodeEventNotFound        ErrorCode = "EVENT_NOT_FOUND"
	ErrCodeJournalNotFound      ErrorCode = "JOURNAL_ENTRY_NOT_FOUND"
	ErrCodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	ErrCodeToggleInProgress     ErrorCode = "TOGGLE_IN_PROGRESS"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"

	ErrCodeBackendUnavailable ErrorCode = "BACKEND_UNAVAILABLE"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// localizedMessages are the Indonesian texts shown to end users.
var localizedMessages = map[ErrorCode]string{
	ErrCodeValidationFailed:     "Data yang dimasukkan tidak valid",
	ErrCodeInvalidAmount:        "Jumlah harus lebih dari nol",
	ErrCodeInvalidDescription:   "Nama atau deskripsi wajib diisi",
	ErrCodeInvalidDate:          "Tanggal tidak valid",
	ErrCodeInvalidQuantity:      "Jumlah barang minimal 1",
	ErrCodeExpenseNotFound:      "Pengeluaran tidak ditemukan",
	ErrCodeShoppingItemNotFound: "Barang belanja tidak ditemukan",
	ErrCodeFixedExpenseNotFound: "Pengeluaran wajib tidak ditemukan",
	ErrCodeTaskNotFound:         "Tugas tidak ditemukan",
	ErrCodeEventNotFound:        "Acara tidak ditemukan",
	ErrCodeJournalNotFound:      "Catatan jurnal tidak ditemukan",
	ErrCodeUserNotFound:         "Pengguna tidak ditemukan",
	ErrCodeToggleInProgress:     "Perubahan sebelumnya masih diproses",
	ErrCodeInvalidCredentials:   "Email atau kata sandi salah",
	ErrCodeUserInactive:         "Akun tidak aktif",
	ErrCodeInvalidToken:         "Sesi tidak valid, silakan masuk kembali",
	ErrCodeTokenExpired:         "Sesi telah berakhir, silakan masuk kembali",
	ErrCodeBackendUnavailable:   "Gagal terhubung ke server, coba lagi nanti",
	ErrCodeInternal:             "Terjadi kesalahan, silakan coba lagi",
}

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {

			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

// Localized returns the Indonesian message for the error code, falling back
// to the generic message for unknown codes.
func (e *AppError) Localized() string {
	if msg, ok := localizedMessages[e.Code]; ok {
		return msg
	}
	return localizedMessages[ErrCodeInternal]
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause returns a copy carrying the cause, so shared sentinels are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// Is matches AppErrors by code so wrapped copies still satisfy errors.Is against sentinels.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewBackendError reports a failed storage call; it is the error class that
// triggers rollback of optimistic state.
func NewBackendError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Code:       ErrCodeBackendUnavailable,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

var (
	ErrExpenseNotFound      = NewNotFoundError("Expense not found", ErrCodeExpenseNotFound)
	ErrShoppingItemNotFound = NewNotFoundError("Shopping item not found", ErrCodeShoppingItemNotFound)
	ErrFixedExpenseNotFound = NewNotFoundError("Mandatory expense not found", ErrCodeFixedExpenseNotFound)
	ErrTaskNotFound         = NewNotFoundError("Task not found", ErrCodeTaskNotFound)
	ErrEventNotFound        = NewNotFoundError("Event not found", ErrCodeEventNotFound)
	ErrJournalNotFound      = NewNotFoundError("Journal entry not found", ErrCodeJournalNotFound)
	ErrUserNotFound         = NewNotFoundError("User not found", ErrCodeUserNotFound)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("User account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      ErrorType   `json:"type"`
		Code      ErrorCode   `json:"code"`
		Message   string      `json:"message"`
		MessageID string      `json:"message_id"`
		Details   interface{} `json:"details,omitempty"`
	}{
		Type:      e.Type,
		Code:      e.Code,
		Message:   e.Message,
		MessageID: e.Localized(),
		Details:   e.Details,
	})
}
