package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_ERROR", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

// NewDuplicateName reports a name collision inside a uniqueness scope, e.g.
// DUPLICATE_CLIENT_NAME for a client name reused within its tenant.
func NewDuplicateName(entity string, details map[string]any) error {
	return NewDomainError(
		fmt.Sprintf("DUPLICATE_%s_NAME", entity),
		fmt.Sprintf("%s name already in use", entity),
		http.StatusBadRequest,
		details,
	)
}

// NewTenantIDRequired signals a super_admin list call missing its explicit
// tenant filter. Listing across all tenants is never implicit.
func NewTenantIDRequired() error {
	return NewDomainError("TENANT_ID_REQUIRED", "tenantId filter required", http.StatusBadRequest, nil)
}

func NewNoTenantAccess() error {
	return NewDomainError("NO_TENANT_ACCESS", "actor has no tenant scope", http.StatusForbidden, nil)
}

func NewNoClientAccess() error {
	return NewDomainError("NO_CLIENT_ACCESS", "actor has no client scope", http.StatusForbidden, nil)
}

func NewInvalidStatus(message string, details map[string]any) error {
	return NewDomainError("INVALID_STATUS", message, http.StatusBadRequest, details)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
