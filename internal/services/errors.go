package services

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"talentdesk/internal/domain"
	apperrors "talentdesk/pkg/errors"
)

// notFound creates a NOT_FOUND error for the named entity
func notFound(entity string, id uint) *apperrors.AppError {
	return apperrors.Newf(apperrors.ErrCodeNotFound, "%s %d not found", entity, id)
}

// forbidden creates a FORBIDDEN error
func forbidden(message string) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeForbidden, message)
}

// conflict creates a CONFLICT error
func conflict(format string, args ...any) *apperrors.AppError {
	return apperrors.Newf(apperrors.ErrCodeConflict, format, args...)
}

// badRequest creates a BAD_REQUEST error
func badRequest(message string) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeBadRequest, message)
}

// unauthorized creates an UNAUTHORIZED error
func unauthorized(message string) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeUnauthorized, message)
}

// internal wraps an unexpected failure; the cause is logged, not exposed
func internal(tag, message string, err error) *apperrors.AppError {
	log.Printf("[%s] %s: %v", tag, message, err)
	return apperrors.Wrap(apperrors.ErrCodeInternalError, message, err)
}

// lookupErr converts a gorm lookup failure into NOT_FOUND or INTERNAL_ERROR
func lookupErr(tag, entity string, id uint, err error) *apperrors.AppError {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(entity, id)
	}
	return internal(tag, fmt.Sprintf("failed to load %s", entity), err)
}

// requireStaff rejects anonymous and non-staff actors
func requireStaff(actor domain.Actor) error {
	if !actor.Authenticated() {
		return unauthorized("authentication required")
	}
	if !actor.IsStaff && !actor.IsAdmin {
		return forbidden("staff access required")
	}
	return nil
}

// requireAdmin rejects actors without the admin role
func requireAdmin(actor domain.Actor) error {
	if !actor.Authenticated() {
		return unauthorized("authentication required")
	}
	if !actor.IsAdmin {
		return forbidden("admin access required")
	}
	return nil
}
