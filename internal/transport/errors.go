package transport

import (
	"context"
	"log"
	"net/http"

	goa "goa.design/goa/v3/pkg"

	"talentdesk/pkg/api"
	apperrors "talentdesk/pkg/errors"
)

// errorShape maps an error code to its HTTP status and goa error name.
type errorShape struct {
	status int
	name   string
}

var errorShapes = map[apperrors.ErrorCode]errorShape{
	apperrors.ErrCodeBadRequest:        {http.StatusBadRequest, "bad_request"},
	apperrors.ErrCodeValidation:        {http.StatusBadRequest, "validation_error"},
	apperrors.ErrCodeUnauthorized:      {http.StatusUnauthorized, "unauthorized"},
	apperrors.ErrCodeForbidden:         {http.StatusForbidden, "forbidden"},
	apperrors.ErrCodeNotFound:          {http.StatusNotFound, "not_found"},
	apperrors.ErrCodeConflict:          {http.StatusConflict, "conflict"},
	apperrors.ErrCodeInvalidTransition: {http.StatusUnprocessableEntity, "invalid_transition"},
	apperrors.ErrCodeInternalError:     {http.StatusInternalServerError, "internal_error"},
}

// StatusFor returns the HTTP status used for code
func StatusFor(code apperrors.ErrorCode) int {
	if shape, ok := errorShapes[code]; ok {
		return shape.status
	}
	return http.StatusInternalServerError
}

// writeError encodes err as an api.ErrorBody. Errors that are not AppErrors
// are reported as internal errors without their cause.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.Wrap(apperrors.ErrCodeInternalError, "internal server error", err)
	}
	shape, ok := errorShapes[appErr.Code]
	if !ok {
		shape = errorShapes[apperrors.ErrCodeInternalError]
	}

	message := appErr.Message
	if appErr.Code == apperrors.ErrCodeInternalError {
		log.Printf("[ERROR] %v", err)
		message = "internal server error"
	}

	svcErr := goa.NewServiceError(appErr, shape.name, false, false, appErr.Code == apperrors.ErrCodeInternalError)
	body := api.ErrorBody{
		Name:    svcErr.Name,
		ID:      requestID(ctx, svcErr.ID),
		Code:    string(appErr.Code),
		Message: message,
		Field:   appErr.Field,
	}
	writeJSON(ctx, w, shape.status, body)
}
