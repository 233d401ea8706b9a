package transport

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	goahttp "goa.design/goa/v3/http"
	goamiddleware "goa.design/goa/v3/middleware"

	apperrors "talentdesk/pkg/errors"
)

// decodeBody reads the JSON request body into v
func decodeBody(r *http.Request, v any) error {
	if err := goahttp.RequestDecoder(r).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.New(apperrors.ErrCodeBadRequest, "request body is required")
		}
		return apperrors.Wrap(apperrors.ErrCodeBadRequest, "invalid request body: "+err.Error(), err)
	}
	return nil
}

// writeJSON encodes v with the negotiated response encoder
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	enc := goahttp.ResponseEncoder(ctx, w)
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := enc.Encode(v); err != nil {
		log.Printf("[HTTP] Failed to encode response: %v", err)
	}
}

// pathID parses the numeric path parameter name
func (s *Server) pathID(r *http.Request, name string) (uint, error) {
	raw := s.mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation(name, name+" must be a positive integer")
	}
	return uint(id), nil
}

// requestID prefers the id assigned by the RequestID middleware
func requestID(ctx context.Context, fallback string) string {
	if id, ok := ctx.Value(goamiddleware.RequestIDKey).(string); ok && id != "" {
		return id
	}
	return fallback
}
