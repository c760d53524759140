// Package httputil holds the JSON request and response helpers shared by HTTP handlers.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	dErrors "quotedesk/pkg/domain-errors"
)

// DefaultMaxBodyBytes bounds request bodies decoded by ReadJSON.
const DefaultMaxBodyBytes int64 = 1 << 20

// Validatable is implemented by request types that normalize and validate themselves.
type Validatable interface {
	Validate() error
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the error envelope for err. Internal errors never carry a description.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.HTTPStatus(code)

	resp := errorResponse{Error: string(code)}
	if status < http.StatusInternalServerError {
		resp.ErrorDescription = dErrors.MessageOf(err)
	}
	WriteJSON(w, status, resp)
}

// ReadJSON decodes a single JSON value from the request body into dst.
// Decoding problems are reported as bad-request domain errors.
func ReadJSON(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return dErrors.Wrap(err, dErrors.CodeBadRequest,
				fmt.Sprintf("body contains badly-formed JSON (at character %d)", syntaxError.Offset))
		case errors.Is(err, io.ErrUnexpectedEOF):
			return dErrors.Wrap(err, dErrors.CodeBadRequest, "body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return dErrors.Wrap(err, dErrors.CodeBadRequest,
					fmt.Sprintf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field))
			}
			return dErrors.Wrap(err, dErrors.CodeBadRequest, "body contains incorrect JSON type")
		case errors.Is(err, io.EOF):
			return dErrors.New(dErrors.CodeBadRequest, "body must not be empty")
		case errors.As(err, &maxBytesError):
			return dErrors.Wrap(err, dErrors.CodeBadRequest,
				fmt.Sprintf("body must not be larger than %d bytes", maxBytesError.Limit))
		default:
			return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return dErrors.New(dErrors.CodeBadRequest, "body must only contain a single JSON value")
	}
	return nil
}

// DecodeAndPrepare decodes the body into T and runs its Validate method.
// On failure it writes the error response, logs it, and returns false.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (PT, bool) {
	req := PT(new(T))
	if err := ReadJSON(w, r, req, DefaultMaxBodyBytes); err != nil {
		logger.WarnContext(ctx, "failed to decode request",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, err)
		return nil, false
	}
	if err := req.Validate(); err != nil {
		logger.WarnContext(ctx, "invalid request",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, err)
		return nil, false
	}
	return req, true
}
