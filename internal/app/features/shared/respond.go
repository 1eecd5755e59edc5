// internal/app/features/shared/respond.go

// Package shared holds the JSON request/response helpers every feature
// handler uses.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/linkuphq/linkup/internal/app/system/faults"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the uniform error payload.
type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// Error classifies err and writes the matching status and payload.
// Unknown failures hide their detail behind a generic message.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	kind := faults.KindOf(err)
	status := statusFor(kind)

	msg := "something went wrong"
	var f *faults.Fault
	if errors.As(err, &f) && f.Msg != "" && kind != faults.Unknown {
		msg = f.Msg
	}

	if status >= 500 {
		log.Error("request failed", zap.String("kind", kind.String()), zap.Error(err))
	} else {
		log.Debug("request rejected", zap.String("kind", kind.String()), zap.Error(err))
	}

	JSON(w, status, errorBody{Error: msg, Kind: kind.String()})
}

func statusFor(kind faults.Kind) int {
	switch kind {
	case faults.Auth:
		return http.StatusUnauthorized
	case faults.NotFound:
		return http.StatusNotFound
	case faults.Permission:
		return http.StatusForbidden
	case faults.Conflict:
		return http.StatusConflict
	case faults.Transient:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Decode reads the request body as JSON into v. Unknown fields are
// rejected so typos surface instead of silently dropping data.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return faults.Wrap(faults.Conflict, "invalid request body", err)
	}
	return nil
}
