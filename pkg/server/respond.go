package server

import (
	"encoding/json"
	"net/http"

	errs "github.com/matzehuels/pcbgraph/pkg/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

// statusFor maps an error code onto an HTTP status.
func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeMalformedRecord, errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat,
		errs.ErrCodeInvalidOrdering, errs.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errs.ErrCodeNodeNotFound, errs.ErrCodeNetNotFound, errs.ErrCodeSessionNotFound, errs.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errs.ErrCodeAlreadyPlaced:
		return http.StatusConflict
	case errs.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeStore:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	msg := err.Error()
	if code != errs.ErrCodeInternal {
		msg = errs.UserMessage(err)
		if re, ok := errs.AsRecordError(err); ok {
			msg = re.Error()
		}
	}
	writeJSON(w, statusFor(code), errorBody{Error: errorDetail{Code: code, Message: msg}})
}
