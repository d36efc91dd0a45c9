package utils

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/itchan-dev/msgboard/shared/errors"
	"github.com/itchan-dev/msgboard/shared/logger"
)

const maxBodySize = 1 << 20

// IncompleteForm is the message of every missing-field validation failure
const IncompleteForm = "incomplete form"

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrorStatusCode returns the status code err should be answered with.
func ErrorStatusCode(err error) int {
	var e *errors.ErrorWithStatusCode
	if stderrors.As(err, &e) {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	WriteErrorWithStatus(w, err, ErrorStatusCode(err))
}

// WriteErrorWithStatus writes the error message as plain text.
// Errors of unknown origin are logged and answered with a generic message.
func WriteErrorWithStatus(w http.ResponseWriter, err error, status int) {
	var e *errors.ErrorWithStatusCode
	if !stderrors.As(err, &e) {
		logger.Log.Error("unhandled error", "error", err)
		writePlain(w, "Internal server error", status)
		return
	}
	if e.Err != nil {
		logger.Log.Error(e.Message, "kind", e.Kind.String(), "error", e.Err)
	}
	writePlain(w, e.Message, status)
}

// writePlain is http.Error without the trailing newline, clients compare
// error bodies byte for byte.
func writePlain(w http.ResponseWriter, msg string, status int) {
	h := w.Header()
	h.Del("Content-Length")
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	w.Write([]byte(msg))
}

// DecodeRequest collects request fields into body. Query parameters are read
// first, then the body (application/json or application/x-www-form-urlencoded)
// overrides them. Bodies are read for every method, DELETE included.
// JSON bodies are decoded straight into body, so a field of the wrong type is
// rejected instead of being dropped.
func DecodeRequest(r *http.Request, body any) error {
	fields := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}

	var raw []byte
	if r.Body != nil && r.Body != http.NoBody {
		var err error
		raw, err = io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
		if err != nil {
			return &errors.ErrorWithStatusCode{Message: "Body can't be read", StatusCode: http.StatusBadRequest, Kind: errors.KindValidation}
		}
		if len(raw) > maxBodySize {
			return &errors.ErrorWithStatusCode{Message: "Body is too large", StatusCode: http.StatusRequestEntityTooLarge, Kind: errors.KindValidation}
		}
	}

	isJSON := false
	if len(raw) > 0 {
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		isJSON = mediaType == "application/json"
		if !isJSON {
			if err := mergeForm(raw, fields); err != nil {
				return err
			}
		}
	}

	// query and form values are all strings, the map round-trip is lossless
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, body); err != nil {
		return err
	}

	if isJSON {
		if err := json.Unmarshal(raw, body); err != nil {
			logger.Log.Debug("invalid json body", "error", err)
			return &errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: http.StatusBadRequest, Kind: errors.KindValidation}
		}
	}
	return nil
}

func mergeForm(raw []byte, fields map[string]string) error {
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		logger.Log.Debug("invalid form body", "error", err)
		return &errors.ErrorWithStatusCode{Message: "Body is invalid form", StatusCode: http.StatusBadRequest, Kind: errors.KindValidation}
	}
	for k, v := range values {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}
	return nil
}

// Validate checks the validate tags of a request DTO
func Validate(body any) error {
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("request validation failed", "error", err)
		return errors.Validation(IncompleteForm)
	}
	return nil
}
