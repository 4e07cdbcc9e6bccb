package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/Dosada05/tournament-league/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type jsonResponse map[string]interface{}

const maxRequestBodyBytes = 1_048_576

var validate = newValidator()

// newValidator reports fields under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

// validationErrors flattens validator output into a field -> message map keyed by JSON names.
func validationErrors(err error) map[string]string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return map[string]string{"body": err.Error()}
	}
	out := make(map[string]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			out[field] = "must be provided"
		case "min":
			out[field] = fmt.Sprintf("must be at least %s", fe.Param())
		case "max":
			out[field] = fmt.Sprintf("must be at most %s", fe.Param())
		case "gtefield":
			out[field] = fmt.Sprintf("must not be before %s", fe.Param())
		case "oneof":
			out[field] = fmt.Sprintf("must be one of: %s", fe.Param())
		default:
			out[field] = fmt.Sprintf("failed on '%s'", fe.Tag())
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

// responder carries the logger used by the error helpers.
type responder struct {
	logger *slog.Logger
}

func (re responder) errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		re.logger.ErrorContext(r.Context(), "failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (re responder) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	re.logger.ErrorContext(r.Context(), "internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	message := "the server encountered a problem and could not process your request"
	re.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (re responder) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	re.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (re responder) failedValidationResponse(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	re.errorResponse(w, r, http.StatusUnprocessableEntity, errors)
}

func (re responder) unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	re.errorResponse(w, r, http.StatusUnauthorized, message)
}

func (re responder) writeOrFail(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if err := writeJSON(w, status, data, nil); err != nil {
		re.serverErrorResponse(w, r, err)
	}
}

// mapServiceErrorToHTTP translates a service error category into a status code.
func (re responder) mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch services.Category(err) {
	case services.ErrValidation:
		re.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
	case services.ErrNotFound:
		re.errorResponse(w, r, http.StatusNotFound, err.Error())
	case services.ErrForbidden:
		re.errorResponse(w, r, http.StatusForbidden, err.Error())
	case services.ErrConflict:
		re.errorResponse(w, r, http.StatusConflict, err.Error())
	default:
		re.serverErrorResponse(w, r, err)
	}
}

func getIDFromURL(r *http.Request, key string) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, key))
	if id == "" {
		return "", fmt.Errorf("missing %s in URL", key)
	}
	return id, nil
}
