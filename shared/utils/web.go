package utils

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/itchan-dev/postboard/shared/api"
	"github.com/itchan-dev/postboard/shared/errors"
	"github.com/itchan-dev/postboard/shared/logger"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so failures can be turned into error codes
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

// WriteErrorAndStatusCode writes the {"errors": [...]} envelope. Anything that
// is not an ErrorWithStatusCode is logged and reported as UNKNOWN_ERROR.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	var e *errors.ErrorWithStatusCode
	if errors.As(err, &e) {
		WriteJSON(w, e.StatusCode, api.ErrorResponse{Errors: []string{e.Message}})
		return
	}
	logger.Log.Error("unhandled error", "error", err)
	WriteJSON(w, http.StatusInternalServerError, api.ErrorResponse{Errors: []string{api.CodeUnknown}})
}

// DecodeValidate decodes a JSON body into body and runs its validate tags.
// A failed field is reported as INVALID_<FIELD>, e.g. userId -> INVALID_USER_ID.
func DecodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("invalid json body", "error", err)
		return errors.BadRequest(api.CodeInvalidBody)
	}
	if err := validate.Struct(body); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			logger.Log.Debug("request validation failed", "field", fieldErrs[0].Field(), "tag", fieldErrs[0].Tag())
			return errors.BadRequest(InvalidFieldCode(fieldErrs[0].Field()))
		}
		return errors.BadRequest(api.CodeInvalidBody)
	}
	return nil
}

func InvalidFieldCode(field string) string {
	var b strings.Builder
	b.WriteString("INVALID_")
	for i, r := range field {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
