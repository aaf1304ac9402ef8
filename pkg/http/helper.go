package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	apperrors "khietan/pkg/errors"
	"khietan/pkg/model"
)

const ParamRoomID = "id"

// ParseRoomID reads the :id path parameter as a positive integer room id.
func ParseRoomID(ps httprouter.Params) (int, error) {
	return ParseRoomIDString(ps.ByName(ParamRoomID))
}

func ParseRoomIDString(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id < 1 {
		return 0, apperrors.Validation("Invalid room id", map[string]any{"id": raw})
	}
	return id, nil
}

// DecodeJSON decodes the request body into target. Malformed JSON and values that
// cannot be coerced to numbers are reported as validation errors.
func DecodeJSON(r *http.Request, target any) error {
	if r.Body == nil {
		return apperrors.Validation("Request body is required", nil)
	}

	err := json.NewDecoder(r.Body).Decode(target)
	if err == nil {
		return nil
	}

	var coercion *model.CoercionError
	var typeErr *json.UnmarshalTypeError
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return apperrors.Validation("Request body is required", nil)
	case errors.As(err, &coercion):
		return apperrors.Validation("Invalid numeric value", map[string]any{"value": coercion.Value})
	case errors.As(err, &typeErr):
		return apperrors.Validation(fmt.Sprintf("Invalid value for field %s", typeErr.Field), nil)
	case errors.As(err, &maxBytes):
		return apperrors.Validation("Request body too large", map[string]any{"limit": maxBytes.Limit})
	default:
		return apperrors.Validation("Invalid JSON body", map[string]any{"error": err.Error()})
	}
}
