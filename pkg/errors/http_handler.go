package errors

import (
	"encoding/json"
	"net/http"
)

// WriteError writes err as a {success:false, error} envelope. The returned error is the
// encoding failure, if any; the status line has already been sent at that point.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := AsAppError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())

	return json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error:   appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}
