package handlers

import (
	"net/http"
	"strconv"
	"time"

	"ricemill-backend/internal/apperrors"
	"ricemill-backend/internal/timeutil"
	"ricemill-backend/pkg/utils"
)

// respondError maps a tagged business error to its HTTP status. Untagged
// errors are treated as internal.
func respondError(w http.ResponseWriter, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		utils.Error(w, http.StatusNotFound, err.Error())
	case apperrors.KindConflict:
		utils.Error(w, http.StatusConflict, err.Error())
	case apperrors.KindValidation:
		utils.Error(w, http.StatusBadRequest, err.Error())
	case apperrors.KindBusinessRule:
		utils.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		utils.Error(w, http.StatusInternalServerError, err.Error())
	}
}

// pathID parses the {id} route variable
func pathID(value string) (int, bool) {
	id, err := strconv.Atoi(value)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func queryFloat(r *http.Request, name string) *float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func queryDate(r *http.Request, name string) *time.Time {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	t, err := timeutil.ParseInWIB(timeutil.DateLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}

func queryIntDefault(r *http.Request, name string, fallback int) int {
	if v := queryInt(r, name); v != nil {
		return *v
	}
	return fallback
}
