package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"autokudos/internal/adapters/storage"
	"autokudos/internal/application/orchestrators"
	"autokudos/internal/application/projections"
	"autokudos/internal/domain/category"
	"autokudos/internal/domain/championship"
	"autokudos/internal/domain/member"
	"autokudos/internal/domain/racetime"
	"autokudos/internal/domain/result"
	"autokudos/internal/domain/settings"
)

// maxBody caps JSON and form bodies. CSV uploads use maxUpload.
const (
	maxBody   = 1 << 20
	maxUpload = 10 << 20
)

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json_encode_failed", "error", err)
	}
}

// badRequest answers a malformed request body.
func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// clientErrors are sentinel errors whose message is safe to show.
var clientErrors = []error{
	member.ErrEmptyName, member.ErrNameTooLong, member.ErrInvalidGender,
	member.ErrInvalidDOB, member.ErrInvalidStatus,
	result.ErrEmptyName, result.ErrUnknownDistance, result.ErrInvalidRaceDate,
	result.ErrSecondsMismatch, result.ErrPendingIncomplete,
	championship.ErrCalendarSize, championship.ErrInvalidTerrain, championship.ErrEmptyEventName,
	championship.ErrEntryIncomplete, championship.ErrNoWinnerTime, championship.ErrZeroRunnerTime,
	settings.ErrEmptyPassword, settings.ErrPasswordTooShort, settings.ErrNoDistances,
	settings.ErrInvalidAgeMode,
	orchestrators.ErrConfirmationRequired, orchestrators.ErrNewPasswordSame,
}

// statusFor maps an orchestrator or projection error onto an HTTP status.
// Zero means the error is internal and must not be shown.
func statusFor(err error) int {
	var parseErr *racetime.ParseError
	var catErr *category.Error
	var importErr *orchestrators.ImportValidationError
	switch {
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, projections.ErrChampionshipHidden),
		errors.Is(err, projections.ErrDistanceHidden):
		return http.StatusNotFound
	case errors.Is(err, orchestrators.ErrMemberExists),
		errors.Is(err, orchestrators.ErrMemberNotResolved),
		errors.Is(err, settings.ErrStaleVersion),
		errors.Is(err, result.ErrInvalidTransition),
		errors.Is(err, storage.ErrConflict),
		errors.Is(err, storage.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, orchestrators.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, orchestrators.ErrCurrentPasswordWrong):
		return http.StatusForbidden
	case errors.As(err, &parseErr), errors.As(err, &catErr), errors.As(err, &importErr):
		return http.StatusUnprocessableEntity
	}
	for _, ce := range clientErrors {
		if errors.Is(err, ce) {
			return http.StatusUnprocessableEntity
		}
	}
	return 0
}

// fail answers an error. Client errors go back as JSON, or as a redirect to
// back with an error message for browser form posts.
func fail(w http.ResponseWriter, r *http.Request, back string, err error) {
	status := statusFor(err)
	if status == 0 {
		internalError(w, err)
		return
	}
	if back != "" && isHTMLRequest(r) && !isJSONRequest(r) {
		redirectWith(w, r, back, "error", err.Error())
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// done answers a successful write: JSON for API callers, a redirect with a
// flash message for browser form posts.
func done(w http.ResponseWriter, r *http.Request, back, msg string, status int, v any) {
	if back != "" && isHTMLRequest(r) && !isJSONRequest(r) {
		redirectWith(w, r, back, "msg", msg)
		return
	}
	if v == nil {
		v = map[string]string{"message": msg}
	}
	writeJSON(w, status, v)
}

func redirectWith(w http.ResponseWriter, r *http.Request, path, key, value string) {
	http.Redirect(w, r, path+"?"+url.Values{key: {value}}.Encode(), http.StatusSeeOther)
}

// formList splits a multi-value form field, dropping blanks.
func formList(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.Form[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
