package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Rrens/business-assistant/internal/api/middleware"
	"github.com/Rrens/business-assistant/internal/api/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// maxBodySize bounds JSON request bodies
const maxBodySize = 1 << 20

// decodeBody decodes and validates a JSON body, writing the 400 itself on failure
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.BadRequest(w, "invalid request body")
		return false
	}

	if err := validate.Struct(v); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			response.BadRequest(w, validationMessages(validationErrors))
			return false
		}
		response.BadRequest(w, err.Error())
		return false
	}
	return true
}

func validationMessages(validationErrors validator.ValidationErrors) map[string]string {
	errs := make(map[string]string)
	for _, e := range validationErrors {
		field := e.Field()
		tag := e.Tag()
		switch tag {
		case "required":
			errs[field] = "field is required"
		case "min", "gte":
			errs[field] = "must be at least " + e.Param()
		case "max", "lte":
			errs[field] = "must be at most " + e.Param()
		case "gt":
			errs[field] = "must be greater than " + e.Param()
		case "oneof":
			errs[field] = "must be one of: " + e.Param()
		default:
			errs[field] = "validation failed on " + tag
		}
	}
	return errs
}

// currentUser returns the authenticated user id, writing the 401 itself when absent
func currentUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return 0, false
	}
	return userID, true
}

// pathID parses a positive int64 URL parameter, writing the 400 itself on failure
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "invalid "+name)
		return 0, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return v, nil
}

// queryTime reads an optional RFC 3339 or YYYY-MM-DD query parameter
func queryTime(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return &t, nil
}
