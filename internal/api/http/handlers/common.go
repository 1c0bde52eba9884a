package handlers

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"

	"github.com/fieldsuite/admin-service/internal/auth"
	"github.com/fieldsuite/admin-service/internal/domain"
	apperrors "github.com/fieldsuite/admin-service/pkg/util"
)

const maxPageSize = 100

// pageParams carries normalized pagination query values.
type pageParams struct {
	Page   int
	Limit  int
	Offset int
}

func parsePagination(c *fiber.Ctx) pageParams {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 {
		limit = 20
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return pageParams{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// requireActor fetches the session actor attached by the resolver.
func requireActor(c *fiber.Ctx) (*domain.SessionUser, error) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("missing session")
	}
	return actor, nil
}

// checkPayload runs a DTO's validation rules and converts failures into the
// uniform VALIDATION_ERROR envelope with per-field details.
func checkPayload(req interface{ Validate() error }) error {
	err := req.Validate()
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]any, len(fieldErrs))
		for field, fieldErr := range fieldErrs {
			details[field] = fieldErr.Error()
		}
		return apperrors.NewValidationError("invalid payload", details)
	}
	return apperrors.NewValidationError(err.Error(), nil)
}

// queryPtr returns the first non-empty value among the given query parameter
// names. Filters are accepted under both snake_case and camelCase spellings.
func queryPtr(c *fiber.Ctx, keys ...string) *string {
	for _, key := range keys {
		if val := strings.TrimSpace(c.Query(key)); val != "" {
			return &val
		}
	}
	return nil
}

func queryTimePtr(c *fiber.Ctx, keys ...string) (*time.Time, error) {
	for _, key := range keys {
		val := strings.TrimSpace(c.Query(key))
		if val == "" {
			continue
		}
		parsed, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return nil, apperrors.NewValidationError(key+" must be RFC3339", nil)
		}
		return &parsed, nil
	}
	return nil, nil
}

// splitQuery parses a comma-separated multi-value query param.
func splitQuery(c *fiber.Ctx, key string) []string {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
