package handlers

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// getUserIDParam parses the :user_id path parameter
func getUserIDParam(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("user_id"))
}

func getIntParam(c echo.Context, name string, defaultValue int) int {
	param := c.QueryParam(name)
	if param == "" {
		return defaultValue
	}

	var value int
	if _, err := fmt.Sscanf(param, "%d", &value); err != nil {
		return defaultValue
	}

	return value
}

// getPagination extracts offset/limit query parameters with sane bounds
func getPagination(c echo.Context) (offset, limit int) {
	offset = getIntParam(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	limit = getIntParam(c, "limit", defaultPageLimit)
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return offset, limit
}

// parseDate parses a YYYY-MM-DD date string
func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
