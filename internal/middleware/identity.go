package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-seating/internal/utils"
)

// StaffID returns the authenticated staff member, or 0 on public routes.
func StaffID(c echo.Context) uint64 {
	id, _ := c.Get(CtxStaffID).(uint64)
	return id
}

// requester identifies the caller for rate limit keys: the staff ID when
// authenticated, "anon" otherwise.
func requester(c echo.Context) string {
	if id := StaffID(c); id != 0 {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}

// claimLink returns the hashed claim token of the request, so raw links
// never end up in Redis key names.
func claimLink(c echo.Context) string {
	raw := c.Param("token")
	if raw == "" {
		return "none"
	}
	return utils.HashToken(raw)[:16]
}
