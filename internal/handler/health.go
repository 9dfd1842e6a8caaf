package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports that the process is up. Load balancers and monitoring
// probe this endpoint; it intentionally does not touch the database.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
