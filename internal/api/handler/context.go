package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxActor extracts the actor key injected by the Auth middleware and
// performs a fast-fail check before any service call: an empty actor means
// the token carries no usable identity, so no capability record could ever
// match it.
func ctxActor(c echo.Context) (string, error) {
	actor, _ := c.Get("actor").(string)
	if actor == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "token missing actor identity")
	}
	return actor, nil
}
