package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/bitbrkr/backend/internal/models"
	"github.com/bitbrkr/backend/validators"
	"github.com/labstack/echo/v4"
)

// newTestContext builds an echo context around a JSON request, wired
// with the same validator the server installs.
func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validators.NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asUser injects the claims the JWT middleware would have set.
func asUser(c echo.Context, userID uint, username string) {
	c.Set("user", &models.JwtCustomClaims{UserID: userID, Username: username})
}

// httpCode extracts the status code from a handler's returned error.
func httpCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return http.StatusOK
}
