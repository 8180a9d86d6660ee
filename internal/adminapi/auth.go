package adminapi

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/motofleet/motofleet/internal/webserver"
)

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createUserPayload struct {
	Realname string `json:"realname" validate:"omitempty,max=200"`
	Email    string `json:"email" validate:"omitempty,email"`
	Username string `json:"username" validate:"required,min=2,max=64"`
	Password string `json:"password" validate:"required,min=6"`
	Level    string `json:"level" validate:"omitempty,oneof=admin user"`
}

func registerAuthRoutes() {
	webserver.ApiPOST("/login", login)
	webserver.ApiPOST("/logout", logout)
	webserver.ApiGET("/session", currentSession)
	webserver.ApiPOST("/users", createUser)
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	user, err := GetApp(c).UserService().Authenticate(c.Request().Context(), payload.Username, payload.Password)
	if err != nil {
		zap.L().Warn("login rejected", zap.String("username", payload.Username))
		return fail(c, http.StatusUnauthorized, "BAD_CREDENTIALS", "Invalid username or password", nil)
	}

	web := GetApp(c).Config().Web
	claims := jwt.MapClaims{
		"uid":      user.ID,
		"username": user.Username,
		"level":    user.Level,
		"exp":      time.Now().Add(time.Duration(web.JwtExpm) * time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(web.Secret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to sign token", nil)
	}

	sess, _ := session.Get("motofleet", c)
	sess.Values[sessionUserID] = user.ID
	sess.Values[sessionUsername] = user.Username
	sess.Values[sessionLevel] = user.Level
	_ = sess.Save(c.Request(), c.Response())

	return ok(c, echo.Map{
		"token":    token,
		"username": user.Username,
		"level":    user.Level,
	})
}

func logout(c echo.Context) error {
	sess, _ := session.Get("motofleet", c)
	sess.Options.MaxAge = -1
	_ = sess.Save(c.Request(), c.Response())
	return ok(c, echo.Map{"logout": true})
}

func currentSession(c echo.Context) error {
	uid := currentUserID(c)
	if uid == 0 {
		return fail(c, http.StatusUnauthorized, "NO_SESSION", "Not logged in", nil)
	}
	user, err := GetApp(c).UserService().Get(c.Request().Context(), uid)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, user)
}

func createUser(c echo.Context) error {
	if currentUserLevel(c) != "admin" {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Only administrators can create users", nil)
	}

	var payload createUserPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse user parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	user, err := GetApp(c).UserService().Create(c.Request().Context(),
		payload.Realname, payload.Email, payload.Username, payload.Password, payload.Level)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, user)
}
