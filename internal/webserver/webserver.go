package webserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo-contrib/session"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/motofleet/motofleet/internal/app"
)

// Context keys used by the injection middleware.
const (
	ContextDBKey  = "motofleet_db"
	ContextAppKey = "motofleet_app"
)

var server *WebServer

// WebServer wraps the echo engine and the authenticated /api group.
type WebServer struct {
	root *echo.Echo
	api  *echo.Group
	app  *app.Application
}

// jsonSerializer swaps echo's default encoder for jsoniter.
type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := jsoniter.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := jsoniter.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unmarshal error").SetInternal(err)
	}
	return nil
}

type webValidator struct {
	validate *validator.Validate
}

func (v *webValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func Init(application *app.Application) {
	server = NewWebServer(application)
}

func NewWebServer(application *app.Application) *WebServer {
	s := &WebServer{app: application, root: echo.New()}
	cfg := application.Config()

	s.root.HideBanner = true
	s.root.HidePort = true
	s.root.Debug = cfg.System.Debug
	s.root.JSONSerializer = jsonSerializer{}
	s.root.Validator = &webValidator{validate: validator.New()}

	s.root.Use(middleware.Recover())
	s.root.Use(session.Middleware(sessions.NewCookieStore([]byte(cfg.Web.Secret))))
	s.root.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextDBKey, application.DB())
			c.Set(ContextAppKey, application)
			return next(c)
		}
	})

	s.api = s.root.Group("/api")
	s.api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.Web.Secret),
		Skipper: func(c echo.Context) bool {
			switch c.Path() {
			case "/api/login", "/api/health":
				return true
			}
			return false
		},
	}))

	return s
}

// Listen blocks serving HTTP until the server is shut down.
func Listen() error {
	web := server.app.Config().Web
	zap.L().Info("starting web server",
		zap.String("host", web.Host), zap.Int("port", web.Port))
	return server.root.Start(fmt.Sprintf("%s:%d", web.Host, web.Port))
}

func Shutdown(ctx context.Context) error {
	return server.root.Shutdown(ctx)
}

func ApiGET(path string, h echo.HandlerFunc)    { server.api.GET(path, h) }
func ApiPOST(path string, h echo.HandlerFunc)   { server.api.POST(path, h) }
func ApiPUT(path string, h echo.HandlerFunc)    { server.api.PUT(path, h) }
func ApiPATCH(path string, h echo.HandlerFunc)  { server.api.PATCH(path, h) }
func ApiDELETE(path string, h echo.HandlerFunc) { server.api.DELETE(path, h) }
