package push

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	pushService "github.com/NguyenNhatCP/cuttingsync/service/push"
)

const tokenPrefix = "ExponentPushToken["

// RegisterPushRoutes wires the token registration and test-push endpoints.
// Everything except /health sits behind the x-api-secret header check.
func RegisterPushRoutes(e *echo.Echo, store pushService.TokenStore, sender *pushService.ExpoSender, secret string) {
	e.GET("/health", func(c echo.Context) error {
		count, err := store.Count()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"ok": true, "count": count})
	})

	g := e.Group("", requireSecret(secret))

	g.POST("/register-token", func(c echo.Context) error {
		var body struct {
			Token string `json:"token"`
		}
		if err := c.Bind(&body); err != nil || !strings.HasPrefix(body.Token, tokenPrefix) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid token"})
		}
		if err := store.Add(body.Token); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		count, _ := store.Count()
		return c.JSON(http.StatusOK, echo.Map{"ok": true, "count": count})
	})

	g.POST("/unregister-token", func(c echo.Context) error {
		var body struct {
			Token string `json:"token"`
		}
		if err := c.Bind(&body); err != nil || body.Token == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing token"})
		}
		if err := store.Remove(body.Token); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		count, _ := store.Count()
		return c.JSON(http.StatusOK, echo.Map{"ok": true, "count": count})
	})

	// Manual trigger for testing delivery end to end.
	g.POST("/test-push", func(c echo.Context) error {
		var body pushService.Notification
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if body.Title == "" {
			body.Title = "Test"
		}
		if body.Body == "" {
			body.Body = "Hello from server"
		}
		report, err := sender.SendToAll(c.Request().Context(), store, body)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, report)
	})
}

func requireSecret(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header.Get("x-api-secret")
			if h == "" || h != secret {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			return next(c)
		}
	}
}
