package monitoring

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StartMetricsServer exposes /metrics on its own port, away from the
// public API surface.
func StartMetricsServer(port string) {
	e := echo.New()

	promHandler := promhttp.Handler()
	e.GET("/metrics", func(c echo.Context) error {
		promHandler.ServeHTTP(c.Response(), c.Request())
		return nil
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	go func() {
		if err := http.ListenAndServe(":"+port, e); err != nil {
			log.Printf("metrics server stopped: %v", err)
		}
	}()
}
