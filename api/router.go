package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/hotelfinder/api/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupRoutes(router *gin.Engine, s *server) {
	router.GET("/health", health())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.SetupHotel(router, s.logger, s.search, s.validator, handlers.PageLimits{
		DefaultSize: s.cfg.GetDefaultPageSize(),
		MaxSize:     s.cfg.GetMaxPageSize(),
	})
	handlers.SetupCatalog(router, s.logger, s.catalog, s.index, s.validator)

}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())

	return router
}
