package rest

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// observe записывает метрики запроса по шаблону маршрута, а не по
// конкретному пути, чтобы не раздувать кардинальность label-ов.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.metrics == nil {
			c.Next()
			return
		}

		started := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveRequest(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(started),
		)
	}
}
