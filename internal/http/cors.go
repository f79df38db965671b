package http

import (
	"regexp"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// localOrigin matches any loopback or private-LAN dev origin.
var localOrigin = regexp.MustCompile(`^http://(localhost|127\.0\.0\.1|192\.168\.\d+\.\d+)(:\d+)?$`)

// CORS allows only loopback/private-LAN origins; requests without an Origin
// header (curl, mobile apps) are unaffected. Other origins are blocked
// without failing the request pipeline.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return localOrigin.MatchString(origin)
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With", "Accept"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	})
}
