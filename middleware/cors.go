package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const devStorefrontOrigin = "http://localhost:5173"

// methods served by the API; admin product edits use PUT
var corsMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}

// CORSMiddleware admits the local storefront plus any origins listed in
// originURL, comma separated. Credentials are allowed so the session cookie
// travels with browser requests.
func CORSMiddleware(originURL string) gin.HandlerFunc {
	origins := []string{devStorefrontOrigin}
	for _, o := range strings.Split(originURL, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" && o != devStorefrontOrigin {
			origins = append(origins, o)
		}
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     corsMethods,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
