package routes

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/gin-gonic/gin"

	"saasgrid-backend/shared/config"
)

// getServiceURLs returns service URLs from configuration
func getServiceURLs() map[string]string {
	cfg := config.GetConfig()
	return map[string]string{
		"auth":         cfg.AuthServiceURL,
		"tenant":       cfg.TenantServiceURL,
		"core":         cfg.CoreServiceURL,
		"permissions":  cfg.PermissionServiceURL,
		"notification": cfg.NotificationServiceURL,
	}
}

// ProxyToService proxies the request to the named backend service. Identity
// established by the gateway travels as X-User-ID and X-Tenant-ID headers so
// downstream services never re-parse the token.
func ProxyToService(serviceName string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		serviceURLs := getServiceURLs()

		serviceURL, exists := serviceURLs[serviceName]
		if !exists {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Service not found", "service": serviceName})
			return
		}

		target, err := url.Parse(serviceURL)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid service URL", "service": serviceName})
			return
		}

		proxy := httputil.NewSingleHostReverseProxy(target)

		defaultDirector := proxy.Director
		proxy.Director = func(req *http.Request) {
			defaultDirector(req)

			if userID, exists := ctx.Get("user_id"); exists {
				req.Header.Set("X-User-ID", fmt.Sprintf("%v", userID))
			}
			if tenantID, exists := ctx.Get("tenant_id"); exists {
				req.Header.Set("X-Tenant-ID", fmt.Sprintf("%v", tenantID))
			}
		}

		proxy.ServeHTTP(ctx.Writer, ctx.Request)
	}
}
