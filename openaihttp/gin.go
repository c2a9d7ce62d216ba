package openaihttp

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterGinRoutes 注册状态页、models 与 chat.completions 路由。
func RegisterGinRoutes(r gin.IRouter, cfg Config) error {
	if r == nil {
		return fmt.Errorf("router is nil")
	}
	modelsHandler, chatHandler, err := Handlers(cfg)
	if err != nil {
		return err
	}

	basePath := normalizeBasePath(cfg.BasePath)
	r.GET("/", gin.WrapF(StatusPage))
	r.GET(joinPath(basePath, "/models"), gin.WrapF(modelsHandler))
	r.POST(joinPath(basePath, "/chat/completions"), gin.WrapF(chatHandler))
	return nil
}

// CORS 为所有响应加上宽松的跨域头，OPTIONS 请求直接返回 204。
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		setCORSHeaders(c.Writer.Header())
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
