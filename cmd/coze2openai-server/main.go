package main

import (
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leslieo2/coze2openai/config"
	"github.com/leslieo2/coze2openai/logging"
	"github.com/leslieo2/coze2openai/openaihttp"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	cfg.BindFlags(fs)
	_ = fs.Parse(os.Args[1:])

	closer, err := logging.Setup(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		log.Fatalf("setup logging failed: %v", err)
	}
	defer closer.Close()

	bots, err := cfg.Bots()
	if err != nil {
		log.Fatalf("load bot config failed: %v", err)
	}
	if bots.Default == "" && len(bots.Models) == 0 {
		log.Warn("no BOT_ID or BOT_CONFIG configured, upstream requests will carry an empty bot_id")
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(logging.GinLogger(), gin.Recovery(), openaihttp.CORS())

	err = openaihttp.RegisterGinRoutes(r, openaihttp.Config{
		BasePath:     cfg.BasePath,
		APIBase:      cfg.APIBase,
		DefaultBotID: bots.Default,
		BotConfig:    bots.Models,
	})
	if err != nil {
		log.Fatalf("register routes failed: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	local := addrForLocalClient(cfg.Listen)
	log.WithFields(log.Fields{
		"api_base": cfg.APIBase,
		"models":   len(bots.Models),
	}).Infof("coze2openai server listening on http://%s%s", local, cfg.BasePath)
	log.Infof("try: curl http://%s%s/models", local, cfg.BasePath)
	log.Infof("try: curl http://%s%s/chat/completions -H 'Authorization: Bearer $COZE_API_TOKEN' -H 'Content-Type: application/json' -d '{\"model\":\"coze\",\"messages\":[{\"role\":\"user\",\"content\":\"hi\"}],\"stream\":true}'", local, cfg.BasePath)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("server stopped")
	}
}

// addrForLocalClient 把监听地址转换为本机客户端可直接访问的地址（用于日志提示）。
func addrForLocalClient(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return listen
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}
