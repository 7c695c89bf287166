package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-splendor/config"
	"go-splendor/controller"
	"go-splendor/logger"
	"go-splendor/middleware"
	"go-splendor/repository"
	"go-splendor/router"
	"go-splendor/service"
	"go-splendor/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store repository.RoomStore
	switch cfg.RoomStore {
	case config.StoreRedis:
		rdb, err := repository.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Fatal("Redis 初始化失败", zap.Error(err))
		}
		defer rdb.Close()
		store = repository.NewRedisRoomStore(rdb, cfg.RoomTTL)
		log.Info("✅ Redis 连接成功", zap.String("addr", cfg.RedisAddr))
	default:
		store = repository.NewMemoryRoomStore()
	}

	var (
		saver  ws.ResultSaver
		reader service.ResultReader
	)
	if cfg.ResultsDriver != config.ResultsNone {
		results, err := repository.OpenResultStore(ctx, cfg.ResultsDriver, cfg.ResultsDSN)
		if err != nil {
			log.Fatal("对局归档初始化失败", zap.Error(err))
		}
		defer results.Close()
		saver, reader = results, results
	}

	hub := ws.NewHub(log, store, saver, ws.OptionsFromConfig(cfg))
	defer hub.WaitArchived()
	go hub.RunRoomJanitor(ctx, time.Minute, cfg.RoomTTL)
	rc := controller.NewRoomController(service.NewRoomService(log, store, hub, reader))

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	router.InitRouter(r, rc, hub)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Info("HTTP 服务启动", zap.String("addr", cfg.HTTPAddr), zap.String("roomStore", cfg.RoomStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP 服务异常退出", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("收到退出信号，正在关闭")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP 服务关闭失败", zap.Error(err))
	}
}
