package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/palemoky/math-battle/internal/config"
	"github.com/palemoky/math-battle/internal/game/room"
	"github.com/palemoky/math-battle/internal/game/session"
	"github.com/palemoky/math-battle/internal/server/handler"
	"github.com/palemoky/math-battle/internal/server/storage"
)

// Version 构建版本，由 ldflags 注入
var Version = "dev"

// Server WebSocket 服务器
type Server struct {
	config      *config.Config
	redis       *redis.Client // 未启用 Redis 时为 nil
	redisStore  *storage.RedisStore
	roomManager *room.RoomManager
	handler     *handler.Handler
	clients     map[string]*Client
	clientsMu   sync.RWMutex

	// 安全组件
	originChecker  *OriginChecker
	messageLimiter *MessageRateLimiter

	// 连接控制
	maxConnections int
	semaphore      chan struct{} // 信号量控制并发连接数

	upgrader  websocket.Upgrader
	accessLog io.Writer
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) (*Server, error) {
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		// 测试 Redis 连接
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis 连接失败: %w", err)
		}
	}

	s := &Server{
		config:         cfg,
		redis:          rdb,
		redisStore:     storage.NewRedisStore(rdb),
		clients:        make(map[string]*Client),
		originChecker:  NewOriginChecker(cfg.Security.AllowedOrigins),
		messageLimiter: NewMessageRateLimiter(cfg.Security.MessageLimit.MaxPerSecond),
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
		accessLog:      os.Stdout,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.originChecker.Check,
	}

	// 初始化房间管理器
	s.roomManager = room.NewRoomManager(s.redisStore, cfg.Game.RoomTimeoutDuration(),
		session.WithTickInterval(cfg.Game.TickIntervalDuration()))

	// 初始化消息处理器
	s.handler = handler.NewHandler(handler.HandlerDeps{
		RoomManager: s.roomManager,
	})

	if s.redisStore.Enabled() {
		log.Printf("💾 房间快照保存到 Redis %s", cfg.Redis.Addr)
		s.logResumableRooms()
	} else {
		log.Println("💾 未启用 Redis，房间只保存在内存中")
	}
	log.Printf("🔒 安全配置: 消息限制=%d/s, 最大连接数=%d, 允许来源=%v",
		cfg.Security.MessageLimit.MaxPerSecond, cfg.Server.MaxConnections, cfg.Security.AllowedOrigins)

	return s, nil
}

// logResumableRooms 报告重启前留在 Redis 中、可以恢复的房间
func (s *Server) logResumableRooms() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	codes, err := s.redisStore.RoomCodes(ctx)
	if err != nil {
		log.Printf("⚠️ 读取房间列表失败: %v", err)
		return
	}
	if len(codes) > 0 {
		log.Printf("♻️ Redis 中有 %d 个房间可以恢复", len(codes))
	}
}

// Handler 返回带中间件的 HTTP 处理器
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/ws", s.handleWebSocket)
	router.GET("/healthz", s.handleHealth)
	router.GET("/version", s.handleVersion)

	c := cors.New(cors.Options{
		AllowedOrigins: s.config.Security.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet},
	})

	var h http.Handler = router
	h = handlers.CombinedLoggingHandler(s.accessLog, h)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	return c.Handler(h)
}

// Run 启动服务器，ctx 取消后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		IdleTimeout:       60 * time.Second,
	}

	// 启动监控 goroutine
	go s.monitorStats(ctx, 30*time.Second)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 服务器启动在 ws://%s/ws (版本 %s)", addr, Version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Shutdown()
		return err
	case <-ctx.Done():
	}

	log.Println("⏳ 正在关闭服务器...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeoutDuration())
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Shutdown()
	return err
}
