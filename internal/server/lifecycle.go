package server

import (
	"context"
	"log"
	"runtime"
	"time"
)

// monitorStats 定期输出服务器状态
func (s *Server) monitorStats(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		log.Printf("📊 [监控] 连接: %d/%d | 房间: %d | 进行中: %d | Goroutines: %d | 内存: %.2f MB",
			s.GetOnlineCount(),
			s.maxConnections,
			s.roomManager.ActiveRoomCount(),
			s.roomManager.ActiveGamesCount(),
			runtime.NumGoroutine(),
			float64(m.Alloc)/1024/1024)
	}
}

// Shutdown 关闭所有连接和房间。房间快照留在 Redis 中，重启后可以恢复
func (s *Server) Shutdown() {
	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clientsMu.Unlock()

	s.roomManager.Close()

	if s.redis != nil {
		_ = s.redis.Close()
	}

	log.Println("服务器已关闭")
}
