// Package ui provides the main entry point for the UI.
package ui

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/math-battle/internal/game/session"
	"github.com/palemoky/math-battle/internal/logger"
	"github.com/palemoky/math-battle/internal/sound"
	"github.com/palemoky/math-battle/internal/ui/model"
)

const connectTimeout = 10 * time.Second

// Options 客户端启动参数
type Options struct {
	SoundDir     string
	Mute         bool
	TickInterval time.Duration // 0 表示真实的一秒，仅本地模式

	ServerURL string // 非空时在服务器房间里游戏
	RoomCode  string // 要恢复的房间，空则新建
}

// Run starts the hot-seat game in the terminal and blocks until it quits.
func Run(opts Options) (err error) {
	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "日志初始化失败: %v\n", err)
	}
	defer logger.Close()

	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	appOpts := []model.Option{
		model.WithSessionOptions(session.WithTickInterval(opts.TickInterval)),
	}
	if !opts.Mute {
		sm := sound.NewSoundManager(opts.SoundDir)
		if err := sm.Init(); err != nil {
			logger.LogError("音效初始化失败: %v", err)
		} else {
			defer sm.Close()
			appOpts = append(appOpts, model.WithSound(sm))
		}
	}

	app, err := newApp(opts, appOpts)
	if err != nil {
		return fmt.Errorf("连接服务器失败: %w", err)
	}
	defer app.Close()

	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("启动客户端时出错: %w", err)
	}
	return nil
}

func newApp(opts Options, appOpts []model.Option) (*model.App, error) {
	if opts.ServerURL == "" {
		return model.New(appOpts...), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	logger.LogInfo("Connecting to %s", opts.ServerURL)
	return model.NewRemote(ctx, opts.ServerURL, opts.RoomCode, appOpts...)
}
