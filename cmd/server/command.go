package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/palemoky/math-battle/internal/config"
	"github.com/palemoky/math-battle/internal/server"
)

// flags 命令行参数，显式设置的值覆盖配置文件
type flags struct {
	configPath   string
	host         string
	port         int
	redis        bool
	redisAddr    string
	tickInterval int
}

func newCmd(f *flags) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("MATHBATTLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:     "math-battle-server",
		Short:   "WebSocket server for Math Battle rooms.",
		Args:    cobra.NoArgs,
		Version: server.Version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags(), f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "configs/config.yaml", "配置文件路径 (env: MATHBATTLE_CONFIG)")
	fs.StringVar(&f.host, "host", "", "监听地址 (env: MATHBATTLE_HOST)")
	fs.IntVarP(&f.port, "port", "p", 0, "监听端口 (env: MATHBATTLE_PORT)")
	fs.BoolVar(&f.redis, "redis", false, "启用 Redis 保存房间 (env: MATHBATTLE_REDIS)")
	fs.StringVar(&f.redisAddr, "redis-addr", "", "Redis 地址 (env: MATHBATTLE_REDIS_ADDR)")
	fs.IntVar(&f.tickInterval, "tick-interval", 0, "倒计时一秒对应的毫秒数 (env: MATHBATTLE_TICK_INTERVAL)")

	bindEnv(v, fs)

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetVersionTemplate("math-battle-server {{.Version}}\n")
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

// bindEnv fills every flag not given on the command line from its
// MATHBATTLE_* environment variable.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(fl *pflag.Flag) {
		_ = v.BindPFlag(fl.Name, fl)
		_ = v.BindEnv(fl.Name)
		if !fl.Changed && v.IsSet(fl.Name) {
			_ = fs.Set(fl.Name, fmt.Sprintf("%v", v.Get(fl.Name)))
		}
	})
}

// loadConfig reads the config file, falling back to defaults, and applies
// the flags that were set.
func loadConfig(fs *pflag.FlagSet, f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		if fs.Changed("config") {
			return nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
		log.Printf("加载配置文件失败，使用默认配置: %v", err)
		cfg = config.Default()
	}

	if fs.Changed("host") {
		cfg.Server.Host = f.host
	}
	if fs.Changed("port") {
		if f.port < 1 || f.port > 65535 {
			return nil, fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", f.port)
		}
		cfg.Server.Port = f.port
	}
	if fs.Changed("redis") {
		cfg.Redis.Enabled = f.redis
	}
	if fs.Changed("redis-addr") {
		cfg.Redis.Addr = f.redisAddr
	}
	if fs.Changed("tick-interval") && f.tickInterval > 0 {
		cfg.Game.TickInterval = f.tickInterval
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("创建服务器失败: %w", err)
	}

	log.Println("🧮 数学对战服务器启动中...")
	return srv.Run(ctx)
}
