package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/palemoky/math-battle/internal/sound"
	"github.com/palemoky/math-battle/internal/ui"
)

var errRoomWithoutServer = errors.New("--room requires --server")

func newCmd(run func(ui.Options) error) *cobra.Command {
	opts := ui.Options{}

	cmd := &cobra.Command{
		Use:   "math-battle",
		Short: "Hot-seat math trivia card game for 2 or 3 players.",
		Long: "Hot-seat math trivia card game for 2 or 3 players.\n\n" +
			"The game runs locally by default. With --server it is played in a room\n" +
			"on a math-battle server, and --room resumes that room from another terminal.",
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if opts.RoomCode != "" && opts.ServerURL == "" {
				return errRoomWithoutServer
			}
			return run(opts)
		},
		SilenceUsage: true,
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.SoundDir, "sounds", sound.DefaultDir, "音效目录")
	fs.BoolVar(&opts.Mute, "mute", false, "关闭音效")
	fs.DurationVar(&opts.TickInterval, "tick", 0, "倒计时一秒的实际时长，用于调试")
	_ = fs.MarkHidden("tick")
	fs.StringVar(&opts.ServerURL, "server", "", "服务器 WebSocket 地址，例如 ws://localhost:1780/ws")
	fs.StringVar(&opts.RoomCode, "room", "", "要恢复的房间号")

	return cmd
}
