package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MartinDew/FeatherEngine/internal/config"
	"github.com/MartinDew/FeatherEngine/internal/engine"
	"github.com/MartinDew/FeatherEngine/internal/platform"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// launchFlags are command-line overrides applied on top of the config file.
type launchFlags struct {
	config    string
	editor    bool
	window    string
	replay    string
	maxFrames int
	logLevel  string
	debugAddr string
}

func newRootCmd() *cobra.Command {
	var f launchFlags
	root := &cobra.Command{
		Use:           "feather [project-path]",
		Short:         "Run a Feather project",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.config)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := f.apply(cmd, args, cfg); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fl := root.Flags()
	fl.StringVar(&f.config, "config", os.Getenv("FEATHER_CONFIG"), "TOML config file (defaults FEATHER_CONFIG)")
	fl.BoolVarP(&f.editor, "editor", "e", false, "Start in editor mode")
	fl.StringVarP(&f.window, "window", "w", "", "Window backend: headless|windowed")
	fl.StringVar(&f.replay, "replay", "", "YAML event replay for the headless backend")
	fl.IntVar(&f.maxFrames, "max-frames", 0, "Stop after this many frames (0 = until closed)")
	fl.StringVar(&f.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	fl.StringVar(&f.debugAddr, "debug-addr", "", "Serve /metrics and /healthz on this address")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the engine version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "feather %s\n", version)
		},
	})
	return root
}

// apply copies every flag the user set into cfg and revalidates it.
func (f *launchFlags) apply(cmd *cobra.Command, args []string, cfg *config.Config) error {
	if len(args) == 1 {
		cfg.Engine.ProjectPath = args[0]
	}
	fl := cmd.Flags()
	if fl.Changed("editor") {
		cfg.Engine.Editor = f.editor
	}
	if fl.Changed("window") {
		cfg.Window.Mode = f.window
	}
	if fl.Changed("replay") {
		cfg.Replay.Path = f.replay
	}
	if fl.Changed("max-frames") {
		cfg.Engine.MaxFrames = f.maxFrames
	}
	if fl.Changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if fl.Changed("debug-addr") {
		cfg.Debug.ListenAddr = f.debugAddr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("flags: %w", err)
	}
	return nil
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(project string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Printf("\033[36;1m  │\033[0m          Feather Engine  v%-16s\033[36;1m│\033[0m\n", version)
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	if project == "" {
		project = "."
	}
	fmt.Printf("  \033[1mProject:\033[0m %s\n\n", project)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, value string) {
	dotsLen := 42 - len(label) - len(value)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), value)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main engine logic ──────────────────────────────────────────────

func run(ctx context.Context, cfg *config.Config) error {
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Engine.ProjectPath)

	printSection("Platform")
	var replay *platform.Replay
	if path := cfg.ResolvePath(cfg.Replay.Path); path != "" {
		replay, err = platform.LoadReplay(path)
		if err != nil {
			return err
		}
		printStat("Replay events", fmt.Sprintf("%d", len(replay.Events)))
	}
	p, err := platform.Open(cfg.Window.Mode, replay)
	if err != nil {
		return fmt.Errorf("platform: %w", err)
	}
	printOK(fmt.Sprintf("%s platform ready", cfg.Window.Mode))
	fmt.Println()

	printSection("Engine")
	eng, err := engine.New(cfg, p, log)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	defer func() {
		if err := eng.Close(); err != nil {
			log.Warn("engine close", zap.Error(err))
		}
	}()

	props := eng.Window().Properties()
	printStat("Window", fmt.Sprintf("%dx%d", props.Width, props.Height))
	printStat("Renderer", eng.Rendering().Renderer().Name())
	if s := eng.Scripts(); s != nil {
		printStat("Script listeners", fmt.Sprintf("%d", s.Subscriptions()))
	}
	printStat("Systems", fmt.Sprintf("%d", eng.Systems().Len()))
	if cfg.Debug.ListenAddr != "" {
		printStat("Debug server", cfg.Debug.ListenAddr)
	}
	fmt.Println()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printReady(fmt.Sprintf("Main loop started (run %s)", eng.RunID()))
	fmt.Println()
	return eng.Run(ctx)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
