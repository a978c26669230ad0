package gorbie

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Main parses the standard notebook CLI surface and runs fn with the
// selected driver. Every flag has a GORBIE_-prefixed environment twin
// (GORBIE_OUT_DIR, GORBIE_SCALE, ...). Exits non-zero on failure; notebook
// binaries call it directly from main.
func Main(name string, fn NotebookFunc) {
	if err := NewCommand(name, fn).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewCommand builds the cobra command for a notebook binary. Split from
// Main so hosts can mount notebooks as subcommands.
func NewCommand(name string, fn NotebookFunc) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           name,
		Short:         name + " notebook",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotebook(name, fn, v)
		},
	}

	flags := cmd.Flags()
	flags.Bool("headless", false, "capture each card to a PNG instead of opening a window")
	flags.String("out-dir", "./gorbie_capture", "headless capture output directory")
	flags.Float64("scale", 2.0, "pixels per point for captured images")
	flags.Int("headless-wait-ms", 2000, "quiescence threshold before capturing each card")
	flags.Int("width", 960, "window width")
	flags.Int("height", 800, "window height")
	flags.Bool("show-fps", false, "overlay frame statistics on the window")
	flags.Bool("verbose", false, "enable debug logging")

	v.SetEnvPrefix("GORBIE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(flags)

	return cmd
}

func runNotebook(name string, fn NotebookFunc, v *viper.Viper) error {
	log := zap.NewNop()
	if v.GetBool("verbose") {
		var err error
		log, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = log.Sync() }()
	}

	nb := New(fn)
	nb.SetLogger(log)

	if pile := os.Getenv(TelemetryPileEnv); pile != "" {
		if err := nb.EnableTelemetry(pile); err != nil {
			// Telemetry failure must not affect the run.
			log.Warn("telemetry disabled", zap.Error(err))
		} else {
			defer nb.CloseTelemetry()
		}
	}

	if v.GetBool("headless") {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return RunHeadless(ctx, nb, CaptureConfig{
			OutDir: v.GetString("out-dir"),
			Scale:  v.GetFloat64("scale"),
			WaitMS: v.GetInt("headless-wait-ms"),
		})
	}

	return Run(nb, RunConfig{
		Title:   name,
		Width:   v.GetInt("width"),
		Height:  v.GetInt("height"),
		ShowFPS: v.GetBool("show-fps"),
	})
}
