package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ayusman/hologram/internal/config"
)

func main() {
	cobra.CheckErr(NewCmd().ExecuteContext(context.Background()))
}

// NewCmd builds the hologram command tree. Running it without a
// subcommand serves.
func NewCmd() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "hologram [command] [flags]",
		Short:         "hologram places a hologram with hand gestures",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: doServe,
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "`<path>` to a YAML config file")
	rootCmd.PersistentFlags().String("data-dir", "", "`<dir>` for the journal and hooks")
	addServeFlags(rootCmd)

	serveCmd := &cobra.Command{
		Use:   "serve [flags]",
		Short: "Track hands from the camera and serve the renderer",
		Args:  cobra.NoArgs,
		RunE:  doServe,
	}
	addServeFlags(serveCmd)

	replayCmd := &cobra.Command{
		Use:   "replay [flags] <recording.jsonl>",
		Short: "Run a landmark recording through the filter and print frames as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE:  doReplay,
	}
	replayCmd.Flags().Bool("events", false, "print only frames that carry interaction events")
	replayCmd.Flags().Bool("journal", false, "record the run in the journal")

	configCmd := &cobra.Command{
		Use:   "config [flags]",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  doConfig,
	}

	rootCmd.AddCommand(
		serveCmd,
		replayCmd,
		configCmd,
	)
	return rootCmd
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("addr", "", "`<host:port>` to listen on")
	cmd.Flags().String("static", "", "`<dir>` with the browser renderer")
	cmd.Flags().Int("camera", 0, "camera `<device>` index")
	cmd.Flags().Int("fps", 0, "render frame rate")
	cmd.Flags().Bool("no-tray", false, "run without the system tray")
	cmd.Flags().String("record", "", "write detected landmarks to `<file>`")
}

// loadConfig reads --config, then HOLOGRAM_* variables (also from ./.env),
// then any flags that were set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if err := config.LoadEnv(".env"); err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir, _ = flags.GetString("data-dir")
	}
	if flags.Lookup("addr") != nil {
		if flags.Changed("addr") {
			cfg.Server.Addr, _ = flags.GetString("addr")
		}
		if flags.Changed("static") {
			cfg.Server.StaticDir, _ = flags.GetString("static")
		}
		if flags.Changed("camera") {
			cfg.Capture.Device, _ = flags.GetInt("camera")
		}
		if flags.Changed("fps") {
			cfg.FrameRate, _ = flags.GetInt("fps")
		}
		if flags.Changed("no-tray") {
			noTray, _ := flags.GetBool("no-tray")
			cfg.Tray = !noTray
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func doConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return cfg.Encode(cmd.OutOrStdout())
}

// findWebDir returns the configured static directory or searches "web",
// "../web", "../../web" and <data_dir>/web. It returns "" if none exists.
func findWebDir(cfg config.Config) string {
	if cfg.Server.StaticDir != "" {
		return cfg.Server.StaticDir
	}

	candidates := []string{"web", "../web", "../../web", filepath.Join(cfg.DataDir, "web")}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}

func rendererURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		addr = "localhost" + addr
	}
	return fmt.Sprintf("http://%s/", addr)
}
