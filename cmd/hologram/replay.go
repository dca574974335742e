package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/hologram/internal/app"
	"github.com/ayusman/hologram/internal/detector"
	"github.com/ayusman/hologram/internal/gesture"
	"github.com/ayusman/hologram/internal/store"
)

func doReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	eventsOnly, _ := cmd.Flags().GetBool("events")
	journal, _ := cmd.Flags().GetBool("journal")

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	frames, err := detector.ReadRecording(f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	var opts app.Options
	if journal {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
		st, err := store.New(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("initialize store: %w", err)
		}
		defer st.Close()
		opts.Store = st
	}

	session := app.New(app.Config{
		Filter:    cfg.Filter,
		Capture:   cfg.Capture,
		FrameRate: cfg.FrameRate,
		Source:    store.SourceReplay,
	}, opts)

	enc := json.NewEncoder(cmd.OutOrStdout())
	err = app.Replay(cmd.Context(), session, frames, func(frame gesture.Frame) error {
		if eventsOnly && len(frame.Events) == 0 {
			return nil
		}
		return enc.Encode(frame)
	})
	if err != nil {
		return err
	}

	log.Printf("Replayed %d frames from %s", len(frames), args[0])
	return nil
}
