package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"scribe/internal/models"
)

func newModelsCommand(ctx *commandContext) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Inspect and download speech models",
	}

	modelsCmd.AddCommand(newModelsListCommand())
	modelsCmd.AddCommand(newModelsDownloadCommand(ctx))

	return modelsCmd
}

func newModelsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Short:       "List available model sizes",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(models.Catalog()))
			for _, info := range models.Catalog() {
				rows = append(rows, []string{info.Size, info.Params, info.VRAM, info.Speed})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Model", "Parameters", "VRAM", "Relative Speed"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
}

func newModelsDownloadCommand(ctx *commandContext) *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "download <size>",
		Short: "Download a model into the local cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			env, err := models.LoadEnvironment()
			if err != nil {
				return err
			}
			if cfg.Paths.ModelCacheDir != "" {
				env.CacheDir = cfg.Paths.ModelCacheDir
			}

			selected := backend
			if selected == "" {
				selected = cfg.Whisper.Backend
			}
			if selected == "" || selected == "auto" {
				selected = "faster-whisper"
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			manager := models.NewManager(logger, env, cfg.PythonBinary())
			if err := manager.Download(runCtx, args[0], selected); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Model %s available in %s\n", args[0], env.CacheDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "Backend to fetch for: faster-whisper or whisper")
	return cmd
}
