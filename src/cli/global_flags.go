package cli

import (
    "io"
    "log"

    "github.com/spf13/cobra"

    "tmap-export/src/config"
    "tmap-export/src/export"
    "tmap-export/src/regions"
    "tmap-export/src/safety"
)

// addGlobalFlags adds persistent safety, logging and settings flags to the root command.
func addGlobalFlags(cmd *cobra.Command) {
    cmd.PersistentFlags().Bool("dry-run", false, "Show planned actions without making changes")
    cmd.PersistentFlags().BoolP("yes", "y", false, "Assume 'yes' to prompts and run non-interactively")
    cmd.PersistentFlags().Bool("force", false, "Replace existing projects without asking")
    cmd.PersistentFlags().BoolP("verbose", "v", false, "Log each written artifact to stderr")
    cmd.PersistentFlags().String("config", "", "Settings file (TOML)")
}

// getSafetyOptions reads global flags into a safety.Options struct.
func getSafetyOptions(cmd *cobra.Command) safety.Options {
    dry, _ := cmd.Root().PersistentFlags().GetBool("dry-run")
    yes, _ := cmd.Root().PersistentFlags().GetBool("yes")
    force, _ := cmd.Root().PersistentFlags().GetBool("force")
    return safety.Options{DryRun: dry, Yes: yes, Force: force}
}

// loadConfig reads --config, or returns the defaults when it is unset.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
    path, _ := cmd.Root().PersistentFlags().GetString("config")
    if path == "" {
        return config.Default(), nil
    }
    return config.Load(path)
}

// getExportOptions builds exporter options from the settings file and flags.
func getExportOptions(cmd *cobra.Command, stderr io.Writer) (export.Options, error) {
    cfg, err := loadConfig(cmd)
    if err != nil {
        return export.Options{}, err
    }
    palette, err := cfg.Palette()
    if err != nil {
        return export.Options{}, err
    }
    opts := export.DefaultOptions()
    opts.Manifest.CompositeMode = cfg.Manifest.CompositeMode
    opts.Manifest.MarkerScale = cfg.Manifest.MarkerScale
    opts.Regions = regions.Options{ArcDistance: cfg.Shapes.ArcDistance, MinSegments: cfg.Shapes.MinSegments}
    opts.Raster.Compression = cfg.Raster.Compression
    opts.LabelPalette = palette
    if verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose"); verbose {
        opts.Logger = log.New(stderr, "tmap-export: ", 0)
    }
    return opts, nil
}
