package cli

import (
    "fmt"
    "io"

    "github.com/spf13/cobra"

    "tmap-export/src/config"
)

func newConfigCmd(stdout io.Writer) *cobra.Command {
    cmd := &cobra.Command{
        Use:   "config",
        Short: "Show or check exporter settings",
    }
    cmd.AddCommand(&cobra.Command{
        Use:   "default",
        Short: "Print the default settings as TOML",
        Args:  cobra.NoArgs,
        RunE: func(cmd *cobra.Command, args []string) error {
            return config.Write(stdout, config.Default())
        },
    })
    cmd.AddCommand(&cobra.Command{
        Use:   "check FILE",
        Short: "Validate a settings file and print the effective settings",
        Args:  cobra.ExactArgs(1),
        RunE: func(cmd *cobra.Command, args []string) error {
            cfg, err := config.Load(args[0])
            if err != nil {
                return fmt.Errorf("config %s: %w", args[0], err)
            }
            return config.Write(stdout, cfg)
        },
    })
    return cmd
}
