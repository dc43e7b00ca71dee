package cli

import (
    "fmt"
    "io"
    "os"

    "github.com/spf13/cobra"
)

// NewRootCmd returns the root cobra command for the tmap-export CLI.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
    cmd := &cobra.Command{
        Use:   "tmap-export",
        Short: "Export viewer layers (images, labels, points, shapes) into .tmap projects",
        SilenceUsage:  true,
        SilenceErrors: true,
    }

    cmd.SetOut(stdout)
    cmd.SetErr(stderr)

    addGlobalFlags(cmd)

    // Subcommands
    cmd.AddCommand(newVersionCmd(stdout))
    cmd.AddCommand(newExportCmd(stdout, stderr))
    cmd.AddCommand(newInspectCmd(stdout))
    cmd.AddCommand(newListCmd(stdout))
    cmd.AddCommand(newVerifyCmd(stdout))
    cmd.AddCommand(newConfigCmd(stdout))

    return cmd
}

// Execute runs the CLI with the process stdio.
func Execute() int {
    root := NewRootCmd(os.Stdout, os.Stderr)
    if err := root.Execute(); err != nil {
        fmt.Fprintln(os.Stderr, "error:", err)
        return 1
    }
    return 0
}
