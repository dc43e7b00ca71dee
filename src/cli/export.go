package cli

import (
    "context"
    "errors"
    "fmt"
    "io"
    "os"
    "os/signal"
    "path/filepath"
    "strings"
    "syscall"
    "text/tabwriter"
    "time"

    humanize "github.com/dustin/go-humanize"
    "github.com/spf13/cobra"

    "tmap-export/src/export"
    "tmap-export/src/layer"
    "tmap-export/src/project"
    "tmap-export/src/safety"
    "tmap-export/src/scene"
    "tmap-export/src/watch"
)

func newExportCmd(stdout, stderr io.Writer) *cobra.Command {
    var (
        out      string
        progress bool
        watching bool
        debounce time.Duration
    )
    cmd := &cobra.Command{
        Use:   "export SCENE",
        Short: "Export the layers described by a scene file into a .tmap project",
        Args:  cobra.ExactArgs(1),
        RunE: func(cmd *cobra.Command, args []string) error {
            if out == "" {
                return errors.New("--out is required (e.g., --out result.tmap)")
            }
            if !project.IsProjectPath(out) {
                return fmt.Errorf("--out %q: %w", out, export.ErrNotProject)
            }
            opts, err := getExportOptions(cmd, stderr)
            if err != nil {
                return err
            }
            if progress {
                opts.Progress = stderr
            }
            sopts := getSafetyOptions(cmd)

            run := func() error {
                return runExport(cmd, stdout, args[0], out, opts, sopts)
            }
            if !watching || sopts.DryRun {
                return run()
            }

            if err := run(); err != nil {
                fmt.Fprintln(stderr, "error:", err)
            }
            // Later runs replace the project this command wrote.
            sopts.Yes = true
            sources, err := scene.Sources(args[0])
            if err != nil {
                return err
            }
            ctx := cmd.Context()
            if ctx == nil {
                ctx = context.Background()
            }
            ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
            defer stop()
            fmt.Fprintf(stderr, "Watching %d file(s) for changes. Press Ctrl+C to stop.\n", len(sources))
            err = watch.Run(ctx, sources, debounce, run, func(err error) {
                fmt.Fprintln(stderr, "error:", err)
            })
            if errors.Is(err, context.Canceled) {
                return nil
            }
            return err
        },
    }
    cmd.Flags().StringVarP(&out, "out", "o", "", "Target project path ending in .tmap")
    cmd.Flags().BoolVar(&progress, "progress", false, "Report bytes written per artifact on stderr")
    cmd.Flags().BoolVar(&watching, "watch", false, "Re-export whenever the scene or its sources change")
    cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before re-exporting in --watch mode")
    return cmd
}

func runExport(cmd *cobra.Command, stdout io.Writer, scenePath, out string, opts export.Options, sopts safety.Options) error {
    layers, err := scene.Load(scenePath)
    if err != nil {
        return err
    }
    if sopts.DryRun {
        dir, files, err := export.Plan(out, layers, opts)
        if err != nil {
            return err
        }
        fmt.Fprintf(stdout, "[dry-run] Would export %d layer(s) (%s) to %s\n", len(layers), kindSummary(layers), dir)
        for _, f := range files {
            fmt.Fprintf(stdout, "[dry-run]   %s\n", f)
        }
        return nil
    }

    proj, err := project.Parse(out)
    if err != nil {
        return err
    }
    replace, proceed, err := safety.ConfirmReplace(sopts, cmd.InOrStdin(), stdout, proj.Dir)
    if err != nil {
        return err
    }
    if !proceed {
        fmt.Fprintln(stdout, "Aborted.")
        return nil
    }
    opts.Clean = replace

    res, err := export.Export(out, layers, opts)
    if err != nil {
        return err
    }
    fmt.Fprintf(stdout, "Exported %d layer(s) (%s) to %s\n", len(layers), kindSummary(layers), res.Dir)
    return renderFiles(stdout, res)
}

// kindSummary counts layers per supported kind, e.g. "image=1 labels=0 points=2 shapes=0".
func kindSummary(layers []layer.Layer) string {
    parts := make([]string, 0, len(layer.SupportedKinds))
    for _, k := range layer.SupportedKinds {
        parts = append(parts, fmt.Sprintf("%s=%d", k, len(layer.Filter(layers, k))))
    }
    return strings.Join(parts, " ")
}

func renderFiles(w io.Writer, res *export.Result) error {
    tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
    fmt.Fprintln(tw, "FILE\tSIZE")
    var total uint64
    for _, f := range res.Files {
        size := "-"
        if fi, err := os.Stat(filepath.Join(res.Dir, filepath.FromSlash(f))); err == nil {
            total += uint64(fi.Size())
            size = humanize.Bytes(uint64(fi.Size()))
        }
        fmt.Fprintf(tw, "%s\t%s\n", f, size)
    }
    fmt.Fprintf(tw, "TOTAL\t%s\n", humanize.Bytes(total))
    return tw.Flush()
}
