package cli

import (
    "encoding/json"
    "fmt"
    "io"
    "text/tabwriter"

    "github.com/spf13/cobra"

    "tmap-export/src/export"
)

func newVerifyCmd(stdout io.Writer) *cobra.Command {
    var output string
    cmd := &cobra.Command{
        Use:   "verify PROJECT.tmap...",
        Short: "Verify project files against their checksums.txt",
        Args:  cobra.MinimumNArgs(1),
        RunE: func(cmd *cobra.Command, args []string) error {
            reports := make([]export.Report, 0, len(args))
            for _, dir := range args {
                rep, err := export.Verify(dir)
                if err != nil {
                    return err
                }
                reports = append(reports, rep)
            }
            switch output {
            case "json":
                enc := json.NewEncoder(stdout)
                enc.SetIndent("", "  ")
                if err := enc.Encode(reports); err != nil { return err }
            default:
                tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
                fmt.Fprintln(tw, "PROJECT\tFILE\tSTATUS")
                for _, rep := range reports {
                    fmt.Fprintf(tw, "%s\t%s\t%s\n", rep.Dir, "-", rep.Status)
                    for _, f := range rep.Files {
                        if f.Status != export.StatusOK { fmt.Fprintf(tw, "%s\t%s\t%s\n", rep.Dir, f.Name, f.Status) }
                    }
                }
                if err := tw.Flush(); err != nil { return err }
            }
            failed := 0
            for _, rep := range reports {
                if !rep.OK() { failed++ }
            }
            if failed > 0 {
                return fmt.Errorf("verify: %d of %d project(s) failed", failed, len(reports))
            }
            return nil
        },
    }
    cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table|json")
    return cmd
}
