package cli

import (
    "encoding/json"
    "fmt"
    "io"
    "text/tabwriter"

    humanize "github.com/dustin/go-humanize"
    "github.com/spf13/cobra"

    "tmap-export/src/catalog"
)

func newListCmd(stdout io.Writer) *cobra.Command {
    var (
        output string
        root   string
    )
    cmd := &cobra.Command{
        Use:   "list",
        Short: "List .tmap projects under a directory",
        Args:  cobra.NoArgs,
        RunE: func(cmd *cobra.Command, args []string) error {
            entries, err := catalog.List(root)
            if err != nil {
                return err
            }
            switch output {
            case "json":
                enc := json.NewEncoder(stdout)
                enc.SetIndent("", "  ")
                return enc.Encode(entries)
            case "table", "":
                return renderCatalog(stdout, entries)
            default:
                return fmt.Errorf("unsupported --output: %s", output)
            }
        },
    }
    cmd.Flags().StringVar(&root, "root", ".", "Directory to search for projects")
    cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table|json")
    return cmd
}

func renderCatalog(w io.Writer, entries []catalog.Entry) error {
    tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
    fmt.Fprintln(tw, "NAME\tIMAGES\tLABELS\tPOINTS\tSHAPES\tSIZE\tCREATED\tSTATUS\tPATH")
    for _, e := range entries {
        status := "ok"
        if e.Error != "" {
            status = "unreadable"
        }
        fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\t%s\t%s\t%s\n", e.Name, e.Images, e.Labels, e.Points, e.Shapes, humanize.Bytes(uint64(e.Size)), e.CreatedAt, status, e.Path)
    }
    return tw.Flush()
}
