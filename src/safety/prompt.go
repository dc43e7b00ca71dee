package safety

import (
    "bufio"
    "fmt"
    "io"
    "os"
    "strings"
)

// Options carries the global safety flags.
type Options struct {
    DryRun bool
    Yes    bool
    Force  bool
}

// Confirm prompts the user to confirm a potentially destructive action.
// - If opts.DryRun is true, it returns false but no error (no action should be taken).
// - If opts.Yes or opts.Force is true, it returns true without prompting.
// The caller decides what to do with the result.
func Confirm(opts Options, in io.Reader, out io.Writer, question string) (bool, error) {
    if opts.DryRun {
        // No changes in dry-run mode; treat as declined.
        return false, nil
    }
    if opts.Yes || opts.Force {
        return true, nil
    }
    if out != nil {
        fmt.Fprintf(out, "%s [y/N]: ", strings.TrimSpace(question))
    }
    reader := bufio.NewReader(in)
    line, err := reader.ReadString('\n')
    if err != nil && err != io.EOF {
        return false, err
    }
    ans := strings.TrimSpace(strings.ToLower(line))
    return ans == "y" || ans == "yes", nil
}

// ConfirmReplace asks before an existing, non-empty directory is replaced.
// It returns replace=true when dir has content and the user agreed, and
// proceed=false when the user declined. An absent or empty dir proceeds
// without a prompt.
func ConfirmReplace(opts Options, in io.Reader, out io.Writer, dir string) (replace, proceed bool, err error) {
    entries, err := os.ReadDir(dir)
    if err != nil {
        if os.IsNotExist(err) {
            return false, true, nil
        }
        return false, false, err
    }
    if len(entries) == 0 {
        return false, true, nil
    }
    ok, err := Confirm(opts, in, out, fmt.Sprintf("Project %s already exists. Replace it?", dir))
    if err != nil {
        return false, false, err
    }
    return ok, ok, nil
}
