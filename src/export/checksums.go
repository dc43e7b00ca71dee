package export

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"tmap-export/src/project"
)

// Verification statuses.
const (
	StatusOK       = "ok"
	StatusMismatch = "mismatch"
	StatusMissing  = "missing"
)

// FileCheck is the outcome for one file listed in checksums.txt.
type FileCheck struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Report is the outcome of verifying one project directory.
type Report struct {
	Dir    string      `json:"dir"`
	Status string      `json:"status"`
	Files  []FileCheck `json:"files"`
}

// OK reports whether every listed file matched.
func (r Report) OK() bool { return r.Status == StatusOK }

// Verify recomputes the sha256 of every file listed in dir/checksums.txt.
// A missing checksums file yields StatusMissing rather than an error.
func Verify(dir string) (Report, error) {
	rep := Report{Dir: dir}
	f, err := os.Open(filepath.Join(dir, project.ChecksumsFile))
	if err != nil {
		if os.IsNotExist(err) {
			rep.Status = StatusMissing
			return rep, nil
		}
		return rep, err
	}
	defer f.Close()

	rep.Status = StatusOK
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		// Expect format: <sha256>  <filename>
		parts := strings.SplitN(line, "  ", 2)
		if len(parts) != 2 {
			rep.Status = StatusMismatch
			rep.Files = append(rep.Files, FileCheck{Name: line, Status: StatusMismatch, Error: "malformed line"})
			continue
		}
		fc := FileCheck{Name: parts[1], Expected: parts[0]}
		sum, err := sha256File(filepath.Join(dir, filepath.FromSlash(parts[1])))
		switch {
		case os.IsNotExist(err):
			fc.Status = StatusMissing
			fc.Error = err.Error()
		case err != nil:
			fc.Status = StatusMismatch
			fc.Error = err.Error()
		case !strings.EqualFold(fc.Expected, sum):
			fc.Status = StatusMismatch
			fc.Actual = sum
		default:
			fc.Status = StatusOK
			fc.Actual = sum
		}
		if fc.Status != StatusOK {
			rep.Status = StatusMismatch
		}
		rep.Files = append(rep.Files, fc)
	}
	if err := scanner.Err(); err != nil {
		return rep, err
	}
	return rep, nil
}

func writeChecksums(dir string, files []string) error {
	out, err := os.Create(filepath.Join(dir, project.ChecksumsFile))
	if err != nil {
		return err
	}
	defer out.Close()
	for _, name := range files {
		sum, err := sha256File(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "%s  %s\n", sum, name); err != nil {
			return err
		}
	}
	return nil
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
