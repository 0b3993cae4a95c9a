package gates

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrGatesFailed indicates at least one gate failed.
var ErrGatesFailed = errors.New("gates: one or more quality gates failed")

// Exec runs one external command in dir and returns its combined
// streams. Tests substitute a scripted implementation.
type Exec func(ctx context.Context, dir, name string, args ...string) (stdout, stderr string, err error)

func systemExec(ctx context.Context, dir, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err := cmd.Run()
	return out.String(), errOut.String(), err
}

// Options configures a Runner.
type Options struct {
	// Dir is the project directory to validate. Default: ".".
	Dir string

	// CoverageTarget is the statement-coverage percentage the test gate
	// must reach. Default: 80.
	CoverageTarget float64

	// SecurityScan runs govulncheck when true.
	SecurityScan bool

	// Exec overrides command execution. Nil means real commands.
	Exec Exec
}

// Runner sequences quality gates against one project directory.
type Runner struct {
	dir            string
	coverageTarget float64
	securityScan   bool
	exec           Exec
}

// NewRunner creates a runner from options.
func NewRunner(opts Options) *Runner {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.CoverageTarget <= 0 {
		opts.CoverageTarget = 80
	}
	if opts.Exec == nil {
		opts.Exec = systemExec
	}
	return &Runner{
		dir:            opts.Dir,
		coverageTarget: opts.CoverageTarget,
		securityScan:   opts.SecurityScan,
		exec:           opts.Exec,
	}
}

type gateSpec struct {
	name        string
	description string
	command     []string
}

// Run executes every gate in order and returns the full report. A
// failing gate does not stop the sequence; it is recorded and the run
// continues so the report shows everything at once. The returned error
// is ErrGatesFailed when any gate failed, nil otherwise.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	summary := Summary{
		AllPassed:           true,
		CoverageTarget:      r.coverageTarget,
		SecurityScanEnabled: r.securityScan,
	}

	specs := []gateSpec{
		{"build", "ensure code compiles", []string{"go", "build", "./..."}},
		{"vet", "ensure static checks pass", []string{"go", "vet", "./..."}},
		{"format", "ensure gofmt-clean sources", []string{"gofmt", "-l", "."}},
	}
	for _, spec := range specs {
		summary.record(r.runGate(ctx, spec))
	}

	summary.record(r.runCoverageGate(ctx, &summary))

	if r.securityScan {
		summary.record(r.runGate(ctx, gateSpec{
			"security", "check for known vulnerabilities",
			[]string{"govulncheck", "./..."},
		}))
	} else {
		summary.record(Gate{
			Name:        "security",
			Status:      StatusSkipped,
			Description: "security scan disabled",
		})
	}

	todos, err := CountTodoComments(r.dir)
	if err == nil {
		summary.TodoComments = todos
	}

	report := Report{
		Timestamp:    time.Now().UTC(),
		Project:      r.dir,
		Branch:       r.gitValue(ctx, "branch", "--show-current"),
		Commit:       r.gitValue(ctx, "rev-parse", "HEAD"),
		QualityGates: summary,
	}
	if summary.TodoComments > 0 {
		report.Recommendations = append(report.Recommendations,
			"review TODO/FIXME/HACK comments before release")
	}
	if summary.CoveragePercentage < r.coverageTarget {
		report.Recommendations = append(report.Recommendations,
			"raise statement coverage to the target")
	}

	if !summary.AllPassed {
		return report, ErrGatesFailed
	}
	return report, nil
}

func (s *Summary) record(g Gate) {
	if g.Status == StatusFailed {
		s.AllPassed = false
	}
	s.Gates = append(s.Gates, g)
}

func (r *Runner) runGate(ctx context.Context, spec gateSpec) Gate {
	stdout, stderr, err := r.exec(ctx, r.dir, spec.command[0], spec.command[1:]...)

	gate := Gate{
		Name:        spec.name,
		Description: spec.description,
		Output:      strings.TrimSpace(stdout),
		Error:       strings.TrimSpace(stderr),
	}

	// gofmt -l lists offending files without a non-zero exit.
	dirty := spec.command[0] == "gofmt" && gate.Output != ""

	switch {
	case err == nil && !dirty:
		gate.Status = StatusPassed
	case isMissingTool(err):
		gate.Status = StatusSkipped
		gate.Error = spec.command[0] + " not installed"
	default:
		gate.Status = StatusFailed
		if gate.Error == "" && err != nil {
			gate.Error = err.Error()
		}
	}
	return gate
}

func (r *Runner) runCoverageGate(ctx context.Context, summary *Summary) Gate {
	stdout, stderr, err := r.exec(ctx, r.dir, "go", "test", "-cover", "./...")

	gate := Gate{
		Name:        "tests",
		Description: "ensure tests pass and measure coverage",
		Output:      strings.TrimSpace(stdout),
		Error:       strings.TrimSpace(stderr),
	}
	if err != nil {
		gate.Status = StatusFailed
		if gate.Error == "" {
			gate.Error = err.Error()
		}
		return gate
	}

	summary.CoveragePercentage = ParseCoverage(stdout)
	if summary.CoveragePercentage < r.coverageTarget {
		gate.Status = StatusFailed
		gate.Error = "coverage below target"
		return gate
	}
	gate.Status = StatusPassed
	return gate
}

func (r *Runner) gitValue(ctx context.Context, args ...string) string {
	stdout, _, err := r.exec(ctx, r.dir, "git", args...)
	if err != nil {
		return "unknown"
	}
	v := strings.TrimSpace(stdout)
	if v == "" {
		return "unknown"
	}
	return v
}

func isMissingTool(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}

var coveragePattern = regexp.MustCompile(`coverage: (\d+(?:\.\d+)?)% of statements`)

// ParseCoverage extracts the mean statement coverage from `go test
// -cover` output. Packages without tests do not count toward the mean.
func ParseCoverage(output string) float64 {
	matches := coveragePattern.FindAllStringSubmatch(output, -1)
	if len(matches) == 0 {
		return 0
	}
	var sum float64
	for _, m := range matches {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		sum += v
	}
	return sum / float64(len(matches))
}

var todoPattern = regexp.MustCompile(`\b(TODO|FIXME|HACK)\b`)

// CountTodoComments counts TODO/FIXME/HACK markers across the Go
// sources under dir. Vendor trees and underscore-prefixed directories
// are skipped.
func CountTodoComments(dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if name == "vendor" || name == ".git" || strings.HasPrefix(name, "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		count += len(todoPattern.FindAll(data, -1))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
