// Package pipeline orchestrates one commit-gate run: select staged files,
// review each concurrently, apply the score threshold, and render the
// report. Nothing survives between runs.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joescharf/reviewgate/internal/gate"
	"github.com/joescharf/reviewgate/internal/git"
	"github.com/joescharf/reviewgate/internal/models"
	"github.com/joescharf/reviewgate/internal/output"
	"github.com/joescharf/reviewgate/internal/render"
	"github.com/joescharf/reviewgate/internal/selector"
	"github.com/joescharf/reviewgate/internal/verdict"
)

// Reviewer is the network boundary: one call per file, raw text back.
type Reviewer interface {
	Review(ctx context.Context, file models.ReviewableFile) (string, error)
}

// ConfigError is a missing or invalid setting. It is fatal and aborts
// before any file is reviewed, unlike a per-file service failure.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Reason
}

// Config is the immutable per-run configuration, injected at construction.
type Config struct {
	Threshold   int           // minimum passing score, inclusive
	Extensions  []string      // reviewable extension allowlist
	Concurrency int           // max in-flight review calls
	Timeout     time.Duration // per-file review deadline
	FailOpen    bool          // let unobtainable reviews pass instead of blocking
}

// Validate rejects settings that would make the gate meaningless.
func (c Config) Validate() error {
	if c.Threshold < 1 || c.Threshold > 100 {
		return &ConfigError{Reason: fmt.Sprintf("threshold %d outside [1,100]", c.Threshold)}
	}
	if c.Concurrency < 1 {
		return &ConfigError{Reason: fmt.Sprintf("concurrency %d must be at least 1", c.Concurrency)}
	}
	if c.Timeout <= 0 {
		return &ConfigError{Reason: "timeout must be positive"}
	}
	return nil
}

// Decision is the terminal state of a run, mapped to the process exit code.
type Decision int

const (
	Allow Decision = iota
	Block
)

// Pipeline is the commit gate.
type Pipeline struct {
	git      git.Client
	selector *selector.Selector
	reviewer Reviewer
	renderer *render.Renderer
	ui       *output.UI
	cfg      Config
}

// New validates cfg and wires the pipeline.
func New(gc git.Client, reviewer Reviewer, ui *output.UI, cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		git:      gc,
		selector: selector.New(gc, cfg.Extensions, ui),
		reviewer: reviewer,
		renderer: render.New(ui),
		ui:       ui,
		cfg:      cfg,
	}, nil
}

// Run executes one commit attempt from path (any directory in the repo).
// An empty selection is Allow with no model calls and nothing printed.
func (p *Pipeline) Run(ctx context.Context, path string) (Decision, error) {
	root, err := p.git.RepoRoot(path)
	if err != nil {
		return Block, err
	}

	files, err := p.selector.Select(root)
	if err != nil {
		return Block, err
	}
	if len(files) == 0 {
		p.ui.VerboseLog("no staged or new files to review")
		return Allow, nil
	}

	report := p.Review(ctx, files)
	res := gate.Gate{Threshold: p.cfg.Threshold, FailOpen: p.cfg.FailOpen}.Evaluate(report)
	p.renderer.Render(report, res, p.cfg.Threshold)

	if !res.Passed {
		return Block, nil
	}
	return Allow, nil
}

// Review reviews the files concurrently and merges the verdicts into a
// report. Each file's Review→Parse sequence stays ordered, files are
// independent, and a service or format failure becomes a synthetic failing
// verdict so one broken review cannot hide feedback on the others.
func (p *Pipeline) Review(ctx context.Context, files []models.ReviewableFile) *models.Report {
	results := make([]*models.Verdict, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)
	for i, f := range files {
		g.Go(func() error {
			results[i] = p.reviewOne(gctx, f)
			return nil
		})
	}
	// Workers never return errors; failures are already verdicts.
	_ = g.Wait()

	report := models.NewReport()
	for _, v := range results {
		report.Add(v)
	}
	return report
}

func (p *Pipeline) reviewOne(ctx context.Context, f models.ReviewableFile) *models.Verdict {
	fctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	raw, err := p.reviewer.Review(fctx, f)
	if err != nil {
		p.ui.VerboseLog("%s: %v", f.Path, err)
		return models.NewFailedVerdict(f.Path, err)
	}

	v, err := verdict.Parse(f.Path, raw)
	if err != nil {
		p.ui.VerboseLog("%s: %v", f.Path, err)
		return models.NewFailedVerdict(f.Path, err)
	}
	return v
}
