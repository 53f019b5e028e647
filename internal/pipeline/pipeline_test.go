package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/reviewgate/internal/models"
	"github.com/joescharf/reviewgate/internal/output"
)

type fakeGit struct {
	root      string
	staged    []string
	untracked []string
}

func (f *fakeGit) RepoRoot(path string) (string, error)         { return f.root, nil }
func (f *fakeGit) StagedFiles(path string) ([]string, error)    { return f.staged, nil }
func (f *fakeGit) UntrackedFiles(path string) ([]string, error) { return f.untracked, nil }

// fakeReviewer returns canned raw responses (or errors) keyed by path.
type fakeReviewer struct {
	responses map[string]string
	errs      map[string]error
	calls     atomic.Int32
}

func (f *fakeReviewer) Review(ctx context.Context, file models.ReviewableFile) (string, error) {
	f.calls.Add(1)
	if err, ok := f.errs[file.Path]; ok {
		return "", err
	}
	return f.responses[file.Path], nil
}

func testConfig() Config {
	return Config{Threshold: 70, Concurrency: 2, Timeout: time.Second}
}

func testUI() (*output.UI, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &output.UI{Out: out, ErrOut: errOut}, out, errOut
}

func stage(t *testing.T, dir string, files map[string]string) *fakeGit {
	t.Helper()
	g := &fakeGit{root: dir}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
		g.staged = append(g.staged, name)
	}
	return g
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, testConfig().Validate())

	for _, cfg := range []Config{
		{Threshold: 0, Concurrency: 1, Timeout: time.Second},
		{Threshold: 101, Concurrency: 1, Timeout: time.Second},
		{Threshold: 70, Concurrency: 0, Timeout: time.Second},
		{Threshold: 70, Concurrency: 1},
	} {
		err := cfg.Validate()
		require.Error(t, err)
		var ce *ConfigError
		assert.ErrorAs(t, err, &ce)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	ui, _, _ := testUI()
	_, err := New(&fakeGit{}, &fakeReviewer{}, ui, Config{})
	assert.Error(t, err)
}

func TestRun_EmptySelectionAllowsWithoutModelCalls(t *testing.T) {
	ui, out, _ := testUI()
	rev := &fakeReviewer{}
	p, err := New(&fakeGit{root: t.TempDir()}, rev, ui, testConfig())
	require.NoError(t, err)

	decision, err := p.Run(context.Background(), ".")
	require.NoError(t, err)
	assert.Equal(t, Allow, decision)
	assert.Equal(t, int32(0), rev.calls.Load())
	assert.Empty(t, out.String())
}

func TestRun_BlocksOnLowScore(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	g := stage(t, dir, map[string]string{
		"a.py": "print(1)\n",
		"b.ts": "export {}\n",
	})

	rev := &fakeReviewer{responses: map[string]string{
		"a.py": `{"score": 85, "issues": []}`,
		"b.ts": `{"score": 60, "issues": [
			{"severity": "high", "category": "security", "line": 2, "description": "eval of user input", "suggestion": "remove eval"}
		]}`,
	}}

	ui, out, errOut := testUI()
	p, err := New(g, rev, ui, testConfig())
	require.NoError(t, err)

	decision, err := p.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, Block, decision)
	assert.Equal(t, int32(2), rev.calls.Load())

	assert.Contains(t, out.String(), "85/100")
	assert.Contains(t, out.String(), "60/100")
	assert.Contains(t, out.String(), "eval of user input")
	assert.Contains(t, errOut.String(), "b.ts")
	assert.NotContains(t, errOut.String(), "a.py")
}

func TestRun_AllowsWhenAllPass(t *testing.T) {
	dir := t.TempDir()
	g := stage(t, dir, map[string]string{"a.py": "print(1)\n"})
	rev := &fakeReviewer{responses: map[string]string{"a.py": `{"score": 90, "issues": []}`}}

	ui, out, _ := testUI()
	p, err := New(g, rev, ui, testConfig())
	require.NoError(t, err)

	decision, err := p.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, Allow, decision)
	// Full feedback is printed even on a passing commit
	assert.Contains(t, out.String(), "90/100")
}

func TestRun_UnsupportedFilesNeverReviewed(t *testing.T) {
	dir := t.TempDir()
	g := stage(t, dir, map[string]string{
		"README.md": "# hi\n",
		"a.py":      "print(1)\n",
	})
	rev := &fakeReviewer{responses: map[string]string{"a.py": `{"score": 90, "issues": []}`}}

	ui, _, _ := testUI()
	p, err := New(g, rev, ui, testConfig())
	require.NoError(t, err)

	_, err = p.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, int32(1), rev.calls.Load())
}

func TestReview_MalformedResponseBecomesSyntheticVerdict(t *testing.T) {
	files := []models.ReviewableFile{
		{Path: "a.py", Extension: ".py"},
		{Path: "b.py", Extension: ".py"},
		{Path: "c.py", Extension: ".py"},
	}
	rev := &fakeReviewer{responses: map[string]string{
		"a.py": `{"score": 80, "issues": []}`,
		"b.py": `sorry, I refuse to answer in JSON today`,
		"c.py": `{"score": 75, "issues": []}`,
	}}

	ui, _, _ := testUI()
	p, err := New(&fakeGit{}, rev, ui, testConfig())
	require.NoError(t, err)

	report := p.Review(context.Background(), files)
	require.Len(t, report.Verdicts, 3)

	// The malformed file becomes a synthetic score-0 failing verdict
	assert.Equal(t, 0, report.Verdicts["b.py"].Score)
	assert.True(t, report.Verdicts["b.py"].ReviewFailed)
	require.Len(t, report.Verdicts["b.py"].Issues, 1)
	assert.Equal(t, models.SeverityHigh, report.Verdicts["b.py"].Issues[0].Severity)

	// The other two retain their real scores
	assert.Equal(t, 80, report.Verdicts["a.py"].Score)
	assert.Equal(t, 75, report.Verdicts["c.py"].Score)
	assert.False(t, report.Verdicts["a.py"].ReviewFailed)
}

func TestReview_ServiceErrorBecomesSyntheticVerdict(t *testing.T) {
	files := []models.ReviewableFile{{Path: "a.py", Extension: ".py"}}
	rev := &fakeReviewer{errs: map[string]error{"a.py": errors.New("request timeout")}}

	ui, _, _ := testUI()
	p, err := New(&fakeGit{}, rev, ui, testConfig())
	require.NoError(t, err)

	report := p.Review(context.Background(), files)
	v := report.Verdicts["a.py"]
	require.NotNil(t, v)
	assert.True(t, v.ReviewFailed)
	assert.Contains(t, v.Issues[0].Description, "request timeout")
}

func TestRun_FailOpenAllowsBrokenReview(t *testing.T) {
	dir := t.TempDir()
	g := stage(t, dir, map[string]string{"a.py": "print(1)\n"})
	rev := &fakeReviewer{errs: map[string]error{"a.py": errors.New("service unavailable")}}

	cfg := testConfig()
	cfg.FailOpen = true

	ui, _, _ := testUI()
	p, err := New(g, rev, ui, cfg)
	require.NoError(t, err)

	decision, err := p.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, Allow, decision)

	// Default policy fails closed
	ui2, _, _ := testUI()
	p2, err := New(g, &fakeReviewer{errs: map[string]error{"a.py": errors.New("service unavailable")}}, ui2, testConfig())
	require.NoError(t, err)
	decision, err = p2.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, Block, decision)
}

func TestReview_ManyFilesUnderConcurrencyLimit(t *testing.T) {
	var files []models.ReviewableFile
	responses := map[string]string{}
	for _, name := range []string{"a.py", "b.py", "c.py", "d.py", "e.py", "f.py"} {
		files = append(files, models.ReviewableFile{Path: name, Extension: ".py"})
		responses[name] = `{"score": 88, "issues": []}`
	}
	rev := &fakeReviewer{responses: responses}

	ui, _, _ := testUI()
	p, err := New(&fakeGit{}, rev, ui, testConfig())
	require.NoError(t, err)

	report := p.Review(context.Background(), files)
	assert.Len(t, report.Verdicts, len(files))
	assert.Equal(t, int32(len(files)), rev.calls.Load())
}
