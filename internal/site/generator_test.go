package site

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/htmlgen/internal/foundation/errors"
	"git.home.luguber.info/inful/htmlgen/internal/fragment"
	"git.home.luguber.info/inful/htmlgen/internal/metrics"
	"git.home.luguber.info/inful/htmlgen/internal/templates"
)

type recordingObserver struct {
	mu      sync.Mutex
	stages  []StageName
	reports []*Report
}

func (r *recordingObserver) OnRunStart(*Report) {}

func (r *recordingObserver) OnStageComplete(_ string, stage StageName, _ time.Duration, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages = append(r.stages, stage)
}

func (r *recordingObserver) OnRunComplete(report *Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
}

func readPage(t *testing.T, dest, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dest, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestGenerateBlogFixture(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "build")
	var out bytes.Buffer
	obs := &recordingObserver{}

	g := NewGenerator(Options{
		ContentDir:  filepath.Join("testdata", "content"),
		Destination: dest,
		Template:    templates.BlogName,
	})
	g.Out = &out
	g.Observer = obs

	report, err := g.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, metrics.OutcomeSuccess, report.Outcome)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 3, report.Items)
	assert.Equal(t, []string{"/", "/posts/qux-post/", "/posts/bar-post/", "/posts/foo-post/", "/posts/", "/404.html"}, report.Pages)
	assert.Len(t, report.Files, 6)
	assert.Equal(t, Stages, obs.stages)
	require.Len(t, obs.reports, 1)
	assert.Same(t, report, obs.reports[0])

	home := readPage(t, dest, "index.html")
	assert.Contains(t, home, "<title>Qux Post</title>")
	assert.Contains(t, home, "<h1>/</h1>")
	assert.Contains(t, home, "<h2>Qux Post</h2>")
	assert.Contains(t, home, "<p>qux <em>post</em></p>")

	for _, post := range []struct{ slug, title, body string }{
		{"qux-post", "Qux Post", "<p>qux <em>post</em></p>"},
		{"bar-post", "Bar Post", "<p>bar <em>post</em></p>"},
		{"foo-post", "Foo Post", "<p>foo <em>post</em></p>"},
	} {
		page := readPage(t, dest, "posts/"+post.slug+"/index.html")
		assert.Contains(t, page, "<title>"+post.title+"</title>")
		assert.Contains(t, page, "<h1>/posts/"+post.slug+"/</h1>")
		assert.Contains(t, page, "<h2>"+post.title+"</h2>")
		assert.Contains(t, page, post.body)
	}

	list := readPage(t, dest, "posts/index.html")
	assert.Contains(t, list, "<title>Posts</title>")
	assert.Contains(t, list, `<li><a href="/posts/qux-post/">Qux Post</a></li>`)
	assert.Contains(t, list, `<li><a href="/posts/foo-post/">Foo Post</a></li>`)

	missing := readPage(t, dest, "404.html")
	assert.Contains(t, missing, "<title>Page Not Found</title>")
	assert.Contains(t, missing, "<h2>Page Not Found</h2>")

	assert.Contains(t, out.String(), "✔ saved "+filepath.Join(dest, "404.html"))
}

func TestGenerateMinified(t *testing.T) {
	dest := t.TempDir()
	g := NewGenerator(Options{
		ContentDir:  filepath.Join("testdata", "content"),
		Destination: dest,
		Template:    templates.BlogName,
		Minify:      true,
	})
	_, err := g.Run(context.Background())
	require.NoError(t, err)

	home := readPage(t, dest, "index.html")
	assert.Contains(t, home, "<main><h2>Qux Post</h2><p>qux <em>post</em></p></main>")
	assert.NotContains(t, home, "\n")

	list := readPage(t, dest, "posts/index.html")
	assert.Contains(t, list, "<ol><li><a href=/posts/qux-post/>Qux Post</a><li>")
	assert.NotContains(t, list, "</li>")
}

func TestGenerateUnknownTemplate(t *testing.T) {
	obs := &recordingObserver{}
	g := NewGenerator(Options{ContentDir: "testdata/content", Destination: t.TempDir(), Template: "nope"})
	g.Observer = obs

	report, err := g.Run(context.Background())
	require.ErrorIs(t, err, templates.ErrUnknownTemplate)
	assert.Equal(t, metrics.OutcomeFailed, report.Outcome)
	assert.NotEmpty(t, report.Error)
	assert.Empty(t, obs.stages)
	assert.Len(t, obs.reports, 1)
}

func TestGenerateTemplatePanic(t *testing.T) {
	reg := templates.NewRegistry()
	reg.Register("boom", func(s *templates.Scope) fragment.Token {
		return s.Markup("%v", s.MustLink("/posts/:missing/", s.Content[0]))
	})
	reg.Register("empty", func(*templates.Scope) fragment.Token { return fragment.Token{} })

	for _, name := range []string{"boom", "empty"} {
		dest := t.TempDir()
		g := NewGenerator(Options{ContentDir: "testdata/content", Destination: dest, Template: name})
		g.Templates = reg

		report, err := g.Run(context.Background())
		require.Error(t, err, name)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryTemplate), name)
		assert.Equal(t, metrics.OutcomeFailed, report.Outcome)

		entries, err := os.ReadDir(dest)
		require.NoError(t, err)
		assert.Empty(t, entries)
	}
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGenerator(Options{ContentDir: "testdata/content", Destination: t.TempDir(), Template: templates.BlogName})
	report, err := g.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, metrics.OutcomeCanceled, report.Outcome)
}

func TestRecorderObserver(t *testing.T) {
	rec := &countingRecorder{}
	g := NewGenerator(Options{ContentDir: "testdata/content", Destination: t.TempDir(), Template: templates.BlogName})
	g.Observer = MultiObserver{RecorderObserver{Recorder: rec}, LogObserver{}, nil}

	_, err := g.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, rec.stages)
	assert.Equal(t, 6, rec.pages)
	assert.Equal(t, 3, rec.items)
	assert.Equal(t, []metrics.OutcomeLabel{metrics.OutcomeSuccess}, rec.outcomes)
}

type countingRecorder struct {
	metrics.NoopRecorder
	stages   int
	pages    int
	items    int
	outcomes []metrics.OutcomeLabel
}

func (c *countingRecorder) ObserveStageDuration(string, time.Duration) { c.stages++ }
func (c *countingRecorder) AddPagesWritten(n int)                      { c.pages += n }
func (c *countingRecorder) SetContentItems(n int)                      { c.items = n }
func (c *countingRecorder) IncRunOutcome(o metrics.OutcomeLabel)       { c.outcomes = append(c.outcomes, o) }
