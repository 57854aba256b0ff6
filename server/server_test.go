package server_test

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/xy-planning-network/signpost"
	"github.com/xy-planning-network/signpost/logger"
	"github.com/xy-planning-network/signpost/manifest"
	"github.com/xy-planning-network/signpost/page"
	"github.com/xy-planning-network/signpost/route"
	"github.com/xy-planning-network/signpost/server"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var client = &http.Client{
	Timeout:   5 * time.Second,
	Transport: &http.Transport{DisableKeepAlives: true},
}

const helloScript = `package hello

func View() string { return "Hi" }
`

// app lays out a manifest and page scripts in a temporary directory.
type app struct {
	dir string
}

func newApp(t *testing.T, nav string, scripts map[string]string) *app {
	t.Helper()

	a := &app{dir: t.TempDir()}
	require.Nil(t, os.Mkdir(a.pagesDir(), 0o755))
	a.writeManifest(t, nav)
	for name, src := range scripts {
		a.writeScript(t, name, src)
	}

	return a
}

func (a *app) manifestPath() string { return filepath.Join(a.dir, "nav_config.json") }
func (a *app) pagesDir() string     { return filepath.Join(a.dir, "pages") }

func (a *app) writeManifest(t *testing.T, nav string) {
	t.Helper()
	require.Nil(t, os.WriteFile(a.manifestPath(), []byte(nav), 0o644))
}

func (a *app) writeScript(t *testing.T, name, src string) {
	t.Helper()
	require.Nil(t, os.WriteFile(filepath.Join(a.pagesDir(), name+page.ScriptExt), []byte(src), 0o644))
}

func (a *app) newServer(t *testing.T, opts ...server.Option) *server.Server {
	t.Helper()

	base := []server.Option{
		server.WithEnv(signpost.Testing.String()),
		server.WithAddr("127.0.0.1:0"),
		server.WithLogger(logger.New(logger.WithOutput(io.Discard))),
		server.WithManifest(manifest.File(a.manifestPath())),
		server.WithPagesDir(a.pagesDir()),
		server.WithShutdownTimeout(2 * time.Second),
	}

	s, err := server.New(append(base, opts...)...)
	require.Nil(t, err)

	return s
}

// start runs s until the test ends.
func start(t *testing.T, s *server.Server) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		require.Nil(t, <-errc)
	})

	require.Eventually(t, func() bool { return s.Addr() != "" }, 5*time.Second, 10*time.Millisecond)
}

func get(t *testing.T, s *server.Server, path string) (int, string) {
	t.Helper()

	res, err := client.Get("http://" + s.Addr() + path)
	require.Nil(t, err)
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	require.Nil(t, err)

	return res.StatusCode, string(b)
}

func TestEndToEnd(t *testing.T) {
	// Arrange
	a := newApp(t, `[{"file":"hello","route":"/hello","name":"Hello"}]`, map[string]string{"hello": helloScript})
	s := a.newServer(t)

	// Act
	start(t, s)

	// Assert
	code, body := get(t, s, "/hello")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Hi", body)

	code, body = get(t, s, "/")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, `<a href="/hello">Hello</a>`)

	code, _ = get(t, s, "/nope")
	require.Equal(t, http.StatusNotFound, code)

	require.Equal(t, 2, s.Table().Len())
}

func TestEmptyManifest(t *testing.T) {
	// Arrange
	a := newApp(t, `[]`, nil)
	s := a.newServer(t)

	// Act
	start(t, s)

	// Assert
	code, body := get(t, s, "/")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, "<ul>")
	require.NotContains(t, body, "<li>")
	require.NotContains(t, body, "<a ")
	require.Equal(t, 1, s.Table().Len())
}

func TestIndexOrder(t *testing.T) {
	// Arrange
	reg := page.NewRegistry()
	reg.MustRegister("zeta", func() string { return "z" })
	reg.MustRegister("alpha", func() string { return "a" })
	a := newApp(t, `[
		{"file":"zeta","route":"/zeta","name":"Zeta & Co"},
		{"file":"alpha","route":"/alpha","name":"Alpha"}
	]`, nil)
	s := a.newServer(t, server.WithRegistry(reg))

	// Act
	start(t, s)

	// Assert
	_, body := get(t, s, "/")
	require.Regexp(t, `(?s)<a href="/zeta">Zeta &amp; Co</a>.*<a href="/alpha">Alpha</a>`, body)
}

func TestStartupErrors(t *testing.T) {
	tcs := []struct {
		name    string
		nav     string
		scripts map[string]string
		target  any
	}{
		{
			name:   "duplicateRoute",
			nav:    `[{"file":"hello","route":"/hello","name":"Hello"},{"file":"hello","route":"/hello","name":"Again"}]`,
			target: new(*route.RouteConflictError),
		},
		{
			name:   "builtinConflict",
			nav:    `[{"file":"hello","route":"/","name":"Hello"}]`,
			target: new(*route.RouteConflictError),
		},
		{
			name:   "malformed",
			nav:    `{"file":"hello"}`,
			target: new(*manifest.ConfigurationError),
		},
		{
			name:   "traversal",
			nav:    `[{"file":"../hello","route":"/hello","name":"Hello"}]`,
			target: new(*page.ModuleResolutionError),
		},
		{
			name:   "unknown",
			nav:    `[{"file":"nope","route":"/nope","name":"Nope"}]`,
			target: new(*page.ModuleResolutionError),
		},
		{
			name:    "loadError",
			nav:     `[{"file":"broken","route":"/broken","name":"Broken"}]`,
			scripts: map[string]string{"broken": "package broken\n\nfunc View() string {"},
			target:  new(*page.ModuleLoadError),
		},
		{
			name:    "noView",
			nav:     `[{"file":"noview","route":"/noview","name":"No View"}]`,
			scripts: map[string]string{"noview": "package noview\n\nfunc Render() string { return \"\" }\n"},
			target:  new(*page.EntryPointMissingError),
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			scripts := map[string]string{"hello": helloScript}
			for k, v := range tc.scripts {
				scripts[k] = v
			}
			s := newApp(t, tc.nav, scripts).newServer(t)

			// Act
			err := s.Run(context.Background())

			// Assert
			require.ErrorAs(t, err, tc.target)
			require.Empty(t, s.Addr())
			require.Nil(t, s.Table())
		})
	}
}

func TestSkipBroken(t *testing.T) {
	// Arrange
	a := newApp(t, `[
		{"file":"hello","route":"/hello","name":"Hello"},
		{"file":"broken","route":"/broken","name":"Broken"}
	]`, map[string]string{"hello": helloScript, "broken": "package broken\n\nfunc init() { panic(\"boom\") }\n"})
	s := a.newServer(t, server.WithPolicy(route.SkipAndWarn))

	// Act
	start(t, s)

	// Assert
	code, _ := get(t, s, "/hello")
	require.Equal(t, http.StatusOK, code)

	code, _ = get(t, s, "/broken")
	require.Equal(t, http.StatusNotFound, code)

	_, body := get(t, s, "/")
	require.NotContains(t, body, "/broken")
}

func TestReload(t *testing.T) {
	// Arrange
	a := newApp(t, `[{"file":"hello","route":"/hello","name":"Hello"}]`, map[string]string{"hello": helloScript})
	s := a.newServer(t)
	start(t, s)
	addr := s.Addr()

	a.writeScript(t, "about", "package about\n\nfunc View() string { return \"About\" }\n")
	a.writeManifest(t, `[{"file":"hello","route":"/hello","name":"Hello"},{"file":"about","route":"/about","name":"About"}]`)

	// Act
	err := s.Reload(context.Background())

	// Assert
	require.Nil(t, err)
	require.Equal(t, addr, s.Addr())
	code, body := get(t, s, "/about")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "About", body)

	// Arrange
	a.writeManifest(t, `[{"file":"nope","route":"/nope","name":"Nope"}]`)

	// Act
	err = s.Reload(context.Background())

	// Assert
	require.ErrorIs(t, err, signpost.ErrNotExist)
	code, body = get(t, s, "/about")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "About", body)
}

func TestReloadDrainsInFlight(t *testing.T) {
	// Arrange
	started := make(chan struct{})
	release := make(chan struct{})
	reg := page.NewRegistry()
	reg.MustRegister("slow", func() string {
		close(started)
		<-release
		return "old"
	})
	reg.MustRegister("fast", func() string { return "new" })

	a := newApp(t, `[{"file":"slow","route":"/page","name":"Page"}]`, nil)
	s := a.newServer(t, server.WithRegistry(reg))
	start(t, s)

	var (
		wg       sync.WaitGroup
		inFlight string
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, inFlight = get(t, s, "/page")
	}()
	<-started

	a.writeManifest(t, `[{"file":"fast","route":"/page","name":"Page"}]`)
	reloaded := make(chan error, 1)

	// Act
	go func() { reloaded <- s.Reload(context.Background()) }()
	close(release)
	wg.Wait()

	// Assert
	require.Equal(t, "old", inFlight)
	require.Nil(t, <-reloaded)
	_, body := get(t, s, "/page")
	require.Equal(t, "new", body)
}

func TestReloadNotRunning(t *testing.T) {
	// Arrange
	s := newApp(t, `[]`, nil).newServer(t)

	// Act
	err := s.Reload(context.Background())

	// Assert
	require.ErrorIs(t, err, server.ErrNotRunning)
}

func TestWatch(t *testing.T) {
	// Arrange
	a := newApp(t, `[{"file":"hello","route":"/hello","name":"Hello"}]`, map[string]string{"hello": helloScript})
	s := a.newServer(t, server.WithWatch(true), server.WithDebounce(20*time.Millisecond))
	start(t, s)

	// Act
	a.writeScript(t, "hello", "package hello\n\nfunc View() string { return \"Hello again\" }\n")

	// Assert
	require.Eventually(t, func() bool {
		_, body := get(t, s, "/hello")
		return body == "Hello again"
	}, 5*time.Second, 25*time.Millisecond)

	// Act
	a.writeManifest(t, `not json`)
	time.Sleep(100 * time.Millisecond)

	// Assert
	code, body := get(t, s, "/hello")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Hello again", body)
}

func TestBuild(t *testing.T) {
	// Arrange
	a := newApp(t, `[{"file":"hello","route":"/hello","name":"Hello"}]`, map[string]string{"hello": helloScript})
	s := a.newServer(t)

	// Act
	first, err := s.Build(context.Background())
	require.Nil(t, err)
	second, err := s.Build(context.Background())
	require.Nil(t, err)

	// Assert
	require.Equal(t, first.Table.Pages(), second.Table.Pages())
	require.Equal(t, 2, first.Table.Len())
	require.Empty(t, s.Addr())
}

func TestNewBadConfig(t *testing.T) {
	for _, tc := range []struct {
		name string
		opt  server.Option
	}{
		{"loader", server.WithLoader(nil)},
		{"debounce", server.WithDebounce(0)},
		{"policy", server.WithPolicy(route.Policy(9))},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			s, err := server.New(tc.opt)

			// Assert
			require.Nil(t, s)
			require.ErrorIs(t, err, signpost.ErrBadConfig)
		})
	}
}
