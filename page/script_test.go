package page_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/signpost"
	"github.com/xy-planning-network/signpost/page"
)

const pagesDir = "testdata/pages"

func TestScriptLoaderServes(t *testing.T) {
	tcs := []struct {
		module string
		target string
		body   string
	}{
		{"hello", "/hello", "Hi"},
		{"greet", "/greet?name=%3Cb%3E", "<p>Hello, &lt;b&gt;</p>"},
		{"greet", "/greet", "<p>Hello, stranger</p>"},
		{"status", "/status", "{\"ok\":true}\n"},
	}

	sl := page.NewScriptLoader(pagesDir)
	for _, tc := range tcs {
		t.Run(tc.target, func(t *testing.T) {
			// Arrange
			require.Nil(t, sl.Resolve(tc.module))
			mod, err := sl.Load(tc.module)
			require.Nil(t, err)

			h, err := page.EntryHandler(tc.module, mod, nil)
			require.Nil(t, err)

			// Act
			rec := serve(t, h, tc.target)

			// Assert
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, tc.body, rec.Body.String())
		})
	}
}

func TestScriptLoaderResolve(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	require.Nil(t, os.Mkdir(filepath.Join(dir, "adir"+page.ScriptExt), 0o755))
	sl := page.NewScriptLoader(dir)

	tcs := []struct {
		name   string
		module string
		target error
	}{
		{"missing", "nope", signpost.ErrNotExist},
		{"directory", "adir", signpost.ErrNotValid},
		{"traversal", "../pages/hello", signpost.ErrNotValid},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			err := sl.Resolve(tc.module)

			// Assert
			var re *page.ModuleResolutionError
			require.ErrorAs(t, err, &re)
			require.Equal(t, tc.module, re.Module)
			require.ErrorIs(t, err, tc.target)

			// Act
			mod, err := sl.Load(tc.module)

			// Assert
			require.Nil(t, mod)
			require.ErrorAs(t, err, &re)
		})
	}
}

func TestScriptLoaderLoadErrors(t *testing.T) {
	sl := page.NewScriptLoader(pagesDir)
	for _, module := range []string{"broken", "panics", "forbidden"} {
		t.Run(module, func(t *testing.T) {
			// Arrange
			require.Nil(t, sl.Resolve(module))

			// Act
			mod, err := sl.Load(module)

			// Assert
			require.Nil(t, mod)
			var le *page.ModuleLoadError
			require.ErrorAs(t, err, &le)
			require.Equal(t, module, le.Module)
		})
	}
}

func TestScriptLoaderLoadTimeout(t *testing.T) {
	// Arrange
	sl := page.NewScriptLoader(pagesDir, page.WithLoadTimeout(100*time.Millisecond))
	start := time.Now()

	// Act
	mod, err := sl.Load("spin")

	// Assert
	require.Nil(t, mod)
	var le *page.ModuleLoadError
	require.ErrorAs(t, err, &le)
	require.Equal(t, "spin", le.Module)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestWithLoadTimeout(t *testing.T) {
	for _, tc := range []struct {
		name     string
		d        time.Duration
		expected time.Duration
	}{
		{"Positive", time.Second, time.Second},
		{"Zero", 0, page.DefaultLoadTimeout},
		{"Negative", -time.Second, page.DefaultLoadTimeout},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			sl := page.NewScriptLoader(pagesDir, page.WithLoadTimeout(tc.d))

			// Assert
			require.Equal(t, tc.expected, sl.Timeout())
		})
	}
}

func TestScriptLoaderForbiddenImport(t *testing.T) {
	// Arrange
	sl := page.NewScriptLoader(pagesDir)

	// Act
	_, err := sl.Load("forbidden")

	// Assert
	require.ErrorIs(t, err, signpost.ErrNotValid)
	require.Contains(t, err.Error(), `import "os" not allowed`)
}

func TestScriptLoaderWithImports(t *testing.T) {
	// Arrange
	sl := page.NewScriptLoader(pagesDir, page.WithImports("os"))

	// Act
	mod, err := sl.Load("forbidden")

	// Assert
	require.Nil(t, err)
	_, ok := mod.Lookup(page.EntryPoint)
	require.True(t, ok)
}

func TestScriptLoaderEntryPoint(t *testing.T) {
	sl := page.NewScriptLoader(pagesDir)
	for _, module := range []string{"noview", "badview"} {
		t.Run(module, func(t *testing.T) {
			// Arrange
			mod, err := sl.Load(module)
			require.Nil(t, err)

			// Act
			h, err := page.EntryHandler(module, mod, nil)

			// Assert
			require.Nil(t, h)
			var ee *page.EntryPointMissingError
			require.ErrorAs(t, err, &ee)
			require.Equal(t, module, ee.Module)
		})
	}
}

func TestScriptLoaderChain(t *testing.T) {
	// Arrange
	reg := page.NewRegistry()
	reg.MustRegister("hello", func() string { return "compiled" })
	chain := page.Chain{reg, page.NewScriptLoader(pagesDir)}

	for _, tc := range []struct {
		module string
		body   string
	}{
		{"hello", "compiled"},
		{"status", "{\"ok\":true}\n"},
	} {
		t.Run(tc.module, func(t *testing.T) {
			// Arrange
			mod, err := chain.Load(tc.module)
			require.Nil(t, err)
			h, err := page.EntryHandler(tc.module, mod, nil)
			require.Nil(t, err)

			// Act
			rec := serve(t, h, "/"+tc.module)

			// Assert
			require.Equal(t, tc.body, rec.Body.String())
		})
	}
}
