package manifest_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/signpost"
	"github.com/xy-planning-network/signpost/manifest"
)

var navConfig = manifest.Manifest{
	{Module: "hello", Path: "/hello", Name: "Hello"},
	{Module: "about", Path: "/about", Name: "About"},
}

func TestReadFile(t *testing.T) {
	for _, tc := range []struct {
		name     string
		fp       string
		expected manifest.Manifest
	}{
		{"JSON", "testdata/nav_config.json", navConfig},
		{"YAML", "testdata/nav_config.yaml", navConfig},
		{"Empty", "testdata/empty.json", manifest.Manifest{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			actual, err := manifest.Read(context.Background(), manifest.File(tc.fp))

			// Assert
			require.Nil(t, err)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestReadMissing(t *testing.T) {
	// Act
	actual, err := manifest.Read(context.Background(), manifest.File("testdata/nope.json"))

	// Assert
	require.Nil(t, actual)
	var ce *manifest.ConfigurationError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "testdata/nope.json", ce.Source)
	require.ErrorIs(t, err, signpost.ErrBadConfig)
	require.ErrorIs(t, err, signpost.ErrNotExist)

	// Act
	actual, err = manifest.Read(context.Background(), nil)

	// Assert
	require.Nil(t, actual)
	require.ErrorAs(t, err, &ce)
}

func TestReadDuplicate(t *testing.T) {
	// Act
	actual, err := manifest.Read(context.Background(), manifest.File("testdata/duplicate.json"))

	// Assert
	require.Nil(t, actual)
	require.ErrorIs(t, err, signpost.ErrBadConfig)
	require.ErrorIs(t, err, signpost.ErrConflict)

	var rce *signpost.RouteConflictError
	require.ErrorAs(t, err, &rce)
	require.Equal(t, "/hello", rce.Path)
	require.Equal(t, "hola", rce.Module)
	require.Equal(t, "hello", rce.Existing)
}

func TestReadMalformed(t *testing.T) {
	tcs := []struct {
		name    string
		file    string
		content string
	}{
		{"Empty-File", "m.json", ""},
		{"Not-JSON", "m.json", "{{"},
		{"Object", "m.json", `{"file": "hello", "route": "/hello", "name": "Hello"}`},
		{"Null", "m.json", `null`},
		{"Null-Entry", "m.json", `[null]`},
		{"Missing-File", "m.json", `[{"route": "/hello", "name": "Hello"}]`},
		{"Missing-Route", "m.json", `[{"file": "hello", "name": "Hello"}]`},
		{"Missing-Name", "m.json", `[{"file": "hello", "route": "/hello"}]`},
		{"Blank-File", "m.json", `[{"file": " ", "route": "/hello", "name": "Hello"}]`},
		{"Relative-Route", "m.json", `[{"file": "hello", "route": "hello", "name": "Hello"}]`},
		{"Route-Variable", "m.json", `[{"file": "hello", "route": "/{x}", "name": "Hello"}]`},
		{"Route-Open-Brace", "m.json", `[{"file": "hello", "route": "/a{", "name": "A"}]`},
		{"Route-Close-Brace", "m.yaml", "- file: hello\n  route: /a}\n  name: A\n"},
		{"Wrong-Type", "m.json", `[{"file": 1, "route": "/hello", "name": "Hello"}]`},
		{"Unknown-Field", "m.json", `[{"file": "hello", "route": "/hello", "name": "Hello", "methods": ["GET"]}]`},
		{"Trailing-Data", "m.json", `[] []`},
		{"YAML-Map", "m.yaml", "file: hello\nroute: /hello\nname: Hello\n"},
		{"YAML-Empty", "m.yml", ""},
		{"YAML-Missing-Name", "m.yaml", "- file: hello\n  route: /hello\n"},
		{"YAML-Unknown-Field", "m.yaml", "- file: hello\n  route: /hello\n  name: Hello\n  methods: [GET]\n"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			fp := filepath.Join(t.TempDir(), tc.file)
			require.Nil(t, os.WriteFile(fp, []byte(tc.content), 0o644))

			// Act
			actual, err := manifest.Read(context.Background(), manifest.File(fp))

			// Assert
			require.Nil(t, actual)
			var ce *manifest.ConfigurationError
			require.ErrorAs(t, err, &ce)
			require.ErrorIs(t, err, signpost.ErrBadConfig)
		})
	}
}

func TestReadBraceRoute(t *testing.T) {
	// Arrange
	fp := filepath.Join(t.TempDir(), "nav_config.json")
	content := `[
		{"file": "hello", "route": "/{x}", "name": "Any"},
		{"file": "other", "route": "/hello", "name": "Hello"}
	]`
	require.Nil(t, os.WriteFile(fp, []byte(content), 0o644))

	// Act
	actual, err := manifest.Read(context.Background(), manifest.File(fp))

	// Assert
	require.Nil(t, actual)
	require.ErrorIs(t, err, signpost.ErrBadConfig)
	require.ErrorIs(t, err, signpost.ErrNotValid)
	require.Contains(t, err.Error(), `"/{x}"`)
}

func TestReadRedis(t *testing.T) {
	// Arrange
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	getter := NewMockGetter(ctrl)
	getter.EXPECT().
		Get(ctx, manifest.DefaultRedisKey).
		Return(redis.NewStringResult(`[{"file": "hello", "route": "/hello", "name": "Hello"}]`, nil))

	// Act
	actual, err := manifest.Read(ctx, manifest.Redis(getter, ""))

	// Assert
	require.Nil(t, err)
	require.Equal(t, manifest.Manifest{{Module: "hello", Path: "/hello", Name: "Hello"}}, actual)

	// Arrange
	getter.EXPECT().Get(ctx, "pages").Return(redis.NewStringResult("", redis.Nil))

	// Act
	actual, err = manifest.Read(ctx, manifest.Redis(getter, "pages"))

	// Assert
	require.Nil(t, actual)
	require.ErrorIs(t, err, signpost.ErrBadConfig)
	require.ErrorIs(t, err, signpost.ErrNotExist)

	// Arrange
	down := errors.New("connection refused")
	getter.EXPECT().Get(ctx, "pages").Return(redis.NewStringResult("", down))

	// Act
	actual, err = manifest.Read(ctx, manifest.Redis(getter, "pages"))

	// Assert
	require.Nil(t, actual)
	require.ErrorIs(t, err, down)
}

func TestParseSource(t *testing.T) {
	// Act
	src, err := manifest.ParseSource("app/nav_config.json")

	// Assert
	require.Nil(t, err)
	require.IsType(t, new(manifest.FileSource), src)
	require.Equal(t, "app/nav_config.json", src.String())

	// Act
	src, err = manifest.ParseSource("redis://localhost:6379/2?key=pages")

	// Assert
	require.Nil(t, err)
	require.IsType(t, new(manifest.RedisSource), src)
	require.Equal(t, "redis://localhost:6379/2?key=pages", src.String())

	// Act
	src, err = manifest.ParseSource("redis://localhost:6379/not-a-db")

	// Assert
	require.Nil(t, src)
	var ce *manifest.ConfigurationError
	require.ErrorAs(t, err, &ce)
}

func TestFormatFromPath(t *testing.T) {
	require.Equal(t, manifest.JSON, manifest.FormatFromPath("nav_config.json"))
	require.Equal(t, manifest.JSON, manifest.FormatFromPath("nav_config"))
	require.Equal(t, manifest.YAML, manifest.FormatFromPath("nav_config.YAML"))
	require.Equal(t, manifest.YAML, manifest.FormatFromPath("nav_config.yml"))
}

func TestManifestPaths(t *testing.T) {
	require.Equal(t, []string{"/hello", "/about"}, navConfig.Paths())
	require.Equal(t, []string{}, manifest.Manifest{}.Paths())
}
