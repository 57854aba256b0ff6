package manifest

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/xy-planning-network/signpost"
)

// DefaultRedisKey is the key a Redis Source reads when none is named.
const DefaultRedisKey = "signpost:manifest"

// A FileSource reads a manifest from the local filesystem.
type FileSource struct {
	path   string
	format Format
}

// File constructs a *FileSource for the manifest at fp.
// The Format is chosen by the file extension; cf. [FormatFromPath].
func File(fp string) *FileSource {
	return &FileSource{path: fp, format: FormatFromPath(fp)}
}

// Fetch reads the whole file.
func (fs *FileSource) Fetch(_ context.Context) ([]byte, Format, error) {
	b, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fs.format, fmt.Errorf("%w: %s", signpost.ErrNotExist, err)
	}

	if err != nil {
		return nil, fs.format, err
	}

	return b, fs.format, nil
}

// Path returns the path of the file read.
func (fs *FileSource) Path() string { return fs.path }

func (fs *FileSource) String() string { return fs.path }

// A Getter retrieves the value stored at key.
// *redis.Client implements Getter.
type Getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// A RedisSource reads a JSON manifest stored at a Redis key.
type RedisSource struct {
	client Getter
	key    string
	name   string
}

// Redis constructs a *RedisSource reading key through client.
func Redis(client Getter, key string) *RedisSource {
	if key == "" {
		key = DefaultRedisKey
	}

	return &RedisSource{client: client, key: key, name: "redis key " + key}
}

// Fetch gets the key's value.
// A missing key fails with signpost.ErrNotExist.
func (rs *RedisSource) Fetch(ctx context.Context) ([]byte, Format, error) {
	b, err := rs.client.Get(ctx, rs.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, JSON, fmt.Errorf("%w: %s", signpost.ErrNotExist, rs.key)
	}

	if err != nil {
		return nil, JSON, err
	}

	return b, JSON, nil
}

func (rs *RedisSource) String() string { return rs.name }

// ParseSource constructs a Source from a resource identifier.
//
// A "redis://" URL selects a *RedisSource: the host, password, and database
// come from the URL, as understood by [redis.ParseURL],
// and the "key" query parameter names the key, defaulting to [DefaultRedisKey].
//
// Anything else is treated as a file path.
func ParseSource(uri string) (Source, error) {
	u, err := url.Parse(uri)
	if err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
		return File(uri), nil
	}

	q := u.Query()
	key := q.Get("key")
	q.Del("key")
	u.RawQuery = q.Encode()

	opts, err := redis.ParseURL(u.String())
	if err != nil {
		return nil, newConfigurationError(uri, "cannot parse manifest source", err)
	}

	src := Redis(redis.NewClient(opts), key)
	src.name = "redis://" + opts.Addr + "/" + strconv.Itoa(opts.DB) + "?key=" + src.key

	return src, nil
}
