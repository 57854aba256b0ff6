package template

import (
	"fmt"
	html "html/template"
	"io/fs"
	"os"
	"path"
	"sync"
)

// IndexTmpl is the template rendering the list of pages at "/".
// It ships with this package and can be overridden by a file at the same path
// in the filesystem given to [WithFS].
const IndexTmpl = "tmpl/index.tmpl"

// DefaultTitle is what the "title" template function returns unless replaced.
const DefaultTitle = "Pages"

// Parser is the interface for parsing HTML templates with the functions provided.
type Parser interface {
	AddFn(name string, fn any)
	Parse(fps ...string) (*html.Template, error)
}

// Parse implements Parser with a focus on utilizing embedded HTML templates through fs.FS.
type Parse struct {
	fs  fs.FS
	fns html.FuncMap
	mu  sync.RWMutex
}

// NewParser constructs a Parse with the provided functional options.
func NewParser(opts ...ParserOptFn) *Parse {
	p := &Parse{fns: make(html.FuncMap)}
	p.AddFn(Title(DefaultTitle))
	for _, opt := range opts {
		opt(p)
	}

	userFS := p.fs
	if userFS == nil {
		userFS = os.DirFS(".")
	}

	p.fs = &mergeFS{
		cache:   make(map[string]func(string) (fs.File, error)),
		userDir: userFS,
		pkgDir:  pkgFS,
	}

	return p
}

// Parse parses files found in the *Parse.fs with those functions provided previously.
// Empty file paths are ignored.
func (p *Parse) Parse(fps ...string) (*html.Template, error) {
	files := make([]string, 0, len(fps))
	for _, fp := range fps {
		if fp != "" {
			files = append(files, fp)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w", ErrNoFiles)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	return html.New(path.Base(files[0])).Funcs(p.fns).ParseFS(p.fs, files...)
}
