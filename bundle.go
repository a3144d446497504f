package staghorn

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Logger is used to print notifications and compile errors when using the
// "WatchFiles" feature.
var Logger = log.New(os.Stderr, "[staghorn] ", 0)

// DefaultExtension is the file suffix AddTemplateDir looks for.
const DefaultExtension = ".html"

type bundleFile struct {
	name    string // corpus name the template is registered under
	path    string // filesystem path; empty for string-added templates
	content string
}

// Bundle is a collection of template sources.  It acts as input for the
// compiler: add directories, files or strings, then Compile into a Corpus.
type Bundle struct {
	root                  string
	ext                   string
	files                 []bundleFile
	err                   error
	watcher               *fsnotify.Watcher
	recompilationCallback func(*Corpus)
}

// NewBundle returns an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{ext: DefaultExtension}
}

// SetExtension changes the file suffix AddTemplateDir looks for.
func (b *Bundle) SetExtension(ext string) *Bundle {
	b.ext = ext
	return b
}

// WatchFiles tells the bundle to watch any template files added to it,
// re-compile as necessary, and update the corpus returned by Compile.  It
// should be called once, before adding any files.
func (b *Bundle) WatchFiles(watch bool) *Bundle {
	if watch && b.err == nil && b.watcher == nil {
		b.watcher, b.err = fsnotify.NewWatcher()
	}
	return b
}

// AddTemplateDir adds all template files found within the given directory
// (including sub-directories) to the bundle.  The first directory added
// becomes the root partial references resolve against.
func (b *Bundle) AddTemplateDir(root string) *Bundle {
	if b.root == "" {
		b.root = root
	}
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, b.ext) {
			return nil
		}
		b.AddTemplateFile(path)
		return nil
	})
	if err != nil && b.err == nil {
		b.err = err
	}
	return b
}

// AddTemplateFile adds the given template file to this bundle.  If
// WatchFiles is on, it will be subsequently watched for updates.
func (b *Bundle) AddTemplateFile(path string) *Bundle {
	content, err := os.ReadFile(path)
	if err != nil && b.err == nil {
		b.err = err
	}
	if b.err == nil && b.watcher != nil {
		b.err = b.watcher.Add(path)
	}
	name := filepath.ToSlash(path)
	if b.root != "" {
		if rel, err := filepath.Rel(b.root, path); err == nil {
			name = filepath.ToSlash(rel)
		}
	}
	b.files = append(b.files, bundleFile{name, path, string(content)})
	return b
}

// AddTemplateString adds the given template source to the bundle under the
// given name.  The name is what partial references resolve to; it does not
// need to be a real filename.
func (b *Bundle) AddTemplateString(name, source string) *Bundle {
	b.files = append(b.files, bundleFile{name, "", source})
	return b
}

// SetRecompilationCallback assigns the bundle a function to call after
// recompilation.  This is called before updating the in-use corpus.
func (b *Bundle) SetRecompilationCallback(c func(*Corpus)) *Bundle {
	b.recompilationCallback = c
	return b
}

// Compile parses every template in this bundle, loads whatever partials
// they reference, and returns the completed corpus.
func (b *Bundle) Compile() (*Corpus, error) {
	if b.err != nil {
		return nil, b.err
	}

	corpus := newCorpus(b.root)
	for _, f := range b.files {
		t, err := compile(f.name, f.content, corpus)
		if err != nil {
			return nil, err
		}
		corpus.add(t)
	}
	for _, f := range b.files {
		t, _ := corpus.Template(f.name)
		if err := corpus.loadReferenced(t); err != nil {
			return nil, err
		}
	}

	if b.watcher != nil {
		go b.recompiler(corpus)
	}
	return corpus, nil
}

func (b *Bundle) recompiler(corpus *Corpus) {
	for {
		select {
		case ev, ok := <-b.watcher.Events:
			if !ok {
				return
			}
			// If it's a rename, fsnotify has removed the watch.
			// Add it back, after a delay.
			if ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				time.Sleep(10 * time.Millisecond)
				if err := b.watcher.Add(ev.Name); err != nil {
					Logger.Println(err)
				}
			}

			// Recompile everything from disk.
			fresh := NewBundle().SetExtension(b.ext)
			fresh.root = b.root
			for _, f := range b.files {
				if f.path != "" {
					fresh.AddTemplateFile(f.path)
				} else {
					fresh.AddTemplateString(f.name, f.content)
				}
			}
			next, err := fresh.Compile()
			if err != nil {
				Logger.Println(err)
				continue
			}

			if b.recompilationCallback != nil {
				b.recompilationCallback(next)
			}

			// update the existing corpus.
			// (this is not goroutine-safe, but that seems ok for a
			// development aid, as long as it works in practice)
			*corpus = *next
			Logger.Printf("update successful (%v)", ev)

		case err, ok := <-b.watcher.Errors:
			if !ok {
				return
			}
			Logger.Println(err)
		}
	}
}
