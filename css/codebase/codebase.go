// Package codebase indexes a directory of stylesheets, keeps that
// index current as files change (via FileWatcher or explicit calls),
// and exposes it through an LSP server (LSPServer) that publishes
// parse diagnostics as documents are edited.
package codebase

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/dhamidi/cssbox/css"
)

// Codebase is a mutex-guarded index of parsed stylesheets keyed by
// file path.
type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*FileInfo

	// OnUpdate, if set, is called after a file is (re-)indexed, outside
	// the index's lock. It's how a watcher-driven caller (e.g. the
	// "watch" CLI command) learns about a file's parse result without
	// polling the index itself.
	OnUpdate func(info *FileInfo)
}

// FileInfo is one indexed stylesheet: its raw content, the rules
// parsed from it (nil on a parse failure), and the parse error, if
// any.
type FileInfo struct {
	Path     string
	Content  []byte
	Rules    *css.Rule
	ParseErr error
}

// New creates an empty index rooted at rootDir.
func New(rootDir string) *Codebase {
	return &Codebase{
		rootDir: rootDir,
		files:   make(map[string]*FileInfo),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// ScanAll walks the whole tree under RootDir and indexes every ".css"
// file it finds.
func (c *Codebase) ScanAll() error {
	return filepath.Walk(c.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".css" {
			c.ScanFile(path)
		}
		return nil
	})
}

// ScanFile reads and indexes a single file from disk.
func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.UpdateFile(path, content)
}

// UpdateFile (re-)indexes path with content already in memory, e.g.
// unsaved editor contents from an LSP client.
func (c *Codebase) UpdateFile(path string, content []byte) error {
	c.mu.Lock()
	rules, err := css.ParseCSS(nil, content, filepath.Base(path))
	info := &FileInfo{
		Path:     path,
		Content:  content,
		Rules:    rules,
		ParseErr: err,
	}
	c.files[path] = info
	onUpdate := c.OnUpdate
	c.mu.Unlock()

	if onUpdate != nil {
		onUpdate(info)
	}
	return nil
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f := c.files[path]; f != nil {
		css.Release(f.Rules)
	}
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths returns every indexed file path, in no particular order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for p := range c.files {
		paths = append(paths, p)
	}
	return paths
}
