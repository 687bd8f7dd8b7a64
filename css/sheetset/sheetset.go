// Package sheetset loads an ordered group of stylesheets from a
// directory into a single parsed rule chain, the way a document
// engine loads its user-agent sheet, then the document's own sheets,
// then inline overrides, in cascade order.
package sheetset

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhamidi/cssbox/css"
)

// manifestFile, when present in a directory, names the load order
// explicitly, one file per line, blank lines and "#"-prefixed lines
// ignored. Without it, files are loaded in lexical filename order.
const manifestFile = "MANIFEST"

// Source records where one file's bytes landed in a Sheet's Raw
// buffer, so a diagnostic that only has a byte offset into Raw can be
// mapped back to the file (and, by subtracting Start, the offset
// within that file) it came from.
type Source struct {
	Path  string
	Start int
	End   int
}

// Sheet is an ordered group of stylesheet sources and the parsed rule
// chain they produced, in load order (earlier files form earlier
// entries in the chain, matching CSS's cascade-by-source-order rule).
type Sheet struct {
	Dir     string
	Sources []Source
	Rules   *css.Rule
	Raw     []byte // every loaded file's bytes, concatenated in load order; Sources[i] indexes into this
}

// Load reads dir's stylesheets and parses them, in order, into one
// Rule chain. The load order is dir's MANIFEST file if one exists,
// otherwise every "*.css" file in lexical order.
func Load(dir string) (*Sheet, error) {
	names, err := order(dir)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}

	set, err := LoadFiles(paths)
	if err != nil {
		return nil, err
	}
	set.Dir = dir
	return set, nil
}

// LoadFiles reads and parses an explicit, caller-ordered list of
// stylesheet paths into one Rule chain. Load is LoadFiles plus
// directory-order discovery.
func LoadFiles(paths []string) (*Sheet, error) {
	set := &Sheet{}
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read stylesheet: %w", err)
		}
		set.Rules, err = css.ParseCSS(set.Rules, src, path)
		if err != nil {
			return nil, err
		}
		set.appendSource(path, src)
	}
	return set, nil
}

// order determines the load order for dir's stylesheets: the explicit
// MANIFEST file if one exists, otherwise every "*.css" file sorted by
// name.
func order(dir string) ([]string, error) {
	manifestPath := filepath.Join(dir, manifestFile)
	if f, err := os.Open(manifestPath); err == nil {
		defer f.Close()
		return readManifest(f)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read stylesheet directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), ".css") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func readManifest(f *os.File) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return names, nil
}

// Append parses src (attributed to file, for diagnostics) and adds its
// rules to the end of the set's chain, e.g. for an inline "<style>"
// block loaded after the rest of a document's sheets.
func (s *Sheet) Append(src []byte, file string) error {
	rules, err := css.ParseCSS(s.Rules, src, file)
	if err != nil {
		return err
	}
	s.Rules = rules
	s.appendSource(file, src)
	return nil
}

func (s *Sheet) appendSource(path string, src []byte) {
	start := len(s.Raw)
	s.Raw = append(s.Raw, src...)
	s.Sources = append(s.Sources, Source{Path: path, Start: start, End: start + len(src)})
}

// Release frees every rule the set owns. The set must not be used
// afterward.
func (s *Sheet) Release() {
	css.Release(s.Rules)
	s.Rules = nil
}
