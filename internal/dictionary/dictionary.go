// Package dictionary finds pre-recorded audio for a word.
//
// The dictionary is a directory tree laid out as
//
//	<root>/<language folder>/<any>/<word>.mp3
//
// where the language folder is chosen by configured overrides or the short
// language code. Lookups are read-only.
package dictionary

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/dgnsrekt/ttsplayer/internal/config"
	"github.com/dgnsrekt/ttsplayer/internal/ttypes"
)

// Ext is the audio extension of dictionary entries.
const Ext = ".mp3"

// Dictionary looks up pre-recorded audio.
type Dictionary struct {
	opts  config.DictionaryOptions
	lower cases.Caser
	log   *log.Logger
}

// New creates a dictionary over opts.
func New(opts config.DictionaryOptions) *Dictionary {
	return &Dictionary{
		opts:  opts,
		lower: cases.Lower(language.Und),
		log:   log.WithPrefix("dictionary"),
	}
}

// Enabled reports whether lookups can succeed at all: the feature is on, a
// root is configured and the root is a directory.
func (d *Dictionary) Enabled() bool {
	if !d.opts.Enabled || d.opts.Root == "" {
		return false
	}
	info, err := os.Stat(d.opts.Root)
	return err == nil && info.IsDir()
}

// Find returns the first non-empty recording for text in the folders for
// the voice's variant (e.g. pt_BR) and provider code (e.g. pt), skipping
// paths that contain any exclusion substring.
func (d *Dictionary) Find(text, variant, code string) (string, bool) {
	if !d.Enabled() {
		return "", false
	}

	name := d.FileName(text)
	if name == "" {
		return "", false
	}

	for _, folder := range d.Folders(variant, code) {
		if path, ok := d.search(filepath.Join(d.opts.Root, folder), name); ok {
			d.log.Debug("dictionary hit", "text", text, "path", path)
			return path, true
		}
	}
	return "", false
}

// Folders returns the candidate language folders in priority order: exact
// overrides for the variant, then for the provider code, short-code
// overrides, then the short code itself. The short code comes from code, or
// from variant when code is empty.
func (d *Dictionary) Folders(variant, code string) []string {
	variant, code = strings.TrimSpace(variant), strings.TrimSpace(code)
	shortFrom := code
	if shortFrom == "" {
		shortFrom = variant
	}
	if shortFrom == "" {
		return nil
	}
	short := ShortCode(shortFrom)

	var folders []string
	seen := make(map[string]bool)
	add := func(f string) {
		if f != "" && !seen[f] {
			seen[f] = true
			folders = append(folders, f)
		}
	}

	for _, c := range []string{variant, code} {
		if c == "" {
			continue
		}
		add(d.opts.ExactFolders[c])
		add(d.opts.ExactFolders[ttypes.NormalizeVariant(c)])
	}
	add(d.opts.ShortFolders[short])
	add(short)
	return folders
}

// FileName normalizes text into a dictionary file name: lower-cased, NFC,
// with path-unsafe and control characters removed.
func (d *Dictionary) FileName(text string) string {
	s := norm.NFC.String(d.lower.String(strings.TrimSpace(text)))
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(`<>:"/\|?*`, r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimRight(strings.TrimSpace(s), ".")
	if s == "" {
		return ""
	}
	return s + Ext
}

// search looks for name one directory level below dir.
func (d *Dictionary) search(dir, name string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	var subdirs []string
	for _, e := range entries {
		if e.IsDir() {
			subdirs = append(subdirs, e.Name())
		}
	}
	sort.Strings(subdirs)

	for _, sub := range subdirs {
		candidate := filepath.Join(dir, sub, name)
		if d.excluded(d.relative(candidate)) {
			continue
		}
		info, err := os.Stat(candidate)
		if err == nil && info.Mode().IsRegular() && info.Size() > 0 {
			return candidate, true
		}
	}
	return "", false
}

// relative strips the root so that exclusions only see the part of the path
// inside the dictionary.
func (d *Dictionary) relative(path string) string {
	rel, err := filepath.Rel(d.opts.Root, path)
	if err != nil {
		return path
	}
	return rel
}

func (d *Dictionary) excluded(path string) bool {
	for _, ex := range d.opts.Exclude {
		if ex != "" && strings.Contains(path, ex) {
			return true
		}
	}
	return false
}

// ShortCode returns the language part of a code such as en_GB or zh-CN.
func ShortCode(code string) string {
	if i := strings.IndexAny(code, "_-"); i >= 0 {
		return strings.ToLower(code[:i])
	}
	return strings.ToLower(code)
}
