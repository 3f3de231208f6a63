package structfile

import (
	"path/filepath"
	"sort"
	"strings"
)

// compressionSuffixes are stripped before extension dispatch.
var compressionSuffixes = []string{".gz", ".xz"}

// FormatList is an ordered set of formats a reader may dispatch to. Only
// values implementing Format can be listed, so a non-conforming format is
// rejected when the list is built, at compile time.
type FormatList struct {
	formats []Format
	byExt   map[string][]Format
}

// NewFormatList builds a list from formats, in order of preference.
func NewFormatList(formats ...Format) FormatList {
	l := FormatList{
		formats: append([]Format(nil), formats...),
		byExt:   make(map[string][]Format),
	}
	for _, f := range l.formats {
		for _, ext := range f.Extensions() {
			ext = NormalizeExtension(ext)
			l.byExt[ext] = append(l.byExt[ext], f)
		}
	}
	return l
}

// Formats returns the listed formats in order.
func (l FormatList) Formats() []Format {
	return append([]Format(nil), l.formats...)
}

// Len returns the number of formats.
func (l FormatList) Len() int {
	return len(l.formats)
}

// Names returns the format names in order.
func (l FormatList) Names() []string {
	names := make([]string, len(l.formats))
	for i, f := range l.formats {
		names[i] = f.Name()
	}
	return names
}

// Extensions returns every registered extension, sorted.
func (l FormatList) Extensions() []string {
	exts := make([]string, 0, len(l.byExt))
	for ext := range l.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Lookup returns the format with the given name.
func (l FormatList) Lookup(name string) (Format, bool) {
	for _, f := range l.formats {
		if strings.EqualFold(f.Name(), name) {
			return f, true
		}
	}
	return nil, false
}

// ForExtension returns the formats claiming ext, in order of preference.
func (l FormatList) ForExtension(ext string) []Format {
	return append([]Format(nil), l.byExt[NormalizeExtension(ext)]...)
}

// ForPath returns the formats claiming the extension of path.
func (l FormatList) ForPath(path string) []Format {
	return l.ForExtension(PathExtension(path))
}

// NormalizeExtension lowercases ext and drops a leading dot.
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// PathExtension returns the normalized extension of path after removing a
// compression suffix, so "x.dbn.gz" yields "dbn".
func PathExtension(path string) string {
	base := filepath.Base(path)
	lower := strings.ToLower(base)
	for _, suffix := range compressionSuffixes {
		if strings.HasSuffix(lower, suffix) {
			base = base[:len(base)-len(suffix)]
			break
		}
	}
	return NormalizeExtension(filepath.Ext(base))
}
