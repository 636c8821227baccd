package source

import (
	"bytes"
	"path/filepath"
)

// Лексер и индекс строк считают концом строки одиночный '\n', а диапазон
// диагностики — байтовые смещения в нормализованном тексте. Поэтому VFS
// приводит содержимое к этому виду один раз, при загрузке.

var (
	crlf    = []byte{'\r', '\n'}
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
)

// NormalizeCRLF rewrites every \r\n pair to \n and reports whether
// anything changed. Одиночный \r — легальный пробельный символ внутри
// строки, его не трогаем.
func NormalizeCRLF(content []byte) ([]byte, bool) {
	i := bytes.Index(content, crlf)
	if i < 0 {
		return content, false
	}
	out := make([]byte, 0, len(content)-1)
	for i >= 0 {
		out = append(out, content[:i]...)
		out = append(out, '\n')
		content = content[i+2:]
		i = bytes.Index(content, crlf)
	}
	return append(out, content...), true
}

// RemoveBOM strips a leading UTF-8 byte order mark so that byte offset 0
// is the first character the scanner sees.
func RemoveBOM(content []byte) ([]byte, bool) {
	if !bytes.HasPrefix(content, utf8BOM) {
		return content, false
	}
	return content[len(utf8BOM):], true
}

// NormalizePath brings a path to the single canonical spelling used as
// the VFS key: clean, с прямыми слэшами на любой платформе.
func NormalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath resolves a path against the working directory and
// normalizes it.
func AbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path, err
	}
	return NormalizePath(abs), nil
}

// RelativePath renders path relative to base for display purposes,
// falling back to the normalized absolute form when the two do not share
// a root.
func RelativePath(path, base string) (string, error) {
	abs, err := AbsolutePath(path)
	if err != nil {
		return path, err
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return abs, nil
	}
	rel, err := filepath.Rel(absBase, abs)
	if err != nil {
		return abs, nil
	}
	return NormalizePath(rel), nil
}
