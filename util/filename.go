package util

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// windowsReserved lists device names that cannot be used as file names on
// Windows regardless of extension.
var windowsReserved = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// SecureFilename turns a user supplied file name into a single safe path
// component. Non-ASCII characters are folded through NFKD and dropped,
// path separators and whitespace become underscores, anything outside
// [A-Za-z0-9_.-] is removed, and leading dots, dashes and underscores are
// trimmed. The result may be empty.
//
//	SecureFilename("My Report.PDF")      // "My_Report.PDF"
//	SecureFilename("../../etc/passwd")   // "etc_passwd"
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)
	name = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII || unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)

	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")
	name = strings.TrimLeft(name, "-._")

	if name != "" {
		stem := strings.ToUpper(strings.SplitN(name, ".", 2)[0])
		if _, reserved := windowsReserved[stem]; reserved {
			name = "_" + name
		}
	}
	return name
}

// Ext returns the extension of the base name of filename, including the
// leading dot, or "" when there is none.
func Ext(filename string) string {
	return path.Ext(BaseName(filename))
}

// ExtNoDot returns the lowercased extension of filename without the dot.
func ExtNoDot(filename string) string {
	return strings.ToLower(strings.TrimPrefix(Ext(filename), "."))
}

// BaseName strips any client supplied directory part, accepting both slash
// styles.
func BaseName(filename string) string {
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		return filename[i+1:]
	}
	return filename
}
