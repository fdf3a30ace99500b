package forms

import (
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/formkit/util"
)

// maxShardDepth is the number of subfolder levels derived from a name.
const maxShardDepth = 4

// Policy is a resolved filename policy.
type Policy struct {
	UUIDPrefix   bool
	KeepFilename bool
	Subfolders   bool
}

// GenerateFilename computes the stored name for an uploaded file.
//
// With UUIDPrefix and without KeepFilename the base name is replaced by a
// random UUID and only the extension survives. Otherwise the name is
// sanitized and, with UUIDPrefix, prefixed by "<uuid>-". With Subfolders
// the result is nested under up to four folders taken from its first
// dash-separated segments (UUIDPrefix) or first characters.
func GenerateFilename(name string, p Policy) string {
	var filename string
	if p.UUIDPrefix && !p.KeepFilename {
		filename = uuid.NewString() + safeExt(name)
	} else {
		filename = util.SecureFilename(name)
		switch {
		case filename == "":
			filename = uuid.NewString() + safeExt(name)
		case p.UUIDPrefix:
			filename = uuid.NewString() + "-" + filename
		}
	}

	if !p.Subfolders {
		return filename
	}
	return path.Join(append(shardDirs(filename, p.UUIDPrefix), filename)...)
}

func shardDirs(filename string, byDash bool) []string {
	if byDash {
		parts := strings.SplitN(filename, "-", maxShardDepth+1)
		return parts[:min(maxShardDepth, len(parts))]
	}
	n := min(maxShardDepth, len(filename))
	dirs := make([]string, n)
	for i := 0; i < n; i++ {
		dirs[i] = filename[i : i+1]
	}
	return dirs
}

// safeExt returns the extension of name with the same character filtering as
// SecureFilename: safe ASCII extensions are kept verbatim, accents fold to
// ASCII and other characters are dropped. The reserved-name guard applies
// to stems only.
func safeExt(name string) string {
	ext := strings.TrimPrefix(util.Ext(name), ".")
	if ext = strings.TrimLeft(util.SecureFilename(ext), "_"); ext == "" {
		return ""
	}
	return "." + ext
}
