package httpds

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/zeebo/xxh3"
)

// nonAlnum collapses everything that is not a letter or digit.
var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// FilenameFromURL derives the local filename for a download from the URL's
// final path segment (the convention the upstream dump servers follow).
// When the URL cannot be parsed or has no usable final segment, a stable
// hash of the whole URL is used instead.
func FilenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return hashName(rawURL)
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return hashName(rawURL)
	}
	return base
}

func hashName(s string) string {
	return fmt.Sprintf("download_%016x", xxh3.HashString(s))
}

// VersionFromFilename extracts the dataset version embedded in a dump
// filename, e.g. "ORegAnno_Combined_2016.01.19.tsv" with prefix
// "ORegAnno_Combined_" yields "20160119". The prefix and a ".tsv"/".tsv.gz"
// suffix are trimmed and the remaining non-alphanumeric characters removed.
func VersionFromFilename(name, prefix string) string {
	v := strings.TrimPrefix(name, prefix)
	v = strings.TrimSuffix(v, ".gz")
	v = strings.TrimSuffix(v, ".tsv")
	return nonAlnum.ReplaceAllString(v, "")
}
