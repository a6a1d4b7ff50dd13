package httpds

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
)

// Download fetches url into dir, naming the file after the URL's final path
// segment, and returns the local path.
//
// The body is staged to a temporary file and renamed into place only when
// the download completes, so an interrupted transfer never clobbers a good
// earlier copy. A content fingerprint is kept in a sidecar file; when the
// fetched bytes hash to the same value as the existing copy, the existing
// file is left untouched (its mtime included) so callers can cheaply detect
// "nothing changed upstream".
func (c *Client) Download(ctx context.Context, url, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("httpds: create %s: %w", dir, err)
	}
	dest := filepath.Join(dir, FilenameFromURL(url))

	resp, err := c.Get(ctx, url, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("httpds: GET %s: unexpected status %s", url, resp.Status)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(dest)+".partial-*")
	if err != nil {
		return "", fmt.Errorf("httpds: stage download: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name()) // no-op once renamed
	}()

	bw := bufio.NewWriterSize(tmp, 256*1024)
	n, err := io.Copy(bw, resp.Body)
	if err != nil {
		return "", fmt.Errorf("httpds: download %s: %w", url, err)
	}
	if err := bw.Flush(); err != nil {
		return "", fmt.Errorf("httpds: download %s: %w", url, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("httpds: download %s: %w", url, err)
	}

	sum, err := HashFile(tmp.Name())
	if err != nil {
		return "", err
	}
	if prev := readFingerprint(dest); prev != "" && prev == sum {
		log.Printf("download: %s unchanged (xxh3=%s, %d bytes); keeping existing copy", filepath.Base(dest), sum, n)
		return dest, nil
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("httpds: finalize %s: %w", dest, err)
	}
	if err := writeFingerprint(dest, sum); err != nil {
		return "", fmt.Errorf("httpds: record fingerprint for %s: %w", dest, err)
	}
	log.Printf("download: %s (%d bytes, xxh3=%s)", filepath.Base(dest), n, sum)
	return dest, nil
}
