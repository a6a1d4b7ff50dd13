package httpds

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/xxh3"
)

// fingerprintSuffix names the sidecar file holding a download's content
// hash, written next to the downloaded dump.
const fingerprintSuffix = ".xxh3"

// HashFile returns the xxh3 fingerprint of the file at path as a hex string.
// The file is streamed; it is never loaded into memory whole.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("httpds: fingerprint %s: %w", path, err)
	}
	defer f.Close()

	h := xxh3.New()
	if _, err := io.Copy(h, bufio.NewReaderSize(f, 256*1024)); err != nil {
		return "", fmt.Errorf("httpds: fingerprint %s: %w", path, err)
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

func readFingerprint(path string) string {
	b, err := os.ReadFile(path + fingerprintSuffix)
	if err != nil {
		return ""
	}
	return string(b)
}

func writeFingerprint(path, sum string) error {
	return os.WriteFile(path+fingerprintSuffix, []byte(sum), 0o644)
}
