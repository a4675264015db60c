package ytdlp

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CountNetscapeCookies returns the number of well-formed cookie lines in a
// Netscape cookies.txt blob. Comment lines, including the "#HttpOnly_"
// prefixed entries browsers export, are handled like yt-dlp does.
func CountNetscapeCookies(blob string) (int, error) {
	count := 0
	scanner := bufio.NewScanner(strings.NewReader(blob))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		line = strings.TrimPrefix(line, "#HttpOnly_")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 7 {
			return 0, fmt.Errorf("%w: expected 7 tab-separated fields, got %d", ErrInvalidCookie, len(parts))
		}
		if _, err := strconv.ParseInt(parts[4], 10, 64); err != nil {
			return 0, fmt.Errorf("%w: bad expiry %q", ErrInvalidCookie, parts[4])
		}
		count++
	}

	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return count, nil
}

// InstallCookies validates blob and writes it to path readable only by the
// owner. It returns the number of cookies written.
func InstallCookies(blob, path string) (int, error) {
	count, err := CountNetscapeCookies(blob)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, fmt.Errorf("%w: no cookies found", ErrInvalidCookie)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return 0, fmt.Errorf("failed to create cookies directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(blob), 0o600); err != nil {
		return 0, fmt.Errorf("failed to write cookies file: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0o600); err != nil {
		return 0, fmt.Errorf("failed to restrict cookies file: %w", err)
	}

	return count, nil
}
