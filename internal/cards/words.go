// Package cards runs words through dictionary lookup and card formatting.
package cards

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// FirstWord returns the first whitespace separated token of line, or "" for a
// blank line.
func FirstWord(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ReadWords reads one word per line from r, keeping only the first token of
// each line and skipping blank lines.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if w := FirstWord(scanner.Text()); w != "" {
			words = append(words, w)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading words: %w", err)
	}
	return words, nil
}

// ReadWordFiles reads the words of every file in paths, in order. All paths
// are checked before any is read, so a missing file fails the whole call.
func ReadWordFiles(paths []string) ([]string, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("words file %s: %w", path, err)
		}
	}

	var words []string
	for _, path := range paths {
		fileWords, err := readWordFile(path)
		if err != nil {
			return nil, err
		}
		words = append(words, fileWords...)
	}
	return words, nil
}

func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening words file: %w", err)
	}
	defer f.Close()

	words, err := ReadWords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return words, nil
}
