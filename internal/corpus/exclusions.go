package corpus

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"predscan/internal/extract"
)

// ReadExclusions parses an exclusion list file. Each line names one
// identifier, optionally followed by a reason:
//
//	K123456  recalled by manufacturer 2024
//	# comment lines and blanks are skipped
//
// Identifiers are normalized; lines that do not start with a valid
// identifier are rejected so a typo never silently drops an exclusion.
func ReadExclusions(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open exclusion file: %w", err)
	}
	defer func() { _ = file.Close() }()

	exclusions := make(map[string]string)

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		id := extract.Normalize(fields[0])
		if !extract.ValidIdentifier(id) {
			return nil, fmt.Errorf("exclusion file line %d: %q is not a device identifier", lineNo, fields[0])
		}

		reason := "listed in exclusion file"
		if len(fields) > 1 {
			reason = strings.Join(fields[1:], " ")
		}
		exclusions[id] = reason
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read exclusion file: %w", err)
	}

	return exclusions, nil
}
