package resolver

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// MovedRule is one whitespace-separated (origin, destination) pair from
// default/.moved (spec §3, §4.2).
type MovedRule struct {
	Origin      string
	Destination string
}

// loadMovedRules reads templateRoot/.moved. A missing file is not an
// error — it simply yields no rules (spec §4.2, §7). Grounded on
// mu-httpd/src/response.c's response_check_moved_object, with this
// repo's added tolerance for blank lines and '#'-prefixed comments
// (SPEC_FULL.md supplemented features).
func loadMovedRules(templateRoot string) ([]MovedRule, error) {
	f, err := os.Open(filepath.Join(templateRoot, ".moved"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var rules []MovedRule
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		rules = append(rules, MovedRule{Origin: fields[0], Destination: fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}

// findMoved returns the destination for path, if any rule matches.
func findMoved(rules []MovedRule, path string) (string, bool) {
	for _, r := range rules {
		if r.Origin == path {
			return r.Destination, true
		}
	}
	return "", false
}
