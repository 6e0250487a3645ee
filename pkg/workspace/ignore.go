package workspace

import (
	"bufio"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

// GetIgnoreRules reads ignore files (.gitignore, .teddy/.ignore) and returns
// a combined gitignore matcher, or nil when there are no rules.
func GetIgnoreRules(rootDir string) *ignore.GitIgnore {
	var allRules []string

	gitignorePath := filepath.Join(rootDir, ".gitignore")
	if rules, err := readIgnoreFile(gitignorePath); err == nil {
		allRules = append(allRules, rules...)
	}

	teddyIgnorePath := filepath.Join(rootDir, ".teddy", ".ignore")
	if rules, err := readIgnoreFile(teddyIgnorePath); err == nil {
		allRules = append(allRules, rules...)
	}

	if len(allRules) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(allRules...)
}

func readIgnoreFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
