package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
)

// envVarPattern matches ${VAR} or ${VAR:-default}
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// envRef is one ${...} reference found in a config document.
type envRef struct {
	name       string
	hasDefault bool
	fallback   string
}

func parseRef(match string) (envRef, bool) {
	parts := envVarPattern.FindStringSubmatch(match)
	if len(parts) < 2 {
		return envRef{}, false
	}
	ref := envRef{name: parts[1]}
	if len(parts) >= 4 && parts[2] != "" {
		ref.hasDefault = true
		ref.fallback = parts[3]
	}
	return ref, true
}

// resolve returns the value a reference expands to and whether the variable was set.
func (r envRef) resolve() (string, bool) {
	if value, ok := os.LookupEnv(r.name); ok && value != "" {
		return value, true
	}
	if r.hasDefault {
		return r.fallback, false
	}
	return "", false
}

// ExpandEnv replaces ${VAR} and ${VAR:-default} references with their values.
// An unset or empty variable without a default expands to "".
//
//	endpoint: ${LEADGATE_ENDPOINT:-http://127.0.0.1:9000/exec}
func ExpandEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		ref, ok := parseRef(match)
		if !ok {
			return match
		}
		value, _ := ref.resolve()
		return value
	})
}

// ExpandEnvBytes is ExpandEnv for file contents read before YAML/JSON unmarshaling.
func ExpandEnvBytes(input []byte) []byte {
	return []byte(ExpandEnv(string(input)))
}

// ExtractEnvVars lists the variable names referenced in input, in order of first use.
func ExtractEnvVars(input string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0)

	for _, match := range envVarPattern.FindAllString(input, -1) {
		ref, ok := parseRef(match)
		if !ok || seen[ref.name] {
			continue
		}
		seen[ref.name] = true
		result = append(result, ref.name)
	}

	return result
}

// MissingEnvVars lists referenced variables that are unset and have no default.
func MissingEnvVars(input string) []string {
	seen := make(map[string]bool)
	missing := make([]string, 0)

	for _, match := range envVarPattern.FindAllString(input, -1) {
		ref, ok := parseRef(match)
		if !ok || ref.hasDefault || seen[ref.name] {
			continue
		}
		seen[ref.name] = true
		if os.Getenv(ref.name) == "" {
			missing = append(missing, ref.name)
		}
	}

	return missing
}

// ExpandEnvForDisplay expands input like ExpandEnv but masks values of
// variables whose names look like credentials.
func ExpandEnvForDisplay(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		ref, ok := parseRef(match)
		if !ok {
			return match
		}
		value, set := ref.resolve()
		if set && isSensitiveVar(ref.name) {
			return "***"
		}
		return value
	})
}

var sensitiveKeywords = []string{
	"password", "secret", "key", "token", "auth", "credential", "private",
}

func isSensitiveVar(name string) bool {
	lowerName := strings.ToLower(name)
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lowerName, keyword) {
			return true
		}
	}
	return false
}

// LoadDotEnv loads variables from the given .env files into the process environment.
// Variables already set are left alone. Missing files are skipped; other
// read or parse failures are returned.
func LoadDotEnv(paths ...string) ([]string, error) {
	loaded := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("failed to load %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
