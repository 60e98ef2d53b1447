package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	ErrNoFilePath    = errors.New("no file path provided")
	ErrMalformedYAML = errors.New("malformed yaml line")
)

type section struct {
	indent int
	name   string
}

// LoadYamlFile flattens a YAML file into environment variables.
// Variables already present in the environment are not overridden.
func LoadYamlFile(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}

	file, err := os.Open(filepath)
	if err != nil {
		return fmt.Errorf("could not open YAML file: %w", err)
	}
	defer file.Close()

	vars, err := Flatten(file)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath, err)
	}

	for key, value := range vars {
		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("could not set env var %s: %w", key, err)
		}
	}

	return nil
}

// Flatten turns the mapping subset of YAML into KEY=value pairs:
//
//	http:
//	  port: 5000   ->  HTTP_PORT=5000
//
// Values of the form ${VAR:-default} are resolved against the environment.
// Sequences, anchors and multi-line scalars are not supported.
func Flatten(r io.Reader) (map[string]string, error) {
	vars := make(map[string]string)
	var stack []section

	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Text()

		content := strings.TrimSpace(line)
		if content == "" || strings.HasPrefix(content, "#") || content == "---" {
			continue
		}
		if strings.HasPrefix(content, "- ") {
			return nil, fmt.Errorf("%w %d: sequences are not supported", ErrMalformedYAML, lineNo)
		}

		indent := len(line) - len(strings.TrimLeft(line, " "))

		// leave sections that are not parents of this line
		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}

		key, value, ok := strings.Cut(content, ":")
		if !ok {
			return nil, fmt.Errorf("%w %d: %q", ErrMalformedYAML, lineNo, content)
		}
		key = strings.TrimSpace(key)
		value = stripComment(strings.TrimSpace(value))

		if value == "" {
			stack = append(stack, section{indent: indent, name: key})
			continue
		}

		parts := make([]string, 0, len(stack)+1)
		for _, s := range stack {
			parts = append(parts, s.name)
		}
		parts = append(parts, key)

		vars[strings.ToUpper(strings.Join(parts, "_"))] = substitute(unquote(value))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading YAML file: %w", err)
	}

	return vars, nil
}

// stripComment drops a trailing " # comment" outside of quotes.
func stripComment(value string) string {
	if value == "" || value[0] == '"' || value[0] == '\'' {
		return value
	}
	if i := strings.Index(value, " #"); i >= 0 {
		return strings.TrimSpace(value[:i])
	}
	return value
}

func unquote(value string) string {
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') || (value[0] == '\'' && value[len(value)-1] == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// substitute resolves ${VAR:-default} and ${VAR}.
func substitute(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}

	inner := value[2 : len(value)-1]
	name, def, _ := strings.Cut(inner, ":-")
	if env := os.Getenv(strings.TrimSpace(name)); env != "" {
		return env
	}
	return strings.TrimSpace(def)
}
