package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrNoFilePath = errors.New("no file path provided")

// LoadYamlFile reads a flat-ish YAML file and exports every leaf as an environment variable.
// Nested keys are joined with "_" and upper-cased: mqtt.broker.host -> MQTT_BROKER_HOST.
// Variables that are already set in the environment win over the file.
func LoadYamlFile(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}

	file, err := os.Open(filepath)
	if err != nil {
		return fmt.Errorf("could not open YAML file: %w", err)
	}
	defer file.Close()

	return loadYaml(file)
}

func loadYaml(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	prefixStack := []string{}
	indentStack := []int{}

	for scanner.Scan() {
		line := scanner.Text()

		content := strings.TrimSpace(line)
		if content == "" || strings.HasPrefix(content, "#") {
			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " "))

		// leave every section that is indented at least as deep as this line
		for len(indentStack) > 0 && indentStack[len(indentStack)-1] >= indent {
			indentStack = indentStack[:len(indentStack)-1]
			prefixStack = prefixStack[:len(prefixStack)-1]
		}

		if strings.HasSuffix(content, ":") && !strings.Contains(content, ": ") {
			prefixStack = append(prefixStack, strings.TrimSuffix(content, ":"))
			indentStack = append(indentStack, indent)
			continue
		}

		key, value, ok := strings.Cut(content, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = stripComment(strings.TrimSpace(value))
		if value == "" {
			continue
		}

		value = substituteEnv(strings.Trim(value, `"'`))

		fullKey := strings.ToUpper(strings.Join(append(append([]string{}, prefixStack...), key), "_"))
		if _, set := os.LookupEnv(fullKey); set {
			continue
		}
		if err := os.Setenv(fullKey, value); err != nil {
			return fmt.Errorf("could not set env var %s: %w", fullKey, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading YAML file: %w", err)
	}

	return nil
}

// substituteEnv resolves the ${VAR:-default} syntax.
func substituteEnv(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}

	inner := value[2 : len(value)-1]
	name, def, _ := strings.Cut(inner, ":-")
	if envValue := os.Getenv(strings.TrimSpace(name)); envValue != "" {
		return envValue
	}
	return strings.TrimSpace(def)
}

func stripComment(value string) string {
	if strings.HasPrefix(value, `"`) || strings.HasPrefix(value, `'`) {
		return value
	}
	if i := strings.Index(value, " #"); i >= 0 {
		return strings.TrimSpace(value[:i])
	}
	return value
}
