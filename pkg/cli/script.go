package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Script is a list of commands replayed by "pioneer run".
//
//	steps:
//	  - type: op_set_label
//	    args: {id: status, text: Starting}
//	  - type: op_rotate_3d
//	    args: {scene_id: mainScene, angle: 15}
//	    delay: 500ms
type Script struct {
	Steps []Step `yaml:"steps" json:"steps"`
}

// Step is one command of a Script.
type Step struct {
	// Type is the command name.
	Type string `yaml:"type" json:"type"`

	// Args is the command payload.
	Args map[string]any `yaml:"args,omitempty" json:"args,omitempty"`

	// Delay is waited before the command is sent, as a Go duration string.
	Delay string `yaml:"delay,omitempty" json:"delay,omitempty"`

	// Await sends the command as a request and waits for the reply.
	Await bool `yaml:"await,omitempty" json:"await,omitempty"`
}

// DelayDuration returns the parsed Delay, or 0 if unset.
func (s Step) DelayDuration() (time.Duration, error) {
	if s.Delay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Delay)
	if err != nil {
		return 0, fmt.Errorf("invalid delay %q: %w", s.Delay, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative delay %q", s.Delay)
	}
	return d, nil
}

// Validate checks every step has a type and a valid delay.
func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return errors.New("script has no steps")
	}
	for i, step := range s.Steps {
		if step.Type == "" {
			return fmt.Errorf("step %d: missing type", i+1)
		}
		if _, err := step.DelayDuration(); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Type, err)
		}
	}
	return nil
}

// LoadScript reads and validates a script file. "-" reads stdin.
func LoadScript(path string) (*Script, error) {
	var s Script
	var err error
	if path == "-" {
		err = LoadRequestFromStdin(&s)
	} else {
		err = LoadRequest(path, &s)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &s, nil
}

// LoadRequest loads a YAML or JSON file into the provided value
func LoadRequest(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	return ParseRequest(data, path, v)
}

// ParseRequest parses data based on file extension or content
func ParseRequest(data []byte, filename string, v any) error {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		// YAML is a superset of JSON for our purposes.
		if err := yaml.Unmarshal(data, v); err != nil {
			if err2 := json.Unmarshal(data, v); err2 != nil {
				return fmt.Errorf("failed to parse file (tried YAML and JSON)")
			}
		}
	}

	return nil
}

// LoadRequestFromStdin loads a YAML or JSON document from stdin
func LoadRequestFromStdin(v any) error {
	return loadFrom(os.Stdin, v)
}

func loadFrom(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	// Try JSON first for stdin, then YAML
	if err := json.Unmarshal(data, v); err != nil {
		if err2 := yaml.Unmarshal(data, v); err2 != nil {
			return fmt.Errorf("failed to parse input (tried JSON and YAML)")
		}
	}

	return nil
}
