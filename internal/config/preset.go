package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadPreset reads an answers preset from a YAML file. Presets let CI
// pipelines scaffold without the interactive wizard; values carry the
// same meaning as wizard answers and go through the same validation.
func LoadPreset(path string) (*Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, path)
		}
		return nil, fmt.Errorf("read preset %s: %w", path, err)
	}
	return ParsePreset(data)
}

// ParsePreset decodes preset YAML. Unknown keys are rejected so typos
// surface instead of silently falling back to defaults.
func ParsePreset(data []byte) (*Answers, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var ans Answers
	if err := dec.Decode(&ans); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidPreset)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}
	return &ans, nil
}

// EncodePreset serializes answers back to preset YAML. Stage 1 uses this
// to hand collected answers across the process boundary to stage 2.
func EncodePreset(ans *Answers) ([]byte, error) {
	data, err := yaml.Marshal(ans)
	if err != nil {
		return nil, fmt.Errorf("encode preset: %w", err)
	}
	return data, nil
}
