package egui

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

type payload struct {
	name   string
	schema func() (*jsonschema.Schema, error)
}

var catalog = []payload{
	{OpSetLabel, schemaFor[LabelArgs]},
	{OpSetButton, schemaFor[ButtonArgs]},
	{OpSetSlider, schemaFor[SliderArgs]},
	{OpSetInput, schemaFor[InputArgs]},
	{OpSetCheckbox, schemaFor[CheckboxArgs]},
	{OpSetComboBox, schemaFor[ComboBoxArgs]},
	{OpSetRadio, schemaFor[RadioArgs]},
	{OpSetProgress, schemaFor[ProgressArgs]},
	{OpRotate3D, schemaFor[RotateArgs]},
	{OpAdd3DObject, schemaFor[ObjectArgs]},
	{OpStartRecording, schemaFor[EmptyArgs]},
	{OpStopRecording, schemaFor[EmptyArgs]},
	{OpStartPlayback, schemaFor[EmptyArgs]},
	{OpStopPlayback, schemaFor[EmptyArgs]},
	{OpSaveRecordedEvents, schemaFor[FileArgs]},
	{OpLoadRecordedEvents, schemaFor[FileArgs]},
}

func schemaFor[T any]() (*jsonschema.Schema, error) {
	return jsonschema.For[T](&jsonschema.ForOptions{})
}

// Commands returns the names of all known commands in catalog order.
func Commands() []string {
	names := make([]string, len(catalog))
	for i, p := range catalog {
		names[i] = p.name
	}
	return names
}

// IsCommand reports whether name is a known command.
func IsCommand(name string) bool {
	for _, p := range catalog {
		if p.name == name {
			return true
		}
	}
	return false
}

// Schema returns the JSON Schema of the payload of the named command.
func Schema(name string) (*jsonschema.Schema, error) {
	for _, p := range catalog {
		if p.name == name {
			s, err := p.schema()
			if err != nil {
				return nil, fmt.Errorf("egui: schema for %s: %w", name, err)
			}
			return s, nil
		}
	}
	return nil, fmt.Errorf("egui: unknown command %q", name)
}

// Schemas returns the payload schema of every known command, keyed by
// command name.
func Schemas() (map[string]*jsonschema.Schema, error) {
	out := make(map[string]*jsonschema.Schema, len(catalog))
	for _, p := range catalog {
		s, err := p.schema()
		if err != nil {
			return nil, fmt.Errorf("egui: schema for %s: %w", p.name, err)
		}
		out[p.name] = s
	}
	return out, nil
}
