package egui

// Command names understood by the host.
const (
	OpSetLabel           = "op_set_label"
	OpSetButton          = "op_set_button"
	OpSetSlider          = "op_set_slider"
	OpSetInput           = "op_set_input"
	OpSetCheckbox        = "op_set_checkbox"
	OpSetComboBox        = "op_set_combo_box"
	OpSetRadio           = "op_set_radio"
	OpSetProgress        = "op_set_progress"
	OpRotate3D           = "op_rotate_3d"
	OpAdd3DObject        = "op_add_3d_object"
	OpStartRecording     = "op_start_recording"
	OpStopRecording      = "op_stop_recording"
	OpStartPlayback      = "op_start_playback"
	OpStopPlayback       = "op_stop_playback"
	OpSaveRecordedEvents = "op_save_recorded_events"
	OpLoadRecordedEvents = "op_load_recorded_events"
)

// LabelArgs is the payload of OpSetLabel. ID is empty for window titles.
type LabelArgs struct {
	ID   string `json:"id,omitempty" jsonschema:"label id"`
	Text string `json:"text" jsonschema:"text to display"`
}

// ButtonArgs is the payload of OpSetButton.
type ButtonArgs struct {
	ID    string `json:"id" jsonschema:"button id"`
	Label string `json:"label" jsonschema:"button caption"`
}

// SliderArgs is the payload of OpSetSlider.
type SliderArgs struct {
	ID    string  `json:"id" jsonschema:"slider id"`
	Value float64 `json:"value" jsonschema:"slider position"`
}

// InputArgs is the payload of OpSetInput.
type InputArgs struct {
	ID   string `json:"id" jsonschema:"input id"`
	Text string `json:"text" jsonschema:"input contents"`
}

// CheckboxArgs is the payload of OpSetCheckbox.
type CheckboxArgs struct {
	ID      string `json:"id" jsonschema:"checkbox id"`
	Checked bool   `json:"checked" jsonschema:"checked state"`
}

// ComboBoxArgs is the payload of OpSetComboBox.
type ComboBoxArgs struct {
	ID       string   `json:"id" jsonschema:"combo box id"`
	Selected string   `json:"selected" jsonschema:"selected option"`
	Options  []string `json:"options" jsonschema:"all options in display order"`
}

// RadioArgs is the payload of OpSetRadio.
type RadioArgs struct {
	ID       string `json:"id" jsonschema:"radio group id"`
	Selected string `json:"selected" jsonschema:"selected option"`
}

// ProgressArgs is the payload of OpSetProgress.
type ProgressArgs struct {
	ID    string  `json:"id" jsonschema:"progress bar id"`
	Value float64 `json:"value" jsonschema:"progress value"`
}

// RotateArgs is the payload of OpRotate3D.
type RotateArgs struct {
	SceneID string  `json:"scene_id" jsonschema:"scene id"`
	Angle   float64 `json:"angle" jsonschema:"rotation in degrees"`
}

// ObjectType is the kind of a 3-D scene object.
type ObjectType string

const (
	Cube   ObjectType = "cube"
	Sphere ObjectType = "sphere"
)

// ObjectArgs is the payload of OpAdd3DObject.
type ObjectArgs struct {
	SceneID    string     `json:"scene_id" jsonschema:"scene id"`
	ObjectID   string     `json:"object_id" jsonschema:"object id within the scene"`
	ObjectType ObjectType `json:"object_type" jsonschema:"cube or sphere"`
	Size       float64    `json:"size" jsonschema:"edge length for cubes, radius for spheres"`
}

// FileArgs is the payload of OpSaveRecordedEvents and OpLoadRecordedEvents.
// The file lives on the host; only its name is sent.
type FileArgs struct {
	Filename string `json:"filename" jsonschema:"host-side file name"`
}

// EmptyArgs is the payload of commands that carry no arguments.
type EmptyArgs struct{}
