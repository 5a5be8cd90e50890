package egui

// Window is the parent handle that widget chains return to.
type Window struct {
	b     *Builder
	title string
}

// Title returns the window title.
func (w *Window) Title() string {
	return w.title
}

// AddLabel returns a label handle. No command is sent until SetText.
func (w *Window) AddLabel(id string) *Label {
	return &Label{w: w, id: id}
}

// AddButton creates a button.
func (w *Window) AddButton(id, label string) *Button {
	w.b.send(OpSetButton, ButtonArgs{ID: id, Label: label})
	return &Button{w: w, id: id, label: label}
}

// AddSlider creates a slider spanning low to high, positioned at low.
func (w *Window) AddSlider(id string, low, high float64) *Slider {
	w.b.send(OpSetSlider, SliderArgs{ID: id, Value: low})
	return &Slider{w: w, id: id, low: low, high: high}
}

// AddInput returns a text input handle.
func (w *Window) AddInput(id string) *Input {
	return &Input{w: w, id: id}
}

// AddCheckbox returns a checkbox handle.
func (w *Window) AddCheckbox(id string) *Checkbox {
	return &Checkbox{w: w, id: id}
}

// AddComboBox creates a combo box with the first option selected, or none
// if options is empty.
func (w *Window) AddComboBox(id string, options []string) *ComboBox {
	c := &ComboBox{w: w, id: id, options: options}
	c.SetSelected(first(options))
	return c
}

// AddRadioGroup creates a radio group with the first option selected, or
// none if options is empty.
func (w *Window) AddRadioGroup(id string, options []string) *RadioGroup {
	g := &RadioGroup{w: w, id: id, options: options}
	g.SetSelected(first(options))
	return g
}

// AddProgressBar returns a progress bar handle.
func (w *Window) AddProgressBar(id string) *ProgressBar {
	return &ProgressBar{w: w, id: id}
}

// Add3DScene returns a handle for the scene with the given id.
func (w *Window) Add3DScene(id string) *Scene3D {
	return w.b.Add3DScene(id)
}

func first(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[0]
}
