package egui

import "github.com/haivivi/pioneer/pkg/relay"

// Label is a static text element.
type Label struct {
	w  *Window
	id string
}

// ID returns the label id.
func (l *Label) ID() string { return l.id }

// SetText sets the label text.
func (l *Label) SetText(text string) *Window {
	l.w.b.send(OpSetLabel, LabelArgs{ID: l.id, Text: text})
	return l.w
}

// Button is a clickable element.
type Button struct {
	w     *Window
	id    string
	label string
}

// ID returns the button id.
func (b *Button) ID() string { return b.id }

// Label returns the button caption.
func (b *Button) Label() string { return b.label }

// OnClick registers fn for clicks on this button. With legacy event names,
// fn runs on a click of any button.
func (b *Button) OnClick(fn func()) *Window {
	b.w.b.on(KindButton, b.id, func(*relay.Event) { fn() })
	return b.w
}

// Slider is a numeric range element.
type Slider struct {
	w         *Window
	id        string
	low, high float64
}

// ID returns the slider id.
func (s *Slider) ID() string { return s.id }

// Range returns the bounds the slider was created with.
func (s *Slider) Range() (low, high float64) { return s.low, s.high }

// SetValue moves the slider.
func (s *Slider) SetValue(v float64) *Slider {
	s.w.b.send(OpSetSlider, SliderArgs{ID: s.id, Value: v})
	return s
}

// OnChange registers fn for slider changes.
func (s *Slider) OnChange(fn func(value float64)) *Window {
	s.w.b.on(KindSlider, s.id, func(ev *relay.Event) { fn(ev.Float("value")) })
	return s.w
}

// Input is a single-line text field.
type Input struct {
	w  *Window
	id string
}

// ID returns the input id.
func (i *Input) ID() string { return i.id }

// SetText replaces the input contents.
func (i *Input) SetText(text string) *Input {
	i.w.b.send(OpSetInput, InputArgs{ID: i.id, Text: text})
	return i
}

// OnInput registers fn for edits.
func (i *Input) OnInput(fn func(text string)) *Window {
	i.w.b.on(KindInput, i.id, func(ev *relay.Event) { fn(ev.String("text")) })
	return i.w
}

// Checkbox is a boolean toggle.
type Checkbox struct {
	w  *Window
	id string
}

// ID returns the checkbox id.
func (c *Checkbox) ID() string { return c.id }

// SetChecked sets the checked state.
func (c *Checkbox) SetChecked(checked bool) *Checkbox {
	c.w.b.send(OpSetCheckbox, CheckboxArgs{ID: c.id, Checked: checked})
	return c
}

// OnToggle registers fn for toggles.
func (c *Checkbox) OnToggle(fn func(checked bool)) *Window {
	c.w.b.on(KindCheckbox, c.id, func(ev *relay.Event) { fn(ev.Bool("checked")) })
	return c.w
}

// ProgressBar shows a progress value.
type ProgressBar struct {
	w  *Window
	id string
}

// ID returns the progress bar id.
func (p *ProgressBar) ID() string { return p.id }

// SetProgress sets the displayed value.
func (p *ProgressBar) SetProgress(value float64) *ProgressBar {
	p.w.b.send(OpSetProgress, ProgressArgs{ID: p.id, Value: value})
	return p
}

// OnUpdate registers fn for progress updates reported by the host.
func (p *ProgressBar) OnUpdate(fn func(value float64)) *Window {
	p.w.b.on(KindProgress, p.id, func(ev *relay.Event) { fn(ev.Float("value")) })
	return p.w
}
