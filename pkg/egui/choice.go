package egui

import "github.com/haivivi/pioneer/pkg/relay"

// ComboBox is a drop-down selection.
type ComboBox struct {
	w       *Window
	id      string
	options []string
}

// ID returns the combo box id.
func (c *ComboBox) ID() string { return c.id }

// Options returns the options the combo box was created with.
func (c *ComboBox) Options() []string { return c.options }

// SetSelected selects an option. The full option list is resent each time.
// selected is not checked against the options.
func (c *ComboBox) SetSelected(selected string) *ComboBox {
	c.w.b.send(OpSetComboBox, ComboBoxArgs{ID: c.id, Selected: selected, Options: c.options})
	return c
}

// OnChange registers fn for selection changes.
func (c *ComboBox) OnChange(fn func(selected string)) *Window {
	c.w.b.on(KindCombo, c.id, func(ev *relay.Event) { fn(ev.String("selected")) })
	return c.w
}

// RadioGroup is a set of mutually exclusive options.
type RadioGroup struct {
	w       *Window
	id      string
	options []string
}

// ID returns the radio group id.
func (g *RadioGroup) ID() string { return g.id }

// Options returns the options the group was created with.
func (g *RadioGroup) Options() []string { return g.options }

// SetSelected selects an option.
func (g *RadioGroup) SetSelected(selected string) *RadioGroup {
	g.w.b.send(OpSetRadio, RadioArgs{ID: g.id, Selected: selected})
	return g
}

// OnChange registers fn for selection changes.
func (g *RadioGroup) OnChange(fn func(selected string)) *Window {
	g.w.b.on(KindRadio, g.id, func(ev *relay.Event) { fn(ev.String("selected")) })
	return g.w
}
