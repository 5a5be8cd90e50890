package egui

// Kind identifies the element family an event belongs to.
type Kind string

const (
	KindButton   Kind = "button"
	KindSlider   Kind = "slider"
	KindInput    Kind = "input"
	KindCheckbox Kind = "checkbox"
	KindCombo    Kind = "combo"
	KindRadio    Kind = "radio"
	KindProgress Kind = "progress"
	KindRotate   Kind = "rotate_3d"
)

// Shared event names used by hosts that do not address elements by id.
const (
	EventButtonClick  = "button_click"
	EventSliderChange = "slider_change"
	EventInputChange  = "input_change"
	EventRotate3D     = "rotate_3d"
)

var legacyNames = map[Kind]string{
	KindButton: EventButtonClick,
	KindSlider: EventSliderChange,
	KindInput:  EventInputChange,
	KindRotate: EventRotate3D,
}

// EventName returns the event an element of the given kind and id listens
// on. Normally that is "<kind>_<id>". In legacy mode buttons, sliders,
// inputs and scenes share one name per kind; the other kinds are always
// addressed by id.
func EventName(kind Kind, id string, legacy bool) string {
	if legacy {
		if name, ok := legacyNames[kind]; ok {
			return name
		}
	}
	return string(kind) + "_" + id
}
