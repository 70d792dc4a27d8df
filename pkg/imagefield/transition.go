package imagefield

// event is anything that moves a field from one status to another.
type event int

const (
	eventNone event = iota
	eventTextEdited
	eventImageAccepted
	eventImageInvalid
	eventImageTooLarge
	eventReadFailed
	eventOverride
)

var eventNames = [...]string{
	eventNone:          "none",
	eventTextEdited:    "text_edited",
	eventImageAccepted: "image_accepted",
	eventImageInvalid:  "image_invalid",
	eventImageTooLarge: "image_too_large",
	eventReadFailed:    "read_failed",
	eventOverride:      "override",
}

func (e event) String() string {
	if e >= 0 && int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "unknown"
}

// transition says where an event leads. Every event is valid from every
// status, so there is no "from" side to the table.
type transition struct {
	to Status
	// report hands the resulting value to the ContentFunc.
	report bool
	// keepValue means the event carries no candidate and the current value stays.
	keepValue bool
}

var transitions = map[event]transition{
	eventTextEdited:    {to: NoFile, report: true},
	eventImageAccepted: {to: ValidFile, report: true},
	eventImageInvalid:  {to: InvalidImage},
	eventImageTooLarge: {to: FileTooLarge},
	eventReadFailed:    {to: ReadFailed, keepValue: true},
	eventOverride:      {to: ValidFile, report: true, keepValue: true},
}
