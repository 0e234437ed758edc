package types

// Focus identifies the pane currently eligible to receive keyboard input.
// Exactly one Focus value is current at any time.
type Focus int

const (
	// FocusSearch is the search bar at the top of the inbox
	FocusSearch Focus = iota
	// FocusManaged is the list of PDFs already in the managed directory
	FocusManaged
	// FocusUnmanaged is the list of PDFs waiting in the unmanaged directory
	FocusUnmanaged
	// FocusDetail is the detail pane for the selected record
	FocusDetail
	// FocusModal is the import popup
	FocusModal
)

func (f Focus) String() string {
	switch f {
	case FocusSearch:
		return "search"
	case FocusManaged:
		return "managed"
	case FocusUnmanaged:
		return "unmanaged"
	case FocusDetail:
		return "detail"
	case FocusModal:
		return "modal"
	default:
		return "unknown"
	}
}

// IsList reports whether f names one of the two record lists.
func (f Focus) IsList() bool {
	return f == FocusManaged || f == FocusUnmanaged
}
