package controller

// Command is an input event for Controller.Dispatch.
type Command interface {
	command()
}

// Click selects an unselected item (replacing the selection) or deselects a selected one.
type Click struct{ ID string }

// ClickOutside clears the selection, as a click outside the list would.
type ClickOutside struct{}

// SelectVisible selects every item that passes the current filter.
type SelectVisible struct{}

// BeginEdit opens an edit session on the single selected item.
type BeginEdit struct{}

// SetDraft replaces the draft text of the active edit session.
type SetDraft struct{ Text string }

type SaveEdit struct{}

type CancelEdit struct{}

// RequestDelete asks for confirmation before deleting the selection.
type RequestDelete struct{}

type ConfirmDelete struct{}

type CancelDelete struct{}

// Add creates a new item. Blank text is ignored.
type Add struct{ Text string }

// Toggle flips the completion flag of an item.
type Toggle struct{ ID string }

// SetFilter replaces the text filter.
type SetFilter struct{ Text string }

// Reload re-reads persisted state (e.g. after another process wrote it).
type Reload struct{}

func (Click) command()         {}
func (ClickOutside) command()  {}
func (SelectVisible) command() {}
func (BeginEdit) command()     {}
func (SetDraft) command()      {}
func (SaveEdit) command()      {}
func (CancelEdit) command()    {}
func (RequestDelete) command() {}
func (ConfirmDelete) command() {}
func (CancelDelete) command()  {}
func (Add) command()           {}
func (Toggle) command()        {}
func (SetFilter) command()     {}
func (Reload) command()        {}
