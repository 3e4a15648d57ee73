package tui

type modal int

const (
	modalNone modal = iota
	modalAdd
	modalFilter
	modalEdit
	modalConfirmDelete
	modalHelp
)

type flashDoneMsg struct{ seq int }

type copyDoneMsg struct {
	n   int
	err error
}
