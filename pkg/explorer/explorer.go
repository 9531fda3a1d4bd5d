// Package explorer provides the file explorer sidebar panel: a flat list of
// workspace files held as surface state, rendered as a collapsible tree.
// Clicking a file loads its content into the document; clicking a directory
// folds or unfolds it.
package explorer

import (
	"margin/pkg/surface"
)

// PanelID is the id the panel registers under; it is also the left-dock
// default panel.
const PanelID = "file-explorer"

// File is one workspace file: a slash-separated relative path and its
// content. The flat list is the source of truth; the tree is derived.
type File struct {
	Name    string
	Content string
}

// State is the explorer's surface slice.
type State struct {
	Files        []File
	SelectedFile string // "" when nothing selected
	ExpandedDirs map[string]bool
	ProjectName  string
}

// SelectFileEffect marks a file as selected. The document change that loads
// its content travels in the same transaction.
type SelectFileEffect struct {
	Name string
}

// UpdateFilesEffect replaces the file list wholesale. The selection resets;
// expanded directories are preserved so a refresh does not collapse the tree.
type UpdateFilesEffect struct {
	Files []File
}

// ToggleDirEffect folds or unfolds one directory path.
type ToggleDirEffect struct {
	Path string
}

// SetProjectNameEffect sets the header shown above the tree.
type SetProjectNameEffect struct {
	Name string
}

var stateField = surface.NewField("explorer",
	func() State {
		return State{ExpandedDirs: map[string]bool{}}
	},
	func(st State, tx surface.Transaction) State {
		for _, e := range tx.Effects {
			switch eff := e.(type) {
			case SelectFileEffect:
				st.SelectedFile = eff.Name
			case UpdateFilesEffect:
				st.Files = eff.Files
				st.SelectedFile = ""
			case ToggleDirEffect:
				expanded := make(map[string]bool, len(st.ExpandedDirs)+1)
				for k, v := range st.ExpandedDirs {
					expanded[k] = v
				}
				if expanded[eff.Path] {
					delete(expanded, eff.Path)
				} else {
					expanded[eff.Path] = true
				}
				st.ExpandedDirs = expanded
			case SetProjectNameEffect:
				st.ProjectName = eff.Name
			}
		}
		return st
	})

// Extension returns the surface fragment installing the explorer slice.
func Extension() surface.Extension {
	return surface.Extension{Fields: []surface.AnyField{stateField}}
}

// GetState reads the current explorer state.
func GetState(sf *surface.Surface) State {
	return surface.Get(sf, stateField)
}

// FindFile returns the file with the given path from the current state.
func FindFile(sf *surface.Surface, name string) (File, bool) {
	for _, f := range GetState(sf).Files {
		if f.Name == name {
			return f, true
		}
	}
	return File{}, false
}

// OpenFile selects a file and swaps the whole document to its content in a
// single transaction, so listeners observe the selection and the text
// atomically. Unknown names are ignored.
func OpenFile(sf *surface.Surface, name string) bool {
	f, ok := FindFile(sf, name)
	if !ok {
		return false
	}
	sf.Dispatch(surface.Transaction{
		Effects: []surface.Effect{SelectFileEffect{Name: name}},
		Changes: &surface.Change{From: 0, To: sf.DocLen(), Insert: f.Content},
	})
	return true
}
