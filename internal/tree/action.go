package tree

import (
	"bytes"

	"github.com/go-git/go-billy/v5/util"
)

// ActionKind classifies a net change to the tree.
type ActionKind int

const (
	ActionCreate ActionKind = iota
	ActionOverwrite
	ActionMkdir
)

func (k ActionKind) String() string {
	switch k {
	case ActionCreate:
		return "CREATE"
	case ActionOverwrite:
		return "UPDATE"
	default:
		return "MKDIR"
	}
}

// Action is one net change relative to the base filesystem.
type Action struct {
	Kind    ActionKind
	Path    string
	Content []byte
}

// Actions returns the net changes in the order paths were first touched.
// Overwrites that leave a file byte-identical to the base are omitted, so a
// generator that re-emits what is already on disk produces no actions.
func (t *Tree) Actions() []Action {
	actions := make([]Action, 0, len(t.records))
	for _, r := range t.records {
		switch r.kind {
		case recordDir:
			if isDir(t.base, r.path) {
				continue
			}
			actions = append(actions, Action{Kind: ActionMkdir, Path: r.path})
		case recordFile:
			content, err := util.ReadFile(t.stage, r.path)
			if err != nil {
				continue
			}
			if content == nil {
				content = []byte{}
			}
			if isFile(t.base, r.path) {
				existing, err := util.ReadFile(t.base, r.path)
				if err == nil && bytes.Equal(existing, content) {
					continue
				}
				actions = append(actions, Action{Kind: ActionOverwrite, Path: r.path, Content: content})
				continue
			}
			actions = append(actions, Action{Kind: ActionCreate, Path: r.path, Content: content})
		}
	}
	return actions
}

// HasChanges reports whether committing would change the base.
func (t *Tree) HasChanges() bool {
	return len(t.Actions()) > 0
}
