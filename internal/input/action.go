// internal/input/action.go
package input

// Action represents a command the front end performs on the workspace.
type Action int

// Define the set of possible editor actions.
const (
	// --- Meta Actions ---
	ActionUnknown Action = iota // Default/invalid action
	ActionQuit
	ActionCancel // Cancel the running function, or clear the message line

	// --- History ---
	ActionUndo
	ActionRedo
	ActionUndoSeries
	ActionRewind
	ActionFastForward
	ActionClearRedo
	ActionYankHistory // Copy the history list to the clipboard

	// --- Layers ---
	ActionAddLayer
	ActionDeleteLayer
	ActionDuplicateLayer
	ActionMoveLayerUp
	ActionMoveLayerDown
	ActionMergeLayerDown
	ActionToggleLayerVisibility
	ActionNextLayer
	ActionPreviousLayer

	// --- Selection ---
	ActionSelectAll
	ActionDeselect
	ActionInvertSelection
	ActionSelectCenter // Select the middle half of the image
	ActionFillSelection
	ActionEraseSelection

	// --- Image ---
	ActionFlipHorizontal
	ActionFlipVertical
	ActionFlipLayerHorizontal
	ActionRotateClockwise
	ActionRotateCounterClockwise
	ActionRotate180
	ActionCropToSelection
	ActionFlatten
	ActionResizeHalf
	ActionResizeDouble
	ActionNewImage

	// --- View ---
	ActionToggleHistoryPanel
	ActionEnterCommandMode
)

var actionNames = map[Action]string{
	ActionQuit:                   "quit",
	ActionCancel:                 "cancel",
	ActionUndo:                   "undo",
	ActionRedo:                   "redo",
	ActionUndoSeries:             "undo-series",
	ActionRewind:                 "rewind",
	ActionFastForward:            "fast-forward",
	ActionClearRedo:              "clear-redo",
	ActionYankHistory:            "yank-history",
	ActionAddLayer:               "add-layer",
	ActionDeleteLayer:            "delete-layer",
	ActionDuplicateLayer:         "duplicate-layer",
	ActionMoveLayerUp:            "move-layer-up",
	ActionMoveLayerDown:          "move-layer-down",
	ActionMergeLayerDown:         "merge-layer-down",
	ActionToggleLayerVisibility:  "toggle-layer",
	ActionNextLayer:              "next-layer",
	ActionPreviousLayer:          "previous-layer",
	ActionSelectAll:              "select-all",
	ActionDeselect:               "deselect",
	ActionInvertSelection:        "invert-selection",
	ActionSelectCenter:           "select-center",
	ActionFillSelection:          "fill",
	ActionEraseSelection:         "erase",
	ActionFlipHorizontal:         "flip-horizontal",
	ActionFlipVertical:           "flip-vertical",
	ActionFlipLayerHorizontal:    "flip-layer",
	ActionRotateClockwise:        "rotate-cw",
	ActionRotateCounterClockwise: "rotate-ccw",
	ActionRotate180:              "rotate-180",
	ActionCropToSelection:        "crop",
	ActionFlatten:                "flatten",
	ActionResizeHalf:             "resize-half",
	ActionResizeDouble:           "resize-double",
	ActionNewImage:               "new-image",
	ActionToggleHistoryPanel:     "toggle-history",
	ActionEnterCommandMode:       "command-mode",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ActionEvent represents a decoded input event resulting in an action.
type ActionEvent struct {
	Action Action
	Rune   rune // The key that produced the action, when it was a rune
}
