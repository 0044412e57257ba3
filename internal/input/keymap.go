// internal/input/keymap.go
package input

import (
	"github.com/gdamore/tcell/v2"
)

// Keymap maps special keys (Esc, arrows, function keys) to actions.
type Keymap map[tcell.Key]Action

// RuneKeymap maps plain runes to actions.
type RuneKeymap map[rune]Action

// ModKeymap maps keys pressed with a modifier (Ctrl, Alt) to actions.
type ModKeymap map[tcell.ModMask]Keymap

// InputProcessor translates tcell events into ActionEvents.
type InputProcessor struct {
	keymap     Keymap
	runeKeymap RuneKeymap
	modKeymap  ModKeymap
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:     make(Keymap),
		runeKeymap: make(RuneKeymap),
		modKeymap:  make(ModKeymap),
	}
	p.loadDefaultBindings()
	return p
}

// loadDefaultBindings sets up the initial key mappings.
func (p *InputProcessor) loadDefaultBindings() {
	// --- Simple Keys ---
	p.keymap[tcell.KeyEscape] = ActionCancel
	p.keymap[tcell.KeyUp] = ActionPreviousLayer
	p.keymap[tcell.KeyDown] = ActionNextLayer
	p.keymap[tcell.KeyPgUp] = ActionMoveLayerUp
	p.keymap[tcell.KeyPgDn] = ActionMoveLayerDown
	p.keymap[tcell.KeyHome] = ActionRewind
	p.keymap[tcell.KeyEnd] = ActionFastForward
	p.keymap[tcell.KeyDelete] = ActionDeleteLayer
	p.keymap[tcell.KeyTab] = ActionToggleHistoryPanel
	p.keymap[tcell.KeyCtrlC] = ActionQuit

	// --- Ctrl bindings ---
	// tcell reports Ctrl+letter as its own key, usually with ModCtrl set.
	// Ctrl+I, Ctrl+J and Ctrl+M are Tab, LF and Enter, so they stay unbound.
	ctrlMap := make(Keymap)
	ctrlMap[tcell.KeyCtrlZ] = ActionUndo
	ctrlMap[tcell.KeyCtrlY] = ActionRedo
	ctrlMap[tcell.KeyCtrlA] = ActionSelectAll
	ctrlMap[tcell.KeyCtrlD] = ActionDeselect
	ctrlMap[tcell.KeyCtrlE] = ActionMergeLayerDown
	ctrlMap[tcell.KeyCtrlF] = ActionFlatten
	ctrlMap[tcell.KeyCtrlN] = ActionNewImage
	ctrlMap[tcell.KeyCtrlQ] = ActionQuit
	p.modKeymap[tcell.ModCtrl] = ctrlMap

	// --- Rune Mappings ---
	p.runeKeymap['u'] = ActionUndo
	p.runeKeymap['U'] = ActionUndoSeries
	p.runeKeymap['r'] = ActionRedo
	p.runeKeymap['R'] = ActionClearRedo
	p.runeKeymap['y'] = ActionYankHistory
	p.runeKeymap['n'] = ActionAddLayer
	p.runeKeymap['x'] = ActionDeleteLayer
	p.runeKeymap['d'] = ActionDuplicateLayer
	p.runeKeymap['m'] = ActionMergeLayerDown
	p.runeKeymap['v'] = ActionToggleLayerVisibility
	p.runeKeymap['j'] = ActionNextLayer
	p.runeKeymap['k'] = ActionPreviousLayer
	p.runeKeymap['K'] = ActionMoveLayerUp
	p.runeKeymap['J'] = ActionMoveLayerDown
	p.runeKeymap['a'] = ActionSelectAll
	p.runeKeymap['A'] = ActionDeselect
	p.runeKeymap['i'] = ActionInvertSelection
	p.runeKeymap['s'] = ActionSelectCenter
	p.runeKeymap['f'] = ActionFillSelection
	p.runeKeymap['e'] = ActionEraseSelection
	p.runeKeymap['h'] = ActionFlipHorizontal
	p.runeKeymap['V'] = ActionFlipVertical
	p.runeKeymap['H'] = ActionFlipLayerHorizontal
	p.runeKeymap['>'] = ActionRotateClockwise
	p.runeKeymap['<'] = ActionRotateCounterClockwise
	p.runeKeymap['o'] = ActionRotate180
	p.runeKeymap['c'] = ActionCropToSelection
	p.runeKeymap['F'] = ActionFlatten
	p.runeKeymap['-'] = ActionResizeHalf
	p.runeKeymap['+'] = ActionResizeDouble
	p.runeKeymap['N'] = ActionNewImage
	p.runeKeymap['q'] = ActionQuit
	p.runeKeymap[':'] = ActionEnterCommandMode
}

// Bind maps a rune to an action, replacing any previous binding.
func (p *InputProcessor) Bind(r rune, action Action) {
	p.runeKeymap[r] = action
}

// ProcessEvent takes a tcell key event and returns the corresponding ActionEvent.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()
	runeVal := ev.Rune()

	// 1. Modifier + Key combinations
	if modKeyMap, ok := p.modKeymap[mod]; ok {
		if action, ok := modKeyMap[key]; ok {
			return ActionEvent{Action: action}
		}
	}
	// Ctrl+letter keys carry the modifier implicitly.
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		if action, ok := p.modKeymap[tcell.ModCtrl][key]; ok {
			return ActionEvent{Action: action}
		}
		mod &^= tcell.ModCtrl
	}

	// 2. Simple Key mappings
	if mod == tcell.ModNone || mod == tcell.ModShift {
		if action, ok := p.keymap[key]; ok {
			return ActionEvent{Action: action}
		}
	}

	// 3. Rune mappings; Shift is already folded into the rune.
	if key == tcell.KeyRune && (mod == tcell.ModNone || mod == tcell.ModShift) {
		if action, ok := p.runeKeymap[runeVal]; ok {
			return ActionEvent{Action: action, Rune: runeVal}
		}
	}

	// 4. No mapping found
	return ActionEvent{Action: ActionUnknown, Rune: runeVal}
}
