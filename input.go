package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// wheelLineHeight converts ebiten wheel steps to pixel deltas
const wheelLineHeight = 100.0

// InputHandler handles all keyboard, wheel and pointer input
type InputHandler struct {
	inputActions      InputActions
	inputState        InputState
	keybindingManager *KeybindingManager
	pointer           *PointerTracker
	keyNames          map[ebiten.Key]string
	pressedKeys       []ebiten.Key
}

// NewInputHandler creates a new InputHandler
func NewInputHandler(inputActions InputActions, inputState InputState, keybindingManager *KeybindingManager) *InputHandler {
	keyNames := make(map[ebiten.Key]string)
	for name, key := range getKeyMapping() {
		keyNames[key] = name
	}
	return &InputHandler{
		inputActions:      inputActions,
		inputState:        inputState,
		keybindingManager: keybindingManager,
		pointer:           NewPointerTracker(inputState.GetMouseSettings().DragThreshold),
		keyNames:          keyNames,
	}
}

// HandleInput processes all input for the current frame
// Returns true if any input was processed, false otherwise
func (h *InputHandler) HandleInput() bool {
	inputProcessed := false

	inputProcessed = h.handleKeyListeners() || inputProcessed
	if !inputProcessed {
		inputProcessed = h.handleBoundActions() || inputProcessed
	}
	inputProcessed = h.handleWheel() || inputProcessed
	inputProcessed = h.handlePointer() || inputProcessed

	return inputProcessed
}

// handleKeyListeners offers just-pressed keys to region listeners first
func (h *InputHandler) handleKeyListeners() bool {
	h.pressedKeys = inpututil.AppendJustPressedKeys(h.pressedKeys[:0])
	handled := false
	for _, key := range h.pressedKeys {
		name, ok := h.keyNames[key]
		if !ok {
			continue
		}
		if h.inputActions.Dispatch(InputEvent{Kind: EventKey, Region: RegionWindow, Key: name}) {
			handled = true
		}
	}
	return handled
}

func (h *InputHandler) handleBoundActions() bool {
	inputProcessed := false
	for _, action := range actionDefinitions {
		if h.keybindingManager.ExecuteAction(action.Name, h.inputActions, h.inputState) {
			inputProcessed = true
		}
	}
	return inputProcessed
}

func (h *InputHandler) handleWheel() bool {
	wx, wy := ebiten.Wheel()
	if wx == 0 && wy == 0 {
		return false
	}

	x, y := ebiten.CursorPosition()
	ev := wheelEvent(wx, wy, h.inputState.GetMouseSettings())
	ev.X, ev.Y = float64(x), float64(y)
	ev.Region = h.inputActions.RegionAt(ev.X, ev.Y)

	if h.inputActions.Dispatch(ev) {
		return true
	}
	if h.inputState.IsModalOpen() || h.inputState.IsPageScrollSuppressed() {
		return true
	}
	h.inputActions.ScrollPage(ev.DeltaY)
	return true
}

// wheelEvent converts ebiten wheel offsets to a wheel event in page-scroll
// orientation: positive DeltaY scrolls down
func wheelEvent(wx, wy float64, settings MouseSettings) InputEvent {
	sensitivity := settings.WheelSensitivity
	if sensitivity <= 0 {
		sensitivity = 1
	}
	dx := -wx * wheelLineHeight * sensitivity
	dy := -wy * wheelLineHeight * sensitivity
	if settings.InvertWheel {
		dx, dy = -dx, -dy
	}
	return InputEvent{Kind: EventWheel, DeltaX: dx, DeltaY: dy}
}

func (h *InputHandler) handlePointer() bool {
	x, y := ebiten.CursorPosition()
	w, ht := h.inputState.ScreenSize()
	frame := PointerFrame{
		X:            float64(x),
		Y:            float64(y),
		Inside:       x >= 0 && y >= 0 && (w == 0 || x < w) && (ht == 0 || y < ht),
		JustPressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		JustReleased: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
	}

	events, click, cx, cy := h.pointer.Step(frame, h.inputActions.RegionAt)
	if !h.inputState.GetMouseSettings().EnableDragPan {
		events = withoutDrags(events)
	}
	for _, ev := range events {
		h.inputActions.Dispatch(ev)
	}
	if click {
		h.inputActions.ClickAt(cx, cy)
	}
	return len(events) > 0 || click
}

// withoutDrags drops press and move events so nothing starts dragging
func withoutDrags(events []InputEvent) []InputEvent {
	kept := events[:0]
	for _, ev := range events {
		if ev.Kind != EventPointerDown && ev.Kind != EventPointerMove {
			kept = append(kept, ev)
		}
	}
	return kept
}
