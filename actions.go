package main

// ActionDefinition defines an action with its default keybindings, mouse gestures, and description
type ActionDefinition struct {
	Name         string
	Keys         []string
	MouseActions []string
	Description  string
}

// actionDefinitions contains all action definitions with default keybindings, mouse gestures, and descriptions
var actionDefinitions = []ActionDefinition{
	{"exit", []string{"KeyQ"}, []string{}, "Quit application"},
	{"help", []string{"Shift+Slash"}, []string{}, "Show/hide help"},
	{"info", []string{"KeyI"}, []string{}, "Show/hide product details"},
	{"fullscreen", []string{"KeyF"}, []string{}, "Toggle fullscreen"},

	// Gallery navigation
	{"next", []string{"ArrowRight", "KeyN"}, []string{"WheelDown over image", "Click ›"}, "Next image"},
	{"previous", []string{"ArrowLeft", "KeyP"}, []string{"WheelUp over image", "Click ‹"}, "Previous image"},
	{"jump_first", []string{"Home"}, []string{}, "First image"},
	{"jump_last", []string{"End"}, []string{}, "Last image"},
	{"thumbs_left", []string{"Comma"}, []string{"Drag strip", "Click ◀"}, "Scroll thumbnails left"},
	{"thumbs_right", []string{"Period"}, []string{"Wheel over strip", "Click ▶"}, "Scroll thumbnails right"},

	// Zoom viewer
	{"zoom_open", []string{"KeyZ", "Enter"}, []string{"Click image"}, "Open zoom viewer"},
	{"zoom_in", []string{"Equal", "Shift+Equal"}, []string{"WheelUp in viewer"}, "Zoom in (viewer)"},
	{"zoom_out", []string{"Minus"}, []string{"WheelDown in viewer"}, "Zoom out (viewer)"},

	// Page
	{"page_up", []string{"PageUp"}, []string{}, "Scroll page up"},
	{"page_down", []string{"PageDown"}, []string{"Wheel outside gallery"}, "Scroll page down"},
}

// actionIndex maps action names to their definitions
var actionIndex = func() map[string]ActionDefinition {
	index := make(map[string]ActionDefinition, len(actionDefinitions))
	for _, action := range actionDefinitions {
		index[action.Name] = action
	}
	return index
}()

// keyboardZoomStep is the wheel delta one zoom key press stands for
const keyboardZoomStep = 250.0

// ActionExecutor runs named actions against the InputActions interface
type ActionExecutor struct{}

// NewActionExecutor creates a new ActionExecutor instance
func NewActionExecutor() *ActionExecutor {
	return &ActionExecutor{}
}

// ExecuteAction executes the given action using the InputActions interface
func (ae *ActionExecutor) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	switch action {
	case "exit":
		inputActions.Exit()
	case "help":
		inputActions.ToggleHelp()
	case "info":
		inputActions.ToggleInfo()
	case "fullscreen":
		inputActions.ToggleFullscreen()
	case "next":
		inputActions.NavigateNext()
	case "previous":
		inputActions.NavigatePrevious()
	case "jump_first":
		inputActions.JumpFirst()
	case "jump_last":
		inputActions.JumpLast()
	case "thumbs_left":
		inputActions.ScrollThumbnailsLeft()
	case "thumbs_right":
		inputActions.ScrollThumbnailsRight()
	case "zoom_open":
		if inputState.IsModalOpen() {
			return false
		}
		inputActions.OpenZoom()
	case "zoom_in":
		if !inputState.IsModalOpen() {
			return false
		}
		inputActions.ZoomBy(-keyboardZoomStep)
	case "zoom_out":
		if !inputState.IsModalOpen() {
			return false
		}
		inputActions.ZoomBy(keyboardZoomStep)
	case "page_up":
		inputActions.ScrollPage(-inputState.PageStep())
	case "page_down":
		inputActions.ScrollPage(inputState.PageStep())
	default:
		return false
	}

	return true
}

// globalActionExecutor is the global instance of ActionExecutor used throughout the application
var globalActionExecutor = NewActionExecutor()

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetDefaultKeybindings returns a map of action names to their default keybindings
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keybindings[action.Name] = append([]string(nil), action.Keys...)
	}
	return keybindings
}

// GetMouseGestures returns a map of action names to the mouse gestures that trigger them
func GetMouseGestures() map[string][]string {
	gestures := make(map[string][]string)
	for _, action := range actionDefinitions {
		if len(action.MouseActions) > 0 {
			gestures[action.Name] = action.MouseActions
		}
	}
	return gestures
}
