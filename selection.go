package main

// LoadStatus is the load state of the selected image
type LoadStatus int

const (
	LoadLoading LoadStatus = iota
	LoadLoaded
	LoadErrored
)

func (s LoadStatus) String() string {
	switch s {
	case LoadLoading:
		return "loading"
	case LoadLoaded:
		return "loaded"
	case LoadErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// LoadToken identifies one selection. Load completions carry the token they
// were issued for and are dropped once the selection has moved on.
type LoadToken struct {
	Index int
	Gen   uint64
}

// Transition describes one change of the selected index
type Transition struct {
	From    int
	To      int
	Token   LoadToken
	Emitted bool // the new URL was written back to the owner
}

// SelectionController owns the selected index and its load status
type SelectionController struct {
	images []Image
	index  int
	status LoadStatus
	gen    uint64

	onMainImageChange func(url string)
	onTransition      func(t Transition)
}

// NewSelectionController creates a controller that reports internal
// navigation to onMainImageChange
func NewSelectionController(onMainImageChange func(url string)) *SelectionController {
	return &SelectionController{
		status:            LoadErrored,
		onMainImageChange: onMainImageChange,
	}
}

// SetTransitionHook registers fn to run after every index change
func (s *SelectionController) SetTransitionHook(fn func(t Transition)) {
	s.onTransition = fn
}

// Reset replaces the image list. The index resolved from mainURL wins; an
// unknown or empty URL falls back to the first image. Nothing is emitted.
func (s *SelectionController) Reset(images []Image, mainURL string) LoadToken {
	s.images = images
	s.index = 0
	s.gen++

	if len(images) == 0 {
		// Nothing to load, the placeholder is shown
		s.status = LoadErrored
		return s.Token()
	}

	if i, ok := s.find(mainURL); ok {
		s.index = i
	}
	s.status = LoadLoading
	return s.Token()
}

// SelectIndex moves the selection to i and writes the new URL to the owner.
// Selecting the current index is a no-op unless its load failed.
func (s *SelectionController) SelectIndex(i int) bool {
	return s.transition(i, true)
}

// Next selects the following image, wrapping at the end
func (s *SelectionController) Next() bool {
	n := len(s.images)
	if n == 0 {
		return false
	}
	return s.SelectIndex((s.index + 1) % n)
}

// Previous selects the preceding image, wrapping at the start
func (s *SelectionController) Previous() bool {
	n := len(s.images)
	if n == 0 {
		return false
	}
	return s.SelectIndex((s.index - 1 + n) % n)
}

// OnExternalMainImageChange follows an owner-driven URL change without
// writing it back. Unknown URLs fall back to the first image.
func (s *SelectionController) OnExternalMainImageChange(url string) bool {
	if len(s.images) == 0 || url == "" {
		return false
	}

	i, ok := s.find(url)
	if !ok {
		debugLog("Main image %q not in gallery, falling back to first image", url)
		i = 0
	}
	if i == s.index {
		return false
	}
	return s.transition(i, false)
}

// ReportLoadSuccess marks the image behind tok as loaded
func (s *SelectionController) ReportLoadSuccess(tok LoadToken) bool {
	return s.settle(tok, LoadLoaded)
}

// ReportLoadFailure marks the image behind tok as errored. The index stays.
func (s *SelectionController) ReportLoadFailure(tok LoadToken) bool {
	return s.settle(tok, LoadErrored)
}

func (s *SelectionController) settle(tok LoadToken, status LoadStatus) bool {
	if tok != s.Token() || s.status != LoadLoading {
		return false
	}
	s.status = status
	return true
}

func (s *SelectionController) transition(i int, emit bool) bool {
	if i < 0 || i >= len(s.images) {
		return false
	}
	if i == s.index && s.status != LoadErrored {
		return false
	}

	t := Transition{From: s.index, To: i, Emitted: emit}
	s.index = i
	s.status = LoadLoading
	s.gen++
	t.Token = s.Token()

	// State is final before the owner hears about it so a synchronous echo
	// of the same URL resolves to the current index
	if emit && s.onMainImageChange != nil {
		s.onMainImageChange(s.images[i].Src)
	}
	if s.onTransition != nil {
		s.onTransition(t)
	}
	return true
}

func (s *SelectionController) find(url string) (int, bool) {
	if url == "" {
		return 0, false
	}
	for i, img := range s.images {
		if img.Src == url {
			return i, true
		}
	}
	return 0, false
}

// Token returns the token of the current selection
func (s *SelectionController) Token() LoadToken {
	return LoadToken{Index: s.index, Gen: s.gen}
}

func (s *SelectionController) Index() int         { return s.index }
func (s *SelectionController) Status() LoadStatus { return s.status }
func (s *SelectionController) Images() []Image    { return s.images }
func (s *SelectionController) Len() int           { return len(s.images) }

// Current returns the selected image
func (s *SelectionController) Current() (Image, bool) {
	if s.index < 0 || s.index >= len(s.images) {
		return Image{}, false
	}
	return s.images[s.index], true
}

// RenderedSrc is the source the main viewport shows: the selected image, or
// the placeholder when the list is empty or the load failed
func (s *SelectionController) RenderedSrc() string {
	img, ok := s.Current()
	if !ok || s.status == LoadErrored || img.Src == "" {
		return placeholderSrc
	}
	return img.Src
}
