package chrome

import "sync"

// Reveal constants.
const (
	RevealThreshold = 0.1
	RevealSelector  = ".section"
	RevealClass     = "visible"
)

// Revealer records which sections have been revealed. A section becomes
// visible once at least RevealThreshold of it intersects the viewport and
// stays visible from then on.
type Revealer struct {
	mu        sync.Mutex
	threshold float64
	visible   map[string]bool
}

// NewRevealer creates an empty revealer.
func NewRevealer() *Revealer {
	return &Revealer{threshold: RevealThreshold, visible: make(map[string]bool)}
}

// Observe reports an intersection ratio for a section and returns whether it
// is visible afterwards.
func (r *Revealer) Observe(section string, ratio float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ratio >= r.threshold && ratio > 0 {
		r.visible[section] = true
	}
	return r.visible[section]
}

// Visible reports whether a section has been revealed.
func (r *Revealer) Visible(section string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visible[section]
}

// Class returns the class list for a section.
func (r *Revealer) Class(section string) string {
	if r.Visible(section) {
		return "section " + RevealClass
	}
	return "section"
}

// RevealConfig is handed to the page script.
type RevealConfig struct {
	Threshold float64 `json:"threshold"`
	Selector  string  `json:"selector"`
	Class     string  `json:"class"`
}

// Config returns the script settings.
func (r *Revealer) Config() RevealConfig {
	return RevealConfig{Threshold: r.threshold, Selector: RevealSelector, Class: RevealClass}
}
