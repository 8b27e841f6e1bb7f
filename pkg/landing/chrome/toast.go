package chrome

import "time"

// Toast constants. Toasts are independent; there is no queue.
const (
	ToastVisible       = 3 * time.Second
	ToastExit          = 300 * time.Millisecond
	ToastTop           = 100
	ToastRight         = 20
	ToastGradientStart = "#00C2A8"
	ToastGradientEnd   = "#1E9BF0"
	// ToastHeader carries a toast message on download responses.
	ToastHeader = "X-Toast"
)

// Toast is one notification.
type Toast struct {
	Message string `json:"message"`
}

// Lifetime is how long a toast stays in the page, exit animation included.
func (Toast) Lifetime() time.Duration {
	return ToastVisible + ToastExit
}

// ToastConfig is handed to the page script.
type ToastConfig struct {
	VisibleMS int    `json:"visible_ms"`
	ExitMS    int    `json:"exit_ms"`
	Top       int    `json:"top"`
	Right     int    `json:"right"`
	Gradient  string `json:"gradient"`
}

// DefaultToastConfig returns the toast settings.
func DefaultToastConfig() ToastConfig {
	return ToastConfig{
		VisibleMS: int(ToastVisible / time.Millisecond),
		ExitMS:    int(ToastExit / time.Millisecond),
		Top:       ToastTop,
		Right:     ToastRight,
		Gradient:  "linear-gradient(135deg, " + ToastGradientStart + ", " + ToastGradientEnd + ")",
	}
}

// Settings bundles every script constant for the page.
type Settings struct {
	Carousel CarouselConfig `json:"carousel"`
	Reveal   RevealConfig   `json:"reveal"`
	Toast    ToastConfig    `json:"toast"`
}

// NewSettings builds the script settings for a carousel of total slides.
func NewSettings(total int) Settings {
	return Settings{
		Carousel: NewCarousel(total, MobileBreakpoint+1).Config(),
		Reveal:   NewRevealer().Config(),
		Toast:    DefaultToastConfig(),
	}
}
