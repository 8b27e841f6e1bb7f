// Package chrome holds the decorative behavior of the landing page: the
// testimonial carousel, section reveal, simulated downloads and toasts.
// The server renders the no-script fallbacks and hands the constants to the
// page script.
package chrome

import "time"

// Carousel constants.
const (
	DefaultSlides    = 10
	CardWidth        = 320 // 300px card + 20px gap
	MobileBreakpoint = 768
	AutoplayInterval = 4 * time.Second
)

// SlidesToShow is 1 on viewports up to the breakpoint and 3 above it.
func SlidesToShow(viewportWidth int) int {
	if viewportWidth <= MobileBreakpoint {
		return 1
	}
	return 3
}

// Carousel tracks the index of the first visible testimonial. It is not safe
// for concurrent use.
type Carousel struct {
	total int
	show  int
	index int
}

// NewCarousel creates a carousel at index 0.
func NewCarousel(total, viewportWidth int) *Carousel {
	return &Carousel{total: total, show: SlidesToShow(viewportWidth)}
}

// Period is the number of distinct positions the index cycles through.
func (c *Carousel) Period() int {
	return c.total - c.show
}

// Index returns the current index.
func (c *Carousel) Index() int {
	return c.index
}

// Offset is the track translation in pixels.
func (c *Carousel) Offset() int {
	return -c.index * CardWidth
}

// Move advances by direction (+1 forward, -1 back) and returns the new index.
// Forward from the last position wraps to 0; back from 0 wraps to the last.
func (c *Carousel) Move(direction int) int {
	c.index = c.normalize(c.index + direction)
	return c.index
}

// Next advances one slide, as autoplay does.
func (c *Carousel) Next() int { return c.Move(1) }

// Prev goes back one slide.
func (c *Carousel) Prev() int { return c.Move(-1) }

// Goto jumps to i, wrapped into the period.
func (c *Carousel) Goto(i int) int {
	c.index = c.normalize(i)
	return c.index
}

// Resize recomputes the visible count for a new viewport and returns to 0.
func (c *Carousel) Resize(viewportWidth int) {
	c.show = SlidesToShow(viewportWidth)
	c.index = 0
}

func (c *Carousel) normalize(i int) int {
	period := c.Period()
	if period <= 0 {
		return 0
	}
	i %= period
	if i < 0 {
		i += period
	}
	return i
}

// CarouselConfig is handed to the page script.
type CarouselConfig struct {
	Total            int `json:"total"`
	CardWidth        int `json:"card_width"`
	MobileBreakpoint int `json:"mobile_breakpoint"`
	AutoplayMS       int `json:"autoplay_ms"`
}

// Config returns the script settings for this carousel.
func (c *Carousel) Config() CarouselConfig {
	return CarouselConfig{
		Total:            c.total,
		CardWidth:        CardWidth,
		MobileBreakpoint: MobileBreakpoint,
		AutoplayMS:       int(AutoplayInterval / time.Millisecond),
	}
}

// Testimonial is one carousel card.
type Testimonial struct {
	Name  string `yaml:"name" json:"name"`
	Role  string `yaml:"role" json:"role"`
	Quote string `yaml:"quote" json:"quote"`
}

// DefaultTestimonials fills the carousel when none are configured.
func DefaultTestimonials() []Testimonial {
	return []Testimonial{
		{Name: "Priya S.", Role: "Data Analyst, Bengaluru", Quote: "The live projects gave me something real to talk about in every interview."},
		{Name: "Rahul M.", Role: "ML Engineer, Pune", Quote: "Mentors reviewed my code every week. That feedback loop changed how I work."},
		{Name: "Ananya K.", Role: "Business Analyst, Hyderabad", Quote: "I moved from Excel reports to Python dashboards in three months."},
		{Name: "Vikram R.", Role: "Data Scientist, Chennai", Quote: "The portfolio guidance is what finally got recruiters to call back."},
		{Name: "Sneha P.", Role: "Fresher, Mumbai", Quote: "Clear structure, honest feedback and a placement team that follows up."},
		{Name: "Arjun T.", Role: "Analytics Lead, Gurugram", Quote: "I joined to upskill my team and ended up rebuilding our reporting stack."},
		{Name: "Meera N.", Role: "Research Associate, Kochi", Quote: "Statistics finally clicked once I applied it to real datasets."},
		{Name: "Karan J.", Role: "Software Engineer, Noida", Quote: "A smooth switch from backend work into machine learning."},
		{Name: "Divya L.", Role: "Product Analyst, Ahmedabad", Quote: "The SQL and experimentation modules paid for themselves in a month."},
		{Name: "Sameer A.", Role: "Graduate, Jaipur", Quote: "Weekend batches let me learn without quitting my job."},
	}
}
