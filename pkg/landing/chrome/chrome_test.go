package chrome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlidesToShow(t *testing.T) {
	assert.Equal(t, 1, SlidesToShow(375))
	assert.Equal(t, 1, SlidesToShow(768))
	assert.Equal(t, 3, SlidesToShow(769))
	assert.Equal(t, 3, SlidesToShow(1440))
}

func TestCarousel_ForwardAdvancesWrapAtPeriod(t *testing.T) {
	tests := []struct {
		name  string
		total int
		width int
	}{
		{"desktop", 10, 1280},
		{"mobile", 10, 375},
		{"short list", 5, 1280},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCarousel(tt.total, tt.width)
			period := tt.total - SlidesToShow(tt.width)
			for n := 1; n <= 3*period; n++ {
				c.Next()
				require.Equal(t, n%period, c.Index(), "after %d advances", n)
			}
		})
	}
}

func TestCarousel_BackFromZero(t *testing.T) {
	c := NewCarousel(10, 1280)
	assert.Equal(t, 6, c.Prev())
	assert.Equal(t, -6*320, c.Offset())
	assert.Equal(t, 5, c.Prev())
	assert.Equal(t, 6, c.Next())
	assert.Equal(t, 0, c.Next())
}

func TestCarousel_NonPositivePeriodPinsToZero(t *testing.T) {
	for _, total := range []int{0, 1, 3} {
		c := NewCarousel(total, 1280)
		assert.Equal(t, 0, c.Next())
		assert.Equal(t, 0, c.Prev())
		assert.Equal(t, 0, c.Goto(7))
		assert.Equal(t, 0, c.Offset())
	}
}

func TestCarousel_ResizeResets(t *testing.T) {
	c := NewCarousel(10, 1280)
	c.Goto(4)
	assert.Equal(t, -1280, c.Offset())

	c.Resize(375)
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, 9, c.Period())
}

func TestCarousel_Goto(t *testing.T) {
	c := NewCarousel(10, 1280)
	assert.Equal(t, 3, c.Goto(3))
	assert.Equal(t, 1, c.Goto(8))
	assert.Equal(t, 6, c.Goto(-1))
}

func TestRevealer_Monotonic(t *testing.T) {
	r := NewRevealer()

	assert.False(t, r.Observe("hero", 0.05))
	assert.Equal(t, "section", r.Class("hero"))
	assert.True(t, r.Observe("hero", 0.1))
	assert.True(t, r.Observe("hero", 0))
	assert.Equal(t, "section visible", r.Class("hero"))
	assert.False(t, r.Visible("form"))

	assert.Equal(t, RevealConfig{Threshold: 0.1, Selector: ".section", Class: "visible"}, r.Config())
}

func TestCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, []string{"portfolio-guide", "sample-certificate"}, c.Names())

	d, ok := c.Lookup("sample-certificate")
	require.True(t, ok)
	assert.Equal(t, "Sample Certificate - SkilledUp.Tech", d.Body)
	assert.Equal(t, `attachment; filename="SkilledUp_Tech_Sample_Certificate.txt"`, d.Disposition())

	d, ok = c.Lookup("portfolio-guide")
	require.True(t, ok)
	assert.Equal(t, "Portfolio Building Guide - SkilledUp.Tech\n\n10 Steps to Build Your Data Science Portfolio", d.Body)

	_, ok = c.Lookup("../etc/passwd")
	assert.False(t, ok)
}

func TestSettings(t *testing.T) {
	s := NewSettings(DefaultSlides)
	assert.Equal(t, 10, s.Carousel.Total)
	assert.Equal(t, 320, s.Carousel.CardWidth)
	assert.Equal(t, 4000, s.Carousel.AutoplayMS)
	assert.Equal(t, 3000, s.Toast.VisibleMS)
	assert.Equal(t, 300, s.Toast.ExitMS)
	assert.Equal(t, "linear-gradient(135deg, #00C2A8, #1E9BF0)", s.Toast.Gradient)
	assert.Equal(t, 3300, int(Toast{}.Lifetime().Milliseconds()))
	assert.Len(t, DefaultTestimonials(), DefaultSlides)
}
