package chrome

import (
	"fmt"
	"sort"
)

// Download is a generated text attachment.
type Download struct {
	Name     string
	Filename string
	Body     string
	// ToastKey is the i18n key of the toast shown when it starts.
	ToastKey string
}

// ContentType of every download.
const ContentType = "text/plain; charset=utf-8"

// Disposition is the Content-Disposition header value.
func (d Download) Disposition() string {
	return fmt.Sprintf("attachment; filename=%q", d.Filename)
}

// Catalog maps download names to attachments.
type Catalog map[string]Download

// DefaultCatalog returns the two resource downloads.
func DefaultCatalog() Catalog {
	return Catalog{
		"sample-certificate": {
			Name:     "sample-certificate",
			Filename: "SkilledUp_Tech_Sample_Certificate.txt",
			Body:     "Sample Certificate - SkilledUp.Tech",
			ToastKey: "download.sample_certificate",
		},
		"portfolio-guide": {
			Name:     "portfolio-guide",
			Filename: "Portfolio_Building_Guide.txt",
			Body:     "Portfolio Building Guide - SkilledUp.Tech\n\n10 Steps to Build Your Data Science Portfolio",
			ToastKey: "download.portfolio_guide",
		},
	}
}

// Lookup finds a download by name.
func (c Catalog) Lookup(name string) (Download, bool) {
	d, ok := c[name]
	return d, ok
}

// Names lists the download names in order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
