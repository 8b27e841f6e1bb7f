package core

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/ideamans/leadgate/pkg/landing/assets"
	"github.com/ideamans/leadgate/pkg/landing/chrome"
	"github.com/ideamans/leadgate/pkg/landing/config"
	"github.com/ideamans/leadgate/pkg/landing/flow"
	"github.com/ideamans/leadgate/pkg/landing/lead"
	"github.com/ideamans/leadgate/pkg/landing/presenter"
	"github.com/ideamans/leadgate/pkg/shared/i18n"
)

// Paths are the URLs the page links to.
type Paths struct {
	CSS    string
	JS     string
	Send   string
	Verify string
	Submit string
	Mobile string
}

// CarouselData positions the server-rendered carousel for ?slide=.
type CarouselData struct {
	Index  int
	Offset int
	Prev   int
	Next   int
}

// DownloadLink is one entry of the resources section.
type DownloadLink struct {
	URL      string
	Filename string
	Label    string
}

// pageSettings is handed to the page script as JSON.
type pageSettings struct {
	chrome.Settings
	OTPLength int `json:"otp_length"`
}

// PageData is everything the landing template reads.
type PageData struct {
	Lang             i18n.Language
	T                func(key string) string
	ServiceName      string
	IconURL          string
	LinkedInURL      string
	RequireAgreement bool
	OTPLength        int

	View            presenter.View
	Lead            lead.Lead
	Agreed          bool
	RedirectSeconds string

	Testimonials []chrome.Testimonial
	Carousel     CarouselData
	Downloads    []DownloadLink
	Paths        Paths
	Settings     pageSettings
}

// Page renders the landing page. It implements presenter.PageRenderer.
type Page struct {
	tmpl         *template.Template
	config       *config.Config
	translator   *i18n.Translator
	downloads    chrome.Catalog
	testimonials []chrome.Testimonial
	settings     pageSettings
	paths        Paths
}

// NewPage parses the landing template.
func NewPage(cfg *config.Config, translator *i18n.Translator, downloads chrome.Catalog) (*Page, error) {
	tmpl, err := template.New("landing").Parse(landingTemplate)
	if err != nil {
		return nil, err
	}

	testimonials := cfg.Page.Testimonials
	if len(testimonials) == 0 {
		testimonials = chrome.DefaultTestimonials()
	}

	version := assetVersion()
	return &Page{
		tmpl:         tmpl,
		config:       cfg,
		translator:   translator,
		downloads:    downloads,
		testimonials: testimonials,
		settings: pageSettings{
			Settings:  chrome.NewSettings(len(testimonials)),
			OTPLength: flow.OTPLength,
		},
		paths: Paths{
			CSS:    "/static/styles.css?v=" + version,
			JS:     "/static/app.js?v=" + version,
			Send:   PathSendOTP,
			Verify: PathVerifyOTP,
			Submit: PathSubmit,
			Mobile: PathMobile,
		},
	}, nil
}

// RenderPage writes the page with v applied. Form values of a plain post
// are written back unless the view clears the form.
func (p *Page) RenderPage(w http.ResponseWriter, r *http.Request, code int, v presenter.View) error {
	data := p.data(r, v)

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return err
	}

	setSecurityHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_, err := w.Write(buf.Bytes())
	return err
}

func (p *Page) data(r *http.Request, v presenter.View) PageData {
	lang := i18n.DetectLanguage(r)
	t := func(key string) string { return p.translator.T(lang, key) }

	data := PageData{
		Lang:             lang,
		T:                t,
		ServiceName:      p.config.Service.Name,
		IconURL:          p.config.Service.IconURL,
		LinkedInURL:      p.config.Page.LinkedInURL,
		RequireAgreement: p.config.Flow.GetRequireAgreement(),
		OTPLength:        flow.OTPLength,
		View:             v,
		Testimonials:     p.testimonials,
		Carousel:         carouselAt(len(p.testimonials), r.URL.Query().Get("slide")),
		Paths:            p.paths,
		Settings:         p.settings,
	}
	if v.Redirect != nil {
		data.RedirectSeconds = strconv.FormatFloat(time.Duration(v.Redirect.AfterMS*int64(time.Millisecond)).Seconds(), 'f', -1, 64)
	}
	if r.Method == http.MethodPost && !v.ClearForm {
		data.Lead = lead.FromForm(r.PostForm)
		data.Agreed = agreed(r)
	}
	for _, name := range p.downloads.Names() {
		d, _ := p.downloads.Lookup(name)
		data.Downloads = append(data.Downloads, DownloadLink{
			URL:      PathDownloads + name,
			Filename: d.Filename,
			Label:    t(downloadLabelKey(name)),
		})
	}
	return data
}

// carouselAt positions a desktop-width carousel at the ?slide= index.
func carouselAt(total int, slide string) CarouselData {
	idx, _ := strconv.Atoi(slide)
	c := chrome.NewCarousel(total, chrome.MobileBreakpoint+1)
	cur := c.Goto(idx)
	data := CarouselData{Index: cur, Offset: c.Offset()}
	data.Prev = c.Prev()
	c.Goto(cur)
	data.Next = c.Next()
	return data
}

func downloadLabelKey(name string) string {
	switch name {
	case "sample-certificate":
		return "page.download_sample"
	case "portfolio-guide":
		return "page.download_guide"
	}
	return name
}

func assetVersion() string {
	sum := sha256.Sum256([]byte(assets.GetEmbeddedCSS() + assets.GetEmbeddedJS()))
	return hex.EncodeToString(sum[:4])
}
