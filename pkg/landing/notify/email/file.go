package email

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
)

// FileSender writes each email to a directory instead of sending it.
// It serves local development.
type FileSender struct {
	dir      string
	from     string
	fromName string
	now      func() time.Time

	mu  sync.Mutex
	seq int
}

// NewFileSender creates dir if needed and returns a sender writing into it
func NewFileSender(dir, from, fromName string) (*FileSender, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create email directory: %w", err)
	}
	return &FileSender{dir: dir, from: from, fromName: fromName, now: time.Now}, nil
}

// Send writes a plain text email
func (s *FileSender) Send(to, subject, body string) error {
	return s.write(to, subject, "text/plain", body)
}

// SendHTML writes the HTML part followed by the text part
func (s *FileSender) SendHTML(to, subject, htmlBody, textBody string) error {
	return s.write(to, subject, "text/html", htmlBody+"\n\n---- text/plain ----\n\n"+textBody)
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func (s *FileSender) write(to, subject, contentType, body string) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	from := s.from
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.from)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: %s; charset=UTF-8\r\n\r\n", from, to, subject, contentType)
	b.WriteString(body)

	name := fmt.Sprintf("%s-%03d-%s.eml", s.now().UTC().Format("20060102T150405"), seq, unsafeFileChars.ReplaceAllString(to, "_"))
	if err := os.WriteFile(filepath.Join(s.dir, name), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write email file: %w", err)
	}
	return nil
}
