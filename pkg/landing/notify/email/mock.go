package email

import "sync"

// MockSender is a mock email sender for testing
type MockSender struct {
	SendFunc     func(to, subject, body string) error
	SendHTMLFunc func(to, subject, htmlBody, textBody string) error

	mu        sync.Mutex
	calls     []SendCall
	htmlCalls []SendHTMLCall
}

// SendCall represents a call to Send
type SendCall struct {
	To      string
	Subject string
	Body    string
}

// SendHTMLCall represents a call to SendHTML
type SendHTMLCall struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Send records the call and optionally executes a custom function
func (m *MockSender) Send(to, subject, body string) error {
	m.mu.Lock()
	m.calls = append(m.calls, SendCall{To: to, Subject: subject, Body: body})
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(to, subject, body)
	}
	return nil
}

// SendHTML records the call and optionally executes a custom function
func (m *MockSender) SendHTML(to, subject, htmlBody, textBody string) error {
	m.mu.Lock()
	m.htmlCalls = append(m.htmlCalls, SendHTMLCall{To: to, Subject: subject, HTMLBody: htmlBody, TextBody: textBody})
	m.mu.Unlock()

	if m.SendHTMLFunc != nil {
		return m.SendHTMLFunc(to, subject, htmlBody, textBody)
	}
	return nil
}

// Calls returns the recorded Send calls
func (m *MockSender) Calls() []SendCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SendCall(nil), m.calls...)
}

// HTMLCalls returns the recorded SendHTML calls
func (m *MockSender) HTMLCalls() []SendHTMLCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SendHTMLCall(nil), m.htmlCalls...)
}
