package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"tubeshelf/internal/models"
	"tubeshelf/shared/config"
)

const digestTemplate = `<html>
<body style="font-family: sans-serif;">
<h2>{{len .Videos}} new uploads from {{.ChannelCount}} channels</h2>
<ul>
{{- range .Videos}}
<li><a href="{{.URL}}">{{.Title}}</a><br><small>{{.ChannelName}} &middot; {{date .PublishedTime}}</small></li>
{{- end}}
</ul>
</body>
</html>
`

var digestTmpl = template.Must(template.New("digest").Funcs(template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "unknown date"
		}
		return t.Format("Jan 2, 2006")
	},
}).Parse(digestTemplate))

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Sender struct {
	config *config.EmailConfig
	send   sendFunc
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{
		config: cfg,
		send:   smtp.SendMail,
	}
}

// SendDigest mails the digest. Empty digests are not sent.
func (s *Sender) SendDigest(digest *models.Digest) error {
	if digest == nil {
		return fmt.Errorf("digest cannot be nil")
	}

	if len(digest.Videos) == 0 {
		return nil // Nothing new
	}

	subject := fmt.Sprintf("TubeShelf - %d New Videos (%s)",
		len(digest.Videos), digest.Date.Format("Jan 2, 2006"))

	body, err := generateDigestBody(digest)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return s.SendHTML(subject, body)
}

// SendHTML sends an email with custom HTML content
func (s *Sender) SendHTML(subject, htmlBody string) error {
	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPServer)
	}

	to := []string{s.config.ToEmail}
	msg := []byte(fmt.Sprintf(`To: %s
From: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, s.config.ToEmail, s.config.FromEmail, subject, htmlBody))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)
	if err := s.send(addr, auth, s.config.FromEmail, to, msg); err != nil {
		return fmt.Errorf("failed to send email via %s: %w", addr, err)
	}
	return nil
}

func generateDigestBody(digest *models.Digest) (string, error) {
	var buf bytes.Buffer
	if err := digestTmpl.Execute(&buf, digest); err != nil {
		return "", err
	}
	return buf.String(), nil
}
