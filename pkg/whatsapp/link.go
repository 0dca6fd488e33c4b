// Package whatsapp builds pre-filled WhatsApp reservation links.
package whatsapp

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"text/template"
)

const (
	DefaultGuests = 2
	DefaultTime   = "7 PM"
	DefaultDate   = "tonight"
	DefaultHost   = "wa.me"
)

// Built-in message templates
const (
	TemplateReservation = "reservation"
	TemplateGreeting    = "greeting"
)

var builtinTemplates = map[string]string{
	TemplateReservation: "Hi, {{if .Name}}my name is {{.Name}}. {{end}}" +
		"I'd like to reserve a table for {{.Guests}} at {{.Time}} {{.Date}}.{{with .Note}} {{.}}{{end}} Thank you!",
	TemplateGreeting: "Hello! I'd like to make a reservation at Riad Ice.",
}

var (
	ErrMissingPhone    = errors.New("whatsapp phone number is not configured")
	ErrInvalidGuests   = errors.New("guest count must be positive")
	ErrUnknownTemplate = errors.New("unknown message template")
)

// Draft is what a visitor filled in before tapping "reserve". Zero values take defaults.
type Draft struct {
	Guests int
	Time   string
	Date   string
	Name   string
	Note   string
}

func (d Draft) withDefaults() Draft {
	if d.Guests == 0 {
		d.Guests = DefaultGuests
	}
	d.Time = strings.TrimSpace(d.Time)
	if d.Time == "" {
		d.Time = DefaultTime
	}
	d.Date = strings.TrimSpace(d.Date)
	if d.Date == "" {
		d.Date = DefaultDate
	}
	d.Name = strings.TrimSpace(d.Name)
	d.Note = strings.TrimSpace(d.Note)
	return d
}

// LoadTemplate returns the named built-in template, or parses text when it is non-empty.
func LoadTemplate(name, text string) (*template.Template, error) {
	if text == "" {
		if name == "" {
			name = TemplateReservation
		}
		builtin, ok := builtinTemplates[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
		}
		text = builtin
	} else if name == "" {
		name = "custom"
	}
	return template.New(name).Option("missingkey=error").Parse(text)
}

// Composer turns drafts into links. It performs no navigation itself.
type Composer struct {
	Host     string
	Phone    string
	Template *template.Template
}

func NewComposer(host, phone string, tmpl *template.Template) (*Composer, error) {
	phone = digitsOnly(phone)
	if phone == "" {
		return nil, ErrMissingPhone
	}
	if host == "" {
		host = DefaultHost
	}
	if tmpl == nil {
		var err error
		if tmpl, err = LoadTemplate(TemplateReservation, ""); err != nil {
			return nil, err
		}
	}
	return &Composer{Host: host, Phone: phone, Template: tmpl}, nil
}

// Message renders the pre-filled text for d.
func (c *Composer) Message(d Draft) (string, error) {
	if d.Guests < 0 {
		return "", ErrInvalidGuests
	}
	var buf bytes.Buffer
	if err := c.Template.Execute(&buf, d.withDefaults()); err != nil {
		return "", fmt.Errorf("render reservation message: %w", err)
	}
	return buf.String(), nil
}

// Compose returns https://<host>/<phone>?text=<escaped message>.
func (c *Composer) Compose(d Draft) (string, error) {
	msg, err := c.Message(d)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s/%s?text=%s", c.Host, c.Phone, escape(msg)), nil
}

// Opener navigates to a composed link
type Opener interface {
	Open(link string) error
}

type OpenerFunc func(link string) error

func (f OpenerFunc) Open(link string) error { return f(link) }

// Open composes the link for d and hands it to o.
func (c *Composer) Open(d Draft, o Opener) (string, error) {
	link, err := c.Compose(d)
	if err != nil {
		return "", err
	}
	return link, o.Open(link)
}

// RedirectOpener answers an HTTP request with a 302 to the link.
type RedirectOpener struct {
	W http.ResponseWriter
	R *http.Request
}

func (o RedirectOpener) Open(link string) error {
	http.Redirect(o.W, o.R, link, http.StatusFound)
	return nil
}

// escape encodes like encodeURIComponent for spaces: wa.me shows a literal "+" otherwise.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
