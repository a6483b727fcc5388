// Package eml extracts text and attachments from RFC 822 email
// messages.
package eml

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"os"
	"path/filepath"
	"strings"

	"github.com/dspeziale/docsearch/internal/core/ports/driven"
	"github.com/dspeziale/docsearch/internal/normalisers/html"
)

// Ensure Extractor implements both interfaces.
var (
	_ driven.Extractor           = (*Extractor)(nil)
	_ driven.AttachmentExtractor = (*Extractor)(nil)
)

// Extractor handles email message documents.
type Extractor struct{}

// New creates a new email extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".eml"}
}

// Extract renders the sender/recipients/subject/date header block,
// the body text (an HTML body stripped to text is preferred over the
// plain-text body), and a name-only attachment manifest.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open eml: %w", err)
	}
	defer f.Close()

	msg, err := ReadMessage(f)
	if err != nil {
		return "", err
	}
	return msg.Text(), nil
}

// ExtractAttachments writes every attachment payload under destDir.
// Payload extraction is opt-in; plain Extract only records names.
func (e *Extractor) ExtractAttachments(_ context.Context, path, destDir string) ([]driven.SavedAttachment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open eml: %w", err)
	}
	defer f.Close()

	msg, err := ReadMessage(f)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create attachment dir: %w", err)
	}

	var saved []driven.SavedAttachment
	for _, att := range msg.Attachments {
		name := filepath.Base(att.Filename)
		if name == "" || name == "." {
			continue
		}
		dest := filepath.Join(destDir, name)
		if err := os.WriteFile(dest, att.Content, 0o644); err != nil {
			return nil, fmt.Errorf("write attachment %s: %w", name, err)
		}
		saved = append(saved, driven.SavedAttachment{Filename: name, Path: dest})
	}
	return saved, nil
}

// Attachment is one attachment carried by a message.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is a parsed email message.
type Message struct {
	From    string
	To      string
	Cc      string
	Subject string
	Date    string

	// Body is the message text: the HTML body stripped to text when
	// present, the plain-text body otherwise.
	Body string

	Attachments []Attachment
}

// Text renders the message as indexable content: a header block, the
// body, and an attachment name manifest.
func (m *Message) Text() string {
	var b strings.Builder
	writeHeader := func(label, value string) {
		if value != "" {
			b.WriteString(label)
			b.WriteString(": ")
			b.WriteString(value)
			b.WriteString("\n")
		}
	}
	writeHeader("From", m.From)
	writeHeader("To", m.To)
	writeHeader("Cc", m.Cc)
	writeHeader("Date", m.Date)
	writeHeader("Subject", m.Subject)
	b.WriteString("\n")
	b.WriteString(m.Body)

	if len(m.Attachments) > 0 {
		names := make([]string, len(m.Attachments))
		for i, att := range m.Attachments {
			names[i] = att.Filename
		}
		b.WriteString("\n\nAttachments: ")
		b.WriteString(strings.Join(names, ", "))
	}
	return strings.TrimSpace(b.String())
}

// ReadMessage parses a message from r. It is shared with the mail
// archive extractor.
func ReadMessage(r io.Reader) (*Message, error) {
	msg, err := mail.ReadMessage(r)
	if err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}

	m := &Message{
		From:    decodeHeader(msg.Header.Get("From")),
		To:      decodeHeader(msg.Header.Get("To")),
		Cc:      decodeHeader(msg.Header.Get("Cc")),
		Subject: decodeHeader(msg.Header.Get("Subject")),
		Date:    msg.Header.Get("Date"),
	}

	body := bodyAccumulator{}
	if err := walkBody(msg.Body, msg.Header.Get("Content-Type"), msg.Header.Get("Content-Transfer-Encoding"), &body); err != nil {
		return nil, err
	}

	// Prefer the HTML body, stripped to text, over plain text.
	switch {
	case len(body.htmlParts) > 0:
		m.Body = html.StripTags(strings.Join(body.htmlParts, "\n"))
	default:
		m.Body = strings.TrimSpace(strings.Join(body.textParts, "\n"))
	}
	m.Attachments = body.attachments

	return m, nil
}

// bodyAccumulator collects parts while walking a MIME tree.
type bodyAccumulator struct {
	textParts   []string
	htmlParts   []string
	attachments []Attachment
}

// walkBody descends into (possibly nested) multipart content and
// buckets each leaf part as text, HTML, or attachment.
func walkBody(r io.Reader, contentType, transferEncoding string, acc *bodyAccumulator) error {
	if contentType == "" {
		contentType = "text/plain"
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Unparseable content type: best effort as plain text.
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return nil
		}
		mr := multipart.NewReader(r, boundary)
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				break
			}

			disposition := part.Header.Get("Content-Disposition")
			filename := partFilename(part.Header.Get("Content-Type"), disposition)
			if filename != "" || strings.HasPrefix(disposition, "attachment") {
				content, readErr := io.ReadAll(decodeBody(part, part.Header.Get("Content-Transfer-Encoding")))
				part.Close()
				if readErr != nil {
					continue
				}
				if filename == "" {
					filename = "attachment"
				}
				acc.attachments = append(acc.attachments, Attachment{Filename: filename, Content: content})
				continue
			}

			walkErr := walkBody(part, part.Header.Get("Content-Type"), part.Header.Get("Content-Transfer-Encoding"), acc)
			part.Close()
			if walkErr != nil {
				continue
			}
		}
		return nil
	}

	content, err := io.ReadAll(decodeBody(nopReader{r}, transferEncoding))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	text := strings.ToValidUTF8(string(content), "")

	if mediaType == "text/html" {
		acc.htmlParts = append(acc.htmlParts, text)
	} else {
		acc.textParts = append(acc.textParts, text)
	}
	return nil
}

// decodeBody undoes the content transfer encoding of a part.
func decodeBody(r io.Reader, encoding string) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, newWhitespaceStripper(r))
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}

// partFilename pulls an attachment filename from the disposition or
// content type parameters.
func partFilename(contentType, disposition string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := params["filename"]; name != "" {
				return decodeHeader(name)
			}
		}
	}
	if contentType != "" {
		if _, params, err := mime.ParseMediaType(contentType); err == nil {
			if name := params["name"]; name != "" {
				return decodeHeader(name)
			}
		}
	}
	return ""
}

// decodeHeader decodes RFC 2047 encoded headers.
func decodeHeader(header string) string {
	if header == "" {
		return ""
	}
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(header)
	if err != nil {
		return header // Return original if decoding fails
	}
	return decoded
}

// nopReader hides the concrete type so decodeBody treats top-level
// bodies and multipart parts the same way.
type nopReader struct{ io.Reader }

// whitespaceStripper drops line breaks inside base64 bodies, which
// the stdlib decoder rejects mid-stream.
type whitespaceStripper struct {
	r io.Reader
}

func newWhitespaceStripper(r io.Reader) io.Reader {
	return &whitespaceStripper{r: r}
}

func (w *whitespaceStripper) Read(p []byte) (int, error) {
	buf := make([]byte, len(p))
	// Loop until something non-whitespace arrives; a long whitespace
	// run must not grow the stack.
	for {
		n, err := w.r.Read(buf)
		out := 0
		for _, b := range buf[:n] {
			if b == '\n' || b == '\r' || b == ' ' || b == '\t' {
				continue
			}
			p[out] = b
			out++
		}
		if out == 0 && err == nil && n > 0 {
			continue
		}
		return out, err
	}
}
