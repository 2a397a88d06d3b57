package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"jobmate/search-service/internal/model"
	"jobmate/search-service/internal/textutil"
)

const excerptLen = 150

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Addr returns host:port, defaulting the port to 587.
func (c SMTPConfig) Addr() string {
	port := c.Port
	if port == 0 {
		port = 587
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer renders the result page as an HTML e-mail and sends it over SMTP.
type Mailer struct {
	cfg  SMTPConfig
	send sendFunc
	now  func() time.Time
}

// NewMailer returns a Mailer using net/smtp.
func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail, now: time.Now}
}

// Subject is the e-mail subject for a query.
func Subject(q Descriptor) string {
	return fmt.Sprintf("Vagas de %s em %s, %s", q.JobType, q.Location, q.Country)
}

func (m *Mailer) Deliver(ctx context.Context, recipient string, postings []model.JobPosting, q Descriptor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := m.render(postings, q)
	if err != nil {
		return fmt.Errorf("render email: %w", err)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", m.from())
	fmt.Fprintf(&msg, "To: %s\r\n", recipient)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", Subject(q)))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	msg.Write(body)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := m.send(m.cfg.Addr(), auth, m.from(), []string{recipient}, msg.Bytes()); err != nil {
		return fmt.Errorf("smtp send to %s: %w", recipient, err)
	}
	return nil
}

func (m *Mailer) from() string {
	if m.cfg.From != "" {
		return m.cfg.From
	}
	return m.cfg.Username
}

type emailJob struct {
	Title    string
	Company  string
	Location string
	Posted   string
	Excerpt  string
	URL      string
}

type emailData struct {
	Query Descriptor
	Count int
	Jobs  []emailJob
	Year  int
}

func (m *Mailer) render(postings []model.JobPosting, q Descriptor) ([]byte, error) {
	now := m.now()
	data := emailData{Query: q, Count: len(postings), Year: now.Year()}
	for _, p := range postings {
		posted := "data não informada"
		if p.HasPostedAt() {
			posted = humanize.RelTime(p.PostedAt, now, "atrás", "a partir de agora")
		}
		loc := strings.Trim(p.Location+", "+p.Country, ", ")
		data.Jobs = append(data.Jobs, emailJob{
			Title:    p.Title,
			Company:  p.Company,
			Location: loc,
			Posted:   posted,
			Excerpt:  textutil.Truncate(p.Description, excerptLen) + "...",
			URL:      p.URL,
		})
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var emailTemplate = template.Must(template.New("email").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background-color: #4f6ef7; padding: 20px; text-align: center; color: white; border-radius: 8px 8px 0 0;">
    <h1 style="margin: 0;">Vagas Encontradas</h1>
    <p style="margin: 10px 0 0;">Confira as vagas de {{.Query.JobType}} em {{.Query.Location}}, {{.Query.Country}}</p>
  </div>
  <div style="padding: 20px; background-color: #f8fafc; border-radius: 0 0 8px 8px;">
    <p>Olá,</p>
    <p>Encontramos {{.Count}} vagas que correspondem à sua busca. Confira abaixo:</p>
    <div style="margin: 30px 0;">
    {{- range .Jobs}}
      <div style="margin-bottom: 20px; padding: 15px; border: 1px solid #e2e8f0; border-radius: 8px;">
        <h3 style="margin-top: 0; color: #3a4eeb;">{{.Title}}</h3>
        <p style="margin: 5px 0;"><strong>Empresa:</strong> {{.Company}}</p>
        <p style="margin: 5px 0;"><strong>Localização:</strong> {{.Location}}</p>
        <p style="margin: 5px 0;"><strong>Publicada:</strong> {{.Posted}}</p>
        <p style="margin: 10px 0;">{{.Excerpt}}</p>
        <a href="{{.URL}}" style="display: inline-block; background-color: #3a4eeb; color: white; padding: 8px 15px; text-decoration: none; border-radius: 5px;">Ver vaga</a>
      </div>
    {{- end}}
    </div>
    <p>Para realizar novas buscas ou assinar nosso plano Premium, acesse nosso site.</p>
    <p>Atenciosamente,<br>Equipe JobMate</p>
  </div>
  <div style="text-align: center; padding: 15px; font-size: 12px; color: #64748b;">
    <p>© {{.Year}} JobMate. Todos os direitos reservados.</p>
  </div>
</div>
`))
