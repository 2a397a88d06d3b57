package notify

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/search-service/internal/model"
)

var query = Descriptor{Location: "Recife", Country: "Brasil", JobType: "Desenvolvedor Go"}

type captured struct {
	addr string
	auth smtp.Auth
	from string
	to   []string
	msg  string
}

func testMailer(cfg SMTPConfig, out *captured, err error) *Mailer {
	m := NewMailer(cfg)
	m.now = func() time.Time { return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC) }
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		*out = captured{addr: addr, auth: a, from: from, to: to, msg: string(msg)}
		return err
	}
	return m
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "Vagas de Desenvolvedor Go em Recife, Brasil", Subject(query))
}

func TestMailer_Deliver(t *testing.T) {
	var got captured
	m := testMailer(SMTPConfig{Host: "smtp.example.com", Username: "bot@example.com", Password: "x"}, &got, nil)

	postings := []model.JobPosting{{
		Title:       "Go <Engineer>",
		Company:     "Acme",
		Location:    "Recife",
		Country:     "Brasil",
		Description: strings.Repeat("d", 400),
		URL:         "https://jobs.example/1",
		PostedAt:    time.Date(2026, 10, 12, 12, 0, 0, 0, time.UTC),
	}}
	require.NoError(t, m.Deliver(context.Background(), "ana@example.com", postings, query))

	assert.Equal(t, "smtp.example.com:587", got.addr)
	assert.NotNil(t, got.auth)
	assert.Equal(t, "bot@example.com", got.from)
	assert.Equal(t, []string{"ana@example.com"}, got.to)
	assert.Contains(t, got.msg, "To: ana@example.com\r\n")
	assert.Contains(t, got.msg, "Content-Type: text/html")
	assert.Contains(t, got.msg, "Go &lt;Engineer&gt;", "titles are escaped")
	assert.Contains(t, got.msg, strings.Repeat("d", excerptLen)+"...")
	assert.NotContains(t, got.msg, strings.Repeat("d", excerptLen+1))
	assert.Contains(t, got.msg, "3 days atrás")
	assert.Contains(t, got.msg, "Recife, Brasil")
}

func TestMailer_SendError(t *testing.T) {
	var got captured
	m := testMailer(SMTPConfig{Host: "smtp.example.com", Port: 2525, From: "noreply@example.com"}, &got, errors.New("421 busy"))

	err := m.Deliver(context.Background(), "ana@example.com", nil, query)
	assert.ErrorContains(t, err, "421 busy")
	assert.Nil(t, got.auth, "no auth without username")
	assert.Equal(t, "smtp.example.com:2525", got.addr)
	assert.Equal(t, "noreply@example.com", got.from)
}

type recorder struct {
	calls int
	err   error
}

func (r *recorder) Deliver(context.Context, string, []model.JobPosting, Descriptor) error {
	r.calls++
	return r.err
}

func TestMulti_DeliversToAllAndJoinsErrors(t *testing.T) {
	a := &recorder{err: errors.New("a failed")}
	b := &recorder{}
	c := &recorder{err: errors.New("c failed")}

	err := Multi{a, b, c}.Deliver(context.Background(), "x@example.com", nil, query)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, 1, c.calls)
	assert.ErrorContains(t, err, "a failed")
	assert.ErrorContains(t, err, "c failed")

	assert.NoError(t, Multi{b}.Deliver(context.Background(), "x@example.com", nil, query))
}

func TestNewSearchEvent(t *testing.T) {
	ev := newSearchEvent("x@example.com", []model.JobPosting{{ID: "1"}, {ID: "2"}}, query)
	assert.Equal(t, ChannelSearchCompleted, ev.Type)
	assert.Equal(t, 2, ev.JobCount)
	assert.Equal(t, []string{"1", "2"}, ev.JobIDs)
	assert.Equal(t, "Desenvolvedor Go", ev.JobType)
}
