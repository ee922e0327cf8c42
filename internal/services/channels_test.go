package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeMailer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeMailer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func TestEmailNotifier(t *testing.T) {
	mailer := &fakeMailer{}
	n := NewEmailNotifierWithSender(mailer, "crm@leadforge.io", []string{"sales@leadforge.io", "ops@leadforge.io"})

	err := n.Notify(context.Background(), Notification{Event: EventLeadConverted, Title: "Lead converted", Description: "Jane <Acme>"})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, []string{"crm@leadforge.io"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"sales@leadforge.io", "ops@leadforge.io"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"LeadForge: Lead converted"}, msg.GetHeader("Subject"))

	mailer.err = errors.New("dial tcp: refused")
	err = n.Notify(context.Background(), Notification{Title: "x"})
	assert.ErrorContains(t, err, "refused")
}

func TestEmailNotifierWithoutRecipientsIsNoop(t *testing.T) {
	mailer := &fakeMailer{}
	n := NewEmailNotifierWithSender(mailer, "crm@leadforge.io", nil)
	require.NoError(t, n.Notify(context.Background(), Notification{Title: "x"}))
	assert.Empty(t, mailer.sent)
}

func TestTelegramNotifierPostsToBotAPI(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		form = map[string]string{
			"chat_id":    r.PostForm.Get("chat_id"),
			"text":       r.PostForm.Get("text"),
			"parse_mode": r.PostForm.Get("parse_mode"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`))
	}))
	defer srv.Close()

	bot := NewTelegramBot("TOKEN", srv.URL+"/bot%s/%s")
	n := NewTelegramNotifier(bot, 42)

	err := n.Notify(context.Background(), Notification{Title: "Lead converted", Description: "Jane & Co"})
	require.NoError(t, err)
	assert.Equal(t, "42", form["chat_id"])
	assert.Equal(t, "HTML", form["parse_mode"])
	assert.Equal(t, "<b>Lead converted</b>\nJane &amp; Co", form["text"])
}

func TestTelegramNotifierReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier(NewTelegramBot("TOKEN", srv.URL+"/bot%s/%s"), 42)
	err := n.Notify(context.Background(), Notification{Title: "x"})
	assert.ErrorContains(t, err, "chat not found")
}

func TestTelegramNotifierWithoutChatIsNoop(t *testing.T) {
	n := NewTelegramNotifier(nil, 0)
	assert.NoError(t, n.Notify(context.Background(), Notification{Title: "x"}))
}
