package pkg

import (
	"crypto/tls"
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

func SendEmail(cfg SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return d.DialAndSend(m)
}

// NoticeHTML renders a short notice: a greeting, a headline and label/value rows in the given order.
func NoticeHTML(name, headline string, rows [][2]string) string {
	var b strings.Builder
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "<p>Hi %s,</p><p><b>%s</b></p>", html.EscapeString(name), html.EscapeString(headline))
	if len(rows) > 0 {
		b.WriteString("<table>")
		for _, r := range rows {
			fmt.Fprintf(&b, "<tr><td>%s</td><td><b>%s</b></td></tr>", html.EscapeString(r[0]), html.EscapeString(r[1]))
		}
		b.WriteString("</table>")
	}
	b.WriteString("<p>ClubSphere</p>")
	return b.String()
}
