// notify/mailer.go
package notify

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"
)

// SMTPMailer 每次发送起一个 dialer，流量小没必要持连接
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // 为空时回退 Username
	AppName  string
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	// 未配置 SMTP → 开发模式：打印即可，不报错
	if m.Host == "" || (m.Username == "" && m.From == "") {
		log.Printf("[DEV] mail to %s: %s", to, subject)
		return nil
	}

	fromAddr := m.From
	if fromAddr == "" {
		fromAddr = m.Username
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("%s <%s>", m.AppName, fromAddr))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	return d.DialAndSend(msg)
}
