package service

import (
	"study_buddy_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// MailService 邮件发送，目前只服务于密码重置
type MailService struct {
	cfg config.MailConfig
}

func NewMailService(cfg config.MailConfig) *MailService {
	return &MailService{cfg: cfg}
}

func (s *MailService) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}
