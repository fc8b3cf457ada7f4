// Package sender содержит логику воркера уведомлений: разбор сообщений
// из очереди и отправку писем владельцам аккаунтов.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tradebio/profile-hub/internal/lib/sl"
	smtplib "github.com/tradebio/profile-hub/internal/lib/smtp"
	"github.com/tradebio/profile-hub/internal/models"
)

// Transport описывает SMTP транспорт воркера.
type Transport interface {
	Connect() (smtplib.Client, error)
	GetSMTPUser() string
}

// SenderService отправляет биллинговые уведомления по почте.
type SenderService struct {
	transport Transport
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport Transport) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// HandleBillingNotice разбирает сообщение очереди и отправляет письмо.
// Используется как обработчик потребителя RabbitMQ.
func (s *SenderService) HandleBillingNotice(body []byte) error {
	var notice models.BillingNotice
	if err := json.Unmarshal(body, &notice); err != nil {
		s.log.Error("failed to unmarshal billing notice", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	var subject, text string
	switch notice.Kind {
	case models.NoticeCancelled:
		subject = "Your subscription has been cancelled"
		text = fmt.Sprintf("Hello, %s!\n\n"+
			"Your subscription has been cancelled. Your public page /%s will stay online "+
			"until the end of your trial window and will then be suspended.\n\n"+
			"You can re-subscribe from your dashboard at any time.",
			notice.Username, notice.Slug)
	case models.NoticePaymentFailed:
		subject = "Payment failed"
		text = fmt.Sprintf("Hello, %s!\n\n"+
			"The latest payment for your subscription was declined or refunded. "+
			"Please update your payment details, otherwise your public page /%s may be suspended.",
			notice.Username, notice.Slug)
	default:
		// Неизвестный вид уведомления: подтверждаем и пропускаем,
		// чтобы сообщение не зациклилось в очереди.
		s.log.Warn("unknown billing notice kind", slog.String("kind", notice.Kind))
		return nil
	}

	if err := s.sendEmail([]string{notice.Email}, subject, text); err != nil {
		return err
	}
	s.log.Info("billing notice sent",
		slog.String("kind", notice.Kind),
		slog.String("email", notice.Email))
	return nil
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	client, err := s.transport.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to smtp: %w", err)
	}
	defer func() {
		if quitErr := client.Quit(); quitErr != nil {
			s.log.Warn("failed to quit smtp session", sl.Err(quitErr))
		}
	}()

	from := s.transport.GetSMTPUser()
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		from, strings.Join(to, ", "), subject, bodyText)
	if _, err := wc.Write([]byte(msg)); err != nil {
		_ = wc.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
