package mailer

// Service sends a single email. Implementations: MailerSend (production),
// SMTP (staging / Mailpit), Dev (log only). Send returns the provider
// message id when the provider reports one.
type Service interface {
	Send(toEmail, toName, subject, text, html string) (string, error)
}
