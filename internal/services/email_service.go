package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"grimoire/internal/models"
)

type EmailService interface {
	SendDailyDigest(mission *models.MissionView, progress models.UserProgress) error
	SendLevelUpEmail(level int) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail, toEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
		to:     toEmail,
	}
}

func (s *emailService) SendDailyDigest(mission *models.MissionView, progress models.UserProgress) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", "Your daily mission is ready")

	list := ""
	for _, task := range mission.Tasks {
		list += fmt.Sprintf("<li><b>%s</b> — %s, +%d XP</li>", task.Title, task.Priority, task.Effort.XP())
	}
	if list == "" {
		list = "<li>Nothing pending. Add some quests to the grimoire!</li>"
	}

	body := fmt.Sprintf(`
		<h2>Daily mission — %s</h2>
		<ul>%s</ul>
		<p>Level %d · %d XP total · streak %d (best %d)</p>
	`, mission.Date.Format("Monday, 02 Jan 2006"), list,
		progress.Level, progress.TotalXP, progress.CurrentStreak, progress.BestStreak)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send daily digest: %w", err)
	}
	return nil
}

func (s *emailService) SendLevelUpEmail(level int) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", fmt.Sprintf("Level %d reached!", level))

	body := fmt.Sprintf(`
		<h2>Congratulations!</h2>
		<p>You just reached level <b>%d</b>. Keep the streak going.</p>
	`, level)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send level-up email: %w", err)
	}
	return nil
}
