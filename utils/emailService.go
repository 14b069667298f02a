package utils

import (
	"fmt"
	"lms/config"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail sends an HTML email through SendGrid
func SendEmail(toEmail, toName, subject, htmlBody string) error {
	from := mail.NewEmail(config.AppConfig.EmailName, config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendgridApiKey)
	response, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}

	if response.StatusCode >= 400 {
		log.Printf("Failed to send email to %s, status: %d", toEmail, response.StatusCode)
		return fmt.Errorf("failed to send email, status: %d", response.StatusCode)
	}

	return nil
}

func getEmailTemplate(title, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			.container { font-family: Arial, sans-serif; max-width: 600px; margin: auto; }
			.header { background: #1a237e; color: #fff; padding: 16px; text-align: center; }
			.content { padding: 24px; color: #333; }
			.info-box { background: #f5f5f5; border-left: 4px solid #1a237e; padding: 12px; margin: 16px 0; }
			.footer { font-size: 12px; color: #888; text-align: center; padding: 16px; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LMS</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 LMS. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Signup
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to LMS"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your account has been successfully created. You can now browse the catalog and enroll in courses.</p>
		<p>If you have any questions, feel free to reach out to our support team.</p>
	`, name)

	go SendEmail(email, name, subject, getEmailTemplate("Welcome Onboard!", body))
}

// 2. Quiz passed
func SendQuizPassedEmail(email, name, quizTitle string, percentage float64) {
	subject := "Quiz Passed: " + quizTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations! You passed <strong>%s</strong> with a score of <strong>%.1f%%</strong>.</p>
		<div class="info-box">
			<strong>Next Steps:</strong> Head back to your course to continue with the next lesson.
		</div>
	`, name, quizTitle, percentage)

	go SendEmail(email, name, subject, getEmailTemplate("Quiz Passed", body))
}

// 3. Certificate issued
func SendCertificateIssuedEmail(email, name, courseTitle, certificateNumber string) {
	subject := "Certificate Issued: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your certificate for <strong>%s</strong> has been issued.</p>
		<div class="info-box">
			<strong>Certificate Number:</strong> %s
		</div>
		<p>You can download it from your certificates page.</p>
	`, name, courseTitle, certificateNumber)

	go SendEmail(email, name, subject, getEmailTemplate("Certificate Issued", body))
}

// 4. Certificate request rejected
func SendCertificateRejectedEmail(email, name, courseTitle, reason string) {
	subject := "Certificate Request Update: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your certificate request for <strong>%s</strong> was not approved.</p>
		<div class="info-box">
			<strong>Reason:</strong> %s
		</div>
	`, name, courseTitle, reason)

	go SendEmail(email, name, subject, getEmailTemplate("Certificate Request Update", body))
}
