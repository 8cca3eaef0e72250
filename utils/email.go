package utils

import (
	"fmt"
	"log"
	"strings"

	"github.com/ch10874/tasteforge-scraper/config"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailEnabled reports whether batch reports can be sent.
func EmailEnabled() bool {
	return config.SendGridAPIKey != "" && config.ReportEmail != ""
}

// SendEmail sends an email using SendGrid
func SendEmail(toName, toEmail, subject, textContent, htmlContent string) error {
	if config.SendGridAPIKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not set in environment variables")
	}

	from := mail.NewEmail("Tasteforge Scraper", "no-reply@tasteforge.no")
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, textContent, htmlContent)
	client := sendgrid.NewSendClient(config.SendGridAPIKey)

	response, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}

	if response.StatusCode >= 400 {
		log.Printf("SendGrid API Error: Status Code %d, Body: %s", response.StatusCode, response.Body)
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	log.Printf("Email sent successfully to %s. Status Code: %d", toEmail, response.StatusCode)
	return nil
}

// BatchReport summarizes one retailer batch.
type BatchReport struct {
	Source      string
	SearchURL   string
	Scraped     int
	Failures    []string
	SnapshotKey string
}

// FormatBatchReport renders the subject and plain-text body of a report.
func FormatBatchReport(r BatchReport) (string, string) {
	subject := fmt.Sprintf("[%s] %d products scraped, %d failed", r.Source, r.Scraped, len(r.Failures))

	var body strings.Builder
	fmt.Fprintf(&body, "Source: %s\nSearch: %s\nScraped: %d\n", r.Source, r.SearchURL, r.Scraped)
	if r.SnapshotKey != "" {
		fmt.Fprintf(&body, "Snapshot: %s\n", r.SnapshotKey)
	}
	if len(r.Failures) > 0 {
		body.WriteString("\nFailures:\n")
		for _, f := range r.Failures {
			fmt.Fprintf(&body, "- %s\n", f)
		}
	}
	return subject, body.String()
}

// SendBatchReport mails the report to REPORT_EMAIL.
func SendBatchReport(r BatchReport) error {
	subject, text := FormatBatchReport(r)
	html := "<pre>" + strings.ReplaceAll(strings.ReplaceAll(text, "&", "&amp;"), "<", "&lt;") + "</pre>"
	return SendEmail("Tasteforge", config.ReportEmail, subject, text, html)
}
