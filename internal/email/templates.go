package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

const reminderTimeLayout = "Mon 02 Jan 2006, 15:04 MST"

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
}

type followUpReminderEmailData struct {
	baseEmailData
	LeadName  string
	LeadEmail string
	LeadPhone string
	Method    string
	When      string
	Notes     string
	StaffName string
}

func renderFollowUpReminder(r FollowUpReminder) (string, string, error) {
	when := r.DateTime.Format(reminderTimeLayout)
	method := strings.ToLower(r.Method)
	subject := fmt.Sprintf(subjectFollowUpReminderFmt, method, r.LeadName, when)

	content, err := renderEmailTemplate("follow_up_reminder.html", followUpReminderEmailData{
		baseEmailData: baseEmailData{
			Title:      "Upcoming follow-up",
			Heading:    "Upcoming follow-up",
			Subheading: r.LeadName,
		},
		LeadName:  r.LeadName,
		LeadEmail: r.LeadEmail,
		LeadPhone: r.LeadPhone,
		Method:    method,
		When:      when,
		Notes:     r.Notes,
		StaffName: r.StaffName,
	})
	if err != nil {
		return "", "", err
	}
	return subject, content, nil
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
