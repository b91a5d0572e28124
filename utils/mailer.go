package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"taskhive/config"
)

type EmailData struct {
	Subject   string
	To        []string
	Template  string
	Data      interface{}
	FromName  string
	FromEmail string
}

// Embedded email templates
var emailTemplates = map[string]string{
	"team_invitation": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .team-name { font-size: 20px; font-weight: bold; color: #3498db; margin: 20px 0; text-align: center; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>Team Invitation</h2>
    </div>

    <div class="content">
        <p>Hello,</p>
        <p>{{.InviterName}} has invited you to join their team:</p>

        <div class="team-name">{{.TeamName}}</div>

        <p>Log in to accept or decline the invitation from your notifications panel.</p>
    </div>

    <div class="footer">
        <p>If you don't recognize this invitation, you can safely ignore this email.</p>
        <p>© {{.Year}} TaskHive. All rights reserved.</p>
    </div>
</body>
</html>`,

	"task_reminder": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .task-title { font-size: 20px; font-weight: bold; color: #e67e22; margin: 20px 0; text-align: center; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>Task Due Soon</h2>
    </div>

    <div class="content">
        <p>Hello {{.Name}},</p>
        <p>A task assigned to you is due {{.DueIn}}:</p>

        <div class="task-title">{{.TaskTitle}}</div>

        <p>Due date: {{.DueDate}}</p>
    </div>

    <div class="footer">
        <p>© {{.Year}} TaskHive. All rights reserved.</p>
    </div>
</body>
</html>`,
}

// SendEmail renders one of the embedded templates and delivers it over
// SMTP. It is a no-op error when SMTP is not configured, so invitation
// and reminder mail stays optional in development.
func SendEmail(data EmailData) error {
	cfg := config.AppConfig
	if cfg.SMTPHost == "" {
		return fmt.Errorf("smtp not configured")
	}

	if data.FromEmail == "" {
		data.FromEmail = cfg.FromEmail
	}
	if data.FromName == "" {
		data.FromName = "TaskHive"
	}

	tmplContent, ok := emailTemplates[data.Template]
	if !ok {
		return fmt.Errorf("template '%s' not found", data.Template)
	}

	tmpl, err := template.New("email").Parse(tmplContent)
	if err != nil {
		return fmt.Errorf("error parsing template: %v", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data.Data); err != nil {
		return fmt.Errorf("error executing template: %v", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", data.FromName, data.FromEmail))
	m.SetHeader("To", data.To...)
	m.SetHeader("Subject", data.Subject)
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	return nil
}

// SendTeamInvitationEmail notifies the invitee about a pending invitation.
func SendTeamInvitationEmail(to, inviterName, teamName string) error {
	return SendEmail(EmailData{
		Subject:  fmt.Sprintf("%s invited you to join %s", inviterName, teamName),
		To:       []string{to},
		Template: "team_invitation",
		Data: map[string]interface{}{
			"Subject":     "Team Invitation",
			"InviterName": inviterName,
			"TeamName":    teamName,
			"Year":        time.Now().Year(),
		},
	})
}

// SendTaskReminderEmail notifies an assignee about an upcoming due date.
func SendTaskReminderEmail(to, name, taskTitle string, dueDate time.Time) error {
	return SendEmail(EmailData{
		Subject:  fmt.Sprintf("Task due soon: %s", taskTitle),
		To:       []string{to},
		Template: "task_reminder",
		Data: map[string]interface{}{
			"Subject":   "Task Due Soon",
			"Name":      name,
			"TaskTitle": taskTitle,
			"DueIn":     "within 24 hours",
			"DueDate":   dueDate.Format("Mon, 02 Jan 2006 15:04"),
			"Year":      time.Now().Year(),
		},
	})
}
