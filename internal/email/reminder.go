package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/ErlanBelekov/job-tracker/internal/domain"
)

const KindFollowUpReminder = "follow_up_reminder"

const reminderDateLayout = "Jan 2, 2006"

var reminderHTML = htmltemplate.Must(htmltemplate.New("reminder.html").Parse(`<p>Hi {{.UserName}},</p>
<p>You planned to follow up on your application for <strong>{{.Position}}</strong> at <strong>{{.Company}}</strong> on {{.FollowUpDate.Format "` + reminderDateLayout + `"}}.</p>
<p>Current status: {{.Status}}</p>
<p>Good luck!</p>
`))

var reminderText = texttemplate.Must(texttemplate.New("reminder.txt").Parse(`Hi {{.UserName}},

You planned to follow up on your application for {{.Position}} at {{.Company}} on {{.FollowUpDate.Format "` + reminderDateLayout + `"}}.

Current status: {{.Status}}

Good luck!
`))

// ReminderMessage renders the follow-up reminder for one claimed application.
func ReminderMessage(r *domain.FollowUpReminder) (Message, error) {
	var html, text bytes.Buffer
	if err := reminderHTML.Execute(&html, r); err != nil {
		return Message{}, fmt.Errorf("render reminder html: %w", err)
	}
	if err := reminderText.Execute(&text, r); err != nil {
		return Message{}, fmt.Errorf("render reminder text: %w", err)
	}
	return Message{
		To:      r.UserEmail,
		Subject: fmt.Sprintf("Follow up: %s at %s", r.Position, r.Company),
		HTML:    html.String(),
		Text:    text.String(),
		Kind:    KindFollowUpReminder,
		RefID:   r.ApplicationID,
	}, nil
}
