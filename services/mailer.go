package services

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/utils"
	"gopkg.in/gomail.v2"
)

type Mail struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(m Mail) error
}

// SMTPMailer delivers mail through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{dialer: gomail.NewDialer(host, port, user, pass), from: from}
}

func (m *SMTPMailer) Send(mail Mail) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", mail.To)
	msg.SetHeader("Subject", mail.Subject)
	msg.SetBody("text/html", mail.HTML)
	return m.dialer.DialAndSend(msg)
}

// LogMailer only logs, used when SMTP is not configured.
type LogMailer struct{}

func (LogMailer) Send(mail Mail) error {
	utils.InfoLogger.WithField("to", mail.To).Infof("mail not sent (smtp disabled): %s", mail.Subject)
	return nil
}

var (
	approvedTmpl = template.Must(template.New("approved").Parse(
		`<p>Dear {{.FullName}},</p>
<p>Your hostel registration for block <b>{{.HostelBlock}}</b>, room <b>{{.RoomNO}}</b> has been approved.</p>
<p>You can now log in with your student ID <b>{{.StudentID}}</b>.</p>`))
	rejectedTmpl = template.Must(template.New("rejected").Parse(
		`<p>Dear {{.FullName}},</p>
<p>Your hostel registration for block <b>{{.HostelBlock}}</b> was rejected.</p>
<p>Reason: {{.Reason}}</p>`))
)

// Notifier sends registration outcome mails off the request path. Delivery
// failures are logged and never surface to the caller.
type Notifier struct {
	mailer Mailer
	wg     sync.WaitGroup
}

func NewNotifier(m Mailer) *Notifier {
	if m == nil {
		m = LogMailer{}
	}
	return &Notifier{mailer: m}
}

func (n *Notifier) RegistrationApproved(req models.RegistrationRequest) {
	n.dispatch(req.CollegeEmail, "Hostel registration approved", approvedTmpl, req)
}

func (n *Notifier) RegistrationRejected(req models.RegistrationRequest) {
	reason := ""
	if req.RejectionReason != nil {
		reason = *req.RejectionReason
	}
	data := struct {
		models.RegistrationRequest
		Reason string
	}{req, reason}
	n.dispatch(req.CollegeEmail, "Hostel registration rejected", rejectedTmpl, data)
}

// Wait blocks until every dispatched mail has been attempted.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) dispatch(to, subject string, tmpl *template.Template, data interface{}) {
	if n == nil {
		return
	}
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		utils.ErrorLogger.Errorf("render %s mail: %v", tmpl.Name(), err)
		return
	}
	mail := Mail{To: to, Subject: subject, HTML: body.String()}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.mailer.Send(mail); err != nil {
			utils.ErrorLogger.WithField("to", to).Errorf("send %s mail: %v", tmpl.Name(), err)
		}
	}()
}
