package utils

import "testing"

func TestNewMailerWithoutHost(t *testing.T) {
	m := NewMailer(SMTPConfig{})
	if _, ok := m.(nopMailer); !ok {
		t.Fatalf("NewMailer returned %T, want nopMailer", m)
	}
	if err := m.SendAssignmentNotice(AssignmentNotice{DoctorEmail: "doc@example.com"}); err != nil {
		t.Errorf("nop mailer returned %v", err)
	}
}

func TestNewMailerDefaults(t *testing.T) {
	m, ok := NewMailer(SMTPConfig{Host: "smtp.example.com", User: "clinic@example.com"}).(*smtpMailer)
	if !ok {
		t.Fatal("expected an smtp mailer")
	}
	if m.config.Port != 587 || m.config.From != "clinic@example.com" {
		t.Errorf("config = %+v", m.config)
	}
	// No doctor e-mail means nothing is dialed.
	if err := m.SendAssignmentNotice(AssignmentNotice{DoctorName: "Dr. Smith"}); err != nil {
		t.Errorf("SendAssignmentNotice: %v", err)
	}
}

func TestBuildAssignmentMessage(t *testing.T) {
	msg := buildAssignmentMessage("clinic@example.com", AssignmentNotice{
		DoctorEmail: "doc@example.com",
		DoctorName:  "Dr. Smith",
		PatientName: "Ada Lovelace",
		TokenID:     "tok_1",
		Symptoms:    []string{"fever", "cough"},
	})

	headers := map[string]string{
		"From":    "clinic@example.com",
		"To":      "doc@example.com",
		"Subject": "New patient assessment assigned",
	}
	for name, want := range headers {
		got := msg.GetHeader(name)
		if len(got) != 1 || got[0] != want {
			t.Errorf("%s = %v, want %q", name, got, want)
		}
	}
}
