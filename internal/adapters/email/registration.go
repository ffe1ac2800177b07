package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// RegistrationNotice is the content of the organiser email sent after a sign-up.
type RegistrationNotice struct {
	Name      string
	Age       int
	Phone     string
	Succeeded []string
	Failed    []string
}

var registrationTmpl = template.Must(template.New("registration").Parse(`<p>Pendaftaran baru: <strong>{{.Name}}</strong> ({{.Age}} tahun{{if .Phone}}, {{.Phone}}{{end}}).</p>
{{if .Succeeded}}<p>Berhasil terdaftar di:</p>
<ul>{{range .Succeeded}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{if .Failed}}<p>Gagal terdaftar di:</p>
<ul>{{range .Failed}}<li>{{.}}</li>{{end}}</ul>{{end}}`))

// RegistrationRequest renders n into a message for the given recipients.
// PRE: len(to) > 0
func RegistrationRequest(to []string, n RegistrationNotice) (SendRequest, error) {
	var buf bytes.Buffer
	if err := registrationTmpl.Execute(&buf, n); err != nil {
		return SendRequest{}, fmt.Errorf("render registration email: %w", err)
	}
	return SendRequest{
		To:      to,
		Subject: fmt.Sprintf("Pendaftar baru: %s (%s)", n.Name, strings.Join(n.Succeeded, ", ")),
		HTML:    buf.String(),
	}, nil
}

// ParseRecipients splits a comma separated address list, dropping blanks.
func ParseRecipients(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
