package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// Шаблоны писем. Держим инлайн: их мало и они редко меняются.
var templates = map[string]string{
	"verification": `
		<h2>Баталгаажуулалт / Email verification</h2>
		<p>Сайн байна уу, {{.Name}}!</p>
		<p>Бүртгэлээ баталгаажуулахын тулд холбоос дээр дарна уу:</p>
		<p><a href="{{.Link}}">{{.Link}}</a></p>`,
	"application_submitted": `
		<h2>Анкет хүлээн авлаа</h2>
		<p>Сайн байна уу, {{.Name}}!</p>
		<p>Таны {{.VisaType}} визийн анкет хүлээн авагдлаа. Дугаар: {{.ApplicationID}}.</p>
		<p>Шийдвэрийн талаар имэйлээр мэдэгдэнэ.</p>`,
	"status_changed": `
		<h2>Анкетын төлөв өөрчлөгдлөө</h2>
		<p>Сайн байна уу, {{.Name}}!</p>
		<p>Таны анкет {{.ApplicationID}} шинэ төлөвт шилжлээ: <b>{{.Status}}</b>.</p>
		{{if .Note}}<p>Тайлбар: {{.Note}}</p>{{end}}`,
	"payment_received": `
		<h2>Төлбөр баталгаажлаа</h2>
		<p>Сайн байна уу, {{.Name}}!</p>
		<p>Нэхэмжлэх {{.InvoiceID}}-ийн төлбөр ({{.Amount}}₮) амжилттай бүртгэгдлээ.</p>`,
}

// Render рендерит именованный шаблон с данными
func Render(name string, data interface{}) (string, error) {
	src, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template: %s", name)
	}

	tmpl, err := template.New(name).Parse(src)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}
