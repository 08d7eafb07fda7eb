package gateway

import (
	"bytes"
	"html/template"
)

type FormField struct {
	Name  string
	Value string
}

// FormSpec describes a provider's auto-submit payment form: the bank-side
// action URL plus its required hidden fields, signature included.
type FormSpec struct {
	Action string
	Fields []FormField
}

// Field values come from callers and transaction rows, so everything is
// rendered through html/template: attribute values get & < > " ' escaped
// and can never break out of the markup.
var redirectFormTmpl = template.Must(template.New("redirect_form").Parse(`<!DOCTYPE html>
<html lang="fa" dir="rtl">
<head>
<meta charset="utf-8">
<title>انتقال به درگاه پرداخت</title>
</head>
<body onload="document.forms[0].submit()">
<form method="post" action="{{.Action}}">
{{- range .Fields}}
<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{- end}}
<noscript>
<p>اسکریپت مرورگر شما غیرفعال است. برای ادامه پرداخت دکمه زیر را فشار دهید.</p>
<button type="submit">ادامه پرداخت</button>
</noscript>
</form>
</body>
</html>
`))

var invalidProviderTmpl = template.Must(template.New("invalid_provider").Parse(`<!DOCTYPE html>
<html lang="fa" dir="rtl">
<head>
<meta charset="utf-8">
<title>درگاه نامعتبر</title>
</head>
<body>
<p>درگاه پرداخت «{{.Provider}}» شناخته شده نیست.</p>
</body>
</html>
`))

func RenderForm(spec FormSpec) (string, error) {
	var buf bytes.Buffer
	if err := redirectFormTmpl.Execute(&buf, spec); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func RenderInvalidProvider(name string) (string, error) {
	var buf bytes.Buffer
	if err := invalidProviderTmpl.Execute(&buf, struct{ Provider string }{Provider: name}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
