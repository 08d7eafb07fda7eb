package v1

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/parsedu/payment-service/internal/service"
)

// The result page is the terminal URL of every payment attempt. On success it
// auto-redirects the customer back to the application home after a short delay.
var resultTmpl = template.Must(template.New("payment_result").Parse(`<!DOCTYPE html>
<html lang="fa" dir="rtl">
<head>
<meta charset="utf-8">
{{- if .Success}}
<meta http-equiv="refresh" content="5;url={{.HomeURL}}">
{{- end}}
<title>نتیجه پرداخت</title>
</head>
<body>
{{- if .Success}}
<h1>پرداخت با موفقیت انجام شد</h1>
<p>اشتراک شما فعال شد. تا لحظاتی دیگر به صفحه اصلی منتقل می‌شوید.</p>
{{- else}}
<h1>پرداخت ناموفق بود</h1>
{{- end}}
{{- if .Message}}
<p>{{.Message}}</p>
{{- end}}
{{- if .OrderID}}
<p>شماره سفارش: {{.OrderID}}</p>
{{- end}}
<p><a href="{{.HomeURL}}">بازگشت به صفحه اصلی</a></p>
</body>
</html>
`))

type resultView struct {
	Success bool
	Message string
	OrderID string
	HomeURL string
}

func (h *Handler) ResultPage(c *fiber.Ctx) error {
	view := resultView{
		Success: c.Query("status") == service.VerifyStatusSuccess,
		Message: c.Query("message"),
		OrderID: c.Query("order_id"),
		HomeURL: h.cfg.Payment.HomeURL,
	}

	var buf bytes.Buffer
	if err := resultTmpl.Execute(&buf, view); err != nil {
		return err
	}

	c.Type("html", "utf-8")
	return c.SendString(buf.String())
}
