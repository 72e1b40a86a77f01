package services

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strings"
)

// codeEmail feeds the verification and reset templates. Name may be empty
// for the direct send endpoints, which carry no user context.
type codeEmail struct {
	Name string
	Code string
}

var mailTmpl = template.Must(template.New("mail").Funcs(template.FuncMap{
	"naira": naira,
	"dict":  dict,
}).Parse(mailTemplates))

// dict builds a map from alternating key/value arguments so nested
// templates can take more than one parameter.
func dict(pairs ...interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		out[key] = pairs[i+1]
	}
	return out
}

func renderMail(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := mailTmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("mail template %s: %w", name, err)
	}
	return buf.String(), nil
}

// naira formats an amount the way the storefront shows prices, with
// thousands separators and no decimals for whole values.
func naira(amount float64) string {
	neg := amount < 0
	amount = math.Abs(amount)

	whole := int64(amount)
	frac := amount - float64(whole)

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	out := b.String()
	if frac > 0.004 {
		out += fmt.Sprintf("%.2f", frac)[1:]
	}
	if neg {
		out = "-" + out
	}
	return "₦" + out
}

const mailTemplates = `
{{define "header"}}
<div style="font-family: Arial, sans-serif; max-width:600px; margin:auto; padding:20px; border:1px solid #eee; border-radius:8px;">
  <h2 style="color:#0e7490; text-align:center;">ADEQ Water Solutions</h2>
{{end}}

{{define "footer"}}
  <div style="text-align:center; margin-top:30px; padding-top:20px; border-top:1px solid #eee;">
    <p style="color:#666; font-size:14px;">Thank you for choosing ADEQ Water Solutions</p>
    <p style="color:#999; font-size:12px;">Ilorin, Kwara State, Nigeria</p>
  </div>
</div>
{{end}}

{{define "codebox"}}
<div style="text-align:center; margin:20px 0;">
  <div style="display:inline-block; background:#0e7490; color:white; padding:15px 30px; border-radius:8px; font-size:28px; font-weight:bold; letter-spacing:3px;">{{.}}</div>
</div>
{{end}}

{{define "verification"}}
{{template "header"}}
  <div style="background:#f0f9ff; padding:20px; border-radius:8px; margin:20px 0;">
    <h3 style="color:#0e7490; margin-top:0;">Email Verification</h3>
    {{if .Name}}<p>Hello <strong>{{.Name}}</strong>, thank you for registering with ADEQ Water Solutions!</p>
    {{else}}<p>Thank you for registering with ADEQ Water Solutions!</p>{{end}}
    <p>Your verification code is:</p>
    {{template "codebox" .Code}}
    <p>Enter this code in the verification form to complete your registration.</p>
    <p style="font-size:12px; color:#666; margin-top:20px;">If you didn't request this code, please ignore this email.</p>
  </div>
{{template "footer"}}
{{end}}

{{define "reset"}}
{{template "header"}}
  <div style="background:#f0f9ff; padding:20px; border-radius:8px; margin:20px 0;">
    <h3 style="color:#0e7490; margin-top:0;">Password Reset Request</h3>
    {{if .Name}}<p>Hello <strong>{{.Name}}</strong>,</p>{{end}}
    <p>We received a request to reset your password for your ADEQ Water Solutions account.</p>
    <p>Your password reset code is:</p>
    {{template "codebox" .Code}}
    <p>Enter this code in the password reset form to create a new password.</p>
    <p style="font-size:12px; color:#666; margin-top:20px;">If you didn't request a password reset, please ignore this email.</p>
  </div>
{{template "footer"}}
{{end}}

{{define "row"}}
<tr>
  <td style="padding:10px; border-bottom:1px solid #eee; font-weight:bold;">{{.Label}}:</td>
  <td style="padding:10px; border-bottom:1px solid #eee;">{{.Value}}</td>
</tr>
{{end}}

{{define "items"}}
<tr>
  <td style="padding:10px; border-bottom:1px solid #eee; font-weight:bold;">Items:</td>
  <td style="padding:10px; border-bottom:1px solid #eee;">
    <ul style="margin:0; padding-left:20px;">
      {{range .}}<li><strong>{{.Product}}</strong> - Quantity: {{.Quantity}} - Price: {{naira .LineTotal}}</li>{{end}}
    </ul>
  </td>
</tr>
{{end}}

{{define "equipment_customer"}}
{{template "header"}}
  <div style="background:#f0f9ff; padding:20px; border-radius:8px; margin:20px 0;">
    <h3 style="color:#0e7490; margin-top:0;">Order Confirmed!</h3>
    <p>Hello <strong>{{.Name}}</strong>,</p>
    <p>Thank you for your equipment purchase! Your order has been confirmed.</p>
  </div>

  <h3 style="color:#0e7490;">Order Details:</h3>
  <table style="width:100%; border-collapse:collapse; margin:20px 0;">
    {{template "row" (dict "Label" "Reference Number" "Value" .Reference)}}
    {{template "row" (dict "Label" "Order Type" "Value" "Equipment Purchase")}}
    {{template "items" .OrderDetails}}
    {{template "row" (dict "Label" "Total Amount" "Value" (naira .Amount))}}
    {{template "row" (dict "Label" "Phone" "Value" .Phone)}}
  </table>

  <div style="background:#f0f9ff; padding:15px; border-radius:8px; margin:20px 0;">
    <h4 style="color:#0e7490; margin-top:0;">Next Steps:</h4>
    <p>Your equipment will be prepared for shipping. We will contact you within <strong>24 hours</strong> with shipping details.</p>
    <p>If you have any questions, please contact us at <strong>+234 810 423 7317</strong>.</p>
  </div>
{{template "footer"}}
{{end}}

{{define "booking_customer"}}
{{template "header"}}
  <div style="background:#f0f9ff; padding:20px; border-radius:8px; margin:20px 0;">
    <h3 style="color:#0e7490; margin-top:0;">Booking Confirmed!</h3>
    <p>Hello <strong>{{.Name}}</strong>,</p>
    <p>Thank you for your {{if .HalfPayment}}50% deposit{{else}}full payment{{end}}! Your booking has been confirmed.</p>
  </div>

  <h3 style="color:#0e7490;">Booking Details:</h3>
  <table style="width:100%; border-collapse:collapse; margin:20px 0;">
    {{template "row" (dict "Label" "Reference Number" "Value" .Reference)}}
    {{template "row" (dict "Label" "Service" "Value" .Service)}}
    {{template "row" (dict "Label" "Quantity" "Value" .QuantityOrOne)}}
    {{template "row" (dict "Label" "Payment Type" "Value" .PaymentLabel)}}
    {{template "row" (dict "Label" (printf "Amount %s" .AmountVerb) "Value" (naira .Amount))}}
    {{if .HalfPayment}}{{template "row" (dict "Label" "Remaining Balance" "Value" (naira .Amount))}}{{end}}
    {{template "row" (dict "Label" "Total Amount" "Value" (naira .Total))}}
    {{template "row" (dict "Label" "Phone" "Value" .Phone)}}
    {{template "row" (dict "Label" "Location" "Value" .Location)}}
    {{template "row" (dict "Label" "Preferred Date" "Value" .Date)}}
    {{if .Details}}{{template "row" (dict "Label" "Details" "Value" .Details)}}{{end}}
  </table>

  <div style="background:#f0f9ff; padding:15px; border-radius:8px; margin:20px 0;">
    <h4 style="color:#0e7490; margin-top:0;">Next Steps:</h4>
    <p>Our team will contact you within <strong>24 hours</strong> to confirm your booking details and schedule.</p>
    <p>If you have any questions, please contact us at <strong>+234 810 423 7317</strong>.</p>
  </div>
{{template "footer"}}
{{end}}

{{define "equipment_owner"}}
<div style="font-family: Arial, sans-serif; max-width:600px; margin:auto; padding:20px; border:1px solid #eee; border-radius:8px;">
  <h2 style="color:#dc2626; text-align:center;">NEW EQUIPMENT ORDER</h2>

  <div style="background:#fef2f2; padding:20px; border-radius:8px; margin:20px 0;">
    <h3 style="color:#dc2626; margin-top:0;">Equipment Order Details</h3>
    <table style="width:100%; border-collapse:collapse; margin:20px 0;">
      {{template "row" (dict "Label" "Reference" "Value" .Reference)}}
      {{template "row" (dict "Label" "Customer" "Value" .Name)}}
      {{template "row" (dict "Label" "Email" "Value" .Email)}}
      {{template "row" (dict "Label" "Phone" "Value" .Phone)}}
      {{template "row" (dict "Label" "Order Type" "Value" "Equipment Purchase")}}
      {{template "items" .OrderDetails}}
      {{template "row" (dict "Label" "Total Amount" "Value" (naira .Amount))}}
    </table>
  </div>

  <div style="background:#f0f9ff; padding:15px; border-radius:8px; margin:20px 0;">
    <h4 style="color:#0e7490; margin-top:0;">Action Required:</h4>
    <p>Please prepare the equipment for shipping and contact the customer within 24 hours.</p>
    <p><strong>Customer Phone:</strong> {{.Phone}}</p>
    <p><strong>Customer Email:</strong> {{.Email}}</p>
  </div>
</div>
{{end}}

{{define "booking_owner"}}
<div style="font-family: Arial, sans-serif; max-width:600px; margin:auto; padding:20px; border:1px solid #eee; border-radius:8px;">
  <h2 style="color:#dc2626; text-align:center;">NEW BOOKING: {{.Service}} - {{.Reference}}</h2>

  <div style="background:#fef2f2; padding:20px; border-radius:8px; margin:20px 0;">
    <h3 style="color:#dc2626; margin-top:0;">Customer Booking Details</h3>
    <table style="width:100%; border-collapse:collapse; margin:20px 0;">
      {{template "row" (dict "Label" "Reference" "Value" .Reference)}}
      {{template "row" (dict "Label" "Customer" "Value" .Name)}}
      {{template "row" (dict "Label" "Email" "Value" .Email)}}
      {{template "row" (dict "Label" "Phone" "Value" .Phone)}}
      {{template "row" (dict "Label" "Service" "Value" .Service)}}
      {{template "row" (dict "Label" "Quantity" "Value" .QuantityOrOne)}}
      {{template "row" (dict "Label" "Payment Type" "Value" .PaymentLabel)}}
      {{template "row" (dict "Label" "Amount Received" "Value" (naira .Amount))}}
      {{template "row" (dict "Label" "Total Amount" "Value" (naira .Total))}}
      {{template "row" (dict "Label" "Location" "Value" .Location)}}
      {{template "row" (dict "Label" "Preferred Date" "Value" .Date)}}
      {{if .Details}}{{template "row" (dict "Label" "Details" "Value" .Details)}}{{end}}
    </table>
  </div>

  <div style="background:#f0f9ff; padding:15px; border-radius:8px; margin:20px 0;">
    <h4 style="color:#0e7490; margin-top:0;">Action Required:</h4>
    <p>Please contact the customer within 24 hours to confirm the booking schedule.</p>
    <p><strong>Customer Phone:</strong> {{.Phone}}</p>
    <p><strong>Customer Email:</strong> {{.Email}}</p>
  </div>
</div>
{{end}}
`
