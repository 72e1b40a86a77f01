package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/adeqintegrated/adeqsite/app/jobs"
	"github.com/adeqintegrated/adeqsite/config"
	"github.com/adeqintegrated/adeqsite/pkg/collection"
	"github.com/adeqintegrated/adeqsite/pkg/logger"
	"github.com/adeqintegrated/adeqsite/pkg/notification"
	"github.com/adeqintegrated/adeqsite/pkg/queue"
)

const (
	subjectVerification = "Verify Your Email Address - ADEQ Water Solutions"
	subjectReset        = "Password Reset Request - ADEQ Water Solutions"
)

// OrderItem is one line of an equipment purchase.
type OrderItem struct {
	Product  string  `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// LineTotal is the item price times quantity.
func (i OrderItem) LineTotal() float64 { return i.Price * float64(i.Quantity) }

// Order is the payload of a paid booking or equipment purchase, posted by
// the storefront after the payment gateway confirms.
type Order struct {
	Reference    string      `json:"reference"`
	Name         string      `json:"name"`
	Email        string      `json:"email" validate:"required,email"`
	Phone        string      `json:"phone"`
	Service      string      `json:"service" validate:"required"`
	Amount       float64     `json:"amount"`
	Quantity     int         `json:"quantity"`
	PaymentType  string      `json:"paymentType"`
	Location     string      `json:"location"`
	Date         string      `json:"date"`
	Details      string      `json:"details"`
	OrderDetails []OrderItem `json:"orderDetails"`
}

// IsEquipment reports whether the order is an equipment purchase rather
// than a survey booking.
func (o Order) IsEquipment() bool {
	return o.Service == "Equipment Purchase" && len(o.OrderDetails) > 0
}

// ItemsTotal sums the line totals of an equipment order.
func (o Order) ItemsTotal() float64 {
	return collection.SumBy(o.OrderDetails, OrderItem.LineTotal)
}

// HalfPayment reports whether the customer paid a 50% deposit.
func (o Order) HalfPayment() bool { return o.PaymentType == "half" }

// Total is the full order value: double the amount for half payments.
func (o Order) Total() float64 {
	if o.HalfPayment() {
		return o.Amount * 2
	}
	return o.Amount
}

// QuantityOrOne defaults a missing quantity to 1 for display.
func (o Order) QuantityOrOne() int {
	if o.Quantity <= 0 {
		return 1
	}
	return o.Quantity
}

// PaymentLabel is the human-readable payment type.
func (o Order) PaymentLabel() string {
	if o.HalfPayment() {
		return "50% Deposit"
	}
	return "Full Payment"
}

// AmountVerb qualifies the amount row label: deposited vs paid.
func (o Order) AmountVerb() string {
	if o.HalfPayment() {
		return "Deposited"
	}
	return "Paid"
}

// Mailer sends the site's transactional email. The production
// implementation renders templates and hands delivery to the job queue;
// tests substitute a recorder.
type Mailer interface {
	SendVerification(email, firstName, code string) error
	SendPasswordReset(email, firstName, code string) error
	SendReceipt(order Order) error
}

type queueMailer struct {
	owner   string
	webhook string
}

// NewMailer builds the queue-backed mailer from config.
func NewMailer() Mailer {
	return &queueMailer{
		owner:   config.OwnerEmail(),
		webhook: config.Get("ALERT_WEBHOOK", ""),
	}
}

func (m *queueMailer) SendVerification(email, firstName, code string) error {
	body, err := renderMail("verification", codeEmail{Name: firstName, Code: code})
	if err != nil {
		return err
	}
	return queue.Dispatch(jobs.MailJob{
		To: email, Subject: subjectVerification, Body: body,
		Kind: jobs.MailKindVerification,
	})
}

func (m *queueMailer) SendPasswordReset(email, firstName, code string) error {
	body, err := renderMail("reset", codeEmail{Name: firstName, Code: code})
	if err != nil {
		return err
	}
	return queue.Dispatch(jobs.MailJob{
		To: email, Subject: subjectReset, Body: body,
		Kind: jobs.MailKindReset,
	})
}

// SendReceipt queues the customer receipt and the owner alert for a paid
// order. Delivery failures stay in the queue's failed list, they never
// surface to the paying customer.
func (m *queueMailer) SendReceipt(order Order) error {
	if order.Reference == "" {
		order.Reference = "ADEQ-" + strings.ToUpper(uuid.NewString()[:8])
	}

	customerTmpl, ownerTmpl := "booking_customer", "booking_owner"
	customerSubject := fmt.Sprintf("Booking Confirmation - %s", order.Reference)
	ownerSubject := fmt.Sprintf("NEW BOOKING: %s - %s", order.Service, order.Reference)
	if order.IsEquipment() {
		customerTmpl, ownerTmpl = "equipment_customer", "equipment_owner"
		customerSubject = fmt.Sprintf("Order Confirmation - %s", order.Reference)
		ownerSubject = fmt.Sprintf("NEW EQUIPMENT ORDER - %s", order.Reference)
	}

	body, err := renderMail(customerTmpl, order)
	if err != nil {
		return err
	}
	if err := queue.Dispatch(jobs.MailJob{
		To: order.Email, Subject: customerSubject, Body: body,
		Kind: jobs.MailKindReceipt,
	}); err != nil {
		return err
	}

	if m.owner != "" {
		ownerBody, err := renderMail(ownerTmpl, order)
		if err != nil {
			return err
		}
		if err := queue.Dispatch(jobs.MailJob{
			To: m.owner, Subject: ownerSubject, Body: ownerBody,
			Kind: jobs.MailKindOwnerAlert,
		}); err != nil {
			logger.Error("mailer: owner alert dispatch", "error", err)
		}
	}

	if m.webhook != "" {
		notification.SendAsync(m.owner, &orderAlert{Order: order, URL: m.webhook})
	}
	return nil
}

// orderAlert pushes new-order details to an ops webhook when one is
// configured, alongside the owner email.
type orderAlert struct {
	Order Order
	URL   string
}

func (a *orderAlert) Via() []string { return []string{"webhook"} }

func (a *orderAlert) ToWebhook() notification.WebhookData {
	payload := map[string]interface{}{
		"kind":      "booking",
		"reference": a.Order.Reference,
		"service":   a.Order.Service,
		"amount":    a.Order.Amount,
		"customer":  a.Order.Name,
		"email":     a.Order.Email,
		"phone":     a.Order.Phone,
	}
	if a.Order.IsEquipment() {
		payload["kind"] = "equipment_order"
		payload["items"] = collection.Map(a.Order.OrderDetails, func(i OrderItem) string { return i.Product })
		payload["itemsTotal"] = a.Order.ItemsTotal()
	}
	return notification.WebhookData{URL: a.URL, Payload: payload}
}
