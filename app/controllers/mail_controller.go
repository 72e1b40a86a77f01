package controllers

import (
	"net/http"

	"github.com/adeqintegrated/adeqsite/app/services"
	"github.com/adeqintegrated/adeqsite/pkg/bind"
	"github.com/adeqintegrated/adeqsite/pkg/logger"
	"github.com/adeqintegrated/adeqsite/pkg/response"
)

// MailController handles the storefront's email endpoints: the post-payment
// receipt and the direct code-send routes.
type MailController struct {
	mailer services.Mailer
}

func NewMailController(mailer services.Mailer) *MailController {
	return &MailController{mailer: mailer}
}

// SendReceipt queues the customer receipt and owner alert for a paid order.
// It always responds success once the payload is well-formed: the payment
// has already gone through, so a mail problem must not look like a failure.
func (c *MailController) SendReceipt(w http.ResponseWriter, r *http.Request) {
	var order services.Order
	if _, err := bind.JSON(r, &order); err != nil {
		response.Fail(w, http.StatusBadRequest, "Missing required data")
		return
	}
	if order.Email == "" || order.Service == "" {
		response.Fail(w, http.StatusBadRequest, "Missing required data")
		return
	}

	if err := c.mailer.SendReceipt(order); err != nil {
		logger.WithCtx(r.Context()).Error("receipt dispatch failed",
			"reference", order.Reference, "error", err)
		response.OK(w, response.M{
			"message":    "Payment successful! There was an issue with email notifications, but we will contact you shortly.",
			"emailError": true,
		})
		return
	}

	response.OK(w, response.M{"message": "Confirmation emails sent successfully"})
}

// SendVerification delivers a verification code to an address directly.
func (c *MailController) SendVerification(w http.ResponseWriter, r *http.Request) {
	email, code, ok := c.emailAndCode(w, r)
	if !ok {
		return
	}
	if err := c.mailer.SendVerification(email, "", code); err != nil {
		logger.WithCtx(r.Context()).Error("verification send failed", "error", err)
		response.Fail(w, http.StatusInternalServerError, "Failed to send verification email")
		return
	}
	response.OK(w, response.M{"message": "Verification email sent"})
}

// SendPasswordReset delivers a reset code to an address directly.
func (c *MailController) SendPasswordReset(w http.ResponseWriter, r *http.Request) {
	email, code, ok := c.emailAndCode(w, r)
	if !ok {
		return
	}
	if err := c.mailer.SendPasswordReset(email, "", code); err != nil {
		logger.WithCtx(r.Context()).Error("password reset send failed", "error", err)
		response.Fail(w, http.StatusInternalServerError, "Failed to send password reset email")
		return
	}
	response.OK(w, response.M{"message": "Password reset email sent"})
}

func (c *MailController) emailAndCode(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	var in struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if _, err := bind.JSON(r, &in); err != nil || in.Email == "" || in.Code == "" {
		response.Fail(w, http.StatusBadRequest, "Missing email or code")
		return "", "", false
	}
	return in.Email, in.Code, true
}
