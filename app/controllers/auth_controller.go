package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adeqintegrated/adeqsite/app/services"
	"github.com/adeqintegrated/adeqsite/pkg/bind"
	"github.com/adeqintegrated/adeqsite/pkg/logger"
	"github.com/adeqintegrated/adeqsite/pkg/middleware"
	"github.com/adeqintegrated/adeqsite/pkg/response"
)

// AuthController exposes the account lifecycle endpoints.
type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// clientFault lists the service errors whose message goes back verbatim
// with a 400; anything else is a server fault.
var clientFault = []error{
	services.ErrDuplicateAccount,
	services.ErrInvalidCode,
	services.ErrInvalidCredentials,
	services.ErrUnverified,
	services.ErrAccountNotFound,
	services.ErrInvalidResetCode,
}

// fail translates a service error at the boundary: known client faults get
// their own message, everything else is logged and masked behind fallback.
func fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	for _, known := range clientFault {
		if errors.Is(err, known) {
			response.Fail(w, http.StatusBadRequest, known.Error())
			return
		}
	}
	logger.WithCtx(r.Context()).Error("auth request failed", "error", err)
	response.Fail(w, http.StatusInternalServerError, fallback)
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationFail(w, errs)
		return
	}

	userID, err := c.service.Register(r.Context(), in)
	if err != nil {
		fail(w, r, err, "Registration failed. Please try again.")
		return
	}

	response.Created(w, response.M{
		"message": "Registration successful. Please check your email for verification code.",
		"userId":  userID,
	})
}

func (c *AuthController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email" validate:"required,email"`
		Code  string `json:"code" validate:"required,digits=6"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationFail(w, errs)
		return
	}

	token, user, err := c.service.VerifyEmail(r.Context(), in.Email, in.Code)
	if err != nil {
		fail(w, r, err, "Verification failed. Please try again.")
		return
	}

	response.OK(w, response.M{
		"message": "Email verified successfully!",
		"token":   token,
		"user":    user,
	})
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationFail(w, errs)
		return
	}

	token, user, err := c.service.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		fail(w, r, err, "Login failed. Please try again.")
		return
	}

	response.OK(w, response.M{
		"message": "Login successful!",
		"token":   token,
		"user":    user,
	})
}

func (c *AuthController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email" validate:"required,email"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationFail(w, errs)
		return
	}

	if err := c.service.ForgotPassword(r.Context(), in.Email); err != nil {
		fail(w, r, err, "Failed to process request. Please try again.")
		return
	}

	response.OK(w, response.M{"message": "Password reset code sent to your email"})
}

func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email       string `json:"email" validate:"required,email"`
		Code        string `json:"code" validate:"required,digits=6"`
		NewPassword string `json:"newPassword" validate:"required,min=6"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationFail(w, errs)
		return
	}

	if err := c.service.ResetPassword(r.Context(), in.Email, in.Code, in.NewPassword); err != nil {
		fail(w, r, err, "Password reset failed. Please try again.")
		return
	}

	response.OK(w, response.M{"message": "Password reset successfully!"})
}

// Profile is mounted behind middleware.Auth, so claims are always present.
func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	user, err := c.service.Profile(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserGone) {
			response.Unauthorized(w, "Invalid token")
			return
		}
		fail(w, r, err, "Failed to load profile. Please try again.")
		return
	}

	response.OK(w, response.M{"user": user})
}

func (c *AuthController) CheckEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	exists, err := c.service.CheckEmail(r.Context(), email)
	if err != nil {
		fail(w, r, err, "Error checking email")
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"exists": exists})
}
