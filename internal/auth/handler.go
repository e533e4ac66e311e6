package auth

import (
	"errors"
	"strconv"

	"github.com/Kyz7/wip/internal/admin"
	"github.com/Kyz7/wip/internal/otp"
	"github.com/Kyz7/wip/internal/response"
	"github.com/Kyz7/wip/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	manager *Manager
	otp     *otp.Service
	log     logrus.FieldLogger
}

func NewHandler(manager *Manager, otpService *otp.Service, log logrus.FieldLogger) *Handler {
	return &Handler{manager: manager, otp: otpService, log: log}
}

func (h *Handler) SignupHandler(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email" validate:"required,email,max=256"`
		Password string `json:"password" validate:"required"`
		Nickname string `json:"nickname" validate:"required,max=256"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if errs := validation.Struct(&body); errs != nil {
		return response.ValidationError(c, errs)
	}

	info, err := h.manager.Signup(c.UserContext(), SignupInput{
		Email:    body.Email,
		Password: body.Password,
		Nickname: body.Nickname,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return response.Created(c, info, "Signup successful")
}

func (h *Handler) LoginHandler(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if errs := validation.Struct(&body); errs != nil {
		return response.ValidationError(c, errs)
	}

	result, err := h.manager.Login(c.UserContext(), body.Email, body.Password)
	if err != nil {
		return h.fail(c, err)
	}

	return response.Success(c, result, "Login successful")
}

func (h *Handler) RefreshHandler(c *fiber.Ctx) error {
	adminID, err := strconv.ParseUint(c.Params("admin_id"), 10, 64)
	if err != nil || adminID == 0 {
		return response.BadRequest(c, "Invalid admin id", nil)
	}

	var body struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if errs := validation.Struct(&body); errs != nil {
		return response.ValidationError(c, errs)
	}

	pair, err := h.manager.Refresh(c.UserContext(), uint(adminID), body.RefreshToken)
	if err != nil {
		return h.fail(c, err)
	}

	return response.Created(c, pair, "Token refreshed successfully")
}

// LogoutHandler runs behind JWTProtected; an admin may only end its own
// session.
func (h *Handler) LogoutHandler(c *fiber.Ctx) error {
	var body struct {
		AdminID uint `json:"admin_id" validate:"required"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if errs := validation.Struct(&body); errs != nil {
		return response.ValidationError(c, errs)
	}

	currentID, _, ok := CurrentAdmin(c)
	if !ok || currentID != body.AdminID {
		return response.Unauthorized(c, "Cannot log out another admin")
	}

	if err := h.manager.Logout(c.UserContext(), body.AdminID); err != nil {
		return h.fail(c, err)
	}

	return response.Success(c, fiber.Map{"admin_id": body.AdminID}, "Logout successful")
}

func (h *Handler) SendAuthCodeHandler(c *fiber.Ctx) error {
	params := struct {
		Email string `json:"email" validate:"required,email"`
	}{Email: c.Params("email")}
	if errs := validation.Struct(&params); errs != nil {
		return response.ValidationError(c, errs)
	}

	if err := h.manager.EnsureEmailAvailable(c.UserContext(), params.Email); err != nil {
		var dup *admin.DuplicateValueError
		if errors.As(err, &dup) {
			return response.BadRequest(c, "Email is already registered", fiber.Map{"field": dup.Field})
		}
		return h.fail(c, err)
	}

	if _, err := h.otp.Send(c.UserContext(), params.Email); err != nil {
		return h.fail(c, err)
	}

	return response.Created(c, fiber.Map{"email": params.Email}, "Verification code sent")
}

func (h *Handler) VerifyAuthCodeHandler(c *fiber.Ctx) error {
	query := struct {
		Email      string `json:"email" validate:"required,email"`
		AuthNumber string `json:"auth_number" validate:"required,numeric,len=6"`
	}{
		Email:      c.Query("email"),
		AuthNumber: c.Query("auth_number"),
	}
	if errs := validation.Struct(&query); errs != nil {
		return response.ValidationError(c, errs)
	}

	if err := h.otp.Verify(c.UserContext(), query.Email, query.AuthNumber); err != nil {
		return h.fail(c, err)
	}

	return response.Success(c, fiber.Map{"email": query.Email}, "Email verified")
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var dup *admin.DuplicateValueError
	switch {
	case errors.As(err, &dup):
		return response.Conflict(c, dup.Error(), fiber.Map{"field": dup.Field})
	case errors.Is(err, ErrPasswordTooShort):
		return response.ValidationError(c, map[string]string{"password": err.Error()})
	case errors.Is(err, ErrAdminNotFound):
		return response.NotFound(c, "Admin")
	case errors.Is(err, ErrUnauthorized):
		return response.Unauthorized(c, "Invalid email or password")
	case errors.Is(err, ErrInvalidRefreshToken):
		return response.InvalidRefreshToken(c)
	case errors.Is(err, otp.ErrNotFound):
		return response.NotFound(c, "Verification code")
	case errors.Is(err, otp.ErrWrongCode):
		return response.WrongCode(c)
	case errors.Is(err, otp.ErrCacheUnavailable):
		return response.InternalError(c, "Verification service is unavailable")
	}

	h.log.WithError(err).WithField("path", c.Path()).Error("auth request failed")
	return response.InternalError(c, "Internal server error")
}
