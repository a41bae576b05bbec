package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wavesrc/resource-center/internal/config"
	"github.com/wavesrc/resource-center/internal/model"
	"github.com/wavesrc/resource-center/internal/repository"
	"github.com/wavesrc/resource-center/internal/utils"
)

// StaffUserHandler covers staff account administration: listing users,
// creating accounts with role flags and toggling flags or activity.
// Flag changes are restricted to superusers.
type StaffUserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewStaffUserHandler(cfg config.Config, u *repository.UserRepo) *StaffUserHandler {
	return &StaffUserHandler{Cfg: cfg, Users: u}
}

// List returns every account ordered by email.
func (h *StaffUserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list users failed"})
	}
	items := make([]profileResp, 0, len(users))
	for i := range users {
		items = append(items, toProfileResp(&users[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"users": items})
}

type staffCreateUserReq struct {
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	PhoneNumber string  `json:"phone_number"`
	IsStaff     *bool   `json:"is_staff"`
	IsSuperuser *bool   `json:"is_superuser"`
}

// Create adds an account, optionally with role flags. Granting the
// superuser flag is reserved for callers who hold it themselves.
func (h *StaffUserHandler) Create(c echo.Context) error {
	var req staffCreateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": repository.ErrMissingEmail.Error()})
	}
	if req.Password == nil || *req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": repository.ErrMissingPassword.Error()})
	}
	if req.IsSuperuser != nil && *req.IsSuperuser {
		if role, _ := c.Get("role").(string); role != model.RoleSuperuser {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only superusers may grant superuser"})
		}
	}
	phone, err := utils.NormalizePhone(strings.TrimSpace(req.PhoneNumber), h.Cfg.PhoneRegion)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid phone number"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, repository.NewUserParams{
		Email:       *req.Email,
		Password:    *req.Password,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		PhoneNumber: phone,
		IsStaff:     req.IsStaff,
		IsSuperuser: req.IsSuperuser,
	}, h.Cfg.BcryptCost)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailRequired):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email address must be set"})
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
		}
	}
	return c.JSON(http.StatusCreated, toProfileResp(u))
}

type setFlagsReq struct {
	IsStaff     bool `json:"is_staff"`
	IsSuperuser bool `json:"is_superuser"`
}

// SetFlags rewrites a user's role flags. Superuser-only: role flags
// decide what the rest of the staff surface permits, so the bar sits
// above plain staff.
func (h *StaffUserHandler) SetFlags(c echo.Context) error {
	if role, _ := c.Get("role").(string); role != model.RoleSuperuser {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "superuser required"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req setFlagsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.SetFlags(ctx, id, req.IsStaff, req.IsSuperuser); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update flags failed"})
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, toProfileResp(u))
}

type setActiveReq struct {
	IsActive bool `json:"is_active"`
}

// SetActive enables or disables an account. Disabled accounts keep
// their data but can no longer log in.
func (h *StaffUserHandler) SetActive(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if uid, err := getUserID(c); err == nil && uid == id {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot change own active state"})
	}
	var req setActiveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.SetActive(ctx, id, req.IsActive); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update active failed"})
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, toProfileResp(u))
}
