package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/stayware/ticketdesk/internal/auth"
	"github.com/stayware/ticketdesk/internal/middleware"
	"github.com/stayware/ticketdesk/internal/queue"
	"github.com/stayware/ticketdesk/internal/repository"
	queue_publisher "github.com/stayware/ticketdesk/internal/service"
)

// RoleHandler exposes the role administration surface: listing roles,
// editing permission mappings and assigning roles to users.  All routes
// require roles:read or roles:update.
type RoleHandler struct {
	Store *repository.UserStore
}

func NewRoleHandler(s *repository.UserStore) *RoleHandler { return &RoleHandler{Store: s} }

type roleResp struct {
	ID          uint64              `json:"id"`
	Name        string              `json:"name"`
	Permissions map[string][]string `json:"permissions"`
	IsSystem    bool                `json:"is_system"`
}

type rolePermsReq struct {
	Permissions map[string][]string `json:"permissions"`
}

type assignRoleReq struct {
	RoleID uint64 `json:"role_id"`
}

// List returns every role.
func (h *RoleHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	roles, err := h.Store.ListRoles(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]roleResp, 0, len(roles))
	for _, r := range roles {
		out = append(out, roleResp{ID: r.ID, Name: r.Name, Permissions: r.Permissions, IsSystem: r.IsSystem})
	}
	return c.JSON(http.StatusOK, out)
}

// UpdatePermissions replaces a role's permission mapping.  The mapping is
// validated against the permission catalog before it touches the
// database, so the evaluator never sees unknown names.
func (h *RoleHandler) UpdatePermissions(c echo.Context) error {
	roleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req rolePermsReq
	if err := c.Bind(&req); err != nil || req.Permissions == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "permissions required"})
	}
	if err := auth.ValidatePermissions(req.Permissions); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.UpdateRolePermissions(ctx, roleID, req.Permissions); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Delete removes a non-system role.
func (h *RoleHandler) Delete(c echo.Context) error {
	roleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.DeleteRole(ctx, roleID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "system roles cannot be deleted"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Assign links a role to a user.
func (h *RoleHandler) Assign(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req assignRoleReq
	if err := c.Bind(&req); err != nil || req.RoleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, ok, err := h.Store.FindByID(ctx, userID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err := h.Store.AssignRole(ctx, userID, req.RoleID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign failed"})
	}

	ev := queue.AuditEvent{
		ID:         uuid.NewString(),
		Action:     queue.ActionRoleAssigned,
		ActorID:    middleware.CurrentUserID(c),
		ResourceID: userID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishAuditEvent(pctx, ev)
	}()
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
