package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/stayware/ticketdesk/internal/middleware"
	"github.com/stayware/ticketdesk/internal/model"
	"github.com/stayware/ticketdesk/internal/queue"
	"github.com/stayware/ticketdesk/internal/repository"
	queue_publisher "github.com/stayware/ticketdesk/internal/service"
)

// TicketHandler implements ticket CRUD.  Routes sit behind the
// authentication and permissions guards; by the time a handler runs the
// caller is known to hold the required (tickets, action) permission.
type TicketHandler struct {
	Tickets *repository.TicketRepo
}

func NewTicketHandler(t *repository.TicketRepo) *TicketHandler { return &TicketHandler{Tickets: t} }

type ticketReq struct {
	HotelID     uint64 `json:"hotel_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    uint8  `json:"priority"`
	AssignedTo  uint64 `json:"assigned_to"`
}

type ticketResp struct {
	ID          uint64    `json:"id"`
	HotelID     uint64    `json:"hotel_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    uint8     `json:"priority"`
	CreatedBy   uint64    `json:"created_by"`
	AssignedTo  uint64    `json:"assigned_to,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTicketResp(t model.Ticket) ticketResp {
	return ticketResp{
		ID: t.ID, HotelID: t.HotelID, Title: t.Title, Description: t.Description,
		Status: t.Status, Priority: t.Priority, CreatedBy: t.CreatedBy,
		AssignedTo: t.AssignedTo, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt,
	}
}

func validStatus(s string) bool {
	switch s {
	case model.TicketOpen, model.TicketInProgress, model.TicketResolved, model.TicketClosed:
		return true
	}
	return false
}

// Create opens a new ticket for a hotel.
func (h *TicketHandler) Create(c echo.Context) error {
	var req ticketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.HotelID == 0 || req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hotel_id and title required"})
	}
	if req.Status == "" {
		req.Status = model.TicketOpen
	}
	if !validStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t := model.Ticket{
		HotelID:     req.HotelID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		CreatedBy:   middleware.CurrentUserID(c),
		AssignedTo:  req.AssignedTo,
	}
	id, err := h.Tickets.Create(ctx, t)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create ticket failed"})
	}
	t.ID = id

	publishAudit(queue.ActionTicketCreated, middleware.CurrentUserID(c), id, req.HotelID)
	created, err := h.Tickets.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusCreated, toTicketResp(t))
	}
	return c.JSON(http.StatusCreated, toTicketResp(created))
}

// Get returns a single ticket.
func (h *TicketHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tickets.GetByID(ctx, id)
	if err == sql.ErrNoRows {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toTicketResp(t))
}

// ListByHotel returns all tickets for a hotel.
func (h *TicketHandler) ListByHotel(c echo.Context) error {
	hotelID, err := strconv.ParseUint(c.QueryParam("hotel_id"), 10, 64)
	if err != nil || hotelID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hotel_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tickets, err := h.Tickets.ListByHotel(ctx, hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]ticketResp, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketResp(t))
	}
	return c.JSON(http.StatusOK, out)
}

// Update rewrites a ticket's mutable fields.
func (h *TicketHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req ticketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status != "" && !validStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tickets.GetByID(ctx, id)
	if err == sql.ErrNoRows {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if req.Title != "" {
		t.Title = req.Title
	}
	if req.Description != "" {
		t.Description = req.Description
	}
	if req.Status != "" {
		t.Status = req.Status
	}
	if req.Priority != 0 {
		t.Priority = req.Priority
	}
	if req.AssignedTo != 0 {
		t.AssignedTo = req.AssignedTo
	}
	if err := h.Tickets.Update(ctx, t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toTicketResp(t))
}

// Delete removes a ticket.
func (h *TicketHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tickets.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	publishAudit(queue.ActionTicketDeleted, middleware.CurrentUserID(c), id, 0)
	return c.NoContent(http.StatusNoContent)
}

// publishAudit fires a best-effort audit event from CRUD handlers.
func publishAudit(action string, actorID, resourceID, hotelID uint64) {
	ev := queue.AuditEvent{
		ID:         uuid.NewString(),
		Action:     action,
		ActorID:    actorID,
		ResourceID: resourceID,
		HotelID:    hotelID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishAuditEvent(ctx, ev)
	}()
}
