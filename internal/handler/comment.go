package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stayware/ticketdesk/internal/middleware"
	"github.com/stayware/ticketdesk/internal/model"
	"github.com/stayware/ticketdesk/internal/repository"
)

type CommentHandler struct {
	Comments *repository.CommentRepo
}

func NewCommentHandler(r *repository.CommentRepo) *CommentHandler { return &CommentHandler{Comments: r} }

type commentReq struct {
	Body string `json:"body"`
}

// ListByHotel returns a hotel's comments (requires comments:read).
func (h *CommentHandler) ListByHotel(c echo.Context) error {
	hotelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	comments, err := h.Comments.ListByHotel(ctx, hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	return c.JSON(http.StatusOK, comments)
}

// Create attaches a comment to a hotel (requires comments:create).
func (h *CommentHandler) Create(c echo.Context) error {
	hotelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	var req commentReq
	if err := c.Bind(&req); err != nil || req.Body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	comment := model.Comment{
		HotelID:  hotelID,
		AuthorID: middleware.CurrentUserID(c),
		Body:     req.Body,
	}
	id, err := h.Comments.Create(ctx, comment)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create comment failed"})
	}
	comment.ID = id
	return c.JSON(http.StatusCreated, comment)
}

// Delete removes a comment (requires comments:delete).
func (h *CommentHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("commentId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Comments.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
