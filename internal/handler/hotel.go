package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stayware/ticketdesk/internal/model"
	"github.com/stayware/ticketdesk/internal/repository"
)

type HotelHandler struct {
	Hotels *repository.HotelRepo
}

func NewHotelHandler(h *repository.HotelRepo) *HotelHandler { return &HotelHandler{Hotels: h} }

type hotelReq struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
	Stars   uint8  `json:"stars"`
}

// List returns the active hotel directory.  This route sits behind the
// response cache, so it is the cheapest read in the API.
func (h *HotelHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hotels, err := h.Hotels.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if hotels == nil {
		hotels = []model.Hotel{}
	}
	return c.JSON(http.StatusOK, hotels)
}

// Get returns one hotel by id.
func (h *HotelHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hotel, err := h.Hotels.GetByID(ctx, id)
	if err == sql.ErrNoRows {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, hotel)
}

// Create registers a hotel (requires hotels:create).
func (h *HotelHandler) Create(c echo.Context) error {
	var req hotelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.City == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and city required"})
	}
	if req.Stars < 1 || req.Stars > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stars must be 1-5"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Hotels.Create(ctx, model.Hotel{
		Name: req.Name, City: req.City, Address: req.Address, Stars: req.Stars,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create hotel failed"})
	}
	hotel, err := h.Hotels.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusCreated, echo.Map{"id": id})
	}
	return c.JSON(http.StatusCreated, hotel)
}

// Update rewrites a hotel's fields (requires hotels:update).
func (h *HotelHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req hotelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hotel, err := h.Hotels.GetByID(ctx, id)
	if err == sql.ErrNoRows {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if req.Name != "" {
		hotel.Name = req.Name
	}
	if req.City != "" {
		hotel.City = req.City
	}
	if req.Address != "" {
		hotel.Address = req.Address
	}
	if req.Stars != 0 {
		if req.Stars < 1 || req.Stars > 5 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "stars must be 1-5"})
		}
		hotel.Stars = req.Stars
	}
	if err := h.Hotels.Update(ctx, hotel); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, hotel)
}
