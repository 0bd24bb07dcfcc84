package handlers

import (
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) List(c *fiber.Ctx) error {
	reviews, err := h.reviewService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	resp := dto.ReviewsEnvelope{Reviews: make([]dto.ReviewResponse, 0, len(reviews))}
	for i := range reviews {
		resp.Reviews = append(resp.Reviews, dto.NewReviewResponse(&reviews[i]))
	}
	return c.JSON(resp)
}

// Create handles POST /reviews - the product's average rating is recomputed.
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.CreateReviewRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	review, err := h.reviewService.Create(c.UserContext(), actor, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ReviewEnvelope{Review: dto.NewReviewResponse(review)})
}

// Update handles PUT /reviews/:id - only the author may update.
func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.UpdateReviewRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	review, err := h.reviewService.Update(c.UserContext(), actor, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReviewEnvelope{Review: dto.NewReviewResponse(review)})
}

// Delete handles DELETE /reviews/:id - only the author may delete.
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.reviewService.Delete(c.UserContext(), actor, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Review deleted successfully"})
}
