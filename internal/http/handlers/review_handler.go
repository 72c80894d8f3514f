package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-hostel-backend/internal/http/middleware"
	"github.com/tbourn/go-hostel-backend/internal/services"
)

// AddReviewRequest is the payload for POST /meals/{id}/reviews. The author is
// taken from the bearer token.
type AddReviewRequest struct {
	Content string `json:"content" example:"Great flavour, a bit salty"`
	Rating  int    `json:"rating"  example:"4" minimum:"1" maximum:"5"`
	Name    string `json:"name"    example:"Ann"`
}

// AddReview godoc
// @ID        addReview
// @Summary   Review a meal
// @Tags      Reviews
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      string                     true  "Meal ID"
// @Param     body  body      handlers.AddReviewRequest  true  "Review"
// @Success   201   {object}  domain.Review
// @Failure   400   {object}  handlers.ErrorResponse
// @Failure   401   {object}  handlers.ErrorResponse
// @Failure   404   {object}  handlers.ErrorResponse
// @Router    /meals/{id}/reviews [post]
func (h *Handlers) AddReview(c *gin.Context) {
	var req AddReviewRequest
	if !bindStrict(c, &req) {
		return
	}
	email, _ := middleware.EmailFrom(c)
	name := req.Name
	if cl := middleware.ClaimsFrom(c); name == "" && cl != nil {
		name = cl.Name
	}
	r, err := h.reviews.Add(c.Request.Context(), c.Param("id"), services.ReviewInput{
		Email:   email,
		Name:    name,
		Content: req.Content,
		Rating:  req.Rating,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusCreated, r)
}

// ReviewsByAuthor godoc
// @ID        reviewsByAuthor
// @Summary   Reviews written by a user
// @Tags      Reviews
// @Produce   json
// @Param     email  path   string  true  "Author email"
// @Success   200    {array}  domain.Review
// @Router    /meals/{email}/reviews [get]
func (h *Handlers) ReviewsByAuthor(c *gin.Context) {
	out, err := h.reviews.ByAuthor(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// DeleteReview godoc
// @ID        deleteReview
// @Summary   Delete a review
// @Tags      Reviews
// @Param     id   path    string  true  "Review ID"
// @Success   204  {string}  string  "No Content"
// @Failure   404  {object}  handlers.ErrorResponse
// @Router    /review/delete/{id} [delete]
func (h *Handlers) DeleteReview(c *gin.Context) {
	if err := h.reviews.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	noContent(c)
}
