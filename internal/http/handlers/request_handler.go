package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-hostel-backend/internal/domain"
)

// CreateMealRequestBody is the payload for POST /request/meal.
type CreateMealRequestBody struct {
	RequestedID string `json:"requestedId" example:"0d6f7e3a-5e57-4b5a-9c41-0d8c7a1f2b11"`
	Title       string `json:"title"       example:"Chicken biryani"`
	Category    string `json:"category"    example:"dinner"`
	UserEmail   string `json:"userEmail"   example:"ann@hostel.example"`
	UserName    string `json:"userName"    example:"Ann"`
	Status      string `json:"status"      example:"pending"`
}

// DuplicateRequestResponse is returned when the meal was already requested.
type DuplicateRequestResponse struct {
	Message   string              `json:"message"   example:"Chicken biryani has already been added to the basket!"`
	Duplicate bool                `json:"duplicate" example:"true"`
	Request   *domain.MealRequest `json:"request"`
}

// PatchRequestBody allow-lists the fields PATCH /meal/delivered/{id} may set.
type PatchRequestBody struct {
	Status *string `json:"status" example:"delivered"`
}

// CreateMealRequest godoc
// @ID          createMealRequest
// @Summary     Request a meal
// @Description A second request for the same meal by the same user returns 200 with duplicate=true instead of a new record.
// @Tags        Requests
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.CreateMealRequestBody  true  "Request"
// @Success     201   {object}  domain.MealRequest
// @Success     200   {object}  handlers.DuplicateRequestResponse
// @Failure     400   {object}  handlers.ErrorResponse
// @Router      /request/meal [post]
func (h *Handlers) CreateMealRequest(c *gin.Context) {
	var body CreateMealRequestBody
	if !bindLoose(c, &body) {
		return
	}
	r, dup, err := h.requests.Create(c.Request.Context(), &domain.MealRequest{
		RequestedID: body.RequestedID,
		Title:       body.Title,
		Category:    body.Category,
		UserEmail:   body.UserEmail,
		UserName:    body.UserName,
		Status:      domain.RequestStatus(body.Status),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if dup {
		ok(c, http.StatusOK, DuplicateRequestResponse{
			Message:   r.Title + " has already been added to the basket!",
			Duplicate: true,
			Request:   r,
		})
		return
	}
	ok(c, http.StatusCreated, r)
}

// ListRequestsByEmail godoc
// @ID        listRequestsByEmail
// @Summary   A user's meal requests (paginated)
// @Tags      Requests
// @Produce   json
// @Param     email  path   string  true   "Requester email"
// @Param     page   query  int     false  "Page (1-based)"  minimum(1) default(1)
// @Param     size   query  int     false  "Page size"       minimum(1) maximum(100) default(10)
// @Success   200    {object}  utils.Paged[domain.MealRequest]
// @Failure   400    {object}  handlers.ErrorResponse
// @Router    /request/{email} [get]
func (h *Handlers) ListRequestsByEmail(c *gin.Context) {
	p, okp := pageParams(c)
	if !okp {
		return
	}
	res, err := h.requests.ListByEmail(c.Request.Context(), c.Param("email"), p)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// SearchRequests godoc
// @ID        searchRequests
// @Summary   All meal requests (paginated, searchable)
// @Tags      Requests
// @Produce   json
// @Param     search  query  string  false  "Title or category contains"
// @Param     page    query  int     false  "Page (1-based)"  minimum(1) default(1)
// @Param     size    query  int     false  "Page size"       minimum(1) maximum(100) default(10)
// @Success   200     {object}  utils.Paged[domain.MealRequest]
// @Failure   400     {object}  handlers.ErrorResponse
// @Router    /request-meals [get]
func (h *Handlers) SearchRequests(c *gin.Context) {
	p, okp := pageParams(c)
	if !okp {
		return
	}
	res, err := h.requests.Search(c.Request.Context(), c.Query("search"), p)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// PatchRequest godoc
// @ID          patchRequest
// @Summary     Update a meal request's status
// @Description Only status may be changed; unknown fields are rejected.
// @Tags        Requests
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path      string                     true  "Request ID"
// @Param       body  body      handlers.PatchRequestBody  true  "Patch"
// @Success     200   {object}  domain.MealRequest
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     401   {object}  handlers.ErrorResponse
// @Failure     404   {object}  handlers.ErrorResponse
// @Router      /meal/delivered/{id} [patch]
func (h *Handlers) PatchRequest(c *gin.Context) {
	var body PatchRequestBody
	if !bindStrict(c, &body) {
		return
	}
	var patch domain.RequestPatch
	if body.Status != nil {
		st, valid := domain.ParseRequestStatus(*body.Status)
		if !valid {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be pending or delivered")
			return
		}
		patch.Status = &st
	}
	r, err := h.requests.Patch(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, r)
}

// DeleteRequest godoc
// @ID        deleteRequest
// @Summary   Delete a meal request
// @Tags      Requests
// @Param     id   path    string  true  "Request ID"
// @Success   204  {string}  string  "No Content"
// @Failure   404  {object}  handlers.ErrorResponse
// @Router    /request-meal/{id} [delete]
func (h *Handlers) DeleteRequest(c *gin.Context) {
	if err := h.requests.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	noContent(c)
}
