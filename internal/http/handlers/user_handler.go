package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-hostel-backend/internal/domain"
	"github.com/tbourn/go-hostel-backend/internal/http/middleware"
)

// RegisterUserRequest is the payload for POST /user.
type RegisterUserRequest struct {
	Email string `json:"email" example:"ann@hostel.example"`
	Name  string `json:"name"  example:"Ann"`
	Photo string `json:"photo" example:"https://cdn.example.com/ann.png"`
}

// PatchUserRequest allow-lists the fields PATCH /user-badge/update/{email}
// may set.
type PatchUserRequest struct {
	Badge *string `json:"badge" example:"gold"`
	Role  *string `json:"role"  example:"admin"`
}

// AdminResponse answers GET /users/admin/{email}.
type AdminResponse struct {
	Admin bool `json:"admin"`
}

// RegisterUser godoc
// @ID          registerUser
// @Summary     Register a user
// @Description Idempotent: an existing email returns the stored user unchanged with 200.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.RegisterUserRequest  true  "User"
// @Success     201   {object}  domain.User
// @Success     200   {object}  domain.User
// @Failure     400   {object}  handlers.ErrorResponse
// @Router      /user [post]
func (h *Handlers) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if !bindLoose(c, &req) {
		return
	}
	u, created, err := h.users.Register(c.Request.Context(), &domain.User{
		Email: req.Email,
		Name:  req.Name,
		Photo: req.Photo,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ok(c, status, u)
}

// ListUsers godoc
// @ID        listUsers
// @Summary   Users (paginated, searchable)
// @Tags      Users
// @Produce   json
// @Param     search  query  string  false  "Name or email contains"
// @Param     page    query  int     false  "Page (1-based)"  minimum(1) default(1)
// @Param     size    query  int     false  "Page size"       minimum(1) maximum(100) default(10)
// @Success   200     {object}  utils.Paged[domain.User]
// @Failure   400     {object}  handlers.ErrorResponse
// @Router    /users [get]
func (h *Handlers) ListUsers(c *gin.Context) {
	p, okp := pageParams(c)
	if !okp {
		return
	}
	res, err := h.users.List(c.Request.Context(), c.Query("search"), p)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// GetUser godoc
// @ID        getUser
// @Summary   Get a user
// @Tags      Users
// @Produce   json
// @Security  BearerAuth
// @Param     email  path      string  true  "Email"
// @Success   200    {object}  domain.User
// @Failure   401    {object}  handlers.ErrorResponse
// @Failure   404    {object}  handlers.ErrorResponse
// @Router    /user/{email} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// PatchUser godoc
// @ID          patchUser
// @Summary     Change a user's badge or role
// @Description badge: the user themself or an admin. role: admins only. Unknown fields are rejected.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       email  path      string                     true  "Email"
// @Param       body   body      handlers.PatchUserRequest  true  "Patch"
// @Success     200    {object}  domain.User
// @Failure     400    {object}  handlers.ErrorResponse
// @Failure     403    {object}  handlers.ErrorResponse
// @Failure     404    {object}  handlers.ErrorResponse
// @Router      /user-badge/update/{email} [patch]
func (h *Handlers) PatchUser(c *gin.Context) {
	var req PatchUserRequest
	if !bindStrict(c, &req) {
		return
	}
	var patch domain.UserPatch
	if req.Badge != nil {
		b, valid := domain.ParseBadge(*req.Badge)
		if !valid {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "badge must be bronze, silver, gold or platinum")
			return
		}
		patch.Badge = &b
	}
	if req.Role != nil {
		r, valid := domain.ParseRole(*req.Role)
		if !valid {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "role must be user or admin")
			return
		}
		patch.Role = &r
	}
	actor, _ := middleware.EmailFrom(c)
	u, err := h.users.Patch(c.Request.Context(), actor, c.Param("email"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// IsAdmin godoc
// @ID        isAdmin
// @Summary   Whether the caller is an admin
// @Tags      Users
// @Produce   json
// @Security  BearerAuth
// @Param     email  path      string  true  "Caller's own email"
// @Success   200    {object}  handlers.AdminResponse
// @Failure   401    {object}  handlers.ErrorResponse
// @Failure   403    {object}  handlers.ErrorResponse
// @Router    /users/admin/{email} [get]
func (h *Handlers) IsAdmin(c *gin.Context) {
	admin, err := h.users.IsAdmin(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, AdminResponse{Admin: admin})
}
