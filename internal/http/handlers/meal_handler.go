package handlers

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-hostel-backend/internal/domain"
	"github.com/tbourn/go-hostel-backend/internal/query"
)

// CreateMealRequest is the payload for POST /meals.
type CreateMealRequest struct {
	Title            string   `json:"title"            example:"Chicken biryani"`
	Category         string   `json:"category"         example:"dinner"`
	Description      string   `json:"description"      example:"Slow-cooked basmati rice with spiced chicken"`
	Image            string   `json:"image"            example:"https://cdn.example.com/biryani.jpg"`
	Ingredients      []string `json:"ingredients"`
	Price            float64  `json:"price"            example:"8.5"`
	DistributorName  string   `json:"distributorName"  example:"Kitchen A"`
	DistributorEmail string   `json:"distributorEmail" example:"kitchen@hostel.example"`
}

// LikeResponse is the meal's like state after a toggle.
type LikeResponse struct {
	ID    string `json:"id"`
	Likes int    `json:"likes"`
	Liked bool   `json:"liked"`
}

// CreateMeal godoc
// @ID          createMeal
// @Summary     Create a meal
// @Description Admin only. Likes, liked and reviews always start empty.
// @Tags        Meals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body      handlers.CreateMealRequest  true  "Meal"
// @Success     201   {object}  domain.Meal
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     401   {object}  handlers.ErrorResponse
// @Failure     403   {object}  handlers.ErrorResponse
// @Failure     503   {object}  handlers.ErrorResponse
// @Router      /meals [post]
func (h *Handlers) CreateMeal(c *gin.Context) {
	var req CreateMealRequest
	if !bindStrict(c, &req) {
		return
	}
	m, err := h.meals.Create(c.Request.Context(), &domain.Meal{
		Title:            req.Title,
		Category:         req.Category,
		Description:      req.Description,
		Image:            req.Image,
		Ingredients:      req.Ingredients,
		Price:            req.Price,
		DistributorName:  req.DistributorName,
		DistributorEmail: req.DistributorEmail,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusCreated, m)
}

// ListMeals godoc
// @ID          listMeals
// @Summary     List meals (paginated)
// @Description Infinite-scroll listing. currentPage is 0-based; nextPage is null on the last page. Supports a weak ETag.
// @Tags        Meals
// @Produce     json
// @Param       page           query   int     false  "Page (1-based)"  minimum(1) default(1)
// @Param       size           query   int     false  "Page size"       minimum(1) maximum(100) default(10)
// @Param       sort           query   string  false  "Sort key"        Enums(likes_asc,likes_desc,reviews_asc,reviews_desc,price_asc,price_desc)
// @Param       search         query   string  false  "Title or category contains"
// @Param       category       query   string  false  "Exact category"
// @Param       If-None-Match  header  string  false  "Return 304 when the ETag matches"
// @Success     200  {object}  utils.Paged[domain.Meal]
// @Header      200  {string}  ETag  "Weak ETag for this result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     503  {object}  handlers.ErrorResponse
// @Router      /meals [get]
func (h *Handlers) ListMeals(c *gin.Context) {
	p, okp := pageParams(c)
	if !okp {
		return
	}
	sort, err := query.ParseSort(c.Query("sort"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown sort key")
		return
	}
	ctx := c.Request.Context()

	// Best effort: a stats failure just means no ETag.
	var etag string
	if count, last, err := h.meals.Stats(ctx); err == nil {
		var ts int64
		if last != nil {
			ts = last.UnixNano()
		}
		etag = fmt.Sprintf(`W/"meals:%d:%d:%x"`, count, ts, queryHash(c))
		if etagMatches(c.GetHeader("If-None-Match"), etag) {
			c.Header("ETag", etag)
			c.Status(http.StatusNotModified)
			return
		}
	}

	res, err := h.meals.ListPage(ctx, query.Meals(c.Query("search"), c.Query("category"), sort), p)
	if err != nil {
		respondError(c, err)
		return
	}
	if etag != "" {
		c.Header("ETag", etag)
	}
	ok(c, http.StatusOK, res)
}

// ListAllMeals godoc
// @ID          listAllMeals
// @Summary     List all meals with filters
// @Tags        Meals
// @Produce     json
// @Param       search  query  string  false  "Title or category contains"
// @Param       filter  query  string  false  "Exact category"
// @Param       sort    query  string  false  "asc|desc by price, or any /meals sort key"
// @Success     200  {array}   domain.Meal
// @Header      200  {string}  X-Result-Truncated  "true when more meals matched than the listing cap"
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /all-meals [get]
func (h *Handlers) ListAllMeals(c *gin.Context) {
	sort, err := query.ParseSort(c.Query("sort"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown sort key")
		return
	}
	items, truncated, err := h.meals.ListAll(c.Request.Context(), query.Meals(c.Query("search"), c.Query("filter"), sort))
	if err != nil {
		respondError(c, err)
		return
	}
	markTruncated(c, truncated)
	ok(c, http.StatusOK, items)
}

// GetMeal godoc
// @ID        getMeal
// @Summary   Get a meal
// @Tags      Meals
// @Produce   json
// @Param     id   path      string  true  "Meal ID"
// @Success   200  {object}  domain.Meal
// @Failure   404  {object}  handlers.ErrorResponse
// @Router    /meal/{id} [get]
func (h *Handlers) GetMeal(c *gin.Context) {
	m, err := h.meals.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, m)
}

// DeleteMeal godoc
// @ID        deleteMeal
// @Summary   Delete a meal and its reviews
// @Tags      Meals
// @Param     id   path    string  true  "Meal ID"
// @Success   204  {string}  string  "No Content"
// @Failure   404  {object}  handlers.ErrorResponse
// @Router    /meal/delete/{id} [delete]
func (h *Handlers) DeleteMeal(c *gin.Context) {
	if err := h.meals.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	noContent(c)
}

// ToggleLike godoc
// @ID          toggleLike
// @Summary     Toggle a meal's like
// @Description Flips liked and moves likes by one in the same direction. 409 when concurrent toggles keep colliding.
// @Tags        Meals
// @Produce     json
// @Param       id   path      string  true  "Meal ID"
// @Success     200  {object}  handlers.LikeResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse
// @Router      /like-meal/{id} [put]
func (h *Handlers) ToggleLike(c *gin.Context) {
	id := c.Param("id")
	st, err := h.meals.ToggleLike(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, LikeResponse{ID: id, Likes: st.Likes, Liked: st.Liked})
}

// UpcomingMeals godoc
// @ID        upcomingMeals
// @Summary   All meals
// @Tags      Meals
// @Produce   json
// @Success   200  {array}  domain.Meal
// @Router    /upcoming-meals [get]
func (h *Handlers) UpcomingMeals(c *gin.Context) { h.upcoming(c, false) }

// UpcomingMealsByLikes godoc
// @ID        upcomingMealsByLikes
// @Summary   All meals, most liked first
// @Tags      Meals
// @Produce   json
// @Success   200  {array}  domain.Meal
// @Router    /upcoming/meals [get]
func (h *Handlers) UpcomingMealsByLikes(c *gin.Context) { h.upcoming(c, true) }

func (h *Handlers) upcoming(c *gin.Context, byLikes bool) {
	items, truncated, err := h.meals.Upcoming(c.Request.Context(), byLikes)
	if err != nil {
		respondError(c, err)
		return
	}
	markTruncated(c, truncated)
	ok(c, http.StatusOK, items)
}

// queryHash folds the listing-relevant query parameters into the ETag so
// different pages and filters never share one.
func queryHash(c *gin.Context) uint64 {
	h := fnv.New64a()
	for _, k := range []string{"page", "size", "sort", "search", "category"} {
		fmt.Fprintf(h, "%s=%s;", k, strings.TrimSpace(c.Query(k)))
	}
	return h.Sum64()
}

// etagMatches applies the If-None-Match rules: "*" matches any current
// representation, otherwise any listed tag matches by weak comparison.
func etagMatches(header, etag string) bool {
	if header == "" || etag == "" {
		return false
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, tag := range strings.Split(header, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "*" || strings.TrimPrefix(tag, "W/") == want {
			return true
		}
	}
	return false
}

// HeaderResultTruncated is set to "true" on full listings cut at the cap.
const HeaderResultTruncated = "X-Result-Truncated"

func markTruncated(c *gin.Context, truncated bool) {
	if truncated {
		c.Header(HeaderResultTruncated, "true")
	}
}
