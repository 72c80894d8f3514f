package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListPackages godoc
// @ID        listPackages
// @Summary   Subscription packages
// @Tags      Packages
// @Produce   json
// @Success   200  {array}  domain.Package
// @Router    /packages [get]
func (h *Handlers) ListPackages(c *gin.Context) {
	out, err := h.packages.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// GetPackage godoc
// @ID        getPackage
// @Summary   One package for checkout
// @Tags      Packages
// @Produce   json
// @Param     package_name  path      string  true  "Package name"
// @Success   200           {object}  domain.Package
// @Failure   404           {object}  handlers.ErrorResponse
// @Router    /checkout/{package_name} [get]
func (h *Handlers) GetPackage(c *gin.Context) {
	p, err := h.packages.Get(c.Request.Context(), c.Param("package_name"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}
