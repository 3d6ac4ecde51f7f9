package handler

import (
	"net/http"

	"tradedocs/internal/middleware"
	"tradedocs/internal/service"
	"tradedocs/pkg/response"

	"github.com/gin-gonic/gin"
)

type PackagingHandler struct {
	packagingService service.PackagingService
}

func NewPackagingHandler(packagingService service.PackagingService) *PackagingHandler {
	return &PackagingHandler{packagingService: packagingService}
}

func (h *PackagingHandler) RegisterRoutes(router *gin.RouterGroup) {
	packaging := router.Group("/api/packaging")
	{
		packaging.GET("/units", middleware.RequireRole("admin", "manager", "staff"), h.ListUnits)
		packaging.POST("/units", middleware.RequireRole("admin", "manager"), h.CreateUnit)
		packaging.POST("/categories", middleware.RequireRole("admin", "manager"), h.CreateCategory)
		packaging.GET("/categories/:id/edges", middleware.RequireRole("admin", "manager", "staff"), h.ListEdges)
		packaging.POST("/edges", middleware.RequireRole("admin", "manager"), h.CreateEdge)
		packaging.DELETE("/edges/:id", middleware.RequireRole("admin", "manager"), h.DeactivateEdge)
		packaging.POST("/convert", middleware.RequireRole("admin", "manager", "staff"), h.Convert)
		packaging.GET("/profiles/:productId", middleware.RequireRole("admin", "manager", "staff"), h.GetProfile)
		packaging.PUT("/profiles", middleware.RequireRole("admin", "manager"), h.SaveProfile)
	}

	products := router.Group("/api/products")
	{
		products.POST("", middleware.RequireRole("admin", "manager"), h.CreateProduct)
		products.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetProduct)
	}
}

// CreateProduct creates a product under a category
// @Summary      Create product
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateProductRequest  true  "Product"
// @Success      201      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Router       /api/products [post]
func (h *PackagingHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.packagingService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// GetProduct returns a product with its category
// @Summary      Get product
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=model.Product}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [get]
func (h *PackagingHandler) GetProduct(c *gin.Context) {
	product, err := h.packagingService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// ListUnits returns all packaging units
// @Summary      List packaging units
// @Tags         packaging
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.PackagingUnit}
// @Router       /api/packaging/units [get]
func (h *PackagingHandler) ListUnits(c *gin.Context) {
	units, err := h.packagingService.ListUnits(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, units))
}

// CreateUnit creates a packaging unit
// @Summary      Create packaging unit
// @Tags         packaging
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateUnitRequest  true  "Unit"
// @Success      201      {object}  response.Response{data=model.PackagingUnit}
// @Failure      400      {object}  response.Response
// @Router       /api/packaging/units [post]
func (h *PackagingHandler) CreateUnit(c *gin.Context) {
	var req service.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	unit, err := h.packagingService.CreateUnit(c.Request.Context(), req)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, unit))
}

// CreateCategory creates a product category
// @Summary      Create product category
// @Tags         packaging
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateCategoryRequest  true  "Category"
// @Success      201      {object}  response.Response{data=model.ProductCategory}
// @Failure      400      {object}  response.Response
// @Router       /api/packaging/categories [post]
func (h *PackagingHandler) CreateCategory(c *gin.Context) {
	var req service.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	category, err := h.packagingService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, category))
}

// ListEdges returns a category's active conversion edges
// @Summary      List conversion edges
// @Tags         packaging
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  response.Response{data=[]model.ConversionEdge}
// @Failure      400  {object}  response.Response
// @Router       /api/packaging/categories/{id}/edges [get]
func (h *PackagingHandler) ListEdges(c *gin.Context) {
	edges, err := h.packagingService.ListEdges(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, edges))
}

// CreateEdge adds a conversion edge to a category's unit hierarchy
// @Summary      Create conversion edge
// @Tags         packaging
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateEdgeRequest  true  "Edge"
// @Success      201      {object}  response.Response{data=model.ConversionEdge}
// @Failure      400      {object}  response.Response
// @Router       /api/packaging/edges [post]
func (h *PackagingHandler) CreateEdge(c *gin.Context) {
	var req service.CreateEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	edge, err := h.packagingService.CreateEdge(c.Request.Context(), req)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, edge))
}

// DeactivateEdge soft-removes a conversion edge
// @Summary      Deactivate conversion edge
// @Tags         packaging
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Edge ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/packaging/edges/{id} [delete]
func (h *PackagingHandler) DeactivateEdge(c *gin.Context) {
	if err := h.packagingService.DeactivateEdge(c.Request.Context(), c.Param("id")); err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]string{"message": "edge deactivated"}))
}

// Convert converts a quantity between two packaging units of a category
// @Summary      Convert between packaging units
// @Description  Walks the category's conversion hierarchy and returns the converted quantity with the path taken
// @Tags         packaging
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ConvertRequest  true  "Conversion"
// @Success      200      {object}  response.Response{data=service.ConvertResponse}
// @Failure      422      {object}  response.Response
// @Router       /api/packaging/convert [post]
func (h *PackagingHandler) Convert(c *gin.Context) {
	var req service.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.packagingService.Convert(c.Request.Context(), req)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// GetProfile returns a product's packaging profile
// @Summary      Get packaging profile
// @Tags         packaging
// @Security     BearerAuth
// @Produce      json
// @Param        productId  path      string  true  "Product ID"
// @Success      200        {object}  response.Response{data=model.ProductPackagingProfile}
// @Failure      404        {object}  response.Response
// @Router       /api/packaging/profiles/{productId} [get]
func (h *PackagingHandler) GetProfile(c *gin.Context) {
	profile, err := h.packagingService.GetProfile(c.Request.Context(), c.Param("productId"))
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// SaveProfile upserts a product's packaging profile and rederives its weights
// @Summary      Save packaging profile
// @Tags         packaging
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SaveProfileRequest  true  "Profile"
// @Success      200      {object}  response.Response{data=model.ProductPackagingProfile}
// @Failure      400      {object}  response.Response
// @Router       /api/packaging/profiles [put]
func (h *PackagingHandler) SaveProfile(c *gin.Context) {
	var req service.SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	profile, err := h.packagingService.SaveProfile(c.Request.Context(), req)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}
