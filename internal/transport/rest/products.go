package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/storefront/internal/service/products"
)

func (s *Server) listProducts(c *gin.Context) {
	list, err := s.products.List()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponses(list))
}

func (s *Server) listAvailableProducts(c *gin.Context) {
	list, err := s.products.ListAvailable()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponses(list))
}

func (s *Server) listLowStockProducts(c *gin.Context) {
	threshold, err := strconv.ParseInt(c.Query("threshold"), 10, 32)
	if err != nil {
		badRequest(c, "query parameter threshold must be an integer")
		return
	}

	list, err := s.products.ListLowStock(int32(threshold))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponses(list))
}

func (s *Server) searchProducts(c *gin.Context) {
	query := c.Query("name")
	if query == "" {
		badRequest(c, "query parameter name is required")
		return
	}

	list, err := s.products.SearchByName(query)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponses(list))
}

func (s *Server) listProductsByPriceRange(c *gin.Context) {
	minMinor, err := strconv.ParseInt(c.Query("min"), 10, 64)
	if err != nil {
		badRequest(c, "query parameter min must be an integer")
		return
	}
	maxMinor, err := strconv.ParseInt(c.Query("max"), 10, 64)
	if err != nil {
		badRequest(c, "query parameter max must be an integer")
		return
	}

	list, err := s.products.ListByPriceRange(minMinor, maxMinor)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponses(list))
}

func (s *Server) listCategories(c *gin.Context) {
	categories, err := s.products.Categories()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (s *Server) listProductsByCategory(c *gin.Context) {
	list, err := s.products.ListByCategory(c.Param("category"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponses(list))
}

func (s *Server) getProduct(c *gin.Context) {
	product, err := s.products.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (s *Server) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	product, err := s.products.Create(products.NewProduct{
		Name:          req.Name,
		Description:   req.Description,
		PriceMinor:    req.PriceMinor,
		StockQuantity: req.StockQuantity,
		Category:      req.Category,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(product))
}

func (s *Server) updateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	product, err := s.products.Update(c.Param("id"), products.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		PriceMinor:  req.PriceMinor,
		Category:    req.Category,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (s *Server) updateProductStock(c *gin.Context) {
	var req updateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	product, err := s.products.UpdateStock(c.Param("id"), req.StockQuantity)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.products.Delete(c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
