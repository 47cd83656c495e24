package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"priceping/internal/extractor"
	"priceping/internal/model"
	"priceping/internal/price"
	"priceping/internal/track"
)

const userKey = "user"

// requireUser resolves the bearer token to a user before any product
// endpoint runs.
func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		user, err := s.Users.GetByToken(c.Request.Context(), token)
		if err != nil {
			log.Printf("[server] token lookup: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *model.User {
	return c.MustGet(userKey).(*model.User)
}

type createProductRequest struct {
	URL string `json:"url"`
}

// createProduct is the onboarding endpoint. Failure reasons stay
// distinguishable so the caller can show a specific message.
func (s *Server) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	user := currentUser(c)
	product, isUpdate, err := s.Onboarder.Onboard(c.Request.Context(), user.ID, req.URL)
	if err != nil {
		s.onboardError(c, err)
		return
	}

	status := http.StatusCreated
	message := "product added successfully"
	if isUpdate {
		status = http.StatusOK
		message = "product updated with latest price"
	}
	c.JSON(status, gin.H{
		"product":  product,
		"isUpdate": isUpdate,
		"message":  message,
	})
}

func (s *Server) onboardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, track.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
	case errors.Is(err, track.ErrAuthorization):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
	case errors.Is(err, extractor.ErrExtract):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not extract product information from this URL"})
	case errors.Is(err, price.ErrInvalidPrice):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not extract a valid price from this URL"})
	default:
		log.Printf("[server] onboarding failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add product"})
	}
}

func (s *Server) listProducts(c *gin.Context) {
	user := currentUser(c)
	list, err := s.Products.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("[server] list products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})
		return
	}
	if list == nil {
		list = []model.Product{}
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) productHistory(c *gin.Context) {
	user := currentUser(c)
	id := c.Param("id")

	product, err := s.Products.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[server] fetch product %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch product"})
		return
	}
	if product == nil || product.UserID != user.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	history, err := s.History.ListByProduct(c.Request.Context(), id)
	if err != nil {
		log.Printf("[server] fetch history %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}
	if history == nil {
		history = []model.PriceHistory{}
	}
	c.JSON(http.StatusOK, history)
}

func (s *Server) deleteProduct(c *gin.Context) {
	user := currentUser(c)
	id := c.Param("id")

	if err := s.Products.Delete(c.Request.Context(), id, user.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		log.Printf("[server] delete product %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
