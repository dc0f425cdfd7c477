package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wallace-21/BirdNest/internal/domain/models"
	"github.com/wallace-21/BirdNest/internal/repository/gormdb"
)

const (
	defaultListLimit   = 100
	maxListLimit       = 100
	minNameQuery       = 2
	minScientificQuery = 3
)

// BirdHandler exposes the bird catalog over HTTP.
type BirdHandler struct {
	repo   *gormdb.BirdRepository
	logger *zap.Logger
}

// NewBirdHandler constructs the HTTP handler adapter for birds.
func NewBirdHandler(repo *gormdb.BirdRepository, logger *zap.Logger) *BirdHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BirdHandler{repo: repo, logger: logger}
}

// Create registers a new bird. A duplicate bird_id is a conflict and
// never mutates the existing record.
func (h *BirdHandler) Create(c *gin.Context) {
	var payload models.BirdCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	_, err := h.repo.GetByBirdID(c.Request.Context(), payload.BirdID)
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Bird with this ID already exists"})
		return
	}
	if !errors.Is(err, models.ErrNotFound) {
		h.internalError(c, err)
		return
	}

	bird := payload.ToBird()
	if err := h.repo.Create(c.Request.Context(), &bird); err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.BirdResponse{Success: true, Data: &bird})
}

// List returns birds in natural store order, windowed by skip and limit.
func (h *BirdHandler) List(c *gin.Context) {
	skip, err := queryInt(c, "skip", 0)
	if err != nil || skip < 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "skip must be a non-negative integer"})
		return
	}

	limit, err := queryInt(c, "limit", defaultListLimit)
	if err != nil || limit < 0 || limit > maxListLimit {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "limit must be an integer between 0 and 100"})
		return
	}

	birds, err := h.repo.GetMulti(c.Request.Context(), skip, limit)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, birdList(birds))
}

// Get fetches a bird by its natural key.
func (h *BirdHandler) Get(c *gin.Context) {
	bird, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.BirdResponse{Success: true, Data: bird})
}

// Update applies a partial update: only supplied fields change, and a
// supplied nested document replaces the stored one wholesale.
func (h *BirdHandler) Update(c *gin.Context) {
	var payload models.BirdUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	bird, ok := h.lookup(c)
	if !ok {
		return
	}

	if err := h.repo.Update(c.Request.Context(), bird, payload.Updates()); err != nil {
		h.internalError(c, err)
		return
	}

	updated, err := h.repo.Get(c.Request.Context(), bird.ID)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.BirdResponse{Success: true, Data: updated})
}

// Delete removes a bird by its natural key and returns the removed record.
func (h *BirdHandler) Delete(c *gin.Context) {
	bird, ok := h.lookup(c)
	if !ok {
		return
	}

	removed, err := h.repo.Remove(c.Request.Context(), bird.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Bird not found"})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.BirdResponse{Success: true, Data: removed})
}

// SearchByName performs a case-insensitive substring search on name.
func (h *BirdHandler) SearchByName(c *gin.Context) {
	name := c.Query("name")
	if len([]rune(name)) < minNameQuery {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "name must be at least 2 characters"})
		return
	}

	birds, err := h.repo.SearchByName(c.Request.Context(), name)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, birdList(birds))
}

// SearchByScientificName performs a case-insensitive substring search on
// scientific_name.
func (h *BirdHandler) SearchByScientificName(c *gin.Context) {
	scientificName := c.Query("scientific_name")
	if len([]rune(scientificName)) < minScientificQuery {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "scientific_name must be at least 3 characters"})
		return
	}

	birds, err := h.repo.SearchByScientificName(c.Request.Context(), scientificName)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, birdList(birds))
}

// FilterByConservationStatus returns birds whose nested status matches
// the query exactly.
func (h *BirdHandler) FilterByConservationStatus(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "status is required"})
		return
	}

	birds, err := h.repo.GetByConservationStatus(c.Request.Context(), status)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, birdList(birds))
}

// lookup resolves the bird_id path parameter, answering 404 when the
// natural key is unknown.
func (h *BirdHandler) lookup(c *gin.Context) (*models.Bird, bool) {
	birdID := c.Param("bird_id")

	bird, err := h.repo.GetByBirdID(c.Request.Context(), birdID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Bird not found"})
		} else {
			h.internalError(c, err)
		}
		return nil, false
	}

	return bird, true
}

func (h *BirdHandler) internalError(c *gin.Context, err error) {
	h.logger.Error("bird request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "An unexpected error occurred"})
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

// birdList keeps empty results serializing as [] rather than null.
func birdList(birds []models.Bird) []models.Bird {
	if birds == nil {
		return []models.Bird{}
	}
	return birds
}
