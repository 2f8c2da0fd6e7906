package handlers

import (
	"errors"
	"net/http"

	"localpro/config"
	providerRepo "localpro/database/repository/provider"
	"localpro/models"
	"localpro/services/matching"
	"localpro/services/media"
	"localpro/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MatchHandler exposes the discovery endpoints.
type MatchHandler struct {
	Service   matching.MatchingService
	Providers providerRepo.ProviderRepository
	Media     media.URLResolver
	Logger    *zap.Logger
}

// NewMatchHandler creates a MatchHandler.
func NewMatchHandler(svc matching.MatchingService, providers providerRepo.ProviderRepository, resolver media.URLResolver, logger *zap.Logger) *MatchHandler {
	return &MatchHandler{Service: svc, Providers: providers, Media: resolver, Logger: logger}
}

type matchRequestInput struct {
	Lat            float64 `json:"lat" binding:"required"`
	Lon            float64 `json:"lon" binding:"required"`
	CategoryID     string  `json:"categoryId" binding:"required"`
	SubCategoryID  string  `json:"subCategoryId"`
	RadiusMeters   float64 `json:"radiusMeters"`
	Limit          int     `json:"limit"`
	IdempotencyKey string  `json:"idempotencyKey"`
	SeekerID       string  `json:"seekerId"`
}

// CreateMatchHandler runs the idempotent matching flow.
func (h *MatchHandler) CreateMatchHandler(c *gin.Context) {
	var input matchRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	radius := input.RadiusMeters
	if radius <= 0 {
		radius = config.AppConfig.DefaultRadiusM
	}

	result, err := h.Service.CreateMatch(c.Request.Context(), matching.MatchInput{
		Origin:         models.NewGeoPoint(input.Lon, input.Lat),
		RadiusMeters:   radius,
		CategoryID:     input.CategoryID,
		SubCategoryID:  input.SubCategoryID,
		Limit:          input.Limit,
		IdempotencyKey: input.IdempotencyKey,
		SeekerID:       input.SeekerID,
	})
	if err != nil {
		h.writeMatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requestId": result.RequestID,
		"status":    result.Status,
		"providers": h.enrich(c, result.Candidates),
	})
}

// GetMatchHandler replays a persisted match by request id.
func (h *MatchHandler) GetMatchHandler(c *gin.Context) {
	result, err := h.Service.GetMatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeMatchError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"requestId": result.RequestID,
		"status":    result.Status,
		"providers": h.enrich(c, result.Candidates),
	})
}

type listingSearchInput struct {
	Lat                float64  `json:"lat" binding:"required"`
	Lon                float64  `json:"lon" binding:"required"`
	RadiusMeters       float64  `json:"radiusMeters"`
	CategoryID         string   `json:"categoryId" binding:"required"`
	SubCategoryID      string   `json:"subCategoryId"`
	ExcludeProviderIDs []string `json:"excludeProviderIds"`
}

// SearchListingsHandler runs the fixed-radius listing search.
func (h *MatchHandler) SearchListingsHandler(c *gin.Context) {
	var input listingSearchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	radius := input.RadiusMeters
	if radius <= 0 {
		radius = config.AppConfig.DefaultRadiusM
	}

	candidates, err := h.Service.FindCandidates(c.Request.Context(), matching.ListingQuery{
		Point:              models.NewGeoPoint(input.Lon, input.Lat),
		RadiusMeters:       radius,
		CategoryID:         input.CategoryID,
		SubCategoryID:      input.SubCategoryID,
		ExcludeProviderIDs: input.ExcludeProviderIDs,
	})
	if err != nil {
		h.writeMatchError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

// enrich resolves contact and media fields for the response. Enrichment is
// best-effort: a failed lookup degrades the field, never the request.
func (h *MatchHandler) enrich(c *gin.Context, candidates []models.MatchCandidate) []models.MatchedProvider {
	ids := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		ids = append(ids, cand.ProviderID)
	}
	profiles, err := h.Providers.GetManyByIDs(c.Request.Context(), ids)
	if err != nil {
		h.Logger.Warn("failed to load provider profiles for enrichment", zap.Error(err))
		profiles = map[string]models.Provider{}
	}

	out := make([]models.MatchedProvider, 0, len(candidates))
	for _, cand := range candidates {
		mp := models.MatchedProvider{
			ProviderID:     cand.ProviderID,
			ProviderName:   cand.ProviderName,
			DistanceMeters: cand.DistanceMeters,
		}
		if p, ok := profiles[cand.ProviderID]; ok {
			mp.Phone = p.Profile.PhoneNumber
			if url, err := h.Media.ProfilePictureURL(p.Profile.ProfileImage); err == nil {
				mp.ProfilePictureURL = url
			} else {
				h.Logger.Warn("failed to resolve profile picture URL",
					zap.String("providerId", cand.ProviderID), zap.Error(err))
			}
		}
		out = append(out, mp)
	}
	return out
}

func (h *MatchHandler) writeMatchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, matching.ErrCategoryNotFound):
		utils.JSONError(c, http.StatusBadRequest, "unknown category", err.Error())
	case errors.Is(err, matching.ErrInvalidOrigin):
		utils.JSONError(c, http.StatusBadRequest, "invalid origin", err.Error())
	case errors.Is(err, matching.ErrMatchNotFound):
		utils.JSONError(c, http.StatusNotFound, "match not found", err.Error())
	default:
		h.Logger.Error("match request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "match request failed", err.Error())
	}
}
