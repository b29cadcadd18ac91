// internal/handlers/places.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tapreview/tapreview-backend/internal/config"
	"github.com/tapreview/tapreview-backend/internal/i18n"
	"github.com/tapreview/tapreview-backend/internal/services"
	"github.com/tapreview/tapreview-backend/internal/utils"
)

// PlacesHandler proxies Google Places so the API key never ships in the
// mobile app.
type PlacesHandler struct {
	placesService *services.PlacesService
	socialService *services.SocialMediaService
	cfg           *config.Config
}

func NewPlacesHandler(placesService *services.PlacesService, socialService *services.SocialMediaService, cfg *config.Config) *PlacesHandler {
	return &PlacesHandler{
		placesService: placesService,
		socialService: socialService,
		cfg:           cfg,
	}
}

// GET /places/search?latitude=&longitude=&radius=&keyword=
func (h *PlacesHandler) Search(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	lat, latErr := strconv.ParseFloat(c.Query("latitude"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("longitude"), 64)
	if latErr != nil || lngErr != nil {
		// Fall back to the configured home territory
		lat = h.cfg.Google.DefaultLatitude
		lng = h.cfg.Google.DefaultLongitude
	}

	radius, err := strconv.Atoi(c.DefaultQuery("radius", "0"))
	if err != nil || radius <= 0 {
		radius = h.cfg.Google.DefaultRadius
	}

	businesses, err := h.placesService.SearchNearby(c.Request.Context(), lat, lng, radius, c.Query("keyword"))
	if err != nil {
		if errors.Is(err, services.ErrPlacesUnavailable) {
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "PLACES_UNAVAILABLE", i18n.T(lang, i18n.KeyPlacesSearchFailed), nil)
			return
		}
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyPlacesSearchFailed))
		return
	}

	utils.SuccessResponse(c, gin.H{
		"businesses": businesses,
		"count":      len(businesses),
	})
}

// GET /places/text-search?query=
func (h *PlacesHandler) TextSearch(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	query := c.Query("query")
	if query == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "query"), nil)
		return
	}

	businesses, err := h.placesService.SearchText(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, services.ErrPlacesUnavailable) {
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "PLACES_UNAVAILABLE", i18n.T(lang, i18n.KeyPlacesSearchFailed), nil)
			return
		}
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyPlacesSearchFailed))
		return
	}

	utils.SuccessResponse(c, gin.H{
		"businesses": businesses,
		"count":      len(businesses),
	})
}

// GET /places/social-media?businessName=&address=&placeId=&verify=
//
// Never fails: an empty result means nothing could be guessed or probed.
func (h *PlacesHandler) SocialMedia(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	name := c.Query("businessName")
	if name == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "businessName"), nil)
		return
	}

	verify := c.DefaultQuery("verify", "false") == "true"
	links := h.socialService.GetLinks(c.Request.Context(), name, c.Query("address"), c.Query("placeId"), verify)

	utils.SuccessResponse(c, gin.H{
		"socialMedia": links,
	})
}
