// internal/services/social_service.go
package services

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/tapreview/tapreview-backend/internal/cache"
	"github.com/tapreview/tapreview-backend/internal/config"
	"github.com/tapreview/tapreview-backend/internal/models"
	"github.com/tapreview/tapreview-backend/internal/utils"
)

// SocialMediaService is a best-effort profile-link finder. It guesses
// profile URLs from the business name per platform, optionally verifies
// them with a HEAD probe, and caches whatever it found. It never returns
// an error to its callers: a failed lookup is an empty result, and an
// absent platform key means "not found".
type SocialMediaService struct {
	cfg        *config.Config
	rdb        *redis.Client
	httpClient *http.Client
}

// candidate URL template per platform. Platforms whose directory pages are
// review surfaces get a review URL instead of a profile URL.
type platformPattern struct {
	key       string
	template  string // %s is the business slug
	hasReview bool
}

var platformPatterns = []platformPattern{
	{key: "facebook", template: "https://www.facebook.com/%s", hasReview: true},
	{key: "instagram", template: "https://www.instagram.com/%s"},
	{key: "tiktok", template: "https://www.tiktok.com/@%s"},
	{key: "twitter", template: "https://x.com/%s"},
	{key: "linkedin", template: "https://www.linkedin.com/company/%s"},
	{key: "tripadvisor", template: "https://www.tripadvisor.co.uk/Search?q=%s", hasReview: true},
	{key: "trustpilot", template: "https://uk.trustpilot.com/review/%s", hasReview: true},
	{key: "yell", template: "https://www.yell.com/s/%s.html"},
	{key: "ratedpeople", template: "https://www.ratedpeople.com/profile/%s"},
	{key: "trustatrader", template: "https://www.trustatrader.com/traders/%s"},
	{key: "checkatrade", template: "https://www.checkatrade.com/trades/%s"},
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

func NewSocialMediaService(cfg *config.Config, rdb *redis.Client) *SocialMediaService {
	return &SocialMediaService{
		cfg: cfg,
		rdb: rdb,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Social.LookupTimeout) * time.Second,
		},
	}
}

// GetLinks resolves social links for a business. placeId keys the cache
// when present; otherwise the name+address pair does.
func (s *SocialMediaService) GetLinks(ctx context.Context, businessName, address, placeID string, verify bool) models.SocialMediaLinks {
	cacheKey := "social:" + placeID
	if placeID == "" {
		cacheKey = "social:" + utils.HashString(strings.ToLower(businessName+"|"+address))
	}

	var cached models.SocialMediaLinks
	if hit, err := cache.GetObject(ctx, s.rdb, cacheKey, &cached); err == nil && hit {
		return cached
	}

	links := s.lookup(ctx, businessName, verify)

	cache.SetObject(ctx, s.rdb, cacheKey, links,
		time.Duration(s.cfg.Social.CacheTTL)*time.Hour)

	return links
}

func (s *SocialMediaService) lookup(ctx context.Context, businessName string, verify bool) models.SocialMediaLinks {
	slug := Slugify(businessName)
	links := models.SocialMediaLinks{}
	if slug == "" {
		return links
	}

	for _, p := range platformPatterns {
		url := strings.Replace(p.template, "%s", slug, 1)

		if verify && !s.probe(ctx, url) {
			continue
		}

		entry := models.PlatformLinks{}
		if p.hasReview {
			entry.ReviewURL = url
		} else {
			entry.ProfileURL = url
		}
		links[p.key] = entry
	}

	return links
}

// probe checks that a guessed URL resolves. Any transport error or client
// error status counts as "not found".
func (s *SocialMediaService) probe(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).WithField("url", url).Debug("Social probe failed")
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < http.StatusBadRequest
}

// Slugify lowercases a business name and strips everything that is not a
// letter or digit, matching how most platforms build vanity URLs.
func Slugify(name string) string {
	return slugStrip.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "")
}
