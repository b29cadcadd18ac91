// internal/field/pipeline/pipeline.go

// Package pipeline models the strictly forward selection wizard: business,
// then review platform, then product and variant. The accumulated context
// feeds the reconciliation flow; no step can be entered until the previous
// one holds a selection.
package pipeline

import (
	"errors"

	"github.com/tapreview/tapreview-backend/internal/models"
)

// Platform keys, matching the social lookup's map keys. Google is the
// canonical platform: its review link is the business's own review URL.
const (
	PlatformGoogle       = "google"
	PlatformFacebook     = "facebook"
	PlatformInstagram    = "instagram"
	PlatformTripadvisor  = "tripadvisor"
	PlatformTrustpilot   = "trustpilot"
	PlatformYell         = "yell"
	PlatformRatedPeople  = "ratedpeople"
	PlatformTrustATrader = "trustatrader"
	PlatformCheckatrade  = "checkatrade"
)

// Platforms lists the selectable review platforms in display order.
var Platforms = []string{
	PlatformGoogle,
	PlatformFacebook,
	PlatformInstagram,
	PlatformTripadvisor,
	PlatformTrustpilot,
	PlatformYell,
	PlatformRatedPeople,
	PlatformTrustATrader,
	PlatformCheckatrade,
}

var (
	ErrNoBusiness = errors.New("pipeline: no business selected")
	ErrNoPlatform = errors.New("pipeline: no review platform selected")
	ErrNoProduct  = errors.New("pipeline: no product selected")
	ErrNoVariants = errors.New("pipeline: product has no variants")
	ErrBadVariant = errors.New("pipeline: variant does not belong to the selected product")
	ErrInactive   = errors.New("pipeline: sign type is not active")
)

// Context is the explicit selection state threaded through the wizard.
// Each Select step validates that the prior steps were completed, so a
// half-built context can never reach the write flow.
type Context struct {
	Business  *models.Business
	Platform  string
	ReviewURL string

	Product *models.Product
	Variant *models.ProductVariant

	SignType *models.SignType
}

// SelectBusiness starts a fresh context. Any previous downstream
// selection is discarded.
func SelectBusiness(business *models.Business) (*Context, error) {
	if business == nil || business.PlaceID == "" {
		return nil, ErrNoBusiness
	}
	return &Context{Business: business}, nil
}

// SelectPlatform resolves the review URL for the chosen platform and
// records both on the context.
func (c *Context) SelectPlatform(platform string) error {
	if c.Business == nil {
		return ErrNoBusiness
	}
	if platform == "" {
		return ErrNoPlatform
	}
	c.Platform = platform
	c.ReviewURL = ResolvePlatformURL(c.Business, platform)
	return nil
}

// SelectProduct picks a catalog product. The variant selection always
// resets to the product's first variant, even if a variant of another
// product was chosen before.
func (c *Context) SelectProduct(product *models.Product) error {
	if c.ReviewURL == "" {
		return ErrNoPlatform
	}
	if product == nil {
		return ErrNoProduct
	}
	if len(product.Variants) == 0 {
		return ErrNoVariants
	}
	c.Product = product
	c.Variant = product.DefaultVariant()
	c.SignType = nil
	return nil
}

// SelectVariant overrides the default variant. The variant must belong
// to the currently selected product.
func (c *Context) SelectVariant(variant *models.ProductVariant) error {
	if c.Product == nil {
		return ErrNoProduct
	}
	if variant == nil || variant.ProductID != c.Product.ID {
		return ErrBadVariant
	}
	c.Variant = variant
	return nil
}

// SelectSignType is the legacy alternative to a product selection. Only
// active sign types are selectable.
func (c *Context) SelectSignType(signType *models.SignType) error {
	if c.ReviewURL == "" {
		return ErrNoPlatform
	}
	if signType == nil {
		return ErrNoProduct
	}
	if !signType.IsActive {
		return ErrInactive
	}
	c.SignType = signType
	c.Product = nil
	c.Variant = nil
	return nil
}

// ReadyToWrite reports whether the context is complete enough to start
// the tag write: business, resolved URL, and a product or sign type.
func (c *Context) ReadyToWrite() error {
	if c.Business == nil {
		return ErrNoBusiness
	}
	if c.Platform == "" || c.ReviewURL == "" {
		return ErrNoPlatform
	}
	if c.Product == nil && c.SignType == nil {
		return ErrNoProduct
	}
	return nil
}

// ResolvePlatformURL picks the link a tag should carry for a platform.
// The precedence is fixed and part of the public contract: the platform's
// own review URL, else its profile URL, else the business's canonical
// review URL. Google always resolves to the canonical review URL.
func ResolvePlatformURL(business *models.Business, platform string) string {
	if platform != PlatformGoogle && business.SocialMedia != nil {
		if links, ok := (*business.SocialMedia)[platform]; ok {
			if links.ReviewURL != "" {
				return links.ReviewURL
			}
			if links.ProfileURL != "" {
				return links.ProfileURL
			}
		}
	}
	return business.ReviewURL
}
