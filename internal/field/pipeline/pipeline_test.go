// internal/field/pipeline/pipeline_test.go
package pipeline

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapreview/tapreview-backend/internal/models"
)

func testBusiness(links *models.SocialMediaLinks) *models.Business {
	return &models.Business{
		PlaceID:     "P1",
		Name:        "Corner Cafe",
		ReviewURL:   "https://g.co/r1",
		SocialMedia: links,
	}
}

func testProduct(name string, labels ...string) *models.Product {
	p := &models.Product{Name: name}
	p.ID = uuid.New()
	for i, label := range labels {
		v := models.ProductVariant{Label: label, Position: i, ProductID: p.ID}
		v.ID = uuid.New()
		p.Variants = append(p.Variants, v)
	}
	return p
}

func TestResolvePlatformURLFallbackChain(t *testing.T) {
	links := models.SocialMediaLinks{
		"facebook": {
			ProfileURL: "https://www.facebook.com/cornercafe",
			ReviewURL:  "https://www.facebook.com/cornercafe/reviews",
		},
		"instagram": {
			ProfileURL: "https://www.instagram.com/cornercafe",
		},
	}
	business := testBusiness(&links)

	tests := []struct {
		platform string
		want     string
	}{
		{PlatformGoogle, "https://g.co/r1"},
		{PlatformFacebook, "https://www.facebook.com/cornercafe/reviews"}, // review beats profile
		{PlatformInstagram, "https://www.instagram.com/cornercafe"},       // profile, no review link
		{PlatformTrustpilot, "https://g.co/r1"},                           // nothing found, canonical
		{PlatformYell, "https://g.co/r1"},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePlatformURL(business, tt.platform))
		})
	}
}

func TestResolvePlatformURLNoSocialLinks(t *testing.T) {
	business := testBusiness(nil)

	// with no social links, every platform resolves to the canonical URL
	for _, platform := range Platforms {
		assert.Equal(t, "https://g.co/r1", ResolvePlatformURL(business, platform), platform)
	}
}

func TestForwardOnlySteps(t *testing.T) {
	_, err := SelectBusiness(nil)
	assert.ErrorIs(t, err, ErrNoBusiness)

	ctx, err := SelectBusiness(testBusiness(nil))
	require.NoError(t, err)

	// cannot pick a product before a platform
	assert.ErrorIs(t, ctx.SelectProduct(testProduct("A5 Sign", "Black")), ErrNoPlatform)
	assert.ErrorIs(t, ctx.ReadyToWrite(), ErrNoPlatform)

	require.NoError(t, ctx.SelectPlatform(PlatformGoogle))
	assert.Equal(t, "https://g.co/r1", ctx.ReviewURL)

	// still not ready without a product
	assert.ErrorIs(t, ctx.ReadyToWrite(), ErrNoProduct)

	require.NoError(t, ctx.SelectProduct(testProduct("A5 Sign", "Black", "White")))
	assert.NoError(t, ctx.ReadyToWrite())
}

func TestVariantDefaultsAndReset(t *testing.T) {
	ctx, err := SelectBusiness(testBusiness(nil))
	require.NoError(t, err)
	require.NoError(t, ctx.SelectPlatform(PlatformGoogle))

	first := testProduct("A5 Sign", "Black", "White", "Gold")
	require.NoError(t, ctx.SelectProduct(first))
	assert.Equal(t, "Black", ctx.Variant.Label)

	// pick variant 2, then switch product: selection resets to variants[0]
	require.NoError(t, ctx.SelectVariant(&first.Variants[2]))
	assert.Equal(t, "Gold", ctx.Variant.Label)

	second := testProduct("Window Sticker", "Small", "Large")
	require.NoError(t, ctx.SelectProduct(second))
	assert.Equal(t, "Small", ctx.Variant.Label)

	// a variant from the old product is rejected
	assert.ErrorIs(t, ctx.SelectVariant(&first.Variants[1]), ErrBadVariant)
}

func TestProductMustHaveVariants(t *testing.T) {
	ctx, err := SelectBusiness(testBusiness(nil))
	require.NoError(t, err)
	require.NoError(t, ctx.SelectPlatform(PlatformGoogle))

	empty := &models.Product{Name: "Broken"}
	assert.ErrorIs(t, ctx.SelectProduct(empty), ErrNoVariants)
}

func TestSignTypeSelection(t *testing.T) {
	ctx, err := SelectBusiness(testBusiness(nil))
	require.NoError(t, err)
	require.NoError(t, ctx.SelectPlatform(PlatformGoogle))

	inactive := &models.SignType{Name: "Retired", IsActive: false}
	assert.ErrorIs(t, ctx.SelectSignType(inactive), ErrInactive)

	active := &models.SignType{Name: "A5 Sign", IsActive: true}
	require.NoError(t, ctx.SelectSignType(active))
	assert.NoError(t, ctx.ReadyToWrite())

	// switching to a sign type clears any product selection and back
	require.NoError(t, ctx.SelectProduct(testProduct("A5 Sign", "Black")))
	assert.Nil(t, ctx.SignType)
	assert.NotNil(t, ctx.Variant)
}
