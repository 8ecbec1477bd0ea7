package service

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1uv0cean/fwd-link/internal/domain"
)

func TestValidateBrandingParams(t *testing.T) {
	t.Run("valid params are normalized", func(t *testing.T) {
		params := domain.BrandingUpdateParams{
			UserID:       uuid.New(),
			CompanyName:  "  Pacific Forwarding Co.  ",
			PrimaryColor: " #1A2B3C ",
			ContactEmail: "  Sales@Pacific-Fwd.com ",
			ContactPhone: " +82-2-1234-5678 ",
		}

		err := validateBrandingParams(&params)
		require.NoError(t, err)

		assert.Equal(t, "Pacific Forwarding Co.", params.CompanyName)
		assert.Equal(t, "#1A2B3C", params.PrimaryColor)
		assert.Equal(t, "sales@pacific-fwd.com", params.ContactEmail)
		assert.Equal(t, "+82-2-1234-5678", params.ContactPhone)
	})

	t.Run("empty params are valid", func(t *testing.T) {
		params := domain.BrandingUpdateParams{UserID: uuid.New()}
		assert.NoError(t, validateBrandingParams(&params))
	})

	tests := []struct {
		name   string
		modify func(*domain.BrandingUpdateParams)
	}{
		{
			name: "company name too long",
			modify: func(p *domain.BrandingUpdateParams) {
				p.CompanyName = strings.Repeat("a", MaxCompanyNameLength+1)
			},
		},
		{
			name: "color missing hash",
			modify: func(p *domain.BrandingUpdateParams) {
				p.PrimaryColor = "1A2B3C"
			},
		},
		{
			name: "color wrong length",
			modify: func(p *domain.BrandingUpdateParams) {
				p.PrimaryColor = "#FFF"
			},
		},
		{
			name: "color non-hex characters",
			modify: func(p *domain.BrandingUpdateParams) {
				p.PrimaryColor = "#GGGGGG"
			},
		},
		{
			name: "contact email too long",
			modify: func(p *domain.BrandingUpdateParams) {
				p.ContactEmail = strings.Repeat("a", MaxContactEmailLength) + "@example.com"
			},
		},
		{
			name: "contact email malformed",
			modify: func(p *domain.BrandingUpdateParams) {
				p.ContactEmail = "not-an-email"
			},
		},
		{
			name: "contact phone too long",
			modify: func(p *domain.BrandingUpdateParams) {
				p.ContactPhone = strings.Repeat("1", MaxContactPhoneLength+1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := domain.BrandingUpdateParams{UserID: uuid.New()}
			tt.modify(&params)

			err := validateBrandingParams(&params)
			require.Error(t, err)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		})
	}
}

func TestDecodeLogoPayload(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	encoded := base64.StdEncoding.EncodeToString(raw)

	t.Run("plain base64", func(t *testing.T) {
		got, err := decodeLogoPayload(encoded)
		require.NoError(t, err)
		assert.Equal(t, raw, got)
	})

	t.Run("data URL prefix", func(t *testing.T) {
		got, err := decodeLogoPayload("data:image/png;base64," + encoded)
		require.NoError(t, err)
		assert.Equal(t, raw, got)
	})

	t.Run("surrounding whitespace", func(t *testing.T) {
		got, err := decodeLogoPayload("  " + encoded + "\n")
		require.NoError(t, err)
		assert.Equal(t, raw, got)
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, err := decodeLogoPayload("!!not base64!!")
		assert.Error(t, err)
	})
}
