package qrcode

import (
	"testing"

	"keystore/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertPNG(t *testing.T, data []byte) {
	t.Helper()

	require.GreaterOrEqual(t, len(data), 4)
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, data[:4])
}

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		errorCorrectionLevel string
	}{
		{"Low error correction", "L"},
		{"Medium error correction", "M"},
		{"High error correction", "Q"},
		{"Highest error correction", "H"},
		{"Default error correction", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{QRCode: &config.QRCodeConfig{Size: 128, ErrorCorrectionLevel: tt.errorCorrectionLevel}}
			svc := NewQRCodeService(cfg)
			require.NotNil(t, svc)

			png, err := svc.GenerateRedemptionQR("1", "3WPIB-4XQJC-5YRKD")
			require.NoError(t, err)
			assertPNG(t, png)
		})
	}
}

func TestQRCodeService_MissingConfigSection(t *testing.T) {
	svc, ok := NewQRCodeService(&config.Config{}).(*qrcodeService)
	require.True(t, ok)
	assert.Equal(t, 256, svc.size)
}

func TestQRCodeService_GenerateRedemptionQR_DifferentSizes(t *testing.T) {
	for _, size := range []int{128, 256, 512} {
		svc := newQRCodeService(size, "M")

		png, err := svc.GenerateRedemptionQR("game-1", "ABCDE-FGHIJ-KLMNO")
		require.NoError(t, err)
		assertPNG(t, png)
	}
}

func TestQRCodeService_GenerateRedemptionQR_RequiresFields(t *testing.T) {
	svc := newQRCodeService(256, "M")

	_, err := svc.GenerateRedemptionQR("", "ABCDE-FGHIJ-KLMNO")
	assert.Error(t, err)

	_, err = svc.GenerateRedemptionQR("game-1", "")
	assert.Error(t, err)
}

func TestParseRedemptionQR(t *testing.T) {
	payload, err := ParseRedemptionQR(`{"product_id":"game-1","code":"ABCDE-FGHIJ-KLMNO","type":"redemption"}`)
	require.NoError(t, err)
	assert.Equal(t, "game-1", payload.ProductID)
	assert.Equal(t, "ABCDE-FGHIJ-KLMNO", payload.Code)
}

func TestParseRedemptionQR_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "hello"},
		{"wrong type", `{"product_id":"game-1","code":"X","type":"subscription"}`},
		{"missing code", `{"product_id":"game-1","type":"redemption"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRedemptionQR(tt.data)
			assert.Error(t, err)
		})
	}
}
