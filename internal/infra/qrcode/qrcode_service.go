package qrcode

import (
	"encoding/json"

	"keystore/config"
	"keystore/internal/domain/service"
	"keystore/internal/errors"

	"github.com/skip2/go-qrcode"
)

const redemptionType = "redemption"

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// RedemptionPayload is the JSON document encoded in a redemption QR code
type RedemptionPayload struct {
	ProductID string `json:"product_id"`
	Code      string `json:"code"`
	Type      string `json:"type"`
}

// NewQRCodeService creates a new QR code service instance from the qrcode config section
func NewQRCodeService(cfg *config.Config) service.QRCodeService {
	size, level := 256, "M"
	if cfg.QRCode != nil {
		if cfg.QRCode.Size > 0 {
			size = cfg.QRCode.Size
		}
		level = cfg.QRCode.ErrorCorrectionLevel
	}

	return newQRCodeService(size, level)
}

func newQRCodeService(size int, errorCorrectionLevel string) *qrcodeService {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GenerateRedemptionQR renders the product's redemption code as a PNG
func (s *qrcodeService) GenerateRedemptionQR(productID, code string) ([]byte, error) {
	if productID == "" || code == "" {
		return nil, errors.New("product id and code are required")
	}

	jsonData, err := json.Marshal(RedemptionPayload{
		ProductID: productID,
		Code:      code,
		Type:      redemptionType,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal QR code data")
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParseRedemptionQR decodes the text content of a scanned redemption QR code
func ParseRedemptionQR(qrData string) (*RedemptionPayload, error) {
	var data RedemptionPayload
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal QR code data")
	}

	if data.Type != redemptionType {
		return nil, errors.Errorf("invalid QR code type: %s", data.Type)
	}
	if data.ProductID == "" || data.Code == "" {
		return nil, errors.New("redemption QR code is missing fields")
	}

	return &data, nil
}
