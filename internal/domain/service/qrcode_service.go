package service

// QRCodeService renders redemption codes as scannable images
type QRCodeService interface {
	// GenerateRedemptionQR encodes a redemption code for a product as a PNG
	GenerateRedemptionQR(productID, code string) ([]byte, error)
}
