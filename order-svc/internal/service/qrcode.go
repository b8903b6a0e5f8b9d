package service

import (
	"table-ordering/order-svc/internal/domain"

	"github.com/skip2/go-qrcode"
)

const defaultQRSize = 256

// TableQRGenerator renders the code printed on a table card.
type TableQRGenerator struct {
	Size int
}

func (g TableQRGenerator) Generate(table domain.Table) ([]byte, error) {
	size := g.Size
	if size <= 0 {
		size = defaultQRSize
	}
	return qrcode.Encode(table.Code(), qrcode.Medium, size)
}
