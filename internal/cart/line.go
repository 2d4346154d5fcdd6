package cart

import (
	"github.com/argentum-atelier/storefront-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// Line is one product entry in a cart. Name, price and image are snapshots
// taken when the product was first added; later catalog changes never touch
// lines already in the cart.
type Line struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  string          `json:"image_url"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns unit price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func snapshotLine(product models.Product, quantity int) Line {
	return Line{
		ProductID: product.ID.String(),
		Name:      product.Name,
		UnitPrice: product.Price,
		ImageURL:  product.ImageURL,
		Quantity:  quantity,
	}
}
