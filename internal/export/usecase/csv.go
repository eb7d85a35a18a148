package usecase

import (
	"encoding/json"
	"strings"
	"time"

	orderdomain "etsy-scanner-backend/internal/order/domain"
)

// csvHeader is the fixed export header row.
const csvHeader = "Order ID,Buyer Email,Product Name,Shop Name,Product Options,Order Date"

// GenerateCSV serializes orders into the export format: product name, shop
// name and the options mapping are double-quoted with embedded quotes doubled;
// the options field is the mapping rendered as JSON text.
func GenerateCSV(orders []*orderdomain.OrderRecord) string {
	rows := make([]string, 0, len(orders)+1)
	rows = append(rows, csvHeader)

	for _, order := range orders {
		options := order.ProductOptions
		if options == nil {
			options = orderdomain.ProductOptions{}
		}
		optionsJSON, err := json.Marshal(options)
		if err != nil {
			optionsJSON = []byte("{}")
		}

		fields := []string{
			order.OrderID,
			order.BuyerEmail,
			quoteField(order.ProductName),
			quoteField(order.ShopName),
			quoteField(string(optionsJSON)),
			order.OrderDate.UTC().Format(time.RFC3339),
		}
		rows = append(rows, strings.Join(fields, ","))
	}

	return strings.Join(rows, "\n")
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
