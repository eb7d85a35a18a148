package usecase

import (
	"strings"
	"testing"
	"time"

	orderdomain "etsy-scanner-backend/internal/order/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCSV(t *testing.T) {
	orderDate := time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

	t.Run("header only for empty set", func(t *testing.T) {
		assert.Equal(t,
			"Order ID,Buyer Email,Product Name,Shop Name,Product Options,Order Date",
			GenerateCSV(nil))
	})

	t.Run("quoting and escaping", func(t *testing.T) {
		orders := []*orderdomain.OrderRecord{
			{
				OrderID:        "12345",
				BuyerEmail:     "buyer@example.com",
				ProductName:    `Mug with "handle"`,
				ShopName:       "CraftCo",
				ProductOptions: orderdomain.ProductOptions{"Size": "M"},
				OrderDate:      orderDate,
			},
		}

		csv := GenerateCSV(orders)
		lines := strings.Split(csv, "\n")
		require.Len(t, lines, 2)

		assert.Equal(t,
			`12345,buyer@example.com,"Mug with ""handle""","CraftCo","{""Size"":""M""}",2025-03-15T10:30:00Z`,
			lines[1])
	})

	t.Run("nil options serialize as empty object", func(t *testing.T) {
		orders := []*orderdomain.OrderRecord{
			{
				OrderID:     "99",
				BuyerEmail:  "b@example.com",
				ProductName: "Vase",
				ShopName:    "PotteryWorld",
				OrderDate:   orderDate,
			},
		}

		csv := GenerateCSV(orders)
		assert.Contains(t, csv, `"{}"`)
	})

	t.Run("no trailing newline", func(t *testing.T) {
		csv := GenerateCSV([]*orderdomain.OrderRecord{{OrderID: "1", OrderDate: orderDate}})
		assert.False(t, strings.HasSuffix(csv, "\n"))
	})
}
