package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBuyerEmail(t *testing.T) {
	t.Run("prefers mailto link", func(t *testing.T) {
		content := `Contact <a href="mailto:buyer@example.com">the buyer</a> or reply to seller@shop.net`
		email, ok := ExtractBuyerEmail(content)
		assert.True(t, ok)
		assert.Equal(t, "buyer@example.com", email)
	})

	t.Run("skips vendor mailto and keeps searching", func(t *testing.T) {
		content := `mailto:transaction@etsy.com mailto:real.buyer@gmail.com`
		email, ok := ExtractBuyerEmail(content)
		assert.True(t, ok)
		assert.Equal(t, "real.buyer@gmail.com", email)
	})

	t.Run("falls back to plain addresses excluding vendor domain", func(t *testing.T) {
		content := `Sent via noreply@etsy.com; buyer is jane.doe@example.org`
		email, ok := ExtractBuyerEmail(content)
		assert.True(t, ok)
		assert.Equal(t, "jane.doe@example.org", email)
	})

	t.Run("absent when only vendor addresses present", func(t *testing.T) {
		content := `from transaction@etsy.com and help@etsy.com`
		_, ok := ExtractBuyerEmail(content)
		assert.False(t, ok)
	})
}

func TestExtractProductName(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"item-name div", `<div class="item-name">Ceramic Vase</div>`, "Ceramic Vase"},
		{"item line", "Item: Blue Mug\nQuantity: 1", "Blue Mug"},
		{"title line", "Title: Knitted Scarf\n", "Knitted Scarf"},
		{"div wins over item line", `<div class="item-name">Vase</div> Item: Mug`, "Vase"},
		{"subject bracket fallback", "Subject: Your Order confirmation [Wool Hat]\nbody", "Wool Hat"},
		{"sentinel default", "no recognizable product here", UnknownProduct},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractProductName(tt.content))
		})
	}
}

func TestExtractShopName(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"shop name line", "Shop name: CraftCo\n", "CraftCo"},
		{"shop line", "Shop: PotteryWorld\n", "PotteryWorld"},
		{"seller line", "Seller: WoolWorks\n", "WoolWorks"},
		{"subject from fallback", "Subject: Sale from GemStore - order details\n", "GemStore"},
		{"sentinel default", "nothing here", UnknownShop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractShopName(tt.content))
		})
	}
}

func TestExtractProductOptions(t *testing.T) {
	t.Run("collects known keys", func(t *testing.T) {
		content := "Size: M, Color: Blue\nStyle: Modern\nMaterial: Clay"
		options := ExtractProductOptions(content)
		assert.Equal(t, map[string]string{
			"Size":  "M",
			"Color": "Blue",
			"Style": "Modern",
		}, options)
	})

	t.Run("case insensitive keys", func(t *testing.T) {
		options := ExtractProductOptions("size: XL\n")
		assert.Equal(t, map[string]string{"size": "XL"}, options)
	})

	t.Run("value terminated by comma", func(t *testing.T) {
		options := ExtractProductOptions("Type: Gift wrap, and more text")
		assert.Equal(t, map[string]string{"Type": "Gift wrap"}, options)
	})

	t.Run("nil when no options found", func(t *testing.T) {
		options := ExtractProductOptions("nothing to see")
		assert.Nil(t, options)
	})
}
