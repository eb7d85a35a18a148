package parser

import (
	"net/mail"
	"regexp"
	"time"

	"etsy-scanner-backend/internal/order/domain"

	"github.com/google/uuid"
	"google.golang.org/api/gmail/v1"
)

var orderIDPattern = regexp.MustCompile(`Order #(\d+)`)

// ParseOrderMessage turns one fetched message into an order record, or nil
// when the message is rejected. Rejection is deliberate, not an error: no
// order id in the subject, no buyer email, or an unparseable date header all
// return nil and the scan moves on.
func ParseOrderMessage(msg *gmail.Message, ownerEmail string, now time.Time) *domain.OrderRecord {
	if msg == nil || msg.Payload == nil {
		return nil
	}

	subject := getHeader(msg.Payload.Headers, "Subject")
	orderMatch := orderIDPattern.FindStringSubmatch(subject)
	if orderMatch == nil {
		return nil
	}
	orderID := orderMatch[1]

	content := DecodeBody(msg)
	if content == "" {
		return nil
	}

	buyerEmail, ok := ExtractBuyerEmail(content)
	if !ok {
		return nil
	}

	orderDate, err := mail.ParseDate(getHeader(msg.Payload.Headers, "Date"))
	if err != nil {
		return nil
	}

	return &domain.OrderRecord{
		ID:             uuid.New().String(),
		OrderID:        orderID,
		OwnerEmail:     ownerEmail,
		BuyerEmail:     buyerEmail,
		ProductName:    ExtractProductName(content),
		ShopName:       ExtractShopName(content),
		ProductOptions: ExtractProductOptions(content),
		OrderDate:      orderDate,
		ExtractedDate:  now,
		MessageID:      msg.Id,
		ThreadID:       msg.ThreadId,
	}
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if header.Name == name {
			return header.Value
		}
	}
	return ""
}
