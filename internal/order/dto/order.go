package dto

import (
	orderdomain "etsy-scanner-backend/internal/order/domain"
)

type OrdersResponse struct {
	Orders []*orderdomain.OrderRecord `json:"orders"`
	Limit  int                        `json:"limit"`
	Offset int                        `json:"offset"`
	Total  int64                      `json:"total"`
}

type ScanStartedResponse struct {
	OwnerEmail string `json:"owner_email"`
	Status     string `json:"status"`
}
