package usecase

import (
	"fmt"
	"time"

	orderdomain "etsy-scanner-backend/internal/order/domain"
	"etsy-scanner-backend/internal/order/parser"
)

// DefaultLookbackYears is how far back the first scan reaches when no
// metadata exists yet for the owner.
const DefaultLookbackYears = 3

// saleSubjectPhrase narrows the provider search to sale notifications.
const saleSubjectPhrase = "You made a sale on Etsy"

// SearchQuery is one provider search the fetcher should run.
type SearchQuery struct {
	Label string
	Query string
}

// PlanQueries computes the minimal set of search queries covering mailbox
// ranges not yet scanned. It is a pure function of the owner's scan metadata
// and persisted order-date boundaries:
//
//   - empty history: one query for everything after the global oldest date
//   - existing history: one query for arrivals after the newest order, plus
//     one for the gap between the global oldest date and the oldest order,
//     in case an earlier scan was interrupted or its window was narrower
func PlanQueries(metadata *orderdomain.ScanMetadata, newest, oldest *time.Time) []SearchQuery {
	if newest == nil {
		return []SearchQuery{
			{Label: "first-run", Query: buildQuery(metadata.GlobalOldestDate, nil)},
		}
	}

	queries := []SearchQuery{
		{Label: "new-arrivals", Query: buildQuery(*newest, nil)},
	}
	if oldest != nil {
		queries = append(queries, SearchQuery{
			Label: "history-gap",
			Query: buildQuery(metadata.GlobalOldestDate, oldest),
		})
	}
	return queries
}

// buildQuery renders a Gmail search expression filtered by the vendor sender
// and the fixed sale-subject phrase, with unix-second time bounds.
func buildQuery(after time.Time, before *time.Time) string {
	q := fmt.Sprintf("from:%s %q after:%d", parser.VendorSender, saleSubjectPhrase, after.Unix())
	if before != nil {
		q += fmt.Sprintf(" before:%d", before.Unix())
	}
	return q
}

// DefaultGlobalOldestDate returns the lazily-created lookback boundary for a
// first-ever scan.
func DefaultGlobalOldestDate(now time.Time) time.Time {
	return now.AddDate(-DefaultLookbackYears, 0, 0)
}
