package responder

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/doorstep-labs/proptext/internal/models"
	"github.com/doorstep-labs/proptext/internal/storage"
)

const (
	listingAttempts   = 3
	listingRetryDelay = 3 * time.Second
	fallbackListings  = 10

	// noListingData is the exact sentence returned when the store stays
	// unreachable through all retries.
	noListingData = "No property data available at the moment."
)

var (
	bedroomPattern = regexp.MustCompile(`(?i)(\d)\s*(?:br|bed)`)
	pricePattern   = regexp.MustCompile(`(?i)(?:under|below|max|budget|less than)\s*\$?\s*(\d{3,4})`)
)

// listingIntent holds the signals extracted from the prospect's message.
type listingIntent struct {
	Beds    int
	City    string
	MaxRent float64
}

// extractIntent pulls bedroom count, city, and price ceiling out of free
// text. Best effort; missing signals stay zero. Cities are scanned in the
// order given (alphabetical from the store) and the first substring match
// wins.
func extractIntent(message string, cities []string) listingIntent {
	var intent listingIntent
	lower := strings.ToLower(message)

	if m := bedroomPattern.FindStringSubmatch(message); m != nil {
		intent.Beds, _ = strconv.Atoi(m[1])
	}

	for _, city := range cities {
		if city != "" && strings.Contains(lower, strings.ToLower(city)) {
			intent.City = city
			break
		}
	}

	if m := pricePattern.FindStringSubmatch(message); m != nil {
		if ceiling, err := strconv.Atoi(m[1]); err == nil {
			intent.MaxRent = float64(ceiling)
		}
	}

	return intent
}

// buildListings assembles the prospect-facing property context from the
// inbound message. The store query is retried to ride out a cold-started
// backend; after exhaustion the caller gets the no-data sentence instead of
// an error.
func (r *Responder) buildListings(ctx context.Context, message string) string {
	block, err := withRetry(ctx, listingAttempts, r.retryDelay, func(ctx context.Context) (string, error) {
		return r.queryListings(ctx, message)
	})
	if err != nil {
		r.logger.Error("Listing query failed after retries", zap.Error(err))
		return noListingData
	}
	return block
}

func (r *Responder) queryListings(ctx context.Context, message string) (string, error) {
	cities, err := r.store.ListActiveCities(ctx)
	if err != nil {
		return "", err
	}

	intent := extractIntent(message, cities)

	props, err := r.store.ListActiveProperties(ctx, storage.ListingFilter{
		City:    intent.City,
		Beds:    intent.Beds,
		MaxRent: intent.MaxRent,
		Limit:   r.opts.ListingCap,
	})
	if err != nil {
		return "", err
	}

	if len(props) == 0 {
		// Nothing matched the extracted intent; show the portfolio instead
		// of an empty reply.
		props, err = r.store.ListActiveProperties(ctx, storage.ListingFilter{Limit: fallbackListings})
		if err != nil {
			return "", err
		}
	}

	if len(props) > r.opts.ListingCap {
		props = props[:r.opts.ListingCap]
	}

	return renderListings(props), nil
}

func renderListings(props []models.Property) string {
	if len(props) == 0 {
		return noListingData
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Showing %d of our active listings:\n", len(props))

	for _, p := range props {
		b.WriteString("\nPROPERTY: " + p.Name + "\n")
		if addr := p.Address(); addr != "" {
			b.WriteString("Address: " + addr + "\n")
		}
		if p.Type != "" {
			b.WriteString("Type: " + p.Type + "\n")
		}
		if p.Description != "" {
			b.WriteString("Description: " + p.Description + "\n")
		}
		if len(p.Amenities) > 0 {
			b.WriteString("Amenities: " + strings.Join(p.Amenities, ", ") + "\n")
		}
		b.WriteString("Pet policy (small dogs): " + orNone(p.PetPolicySmallDogs) + "\n")
		b.WriteString("Pet policy (large dogs): " + orNone(p.PetPolicyLargeDogs) + "\n")
		b.WriteString("Pet policy (cats): " + orNone(p.PetPolicyCats) + "\n")

		if len(p.Units) > 0 {
			b.WriteString("Units:\n")
			for _, u := range p.Units {
				fmt.Fprintf(&b, "  - %s: %s bed / %s bath, %d sqft, $%.0f/mo",
					u.Name, trimFloat(u.Beds), trimFloat(u.Baths), u.Size, u.MarketRent)
				if len(u.Amenities) > 0 {
					b.WriteString(" (amenities: " + strings.Join(u.Amenities, ", ") + ")")
				}
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "not specified"
	}
	return s
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
