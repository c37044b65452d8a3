// Package doorloop pulls property, unit, lease, task, and people records
// from the DoorLoop API into the local store. Pure paginated fetch and
// upsert; all decision logic lives in the responder.
package doorloop

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const syncPageSize = 100

type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetAuthToken(apiKey).
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		logger:     logger,
	}
}

type listResponse struct {
	Data  []json.RawMessage `json:"data"`
	Total int               `json:"total"`
}

// fetchAll walks every page of a DoorLoop list endpoint.
func (c *Client) fetchAll(ctx context.Context, endpoint string) ([]json.RawMessage, error) {
	var all []json.RawMessage

	for page := 1; ; page++ {
		var result listResponse
		resp, err := c.httpClient.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"page_number": strconv.Itoa(page),
				"page_size":   strconv.Itoa(syncPageSize),
			}).
			SetResult(&result).
			Get(endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", endpoint, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("doorloop API error %d on %s: %s", resp.StatusCode(), endpoint, resp.String())
		}

		all = append(all, result.Data...)

		if len(result.Data) < syncPageSize {
			break
		}
	}

	c.logger.Debug("Fetched DoorLoop records",
		zap.String("endpoint", endpoint),
		zap.Int("count", len(all)))

	return all, nil
}

// Provider payload shapes, limited to the fields the sync reads. The full
// raw record is kept alongside the mapped row.

type address struct {
	Street1 string `json:"street1"`
	Street2 string `json:"street2"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

type petRestrictions struct {
	Restrictions string `json:"restrictions"`
}

type petsPolicy struct {
	SmallDogs petRestrictions `json:"smallDogs"`
	LargeDogs petRestrictions `json:"largeDogs"`
	Cats      petRestrictions `json:"cats"`
}

type propertyRecord struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Address     address    `json:"address"`
	Type        string     `json:"type"`
	Active      *bool      `json:"active"`
	Amenities   []string   `json:"amenities"`
	PetsPolicy  petsPolicy `json:"petsPolicy"`
}

type unitRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Property    string   `json:"property"`
	Beds        float64  `json:"beds"`
	Baths       float64  `json:"baths"`
	Size        int      `json:"size"`
	MarketRent  float64  `json:"marketRent"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities"`
	Active      *bool    `json:"active"`
}

type leaseRecord struct {
	ID           string   `json:"id"`
	Property     string   `json:"property"`
	Units        []string `json:"units"`
	Tenants      []string `json:"tenants"`
	Status       string   `json:"status"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	TotalRent    float64  `json:"totalRecurringRent"`
	TotalDeposit float64  `json:"totalDepositsHeld"`
}

type taskRecord struct {
	ID          string `json:"id"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Property    string `json:"property"`
	Unit        string `json:"unit"`
	Tenant      string `json:"requestedByTenant"`
	Assignee    string `json:"assignedToName"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type personRecord struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Notes     string `json:"notes"`
	Phones    []struct {
		Type   string `json:"type"`
		Number string `json:"number"`
	} `json:"phones"`
	Emails []struct {
		Address string `json:"address"`
	} `json:"emails"`
}
