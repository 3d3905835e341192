package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/podolab/salon-bot/pkg/logging"
)

const defaultAirtableBaseURL = "https://api.airtable.com/v0"

// airtableTimeLayout is how Airtable serializes the Date field.
const airtableTimeLayout = "2006-01-02T15:04:05.000Z"

var airtableTracer = otel.Tracer("salonbot.internal.storage.airtable")

// airtableFields mirrors the column names of the production base.
type airtableFields struct {
	FullName string `json:"ФИО,omitempty"`
	Phone    string `json:"Телефон,omitempty"`
	Services string `json:"Услуга,omitempty"`
	Date     string `json:"Date,omitempty"`
}

type airtableRecord struct {
	ID     string         `json:"id,omitempty"`
	Fields airtableFields `json:"fields"`
}

type airtableListResponse struct {
	Records []airtableRecord `json:"records"`
}

// AirtableStore talks to the Airtable REST API.
type AirtableStore struct {
	baseURL    string
	baseID     string
	table      string
	token      string
	httpClient *http.Client
	logger     *logging.Logger
}

// AirtableOption configures an AirtableStore.
type AirtableOption func(*AirtableStore)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) AirtableOption {
	return func(s *AirtableStore) {
		s.httpClient = client
	}
}

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(baseURL string) AirtableOption {
	return func(s *AirtableStore) {
		s.baseURL = baseURL
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) AirtableOption {
	return func(s *AirtableStore) {
		s.logger = logger
	}
}

// NewAirtableStore creates a store for one base/table pair.
func NewAirtableStore(baseID, table, token string, opts ...AirtableOption) *AirtableStore {
	s := &AirtableStore{
		baseURL:    defaultAirtableBaseURL,
		baseID:     baseID,
		table:      table,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListByDate queries records whose Date column falls on the given day.
func (s *AirtableStore) ListByDate(ctx context.Context, date time.Time) ([]Record, error) {
	ctx, span := airtableTracer.Start(ctx, "storage.airtable.list_by_date")
	defer span.End()
	dateStr := date.UTC().Format("2006-01-02")
	span.SetAttributes(attribute.String("salon.date", dateStr))

	endpoint := fmt.Sprintf("%s/%s/%s", s.baseURL, s.baseID, url.PathEscape(s.table))
	formula := fmt.Sprintf("DATETIME_FORMAT({Date}, 'YYYY-MM-DD') = '%s'", dateStr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: build list request: %w", err)
	}
	q := req.URL.Query()
	q.Set("filterByFormula", formula)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, backendErr("airtable list", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("status %d: %s", resp.StatusCode, readBodyPrefix(resp.Body))
		span.RecordError(err)
		return nil, backendErr("airtable list", err)
	}

	var payload airtableListResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		span.RecordError(err)
		return nil, backendErr("airtable decode", err)
	}

	records := make([]Record, 0, len(payload.Records))
	for _, rec := range payload.Records {
		if rec.Fields.Date == "" {
			continue
		}
		startsAt, err := parseAirtableTime(rec.Fields.Date)
		if err != nil {
			s.logger.Warn("storage: skipping record with bad datetime",
				"record_id", rec.ID, "value", rec.Fields.Date)
			continue
		}
		records = append(records, Record{
			ID:       rec.ID,
			FullName: rec.Fields.FullName,
			Phone:    rec.Fields.Phone,
			Services: rec.Fields.Services,
			StartsAt: startsAt,
		})
	}
	return records, nil
}

// Create inserts one record and returns the Airtable record id.
func (s *AirtableStore) Create(ctx context.Context, rec Record) (string, error) {
	ctx, span := airtableTracer.Start(ctx, "storage.airtable.create")
	defer span.End()

	body, err := json.Marshal(airtableRecord{
		Fields: airtableFields{
			FullName: rec.FullName,
			Phone:    rec.Phone,
			Services: rec.Services,
			Date:     rec.StartsAt.UTC().Format(airtableTimeLayout),
		},
	})
	if err != nil {
		return "", fmt.Errorf("storage: encode record: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/%s", s.baseURL, s.baseID, url.PathEscape(s.table))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("storage: build create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return "", backendErr("airtable create", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		err := fmt.Errorf("status %d: %s", resp.StatusCode, readBodyPrefix(resp.Body))
		span.RecordError(err)
		return "", backendErr("airtable create", err)
	}

	var created airtableRecord
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		span.RecordError(err)
		return "", backendErr("airtable decode", err)
	}
	s.logger.Info("storage: appointment persisted",
		"record_id", created.ID, "starts_at", rec.StartsAt)
	return created.ID, nil
}

func parseAirtableTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(airtableTimeLayout, v)
}

func readBodyPrefix(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return string(b)
}
