// Package fixtures loads currency metadata and exchange rates from CSV files
// so deployments can seed and refresh reference data without a client.
package fixtures

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sterlingfx/currency_converter_app/internal/core/domain"
	portssvc "github.com/sterlingfx/currency_converter_app/internal/core/ports/services"
)

const (
	currenciesFile = "currencies.csv"
	ratesFile      = "rates.csv"
)

// Loader reads fixture CSVs from a directory and imports them through the
// writer services, so fixture rows face the same validation as API writes.
type Loader struct {
	currencySvc  portssvc.CurrencyWriterSvc
	rateSvc      portssvc.ExchangeRateWriterSvc
	baseCurrency string
	dir          string
}

// NewLoader creates a fixture loader rooted at dir.
func NewLoader(dir, baseCurrency string, currencySvc portssvc.CurrencyWriterSvc, rateSvc portssvc.ExchangeRateWriterSvc) *Loader {
	return &Loader{
		currencySvc:  currencySvc,
		rateSvc:      rateSvc,
		baseCurrency: strings.ToUpper(strings.TrimSpace(baseCurrency)),
		dir:          dir,
	}
}

// Load imports currencies first, then rates, so rate rows can reference
// currencies created in the same run. A missing file is skipped; a bad row
// aborts its file with a row-numbered error.
func (l *Loader) Load(ctx context.Context) error {
	if err := l.loadCurrencies(ctx); err != nil {
		return fmt.Errorf("load currencies: %w", err)
	}
	if err := l.loadRates(ctx); err != nil {
		return fmt.Errorf("load rates: %w", err)
	}
	return nil
}

func (l *Loader) loadCurrencies(ctx context.Context) error {
	records, err := l.readFixtureFile(currenciesFile)
	if err != nil || records == nil {
		return err
	}

	now := time.Now()
	currencies := make([]domain.Currency, 0, len(records))
	for _, rec := range records {
		if len(rec.fields) != 4 {
			return fmt.Errorf("%s row %d: expected 4 fields (currency_code,name,symbol,precision), got %d", currenciesFile, rec.row, len(rec.fields))
		}

		code := strings.ToUpper(strings.TrimSpace(rec.fields[0]))
		if len(code) != 3 {
			return fmt.Errorf("%s row %d: currency code %q must be 3 letters", currenciesFile, rec.row, rec.fields[0])
		}
		name := strings.TrimSpace(rec.fields[1])
		if name == "" {
			return fmt.Errorf("%s row %d: name is required", currenciesFile, rec.row)
		}
		symbol := strings.TrimSpace(rec.fields[2])
		if symbol == "" {
			return fmt.Errorf("%s row %d: symbol is required", currenciesFile, rec.row)
		}
		precision, err := strconv.Atoi(strings.TrimSpace(rec.fields[3]))
		if err != nil || precision < 0 {
			return fmt.Errorf("%s row %d: precision %q must be a non-negative integer", currenciesFile, rec.row, rec.fields[3])
		}

		currencies = append(currencies, domain.Currency{
			CurrencyCode: code,
			Name:         name,
			Symbol:       symbol,
			Precision:    precision,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     domain.FixtureActor,
				LastUpdatedAt: now,
				LastUpdatedBy: domain.FixtureActor,
			},
		})
	}

	if err := l.currencySvc.ImportCurrencies(ctx, currencies); err != nil {
		return err
	}
	slog.Info("Loaded currency fixtures", slog.Int("count", len(currencies)))
	return nil
}

func (l *Loader) loadRates(ctx context.Context) error {
	records, err := l.readFixtureFile(ratesFile)
	if err != nil || records == nil {
		return err
	}

	now := time.Now()
	rates := make([]domain.ExchangeRate, 0, len(records))
	for _, rec := range records {
		if len(rec.fields) != 4 {
			return fmt.Errorf("%s row %d: expected 4 fields (currency_code,rate,valid_from,valid_to), got %d", ratesFile, rec.row, len(rec.fields))
		}

		code := strings.ToUpper(strings.TrimSpace(rec.fields[0]))
		if len(code) != 3 {
			return fmt.Errorf("%s row %d: currency code %q must be 3 letters", ratesFile, rec.row, rec.fields[0])
		}
		if code == l.baseCurrency {
			return fmt.Errorf("%s row %d: the base currency %s has an implicit rate of 1 and must not appear", ratesFile, rec.row, l.baseCurrency)
		}

		rate, err := decimal.NewFromString(strings.TrimSpace(rec.fields[1]))
		if err != nil {
			return fmt.Errorf("%s row %d: rate %q is not a decimal", ratesFile, rec.row, rec.fields[1])
		}
		if rate.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%s row %d: rate must be positive", ratesFile, rec.row)
		}

		validFrom, err := time.Parse(time.RFC3339, strings.TrimSpace(rec.fields[2]))
		if err != nil {
			return fmt.Errorf("%s row %d: valid_from %q is not an RFC 3339 timestamp", ratesFile, rec.row, rec.fields[2])
		}

		// Empty valid_to means the rate is open-ended.
		var validTo *time.Time
		if raw := strings.TrimSpace(rec.fields[3]); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return fmt.Errorf("%s row %d: valid_to %q is not an RFC 3339 timestamp", ratesFile, rec.row, rec.fields[3])
			}
			if !parsed.After(validFrom) {
				return fmt.Errorf("%s row %d: valid_to must be after valid_from", ratesFile, rec.row)
			}
			validTo = &parsed
		}

		rates = append(rates, domain.ExchangeRate{
			ExchangeRateID: uuid.NewString(),
			CurrencyCode:   code,
			RatePerBase:    rate,
			ValidFrom:      validFrom,
			ValidTo:        validTo,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     domain.FixtureActor,
				LastUpdatedAt: now,
				LastUpdatedBy: domain.FixtureActor,
			},
		})
	}

	if err := l.rateSvc.ImportRates(ctx, rates); err != nil {
		return err
	}
	slog.Info("Loaded rate fixtures", slog.Int("count", len(rates)))
	return nil
}

type fixtureRecord struct {
	row    int
	fields []string
}

// readFixtureFile reads every data row of a fixture file, skipping an
// optional header. Returns nil records when the file does not exist.
func (l *Loader) readFixtureFile(name string) ([]fixtureRecord, error) {
	path := filepath.Join(l.dir, name)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("Fixture file not present, skipping", slog.String("file", name))
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Field counts are validated per-row so a short row gets a row-numbered
	// error instead of a csv.ParseError.
	reader.FieldsPerRecord = -1

	var records []fixtureRecord
	row := 0
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		row++
		if row == 1 && strings.EqualFold(strings.TrimSpace(fields[0]), "currency_code") {
			continue
		}
		records = append(records, fixtureRecord{row: row, fields: fields})
	}
	return records, nil
}
