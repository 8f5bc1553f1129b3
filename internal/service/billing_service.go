package service

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"resto-backoffice/internal/model"
	"resto-backoffice/internal/report"
	"resto-backoffice/internal/repository"
	"resto-backoffice/pkg/validator"
)

var (
	ErrBillingNotFound  = errors.New("billing entry not found")
	ErrInvalidGroup     = errors.New("invalid group, use day, week, month, year or overall")
	ErrInvalidDateRange = errors.New("invalid date range, use YYYY-MM-DD and from <= to")
	ErrEmptyImport      = errors.New("import payload has no rows")
)

// GroupRaw exports individual entries instead of buckets.
const GroupRaw = "raw"

type BillingService interface {
	ListBillings(from, to string) ([]model.Billing, error)
	GetBilling(id uuid.UUID) (*model.Billing, error)
	CreateBilling(req *BillingRequest, actor Actor) (*model.Billing, error)
	UpdateBilling(id uuid.UUID, req *BillingRequest, actor Actor) (*model.Billing, error)
	DeleteBilling(id uuid.UUID, actor Actor) error
	ImportBillings(rows []map[string]interface{}, actor Actor) (*ImportResult, error)
	Report(group, from, to string) (*BillingReport, error)
	ExportCSV(group, from, to string) (*CSVExport, error)
}

// BillingRequest is the create/update body; amounts accept numbers or numeric strings.
type BillingRequest struct {
	Date         string          `json:"date" validate:"required,isodate"`
	Card         decimal.Decimal `json:"card" validate:"gte=0"`
	Cash         decimal.Decimal `json:"cash" validate:"gte=0"`
	Trinkgeld    decimal.Decimal `json:"trinkgeld" validate:"gte=0"`
	TrinkgeldBar decimal.Decimal `json:"trinkgeldBar" validate:"gte=0"`
	Paid         decimal.Decimal `json:"paid" validate:"gte=0"`
	HandledBy    string          `json:"handledBy" validate:"max=100"`
}

type ImportResult struct {
	Imported int           `json:"imported"`
	Rejected []ImportIssue `json:"rejected"`
}

type ImportIssue struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// BillingReport is one bucketing level ready for the table and the chart.
type BillingReport struct {
	Group   string        `json:"group"`
	From    string        `json:"from,omitempty"`
	To      string        `json:"to,omitempty"`
	Buckets []ReportRow   `json:"buckets"`
	Totals  report.Totals `json:"totals"`
	Series  report.Series `json:"series"`
}

type ReportRow struct {
	report.Bucket
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

type CSVExport struct {
	Filename string
	Content  string
}

type billingService struct {
	billingRepo repository.BillingRepository
	events      Broadcaster
	log         zerolog.Logger
}

func NewBillingService(billingRepo repository.BillingRepository, events Broadcaster, log zerolog.Logger) BillingService {
	return &billingService{billingRepo: billingRepo, events: events, log: log}
}

func validRange(from, to string) error {
	for _, d := range []string{from, to} {
		if d != "" && !report.IsISODate(d) {
			return ErrInvalidDateRange
		}
	}
	if from != "" && to != "" && from > to {
		return ErrInvalidDateRange
	}
	return nil
}

func (s *billingService) ListBillings(from, to string) ([]model.Billing, error) {
	if err := validRange(from, to); err != nil {
		return nil, err
	}
	return s.billingRepo.FindByDateRange(from, to)
}

func (s *billingService) GetBilling(id uuid.UUID) (*model.Billing, error) {
	billing, err := s.billingRepo.FindByID(id)
	if err != nil {
		return nil, ErrBillingNotFound
	}
	return billing, nil
}

func (req *BillingRequest) apply(b *model.Billing) {
	b.Date = req.Date
	b.Card = req.Card
	b.Cash = req.Cash
	b.Trinkgeld = req.Trinkgeld
	b.TrinkgeldBar = req.TrinkgeldBar
	b.Paid = req.Paid
	b.HandledBy = req.HandledBy
}

func (s *billingService) CreateBilling(req *BillingRequest, actor Actor) (*model.Billing, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	billing := &model.Billing{}
	req.apply(billing)
	billing.Stamp(actor.ID)
	if err := s.billingRepo.Create(billing); err != nil {
		return nil, err
	}

	s.notify("billing_created", billing, actor)
	return billing, nil
}

func (s *billingService) UpdateBilling(id uuid.UUID, req *BillingRequest, actor Actor) (*model.Billing, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	billing, err := s.billingRepo.FindByID(id)
	if err != nil {
		return nil, ErrBillingNotFound
	}

	req.apply(billing)
	billing.Stamp(actor.ID)
	if err := s.billingRepo.Update(billing); err != nil {
		return nil, err
	}

	s.notify("billing_updated", billing, actor)
	return billing, nil
}

func (s *billingService) DeleteBilling(id uuid.UUID, actor Actor) error {
	billing, err := s.billingRepo.FindByID(id)
	if err != nil {
		return ErrBillingNotFound
	}
	if err := s.billingRepo.Delete(id, actor.ID); err != nil {
		return err
	}
	s.notify("billing_deleted", billing, actor)
	return nil
}

// ImportBillings accepts loosely typed rows (numbers, numeric strings, blanks)
// as exported by the old spreadsheet. Amounts are coerced, then each row must
// pass the same validation as a manual entry; failing rows are reported and
// skipped.
func (s *billingService) ImportBillings(rows []map[string]interface{}, actor Actor) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyImport
	}

	result := &ImportResult{Rejected: []ImportIssue{}}
	billings := make([]model.Billing, 0, len(rows))
	for i, row := range rows {
		billing := model.BillingFromEntry(report.EntryFromMap(row))
		if err := validator.Check(&billing); err != nil {
			result.Rejected = append(result.Rejected, ImportIssue{Row: i, Error: err.Error()})
			continue
		}
		billing.Stamp(actor.ID)
		billings = append(billings, billing)
	}

	if err := s.billingRepo.CreateMany(billings); err != nil {
		return nil, fmt.Errorf("import failed: %w", err)
	}
	result.Imported = len(billings)

	s.log.Info().Int("imported", result.Imported).Int("rejected", len(result.Rejected)).
		Str("by", actor.ID).Msg("billing import finished")

	if result.Imported > 0 {
		s.events.BroadcastJSON(map[string]interface{}{
			"type":    "billing_update",
			"action":  "billing_imported",
			"count":   result.Imported,
			"user":    actor,
			"message": fmt.Sprintf("%s imported %d billing entries", actor.Name, result.Imported),
		})
	}
	return result, nil
}

// entries loads the range from the database and runs it through the
// aggregator's own filter so malformed dates never reach a bucket.
func (s *billingService) entries(from, to string) ([]report.Entry, error) {
	if err := validRange(from, to); err != nil {
		return nil, err
	}
	billings, err := s.billingRepo.FindByDateRange(from, to)
	if err != nil {
		return nil, err
	}
	return report.FilterByDateRange(model.BillingEntries(billings), from, to), nil
}

func (s *billingService) Report(group, from, to string) (*BillingReport, error) {
	g, ok := report.ParseGranularity(group)
	if !ok {
		return nil, ErrInvalidGroup
	}
	entries, err := s.entries(from, to)
	if err != nil {
		return nil, err
	}

	buckets := report.GroupBy(entries, g)
	rows := make([]ReportRow, len(buckets))
	for i, b := range buckets {
		rows[i] = ReportRow{Bucket: b, Label: report.FormatBucketLabel(b.Key), Total: b.Till()}
	}

	return &BillingReport{
		Group:   string(g),
		From:    from,
		To:      to,
		Buckets: rows,
		Totals:  report.ComputeTotals(report.BucketRows(buckets)),
		Series:  report.BuildSeries(buckets, report.FormatBucketLabel),
	}, nil
}

func (s *billingService) ExportCSV(group, from, to string) (*CSVExport, error) {
	entries, err := s.entries(from, to)
	if err != nil {
		return nil, err
	}

	// raw and day exports keep one line per entry so the handler column is filled
	group = strings.ToLower(strings.TrimSpace(group))
	var content string
	switch group {
	case GroupRaw:
		content = report.ToCSV(report.EntryRows(sortByDateDesc(entries)), nil)
	case string(report.GranularityDay), "":
		group = string(report.GranularityDay)
		content = report.ToCSV(report.EntryRows(sortByDateDesc(entries)), report.FormatBucketLabel)
	default:
		g, ok := report.ParseGranularity(group)
		if !ok {
			return nil, ErrInvalidGroup
		}
		group = string(g)
		content = report.ToCSV(report.BucketRows(report.GroupBy(entries, g)), report.FormatBucketLabel)
	}

	return &CSVExport{Filename: exportFilename(group, from, to), Content: content}, nil
}

func sortByDateDesc(entries []report.Entry) []report.Entry {
	slices.SortStableFunc(entries, func(a, b report.Entry) int {
		return strings.Compare(b.Date, a.Date)
	})
	return entries
}

func exportFilename(group, from, to string) string {
	name := "billing-" + group
	if from != "" {
		name += "-from-" + from
	}
	if to != "" {
		name += "-to-" + to
	}
	return name + ".csv"
}

func (s *billingService) notify(action string, b *model.Billing, actor Actor) {
	s.events.BroadcastJSON(map[string]interface{}{
		"type":   "billing_update",
		"action": action,
		"billing": map[string]interface{}{
			"id":   b.ID,
			"date": b.Date,
			"till": b.Entry().Till(),
		},
		"user":    actor,
		"message": fmt.Sprintf("%s changed billing for %s", actor.Name, b.Date),
	})
}
