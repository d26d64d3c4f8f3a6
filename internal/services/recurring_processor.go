package services

import (
	"context"
	"log/slog"
	"time"

	"kasicka/internal/core"
	"kasicka/internal/storage"
)

// RecurringProcessor materializes transactions from due recurring
// templates.
type RecurringProcessor struct {
	store        *storage.Store
	transactions *TransactionService
}

func NewRecurringProcessor(store *storage.Store, transactions *TransactionService) *RecurringProcessor {
	return &RecurringProcessor{
		store:        store,
		transactions: transactions,
	}
}

// ProcessDue scans every active template and creates one transaction
// per template that is due at now. Failures on a single template are
// logged and skipped; the template stays unprocessed and is retried on
// the next run. Returns the number of transactions created.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	templates, err := p.store.ListActiveRecurringTemplates(ctx)
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "Processing recurring templates",
		"total_active", len(templates),
		"processing_date", now.Format("2006-01-02"))

	processed := 0
	for _, template := range templates {
		checker, err := GetDuenessChecker(template.Frequency)
		if err != nil {
			slog.ErrorContext(ctx, "Skipping template with unknown frequency",
				"template_id", template.ID,
				"frequency", string(template.Frequency))
			continue
		}
		if !checker.IsDue(template, now) {
			continue
		}

		created, err := p.transactions.Create(ctx, core.Transaction{
			Type:       template.Type,
			Amount:     template.Amount,
			CategoryID: template.CategoryID,
			AccountID:  template.AccountID,
			Date:       now,
			Note:       template.Note,
		}, nil)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to create transaction from template",
				"template_id", template.ID,
				"error", err)
			continue
		}

		if err := p.store.SetRecurringLastProcessed(ctx, template.ID, now); err != nil {
			// The transaction exists; the template will fire again next
			// period at worst.
			slog.ErrorContext(ctx, "Failed to advance last processed",
				"template_id", template.ID,
				"error", err)
		}

		processed++
		slog.InfoContext(ctx, "Created transaction from recurring template",
			"template_id", template.ID,
			"transaction_id", created.ID,
			"amount", created.Amount.String(),
			"frequency", string(template.Frequency))
	}

	slog.InfoContext(ctx, "Recurring processing complete",
		"processed", processed,
		"total_checked", len(templates))
	return processed, nil
}
