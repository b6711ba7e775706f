package worker

// invoice_worker.go
// Processes bulk-invoice jobs from QueueInvoice: applies GST when the buyer
// registered a tax id, renders the PDF, and advances the bulk sub-state to
// INVOICE_GENERATED. Failed jobs land in the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/infra"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/model"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceWorker renders bulk invoices queued by order approval.
type InvoiceWorker struct {
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	dispatcher  *Dispatcher
	rdb         *redis.Client
	storagePath string
	gstRate     decimal.Decimal
}

func NewInvoiceWorker(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	storagePath string,
	gstRatePercent float64,
) *InvoiceWorker {
	return &InvoiceWorker{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
		rdb:         rdb,
		storagePath: storagePath,
		gstRate:     decimal.NewFromFloat(gstRatePercent),
	}
}

// Process handles a single invoice job:
//  1. Parse InvoiceJobPayload from the job envelope
//  2. Fetch the order with items and product names
//  3. Apply GST on the discounted amount when a tax id is on file
//  4. Render the PDF and persist its path
//  5. Advance bulk sub-state APPROVED → INVOICE_GENERATED
//  6. Email the invoice to the buyer
func (w *InvoiceWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload InvoiceJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("invoice_worker: invalid payload")
		return
	}
	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		log.Error().Str("order_id", payload.OrderID).Msg("invoice_worker: invalid order_id")
		return
	}

	order, err := w.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		w.fail(ctx, raw, fmt.Sprintf("order not found: %v", err))
		return
	}
	if !order.IsBulkOrder || order.BulkOrderStatus == nil || *order.BulkOrderStatus != model.BulkApproved {
		log.Warn().Str("order_id", payload.OrderID).Msg("invoice_worker: order not in APPROVED state — skipping")
		return
	}

	// GST is levied only for registered buyers, on the already discounted
	// amount. TaxAmount is stamped before rendering so the PDF and the row
	// agree.
	if order.TaxID != nil && order.TaxAmount.IsZero() && w.gstRate.IsPositive() {
		tax := order.TotalAmount.Mul(w.gstRate).Div(decimal.NewFromInt(100)).Round(2)
		order.TaxAmount = tax
		order.TotalAmount = order.TotalAmount.Add(tax)
		err := w.orderRepo.DB().Transaction(func(tx *gorm.DB) error {
			return w.orderRepo.UpdateFieldsTx(tx, order.ID, map[string]interface{}{
				"tax_amount":   order.TaxAmount,
				"total_amount": order.TotalAmount,
			})
		})
		if err != nil {
			w.fail(ctx, raw, fmt.Sprintf("stamp tax: %v", err))
			return
		}
	}

	pdfPath, err := infra.GenerateBulkInvoicePDF(order, w.storagePath)
	if err != nil {
		w.fail(ctx, raw, fmt.Sprintf("pdf generation: %v", err))
		return
	}

	err = w.orderRepo.DB().Transaction(func(tx *gorm.DB) error {
		if err := w.orderRepo.UpdateFieldsTx(tx, order.ID, map[string]interface{}{
			"invoice_path": pdfPath,
		}); err != nil {
			return err
		}
		ok, err := w.orderRepo.UpdateBulkStatusTx(tx, order.ID, model.BulkApproved, model.BulkInvoiceGenerated)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("bulk state left APPROVED while invoicing")
		}
		return nil
	})
	if err != nil {
		w.fail(ctx, raw, fmt.Sprintf("finalize invoice: %v", err))
		return
	}
	log.Info().Str("order_number", order.OrderNumber).Str("pdf", pdfPath).Msg("invoice_worker: invoice generated")

	buyer, err := w.userRepo.FindByID(ctx, order.UserID)
	if err != nil || buyer.Email == "" {
		return
	}
	emailJob := EmailJobPayload{
		ToEmail: buyer.Email,
		Subject: fmt.Sprintf("Invoice for order %s", order.OrderNumber),
		Body:    fmt.Sprintf("Please find attached the invoice for your bulk order.\nTotal: Rs %s", order.TotalAmount.StringFixed(2)),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", buyer.Email).Msg("invoice_worker: failed to enqueue email")
	}
}

func (w *InvoiceWorker) fail(ctx context.Context, raw json.RawMessage, reason string) {
	log.Error().Str("reason", reason).Msg("invoice_worker: job failed")
	SendToDLQ(ctx, w.rdb, QueueInvoice, "invoice", raw, reason, 1)
}
