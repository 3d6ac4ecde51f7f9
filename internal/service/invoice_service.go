package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tradedocs/internal/model"
	"tradedocs/internal/packing"
	"tradedocs/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type LineItemRequest struct {
	ProductID  string  `json:"product_id" binding:"required"`
	Quantity   float64 `json:"quantity" binding:"required,gt=0"`
	Unit       string  `json:"unit" binding:"required"`
	Rate       string  `json:"rate"`        // optional, defaults to the product rate
	FlatWeight float64 `json:"flat_weight"` // fallback weight when no breakdown is possible
}

type InvoiceMutationRequest struct {
	ContainerType      string            `json:"container_type" binding:"required"`
	Items              []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	Charges            map[string]string `json:"charges"` // named charges: freight, insurance, ...
	AdvanceAmount      string            `json:"advance_amount"`
	NumberOfContainers int               `json:"number_of_containers"` // optional override, 0 = use computed
	Note               string            `json:"note"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, companyID uuid.UUID, userID *uuid.UUID, req InvoiceMutationRequest) (*model.Invoice, error)
	UpdateInvoice(ctx context.Context, id string, companyID uuid.UUID, userID *uuid.UUID, req InvoiceMutationRequest) (*model.Invoice, error)
	GetInvoice(ctx context.Context, id string, companyID uuid.UUID) (*model.Invoice, error)
	ListInvoices(ctx context.Context, companyID uuid.UUID, status string, page, limit int) ([]model.Invoice, int64, error)
	DeleteInvoice(ctx context.Context, id string, companyID uuid.UUID, userID *uuid.UUID) error
}

type invoiceService struct {
	invoiceRepo   repository.InvoiceRepository
	packagingRepo repository.PackagingRepository
	historyRepo   repository.HistoryRepository
	txManager     repository.TransactionManager
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	packagingRepo repository.PackagingRepository,
	historyRepo repository.HistoryRepository,
	txManager repository.TransactionManager,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:   invoiceRepo,
		packagingRepo: packagingRepo,
		historyRepo:   historyRepo,
		txManager:     txManager,
	}
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, companyID uuid.UUID, userID *uuid.UUID, req InvoiceMutationRequest) (*model.Invoice, error) {
	invoice := model.Invoice{
		CompanyID: companyID,
		Status:    model.InvoiceStatusPending,
		Note:      req.Note,
		CreatedBy: userID,
	}

	items, err := s.computeInvoice(ctx, &invoice, req)
	if err != nil {
		return nil, err
	}
	invoice.Items = items

	invoiceNo, err := s.generateInvoiceNo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice number: %w", err)
	}
	invoice.InvoiceNo = invoiceNo

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.invoiceRepo.Create(txCtx, &invoice); createErr != nil {
			return fmt.Errorf("failed to create invoice: %w", createErr)
		}

		changeData, _ := json.Marshal(map[string]interface{}{
			"invoice_no":   invoice.InvoiceNo,
			"total_amount": invoice.TotalAmount.StringFixed(4),
			"item_count":   len(invoice.Items),
		})
		entry := model.InvoiceHistory{
			InvoiceID:    invoice.ID,
			Action:       model.HistoryActionCreate,
			StatusBefore: "",
			StatusAfter:  invoice.Status,
			ChangeData:   string(changeData),
			CreatedBy:    userID,
		}
		if histErr := s.historyRepo.Append(txCtx, &entry); histErr != nil {
			return fmt.Errorf("failed to append invoice history: %w", histErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.invoiceRepo.FindByIDWithItems(ctx, invoice.ID, companyID)
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, companyID uuid.UUID, userID *uuid.UUID, req InvoiceMutationRequest) (*model.Invoice, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice id: %w", err)
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID, companyID)
	if err != nil {
		return nil, mapNotFound(err, "invoice")
	}
	if invoice.Status != model.InvoiceStatusPending {
		return nil, ErrNotEditable
	}

	before := *invoice
	invoice.Note = req.Note

	items, err := s.computeInvoice(ctx, invoice, req)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if replaceErr := s.invoiceRepo.ReplaceItems(txCtx, invoice.ID, items); replaceErr != nil {
			return fmt.Errorf("failed to replace line items: %w", replaceErr)
		}
		invoice.Items = nil // items were written separately
		if updateErr := s.invoiceRepo.Update(txCtx, invoice); updateErr != nil {
			return fmt.Errorf("failed to update invoice: %w", updateErr)
		}

		changedFields, _ := json.Marshal(changedInvoiceFields(&before, invoice))
		changeData, _ := json.Marshal(map[string]interface{}{
			"total_amount_before": before.TotalAmount.StringFixed(4),
			"total_amount_after":  invoice.TotalAmount.StringFixed(4),
			"item_count":          len(items),
		})
		entry := model.InvoiceHistory{
			InvoiceID:     invoice.ID,
			Action:        model.HistoryActionUpdate,
			StatusBefore:  before.Status,
			StatusAfter:   invoice.Status,
			ChangedFields: string(changedFields),
			ChangeData:    string(changeData),
			CreatedBy:     userID,
		}
		if histErr := s.historyRepo.Append(txCtx, &entry); histErr != nil {
			return fmt.Errorf("failed to append invoice history: %w", histErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.invoiceRepo.FindByIDWithItems(ctx, invoice.ID, companyID)
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string, companyID uuid.UUID) (*model.Invoice, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice id: %w", err)
	}
	invoice, err := s.invoiceRepo.FindByIDWithItems(ctx, invoiceID, companyID)
	if err != nil {
		return nil, mapNotFound(err, "invoice")
	}
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, companyID uuid.UUID, status string, page, limit int) ([]model.Invoice, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.invoiceRepo.List(ctx, companyID, status, page, limit)
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string, companyID uuid.UUID, userID *uuid.UUID) error {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid invoice id: %w", err)
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID, companyID)
	if err != nil {
		return mapNotFound(err, "invoice")
	}
	if invoice.Status != model.InvoiceStatusPending {
		return ErrNotEditable
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		changeData, _ := json.Marshal(map[string]interface{}{
			"invoice_no":   invoice.InvoiceNo,
			"total_amount": invoice.TotalAmount.StringFixed(4),
		})
		entry := model.InvoiceHistory{
			InvoiceID:    invoice.ID,
			Action:       model.HistoryActionDelete,
			StatusBefore: invoice.Status,
			StatusAfter:  "",
			ChangeData:   string(changeData),
			CreatedBy:    userID,
		}
		if histErr := s.historyRepo.Append(txCtx, &entry); histErr != nil {
			return fmt.Errorf("failed to append invoice history: %w", histErr)
		}
		if delErr := s.invoiceRepo.Delete(txCtx, invoice.ID); delErr != nil {
			return fmt.Errorf("failed to delete invoice: %w", delErr)
		}
		return nil
	})
}

// computeInvoice runs the full aggregation pipeline: each line item gets its
// packing breakdown (or flat fallback), then invoice totals and container
// sizing are recomputed from scratch. Derived state is never trusted from the
// request or from previously persisted values.
func (s *invoiceService) computeInvoice(ctx context.Context, invoice *model.Invoice, req InvoiceMutationRequest) ([]model.InvoiceLineItem, error) {
	containerType := packing.ContainerType(req.ContainerType)
	if !packing.ValidContainerType(containerType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContainerType, req.ContainerType)
	}

	charges, err := parseCharges(req.Charges)
	if err != nil {
		return nil, err
	}

	advance := decimal.Zero
	if req.AdvanceAmount != "" {
		advance, err = decimal.NewFromString(req.AdvanceAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid advance_amount: %w", err)
		}
	}

	items := make([]model.InvoiceLineItem, 0, len(req.Items))
	lineTotals := make([]packing.LineTotals, 0, len(req.Items))
	for _, lineReq := range req.Items {
		item, totals, lineErr := s.computeLine(ctx, lineReq)
		if lineErr != nil {
			return nil, lineErr
		}
		items = append(items, item)
		lineTotals = append(lineTotals, totals)
	}

	totals := packing.Aggregate(lineTotals, charges, containerType, req.NumberOfContainers)

	chargesJSON, _ := json.Marshal(charges)
	invoice.ContainerType = req.ContainerType
	invoice.Subtotal = totals.Subtotal
	invoice.Charges = string(chargesJSON)
	invoice.ChargesTotal = totals.ChargesTotal
	invoice.TotalAmount = totals.TotalAmount
	invoice.AdvanceAmount = advance
	invoice.TotalWeight = totals.TotalWeight
	invoice.TotalGrossWeight = totals.TotalGrossWeight
	invoice.TotalVolume = totals.TotalVolume
	invoice.TotalBoxes = totals.TotalBoxes
	invoice.TotalPallets = totals.TotalPallets
	invoice.RequiredContainers = totals.RequiredContainers
	invoice.NumberOfContainers = totals.NumberOfContainers

	return items, nil
}

// computeLine annotates one line item with its packing breakdown. A profile
// that is missing or lacks the fields for the requested unit is not an error:
// the line falls back to its flat fields, with weight defaulting to the raw
// quantity.
func (s *invoiceService) computeLine(ctx context.Context, req LineItemRequest) (model.InvoiceLineItem, packing.LineTotals, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return model.InvoiceLineItem{}, packing.LineTotals{}, fmt.Errorf("invalid product_id: %w", err)
	}

	product, err := s.packagingRepo.FindProduct(ctx, productID)
	if err != nil {
		return model.InvoiceLineItem{}, packing.LineTotals{}, mapNotFound(err, "product")
	}

	rate := product.Rate
	if req.Rate != "" {
		rate, err = decimal.NewFromString(req.Rate)
		if err != nil {
			return model.InvoiceLineItem{}, packing.LineTotals{}, fmt.Errorf("invalid rate: %w", err)
		}
	}

	unit := packing.Normalize(req.Unit)
	item := model.InvoiceLineItem{
		ProductID:  product.ID,
		Quantity:   req.Quantity,
		Unit:       string(unit),
		Rate:       rate,
		Total:      rate.Mul(decimal.NewFromFloat(req.Quantity)),
		FlatWeight: req.FlatWeight,
	}

	profileModel, err := s.packagingRepo.FindProfileByProduct(ctx, product.ID)
	switch {
	case err == nil:
		profile := toPackingProfile(profileModel)
		breakdown, bErr := packing.ComputeBreakdown(profile, req.Quantity, unit)
		if bErr == nil {
			item.BreakdownComputed = true
			item.CalculatedBoxes = breakdown.Boxes
			item.CalculatedPallets = breakdown.Pallets
			item.TotalCBM = breakdown.TotalCBM
			item.TotalWeight = breakdown.TotalWeight
			item.GrossWeight = packing.GrossWeight(profile, req.Quantity, unit)
			if item.TotalWeight <= 0 {
				// The hierarchy had the counts but no weight data; the weight
				// figure falls back to the flat field as typed, defaulting to
				// the raw quantity. Boxes and CBM stay as computed.
				weight := req.FlatWeight
				if weight <= 0 {
					weight = req.Quantity
				}
				item.FlatWeight = weight
				item.TotalWeight = weight
			}
		} else if !errors.Is(bErr, packing.ErrMissingPackagingData) {
			return model.InvoiceLineItem{}, packing.LineTotals{}, bErr
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no profile at all; flat fallback below
	default:
		return model.InvoiceLineItem{}, packing.LineTotals{}, err
	}

	if !item.BreakdownComputed {
		weight := req.FlatWeight
		if weight <= 0 {
			weight = req.Quantity
		}
		item.FlatWeight = weight
		item.TotalWeight = weight
	}

	totals := packing.LineTotals{
		Amount:      item.Total,
		Weight:      item.TotalWeight,
		GrossWeight: item.GrossWeight,
		Volume:      item.TotalCBM,
		Boxes:       item.CalculatedBoxes,
		Pallets:     item.CalculatedPallets,
	}
	return item, totals, nil
}

func (s *invoiceService) generateInvoiceNo(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "INV-" + today + "-"

	count, err := s.invoiceRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

// --- Helpers ---

func parseCharges(raw map[string]string) (map[string]decimal.Decimal, error) {
	charges := make(map[string]decimal.Decimal, len(raw))
	for name, amount := range raw {
		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("invalid charge %q: %w", name, err)
		}
		charges[name] = parsed
	}
	return charges, nil
}

func changedInvoiceFields(before, after *model.Invoice) []string {
	var fields []string
	if !before.Subtotal.Equal(after.Subtotal) {
		fields = append(fields, "subtotal")
	}
	if !before.ChargesTotal.Equal(after.ChargesTotal) {
		fields = append(fields, "charges_total")
	}
	if !before.TotalAmount.Equal(after.TotalAmount) {
		fields = append(fields, "total_amount")
	}
	if before.ContainerType != after.ContainerType {
		fields = append(fields, "container_type")
	}
	if before.NumberOfContainers != after.NumberOfContainers {
		fields = append(fields, "number_of_containers")
	}
	if before.TotalWeight != after.TotalWeight {
		fields = append(fields, "total_weight")
	}
	if before.TotalVolume != after.TotalVolume {
		fields = append(fields, "total_volume")
	}
	if before.Note != after.Note {
		fields = append(fields, "note")
	}
	if fields == nil {
		fields = []string{}
	}
	return fields
}
