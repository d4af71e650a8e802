package service

import (
	"fmt"
	"time"

	"github.com/sangkips/stall-pos/internal/domain/entity"
	"github.com/sangkips/stall-pos/pkg/money"
	"github.com/sangkips/stall-pos/pkg/printer"
	"go.uber.org/zap"
)

// PrinterService formats sale receipts and sends them to the thermal printer.
type PrinterService struct {
	printer     printer.Printer
	printerType string
	width       int
	storeName   string
	tax         *TaxService
	loc         *time.Location
	logger      *zap.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	printerType string,
	width int,
	storeName string,
	tax *TaxService,
	loc *time.Location,
	logger *zap.Logger,
) *PrinterService {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrinterService{
		printer:     p,
		printerType: printerType,
		width:       width,
		storeName:   storeName,
		tax:         tax,
		loc:         loc,
		logger:      logger,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// BuildReceipt composes the receipt of a sale. The tax split is shown only
// when tax display is on.
func (s *PrinterService) BuildReceipt(sale entity.Sale, taxEnabled bool) *entity.Receipt {
	breakdown := s.tax.Breakdown(sale.Total, taxEnabled)
	r := &entity.Receipt{
		Header:      entity.ReceiptHeader{StoreName: s.storeName},
		SaleNo:      sale.ID.String(),
		Date:        sale.Timestamp.In(s.loc).Format("2006-01-02 15:04"),
		PaymentType: sale.PaymentType.String(),
		SubTotal:    money.Round(breakdown.Subtotal),
		Tax:         money.Round(breakdown.Tax),
		Total:       sale.Total,
	}
	if taxEnabled {
		r.TaxLabel = s.tax.Label()
	}
	for _, line := range sale.Lines {
		r.Items = append(r.Items, entity.ReceiptItem{
			Name:      line.Label,
			Quantity:  line.Qty,
			UnitPrice: line.UnitAmount,
			Total:     line.Total(),
		})
	}
	return r
}

// PrintSale prints the receipt of a sale and returns it. The receipt is
// returned even when the printer fails.
func (s *PrinterService) PrintSale(sale entity.Sale, taxEnabled bool) (*entity.Receipt, error) {
	receipt := s.BuildReceipt(sale, taxEnabled)
	if err := s.printer.Print(FormatReceipt(receipt, s.width)); err != nil {
		s.logger.Warn("receipt print failed", zap.String("sale_id", receipt.SaleNo), zap.Error(err))
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	s.logger.Info("receipt printed", zap.String("sale_id", receipt.SaleNo))
	return receipt, nil
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Sale:", r.SaleNo).
		KeyValue("Date:", r.Date).
		KeyValue("Payment:", r.PaymentType)

	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, money.Format(item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", money.Format(item.UnitPrice))
		}
	}

	doc.Separator('-')

	if r.TaxLabel != "" {
		doc.KeyValue("Subtotal:", money.FormatFixed(r.SubTotal)).
			KeyValue(r.TaxLabel+":", money.FormatFixed(r.Tax))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", money.FormatFixed(r.Total)).
		SetBold(false)

	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter).
		FeedLines(1).
		Text("Thank you!").
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
