package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"nacospay/internal/clients"
	"nacospay/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	receiptTitle      = "NACOS Payment Receipt"
	receiptDepartment = "Department of Computer Science"
	receiptDisclaimer = "This is a computer-generated receipt and does not require a signature."
	receiptSheet      = "Receipt"
)

var ErrReceiptNotFound = errors.New("no successful transaction found for this reference")

// ReceiptFileName derives the artifact name from the gateway reference, so
// filenames are unique as long as references are.
func ReceiptFileName(reference string) string {
	return fmt.Sprintf("NACOS_Receipt_%s.xlsx", reference)
}

type ReceiptArtifact struct {
	FileName string `json:"filename"`
	URL      string `json:"url"`
}

type ReceiptService struct {
	ledger  LedgerRepository
	storage *clients.StorageClient
	s3      *clients.S3Client
	ws      *clients.WebSocketClient
}

func NewReceiptService(ledger LedgerRepository, storage *clients.StorageClient, s3 *clients.S3Client, ws *clients.WebSocketClient) *ReceiptService {
	return &ReceiptService{
		ledger:  ledger,
		storage: storage,
		s3:      s3,
		ws:      ws,
	}
}

// Render produces the receipt workbook for one successful ledger entry. The
// layout is fixed: title, issuing department, a labeled key/value block, and
// the disclaimer. Rendering is deterministic over the record's fields.
func (s *ReceiptService) Render(record domain.TransactionRecord) ([]byte, error) {
	if record.Status != domain.StatusSuccess {
		return nil, validationErrorf("receipts are only issued for successful transactions")
	}

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName(f.GetSheetName(0), receiptSheet)

	_ = f.SetColWidth(receiptSheet, "A", "A", 22)
	_ = f.SetColWidth(receiptSheet, "B", "B", 42)

	_ = f.SetCellValue(receiptSheet, "A1", receiptTitle)
	_ = f.SetCellValue(receiptSheet, "A2", receiptDepartment)

	details := [][2]string{
		{"Receipt No:", record.Reference},
		{"Date:", record.CreatedAt.Format("02 Jan 2006 15:04")},
		{"Student Name:", record.StudentName},
		{"Matric Number:", record.MatricNumber},
		{"Level:", strings.ToUpper(record.Level)},
		{"Payment Type:", record.PaymentType},
		{"Amount:", FormatNaira(record.Amount)},
		{"Status:", strings.ToUpper(string(record.Status))},
	}

	row := 4
	for _, d := range details {
		_ = f.SetCellValue(receiptSheet, fmt.Sprintf("A%d", row), d[0])
		_ = f.SetCellValue(receiptSheet, fmt.Sprintf("B%d", row), d[1])
		row++
	}

	_ = f.SetCellValue(receiptSheet, fmt.Sprintf("A%d", row+1), receiptDisclaimer)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write receipt workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Generate renders and stores the receipt for a member's ledger entry and
// returns the download URL. Only entries belonging to the member are
// reachable, and only successful ones render.
func (s *ReceiptService) Generate(ctx context.Context, member *domain.Member, reference string) (*ReceiptArtifact, error) {
	if member == nil {
		return nil, validationErrorf("member is required")
	}
	if reference == "" {
		return nil, validationErrorf("reference is required")
	}

	records, err := s.ledger.ListByMember(ctx, member.ID)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	var record *domain.TransactionRecord
	for i := range records {
		if records[i].Reference == reference {
			record = &records[i]
			break
		}
	}
	if record == nil || record.Status != domain.StatusSuccess {
		return nil, ErrReceiptNotFound
	}

	data, err := s.Render(*record)
	if err != nil {
		return nil, err
	}

	fileName := ReceiptFileName(record.Reference)
	saved, err := s.storage.Save(ctx, fileName, data)
	if err != nil {
		return nil, fmt.Errorf("store receipt: %w", err)
	}
	url := s.storage.GetURL(saved)

	if s.s3 != nil {
		if _, err := s.s3.UploadReceipt(ctx, fileName, data); err != nil {
			log.Printf("receipt archive upload %s: %v", fileName, err)
		}
	}

	_ = s.ws.NotifyReceiptReady(ctx, member.ID, record.Reference, url, fileName)

	return &ReceiptArtifact{FileName: saved, URL: url}, nil
}

// FormatNaira renders a whole-naira amount with the currency symbol and
// thousands separators, e.g. 2500 -> "₦2,500".
func FormatNaira(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + "₦" + b.String()
}
