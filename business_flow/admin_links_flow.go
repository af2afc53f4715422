package businessflow

import (
	"context"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/smarturl/smarturl/models"
	"github.com/smarturl/smarturl/repository"
)

// AdminLinksFlow exposes operator-facing reporting over the link store
type AdminLinksFlow interface {
	DownloadLinksExcel(ctx context.Context, filter models.LinkFilter) (string, []byte, error)
}

type AdminLinksFlowImpl struct {
	linkRepo repository.LinkRepository
}

func NewAdminLinksFlow(linkRepo repository.LinkRepository) AdminLinksFlow {
	return &AdminLinksFlowImpl{linkRepo: linkRepo}
}

// DownloadLinksExcel renders the matching links as a single-sheet workbook,
// newest first. Returns the suggested filename alongside the file bytes.
func (f *AdminLinksFlowImpl) DownloadLinksExcel(ctx context.Context, filter models.LinkFilter) (string, []byte, error) {
	links, err := f.linkRepo.ByFilter(ctx, filter, "created_at DESC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("FETCH_LINKS_FAILED", "Failed to fetch links for export", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "links"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"id", "short_code", "original_url", "owner_id", "click_count", "malicious", "ml_confidence", "created_at", "expires_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, link := range links {
		code := ""
		if link.ShortCode != nil {
			code = *link.ShortCode
		}
		owner := ""
		if link.OwnerID != nil {
			owner = *link.OwnerID
		}
		expires := ""
		if link.ExpiresAt != nil {
			expires = link.ExpiresAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			strconv.FormatUint(link.ID, 10),
			code,
			link.OriginalURL,
			owner,
			strconv.FormatInt(link.ClickCount, 10),
			strconv.FormatBool(link.Malicious),
			strconv.FormatFloat(link.MLConfidence, 'f', 4, 64),
			link.CreatedAt.UTC().Format(time.RFC3339),
			expires,
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	return "links_report.xlsx", buf.Bytes(), nil
}
