// Package export builds spreadsheet manifests of bundles and their QRs
// for admins handing physical codes to salespeople.
package export

import (
	"bytes"
	"context"
	"fmt"

	"digipehchan/internal/repositories"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Bundle Manifest"

// Service renders bundle manifests.
type Service interface {
	BundleManifest(ctx context.Context, bundleID uint) (*bytes.Buffer, string, error)
}

type service struct {
	bundles repositories.BundleRepository
	qrs     repositories.QRRepository
}

func NewService(bundles repositories.BundleRepository, qrs repositories.QRRepository) Service {
	return &service{bundles: bundles, qrs: qrs}
}

// BundleManifest returns an xlsx workbook listing every QR in the
// bundle, plus the suggested download filename.
func (s *service) BundleManifest(ctx context.Context, bundleID uint) (*bytes.Buffer, string, error) {
	bundle, err := s.bundles.GetByID(ctx, bundleID)
	if err != nil {
		return nil, "", err
	}
	qrs, err := s.qrs.ListByBundle(ctx, bundle.ID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Serial Number", "Status", "Price", "Sold", "Delivery", "Order Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}

	for row, qr := range qrs {
		values := []interface{}{
			qr.SerialNumber,
			qr.QRStatus,
			qr.Price,
			qr.IsSold,
			qr.DeliveryType,
			qr.OrderStatus,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	return buf, fmt.Sprintf("%s.xlsx", bundle.DisplayID()), nil
}
