package extract

import "artproc/internal/config"

// Record is one extracted production row with canonical fields and
// provenance.
type Record struct {
	ItemNumber  string
	Vendor      string
	Brand       string
	ProductName string
	SKU         string

	SourceFile   string
	SourceFolder string
	SourceSheet  string
}

// Field returns the value of a canonical field by name.
func (r Record) Field(name string) string {
	switch name {
	case config.FieldItemNumber:
		return r.ItemNumber
	case config.FieldVendor:
		return r.Vendor
	case config.FieldBrand:
		return r.Brand
	case config.FieldProduct:
		return r.ProductName
	case config.FieldSKU:
		return r.SKU
	case "Source_File":
		return r.SourceFile
	case "Source_Folder":
		return r.SourceFolder
	case "Source_Sheet":
		return r.SourceSheet
	}
	return ""
}

// setField assigns a canonical field by name.
func (r *Record) setField(name, value string) {
	switch name {
	case config.FieldItemNumber:
		r.ItemNumber = value
	case config.FieldVendor:
		r.Vendor = value
	case config.FieldBrand:
		r.Brand = value
	case config.FieldProduct:
		r.ProductName = value
	case config.FieldSKU:
		r.SKU = value
	}
}

// Options carries the extraction limits, normally taken from config.
type Options struct {
	ScanRowCap int // rows read while hunting for a header
	FullRowCap int // data rows read once a header is chosen
	HeaderScan int // candidate header rows probed per sheet
}

// DefaultOptions returns the configured extraction limits.
func DefaultOptions() Options {
	return Options{
		ScanRowCap: config.ScanRowCap,
		FullRowCap: config.FullRowCap,
		HeaderScan: config.HeaderScanRows,
	}
}
