package config

// Application constants for the artwork production data processor
const (
	AppName    = "Artwork Data Processor"
	AppVersion = "1.0.0"

	// Extraction limits
	HeaderScanRows = 50    // header candidate rows probed per sheet
	ScanRowCap     = 1000  // rows read during header scanning
	FullRowCap     = 10000 // data rows read once a header is chosen

	// A header row must match at least this many target fields.
	MinHeaderScore = 2

	// Parallel ingestion
	DefaultWorkers = 4

	// Paths
	DefaultOutputDir = "output"
	DefaultLogsDir   = "logs"
	DefaultLogLevel  = "info"

	// Production item list folders end with this suffix.
	ProductionFolderSuffix = "_Production Item List"
)

// Canonical production fields the extractor seeks.
const (
	FieldItemNumber = "Item Number"
	FieldVendor     = "Product Vendor Company Name"
	FieldBrand      = "Brand"
	FieldProduct    = "Product Name"
	FieldSKU        = "SKU New/Existing"
)

// TargetFields is the canonical field order for extracted records.
var TargetFields = []string{
	FieldItemNumber,
	FieldVendor,
	FieldBrand,
	FieldProduct,
	FieldSKU,
}

// ColumnPatterns maps each canonical field to its lowercase alias set used
// for fuzzy header matching. Aliases are compared after stripping every
// non-alphanumeric character from both sides.
var ColumnPatterns = map[string][]string{
	FieldItemNumber: {"item #", "item#", "itemnumber", "item number", "item no", "itemno"},
	FieldVendor:     {"vendor name", "vendorname", "vendor", "supplier"},
	FieldBrand:      {"brand", "brandname", "brand name"},
	FieldProduct:    {"item description", "itemdescription", "description", "product description", "desc", "product name"},
	FieldSKU:        {"sku", "sku new/existing", "sku new existing", "sku new/carry forward", "sku new carry forward", "sku new"},
}

// Tracker columns, looked up against sheet headers by case-insensitive
// substring match in either direction.
var TrackerColumnAliases = map[string][]string{
	"HUGO ID":                        {"PKG3"},
	"File Name":                      {"File Name", "FileName", "Name"},
	"Rounds":                         {"Rounds", "Round"},
	"Printer Company Name 1":         {"PAComments", "PA Comments", "Comments"},
	"Vendor e-mail 1":                {"VendorEmail", "Vendor Email", "VendorE-mail"},
	"Printer e-mail 1":               {"PrinterEmail", "Printer Email", "PrinterE-mail"},
	"PKG1":                           {"PKG1"},
	"Artwork Release Date":           {"ReleaseDate", "Release Date"},
	"5 Weeks After Artwork Release":  {"5 Weeks After Artwork Release", "5 weeks after artwork release"},
	"Entered into HUGO Date":         {"entered into HUGO Date", "Entered into HUGO Date"},
	"Entered in HUGO?":               {"Entered in HUGO?", "entered in HUGO?"},
	"Store Date":                     {"Store Date", "store date"},
	"Packaging Format 1":             {"Packaging Format 1", "packaging format 1"},
	"Printer Code 1 (LW Code)":       {"Printer Code 1 (LW Code)", "printer code 1 (LW Code)"},
}

// TrackerRoundsColumn must exist for a sheet to qualify as tracker data.
const TrackerRoundsColumn = "Rounds"

// TrackerRoundsAllowList is the fixed set of categorical values kept.
var TrackerRoundsAllowList = []string{
	"File Release",
	"File Re-Release R2",
	"File Re-Release R3",
}

// FinalColumns is the exact 18-column output schema, in order.
var FinalColumns = []string{
	"HUGO ID",
	"Product Vendor Company Name",
	"Item Number",
	"Product Name",
	"Brand",
	"SKU",
	"Artwork Release Date",
	"5 Weeks After Artwork Release",
	"Entered into HUGO Date",
	"Entered in HUGO?",
	"Store Date",
	"Re-Release Status",
	"Packaging Format 1",
	"Printer Company Name 1",
	"Vendor e-mail 1",
	"Printer e-mail 1",
	"Printer Code 1 (LW Code)",
	"File Name",
}

// DateColumnCandidates is the preferred name list for locating the
// date-bearing column during range filtering.
var DateColumnCandidates = []string{
	"artwork release date",
	"release date",
	"releasedate",
	"date",
	"artwork date",
	"artworkreleasedate",
}

// Provenance tags for combined records.
const (
	SourceBoth           = "Step1 + Step2"
	SourceProductionOnly = "Step1 Only"
	SourceTrackerOnly    = "Step2 Only"
)
