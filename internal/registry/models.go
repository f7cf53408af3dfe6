package registry

// Traceability is the optional four-level provenance tuple attached to a
// batch record. It is carried for audit and future surfaces; the public
// verification response does not expose it.
type Traceability struct {
	L1Producer string `json:"l1Producer,omitempty"` // producer and plant identity
	L2Product  string `json:"l2Product,omitempty"`  // product identity / SKU
	L3Source   string `json:"l3Source,omitempty"`   // supply chain source
	L4Lab      string `json:"l4Lab,omitempty"`      // lab binding
}

// BatchRecord is the authoritative, immutable record for one batch code.
// Code is always canonical (trimmed, upper-cased) and equals the registry key
// the record is filed under.
type BatchRecord struct {
	Code         string        `json:"code"`
	ProductName  string        `json:"productName"`
	TestDate     string        `json:"testDate"`
	LabName      string        `json:"labName"`
	ReportNumber string        `json:"reportNumber"`
	Traceability *Traceability `json:"traceability,omitempty"`

	// ReportLocator points at the report artifact: an object path inside the
	// report bucket ("reports/ADIF5HW825.pdf") or an external folder
	// reference for multi-file reports.
	ReportLocator string `json:"reportLocator"`
}
