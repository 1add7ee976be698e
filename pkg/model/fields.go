package model

// Field names of the canonical task schema.
const (
	FieldID                = "id"
	FieldSerial            = "serial"
	FieldStandard          = "standard"
	FieldCategory          = "category"
	FieldSubcategory       = "subcategory"
	FieldClause            = "clause"
	FieldTitle             = "title"
	FieldDetail            = "detail"
	FieldDepartment        = "department"
	FieldDueDate           = "due_date"
	FieldPriority          = "priority"
	FieldStatus            = "status"
	FieldNotes             = "notes"
	FieldEstimatedDuration = "estimated_duration"
)

// Internal write-metadata keys. They live in the store only and are stripped
// before tasks reach the editing layer.
const (
	KeyUpdatedAt   = "_updated_at"
	KeyUploadedAt  = "_uploaded_at"
	KeySourceRow   = "_source_row"
	KeyLegacyDocID = "doc_id"
)

// Field couples a canonical field name with the header used as the document
// key and spreadsheet column title.
type Field struct {
	Name   string
	Header string
}

// Fields is the fixed left-to-right column order of the spreadsheet and of
// every normalized table.
var Fields = []Field{
	{Name: FieldSerial, Header: `מס"ד`},
	{Name: FieldStandard, Header: "תקן"},
	{Name: FieldCategory, Header: "קטגוריה"},
	{Name: FieldSubcategory, Header: "תת-קטגוריה"},
	{Name: FieldClause, Header: "סעיף"},
	{Name: FieldTitle, Header: "משימה"},
	{Name: FieldDetail, Header: "תיאור מפורט"},
	{Name: FieldDepartment, Header: "מחלקה"},
	{Name: FieldDueDate, Header: "תאריך יעד"},
	{Name: FieldPriority, Header: "עדיפות"},
	{Name: FieldStatus, Header: "סטטוס"},
	{Name: FieldNotes, Header: "הערות"},
	{Name: FieldEstimatedDuration, Header: "משך משוער"},
}

// Columns returns the canonical column set: every field followed by id.
func Columns() []string {
	cols := make([]string, 0, len(Fields)+1)
	for _, f := range Fields {
		cols = append(cols, f.Name)
	}
	return append(cols, FieldID)
}

// Headers returns the spreadsheet header row.
func Headers() []string {
	headers := make([]string, len(Fields))
	for i, f := range Fields {
		headers[i] = f.Header
	}
	return headers
}

// LookupField finds a field by canonical name or header.
func LookupField(key string) (Field, bool) {
	for _, f := range Fields {
		if f.Name == key || f.Header == key {
			return f, true
		}
	}
	return Field{}, false
}

// Record is a raw, loosely typed record as read from a store or spreadsheet.
type Record map[string]any

// Get returns the value stored under the field's header, falling back to its
// canonical name.
func (r Record) Get(f Field) (any, bool) {
	if v, ok := r[f.Header]; ok {
		return v, true
	}
	v, ok := r[f.Name]
	return v, ok
}
