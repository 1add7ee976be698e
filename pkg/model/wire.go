package model

import "strings"

// WireValue returns the stored representation of a field: header-keyed
// documents and spreadsheet cells use the Hebrew enumeration labels and
// YYYY-MM-DD dates. Empty values return nil.
func (t Task) WireValue(field string) any {
	switch field {
	case FieldSerial:
		if t.Serial == 0 {
			return nil
		}
		return t.Serial
	case FieldDueDate:
		if t.DueDate == nil || !t.DueDate.IsValid() {
			return nil
		}
		return t.DueDate.String()
	case FieldPriority:
		if t.Priority == "" {
			return nil
		}
		return t.Priority.Label()
	case FieldStatus:
		if t.Status == "" {
			return nil
		}
		return t.Status.Label()
	case FieldID:
		return nil
	}
	if v := strings.TrimSpace(t.Value(field)); v != "" {
		return v
	}
	return nil
}
