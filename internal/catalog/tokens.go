package catalog

import "fmt"

// TokenSupplier is the slot-independent group label placeholder.
const TokenSupplier = "{{supplier}}"

// Field classes the template exposes once per product slot.
const (
	FieldName        = "name"
	FieldCapacity    = "capacity"
	FieldUnit        = "unit"
	FieldMOQ         = "moq"
	FieldStorage     = "storage"
	FieldExpiry      = "expiry"
	FieldPrice       = "price"
	FieldMSRP        = "msrp"
	FieldDescription = "description"
)

// textClasses is the full per-slot text token vocabulary, in template order.
var textClasses = []string{
	FieldName,
	FieldCapacity,
	FieldUnit,
	FieldMOQ,
	FieldStorage,
	FieldExpiry,
	FieldPrice,
	FieldMSRP,
	FieldDescription,
}

// Token builds the literal placeholder for a field class at a 1-based slot.
func Token(class string, slot int) string {
	return fmt.Sprintf("{{%s_%d}}", class, slot)
}

// ImageToken builds the picture placeholder for a 1-based slot.
func ImageToken(slot int) string {
	return fmt.Sprintf("{{image_%d}}", slot)
}
