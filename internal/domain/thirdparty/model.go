// Package thirdparty provides the ThirdParty entity: customers, suppliers and
// employees, told apart by a fixed type code.
package thirdparty

import (
	"context"
	"regexp"
	"strings"
	"time"

	"stockdesk/internal/core/apperror"
)

// Pre-compiled regex patterns for validation
var (
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Type is the third-party type code (catalog TipoTercero).
type Type int64

const (
	TypeCustomer Type = 1 // Cliente
	TypeSupplier Type = 2 // Proveedor
	TypeEmployee Type = 3 // Empleado
)

// Valid reports whether t is one of the fixed codes.
func (t Type) Valid() bool {
	switch t {
	case TypeCustomer, TypeSupplier, TypeEmployee:
		return true
	}
	return false
}

func (t Type) String() string {
	switch t {
	case TypeCustomer:
		return "customer"
	case TypeSupplier:
		return "supplier"
	case TypeEmployee:
		return "employee"
	}
	return "unknown"
}

// ThirdParty is a person or company the business deals with (table Tercero).
type ThirdParty struct {
	ID      int64   `db:"id" json:"id"`
	Name    string  `db:"nombre" json:"name"`
	Surname *string `db:"apellido" json:"surname,omitempty"`
	Email   *string `db:"email" json:"email,omitempty"`

	// DocumentNumber is unique across all third parties regardless of type
	DocumentNumber string `db:"numerodocumento" json:"documentNumber"`

	// Catalog references
	DocumentTypeID int64 `db:"tipodocumentoid" json:"documentTypeId"`
	TypeID         Type  `db:"tipoterceroid" json:"typeId"`
	CityID         int64 `db:"ciudadid" json:"cityId"`

	CreatedAt time.Time `db:"createdat" json:"createdAt"`
	UpdatedAt time.Time `db:"updatedat" json:"updatedAt"`
}

// NewThirdParty creates a ThirdParty with the required fields.
func NewThirdParty(name, document string, documentType int64, typ Type, city int64) *ThirdParty {
	return &ThirdParty{
		Name:           name,
		DocumentNumber: document,
		DocumentTypeID: documentType,
		TypeID:         typ,
		CityID:         city,
	}
}

// SetSurname sets the surname; blank clears it.
func (t *ThirdParty) SetSurname(s string) {
	t.Surname = optional(s)
}

// SetEmail sets the email; blank clears it.
func (t *ThirdParty) SetEmail(s string) {
	t.Email = optional(s)
}

// SurnameValue returns the surname or "".
func (t *ThirdParty) SurnameValue() string {
	if t.Surname == nil {
		return ""
	}
	return *t.Surname
}

// EmailValue returns the email or "".
func (t *ThirdParty) EmailValue() string {
	if t.Email == nil {
		return ""
	}
	return *t.Email
}

// FullName is name and surname joined with a space.
func (t *ThirdParty) FullName() string {
	return strings.TrimSpace(t.Name + " " + t.SurnameValue())
}

// IsSupplier reports whether the third party has type Supplier.
func (t *ThirdParty) IsSupplier() bool { return t.TypeID == TypeSupplier }

// IsEmployee reports whether the third party has type Employee.
func (t *ThirdParty) IsEmployee() bool { return t.TypeID == TypeEmployee }

// Validate checks field invariants. Catalog keys are only checked for range
// here; the service checks that they exist.
func (t *ThirdParty) Validate(ctx context.Context) error {
	if strings.TrimSpace(t.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	if strings.TrimSpace(t.DocumentNumber) == "" {
		return apperror.NewValidation("document number is required").
			WithDetail("field", "documentNumber")
	}

	if t.DocumentTypeID <= 0 {
		return apperror.NewValidation("document type is required").
			WithDetail("field", "documentTypeId")
	}

	if !t.TypeID.Valid() {
		return apperror.NewValidation("invalid third-party type").
			WithDetail("field", "typeId").
			WithDetail("value", int64(t.TypeID))
	}

	if t.CityID <= 0 {
		return apperror.NewValidation("city is required").
			WithDetail("field", "cityId")
	}

	if t.Email != nil && !emailRE.MatchString(*t.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Touch implements domain.Stamped.
func (t *ThirdParty) Touch(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}
