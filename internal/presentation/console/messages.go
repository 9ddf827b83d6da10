package console

import (
	"fmt"

	"stockdesk/internal/core/apperror"
)

// Spanish labels for the entity and field names carried in error details.
var (
	notFoundMessages = map[string]string{
		"product":     "Producto no encontrado.",
		"third party": "Tercero no encontrado.",
		"purchase":    "Compra no encontrada.",
	}

	fieldLabels = map[string]string{
		"name":                        "nombre",
		"minStock":                    "stock mínimo",
		"maxStock":                    "stock máximo",
		"currentStock":                "stock actual",
		"unitPrice":                   "precio unitario",
		"barcode":                     "código de barras",
		"categoryId":                  "categoría",
		"delta":                       "cantidad",
		"documentNumber":              "número de documento",
		"document number":             "número de documento",
		"documentTypeId":              "tipo de documento",
		"typeId":                      "tipo de tercero",
		"cityId":                      "ciudad",
		"email":                       "email",
		"supplierId":                  "proveedor",
		"employeeId":                  "empleado",
		"invoiceNumber":               "número de factura",
		"lines":                       "detalles",
		"productId":                   "producto",
		"quantity":                    "cantidad",
		"unitValue":                   "valor unitario",
		"status":                      "estado",
		"id":                          "ID",
		"date":                        "fecha",
		"producto_barcode_key":        "código de barras",
		"tercero_numerodocumento_key": "número de documento",
	}

	statusLabels = map[string]string{
		"pending":   "Pendiente",
		"completed": "Completada",
		"cancelled": "Cancelada",
		"unknown":   "Desconocido",
	}
)

func label(m map[string]string, key any) string {
	k, _ := key.(string)
	if v, ok := m[k]; ok {
		return v
	}
	return k
}

// UserMessage renders err as the sentence shown to the operator.
func UserMessage(err error) string {
	appErr, ok := apperror.AsAppError(err)
	if !ok {
		return "Error inesperado. Consulte el registro de la aplicación."
	}

	d := appErr.Details
	switch appErr.Code {
	case apperror.CodeValidation:
		if field, ok := d["field"]; ok {
			msg := fmt.Sprintf("Dato inválido en %s (%s).", label(fieldLabels, field), appErr.Message)
			if line, ok := d["line"]; ok {
				msg = fmt.Sprintf("Línea %v: %s", line, msg)
			}
			return msg
		}
		return fmt.Sprintf("Datos inválidos (%s).", appErr.Message)

	case apperror.CodeInvalidInput:
		return fmt.Sprintf("Formato inválido para %s.", label(fieldLabels, d["field"]))

	case apperror.CodeNotFound:
		if msg, ok := notFoundMessages[fmt.Sprint(d["entity"])]; ok {
			return msg
		}
		return "Registro no encontrado."

	case apperror.CodeInvalidReference:
		return fmt.Sprintf("Referencia no válida en %s (ID %v).", label(fieldLabels, d["field"]), d["id"])

	case apperror.CodeDuplicate:
		return fmt.Sprintf("Ya existe un registro con ese %s.", label(fieldLabels, d["field"]))

	case apperror.CodeInsufficientStock:
		return fmt.Sprintf("Stock insuficiente para el producto %v (disponible: %v).", d["product_id"], d["available"])

	case apperror.CodeStockLimitExceeded:
		return fmt.Sprintf("El producto %v superaría su stock máximo (%v de %v).", d["product_id"], d["resulting"], d["maximum"])

	case apperror.CodeInvalidTransition:
		return fmt.Sprintf("La compra no puede pasar de %s a %s.", label(statusLabels, d["from"]), label(statusLabels, d["to"]))

	case apperror.CodeConflict:
		if status, ok := d["status"]; ok {
			return fmt.Sprintf("Operación no permitida para una compra en estado %s.", label(statusLabels, status))
		}
		return "Operación rechazada: el registro está en uso o fue modificado."

	case apperror.CodeDatabase:
		return "Error al acceder a la base de datos. La operación no se aplicó."
	}

	return "Error interno. Consulte el registro de la aplicación."
}
