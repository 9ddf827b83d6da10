package console

import (
	"context"
	"errors"
	"io"
	"time"

	"stockdesk/internal/core/apperror"
	"stockdesk/internal/domain/purchase"
)

// productHints is how many products are listed while adding lines.
const productHints = 5

func (c *Console) purchasesMenu(ctx context.Context) error {
	return c.loop(ctx, "Gestión de Compras", "V", "Volver al menú principal", []menuItem{
		{"1", "Ver compras realizadas", "purchase.list", c.listPurchases},
		{"2", "Ver detalle de una compra", "purchase.detail", c.purchaseDetail},
		{"3", "Completar compra", "purchase.complete", c.completePurchase},
		{"4", "Cancelar compra", "purchase.cancel", c.cancelPurchase},
		{"5", "Compras por rango de fechas", "purchase.by_date", c.purchasesByDate},
		{"6", "Compras por estado", "purchase.by_status", c.purchasesByStatus},
		{"7", "Compras por proveedor", "purchase.by_supplier", c.purchasesBySupplier},
		{"8", "Eliminar compra cancelada", "purchase.delete", c.deletePurchase},
	})
}

func (c *Console) registerPurchase(ctx context.Context) error {
	c.println("--- Registrar Nueva Compra ---")

	suppliers, err := c.svc.Parties.GetSuppliers(ctx)
	if err != nil {
		return err
	}
	c.println("Proveedores Disponibles:")
	c.printParties(ctx, suppliers, "No hay proveedores registrados.")
	supplierID, err := c.in.id("ID del Proveedor: ", "supplierId")
	if err != nil {
		return err
	}
	if s, err := c.svc.Parties.GetByID(ctx, supplierID); err != nil || !s.IsSupplier() {
		c.println("Proveedor no válido.")
		return nil
	}

	employees, err := c.svc.Parties.GetEmployees(ctx)
	if err != nil {
		return err
	}
	c.println("Empleados Disponibles:")
	c.printParties(ctx, employees, "No hay empleados registrados.")
	employeeID, err := c.in.id("ID del Empleado que registra: ", "employeeId")
	if err != nil {
		return err
	}
	if e, err := c.svc.Parties.GetByID(ctx, employeeID); err != nil || !e.IsEmployee() {
		c.println("Empleado no válido.")
		return nil
	}

	invoice, err := c.in.line("Número de Factura: ")
	if err != nil {
		return err
	}
	notes, err := c.in.line("Observaciones (opcional): ")
	if err != nil {
		return err
	}

	p := purchase.NewPurchase(supplierID, employeeID, invoice)
	p.SetNotes(notes)

	if err := c.addLines(ctx, p); err != nil {
		return err
	}
	if len(p.Lines) == 0 {
		c.println("No se agregaron productos. Compra cancelada.")
		return nil
	}

	id, err := c.svc.Purchases.Create(ctx, p)
	if err != nil {
		return err
	}
	c.printf("Compra registrada con ID: %d. Stock actualizado.\n", id)
	return nil
}

// addLines reads product/quantity/value triples until product 0. A bad
// entry is reported and the loop asks for the next product.
func (c *Console) addLines(ctx context.Context, p *purchase.Purchase) error {
	for {
		products, err := c.svc.Products.GetAll(ctx)
		if err != nil {
			return err
		}
		c.println("Productos Disponibles (parcial):")
		for i, prod := range products {
			if i == productHints {
				break
			}
			c.printf("ID: %d - %s\n", prod.ID, prod.Name)
		}

		productID, err := c.in.integer("ID del Producto a comprar (0 para terminar): ", "productId")
		if err != nil {
			if skipLine(err) {
				c.println("Error: " + UserMessage(err))
				continue
			}
			return err
		}
		if productID == 0 {
			return nil
		}

		prod, err := c.svc.Products.GetByID(ctx, int64(productID))
		if err != nil {
			c.println("Producto no encontrado.")
			continue
		}

		qty, err := c.in.integer("Cantidad de '"+prod.Name+"': ", "quantity")
		if err != nil {
			if skipLine(err) {
				c.println("Error: " + UserMessage(err))
				continue
			}
			return err
		}
		value, err := c.in.money("Precio de compra unitario para '"+prod.Name+"': ", "unitValue")
		if err != nil {
			if skipLine(err) {
				c.println("Error: " + UserMessage(err))
				continue
			}
			return err
		}
		if qty <= 0 || value.IsNegative() {
			c.println("Cantidad o precio inválido.")
			continue
		}

		p.AddLine(prod.ID, qty, value)
	}
}

// skipLine reports whether a line-entry error only invalidates that entry.
func skipLine(err error) bool {
	return !errors.Is(err, io.EOF) && apperror.HasCode(err, apperror.CodeInvalidInput)
}

func (c *Console) listPurchases(ctx context.Context) error {
	c.println("--- Listado de Compras ---")
	items, err := c.svc.Purchases.GetAll(ctx)
	if err != nil {
		return err
	}
	c.printPurchases(ctx, items, "No hay compras registradas.")
	return nil
}

func (c *Console) purchaseDetail(ctx context.Context) error {
	id, err := c.in.id("Ingrese ID de la compra: ", "id")
	if err != nil {
		return err
	}
	p, err := c.svc.Purchases.GetByID(ctx, id)
	if err != nil {
		return err
	}
	c.printPurchaseDetail(ctx, p)
	return nil
}

func (c *Console) completePurchase(ctx context.Context) error {
	id, err := c.in.id("Ingrese ID de la compra a completar: ", "id")
	if err != nil {
		return err
	}
	if err := c.svc.Purchases.Complete(ctx, id); err != nil {
		return err
	}
	c.println("Compra completada.")
	return nil
}

func (c *Console) cancelPurchase(ctx context.Context) error {
	id, err := c.in.id("Ingrese ID de la compra a cancelar: ", "id")
	if err != nil {
		return err
	}
	ok, err := c.in.confirm("Se revertirá el stock de sus productos. ¿Confirma? (s/n): ")
	if err != nil {
		return err
	}
	if !ok {
		c.println("Operación cancelada.")
		return nil
	}
	if err := c.svc.Purchases.Cancel(ctx, id); err != nil {
		return err
	}
	c.println("Compra cancelada. Stock revertido.")
	return nil
}

func (c *Console) purchasesByDate(ctx context.Context) error {
	from, err := c.in.date("Desde (dd/mm/aaaa): ", "date")
	if err != nil {
		return err
	}
	to, err := c.in.date("Hasta (dd/mm/aaaa): ", "date")
	if err != nil {
		return err
	}
	if from.After(to) {
		from, to = to, from
	}
	// Include the whole last day
	to = to.Add(24*time.Hour - time.Nanosecond)

	items, err := c.svc.Purchases.GetByDateRange(ctx, from, to)
	if err != nil {
		return err
	}
	c.printPurchases(ctx, items, "No hay compras en ese rango de fechas.")
	return nil
}

func (c *Console) purchasesByStatus(ctx context.Context) error {
	c.println("Estados: 1: Pendiente, 2: Completada, 3: Cancelada")
	n, err := c.in.integer("Estado: ", "status")
	if err != nil {
		return err
	}
	items, err := c.svc.Purchases.GetByStatus(ctx, purchase.Status(n))
	if err != nil {
		return err
	}
	c.printPurchases(ctx, items, "No hay compras en ese estado.")
	return nil
}

func (c *Console) purchasesBySupplier(ctx context.Context) error {
	id, err := c.in.id("ID del Proveedor: ", "supplierId")
	if err != nil {
		return err
	}
	items, err := c.svc.Purchases.GetBySupplier(ctx, id)
	if err != nil {
		return err
	}
	c.printPurchases(ctx, items, "No hay compras de ese proveedor.")
	return nil
}

func (c *Console) deletePurchase(ctx context.Context) error {
	id, err := c.in.id("Ingrese ID de la compra a eliminar: ", "id")
	if err != nil {
		return err
	}
	ok, err := c.in.confirm("¿Confirma la eliminación? (s/n): ")
	if err != nil {
		return err
	}
	if !ok {
		c.println("Eliminación cancelada.")
		return nil
	}
	if err := c.svc.Purchases.Delete(ctx, id); err != nil {
		return err
	}
	c.println("Compra eliminada.")
	return nil
}
