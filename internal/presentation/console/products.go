package console

import (
	"context"

	"stockdesk/internal/domain/catalog"
	"stockdesk/internal/domain/product"
)

// clearValue blanks an optional field when typed at an update prompt.
const clearValue = "-"

func (c *Console) productsMenu(ctx context.Context) error {
	return c.loop(ctx, "Gestión de Productos", "V", "Volver al menú principal", []menuItem{
		{"1", "Ver todos los productos", "product.list", c.listProducts},
		{"2", "Crear nuevo producto", "product.create", c.createProduct},
		{"3", "Modificar producto", "product.update", c.updateProduct},
		{"4", "Eliminar producto", "product.delete", c.deleteProduct},
		{"5", "Buscar producto por nombre/barcode", "product.search", c.searchProducts},
		{"6", "Ajustar stock", "product.adjust_stock", c.adjustStock},
		{"7", "Ver productos con stock bajo", "product.low_stock", c.lowStock},
	})
}

func (c *Console) listProducts(ctx context.Context) error {
	c.println("--- Listado de Productos ---")
	items, err := c.svc.Products.GetAll(ctx)
	if err != nil {
		return err
	}
	c.printProducts(ctx, items, "No hay productos registrados.")
	return nil
}

func (c *Console) createProduct(ctx context.Context) error {
	c.println("--- Crear Nuevo Producto ---")

	name, err := c.in.line("Nombre del producto: ")
	if err != nil {
		return err
	}
	stock, err := c.in.integer("Stock Inicial: ", "currentStock")
	if err != nil {
		return err
	}
	price, err := c.in.money("Precio Unitario (ej: 1500,50): ", "unitPrice")
	if err != nil {
		return err
	}
	minStock, err := c.in.integer("Stock Mínimo: ", "minStock")
	if err != nil {
		return err
	}
	maxStock, err := c.in.integerOr("Stock Máximo (100 si se deja vacío): ", "maxStock", 100)
	if err != nil {
		return err
	}

	p := product.NewProduct(name, stock, minStock, maxStock, price)

	barcode, err := c.in.line("Código de Barras (opcional): ")
	if err != nil {
		return err
	}
	p.SetBarcode(barcode)

	c.printCatalog(ctx, catalog.Categories, "Categorías Disponibles")
	category, err := c.in.integerOr("ID de Categoría (opcional, 0 si no aplica): ", "categoryId", 0)
	if err != nil {
		return err
	}
	p.SetCategory(int64(category))

	id, err := c.svc.Products.Create(ctx, p)
	if err != nil {
		return err
	}
	c.printf("Producto '%s' creado con ID: %d exitosamente.\n", p.Name, id)
	return nil
}

// updateProduct edits descriptive fields; a blank answer keeps the current
// value. Stock is changed through adjustStock only.
func (c *Console) updateProduct(ctx context.Context) error {
	c.println("--- Modificar Producto ---")

	id, err := c.in.id("Ingrese ID del producto a modificar: ", "id")
	if err != nil {
		return err
	}
	p, err := c.svc.Products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	c.printf("Modificando: %s (Stock actual: %d)\n", p.Name, p.CurrentStock)

	name, err := c.in.line("Nuevo Nombre (actual: " + p.Name + "): ")
	if err != nil {
		return err
	}
	if name != "" {
		p.Name = name
	}

	if p.UnitPrice, err = c.in.moneyOr("Nuevo Precio Unitario (actual: "+p.UnitPrice.StringFixed(2)+"): ", "unitPrice", p.UnitPrice); err != nil {
		return err
	}
	if p.MinStock, err = c.in.integerOr("Nuevo Stock Mínimo (actual: "+itoa(int64(p.MinStock))+"): ", "minStock", p.MinStock); err != nil {
		return err
	}
	if p.MaxStock, err = c.in.integerOr("Nuevo Stock Máximo (actual: "+itoa(int64(p.MaxStock))+"): ", "maxStock", p.MaxStock); err != nil {
		return err
	}

	barcode, err := c.in.line("Nuevo Código de Barras (actual: " + p.BarcodeValue() + ", '-' para quitar): ")
	if err != nil {
		return err
	}
	switch barcode {
	case "":
	case clearValue:
		p.SetBarcode("")
	default:
		p.SetBarcode(barcode)
	}

	current := int64(0)
	if p.CategoryID != nil {
		current = *p.CategoryID
	}
	c.printCatalog(ctx, catalog.Categories, "Categorías Disponibles")
	category, err := c.in.integerOr("Nueva Categoría (actual: "+itoa(current)+", 0 para quitar): ", "categoryId", int(current))
	if err != nil {
		return err
	}
	p.SetCategory(int64(category))

	if err := c.svc.Products.Update(ctx, p); err != nil {
		return err
	}
	c.println("Producto actualizado.")
	return nil
}

func (c *Console) deleteProduct(ctx context.Context) error {
	c.println("--- Eliminar Producto ---")

	id, err := c.in.id("Ingrese ID del producto a eliminar: ", "id")
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

	if err := c.svc.Products.Delete(ctx, id); err != nil {
		return err
	}
	c.println("Producto eliminado.")
	return nil
}

func (c *Console) searchProducts(ctx context.Context) error {
	c.println("--- Buscar Productos ---")

	text, err := c.in.line("Ingrese texto a buscar en Nombre o Código de Barras: ")
	if err != nil {
		return err
	}
	if text == "" {
		c.println("Texto de búsqueda vacío.")
		return nil
	}

	items, err := c.svc.Products.Search(ctx, text)
	if err != nil {
		return err
	}
	c.printProducts(ctx, items, "No se encontraron productos con ese criterio.")
	return nil
}

func (c *Console) adjustStock(ctx context.Context) error {
	c.println("--- Ajustar Stock ---")

	id, err := c.in.id("Ingrese ID del producto: ", "id")
	if err != nil {
		return err
	}
	p, err := c.svc.Products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	c.printf("%s: stock actual %d (mínimo %d, máximo %d)\n", p.Name, p.CurrentStock, p.MinStock, p.MaxStock)

	delta, err := c.in.integer("Cantidad a sumar (negativa para retirar): ", "delta")
	if err != nil {
		return err
	}
	if err := c.svc.Products.UpdateStock(ctx, id, delta); err != nil {
		return err
	}

	updated, err := c.svc.Products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	c.printf("Stock actualizado: %d.\n", updated.CurrentStock)
	if updated.NeedsReplenishment() {
		c.println("Atención: el producto está por debajo del stock mínimo.")
	}
	return nil
}

func (c *Console) lowStock(ctx context.Context) error {
	c.println("--- Productos con Stock Bajo ---")
	items, err := c.svc.Products.GetLowStock(ctx)
	if err != nil {
		return err
	}
	c.printLowStock(items)
	return nil
}
