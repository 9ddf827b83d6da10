package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"stockdesk/internal/core/types"
	"stockdesk/internal/domain/catalog"
	"stockdesk/internal/domain/product"
	"stockdesk/internal/domain/purchase"
	"stockdesk/internal/domain/thirdparty"
)

const notAvailable = "N/A"

// table prints rows aligned under header, columns separated by " | ".
func (c *Console) table(header []string, rows [][]string) {
	w := tabwriter.NewWriter(c.out, 0, 0, 1, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t| "))

	width := 0
	for _, h := range header {
		width += len(h) + 3
	}
	fmt.Fprintln(w, strings.Repeat("-", width))

	for _, r := range rows {
		fmt.Fprintln(w, strings.Join(r, "\t| "))
	}
	_ = w.Flush()
}

func (c *Console) printProducts(ctx context.Context, items []*product.Product, empty string) {
	if len(items) == 0 {
		c.println(empty)
		return
	}

	rows := make([][]string, 0, len(items))
	for _, p := range items {
		category := notAvailable
		if p.CategoryID != nil {
			category = c.svc.Catalogs.NameOr(ctx, catalog.Categories, *p.CategoryID, notAvailable)
		}
		rows = append(rows, []string{
			itoa(p.ID),
			p.Name,
			strconv.Itoa(p.CurrentStock),
			types.FormatMoney(p.UnitPrice),
			category,
			p.BarcodeValue(),
		})
	}
	c.table([]string{"ID", "Nombre", "Stock", "Precio U.", "Categoría", "Código"}, rows)
}

func (c *Console) printLowStock(items []*product.Product) {
	if len(items) == 0 {
		c.println("No hay productos por debajo del stock mínimo.")
		return
	}

	rows := make([][]string, 0, len(items))
	for _, p := range items {
		rows = append(rows, []string{
			itoa(p.ID),
			p.Name,
			strconv.Itoa(p.CurrentStock),
			strconv.Itoa(p.MinStock),
			strconv.Itoa(p.MaxStock),
		})
	}
	c.table([]string{"ID", "Nombre", "Stock", "Mínimo", "Máximo"}, rows)
}

func (c *Console) printParties(ctx context.Context, items []*thirdparty.ThirdParty, empty string) {
	if len(items) == 0 {
		c.println(empty)
		return
	}

	rows := make([][]string, 0, len(items))
	for _, t := range items {
		docType := c.svc.Catalogs.NameOr(ctx, catalog.DocumentTypes, t.DocumentTypeID, notAvailable)
		typ := c.svc.Catalogs.NameOr(ctx, catalog.ThirdPartyTypes, int64(t.TypeID), notAvailable)
		city := c.svc.Catalogs.NameOr(ctx, catalog.Cities, t.CityID, notAvailable)
		rows = append(rows, []string{
			itoa(t.ID),
			t.FullName(),
			docType + ":" + t.DocumentNumber,
			typ,
			city,
		})
	}
	c.table([]string{"ID", "Nombre Completo", "Documento", "Tipo", "Ciudad"}, rows)
}

// printPurchases loads each purchase's lines to show its total.
func (c *Console) printPurchases(ctx context.Context, items []*purchase.Purchase, empty string) {
	if len(items) == 0 {
		c.println(empty)
		return
	}

	rows := make([][]string, 0, len(items))
	for _, p := range items {
		total := notAvailable
		if full, err := c.svc.Purchases.GetByID(ctx, p.ID); err == nil {
			total = types.FormatMoney(full.Total())
		}
		rows = append(rows, []string{
			itoa(p.ID),
			formatDate(p.Date),
			c.partyName(ctx, p.SupplierID),
			p.InvoiceNumber,
			statusLabel(p.Status),
			total,
		})
	}
	c.table([]string{"ID", "Fecha", "Proveedor", "Factura #", "Estado", "Total"}, rows)
}

func (c *Console) printPurchaseDetail(ctx context.Context, p *purchase.Purchase) {
	c.printf("Compra #%d\n", p.ID)
	c.printf("Fecha:      %s\n", formatDate(p.Date))
	c.printf("Proveedor:  %s\n", c.partyName(ctx, p.SupplierID))
	c.printf("Empleado:   %s\n", c.partyName(ctx, p.EmployeeID))
	c.printf("Factura #:  %s\n", p.InvoiceNumber)
	c.printf("Estado:     %s\n", statusLabel(p.Status))
	if notes := p.NotesValue(); notes != "" {
		c.printf("Notas:      %s\n", notes)
	}

	rows := make([][]string, 0, len(p.Lines))
	for _, l := range p.Lines {
		name := notAvailable
		if prod, err := c.svc.Products.GetByID(ctx, l.ProductID); err == nil {
			name = prod.Name
		}
		rows = append(rows, []string{
			itoa(l.ProductID),
			name,
			strconv.Itoa(l.Quantity),
			types.FormatMoney(l.UnitValue),
			types.FormatMoney(l.Total()),
		})
	}
	c.table([]string{"Producto", "Nombre", "Cantidad", "Valor U.", "Subtotal"}, rows)
	c.printf("Total: %s\n", types.FormatMoney(p.Total()))
}

func (c *Console) printCatalog(ctx context.Context, kind catalog.Kind, title string) {
	entries, err := c.svc.Catalogs.Entries(ctx, kind)
	if err != nil {
		c.println(title + " (no disponible)")
		return
	}
	c.println(title + ":")
	for _, e := range entries {
		c.printf("%d: %s\n", e.ID, e.Name)
	}
}

func (c *Console) partyName(ctx context.Context, id int64) string {
	t, err := c.svc.Parties.GetByID(ctx, id)
	if err != nil {
		return notAvailable
	}
	return t.FullName()
}

func statusLabel(s purchase.Status) string {
	return label(statusLabels, s.String())
}

func formatDate(t time.Time) string {
	return t.Local().Format("02/01/2006")
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
