package console

import (
	"context"

	"stockdesk/internal/domain/catalog"
	"stockdesk/internal/domain/thirdparty"
)

func (c *Console) partiesMenu(ctx context.Context) error {
	return c.loop(ctx, "Gestión de Terceros", "V", "Volver al menú principal", []menuItem{
		{"1", "Ver todos los terceros", "thirdparty.list", c.listParties},
		{"2", "Ver Clientes", "thirdparty.customers", c.listByType(thirdparty.TypeCustomer, "--- Listado de Clientes ---")},
		{"3", "Ver Proveedores", "thirdparty.suppliers", c.listByType(thirdparty.TypeSupplier, "--- Listado de Proveedores ---")},
		{"4", "Ver Empleados", "thirdparty.employees", c.listByType(thirdparty.TypeEmployee, "--- Listado de Empleados ---")},
		{"5", "Crear nuevo tercero", "thirdparty.create", c.createParty},
		{"6", "Modificar tercero", "thirdparty.update", c.updateParty},
		{"7", "Eliminar tercero", "thirdparty.delete", c.deleteParty},
		{"8", "Buscar tercero por nombre", "thirdparty.search", c.searchParties},
	})
}

func (c *Console) listParties(ctx context.Context) error {
	c.println("--- Listado de Terceros ---")
	items, err := c.svc.Parties.GetAll(ctx)
	if err != nil {
		return err
	}
	c.printParties(ctx, items, "No hay terceros registrados.")
	return nil
}

func (c *Console) listByType(typ thirdparty.Type, title string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		c.println(title)
		items, err := c.svc.Parties.GetByType(ctx, typ)
		if err != nil {
			return err
		}
		c.printParties(ctx, items, "No hay terceros registrados para este tipo.")
		return nil
	}
}

func (c *Console) createParty(ctx context.Context) error {
	c.println("--- Crear Nuevo Tercero ---")

	name, err := c.in.line("Nombre: ")
	if err != nil {
		return err
	}
	surname, err := c.in.line("Apellido (opcional): ")
	if err != nil {
		return err
	}
	email, err := c.in.line("Email (opcional): ")
	if err != nil {
		return err
	}
	document, err := c.in.line("Número de Documento: ")
	if err != nil {
		return err
	}

	c.printCatalog(ctx, catalog.DocumentTypes, "Tipos de Documento")
	docType, err := c.in.id("ID Tipo Documento: ", "documentTypeId")
	if err != nil {
		return err
	}
	c.printCatalog(ctx, catalog.ThirdPartyTypes, "Tipos de Tercero")
	typ, err := c.in.id("ID Tipo Tercero: ", "typeId")
	if err != nil {
		return err
	}
	c.printCatalog(ctx, catalog.Cities, "Ciudades")
	city, err := c.in.id("ID Ciudad: ", "cityId")
	if err != nil {
		return err
	}

	t := thirdparty.NewThirdParty(name, document, docType, thirdparty.Type(typ), city)
	t.SetSurname(surname)
	t.SetEmail(email)

	id, err := c.svc.Parties.Create(ctx, t)
	if err != nil {
		return err
	}
	c.printf("Tercero '%s' creado con ID: %d.\n", t.FullName(), id)
	return nil
}

// updateParty edits contact fields and city; a blank answer keeps the
// current value and '-' clears an optional one.
func (c *Console) updateParty(ctx context.Context) error {
	c.println("--- Modificar Tercero ---")

	id, err := c.in.id("Ingrese ID del tercero a modificar: ", "id")
	if err != nil {
		return err
	}
	t, err := c.svc.Parties.GetByID(ctx, id)
	if err != nil {
		return err
	}
	c.printf("Modificando: %s\n", t.FullName())

	name, err := c.in.line("Nuevo Nombre (actual: " + t.Name + "): ")
	if err != nil {
		return err
	}
	if name != "" {
		t.Name = name
	}

	if err := c.editOptional("Nuevo Apellido (actual: "+t.SurnameValue()+", '-' para quitar): ", t.SetSurname); err != nil {
		return err
	}
	if err := c.editOptional("Nuevo Email (actual: "+t.EmailValue()+", '-' para quitar): ", t.SetEmail); err != nil {
		return err
	}

	c.printCatalog(ctx, catalog.Cities, "Ciudades")
	city, err := c.in.integerOr("Nueva Ciudad (actual: "+itoa(t.CityID)+"): ", "cityId", int(t.CityID))
	if err != nil {
		return err
	}
	t.CityID = int64(city)

	if err := c.svc.Parties.Update(ctx, t); err != nil {
		return err
	}
	c.println("Tercero actualizado.")
	return nil
}

func (c *Console) editOptional(prompt string, set func(string)) error {
	v, err := c.in.line(prompt)
	if err != nil {
		return err
	}
	switch v {
	case "":
	case clearValue:
		set("")
	default:
		set(v)
	}
	return nil
}

func (c *Console) deleteParty(ctx context.Context) error {
	c.println("--- Eliminar Tercero ---")

	id, err := c.in.id("Ingrese ID del tercero a eliminar: ", "id")
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

	if err := c.svc.Parties.Delete(ctx, id); err != nil {
		return err
	}
	c.println("Tercero eliminado.")
	return nil
}

func (c *Console) searchParties(ctx context.Context) error {
	c.println("--- Buscar Terceros por Nombre/Apellido ---")

	text, err := c.in.line("Ingrese texto a buscar: ")
	if err != nil {
		return err
	}
	if text == "" {
		c.println("Texto de búsqueda vacío.")
		return nil
	}

	items, err := c.svc.Parties.Search(ctx, text)
	if err != nil {
		return err
	}
	c.printParties(ctx, items, "No se encontraron terceros con ese criterio.")
	return nil
}
