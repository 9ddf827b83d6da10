package catalog

// Defaults returns the catalog rows a fresh installation starts with.
// TipoTercero keys must match thirdparty.Type.
func Defaults() map[Kind][]Entry {
	return map[Kind][]Entry{
		DocumentTypes: {
			{ID: 1, Name: "Cédula de ciudadanía"},
			{ID: 2, Name: "NIT"},
			{ID: 3, Name: "Cédula de extranjería"},
			{ID: 4, Name: "Pasaporte"},
		},
		ThirdPartyTypes: {
			{ID: 1, Name: "Cliente"},
			{ID: 2, Name: "Proveedor"},
			{ID: 3, Name: "Empleado"},
		},
		Cities: {
			{ID: 1, Name: "Bogotá"},
			{ID: 2, Name: "Medellín"},
			{ID: 3, Name: "Cali"},
			{ID: 4, Name: "Barranquilla"},
			{ID: 5, Name: "Bucaramanga"},
		},
		Categories: {
			{ID: 1, Name: "Abarrotes"},
			{ID: 2, Name: "Bebidas"},
			{ID: 3, Name: "Aseo"},
			{ID: 4, Name: "Papelería"},
		},
	}
}
