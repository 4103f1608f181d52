package exports

// Una spec por formato en vez de una función por provider: columnas,
// si exige dirección y si ordena por ZIP. El engine genérico consume
// esto y listo; agregar un provider nuevo es agregar una entrada.

type column struct {
	header string
	value  func(Record) string
}

type formatSpec struct {
	columns []column

	// Los formatos propietarios descartan records sin addressLine1;
	// csv/excel genéricos exportan todo.
	requiresAddress bool

	// Avery ordena por ZIP ascendente LEXICOGRÁFICO (no numérico):
	// agrupa prefijos para bulk mail y banca ZIP+4 sin caso especial.
	sortByZIP bool

	ext         string
	contentType string
}

const (
	csvContentType  = "text/csv"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func orUS(s string) string {
	if s == "" {
		return "US"
	}
	return s
}

// Columnas del csv/excel genérico (mismo mapping para ambos).
var genericColumns = []column{
	{"First Name", func(r Record) string { return r.FirstName }},
	{"Last Name", func(r Record) string { return r.LastName }},
	{"Email", func(r Record) string { return r.Email }},
	{"Phone", func(r Record) string { return r.Phone }},
	{"Address Line 1", func(r Record) string { return r.AddressLine1 }},
	{"Address Line 2", func(r Record) string { return r.AddressLine2 }},
	{"City", func(r Record) string { return r.City }},
	{"State", func(r Record) string { return r.State }},
	{"ZIP", func(r Record) string { return r.ZIP }},
	{"Country", func(r Record) string { return r.Country }},
	{"Status", func(r Record) string { return r.Status }},
	{"Submitted At", func(r Record) string {
		if r.SubmittedAt == nil {
			return ""
		}
		return r.SubmittedAt.Format("1/2/2006")
	}},
}

var specs = map[Format]formatSpec{
	FormatCSV: {
		columns:     genericColumns,
		ext:         "csv",
		contentType: csvContentType,
	},
	FormatExcel: {
		columns:     genericColumns,
		ext:         "xlsx",
		contentType: xlsxContentType,
	},
	FormatMinted: {
		columns: []column{
			{"First Name", func(r Record) string { return r.FirstName }},
			{"Last Name", func(r Record) string { return r.LastName }},
			{"Street Address", func(r Record) string { return r.AddressLine1 }},
			{"Street Address 2", func(r Record) string { return r.AddressLine2 }},
			{"City", func(r Record) string { return r.City }},
			{"State", func(r Record) string { return r.State }},
			{"ZIP Code", func(r Record) string { return r.ZIP }},
			{"Country", func(r Record) string { return orUS(r.Country) }},
		},
		requiresAddress: true,
		ext:             "csv",
		contentType:     csvContentType,
	},
	FormatShutterfly: {
		columns: []column{
			{"FirstName", func(r Record) string { return r.FirstName }},
			{"LastName", func(r Record) string { return r.LastName }},
			{"Address1", func(r Record) string { return r.AddressLine1 }},
			{"Address2", func(r Record) string { return r.AddressLine2 }},
			{"City", func(r Record) string { return r.City }},
			{"State", func(r Record) string { return r.State }},
			{"PostalCode", func(r Record) string { return r.ZIP }},
			{"Country", func(r Record) string { return orUS(r.Country) }},
		},
		requiresAddress: true,
		ext:             "csv",
		contentType:     csvContentType,
	},
	FormatVistaprint: {
		columns: []column{
			{"Recipient Name", func(r Record) string { return r.FirstName + " " + r.LastName }},
			{"Company", func(Record) string { return "" }},
			{"Address Line 1", func(r Record) string { return r.AddressLine1 }},
			{"Address Line 2", func(r Record) string { return r.AddressLine2 }},
			{"City", func(r Record) string { return r.City }},
			{"State/Province", func(r Record) string { return r.State }},
			{"Postal Code", func(r Record) string { return r.ZIP }},
			{"Country", func(r Record) string { return orUS(r.Country) }},
		},
		requiresAddress: true,
		ext:             "csv",
		contentType:     csvContentType,
	},
	FormatAvery: {
		columns: []column{
			{"Name", func(r Record) string { return r.FirstName + " " + r.LastName }},
			{"Address Line 1", func(r Record) string { return r.AddressLine1 }},
			{"Address Line 2", func(r Record) string { return r.AddressLine2 }},
			{"City, State ZIP", cityStateZIP},
			{"Country", func(r Record) string { return orUS(r.Country) }},
		},
		requiresAddress: true,
		sortByZIP:       true,
		ext:             "csv",
		contentType:     csvContentType,
	},
}
