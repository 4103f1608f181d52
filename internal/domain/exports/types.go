package exports

type Format string

const (
	FormatCSV        Format = "csv"
	FormatExcel      Format = "excel"
	FormatMinted     Format = "minted"
	FormatShutterfly Format = "shutterfly"
	FormatVistaprint Format = "vistaprint"
	FormatAvery      Format = "avery"
)

func ValidFormat(f Format) bool {
	_, ok := specs[f]
	return ok
}

type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterCompleted StatusFilter = "completed"
	FilterPending   StatusFilter = "pending"
	FilterNotSent   StatusFilter = "not_sent"
)

func ValidStatusFilter(f StatusFilter) bool {
	switch f {
	case FilterAll, FilterCompleted, FilterPending, FilterNotSent:
		return true
	}
	return false
}
