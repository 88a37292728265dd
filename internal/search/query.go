// Package search compiles the flat query parameters of GET /api/properties
// into a SearchQuery: a closed set of typed predicates plus ordering and a
// page window. The compiler does no I/O; the repository renders the query
// into SQL, so user input never reaches the SQL text directly.
package search

// Kind — вид предиката. Набор закрытый: репозиторий умеет ровно эти формы.
type Kind int

const (
	KindEqual       Kind = iota // field = value
	KindAtLeast                 // field >= number
	KindAtMost                  // field <= number
	KindSubstringCI             // field ILIKE %value% (OR по списку полей)
	KindBoolTrue                // field = TRUE
	KindOneOf                   // field = ANY(values)
)

// Predicate — один условный фрагмент. Field/Fields всегда берутся из
// констант компилятора, никогда из пользовательского ввода.
type Predicate struct {
	Kind   Kind
	Field  string
	Fields []string // только для KindSubstringCI
	Value  string
	Number float64  // только для KindAtLeast/KindAtMost
	Values []string // только для KindOneOf
}

type Order struct {
	Field string
	Desc  bool
}

// SearchQuery — скомпилированный запрос: конъюнкция предикатов,
// фиксированная сортировка и окно страницы. Одноразовый value object.
type SearchQuery struct {
	Predicates []Predicate
	OrderBy    []Order
	Page       int
	Limit      int
	Offset     int
}

// Viewer определяет, кому разрешено смотреть неактивные статусы:
// админу или брокеру в рамках собственных объявлений.
type Viewer struct {
	IsAdmin  bool
	BrokerID string // непустой = поиск ограничен объявлениями этого брокера
}
