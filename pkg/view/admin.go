package view

// Field is one input of an admin form.
type Field struct {
	Name     string
	Label    string
	Type     string // text, number, textarea, select, datetime-local, email
	Value    string
	Options  []string
	Required bool
	Step     string
	Error    string
}

type Row struct {
	ID    int64
	Cells []string
}

type ListPage struct {
	Flash      *Flash
	Title      string
	Entity     string
	Path       string
	Columns    []string
	Rows       []Row
	Total      int64
	Page       int
	TotalPages int
}

func (p ListPage) HasPrev() bool { return p.Page > 1 }
func (p ListPage) HasNext() bool { return p.Page < p.TotalPages }
func (p ListPage) PrevPage() int { return p.Page - 1 }
func (p ListPage) NextPage() int { return p.Page + 1 }

type DetailItem struct {
	Label string
	Value string
	Link  string
}

type DetailPage struct {
	Flash  *Flash
	Title  string
	Entity string
	Path   string
	ID     int64
	Items  []DetailItem
	// Related is an optional sub-table, e.g. the items of an order.
	Related *ListPage
}

type FormPage struct {
	Flash     *Flash
	Title     string
	Path      string
	Action    string
	ID        int64
	Fields    []Field
	FormError string
}

type DeletePage struct {
	Title    string
	Path     string
	ID       int64
	Question string
}

type ErrorPage struct {
	Flash     *Flash
	Status    int
	Title     string
	Message   string
	RequestID string
}
