package paging

// PageSize is the fixed number of products on a page.
const PageSize = 10

// Page returns the half open slice [(pageNumber-1)*pageSize, pageNumber*pageSize)
// clamped to the list. Pages past the end are empty.
func Page[T any](list []T, pageNumber, pageSize int) []T {
	if pageNumber < 1 || pageSize < 1 {
		return []T{}
	}
	if pageNumber > TotalPages(len(list), pageSize) || len(list) == 0 {
		return []T{}
	}
	start := (pageNumber - 1) * pageSize
	end := min(start+pageSize, len(list))
	return list[start:end]
}

// TotalPages is never below one, an empty list is "page 1 of 1".
func TotalPages(n, pageSize int) int {
	if pageSize < 1 || n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// Pager tracks the current page of a list. Moves outside [1, Total] are ignored.
type Pager struct {
	size   int
	number int
	total  int
}

func NewPager(pageSize int) *Pager {
	if pageSize < 1 {
		pageSize = PageSize
	}
	return &Pager{size: pageSize, number: 1, total: 1}
}

// Reset goes back to page one for a list of n items.
func (p *Pager) Reset(n int) {
	p.total = TotalPages(n, p.size)
	p.number = 1
}

func (p *Pager) Number() int { return p.number }
func (p *Pager) Total() int  { return p.total }
func (p *Pager) Size() int   { return p.size }

func (p *Pager) HasNext() bool     { return p.number < p.total }
func (p *Pager) HasPrevious() bool { return p.number > 1 }

func (p *Pager) Goto(n int) bool {
	if n < 1 || n > p.total || n == p.number {
		return false
	}
	p.number = n
	return true
}

func (p *Pager) Next() bool     { return p.Goto(p.number + 1) }
func (p *Pager) Previous() bool { return p.Goto(p.number - 1) }
func (p *Pager) First() bool    { return p.Goto(1) }
