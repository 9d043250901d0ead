package resources

// Pagination is the canonical page metadata used everywhere inside the
// client. The backend serves two list envelope shapes; both are folded
// into this one type at the decoding boundary.
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	ItemsPerPage int `json:"itemsPerPage"`
	TotalItems   int `json:"totalItems"`
	TotalPages   int `json:"totalPages"`
}

// ListResult pairs a page of items with its pagination metadata
type ListResult[T any] struct {
	Items      []T
	Pagination Pagination
}

// metaBlock is the `{data, meta}` envelope's metadata shape
type metaBlock struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// listEnvelope accepts both list shapes the backend emits:
// `{data, meta}` and `{items, pagination}`. Which one arrives varies per
// endpoint family, so both are contractually supported.
type listEnvelope[T any] struct {
	Data       []T         `json:"data"`
	Items      []T         `json:"items"`
	Meta       *metaBlock  `json:"meta"`
	Pagination *Pagination `json:"pagination"`
}

// normalize folds the envelope into the canonical result. When metadata
// is entirely absent the defensive fallback is a single page.
func (e *listEnvelope[T]) normalize() ListResult[T] {
	items := e.Data
	if items == nil {
		items = e.Items
	}
	if items == nil {
		items = []T{}
	}

	var p Pagination
	switch {
	case e.Pagination != nil:
		p = *e.Pagination
	case e.Meta != nil:
		p = Pagination{
			CurrentPage:  e.Meta.Page,
			ItemsPerPage: e.Meta.Limit,
			TotalItems:   e.Meta.Total,
			TotalPages:   e.Meta.TotalPages,
		}
		if p.TotalPages == 0 && e.Meta.Limit > 0 {
			p.TotalPages = (e.Meta.Total + e.Meta.Limit - 1) / e.Meta.Limit
		}
	default:
		p = Pagination{
			CurrentPage:  1,
			ItemsPerPage: len(items),
			TotalItems:   len(items),
		}
	}

	if p.CurrentPage < 1 {
		p.CurrentPage = 1
	}
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}

	return ListResult[T]{Items: items, Pagination: p}
}
