package pagination

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds pagination parameters for list operations.
type Params struct {
	Limit  int
	Offset int
}

// New clamps limit and offset into a usable window. A non-positive limit
// selects DefaultLimit.
func New(limit, offset int) Params {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Params{Limit: limit, Offset: offset}
}

// Page returns the window of items selected by p together with the total
// number of items. The returned slice is a copy.
func Page[T any](items []T, p Params) ([]T, int) {
	total := len(items)
	if p.Offset >= total {
		return []T{}, total
	}
	end := p.Offset + p.Limit
	if p.Limit <= 0 || end > total {
		end = total
	}
	out := make([]T, end-p.Offset)
	copy(out, items[p.Offset:end])
	return out, total
}

// Response wraps one page of a listing.
type Response struct {
	Data    interface{} `json:"data"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
	HasMore bool        `json:"has_more"`
}

func NewResponse(data interface{}, total, limit, offset int) *Response {
	return &Response{
		Data:    data,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}
}
