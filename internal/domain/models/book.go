package models

// Book references its category and authors by id; the repository fills in
// the names when reading.
type Book struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Authors     []Author `json:"authors"`
	Price       float64  `json:"price"`
}

func (b Book) AuthorIDs() []int64 {
	ids := make([]int64, 0, len(b.Authors))
	for _, a := range b.Authors {
		ids = append(ids, a.ID)
	}
	return ids
}
