package core

// Paginate numbers items from 1 in their given order and cuts them into
// pages of PageSize. Only the last page may be shorter.
func Paginate(items []Item) []Page {
	if len(items) == 0 {
		return nil
	}

	pages := make([]Page, 0, (len(items)+PageSize-1)/PageSize)
	for k, it := range items {
		if k%PageSize == 0 {
			pages = append(pages, Page{
				Number:  k/PageSize + 1,
				Entries: make([]Entry, 0, min(PageSize, len(items)-k)),
			})
		}
		last := &pages[len(pages)-1]
		last.Entries = append(last.Entries, Entry{Serial: k + 1, Title: it.Title, ID: it.ID})
	}
	return pages
}
