package bill

import "sort"

// SortDescending orders bill views newest first by comparing their display
// date strings lexicographically. This only matches chronological order
// because every surface of this system renders the same fixed display
// format; swapping the date format without revisiting this comparison would
// silently break the ordering. Equal keys keep their incoming order.
func SortDescending(views []View) {
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Date > views[j].Date
	})
}
