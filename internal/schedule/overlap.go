package schedule

import "github.com/Freeeeeet/roombooking/internal/model"

// FindOverlap возвращает первое существующее окно, пересекающееся с кандидатом.
// Интервалы полуоткрытые [start, end): окна встык пересечением не считаются.
func FindOverlap(candidate Window, existing []*model.Window) *model.Window {
	for _, w := range existing {
		if candidate.StartTime.Before(w.EndTime) && w.StartTime.Before(candidate.EndTime) {
			return w
		}
	}
	return nil
}
