package schedule

import "github.com/Freeeeeet/roombooking/internal/model"

// GenerateSlots режет окно на слоты фиксированной длительности.
// Курсор идёт от начала окна шагом SlotDuration, неполный хвост отбрасывается.
// Детерминировано: одно и то же окно всегда даёт одинаковые границы.
func GenerateSlots(w Window) []*model.Slot {
	var slots []*model.Slot

	for cursor := w.StartTime; !cursor.Add(SlotDuration).After(w.EndTime); cursor = cursor.Add(SlotDuration) {
		slots = append(slots, &model.Slot{
			StartTime: cursor,
			EndTime:   cursor.Add(SlotDuration),
			Booked:    false,
		})
	}

	return slots
}
