package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/roombooking/internal/model"
	"github.com/Freeeeeet/roombooking/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore in-memory хранилище для тестов сервисов.
// txMu сериализует транзакции, mu защищает данные между вызовами.
type fakeStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	nextID   int64
	users    map[int64]*model.User
	sessions map[string]*model.Session
	rooms    map[int64]*model.Room
	windows  map[int64]*model.Window
	slots    map[int64]*model.Slot
	bookings map[int64]*model.Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[int64]*model.User),
		sessions: make(map[string]*model.Session),
		rooms:    make(map[int64]*model.Room),
		windows:  make(map[int64]*model.Window),
		slots:    make(map[int64]*model.Slot),
		bookings: make(map[int64]*model.Booking),
	}
}

func (st *fakeStore) id() int64 {
	st.nextID++
	return st.nextID
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

type fakeUserRepo struct{ st *fakeStore }

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, u := range r.st.users {
		if u.Email == user.Email {
			return uniqueViolation()
		}
	}
	user.ID = r.st.id()
	user.CreatedAt = time.Now()
	cp := *user
	r.st.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, u := range r.st.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if u, ok := r.st.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

type fakeSessionRepo struct{ st *fakeStore }

func (r *fakeSessionRepo) Create(_ context.Context, session *model.Session) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.sessions[session.ID]; ok {
		return uniqueViolation()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	cp := *session
	r.st.sessions[session.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id string) (*model.Session, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if s, ok := r.st.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	delete(r.st.sessions, id)
	return nil
}

func (r *fakeSessionRepo) DeleteByUserID(_ context.Context, userID int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for id, s := range r.st.sessions {
		if s.UserID == userID {
			delete(r.st.sessions, id)
		}
	}
	return nil
}

type fakeRoomRepo struct{ st *fakeStore }

func (r *fakeRoomRepo) Create(_ context.Context, room *model.Room) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, existing := range r.st.rooms {
		if existing.RoomNo == room.RoomNo {
			return uniqueViolation()
		}
	}
	room.ID = r.st.id()
	room.CreatedAt = time.Now()
	cp := *room
	r.st.rooms[room.ID] = &cp
	return nil
}

func (r *fakeRoomRepo) GetByID(_ context.Context, id int64) (*model.Room, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if room, ok := r.st.rooms[id]; ok {
		cp := *room
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeRoomRepo) GetByNo(_ context.Context, roomNo string) (*model.Room, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, room := range r.st.rooms {
		if room.RoomNo == roomNo {
			cp := *room
			return &cp, nil
		}
	}
	return nil, nil
}

// GetByNoForUpdate в фейке не блокирует: fakeTxManager и так
// сериализует транзакции одним мьютексом
func (r *fakeRoomRepo) GetByNoForUpdate(ctx context.Context, roomNo string) (*model.Room, error) {
	return r.GetByNo(ctx, roomNo)
}

func (r *fakeRoomRepo) GetBySlotID(_ context.Context, slotID int64) (*model.Room, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	slot, ok := r.st.slots[slotID]
	if !ok {
		return nil, nil
	}
	window, ok := r.st.windows[slot.WindowID]
	if !ok {
		return nil, nil
	}
	room, ok := r.st.rooms[window.RoomID]
	if !ok {
		return nil, nil
	}
	cp := *room
	return &cp, nil
}

func (r *fakeRoomRepo) CreateWindow(_ context.Context, window *model.Window) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	window.ID = r.st.id()
	window.CreatedAt = time.Now()
	cp := *window
	r.st.windows[window.ID] = &cp
	return nil
}

func (r *fakeRoomRepo) GetWindows(_ context.Context, roomID int64, date string) ([]*model.Window, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*model.Window
	for _, w := range r.st.windows {
		if w.RoomID == roomID && w.Date.Format("2006-01-02") == date {
			cp := *w
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *fakeRoomRepo) ListWindowSummaries(_ context.Context) ([]*model.WindowSummary, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*model.WindowSummary
	for _, w := range r.st.windows {
		room := r.st.rooms[w.RoomID]
		s := &model.WindowSummary{
			WindowID:  w.ID,
			RoomID:    w.RoomID,
			RoomNo:    room.RoomNo,
			Date:      w.Date,
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
		}
		for _, slot := range r.st.slots {
			if slot.WindowID == w.ID {
				s.SlotsTotal++
				if slot.Booked {
					s.SlotsBooked++
				}
			}
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *fakeRoomRepo) Delete(_ context.Context, id int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	delete(r.st.rooms, id)
	for wid, w := range r.st.windows {
		if w.RoomID != id {
			continue
		}
		delete(r.st.windows, wid)
		for sid, s := range r.st.slots {
			if s.WindowID == wid {
				delete(r.st.slots, sid)
			}
		}
	}
	return nil
}

type fakeSlotRepo struct{ st *fakeStore }

func (r *fakeSlotRepo) CreateBatch(_ context.Context, windowID int64, slots []*model.Slot) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, slot := range slots {
		slot.WindowID = windowID
		slot.ID = r.st.id()
		slot.CreatedAt = time.Now()
		cp := *slot
		r.st.slots[slot.ID] = &cp
	}
	return nil
}

func (r *fakeSlotRepo) GetByID(_ context.Context, id int64) (*model.Slot, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if s, ok := r.st.slots[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeSlotRepo) ListFree(_ context.Context, roomNo string, from time.Time) ([]*model.AvailableSlot, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*model.AvailableSlot
	for _, s := range r.st.slots {
		if s.Booked || s.StartTime.Before(from) {
			continue
		}
		window := r.st.windows[s.WindowID]
		room := r.st.rooms[window.RoomID]
		if roomNo != "" && room.RoomNo != roomNo {
			continue
		}
		out = append(out, &model.AvailableSlot{
			SlotID:    s.ID,
			RoomNo:    room.RoomNo,
			Date:      window.Date,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *fakeSlotRepo) MarkBooked(_ context.Context, slotID int64) (bool, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	s, ok := r.st.slots[slotID]
	if !ok || s.Booked {
		return false, nil
	}
	s.Booked = true
	return true, nil
}

func (r *fakeSlotRepo) MarkFree(_ context.Context, slotID int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if s, ok := r.st.slots[slotID]; ok {
		s.Booked = false
	}
	return nil
}

func (r *fakeSlotRepo) CountBookedByRoom(_ context.Context, roomID int64) (int, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	count := 0
	for _, s := range r.st.slots {
		if !s.Booked {
			continue
		}
		if w, ok := r.st.windows[s.WindowID]; ok && w.RoomID == roomID {
			count++
		}
	}
	return count, nil
}

func (r *fakeSlotRepo) Delete(_ context.Context, id int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	delete(r.st.slots, id)
	return nil
}

type fakeBookingRepo struct{ st *fakeStore }

func (r *fakeBookingRepo) Create(_ context.Context, booking *model.Booking) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, b := range r.st.bookings {
		// Те же ограничения, что и уникальные индексы в схеме
		if b.SlotID == booking.SlotID || b.TokenCode == booking.TokenCode {
			return uniqueViolation()
		}
	}
	booking.ID = r.st.id()
	booking.CreatedAt = time.Now()
	cp := *booking
	r.st.bookings[booking.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id int64) (*model.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if b, ok := r.st.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	delete(r.st.bookings, id)
	return nil
}

func (r *fakeBookingRepo) detail(b *model.Booking) *model.BookingDetail {
	slot := r.st.slots[b.SlotID]
	window := r.st.windows[slot.WindowID]
	room := r.st.rooms[window.RoomID]
	student := r.st.users[b.StudentID]
	return &model.BookingDetail{
		BookingID:   b.ID,
		StudentID:   b.StudentID,
		StudentName: student.Name,
		RoomNo:      room.RoomNo,
		Date:        window.Date,
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
		TokenCode:   b.TokenCode,
		CreatedAt:   b.CreatedAt,
	}
}

func (r *fakeBookingRepo) ListByStudent(_ context.Context, studentID int64, limit int) ([]*model.BookingDetail, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*model.BookingDetail
	for _, b := range r.st.bookings {
		if b.StudentID == studentID {
			out = append(out, r.detail(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingID > out[j].BookingID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context) ([]*model.BookingDetail, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*model.BookingDetail
	for _, b := range r.st.bookings {
		out = append(out, r.detail(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingID > out[j].BookingID })
	return out, nil
}

func (r *fakeBookingRepo) CountByStudent(_ context.Context, studentID int64) (int, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	count := 0
	for _, b := range r.st.bookings {
		if b.StudentID == studentID {
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) CountUpcomingByStudent(_ context.Context, studentID int64, now time.Time) (int, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	count := 0
	for _, b := range r.st.bookings {
		if b.StudentID != studentID {
			continue
		}
		if slot, ok := r.st.slots[b.SlotID]; ok && slot.StartTime.After(now) {
			count++
		}
	}
	return count, nil
}

// fakeTxManager сериализует транзакции одним мьютексом, отката нет:
// тесты проверяют доменные ветки, а не поведение при сбое коммита.
// rooms позволяет подменить репозиторий аудиторий внутри транзакции.
type fakeTxManager struct {
	st    *fakeStore
	rooms repository.RoomRepository
}

func (m *fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	m.st.txMu.Lock()
	defer m.st.txMu.Unlock()

	rooms := m.rooms
	if rooms == nil {
		rooms = &fakeRoomRepo{st: m.st}
	}

	return fn(ctx, repository.TxRepos{
		Rooms:    rooms,
		Slots:    &fakeSlotRepo{st: m.st},
		Bookings: &fakeBookingRepo{st: m.st},
	})
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

type fixture struct {
	st       *fakeStore
	auth     *AuthService
	rooms    *RoomService
	bookings *BookingService
}

func newFixture() *fixture {
	st := newFakeStore()
	logger := zap.NewNop()
	tx := &fakeTxManager{st: st}

	auth := NewAuthService(&fakeUserRepo{st: st}, &fakeSessionRepo{st: st}, logger)
	rooms := NewRoomService(&fakeRoomRepo{st: st}, &fakeSlotRepo{st: st}, tx, logger)
	bookings := NewBookingService(&fakeSlotRepo{st: st}, &fakeBookingRepo{st: st}, tx, logger)

	auth.now = fixedNow
	rooms.now = fixedNow
	bookings.now = fixedNow

	return &fixture{st: st, auth: auth, rooms: rooms, bookings: bookings}
}

func (f *fixture) addUser(t *testing.T, name string, role model.Role) int64 {
	t.Helper()
	user, err := f.auth.Register(context.Background(), name, name+"@example.com", "secret123", role)
	require.NoError(t, err)
	return user.ID
}

func (f *fixture) createWindow(t *testing.T, teacherID int64, roomNo, date, from, to string) *CreateWindowResult {
	t.Helper()
	result, err := f.rooms.CreateWindow(context.Background(), teacherID, roomNo, date, from, to)
	require.NoError(t, err)
	return result
}

// slotIDs возвращает слоты окна в порядке начала
func (f *fixture) slotIDs(windowID int64) []int64 {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	var slots []*model.Slot
	for _, s := range f.st.slots {
		if s.WindowID == windowID {
			slots = append(slots, s)
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].StartTime.Before(slots[j].StartTime) })
	ids := make([]int64, len(slots))
	for i, s := range slots {
		ids[i] = s.ID
	}
	return ids
}
