package services

import (
	"context"
	"fmt"
	"time"

	"campusevents/internal/domain"
)

// memStore is an in-memory domain.Store and domain.Transactor used by the
// service tests. Get methods return copies, so mutations only become
// visible through the repository's update methods, like with a real
// database.
type memStore struct {
	users         map[string]*domain.User
	rooms         map[string]*domain.Room
	events        map[string]*domain.Event
	applications  map[string]*domain.EventApplication
	eventHistory  []*domain.EventModerationHistory
	appHistory    []*domain.ApplicationHistory
	notifications []*domain.Notification

	err error // when set, every repository call fails with it
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[string]*domain.User{},
		rooms:        map[string]*domain.Room{},
		events:       map[string]*domain.Event{},
		applications: map[string]*domain.EventApplication{},
	}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, s domain.Store) error) error {
	return fn(ctx, m)
}

func (m *memStore) Users() domain.UserRepository                 { return &memUsers{m} }
func (m *memStore) Rooms() domain.RoomRepository                 { return &memRooms{m} }
func (m *memStore) Events() domain.EventRepository               { return &memEvents{m} }
func (m *memStore) Applications() domain.ApplicationRepository   { return &memApplications{m} }
func (m *memStore) History() domain.HistoryRepository            { return &memHistory{m} }
func (m *memStore) Notifications() domain.NotificationRepository { return &memNotifications{m} }

type memUsers struct{ s *memStore }

func (r *memUsers) Create(ctx context.Context, user *domain.User) error {
	if r.s.err != nil {
		return r.s.err
	}
	for _, u := range r.s.users {
		if u.Login == user.Login {
			return domain.ErrDuplicateLogin
		}
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.s.users)+1)
	}
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *memUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	for _, u := range r.s.users {
		if u.Login == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memRooms struct{ s *memStore }

func (r *memRooms) Create(ctx context.Context, room *domain.Room) error {
	if r.s.err != nil {
		return r.s.err
	}
	if room.ID == "" {
		room.ID = fmt.Sprintf("room-%d", len(r.s.rooms)+1)
	}
	cp := *room
	r.s.rooms[room.ID] = &cp
	return nil
}

func (r *memRooms) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	room, ok := r.s.rooms[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *room
	return &cp, nil
}

func (r *memRooms) GetByIDForUpdate(ctx context.Context, id string) (*domain.Room, error) {
	return r.GetByID(ctx, id)
}

func (r *memRooms) GetByName(ctx context.Context, name string) (*domain.Room, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	for _, room := range r.s.rooms {
		if room.Name == name {
			cp := *room
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memRooms) List(ctx context.Context) ([]*domain.Room, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	out := make([]*domain.Room, 0, len(r.s.rooms))
	for _, room := range r.s.rooms {
		cp := *room
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memRooms) Update(ctx context.Context, room *domain.Room) error {
	if r.s.err != nil {
		return r.s.err
	}
	if _, ok := r.s.rooms[room.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *room
	r.s.rooms[room.ID] = &cp
	return nil
}

func (r *memRooms) SetAvailable(ctx context.Context, id string, available bool) (*domain.Room, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	room, ok := r.s.rooms[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	room.IsAvailable = available
	cp := *room
	return &cp, nil
}

func (r *memRooms) Delete(ctx context.Context, id string) error {
	if r.s.err != nil {
		return r.s.err
	}
	if _, ok := r.s.rooms[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.rooms, id)
	return nil
}

type memEvents struct{ s *memStore }

func (r *memEvents) Create(ctx context.Context, event *domain.Event) error {
	if r.s.err != nil {
		return r.s.err
	}
	if event.ID == "" {
		event.ID = fmt.Sprintf("event-%d", len(r.s.events)+1)
	}
	cp := *event
	r.s.events[event.ID] = &cp
	return nil
}

func (r *memEvents) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	ev, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *ev
	return &cp, nil
}

func (r *memEvents) GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	return r.GetByID(ctx, id)
}

func (r *memEvents) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	var out []*domain.Event
	for _, ev := range r.s.events {
		if filter.Status != nil && ev.Status != *filter.Status {
			continue
		}
		if filter.Date != nil && !ev.EventDate.Equal(*filter.Date) {
			continue
		}
		if filter.CreatorID != "" && ev.CreatorID != filter.CreatorID {
			continue
		}
		cp := *ev
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memEvents) UpdateStatus(ctx context.Context, id string, status domain.EventStatus, updatedAt time.Time) error {
	if r.s.err != nil {
		return r.s.err
	}
	ev, ok := r.s.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	ev.Status = status
	ev.UpdatedAt = updatedAt
	return nil
}

func (r *memEvents) IncrementRegisteredCount(ctx context.Context, id string, delta int) (int, error) {
	if r.s.err != nil {
		return 0, r.s.err
	}
	ev, ok := r.s.events[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	ev.RegisteredCount += delta
	return ev.RegisteredCount, nil
}

func (r *memEvents) ResetRegisteredCount(ctx context.Context, id string) error {
	if r.s.err != nil {
		return r.s.err
	}
	ev, ok := r.s.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	ev.RegisteredCount = 0
	return nil
}

func (r *memEvents) ListRoomConflicts(ctx context.Context, roomID string, date time.Time, start, end, excludeEventID string) ([]*domain.Event, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	var out []*domain.Event
	for _, ev := range r.s.events {
		if ev.ID == excludeEventID || ev.RoomID == nil || *ev.RoomID != roomID {
			continue
		}
		if ev.Status != domain.EventPending && ev.Status != domain.EventApproved {
			continue
		}
		if !ev.EventDate.Equal(date) {
			continue
		}
		if domain.IntervalsOverlap(ev.StartTime, ev.EndTime, start, end) {
			cp := *ev
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memEvents) ListElapsedApproved(ctx context.Context, onDate time.Time, atTime string) ([]*domain.Event, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	day := onDate.Format("2006-01-02")
	var out []*domain.Event
	for _, ev := range r.s.events {
		if ev.Status != domain.EventApproved {
			continue
		}
		evDay := ev.EventDate.Format("2006-01-02")
		if evDay < day || (evDay == day && ev.EndTime <= atTime) {
			cp := *ev
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memApplications struct{ s *memStore }

func (r *memApplications) Create(ctx context.Context, app *domain.EventApplication) error {
	if r.s.err != nil {
		return r.s.err
	}
	if app.ID == "" {
		app.ID = fmt.Sprintf("app-%d", len(r.s.applications)+1)
	}
	cp := *app
	r.s.applications[app.ID] = &cp
	return nil
}

func (r *memApplications) GetByID(ctx context.Context, id string) (*domain.EventApplication, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	app, ok := r.s.applications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *app
	return &cp, nil
}

func (r *memApplications) GetByIDForUpdate(ctx context.Context, id string) (*domain.EventApplication, error) {
	return r.GetByID(ctx, id)
}

func (r *memApplications) GetActiveByEventAndApplicant(ctx context.Context, eventID, applicantID string) (*domain.EventApplication, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	for _, app := range r.s.applications {
		if app.EventID == eventID && app.ApplicantID == applicantID && app.Status != domain.ApplicationWithdrawn {
			cp := *app
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memApplications) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventApplication, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	var out []*domain.EventApplication
	for _, app := range r.s.applications {
		if app.EventID == eventID {
			cp := *app
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memApplications) ListByApplicantID(ctx context.Context, applicantID string) ([]*domain.EventApplication, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	var out []*domain.EventApplication
	for _, app := range r.s.applications {
		if app.ApplicantID == applicantID {
			cp := *app
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memApplications) ListByEventAndStatus(ctx context.Context, eventID string, status domain.ApplicationStatus) ([]*domain.EventApplication, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	var out []*domain.EventApplication
	for _, app := range r.s.applications {
		if app.EventID == eventID && app.Status == status {
			cp := *app
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memApplications) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, updatedAt time.Time) error {
	if r.s.err != nil {
		return r.s.err
	}
	app, ok := r.s.applications[id]
	if !ok {
		return domain.ErrNotFound
	}
	app.Status = status
	app.UpdatedAt = updatedAt
	return nil
}

type memHistory struct{ s *memStore }

func (r *memHistory) CreateEventEntry(ctx context.Context, entry *domain.EventModerationHistory) error {
	if r.s.err != nil {
		return r.s.err
	}
	cp := *entry
	r.s.eventHistory = append(r.s.eventHistory, &cp)
	return nil
}

func (r *memHistory) CreateApplicationEntry(ctx context.Context, entry *domain.ApplicationHistory) error {
	if r.s.err != nil {
		return r.s.err
	}
	cp := *entry
	r.s.appHistory = append(r.s.appHistory, &cp)
	return nil
}

func (r *memHistory) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventModerationHistory, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	var out []*domain.EventModerationHistory
	for _, e := range r.s.eventHistory {
		if e.EventID == eventID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memHistory) ListByApplicationID(ctx context.Context, applicationID string) ([]*domain.ApplicationHistory, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	var out []*domain.ApplicationHistory
	for _, e := range r.s.appHistory {
		if e.ApplicationID == applicationID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memNotifications struct{ s *memStore }

func (r *memNotifications) Create(ctx context.Context, n *domain.Notification) error {
	if r.s.err != nil {
		return r.s.err
	}
	if n.ID == "" {
		n.ID = fmt.Sprintf("notif-%d", len(r.s.notifications)+1)
	}
	cp := *n
	r.s.notifications = append(r.s.notifications, &cp)
	return nil
}

func (r *memNotifications) ListByUserID(ctx context.Context, userID string) ([]*domain.Notification, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	var out []*domain.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *memNotifications) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	for _, n := range r.s.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			cp := *n
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}
