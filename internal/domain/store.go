package domain

import "context"

// Store bundles the repositories backing one data store. A Store obtained
// inside WithinTx is scoped to that transaction.
type Store interface {
	Users() UserRepository
	Rooms() RoomRepository
	Events() EventRepository
	Applications() ApplicationRepository
	History() HistoryRepository
	Notifications() NotificationRepository
}

// Transactor runs a function within a single unit of work. fn's mutations
// commit together or not at all; any error rolls the transaction back and
// is returned unchanged.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}
