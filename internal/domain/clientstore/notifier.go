package clientstore

import "context"

// NoticeKind тип уведомления пользователю
type NoticeKind string

const (
	NoticeAdded    NoticeKind = "added"
	NoticeExists   NoticeKind = "exists"
	NoticeRemoved  NoticeKind = "removed"
	NoticeUpdated  NoticeKind = "updated"
	NoticeCleared  NoticeKind = "cleared"
	NoticeRejected NoticeKind = "rejected"
)

// Notice уведомление об изменении стора, серверный аналог toast
type Notice struct {
	Kind     NoticeKind `json:"kind"`
	Store    string     `json:"store"`
	ItemID   string     `json:"itemId,omitempty"`
	ItemName string     `json:"itemName,omitempty"`
	Quantity int        `json:"quantity,omitempty"`
}

// Notifier получает уведомления сторов
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc адаптер обычной функции к Notifier
type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notice) {}
