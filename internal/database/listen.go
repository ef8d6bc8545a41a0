package database

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NotificationConn is one dedicated listening connection. Release must
// be called when the subscriber is done with it.
type NotificationConn interface {
	WaitForNotification(ctx context.Context) (payload string, err error)
	Release()
}

// Listener hands out connections already listening on the events
// channel.
type Listener struct {
	db PGX
}

func NewListener(db PGX) *Listener {
	return &Listener{db: db}
}

func (l *Listener) Listen(ctx context.Context) (NotificationConn, error) {
	conn, err := l.db.GetPool(ctx).Acquire(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(ctx, "listen "+EventsChannel); err != nil {
		conn.Release()
		return nil, err
	}

	return &poolNotificationConn{conn: conn}, nil
}

type poolNotificationConn struct {
	conn *pgxpool.Conn
}

func (c *poolNotificationConn) WaitForNotification(ctx context.Context) (string, error) {
	n, err := c.conn.Conn().WaitForNotification(ctx)
	if err != nil {
		return "", err
	}

	return n.Payload, nil
}

func (c *poolNotificationConn) Release() {
	c.conn.Release()
}
