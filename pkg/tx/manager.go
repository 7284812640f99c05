package tx

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sobirov-market/storefront/pkg/interfaces"
)

// txKeyType - приватный тип ключа, чтобы не пересекаться с чужими значениями в контексте
type txKeyType struct{}

var txKey = txKeyType{}

// Manager управляет жизненным циклом транзакций БД.
type Manager interface {
	// Do выполняет fn внутри транзакции.
	// Ошибка fn откатывает транзакцию, nil фиксирует ее.
	// Вложенный вызов Do переиспользует уже открытую транзакцию.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// pgxManager - реализация Manager для pgx.
type pgxManager struct {
	pool   *pgxpool.Pool
	logger interfaces.LoggerPort
}

// NewManager создает новый менеджер транзакций.
func NewManager(pool *pgxpool.Pool, logger interfaces.LoggerPort) Manager {
	return &pgxManager{pool: pool, logger: logger}
}

// Do реализует метод интерфейса Manager.
func (m *pgxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := FromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("tx.Begin failed: %w", err)
	}

	// Rollback после Commit возвращает ошибку, которую можно игнорировать;
	// defer нужен на случай паники внутри fn.
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && m.logger != nil {
			m.logger.WarnWithContext(ctx, "Ошибка отката транзакции",
				interfaces.LogField{Key: "error", Value: rbErr.Error()},
				interfaces.LogField{Key: "cause", Value: err.Error()},
			)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx.Commit failed: %w", err)
	}
	return nil
}

// FromContext извлекает транзакцию из контекста.
func FromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	return tx, ok
}

// nopManager выполняет fn без транзакции. Используется с хранилищем в памяти.
type nopManager struct{}

// NewNopManager возвращает менеджер без транзакций
func NewNopManager() Manager {
	return nopManager{}
}

func (nopManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
