package base

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier — общий интерфейс пула и транзакции pgx
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

// Repository базовый репозиторий с общими методами
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository создаёт новый базовый репозиторий
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Pool возвращает пул соединений
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

// DB возвращает транзакцию из контекста, если она там есть, иначе пул.
// Благодаря этому один и тот же код репозитория работает и внутри
// сериализованной секции TxManager, и вне её.
func (r *Repository) DB(ctx context.Context) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.pool
}

// IsNotFound проверяет является ли ошибка "строка не найдена"
func IsNotFound(err error) bool {
	return err == pgx.ErrNoRows
}

// TxManager сериализует секции "проверка конфликтов + запись" одного учителя.
// Подсчёт текущих пересечений и вставка нового бронирования должны выполняться
// под одним advisory-локом, иначе два параллельных запроса могут оба пройти
// проверку вместимости до первой записи.
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager создаёт новый менеджер транзакций
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

// WithTeacherDayLock выполняет fn в транзакции под локом (учитель, дата)
func (m *TxManager) WithTeacherDayLock(ctx context.Context, teacherID uuid.UUID, date time.Time, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("%s:%s", teacherID, date.Format("2006-01-02"))
	return m.withLock(ctx, key, fn)
}

// WithTeacherLock выполняет fn в транзакции под локом всего учителя.
// Используется пакетным созданием, которое затрагивает несколько дат сразу.
func (m *TxManager) WithTeacherLock(ctx context.Context, teacherID uuid.UUID, fn func(ctx context.Context) error) error {
	return m.withLock(ctx, teacherID.String(), fn)
}

func (m *TxManager) withLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Лок снимается автоматически при завершении транзакции
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return fmt.Errorf("acquire advisory lock: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
