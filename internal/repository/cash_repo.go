package repository

import (
	"context"
	"time"

	"negociopos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CashRepository interface {
	CreateSession(ctx context.Context, s *model.CashSession) error
	FindOpenByStore(ctx context.Context, storeID uuid.UUID) (*model.CashSession, error)
	// FindOpenByStoreTx locks the open session row (FOR UPDATE) so two
	// concurrent cash sales serialize on it.
	FindOpenByStoreTx(tx *gorm.DB, storeID uuid.UUID) (*model.CashSession, error)
	// FindByIDForUpdateTx locks the session row (FOR UPDATE) so the close
	// recompute serializes against in-flight cash sales holding that lock.
	FindByIDForUpdateTx(tx *gorm.DB, storeID, id uuid.UUID) (*model.CashSession, error)
	// CloseGuarded flips OPEN → CLOSED only if the row is still OPEN; zero
	// rows affected means another terminal closed it first.
	CloseGuarded(tx *gorm.DB, s *model.CashSession) (int64, error)
	IncrementFinalSystemTx(tx *gorm.DB, sessionID uuid.UUID, amount decimal.Decimal) error
	CreateMovement(ctx context.Context, m *model.CashMovement) error
	CreateMovementTx(tx *gorm.DB, m *model.CashMovement) error
	ListMovements(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error)
	// SumMovements returns total IN and total OUT amounts for one session.
	SumMovements(ctx context.Context, sessionID uuid.UUID) (in, out decimal.Decimal, err error)
	// SumCashSalesSince sums cash-method sale totals of a store from a point
	// in time, the on-read half of the expected-cash computation.
	SumCashSalesSince(ctx context.Context, storeID uuid.UUID, since time.Time) (decimal.Decimal, error)
	// SumCashSalesSinceTx is the same sum inside an enclosing transaction,
	// used by Close after locking the session row.
	SumCashSalesSinceTx(tx *gorm.DB, storeID uuid.UUID, since time.Time) (decimal.Decimal, error)
	ListClosed(ctx context.Context, storeID uuid.UUID, page, limit int) ([]model.CashSession, int64, error)
	DB() *gorm.DB
}

type cashRepo struct{ db *gorm.DB }

func NewCashRepository(db *gorm.DB) CashRepository { return &cashRepo{db: db} }

func (r *cashRepo) DB() *gorm.DB { return r.db }

func (r *cashRepo) CreateSession(ctx context.Context, s *model.CashSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *cashRepo) FindOpenByStore(ctx context.Context, storeID uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND status = ?", storeID, model.CashSessionOpen).First(&s).Error
	return &s, err
}

func (r *cashRepo) FindOpenByStoreTx(tx *gorm.DB, storeID uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	err := tx.Clauses(forUpdate()).
		Where("store_id = ? AND status = ?", storeID, model.CashSessionOpen).First(&s).Error
	return &s, err
}

func (r *cashRepo) FindByIDForUpdateTx(tx *gorm.DB, storeID, id uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	err := tx.Clauses(forUpdate()).
		Where("id = ? AND store_id = ?", id, storeID).First(&s).Error
	return &s, err
}

func (r *cashRepo) CloseGuarded(tx *gorm.DB, s *model.CashSession) (int64, error) {
	res := tx.Model(&model.CashSession{}).
		Where("id = ? AND status = ?", s.ID, model.CashSessionOpen).
		Updates(map[string]interface{}{
			"status":            model.CashSessionClosed,
			"final_cash_system": s.FinalCashSystem,
			"final_cash_real":   s.FinalCashReal,
			"end_time":          s.EndTime,
		})
	return res.RowsAffected, res.Error
}

func (r *cashRepo) IncrementFinalSystemTx(tx *gorm.DB, sessionID uuid.UUID, amount decimal.Decimal) error {
	return tx.Model(&model.CashSession{}).Where("id = ?", sessionID).
		Update("final_cash_system", gorm.Expr("final_cash_system + ?", amount)).Error
}

func (r *cashRepo) CreateMovement(ctx context.Context, m *model.CashMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *cashRepo) CreateMovementTx(tx *gorm.DB, m *model.CashMovement) error {
	return tx.Create(m).Error
}

func (r *cashRepo) ListMovements(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	var movs []model.CashMovement
	err := r.db.WithContext(ctx).
		Where("cash_session_id = ?", sessionID).Order("created_at ASC").Find(&movs).Error
	return movs, err
}

func (r *cashRepo) SumMovements(ctx context.Context, sessionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	type row struct {
		Type  string
		Total decimal.Decimal
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.CashMovement{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("cash_session_id = ?", sessionID).
		Group("type").Scan(&rows).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	in, out := decimal.Zero, decimal.Zero
	for _, r := range rows {
		switch r.Type {
		case model.CashMovementIn:
			in = r.Total
		case model.CashMovementOut:
			out = r.Total
		}
	}
	return in, out, nil
}

func (r *cashRepo) SumCashSalesSince(ctx context.Context, storeID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	return sumCashSales(r.db.WithContext(ctx), storeID, since)
}

func (r *cashRepo) SumCashSalesSinceTx(tx *gorm.DB, storeID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	return sumCashSales(tx, storeID, since)
}

func sumCashSales(db *gorm.DB, storeID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := db.Model(&model.Sale{}).
		Select("SUM(total_amount)").
		Where("store_id = ? AND payment_method = ? AND created_at >= ?",
			storeID, model.PaymentCash, since).
		Scan(&sum).Error
	if err != nil || !sum.Valid {
		return decimal.Zero, err
	}
	return sum.Decimal, nil
}

func (r *cashRepo) ListClosed(ctx context.Context, storeID uuid.UUID, page, limit int) ([]model.CashSession, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.CashSession{}).
		Where("store_id = ? AND status = ?", storeID, model.CashSessionClosed)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []model.CashSession
	err := q.Order("start_time DESC").Offset((page - 1) * limit).Limit(limit).Find(&sessions).Error
	return sessions, total, err
}
