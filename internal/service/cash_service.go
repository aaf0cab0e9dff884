package service

import (
	"context"
	"time"

	"negociopos/internal/dto"
	"negociopos/internal/ledger"
	"negociopos/internal/model"
	"negociopos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashService owns the drawer session lifecycle: OPEN → CLOSED, no reopening.
type CashService interface {
	Open(ctx context.Context, storeID, userID uuid.UUID, initialCash decimal.Decimal) (*dto.CashSessionResponse, error)
	Close(ctx context.Context, storeID uuid.UUID, req dto.CloseSessionRequest) (*dto.CashSessionResponse, error)
	RegisterMovement(ctx context.Context, storeID uuid.UUID, req dto.CashMovementRequest) (*dto.CashMovementResponse, error)
	// Active returns the open session with on-read totals, or nil when the
	// drawer is closed.
	Active(ctx context.Context, storeID uuid.UUID) (*dto.CashSessionResponse, error)
	History(ctx context.Context, storeID uuid.UUID, page, limit int) ([]dto.CashSessionResponse, int64, error)

	// RequireOpenTx is called by the sale processor and by cash customer
	// payments inside their transactions; StateError when no session is open.
	RequireOpenTx(tx *gorm.DB, storeID uuid.UUID) (*model.CashSession, error)
}

type cashService struct {
	repo repository.CashRepository
}

func NewCashService(repo repository.CashRepository) CashService {
	return &cashService{repo: repo}
}

func (s *cashService) Open(ctx context.Context, storeID, userID uuid.UUID, initialCash decimal.Decimal) (*dto.CashSessionResponse, error) {
	if initialCash.IsNegative() {
		return nil, ledger.Validation("el monto inicial no puede ser negativo")
	}

	// One OPEN session per store, enforced at open time.
	if existing, err := s.repo.FindOpenByStore(ctx, storeID); err == nil && existing != nil {
		return nil, ledger.State("Ya existe una caja abierta en esta tienda")
	}

	session := &model.CashSession{
		ID:              uuid.New(),
		StoreID:         storeID,
		UserID:          userID,
		Status:          model.CashSessionOpen,
		InitialCash:     initialCash,
		FinalCashSystem: initialCash,
		StartTime:       time.Now(),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return sessionToResponse(session, nil), nil
}

func (s *cashService) RegisterMovement(ctx context.Context, storeID uuid.UUID, req dto.CashMovementRequest) (*dto.CashMovementResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, ledger.Validation("el monto del movimiento debe ser positivo")
	}

	session, err := s.repo.FindOpenByStore(ctx, storeID)
	if err != nil {
		return nil, ledger.State("No hay una caja abierta para registrar movimientos")
	}

	mov := &model.CashMovement{
		ID:            uuid.New(),
		CashSessionID: session.ID,
		Type:          req.Type,
		Amount:        req.Amount,
		Description:   req.Description,
	}
	if err := s.repo.CreateMovement(ctx, mov); err != nil {
		return nil, err
	}

	return &dto.CashMovementResponse{
		ID:          mov.ID.String(),
		Type:        mov.Type,
		Amount:      mov.Amount,
		Description: mov.Description,
		CreatedAt:   mov.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

// Close recomputes FinalCashSystem from the sales ledger, stamps EndTime and
// stores the declared count verbatim. The discrepancy against the system
// total is reporting-only; no corrective entry is written.
func (s *cashService) Close(ctx context.Context, storeID uuid.UUID, req dto.CloseSessionRequest) (*dto.CashSessionResponse, error) {
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return nil, ledger.Validation("session_id inválido: %v", err)
	}

	// The session row is locked before summing the sales ledger, so a cash
	// sale committing mid-close cannot be missed by the recompute.
	var session *model.CashSession
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		session, err = s.repo.FindByIDForUpdateTx(tx, storeID, sessionID)
		if err != nil {
			return ledger.NotFound("Sesión de caja")
		}
		if session.Status != model.CashSessionOpen {
			return ledger.State("la sesión de caja ya está cerrada")
		}

		cashSales, err := s.repo.SumCashSalesSinceTx(tx, storeID, session.StartTime)
		if err != nil {
			return err
		}

		now := time.Now()
		session.FinalCashSystem = session.InitialCash.Add(cashSales)
		session.FinalCashReal = &req.FinalCashReal
		session.EndTime = &now

		rows, err := s.repo.CloseGuarded(tx, session)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ledger.Conflict("la sesión de caja fue cerrada por otra terminal")
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	session.Status = model.CashSessionClosed
	return sessionToResponse(session, nil), nil
}

func (s *cashService) Active(ctx context.Context, storeID uuid.UUID) (*dto.CashSessionResponse, error) {
	session, err := s.repo.FindOpenByStore(ctx, storeID)
	if err != nil {
		return nil, nil
	}
	totals, err := s.currentTotals(ctx, session)
	if err != nil {
		return nil, err
	}
	return sessionToResponse(session, totals), nil
}

func (s *cashService) History(ctx context.Context, storeID uuid.UUID, page, limit int) ([]dto.CashSessionResponse, int64, error) {
	sessions, total, err := s.repo.ListClosed(ctx, storeID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.CashSessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, *sessionToResponse(&sessions[i], nil))
	}
	return out, total, nil
}

func (s *cashService) RequireOpenTx(tx *gorm.DB, storeID uuid.UUID) (*model.CashSession, error) {
	session, err := s.repo.FindOpenByStoreTx(tx, storeID)
	if err != nil {
		return nil, ledger.State("No hay una sesión de caja abierta")
	}
	return session, nil
}

// currentTotals is computed on read, never stored:
// expectedCash = initialCash + cashSales + totalIn − totalOut.
func (s *cashService) currentTotals(ctx context.Context, session *model.CashSession) (*dto.SessionTotals, error) {
	cashSales, err := s.repo.SumCashSalesSince(ctx, session.StoreID, session.StartTime)
	if err != nil {
		return nil, err
	}
	in, out, err := s.repo.SumMovements(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	return &dto.SessionTotals{
		CashSales:    cashSales,
		TotalIn:      in,
		TotalOut:     out,
		ExpectedCash: session.InitialCash.Add(cashSales).Add(in).Sub(out),
	}, nil
}

func sessionToResponse(s *model.CashSession, totals *dto.SessionTotals) *dto.CashSessionResponse {
	resp := &dto.CashSessionResponse{
		ID:              s.ID.String(),
		Status:          s.Status,
		InitialCash:     s.InitialCash,
		FinalCashSystem: s.FinalCashSystem,
		FinalCashReal:   s.FinalCashReal,
		Totals:          totals,
		StartTime:       s.StartTime.UTC().Format(time.RFC3339),
	}
	if s.EndTime != nil {
		t := s.EndTime.UTC().Format(time.RFC3339)
		resp.EndTime = &t
	}
	return resp
}
