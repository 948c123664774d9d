package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/expense_split_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// SettlementRepository applies per-record settle and delete mutations inside a caller-owned
// transaction. Each call is idempotent: repeating it reports ALREADY_DONE or NOT_FOUND and
// never changes a balance twice.
type SettlementRepository interface {
	// SettleShareTx marks one expense share paid or one loan share settled on behalf of userID.
	// Only the source creator or the share's participant may settle it.
	SettleShareTx(ctx context.Context, tx pgx.Tx, userID string, ref domain.ShareRef, at time.Time) (domain.BulkItemResult, error)

	// DeleteSourceTx deletes one expense or loan created by userID, along with its shares.
	DeleteSourceTx(ctx context.Context, tx pgx.Tx, userID string, ref domain.SourceRef) (domain.BulkItemResult, error)
}

// SettlementRepositoryWithTx extends SettlementRepository with transaction capabilities
type SettlementRepositoryWithTx interface {
	SettlementRepository
	TransactionManager
}
