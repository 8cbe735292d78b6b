package finance

import "context"

type TransactionRepository interface {
	Create(ctx context.Context, t Transaction) error
	Update(ctx context.Context, t Transaction) error
	// Upsert creates or overwrites the row with t.ID.
	Upsert(ctx context.Context, t Transaction) error
	Delete(ctx context.Context, transactionID string) error
	DeleteByMatch(ctx context.Context, matchID string) error
	DeleteByGroup(ctx context.Context, groupID string) error
	GetByID(ctx context.Context, transactionID string) (Transaction, bool, error)
	ListByGroup(ctx context.Context, groupID string, filter Filter) ([]Transaction, error)
}

type MonthlyFeeRepository interface {
	Create(ctx context.Context, fee MonthlyFee) error
	Delete(ctx context.Context, groupID, playerID, month string) (bool, error)
	DeleteByGroup(ctx context.Context, groupID string) error
	ListByGroupMonth(ctx context.Context, groupID, month string) ([]MonthlyFee, error)
}
