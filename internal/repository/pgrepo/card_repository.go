package pgrepo

import (
	"context"
	"time"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/fsdevblog/groph-bank/pkg/uow/pguow"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const cardColumns = `id, user_id, account_id, card_type, card_number, card_network, card_category, card_holder_name,
	expiry_date, cvv_hash, pin_hash, credit_limit, available_credit, annual_fee, rewards_program, status,
	created_at, updated_at`

type CardRepository struct {
	conn pguow.DBTX
}

func NewCardRepository(conn pguow.DBTX) *CardRepository {
	return &CardRepository{conn: conn}
}

// CreateCard вставляет карту. Занятый номер карты - domain.ErrDuplicateKey без прерывания транзакции.
func (r *CardRepository) CreateCard(ctx context.Context, card domain.Card) (*domain.Card, error) {
	row := r.conn.QueryRow(ctx, `
		INSERT INTO cards (id, user_id, account_id, card_type, card_number, card_network, card_category,
		                   card_holder_name, expiry_date, cvv_hash, pin_hash, credit_limit, available_credit,
		                   annual_fee, rewards_program, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (card_number) DO NOTHING
		RETURNING `+cardColumns,
		card.ID, card.UserID, card.AccountID, string(card.CardType), card.CardNumber, string(card.CardNetwork),
		string(card.CardCategory), card.CardHolderName, card.ExpiryDate, card.CVVHash, card.PINHash,
		card.CreditLimit, card.AvailableCredit, card.AnnualFee, string(card.RewardsProgram), string(card.Status),
	)
	created, err := scanCard(row)
	if err != nil {
		return nil, conflictErr(err, "creating card")
	}
	return created, nil
}

func (r *CardRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	card, err := scanCard(r.conn.QueryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = $1`, id))
	if err != nil {
		return nil, convertErr(err, "find card `%s`", id)
	}
	return card, nil
}

func (r *CardRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Card, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, convertErr(err, "list cards of `%s`", userID)
	}
	return collectCards(rows, "list cards of `%s`", userID)
}

func (r *CardRepository) CountByUserTypeAndStatuses(
	ctx context.Context,
	userID uuid.UUID,
	cardType domain.CardType,
	statuses []domain.CardStatus,
) (int64, error) {
	var count int64
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM cards WHERE user_id = $1 AND card_type = $2 AND status = ANY($3)`,
		userID, string(cardType), toStrings(statuses),
	).Scan(&count)
	if err != nil {
		return 0, convertErr(err, "count cards of `%s`", userID)
	}
	return count, nil
}

func (r *CardRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	from []domain.CardStatus,
	to domain.CardStatus,
) (*domain.Card, error) {
	card, err := scanCard(r.conn.QueryRow(ctx, `
		UPDATE cards
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)
		RETURNING `+cardColumns,
		id, string(to), toStrings(from),
	))
	if err != nil {
		return nil, convertErr(err, "update card `%s` status to `%s`", id, to)
	}
	return card, nil
}

func (r *CardRepository) SetPINHash(ctx context.Context, id uuid.UUID, pinHash string) (*domain.Card, error) {
	card, err := scanCard(r.conn.QueryRow(ctx, `
		UPDATE cards
		SET pin_hash = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING `+cardColumns,
		id, pinHash, string(domain.CardStatusActive),
	))
	if err != nil {
		return nil, convertErr(err, "set pin of card `%s`", id)
	}
	return card, nil
}

func (r *CardRepository) FindExpiring(ctx context.Context, now time.Time, limit uint) ([]domain.Card, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT `+cardColumns+`
		FROM cards
		WHERE status = ANY($1) AND expiry_date < $2
		ORDER BY expiry_date
		LIMIT $3`,
		toStrings(domain.OpenCardStatuses), now, limit,
	)
	if err != nil {
		return nil, convertErr(err, "find expiring cards")
	}
	return collectCards(rows, "find expiring cards")
}

func collectCards(rows pgx.Rows, format string, args ...any) ([]domain.Card, error) {
	cards, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Card, error) {
		card, scanErr := scanCard(row)
		if scanErr != nil {
			return domain.Card{}, scanErr
		}
		return *card, nil
	})
	if err != nil {
		return nil, convertErr(err, format, args...)
	}
	return cards, nil
}

func scanCard(row pgx.Row) (*domain.Card, error) {
	var c domain.Card
	var cardType, network, category, rewards, status string
	err := row.Scan(&c.ID, &c.UserID, &c.AccountID, &cardType, &c.CardNumber, &network, &category,
		&c.CardHolderName, &c.ExpiryDate, &c.CVVHash, &c.PINHash, &c.CreditLimit, &c.AvailableCredit,
		&c.AnnualFee, &rewards, &status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	c.CardType = domain.CardType(cardType)
	c.CardNetwork = domain.CardNetwork(network)
	c.CardCategory = domain.CardCategory(category)
	c.RewardsProgram = domain.RewardsProgram(rewards)
	c.Status = domain.CardStatus(status)
	return &c, nil
}
