package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/card-swap/internal/card"
	"github.com/mauv0809/card-swap/internal/trade"
)

// store implements trade.Store on a SQLite (or Turso) database.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a record store on an initialised database.
func New(db *sql.DB) trade.Store {
	return &store{
		db: db,
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, trade.ErrStorageUnavailable, err)
}

func table(kind trade.Kind) string {
	if kind == trade.KindOffer {
		return "offers"
	}
	return "searches"
}

// UpsertUser inserts the user or refreshes its names and activity time.
func (s *store) UpsertUser(ctx context.Context, user trade.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO users (id, handle, display_name, last_active)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			handle = excluded.handle,
			display_name = excluded.display_name,
			last_active = excluded.last_active
	`
	_, err := s.db.ExecContext(ctx, query, user.ID, user.Handle, user.DisplayName, time.Now().UnixNano())
	if err != nil {
		return unavailable("upsert user", err)
	}
	return nil
}

func (s *store) GetUser(ctx context.Context, id string) (*trade.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		user       trade.User
		lastActive int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, handle, display_name, last_active FROM users WHERE id = ?`, id,
	).Scan(&user.ID, &user.Handle, &user.DisplayName, &lastActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user %s: %w", id, trade.ErrRecordNotFound)
	}
	if err != nil {
		return nil, unavailable("get user", err)
	}
	user.LastActive = time.Unix(0, lastActive)
	return &user, nil
}

// CreateListing stores an offer or search under a fresh UUID. The card name is
// lowercased for matching and kept verbatim for display.
func (s *store) CreateListing(ctx context.Context, kind trade.Kind, userID, cardName string, rarity card.Rarity) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, card_name, display_name, rarity, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, table(kind))
	_, err := s.db.ExecContext(ctx, query,
		id,
		userID,
		strings.ToLower(cardName),
		cardName,
		string(rarity),
		time.Now().UnixNano(),
	)
	if err != nil {
		return "", unavailable("create "+string(kind), err)
	}

	log.Debug("Created listing", "kind", kind, "id", id, "user", userID, "card", cardName, "rarity", rarity)
	return id, nil
}

func (s *store) ListByOwner(ctx context.Context, kind trade.Kind, userID string) ([]trade.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := fmt.Sprintf(`
		SELECT id, user_id, card_name, display_name, rarity, created_at
		FROM %s
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, table(kind))
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, unavailable("list "+string(kind)+"s", err)
	}
	defer rows.Close()

	listings := make([]trade.Listing, 0)
	for rows.Next() {
		l := trade.Listing{Kind: kind}
		var (
			rarity    string
			createdAt int64
		)
		if err := rows.Scan(&l.ID, &l.UserID, &l.CardName, &l.DisplayName, &rarity, &createdAt); err != nil {
			return nil, unavailable("scan "+string(kind), err)
		}
		l.Rarity = card.Rarity(rarity)
		l.CreatedAt = time.Unix(0, createdAt)
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list "+string(kind)+"s", err)
	}
	return listings, nil
}

func (s *store) FindByKey(ctx context.Context, kind trade.Kind, cardName string, rarity card.Rarity) ([]trade.OwnedListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := fmt.Sprintf(`
		SELECT l.id, l.user_id, l.card_name, l.display_name, l.rarity, l.created_at,
			COALESCE(u.handle, ''), COALESCE(u.display_name, ''), COALESCE(u.last_active, 0)
		FROM %s l
		LEFT JOIN users u ON u.id = l.user_id
		WHERE l.card_name = ? AND l.rarity = ?
		ORDER BY l.created_at ASC, l.rowid ASC
	`, table(kind))
	rows, err := s.db.QueryContext(ctx, query, strings.ToLower(cardName), string(rarity))
	if err != nil {
		return nil, unavailable("find "+string(kind)+"s", err)
	}
	defer rows.Close()

	return scanOwned(rows, kind)
}

func scanOwned(rows *sql.Rows, kind trade.Kind) ([]trade.OwnedListing, error) {
	listings := make([]trade.OwnedListing, 0)
	for rows.Next() {
		l := trade.OwnedListing{Listing: trade.Listing{Kind: kind}}
		var (
			rarity     string
			createdAt  int64
			lastActive int64
		)
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.CardName, &l.DisplayName, &rarity, &createdAt,
			&l.Owner.Handle, &l.Owner.DisplayName, &lastActive,
		); err != nil {
			return nil, unavailable("scan "+string(kind), err)
		}
		l.Rarity = card.Rarity(rarity)
		l.CreatedAt = time.Unix(0, createdAt)
		l.Owner.ID = l.UserID
		l.Owner.LastActive = time.Unix(0, lastActive)
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("scan "+string(kind)+"s", err)
	}
	return listings, nil
}

func (s *store) FindUserMatches(ctx context.Context, userID string) ([]trade.UserMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT s.id, o.id, s.display_name, s.rarity, o.user_id,
			COALESCE(u.handle, ''), COALESCE(u.display_name, '')
		FROM searches s
		JOIN offers o ON o.card_name = s.card_name AND o.rarity = s.rarity
		LEFT JOIN users u ON u.id = o.user_id
		WHERE s.user_id = ?
		ORDER BY s.created_at DESC, s.rowid DESC, o.created_at ASC, o.rowid ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, unavailable("find user matches", err)
	}
	defer rows.Close()

	matches := make([]trade.UserMatch, 0)
	for rows.Next() {
		var (
			m       trade.UserMatch
			rarity  string
			counter trade.User
		)
		if err := rows.Scan(&m.SearchID, &m.OfferID, &m.CardName, &rarity, &counter.ID, &counter.Handle, &counter.DisplayName); err != nil {
			return nil, unavailable("scan user match", err)
		}
		m.Rarity = card.Rarity(rarity)
		m.CounterpartyID = counter.ID
		m.CounterpartyHandle = counter.ContactHandle()
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("find user matches", err)
	}
	return matches, nil
}

// DeletePair removes the search and the offer in one transaction. If either row is
// already gone the transaction is rolled back and ErrRecordNotFound is returned.
func (s *store) DeletePair(ctx context.Context, searchID, offerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin delete pair", err)
	}
	defer tx.Rollback() // no-op after commit

	for _, target := range []struct{ table, label, id string }{
		{"searches", "search", searchID},
		{"offers", "offer", offerID},
	} {
		res, err := tx.ExecContext(ctx, "DELETE FROM "+target.table+" WHERE id = ?", target.id)
		if err != nil {
			return unavailable("delete pair", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return unavailable("delete pair", err)
		}
		if n == 0 {
			return fmt.Errorf("delete pair: %s %s: %w", target.label, target.id, trade.ErrRecordNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return unavailable("commit delete pair", err)
	}
	return nil
}

func (s *store) ListAllOffersGrouped(ctx context.Context) ([]trade.CardListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT o.id, o.user_id, o.card_name, o.display_name, o.rarity, o.created_at,
			COALESCE(u.handle, ''), COALESCE(u.display_name, ''), COALESCE(u.last_active, 0)
		FROM offers o
		LEFT JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at ASC, o.rowid ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, unavailable("list offers", err)
	}
	defer rows.Close()

	offers, err := scanOwned(rows, trade.KindOffer)
	if err != nil {
		return nil, err
	}
	return trade.GroupOffers(offers), nil
}

func (s *store) UpsertCardSet(ctx context.Context, set trade.CardSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO card_sets (code, name) VALUES (?, ?)
		ON CONFLICT(code) DO UPDATE SET name = excluded.name
	`, set.Code, set.Name)
	if err != nil {
		return unavailable("upsert card set", err)
	}
	return nil
}

func (s *store) UpsertCardDefinition(ctx context.Context, def trade.CardDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if def.ID == "" {
		def.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (id, set_code, card_name, rarity, rarity_icon) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(set_code, card_name, rarity) DO UPDATE SET rarity_icon = excluded.rarity_icon
	`, def.ID, def.SetCode, def.CardName, string(def.Rarity), def.RarityIcon)
	if err != nil {
		return unavailable("upsert card", err)
	}
	return nil
}

func (s *store) ListCardSets(ctx context.Context) ([]trade.CardSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT code, name FROM card_sets ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, unavailable("list card sets", err)
	}
	defer rows.Close()

	sets := make([]trade.CardSet, 0)
	for rows.Next() {
		var set trade.CardSet
		if err := rows.Scan(&set.Code, &set.Name); err != nil {
			return nil, unavailable("scan card set", err)
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list card sets", err)
	}
	return sets, nil
}

// ListCardDefinitions returns the cards of a set by name, then by rarity rank.
func (s *store) ListCardDefinitions(ctx context.Context, setCode string) ([]trade.CardDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, set_code, card_name, rarity, rarity_icon
		FROM cards
		WHERE set_code = ?
		ORDER BY card_name COLLATE NOCASE
	`, setCode)
	if err != nil {
		return nil, unavailable("list cards", err)
	}
	defer rows.Close()

	defs := make([]trade.CardDefinition, 0)
	for rows.Next() {
		var (
			def    trade.CardDefinition
			rarity string
		)
		if err := rows.Scan(&def.ID, &def.SetCode, &def.CardName, &rarity, &def.RarityIcon); err != nil {
			return nil, unavailable("scan card", err)
		}
		def.Rarity = card.Rarity(rarity)
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list cards", err)
	}

	sort.SliceStable(defs, func(i, j int) bool {
		a, b := strings.ToLower(defs[i].CardName), strings.ToLower(defs[j].CardName)
		if a != b {
			return a < b
		}
		return defs[i].Rarity.Rank() < defs[j].Rarity.Rank()
	})
	return defs, nil
}

func (s *store) Close() error {
	return s.db.Close()
}
