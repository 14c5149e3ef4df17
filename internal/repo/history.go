package repo

import (
	"context"
	"database/sql"

	"github.com/adtracksaver/adtrack/internal"
	"github.com/doug-martin/goqu/v9"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type historyRow struct {
	Seq       int64              `db:"seq" goqu:"skipinsert"`
	LinkID    string             `db:"link_id"`
	Count     int                `db:"count"`
	ChangedAt internal.Timestamp `db:"changed_at"`
}

type countRow struct {
	Total int `db:"total"`
}

// HistoryRepo reads and appends ad-count observations. Rows are never
// updated; the seq column preserves append order.
type HistoryRepo struct {
	db *goqu.Database
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: goqu.New(dialect, db)}
}

func (r *HistoryRepo) ForLink(ctx context.Context, linkID string) ([]internal.HistoryEntry, error) {
	var rows []historyRow
	err := r.db.From("ads_history").
		Select("seq", "link_id", "count", "changed_at").
		Where(goqu.Ex{"link_id": linkID}).
		Order(goqu.C("seq").Asc()).
		ScanStructsContext(ctx, &rows)
	if err != nil {
		log.Error().Err(err).Str("link_id", linkID).Msg("failed to fetch history")
		return nil, err
	}
	return lo.Map(rows, func(row historyRow, _ int) internal.HistoryEntry { return row.toDomain() }), nil
}

// All returns every history grouped by link id, each in append order.
func (r *HistoryRepo) All(ctx context.Context) (map[string][]internal.HistoryEntry, error) {
	var rows []historyRow
	err := r.db.From("ads_history").
		Select("seq", "link_id", "count", "changed_at").
		Order(goqu.C("seq").Asc()).
		ScanStructsContext(ctx, &rows)
	if err != nil {
		return nil, err
	}

	grouped := lo.GroupBy(rows, func(row historyRow) string { return row.LinkID })
	return lo.MapValues(grouped, func(rows []historyRow, _ string) []internal.HistoryEntry {
		return lo.Map(rows, func(row historyRow, _ int) internal.HistoryEntry { return row.toDomain() })
	}), nil
}

func (r *HistoryRepo) count(ctx context.Context, tx *goqu.TxDatabase, linkID string) (int, error) {
	var row countRow
	_, err := tx.From("ads_history").
		Select(goqu.COUNT("*").As("total")).
		Where(goqu.Ex{"link_id": linkID}).
		ScanStructContext(ctx, &row)
	if err != nil {
		return 0, err
	}
	return row.Total, nil
}

func (r *HistoryRepo) append(ctx context.Context, tx *goqu.TxDatabase, linkID string, entries []internal.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	rows := lo.Map(entries, func(e internal.HistoryEntry, _ int) historyRow {
		return historyRow{LinkID: linkID, Count: e.Count, ChangedAt: e.ChangedAt}
	})

	_, err := tx.Insert("ads_history").Rows(lo.ToAnySlice(rows)...).Executor().ExecContext(ctx)
	if err != nil {
		log.Error().Err(err).Str("link_id", linkID).Msg("failed to append history")
		return err
	}

	log.Debug().Str("link_id", linkID).Int("entries", len(entries)).Msg("history appended")
	return nil
}

func (r *historyRow) toDomain() internal.HistoryEntry {
	return internal.HistoryEntry{Count: r.Count, ChangedAt: r.ChangedAt}
}
