package repo

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/adtracksaver/adtrack/internal"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const dialect = "sqlite3"

// nicheList is stored as a JSON array in a TEXT column.
type nicheList []string

func (n nicheList) Value() (driver.Value, error) {
	if n == nil {
		n = nicheList{}
	}
	b, err := json.Marshal([]string(n))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (n *nicheList) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*n = nicheList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan type %T into niche list", value)
	}

	var keys []string
	if err := json.Unmarshal(raw, &keys); err != nil {
		return err
	}
	if keys == nil {
		keys = []string{}
	}
	*n = keys
	return nil
}

type linkRow struct {
	Seq      int64              `db:"seq" goqu:"skipinsert,skipupdate"`
	ID       string             `db:"id" goqu:"skipupdate"`
	URL      string             `db:"url"`
	Site     string             `db:"site"`
	AdsCount int                `db:"ads_count"`
	Tags     string             `db:"tags"`
	Niches   nicheList          `db:"niches"`
	AddedAt  internal.Timestamp `db:"added_at" goqu:"skipupdate"`
}

// LinksRepo is the SQLite-backed link store.
type LinksRepo struct {
	db      *goqu.Database
	history *HistoryRepo
}

func NewLinksRepo(db *sql.DB) *LinksRepo {
	return &LinksRepo{
		db:      goqu.New(dialect, db),
		history: NewHistoryRepo(db),
	}
}

func (r *LinksRepo) Insert(ctx context.Context, link *internal.MonitoredLink) error {
	log.Debug().Str("id", link.ID).Str("url", link.URL).Msg("inserting link")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	return tx.Wrap(func() error {
		_, err := tx.Insert("links").Rows(toRow(link)).Executor().ExecContext(ctx)
		if err != nil {
			log.Error().Err(err).Str("id", link.ID).Msg("failed to insert link")
			return err
		}
		return r.history.append(ctx, tx, link.ID, link.AdsHistory)
	})
}

func (r *LinksRepo) Get(ctx context.Context, id string) (*internal.MonitoredLink, error) {
	log.Debug().Str("id", id).Msg("fetching link")

	var row linkRow
	found, err := r.db.From("links").
		Select("seq", "id", "url", "site", "ads_count", "tags", "niches", "added_at").
		Where(goqu.Ex{"id": id}).
		ScanStructContext(ctx, &row)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to fetch link")
		return nil, err
	}
	if !found {
		return nil, internal.ErrLinkNotFound
	}

	history, err := r.history.ForLink(ctx, id)
	if err != nil {
		return nil, err
	}

	return row.toDomain(history), nil
}

func (r *LinksRepo) List(ctx context.Context) ([]*internal.MonitoredLink, error) {
	var rows []linkRow
	err := r.db.From("links").
		Select("seq", "id", "url", "site", "ads_count", "tags", "niches", "added_at").
		Order(goqu.C("seq").Asc()).
		ScanStructsContext(ctx, &rows)
	if err != nil {
		return nil, err
	}

	histories, err := r.history.All(ctx)
	if err != nil {
		return nil, err
	}

	return lo.Map(rows, func(row linkRow, _ int) *internal.MonitoredLink {
		return row.toDomain(histories[row.ID])
	}), nil
}

func (r *LinksRepo) Replace(ctx context.Context, link *internal.MonitoredLink) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	return tx.Wrap(func() error {
		res, err := tx.Update("links").
			Set(toRow(link)).
			Where(goqu.Ex{"id": link.ID}).
			Executor().ExecContext(ctx)
		if err != nil {
			log.Error().Err(err).Str("id", link.ID).Msg("failed to update link")
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return internal.ErrLinkNotFound
		}

		stored, err := r.history.count(ctx, tx, link.ID)
		if err != nil {
			return err
		}
		if stored > len(link.AdsHistory) {
			return fmt.Errorf("history for %s would shrink from %d to %d entries", link.ID, stored, len(link.AdsHistory))
		}
		return r.history.append(ctx, tx, link.ID, link.AdsHistory[stored:])
	})
}

func (r *LinksRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	return tx.Wrap(func() error {
		if _, err := tx.Delete("ads_history").Where(goqu.Ex{"link_id": id}).Executor().ExecContext(ctx); err != nil {
			return err
		}
		res, err := tx.Delete("links").Where(goqu.Ex{"id": id}).Executor().ExecContext(ctx)
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("failed to delete link")
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return internal.ErrLinkNotFound
		}
		return nil
	})
}

func toRow(link *internal.MonitoredLink) linkRow {
	return linkRow{
		ID:       link.ID,
		URL:      link.URL,
		Site:     link.Site,
		AdsCount: link.AdsCount,
		Tags:     link.Tags,
		Niches:   nicheList(link.Niches),
		AddedAt:  link.AddedAt,
	}
}

func (r *linkRow) toDomain(history []internal.HistoryEntry) *internal.MonitoredLink {
	niches := []string(r.Niches)
	if niches == nil {
		niches = []string{}
	}
	return &internal.MonitoredLink{
		ID:         r.ID,
		URL:        r.URL,
		Site:       r.Site,
		AdsCount:   r.AdsCount,
		Tags:       r.Tags,
		Niches:     niches,
		AddedAt:    r.AddedAt,
		AdsHistory: history,
	}
}
