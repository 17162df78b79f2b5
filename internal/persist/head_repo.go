package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vanillatweaks/mobheads/internal/data"
)

var headColumns = []string{
	"position", "table_name", "uuid", "name", "texture",
	"needs_player", "requires_customization", "chance", "looting_multiplier",
}

type HeadRepo struct {
	db *DB
}

func NewHeadRepo(db *DB) *HeadRepo {
	return &HeadRepo{db: db}
}

// ReplaceAll swaps the stored head list for heads in one transaction.
// Position keeps the emitted order.
func (r *HeadRepo) ReplaceAll(ctx context.Context, heads []data.Head) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("heads begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM mob_heads`); err != nil {
		return fmt.Errorf("heads clear: %w", err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"mob_heads"}, headColumns, pgx.CopyFromRows(headRows(heads)))
	if err != nil {
		return fmt.Errorf("heads copy: %w", err)
	}
	if int(n) != len(heads) {
		return fmt.Errorf("heads copy: wrote %d of %d rows", n, len(heads))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("heads commit: %w", err)
	}
	r.db.log.Debug("mob_heads replaced")
	return nil
}

func headRows(heads []data.Head) [][]any {
	rows := make([][]any, len(heads))
	for i, h := range heads {
		rows[i] = []any{
			i, h.TableName, h.UUID, h.Name, h.Texture,
			h.NeedsPlayer, h.RequiresCustomization, float64(h.Chance), float64(h.LootingMultiplier),
		}
	}
	return rows
}
