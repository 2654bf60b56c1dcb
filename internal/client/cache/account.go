package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/paperkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/paperkeeper/internal/dbx"
)

// AccountKey records which account the local data belongs to.
const AccountKey = "account"

// BindAccount ties the local snapshot and preferences to email. When a
// different account was bound before, its data is dropped in the same
// transaction and switched is true. An empty email leaves everything as is.
func BindAccount(ctx context.Context, db *sql.DB, email string) (switched bool, err error) {
	if email == "" {
		return false, nil
	}

	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		prev, err := repo.Get(ctx, AccountKey)
		switch {
		case errors.Is(err, metadata.ErrNotFound):
		case err != nil:
			return err
		case string(prev) == email:
			return nil
		default:
			for _, key := range []string{SnapshotKey, AvatarKey} {
				if err := repo.Delete(ctx, key); err != nil {
					return err
				}
			}
			switched = true
		}
		return repo.Set(ctx, AccountKey, []byte(email))
	})
	if err != nil {
		return false, fmt.Errorf("%w: bind account: %v", ErrCacheWrite, err)
	}
	return switched, nil
}
