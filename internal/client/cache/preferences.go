package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/paperkeeper/internal/client/repositories/metadata"
)

// AvatarKey stores the locally chosen avatar identifier.
const AvatarKey = "avatar"

// Preferences keeps per-device UI choices next to the snapshot.
type Preferences struct {
	repo metadata.Repository
}

func NewPreferences(repo metadata.Repository) *Preferences {
	return &Preferences{repo: repo}
}

// Avatar returns the chosen avatar id; false when none was chosen or the
// stored value is unreadable.
func (p *Preferences) Avatar(ctx context.Context) (int, bool) {
	raw, err := p.repo.Get(ctx, AvatarKey)
	if err != nil {
		return 0, false
	}
	id, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, false
	}
	return id, true
}

func (p *Preferences) SetAvatar(ctx context.Context, id int) error {
	if id <= 0 {
		return errors.New("avatar id must be positive")
	}
	if err := p.repo.Set(ctx, AvatarKey, []byte(strconv.Itoa(id))); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	return nil
}

func (p *Preferences) ResetAvatar(ctx context.Context) error {
	if err := p.repo.Delete(ctx, AvatarKey); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	return nil
}
