package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"table-ordering/order-svc/internal/domain"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// Profile tracks the signed-in user. Results of a sign-in that was
// superseded by a logout or another sign-in are dropped with domain.ErrAbandoned.
type Profile struct {
	mu         sync.Mutex
	identity   Identity
	users      UserDirectory
	adminEmail string
	logger     *slog.Logger
	now        func() time.Time

	current *domain.User
	admin   bool
	gen     uint64
}

func NewProfile(identity Identity, users UserDirectory, adminEmail string, logger *slog.Logger) *Profile {
	return &Profile{
		identity:   identity,
		users:      users,
		adminEmail: adminEmail,
		logger:     logger,
		now:        time.Now,
	}
}

func (p *Profile) Register(ctx context.Context, req RegisterRequest) (domain.User, error) {
	gen := p.begin()

	userID, err := p.identity.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("sign up: %w", err)
	}

	user := domain.User{
		ID:          userID,
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		JoinDate:    p.now().UTC(),
		Preferences: domain.DefaultPreferences(),
		Role:        domain.RoleCustomer,
	}
	if err := p.users.SaveUser(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("save profile: %w", err)
	}
	return user, p.commit(gen, &user, user.GrantsAdmin(req.Email, p.adminEmail))
}

// Login signs in and loads the stored profile. A user without a stored
// profile gets a minimal one that is kept in memory only.
func (p *Profile) Login(ctx context.Context, email, password string) (domain.User, error) {
	gen := p.begin()

	userID, err := p.identity.SignIn(ctx, email, password)
	if err != nil {
		return domain.User{}, fmt.Errorf("sign in: %w", err)
	}

	user, err := p.users.FetchUser(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("fetch profile: %w", err)
	}
	if user == nil {
		p.logger.Info("no stored profile", slog.String("user_id", userID))
		user = &domain.User{
			ID:          userID,
			Email:       strings.TrimSpace(email),
			JoinDate:    p.now().UTC(),
			Preferences: domain.DefaultPreferences(),
			Role:        domain.RoleCustomer,
		}
	}
	return *user, p.commit(gen, user, user.GrantsAdmin(email, p.adminEmail))
}

func (p *Profile) Logout() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.current = nil
	p.admin = false
}

func (p *Profile) Current() (domain.User, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return domain.User{}, false
	}
	return *p.current, true
}

func (p *Profile) UpdateProfile(ctx context.Context, patch domain.ProfilePatch) (domain.User, error) {
	return p.edit(ctx, func(u *domain.User) error {
		u.Apply(patch)
		return nil
	})
}

func (p *Profile) UpdatePreferences(ctx context.Context, prefs domain.Preferences) (domain.User, error) {
	return p.edit(ctx, func(u *domain.User) error {
		if !prefs.PreferredLanguage.Valid() {
			return fmt.Errorf("language %q: %w", prefs.PreferredLanguage, domain.ErrInvalidSetting)
		}
		for _, c := range prefs.FavoriteCategories {
			if !c.Valid() {
				return fmt.Errorf("category %q: %w", c, domain.ErrInvalidSetting)
			}
		}
		u.Preferences = prefs
		return nil
	})
}

func (p *Profile) UpdateProfileImage(ctx context.Context, image []byte) (domain.User, error) {
	return p.edit(ctx, func(u *domain.User) error {
		u.ProfileImage = append([]byte(nil), image...)
		return nil
	})
}

// Actor is admin when the current sign-in granted admin rights; otherwise customer.
func (p *Profile) Actor() domain.Actor {
	if p.IsAdmin() {
		return domain.ActorAdmin
	}
	return domain.ActorCustomer
}

func (p *Profile) IsAdmin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil && p.admin
}

// edit applies change to a copy of the current user, saves it, then adopts it.
func (p *Profile) edit(ctx context.Context, change func(*domain.User) error) (domain.User, error) {
	p.mu.Lock()
	if p.current == nil {
		p.mu.Unlock()
		return domain.User{}, domain.ErrNoProfile
	}
	updated := *p.current
	gen, admin := p.gen, p.admin
	p.mu.Unlock()

	if err := change(&updated); err != nil {
		return domain.User{}, err
	}
	if err := p.users.SaveUser(ctx, updated); err != nil {
		return domain.User{}, fmt.Errorf("save profile: %w", err)
	}
	return updated, p.commit(gen, &updated, admin)
}

func (p *Profile) begin() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	return p.gen
}

// commit adopts user unless a newer sign-in or a logout happened since gen.
// Admin rights are fixed at sign-in; profile edits carry them over unchanged.
func (p *Profile) commit(gen uint64, user *domain.User, admin bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return domain.ErrAbandoned
	}
	p.current = user
	p.admin = admin
	return nil
}
