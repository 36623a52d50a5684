package contacts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"contactbook/internal/script"
	"contactbook/internal/util"

	"go.uber.org/zap"
)

// DefaultListLimit caps ListContacts when no limit is given.
const DefaultListLimit = 50

const (
	// minPhoneDigits is the shortest digit run LookupByPhone will match on.
	minPhoneDigits = 7
	// phoneSuffixDigits skips country codes and trunk prefixes.
	phoneSuffixDigits = 9
)

// Service translates typed requests into scripts for the contacts store.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	runner       script.Runner
	logger       *zap.Logger
	defaultLimit int
}

// Option configures a Service.
type Option func(*Service)

// WithDefaultLimit overrides DefaultListLimit.
func WithDefaultLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.defaultLimit = limit
		}
	}
}

// NewService constructs a Service. A nil logger disables logging.
func NewService(runner script.Runner, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{runner: runner, logger: logger, defaultLimit: DefaultListLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListContacts returns up to limit contacts in store order. limit <= 0 uses the default.
func (s *Service) ListContacts(ctx context.Context, limit int) ([]Contact, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	out, err := s.run(ctx, "list contacts", listContactsScript(limit))
	if err != nil {
		return nil, err
	}
	return parseContacts(out), nil
}

// SearchContacts matches query against the display name only.
func (s *Service) SearchContacts(ctx context.Context, query string) ([]Contact, error) {
	out, err := s.run(ctx, "search contacts", searchContactsScript(query))
	if err != nil {
		return nil, err
	}
	return parseContacts(out), nil
}

// GetContact returns nil, nil when no contact has the given id.
func (s *Service) GetContact(ctx context.Context, id string) (*Contact, error) {
	out, err := s.run(ctx, "get contact", getContactScript(id))
	if err != nil {
		return nil, err
	}
	return parseContact(out), nil
}

// CreateContact creates a contact and returns its new id. Callers enforce
// NewContact.HasIdentity; the service does not.
func (s *Service) CreateContact(ctx context.Context, c NewContact) (string, error) {
	out, err := s.run(ctx, "create contact", createContactScript(c))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// UpdateContact overwrites the set fields. It returns false without touching
// the store when no field is set.
func (s *Service) UpdateContact(ctx context.Context, id string, u ContactUpdate) (bool, error) {
	if u.Empty() {
		return false, nil
	}
	out, err := s.run(ctx, "update contact", updateContactScript(id, u))
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "true", nil
}

// DeleteContact reports whether the contact existed and was removed.
func (s *Service) DeleteContact(ctx context.Context, id string) (bool, error) {
	out, err := s.run(ctx, "delete contact", deleteContactScript(id))
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "true", nil
}

// ListGroups returns every group with its member count.
func (s *Service) ListGroups(ctx context.Context) ([]Group, error) {
	out, err := s.run(ctx, "list groups", listGroupsScript())
	if err != nil {
		return nil, err
	}
	return parseGroups(out), nil
}

// GroupMembers returns the members of the group named exactly name, or an
// empty list when there is no such group.
func (s *Service) GroupMembers(ctx context.Context, name string) ([]Contact, error) {
	out, err := s.run(ctx, "group members", groupMembersScript(name))
	if err != nil {
		return nil, err
	}
	return parseContacts(out), nil
}

// LookupByPhone returns the first contact with a phone number matching phone,
// ignoring formatting. Numbers match when their trailing digits agree.
func (s *Service) LookupByPhone(ctx context.Context, phone string) (*Contact, error) {
	want := digits(phone)
	if len(want) < minPhoneDigits {
		return nil, nil
	}
	out, err := s.run(ctx, "lookup phone", phonesScript())
	if err != nil {
		return nil, err
	}
	for _, c := range parseContacts(out) {
		for _, p := range c.Phones {
			if phoneMatches(digits(p), want) {
				contact := c
				return &contact, nil
			}
		}
	}
	return nil, nil
}

func (s *Service) run(ctx context.Context, op string, src string) (string, error) {
	start := time.Now()
	out, err := s.runner.Run(ctx, src)
	duration := time.Since(start)
	if err != nil {
		s.logger.Warn("contacts script failed", zap.String("op", op), zap.Duration("duration", duration), zap.Error(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Debug("contacts script finished",
		zap.String("op", op),
		zap.Duration("duration", duration),
		zap.Int("bytes", len(out)),
		zap.String("preview", util.Preview(out, 4, 512)),
	)
	return out, nil
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func phoneMatches(stored, want string) bool {
	n := min(len(stored), len(want), phoneSuffixDigits)
	if n < minPhoneDigits {
		return false
	}
	return stored[len(stored)-n:] == want[len(want)-n:]
}
