package contractor

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"contractor/internal/core/apperror"
	"contractor/internal/core/id"
	"contractor/internal/core/security"
	"contractor/internal/core/tx"
	"contractor/pkg/logger"
)

var tracer = otel.Tracer("contractor/search")

const entityName = "contractor"

// ServiceConfig configures the contractor service.
type ServiceConfig struct {
	Repo      Repository
	TxManager tx.Manager
	Events    EventPublisher
	Policy    *SearchPolicy

	// ORM and SQL are the two search strategies. They must return the same
	// rows for the same criteria and page.
	ORM Searcher
	SQL Searcher

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// Service provides contractor business logic.
type Service struct {
	repo      Repository
	txManager tx.Manager
	events    EventPublisher
	policy    *SearchPolicy
	orm       Searcher
	sql       Searcher
	now       func() time.Time
}

// NewService creates a new contractor service.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:      cfg.Repo,
		txManager: cfg.TxManager,
		events:    cfg.Events,
		policy:    cfg.Policy,
		orm:       cfg.ORM,
		sql:       cfg.SQL,
		now:       now,
	}
}

// Search runs an authorized search through the ORM strategy.
// A rejected request yields an empty slice and no error.
func (s *Service) Search(ctx context.Context, roles security.RoleSet, c SearchCriteria, page Page) ([]Contractor, error) {
	return s.search(ctx, "orm", s.orm, roles, c, page)
}

// SearchSQL is Search through the raw SQL strategy.
func (s *Service) SearchSQL(ctx context.Context, roles security.RoleSet, c SearchCriteria, page Page) ([]Contractor, error) {
	return s.search(ctx, "sql", s.sql, roles, c, page)
}

func (s *Service) search(
	ctx context.Context,
	strategy string,
	searcher Searcher,
	roles security.RoleSet,
	c SearchCriteria,
	page Page,
) ([]Contractor, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	effective, ok := s.policy.Authorize(roles, c)
	if !ok {
		logger.Debug(ctx, "contractor search rejected by role policy",
			"strategy", strategy,
			"roles", roles.Strings(),
		)
		return []Contractor{}, nil
	}

	ctx, span := tracer.Start(ctx, "contractor.search",
		trace.WithAttributes(
			attribute.String("search.strategy", strategy),
			attribute.Int("search.page", page.Number),
			attribute.Int("search.size", page.Size),
		),
	)
	defer span.End()

	items, err := searcher.Search(ctx, Filters(effective), page)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("search contractors (%s): %w", strategy, err)
	}
	if items == nil {
		items = []Contractor{}
	}
	span.SetAttributes(attribute.Int("search.results", len(items)))

	return items, nil
}

// SaveOrUpdate creates the contractor, or overwrites its mutable fields when
// the id already exists. An empty id gets a fresh one.
func (s *Service) SaveOrUpdate(ctx context.Context, c *Contractor) (*Contractor, error) {
	if c.ID == "" {
		c.ID = id.NewString()
	}
	if err := c.Validate(ctx); err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewValidation(err.Error())
	}

	actor := security.Actor(ctx)
	now := s.now().UTC()

	var saved *Contractor
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByID(ctx, c.ID)
		switch {
		case err == nil:
			existing.applyUpdate(c)
			existing.StampModified(actor, now)
			if err := s.repo.Update(ctx, existing); err != nil {
				return fmt.Errorf("update %s: %w", entityName, err)
			}
		case apperror.IsNotFound(err):
			c.StampCreated(actor, now)
			if err := s.repo.Create(ctx, c); err != nil {
				return fmt.Errorf("create %s: %w", entityName, err)
			}
		default:
			return err
		}

		saved, err = s.repo.GetByID(ctx, c.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "contractor saved", "contractor_id", saved.ID, "actor", actor)
	return saved, nil
}

// GetByID returns an active contractor.
func (s *Service) GetByID(ctx context.Context, contractorID string) (*Contractor, error) {
	c, err := s.repo.GetByID(ctx, contractorID)
	if err != nil {
		return nil, normalizeGetErr(err, contractorID)
	}
	if !c.Active() {
		return nil, apperror.NewNotActive(entityName, contractorID)
	}
	return c, nil
}

// Delete marks an active contractor inactive.
func (s *Service) Delete(ctx context.Context, contractorID string) error {
	if _, err := s.GetByID(ctx, contractorID); err != nil {
		return err
	}

	actor := security.Actor(ctx)
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.SetActive(ctx, contractorID, false, actor, s.now().UTC()); err != nil {
			return fmt.Errorf("delete %s: %w", entityName, err)
		}
		return nil
	})
}

// UpdateMainBorrower applies an inbound main-borrower notice. When the flag
// actually changes an EventContractorUpdated event is written in the same
// transaction. Unknown contractors are reported as NotFound.
func (s *Service) UpdateMainBorrower(ctx context.Context, upd MainBorrowerUpdate) error {
	if upd.ContractorID == "" {
		return apperror.NewValidation("contractor_id is required").WithDetail("field", "contractor_id")
	}

	actor := security.Actor(ctx)
	now := s.now().UTC()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := s.repo.GetByID(ctx, upd.ContractorID)
		if err != nil {
			return normalizeGetErr(err, upd.ContractorID)
		}
		if c.ActiveMainBorrower == upd.HasMainDeals {
			return nil
		}

		if err := s.repo.SetMainBorrower(ctx, c.ID, upd.HasMainDeals, actor, now); err != nil {
			return fmt.Errorf("set main borrower: %w", err)
		}

		if s.events == nil {
			return nil
		}
		return s.events.Publish(ctx, Event{
			Type:        EventContractorUpdated,
			AggregateID: c.ID,
			Payload: MainBorrowerChanged{
				ContractorID:       c.ID,
				ActiveMainBorrower: upd.HasMainDeals,
				ChangedAt:          now,
			},
		})
	})
}

func normalizeGetErr(err error, contractorID string) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(entityName, contractorID)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", entityName).WithDetail("id", contractorID)
}
