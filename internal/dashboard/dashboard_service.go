package dashboard

import (
	"context"
	"sort"

	"go-workforce/internal/approval"
	"go-workforce/internal/domain"
	"go-workforce/internal/shared/contextutil"
	"go-workforce/internal/team"
	"go-workforce/internal/workflow"
	workflowerrors "go-workforce/internal/workflow/errors"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type EmployeeNames interface {
	Names(ctx context.Context, ids []int64) (map[int64]string, error)
}

type ProjectDirectory interface {
	GetProject(ctx context.Context, id int64) (domain.ProjectInfo, error)
}

type Service interface {
	PendingSummary(ctx context.Context, principalID int64) (PendingSummary, error)
	// PendingList merges every family newest first; family narrows it to one.
	PendingList(ctx context.Context, principalID int64, family workflow.Family) ([]PendingItem, error)
	PendingByFamily(ctx context.Context, principalID int64, family workflow.Family) (FamilyPending, error)
	ExportPending(ctx context.Context, principalID int64, family workflow.Family) (*excelize.File, string, error)
}

type service struct {
	identity approval.IdentityResolver
	members  approval.MembershipResolver
	sources  map[workflow.Family]Source
	names    EmployeeNames
	projects ProjectDirectory
	logger   *zap.Logger
}

func NewService(
	identity approval.IdentityResolver,
	members approval.MembershipResolver,
	names EmployeeNames,
	projects ProjectDirectory,
	sources []Source,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	bySource := make(map[workflow.Family]Source, len(sources))
	for _, src := range sources {
		bySource[src.Family()] = src
	}
	return &service{
		identity: identity,
		members:  members,
		sources:  bySource,
		names:    names,
		projects: projects,
		logger:   l,
	}
}

type scope struct {
	companyID  int64
	membership team.Membership
}

// ids picks the membership side that owns requests of family f. The
// approval engine authorizes through the same Membership.
func (s scope) ids(f workflow.Family) []int64 {
	if f.ProjectScoped() {
		return s.membership.ProjectIDs()
	}
	return s.membership.EmployeeIDs()
}

func (s *service) resolve(ctx context.Context, principalID int64) (scope, error) {
	e, err := s.identity.ResolveEmployee(ctx, principalID)
	if err != nil {
		return scope{}, err
	}
	m, err := s.members.ResolveSupervisedEmployees(ctx, e.ID)
	if err != nil {
		return scope{}, err
	}
	return scope{companyID: e.CompanyID, membership: m}, nil
}

func (s *service) families(f workflow.Family) ([]workflow.Family, error) {
	if f == "" {
		out := make([]workflow.Family, 0, len(s.sources))
		for _, fam := range workflow.Families {
			if _, ok := s.sources[fam]; ok {
				out = append(out, fam)
			}
		}
		return out, nil
	}
	if _, ok := s.sources[f]; !ok {
		return nil, workflowerrors.ErrInvalidFamily
	}
	return []workflow.Family{f}, nil
}

func (s *service) PendingSummary(ctx context.Context, principalID int64) (PendingSummary, error) {
	sc, err := s.resolve(ctx, principalID)
	if err != nil {
		return PendingSummary{}, err
	}
	fams, _ := s.families("")

	counts := make([]int64, len(fams))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range fams {
		g.Go(func() error {
			n, err := s.sources[f].Count(gctx, sc.companyID, sc.ids(f))
			counts[i] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("pending summary failed", zap.Error(err))
		return PendingSummary{}, err
	}

	var out PendingSummary
	for i, f := range fams {
		out.add(f, counts[i])
	}
	return out, nil
}

func (s *service) PendingList(ctx context.Context, principalID int64, family workflow.Family) ([]PendingItem, error) {
	fams, err := s.families(family)
	if err != nil {
		return nil, err
	}
	sc, err := s.resolve(ctx, principalID)
	if err != nil {
		return nil, err
	}

	lists := make([][]PendingItem, len(fams))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range fams {
		g.Go(func() error {
			items, err := s.sources[f].List(gctx, sc.companyID, sc.ids(f))
			lists[i] = items
			return err
		})
	}
	if err := g.Wait(); err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("pending list failed", zap.Error(err))
		return nil, err
	}

	var out []PendingItem
	for _, l := range lists {
		out = append(out, l...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].RequestedAt.After(out[j].RequestedAt)
	})
	s.decorate(ctx, out)
	if out == nil {
		out = []PendingItem{}
	}
	return out, nil
}

func (s *service) PendingByFamily(ctx context.Context, principalID int64, family workflow.Family) (FamilyPending, error) {
	items, err := s.PendingList(ctx, principalID, family)
	if err != nil {
		return FamilyPending{}, err
	}
	return FamilyPending{Count: len(items), Requests: items}, nil
}

// decorate fills display names. Lookups are best effort.
func (s *service) decorate(ctx context.Context, items []PendingItem) {
	if len(items) == 0 {
		return
	}
	log := contextutil.GetLogger(ctx, s.logger)

	if s.names != nil {
		seen := map[int64]struct{}{}
		var ids []int64
		for _, it := range items {
			if _, ok := seen[it.EmployeeID]; !ok {
				seen[it.EmployeeID] = struct{}{}
				ids = append(ids, it.EmployeeID)
			}
		}
		names, err := s.names.Names(ctx, ids)
		if err != nil {
			log.Warn("employee names lookup failed", zap.Error(err))
		}
		for i := range items {
			items[i].EmployeeName = names[items[i].EmployeeID]
		}
	}

	if s.projects != nil {
		projectNames := map[int64]string{}
		for i := range items {
			if items[i].ProjectID == nil {
				continue
			}
			id := *items[i].ProjectID
			name, ok := projectNames[id]
			if !ok {
				info, err := s.projects.GetProject(ctx, id)
				if err != nil {
					log.Warn("project lookup failed", zap.Int64("project_id", id), zap.Error(err))
				}
				name = info.Name
				projectNames[id] = name
			}
			items[i].ProjectName = name
		}
	}
}
