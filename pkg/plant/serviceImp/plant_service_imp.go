package serviceImp

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang/glog"

	"herbal/entities"
	"herbal/pkg/catalog"
	"herbal/pkg/plant/repository"
	"herbal/pkg/plant/service"
)

// Notifier is told about every successful write; *live.Feed implements it.
type Notifier interface {
	Notify(ctx context.Context)
}

type plantSvc struct {
	repo repository.PlantRepository
	feed Notifier
}

func New(r repository.PlantRepository, feed Notifier) service.PlantService {
	return &plantSvc{repo: r, feed: feed}
}

func (s *plantSvc) Create(ctx context.Context, in service.PlantInput) (*entities.Plant, error) {
	p := &entities.Plant{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Benefit:     strings.TrimSpace(in.Benefit),
		Compounds:   cleanCompounds(in.Compounds),
		ImageURL:    strings.TrimSpace(in.ImageURL),
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create plant: %w", err)
	}
	glog.Infof("[plant] created id=%s name=%q", p.ID, p.Name)
	s.feed.Notify(ctx)
	return p, nil
}

func (s *plantSvc) Update(ctx context.Context, id string, patch service.PlantPatch) (*entities.Plant, error) {
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// apply and check only the fields that were sent; stored values are
	// left as they are
	if patch.Name != nil {
		if err := service.Required("name", *patch.Name); err != nil {
			return nil, err
		}
		cur.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		if err := service.Required("description", *patch.Description); err != nil {
			return nil, err
		}
		cur.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Benefit != nil {
		cur.Benefit = strings.TrimSpace(*patch.Benefit)
	}
	if patch.Compounds != nil {
		cur.Compounds = cleanCompounds(*patch.Compounds)
	}
	if patch.ImageURL != nil {
		if err := service.Required("image_url", *patch.ImageURL); err != nil {
			return nil, err
		}
		cur.ImageURL = strings.TrimSpace(*patch.ImageURL)
	}
	if err := s.repo.Update(ctx, cur); err != nil {
		return nil, fmt.Errorf("update plant %s: %w", id, err)
	}
	glog.Infof("[plant] updated id=%s", id)
	s.feed.Notify(ctx)
	return cur, nil
}

func (s *plantSvc) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete plant %s: %w", id, err)
	}
	glog.Infof("[plant] deleted id=%s", id)
	s.feed.Notify(ctx)
	return nil
}

func (s *plantSvc) Get(ctx context.Context, id string) (*entities.Plant, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *plantSvc) List(ctx context.Context, query string) ([]entities.Plant, error) {
	all, err := s.repo.ListNewestFirst(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Filter(all, query), nil
}

func validate(p *entities.Plant) error {
	for _, err := range []error{
		service.Required("name", p.Name),
		service.Required("description", p.Description),
		service.Required("image_url", p.ImageURL),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// cleanCompounds trims every row and drops rows left completely blank. Order
// and duplicates are kept.
func cleanCompounds(in []entities.Compound) []entities.Compound {
	out := make([]entities.Compound, 0, len(in))
	for _, c := range in {
		c.Name = strings.TrimSpace(c.Name)
		c.Amount = strings.TrimSpace(c.Amount)
		if c.Name == "" && c.Amount == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}
