package service

import (
	"context"
	"fmt"
	"strings"

	"geoMaster/internal/activity"
	"geoMaster/internal/auth"
	"geoMaster/internal/geo"
	"geoMaster/models"
	"geoMaster/repository"
)

// FeatureService is the feature store adapter: validation, role checks and
// activity recording around the feature repository.
type FeatureService struct {
	features repository.FeatureRepositoryI
	activity activity.Recorder
}

func NewFeatureService(features repository.FeatureRepositoryI, rec activity.Recorder) *FeatureService {
	return &FeatureService{features: features, activity: rec}
}

type CreateFeatureInput struct {
	Name        string
	Type        string
	Coordinates []byte
	Color       string
}

// List returns all features, optionally narrowed to one geometry type.
func (s *FeatureService) List(ctx context.Context, geometryType string) ([]models.Feature, error) {
	var filter models.FeatureFilter
	if strings.TrimSpace(geometryType) != "" {
		kind, err := geo.ParseKind(geometryType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
		}
		filter.Kind = kind
	}
	return s.features.List(ctx, filter)
}

// Count returns the number of stored features.
func (s *FeatureService) Count(ctx context.Context) (int, error) {
	return s.features.Count(ctx)
}

// Create validates the geometry against its type and stores the feature
// owned by the caller.
func (s *FeatureService) Create(ctx context.Context, p *auth.Principal, in CreateFeatureInput) (*models.Feature, error) {
	if err := auth.RequireWriter(p); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", models.ErrValidation)
	}
	kind, err := geo.ParseKind(in.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	g, err := geo.Decode(kind, in.Coordinates)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = models.DefaultColor
	}

	f, err := s.features.Create(ctx, &models.Feature{Name: name, Geometry: g, CreatedBy: p.Name, Color: color})
	if err != nil {
		return nil, err
	}
	s.activity.Record(models.ActionAddFeature, p.Name, map[string]any{
		"id":           f.ID,
		"featureName":  f.Name,
		"geometryType": string(kind),
	})
	return f, nil
}

// Update changes name and/or color. Concurrent updates are last-write-wins.
func (s *FeatureService) Update(ctx context.Context, p *auth.Principal, id string, patch models.FeaturePatch) error {
	if err := auth.RequireWriter(p); err != nil {
		return err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", models.ErrValidation)
	}
	if err := s.features.Update(ctx, id, patch); err != nil {
		return err
	}
	fields := make([]string, 0, 2)
	if patch.Name != nil {
		fields = append(fields, "name")
	}
	if patch.Color != nil {
		fields = append(fields, "color")
	}
	s.activity.Record(models.ActionUpdateFeature, p.Name, map[string]any{"id": id, "fields": fields})
	return nil
}

// Delete removes a feature. Viewers are always refused; others need to be
// the creator or an admin.
func (s *FeatureService) Delete(ctx context.Context, p *auth.Principal, id string) error {
	if err := auth.RequireWriter(p); err != nil {
		return err
	}
	f, err := s.features.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if f == nil {
		return models.ErrNotFound
	}
	if p.Role != models.RoleAdmin && f.CreatedBy != p.Name {
		return fmt.Errorf("%w: only the creator or an admin may delete this feature", models.ErrForbidden)
	}
	if err := s.features.Delete(ctx, id); err != nil {
		return err
	}
	s.activity.Record(models.ActionDeleteFeature, p.Name, map[string]any{"id": id, "featureName": f.Name})
	return nil
}
