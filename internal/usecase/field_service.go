package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/futgol/internal/domain/field"
	"github.com/riskibarqy/futgol/internal/domain/group"
	"github.com/riskibarqy/futgol/internal/domain/match"
	idgen "github.com/riskibarqy/futgol/internal/platform/id"
	"github.com/riskibarqy/futgol/internal/platform/logging"
)

type FieldInput struct {
	ActorID      string
	GroupID      string
	FieldID      string
	Name         string
	Location     string
	HourlyRate   *decimal.Decimal
	ContactName  string
	ContactPhone string
	Latitude     *float64
	Longitude    *float64
}

type FieldService struct {
	groups  group.Repository
	fields  field.Repository
	matches match.Repository
	idGen   idgen.Generator
	logger  *logging.Logger
	now     func() time.Time
}

func NewFieldService(groups group.Repository, fields field.Repository, matches match.Repository, idGen idgen.Generator, logger *logging.Logger) *FieldService {
	if logger == nil {
		logger = logging.Default()
	}
	return &FieldService{
		groups:  groups,
		fields:  fields,
		matches: matches,
		idGen:   idGen,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *FieldService) ListByGroup(ctx context.Context, actorID, groupID string) ([]field.Field, error) {
	actorID, err := requireActor(actorID)
	if err != nil {
		return nil, err
	}
	g, err := loadGroup(ctx, s.groups, groupID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(g, actorID); err != nil {
		return nil, err
	}

	items, err := s.fields.ListByGroup(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("list fields by group: %w", err)
	}
	return items, nil
}

func (s *FieldService) Get(ctx context.Context, actorID, fieldID string) (field.Field, error) {
	actorID, err := requireActor(actorID)
	if err != nil {
		return field.Field{}, err
	}
	f, g, err := s.load(ctx, fieldID)
	if err != nil {
		return field.Field{}, err
	}
	if err := requireMember(g, actorID); err != nil {
		return field.Field{}, err
	}
	return f, nil
}

func (s *FieldService) Create(ctx context.Context, input FieldInput) (field.Field, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FieldService.Create")
	defer span.End()

	actorID, err := requireActor(input.ActorID)
	if err != nil {
		return field.Field{}, err
	}
	g, err := loadGroup(ctx, s.groups, input.GroupID)
	if err != nil {
		return field.Field{}, err
	}
	if err := requireAdmin(g, actorID); err != nil {
		return field.Field{}, err
	}

	fieldID, err := s.idGen.NewID()
	if err != nil {
		return field.Field{}, fmt.Errorf("generate field id: %w", err)
	}
	now := s.now().UTC()
	f := field.Field{
		ID:        fieldID,
		GroupID:   g.ID,
		CreatedAt: now,
	}
	applyFieldInput(&f, input)
	f.UpdatedAt = now

	if err := f.Validate(); err != nil {
		return field.Field{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.fields.Create(ctx, f); err != nil {
		return field.Field{}, fmt.Errorf("create field: %w", err)
	}
	return f, nil
}

func (s *FieldService) Update(ctx context.Context, input FieldInput) (field.Field, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FieldService.Update")
	defer span.End()

	actorID, err := requireActor(input.ActorID)
	if err != nil {
		return field.Field{}, err
	}
	f, g, err := s.load(ctx, input.FieldID)
	if err != nil {
		return field.Field{}, err
	}
	if err := requireAdmin(g, actorID); err != nil {
		return field.Field{}, err
	}

	applyFieldInput(&f, input)
	f.UpdatedAt = s.now().UTC()
	if err := f.Validate(); err != nil {
		return field.Field{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.fields.Update(ctx, f); err != nil {
		return field.Field{}, fmt.Errorf("update field: %w", err)
	}
	return f, nil
}

// Delete refuses while an unfinished match is scheduled on the field.
func (s *FieldService) Delete(ctx context.Context, actorID, fieldID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.FieldService.Delete")
	defer span.End()

	actorID, err := requireActor(actorID)
	if err != nil {
		return err
	}
	f, g, err := s.load(ctx, fieldID)
	if err != nil {
		return err
	}
	if err := requireAdmin(g, actorID); err != nil {
		return err
	}

	matches, err := s.matches.ListByGroup(ctx, g.ID)
	if err != nil {
		return fmt.Errorf("list matches by group: %w", err)
	}
	for _, m := range matches {
		if m.FieldID == f.ID && !m.Finished {
			return fmt.Errorf("%w: field is used by upcoming match %s", ErrConflict, m.ID)
		}
	}

	if err := s.fields.Delete(ctx, f.ID); err != nil {
		return fmt.Errorf("delete field: %w", err)
	}
	s.logger.InfoContext(ctx, "field deleted", "group_id", g.ID, "field_id", f.ID)
	return nil
}

func (s *FieldService) load(ctx context.Context, fieldID string) (field.Field, group.Group, error) {
	fieldID = strings.TrimSpace(fieldID)
	if fieldID == "" {
		return field.Field{}, group.Group{}, fmt.Errorf("%w: field id is required", ErrInvalidInput)
	}
	f, exists, err := s.fields.GetByID(ctx, fieldID)
	if err != nil {
		return field.Field{}, group.Group{}, fmt.Errorf("get field by id: %w", err)
	}
	if !exists {
		return field.Field{}, group.Group{}, fmt.Errorf("%w: field not found", ErrNotFound)
	}
	g, err := loadGroup(ctx, s.groups, f.GroupID)
	if err != nil {
		return field.Field{}, group.Group{}, err
	}
	return f, g, nil
}

func applyFieldInput(f *field.Field, input FieldInput) {
	setIfPresent(&f.Name, input.Name)
	setIfPresent(&f.Location, input.Location)
	setIfPresent(&f.ContactName, input.ContactName)
	setIfPresent(&f.ContactPhone, input.ContactPhone)
	if input.HourlyRate != nil {
		f.HourlyRate = *input.HourlyRate
	}
	if input.Latitude != nil || input.Longitude != nil {
		f.Latitude = input.Latitude
		f.Longitude = input.Longitude
	}
}
