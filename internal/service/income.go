package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/validation"
	"github.com/google/uuid"
)

type IncomeService struct {
	repo repository.IncomeRepository
	now  func() time.Time
}

func NewIncomeService(repo repository.IncomeRepository) *IncomeService {
	return &IncomeService{repo: repo, now: time.Now}
}

func (s *IncomeService) Create(ctx context.Context, userID string, in RecordInput) (*model.Income, error) {
	income, err := s.build(in)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	income.ID = uuid.New().String()
	income.UserID = userID
	income.Status = model.RecordStatusActive
	income.CreatedAt = now
	income.UpdatedAt = now

	err = s.repo.Create(ctx, income)
	if err != nil {
		return nil, fmt.Errorf("failed to create income: %w", err)
	}

	return income, nil
}

func (s *IncomeService) build(in RecordInput) (*model.Income, error) {
	tags, err := in.validate()
	if err != nil {
		return nil, err
	}

	category := model.IncomeCategory(in.Category)
	if !category.Valid() {
		return nil, validation.Invalid("category", "unknown category %q", in.Category)
	}

	err = validation.ValidateText("source", in.Source, validation.MaxTitleLen, false)
	if err != nil {
		return nil, err
	}

	return &model.Income{
		Amount:      in.Amount,
		Description: trimmed(in.Description),
		Category:    category,
		Source:      trimmed(in.Source),
		Date:        in.Date.UTC(),
		Recurring:   in.Recurring,
		Tags:        tags,
	}, nil
}

func (s *IncomeService) ByID(ctx context.Context, userID, incomeID string) (*model.Income, error) {
	return s.repo.ByID(ctx, userID, incomeID)
}

func (s *IncomeService) Incomes(ctx context.Context, userID string, filter model.RecordFilter) (*Page[*model.Income], error) {
	err := validateFilter(filter)
	if err != nil {
		return nil, err
	}
	if filter.Category != "" && !model.IncomeCategory(filter.Category).Valid() {
		return nil, validation.Invalid("category", "unknown category %q", filter.Category)
	}

	incomes, total, err := s.repo.Incomes(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list incomes: %w", err)
	}

	return &Page[*model.Income]{Items: incomes, Total: total, Limit: pageLimit(filter.Limit), Offset: filter.Offset}, nil
}

func (s *IncomeService) Update(ctx context.Context, userID, incomeID string, in RecordInput) (*model.Income, error) {
	income, err := s.repo.ByID(ctx, userID, incomeID)
	if err != nil {
		return nil, err
	}

	updated, err := s.build(in)
	if err != nil {
		return nil, err
	}
	updated.ID = income.ID
	updated.UserID = income.UserID
	updated.Status = income.Status
	updated.CreatedAt = income.CreatedAt
	updated.UpdatedAt = s.now().UTC()

	err = s.repo.Update(ctx, updated)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *IncomeService) Delete(ctx context.Context, userID, incomeID string) error {
	return s.repo.Delete(ctx, userID, incomeID)
}

func (s *IncomeService) Summary(ctx context.Context, userID string, from, to time.Time) (*model.Summary, error) {
	from, to, err := summaryRange(from, to, s.now().UTC())
	if err != nil {
		return nil, err
	}
	return s.repo.Summary(ctx, userID, from, to)
}
