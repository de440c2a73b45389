package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/citylinker/backend/internal/domain/entities"
	"github.com/citylinker/backend/internal/domain/repositories"
	"github.com/citylinker/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/citylinker/backend/pkg/errors"
)

var categoryColumns = []interface{}{"id", "name", "icon", "description"}

// CategoryAdapter implements CategoryRepository on PostgreSQL
type CategoryAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCategoryAdapter creates a new category adapter
func NewCategoryAdapter(client *postgres.Client) repositories.CategoryRepository {
	return &CategoryAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a category
func (a *CategoryAdapter) Create(ctx context.Context, category *entities.Category) error {
	if category == nil {
		return apperrors.NewInternalError("category is nil", fmt.Errorf("category is nil"))
	}

	record := goqu.Record{
		"name":        category.Name,
		"icon":        category.Icon,
		"description": nullString(category.Description),
	}

	query, args, err := a.db.Insert("categories").Rows(record).Returning("id").ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build category insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&category.ID); err != nil {
		return mapWriteError("failed to create category", "Cette catégorie existe déjà", err)
	}
	return nil
}

// GetByID retrieves a category by ID
func (a *CategoryAdapter) GetByID(ctx context.Context, id int64) (*entities.Category, error) {
	query, args, err := a.db.From("categories").Select(categoryColumns...).Where(goqu.C("id").Eq(id)).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build category query", err)
	}

	category, err := scanCategory(a.client.DB().QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("Catégorie non trouvée")
		}
		return nil, apperrors.NewInternalError("failed to get category", err)
	}
	return category, nil
}

// GetByIDs retrieves the categories with the given ids
func (a *CategoryAdapter) GetByIDs(ctx context.Context, ids []int64) ([]*entities.Category, error) {
	if len(ids) == 0 {
		return []*entities.Category{}, nil
	}

	query, args, err := a.db.From("categories").Select(categoryColumns...).Where(goqu.C("id").In(ids)).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build category query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get categories", err)
	}
	defer rows.Close()

	categories := make([]*entities.Category, 0, len(ids))
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan category", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate categories", err)
	}
	return categories, nil
}

// ListWithCounts returns every category with its approved publication count in one query
func (a *CategoryAdapter) ListWithCounts(ctx context.Context) ([]*entities.CategoryWithCount, error) {
	query, args, err := a.db.From(goqu.T("categories").As("c")).
		LeftJoin(
			goqu.T("publications").As("p"),
			goqu.On(
				goqu.I("p.category_id").Eq(goqu.I("c.id")),
				goqu.I("p.status").Eq(string(entities.StatusApproved)),
			),
		).
		Select(
			goqu.I("c.id"),
			goqu.I("c.name"),
			goqu.I("c.icon"),
			goqu.I("c.description"),
			goqu.COUNT(goqu.I("p.id")).As("count"),
		).
		GroupBy(goqu.I("c.id")).
		Order(goqu.I("c.id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build category count query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list categories", err)
	}
	defer rows.Close()

	categories := make([]*entities.CategoryWithCount, 0)
	for rows.Next() {
		var (
			c           entities.CategoryWithCount
			description sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &description, &c.Count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan category", err)
		}
		c.Description = stringPtr(description)
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate categories", err)
	}
	return categories, nil
}

func scanCategory(row rowScanner) (*entities.Category, error) {
	var (
		category    entities.Category
		description sql.NullString
	)
	if err := row.Scan(&category.ID, &category.Name, &category.Icon, &description); err != nil {
		return nil, err
	}
	category.Description = stringPtr(description)
	return &category, nil
}
