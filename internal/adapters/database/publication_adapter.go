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

var publicationColumns = []interface{}{
	"id", "user_id", "category_id", "type", "title", "slug", "description", "content",
	"image", "price", "location", "status", "rejection_reason", "views", "created_at", "updated_at",
}

// PublicationAdapter implements PublicationRepository on PostgreSQL
type PublicationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPublicationAdapter creates a new publication adapter
func NewPublicationAdapter(client *postgres.Client) repositories.PublicationRepository {
	return &PublicationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a publication
func (a *PublicationAdapter) Create(ctx context.Context, publication *entities.Publication) error {
	if publication == nil {
		return apperrors.NewInternalError("publication is nil", fmt.Errorf("publication is nil"))
	}
	if publication.Status == "" {
		publication.Status = entities.StatusPending
	}

	record := goqu.Record{
		"user_id":          publication.UserID,
		"category_id":      publication.CategoryID,
		"type":             string(publication.Type),
		"title":            publication.Title,
		"slug":             nullString(publication.Slug),
		"description":      publication.Description,
		"content":          nullString(publication.Content),
		"image":            nullString(publication.Image),
		"price":            nullString(publication.Price),
		"location":         nullString(publication.Location),
		"status":           string(publication.Status),
		"rejection_reason": nullString(publication.RejectionReason),
	}

	query, args, err := a.db.Insert("publications").Rows(record).
		Returning("id", "views", "created_at", "updated_at").
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build publication insert query", err)
	}

	err = a.client.DB().QueryRowContext(ctx, query, args...).
		Scan(&publication.ID, &publication.Views, &publication.CreatedAt, &publication.UpdatedAt)
	if err != nil {
		return mapWriteError("failed to create publication", "Cette publication existe déjà", err)
	}
	return nil
}

// GetByID retrieves a publication by ID
func (a *PublicationAdapter) GetByID(ctx context.Context, id int64) (*entities.Publication, error) {
	query, args, err := a.db.From("publications").Select(publicationColumns...).Where(goqu.C("id").Eq(id)).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build publication query", err)
	}

	publication, err := scanPublication(a.client.DB().QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("Publication non trouvée")
		}
		return nil, apperrors.NewInternalError("failed to get publication", err)
	}
	return publication, nil
}

// List returns the publications matching filter
func (a *PublicationAdapter) List(ctx context.Context, filter repositories.PublicationFilter) ([]*entities.Publication, error) {
	ds := a.db.From("publications").Select(publicationColumns...)

	if filter.Status != nil {
		ds = ds.Where(goqu.C("status").Eq(string(*filter.Status)))
	}
	if filter.UserID != 0 {
		ds = ds.Where(goqu.C("user_id").Eq(filter.UserID))
	}
	if filter.ByViews {
		ds = ds.Order(goqu.C("views").Desc(), goqu.C("created_at").Desc(), goqu.C("id").Desc())
	} else {
		ds = ds.Order(goqu.C("created_at").Desc(), goqu.C("id").Desc())
	}
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}

	return a.list(ctx, ds)
}

// Search returns approved publications matching filter, newest first.
// The query matches title or description case-insensitively; LIKE wildcards in it are literal.
func (a *PublicationAdapter) Search(ctx context.Context, filter entities.SearchFilter) ([]*entities.Publication, error) {
	ds := a.db.From("publications").Select(publicationColumns...).
		Where(goqu.C("status").Eq(string(entities.StatusApproved)))

	if filter.Type != "" {
		ds = ds.Where(goqu.C("type").Eq(string(filter.Type)))
	}
	if filter.CategoryID != 0 {
		ds = ds.Where(goqu.C("category_id").Eq(filter.CategoryID))
	}
	if filter.Query != "" {
		pattern := containsPattern(filter.Query)
		ds = ds.Where(goqu.Or(
			goqu.C("title").ILike(pattern),
			goqu.C("description").ILike(pattern),
		))
	}

	return a.list(ctx, ds.Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()))
}

func (a *PublicationAdapter) list(ctx context.Context, ds *goqu.SelectDataset) ([]*entities.Publication, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build publication list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list publications", err)
	}
	defer rows.Close()

	publications := make([]*entities.Publication, 0)
	for rows.Next() {
		publication, err := scanPublication(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan publication", err)
		}
		publications = append(publications, publication)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate publications", err)
	}
	return publications, nil
}

// Update applies the non-nil fields of update
func (a *PublicationAdapter) Update(ctx context.Context, id int64, update entities.PublicationUpdate) (*entities.Publication, error) {
	record := goqu.Record{"updated_at": goqu.L("NOW()")}
	if update.Type != nil {
		record["type"] = string(*update.Type)
	}
	if update.Title != nil {
		record["title"] = *update.Title
	}
	if update.Description != nil {
		record["description"] = *update.Description
	}
	if update.Status != nil {
		record["status"] = string(*update.Status)
	}
	optional := map[string]*string{
		"slug":             update.Slug,
		"content":          update.Content,
		"image":            update.Image,
		"price":            update.Price,
		"location":         update.Location,
		"rejection_reason": update.RejectionReason,
	}
	for column, value := range optional {
		if value != nil {
			record[column] = nullString(value)
		}
	}

	query, args, err := a.db.Update("publications").Set(record).
		Where(goqu.C("id").Eq(id)).
		Returning(publicationColumns...).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build publication update query", err)
	}

	publication, err := scanPublication(a.client.DB().QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("Publication non trouvée")
		}
		return nil, mapWriteError("failed to update publication", "Cette publication existe déjà", err)
	}
	return publication, nil
}

// Delete removes a publication. Its reviews go with it through ON DELETE CASCADE.
func (a *PublicationAdapter) Delete(ctx context.Context, id int64) error {
	query, args, err := a.db.Delete("publications").Where(goqu.C("id").Eq(id)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build publication delete query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to delete publication", err)
	}
	return nil
}

// IncrementViews bumps the view counter atomically
func (a *PublicationAdapter) IncrementViews(ctx context.Context, id int64) error {
	query, args, err := a.db.Update("publications").
		Set(goqu.Record{"views": goqu.L("views + 1")}).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build view increment query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to increment publication views", err)
	}
	return nil
}

func scanPublication(row rowScanner) (*entities.Publication, error) {
	var p entities.Publication
	var pubType, status string
	var slug, content, image, price, location, rejectionReason sql.NullString
	err := row.Scan(
		&p.ID, &p.UserID, &p.CategoryID, &pubType, &p.Title, &slug, &p.Description, &content,
		&image, &price, &location, &status, &rejectionReason, &p.Views, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Type = entities.PublicationType(pubType)
	p.Status = entities.PublicationStatus(status)
	p.Slug = stringPtr(slug)
	p.Content = stringPtr(content)
	p.Image = stringPtr(image)
	p.Price = stringPtr(price)
	p.Location = stringPtr(location)
	p.RejectionReason = stringPtr(rejectionReason)
	return &p, nil
}
